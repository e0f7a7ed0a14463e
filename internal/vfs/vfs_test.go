package vfs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryWriteReadExists(t *testing.T) {
	fs := NewMemory()
	assert.False(t, fs.IsReal())
	assert.False(t, fs.Exists("a/b.txt"))

	require.NoError(t, fs.WriteString("a/b.txt", "hello\n"))
	assert.True(t, fs.Exists("a/b.txt"))

	content, err := fs.ReadString("a/b.txt")
	require.NoError(t, err)
	assert.Equal(t, "hello\n", content)
}

func TestStatOfChangesWithContent(t *testing.T) {
	fs := NewMemory()
	require.NoError(t, fs.WriteString("f.txt", "one"))
	s1, err := fs.StatOf("f.txt")
	require.NoError(t, err)

	require.NoError(t, fs.WriteString("f.txt", "two"))
	s2, err := fs.StatOf("f.txt")
	require.NoError(t, err)

	assert.NotEqual(t, s1.Hex, s2.Hex)
}

func TestRemoveAbsentIsNoop(t *testing.T) {
	fs := NewMemory()
	assert.NoError(t, fs.Remove("nope.txt"))
}

func TestGlob(t *testing.T) {
	fs := NewMemory()
	require.NoError(t, fs.WriteString("docs/a.md", "x"))
	require.NoError(t, fs.WriteString("docs/b.md", "y"))
	require.NoError(t, fs.WriteString("docs/c.txt", "z"))

	matches, err := fs.Glob("docs/*.md")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"docs/a.md", "docs/b.md"}, matches)
}
