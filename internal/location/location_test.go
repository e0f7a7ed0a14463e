package location

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLines(t *testing.T) {
	assert.Equal(t, []string{"a\n", "b\n", "c"}, Lines("a\nb\nc"))
	assert.Equal(t, []string{"a\n"}, Lines("a\n"))
	assert.Equal(t, []string{""}, Lines(""))
}

func TestNumberedLines(t *testing.T) {
	toks := NumberedLines("doc.md", "one\ntwo\n")
	require.Len(t, toks, 2)
	assert.Equal(t, TextLocation{"doc.md", 1}, toks[0].Loc)
	assert.Equal(t, "one\n", toks[0].Text)
	assert.Equal(t, TextLocation{"doc.md", 2}, toks[1].Loc)
}

func TestInputStreamPeekNext(t *testing.T) {
	s := NewInputStream("doc.md", "a\nb\n")
	require.False(t, s.Empty())
	assert.Equal(t, "a\n", s.Peek().Text)
	assert.Equal(t, "a\n", s.Next().Text)
	assert.Equal(t, "b\n", s.Next().Text)
	assert.True(t, s.Empty())
}

func TestTextLocationString(t *testing.T) {
	assert.Equal(t, "doc.md:42", TextLocation{"doc.md", 42}.String())
}
