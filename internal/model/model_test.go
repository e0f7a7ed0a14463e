package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReferenceNameRoundTrip(t *testing.T) {
	n := NewReferenceName("kernel.init")
	assert.Equal(t, "kernel", n.Namespace)
	assert.Equal(t, "init", n.Name)
	assert.Equal(t, "kernel.init", n.String())

	n2 := NewReferenceName("greeting")
	assert.Equal(t, "", n2.Namespace)
	assert.Equal(t, "greeting", n2.String())
}

func TestReferenceIdOrdinalString(t *testing.T) {
	init := ReferenceId{Name: NewReferenceName("hi"), Source: "a.md", Ordinal: InitOrdinal}
	assert.True(t, init.IsInit())
	assert.Equal(t, "init", init.OrdinalString())

	numbered := ReferenceId{Name: NewReferenceName("hi"), Source: "a.md", Ordinal: 2}
	assert.False(t, numbered.IsInit())
	assert.Equal(t, "2", numbered.OrdinalString())
}

func TestReferenceMapInsertAndOrder(t *testing.T) {
	m := NewReferenceMap()
	name := NewReferenceName("greeting")

	assert.Equal(t, 0, m.NextOrdinal(name))
	m.Insert(Block{Ref: ReferenceId{Name: name, Source: "a.md", Ordinal: 0}, Content: "hello\n"})
	assert.Equal(t, 1, m.NextOrdinal(name))
	m.Insert(Block{Ref: ReferenceId{Name: name, Source: "a.md", Ordinal: 1}, Content: "world\n"})

	blocks := m.Get(name)
	require.Len(t, blocks, 2)
	assert.Equal(t, "hello\n", blocks[0].Content)
	assert.Equal(t, "world\n", blocks[1].Content)
	assert.True(t, m.Has(name))
	assert.False(t, m.Has(NewReferenceName("nope")))
}

func TestReferenceMapTargets(t *testing.T) {
	m := NewReferenceMap()
	ref := ReferenceId{Name: NewReferenceName("hi.txt"), Source: "a.md", Ordinal: InitOrdinal}

	assert.True(t, m.DeclareTarget("hi.txt", ref))
	assert.False(t, m.DeclareTarget("hi.txt", ref), "duplicate init declaration must be rejected")

	got, ok := m.Target("hi.txt")
	assert.True(t, ok)
	assert.Equal(t, ref, got)

	targets := m.Targets()
	require.Len(t, targets, 1)
	assert.Equal(t, "hi.txt", targets[0].Path)
}

func TestReferenceMapReplaceBlock(t *testing.T) {
	m := NewReferenceMap()
	ref := ReferenceId{Name: NewReferenceName("hi"), Source: "a.md", Ordinal: 0}
	m.Insert(Block{Ref: ref, Content: "old\n"})

	assert.True(t, m.ReplaceBlock(ref, "new\n"))
	b, ok := m.Lookup(ref)
	require.True(t, ok)
	assert.Equal(t, "new\n", b.Content)

	missing := ReferenceId{Name: NewReferenceName("nope"), Source: "a.md", Ordinal: 0}
	assert.False(t, m.ReplaceBlock(missing, "x"))
}
