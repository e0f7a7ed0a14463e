package markdown

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/v1kko/entangled/internal/config"
	"github.com/v1kko/entangled/internal/model"
)

func TestReadHelloWorld(t *testing.T) {
	text := "# Hello\n\n```{.python file=test.py}\nprint(\"Hello, World!\")\n```\n"
	refs := model.NewReferenceMap()

	doc, err := Read("doc.md", text, refs, config.Default())
	require.NoError(t, err)
	assert.Nil(t, doc.Update)

	targets := refs.Targets()
	require.Len(t, targets, 1)
	assert.Equal(t, "test.py", targets[0].Path)

	block, ok := refs.Lookup(targets[0].Init)
	require.True(t, ok)
	assert.Equal(t, "print(\"Hello, World!\")\n", block.Content)
	assert.True(t, block.Ref.IsInit())
}

func TestReadNowebComposition(t *testing.T) {
	text := "```{.txt #greeting}\nhello\n```\n\ntext\n\n```{.txt #greeting}\nworld\n```\n\n```{file=hi.txt}\n<<greeting>>\n```\n"
	refs := model.NewReferenceMap()

	_, err := Read("doc.md", text, refs, config.Default())
	require.NoError(t, err)

	greetings := refs.Get(model.NewReferenceName("greeting"))
	require.Len(t, greetings, 2)
	assert.Equal(t, 0, greetings[0].Ref.Ordinal)
	assert.Equal(t, 1, greetings[1].Ref.Ordinal)

	_, ok := refs.Target("hi.txt")
	assert.True(t, ok)
}

func TestReadDuplicateInitFails(t *testing.T) {
	text := "```{file=a.py}\nx = 1\n```\n\n```{file=a.py}\nx = 2\n```\n"
	refs := model.NewReferenceMap()

	_, err := Read("doc.md", text, refs, config.Default())
	assert.Error(t, err)
}

func TestReadUnterminatedFenceFails(t *testing.T) {
	text := "```{.python file=a.py}\nprint(1)\n"
	refs := model.NewReferenceMap()

	_, err := Read("doc.md", text, refs, config.Default())
	assert.Error(t, err)
}

func TestReadYAMLHeaderOverride(t *testing.T) {
	text := "---\nannotation: naked\n---\n\n```{file=a.py}\nx = 1\n```\n"
	refs := model.NewReferenceMap()

	doc, err := Read("doc.md", text, refs, config.Default())
	require.NoError(t, err)
	require.NotNil(t, doc.Update)
	require.NotNil(t, doc.Update.Annotation)
	assert.Equal(t, config.AnnotationNaked, *doc.Update.Annotation)
}

func TestReadUnlabelledBlockIsIgnored(t *testing.T) {
	text := "```python\nprint('not tracked')\n```\n"
	refs := model.NewReferenceMap()

	_, err := Read("doc.md", text, refs, config.Default())
	require.NoError(t, err)
	assert.Empty(t, refs.Names())
}
