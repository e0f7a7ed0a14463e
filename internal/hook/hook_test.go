package hook

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/v1kko/entangled/internal/config"
	"github.com/v1kko/entangled/internal/markdown"
	"github.com/v1kko/entangled/internal/model"
)

func TestWordcountRegistered(t *testing.T) {
	h, ok := Lookup("wordcount")
	require.True(t, ok)
	assert.Equal(t, 0, h.Priority())
}

func TestResolveSkipsUnknownNames(t *testing.T) {
	hooks := Resolve([]string{"wordcount", "nonexistent"})
	require.Len(t, hooks, 1)
}

func TestWordcountCountsExpandedContent(t *testing.T) {
	refs := model.NewReferenceMap()
	text := "```{.python #greeting}\nprint(\"hello world\")\n```\n\n```{.python file=hi.py}\n<<greeting>>\n```\n"
	_, err := markdown.Read("doc.md", text, refs, config.Default())
	require.NoError(t, err)

	h, _ := Lookup("wordcount")
	require.NoError(t, h.PostTangle(refs))

	counts := WordCounts()
	assert.Equal(t, 2, counts["hi.py"])
}
