package codefile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/v1kko/entangled/internal/location"
	"github.com/v1kko/entangled/internal/model"
)

func TestReadTopLevelSimple(t *testing.T) {
	text := "header stuff\n" +
		"# ~/~ begin <<doc.md#greeting>>[0]\n" +
		"hello\n" +
		"# ~/~ end\n"

	input := location.NewInputStream("hi.txt", text)
	blocks, err := ReadTopLevel(input)
	require.NoError(t, err)
	require.Len(t, blocks, 1)
	assert.Equal(t, "hello\n", blocks[0].Content)
	assert.Equal(t, model.NewReferenceName("greeting"), blocks[0].Ref.Name)
	assert.Equal(t, 0, blocks[0].Ref.Ordinal)
}

func TestReadTopLevelInitBlock(t *testing.T) {
	text := "# ~/~ begin <<doc.md#hi.txt>>[init]\n" +
		"# ~/~ begin <<doc.md#greeting>>[0]\n" +
		"hello\n" +
		"# ~/~ end\n" +
		"<<greeting>>\n" +
		"# ~/~ begin <<doc.md#greeting>>[1]\n" +
		"world\n" +
		"# ~/~ end\n" +
		"# ~/~ end\n"

	input := location.NewInputStream("hi.txt", text)
	blocks, err := ReadTopLevel(input)
	require.NoError(t, err)
	require.Len(t, blocks, 3)

	var init *model.Block
	for i := range blocks {
		if blocks[i].Ref.IsInit() {
			init = &blocks[i]
		}
	}
	require.NotNil(t, init)
	assert.Equal(t, "<<greeting>>\n<<greeting>>\n", init.Content)
}

func TestReadIndentationMismatchFails(t *testing.T) {
	text := "# ~/~ begin <<doc.md#greeting>>[0]\n" +
		"bad indent\n" +
		"  # ~/~ end\n"

	input := location.NewInputStream("hi.txt", text)
	_, err := ReadTopLevel(input)
	assert.Error(t, err)
}

func TestReadUnexpectedEOFFails(t *testing.T) {
	text := "# ~/~ begin <<doc.md#greeting>>[0]\n" +
		"hello\n"

	input := location.NewInputStream("hi.txt", text)
	_, err := ReadTopLevel(input)
	assert.Error(t, err)
}

func TestReadIndentedBlock(t *testing.T) {
	text := "    # ~/~ begin <<doc.md#indented>>[0]\n" +
		"    line one\n" +
		"    # ~/~ end\n"

	input := location.NewInputStream("hi.txt", text)
	blocks, err := ReadTopLevel(input)
	require.NoError(t, err)
	require.Len(t, blocks, 1)
	assert.Equal(t, "line one\n", blocks[0].Content)
}
