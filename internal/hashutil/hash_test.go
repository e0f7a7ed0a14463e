package hashutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDigestStable(t *testing.T) {
	a := Digest("print(\"Hello, World!\")\n")
	b := Digest("print(\"Hello, World!\")\n")
	assert.Equal(t, a, b)
	assert.Len(t, a, 16)
}

func TestDigestDiffers(t *testing.T) {
	assert.NotEqual(t, Digest("a"), Digest("b"))
}
