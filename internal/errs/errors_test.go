package errs

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/v1kko/entangled/internal/location"
)

func TestParseErrorMessage(t *testing.T) {
	err := NewParseError(location.TextLocation{Path: "a.md", Line: 3}, "unexpected end of file")
	assert.Contains(t, err.Error(), "a.md:3")
	assert.Contains(t, err.Error(), "unexpected end of file")
}

func TestHelpfulUserErrorUnwraps(t *testing.T) {
	err := NewHelpfulUserError("run `entangled reset`", "database version mismatch: %s", "0.1")
	assert.Contains(t, err.Error(), "run `entangled reset`")
	assert.Contains(t, err.Error(), "0.1")
	assert.NotNil(t, errors.Unwrap(err))
}

func TestConflictErrorNamesPath(t *testing.T) {
	err := NewConflictError("test.py")
	assert.Contains(t, err.Error(), "test.py")
}
