package apperr

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindsMatchWithErrorsIs(t *testing.T) {
	err := Validation("title is required")
	assert.ErrorIs(t, err, ErrValidation)
	assert.NotErrorIs(t, err, ErrNotFound)
	assert.Equal(t, "validation error: title is required", err.Error())

	assert.ErrorIs(t, NotFound("document %s", "d-1"), ErrNotFound)
	assert.ErrorIs(t, Conflict("document %s is %s", "d-1", "rejected"), ErrConflict)
	assert.ErrorIs(t, Unauthorized("invalid credentials"), ErrUnauthorized)
}

func TestStorageKeepsCause(t *testing.T) {
	cause := errors.New("disk full")
	err := Storage(cause, "put %s", "ref")

	assert.ErrorIs(t, err, ErrStorage)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "put ref")
}
