package shared

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppErrorWrapping(t *testing.T) {
	cause := errors.New("row missing")
	err := NewNotFoundError(cause, "User not found")

	assert.Equal(t, 404, err.StatusCode)
	assert.Equal(t, "User not found: row missing", err.Error())
	assert.ErrorIs(t, err, cause)
}

func TestGetAppErrorThroughWrap(t *testing.T) {
	inner := NewConflictError(errors.New("dup"), "Already exists")
	wrapped := fmt.Errorf("saving grant: %w", inner)

	appErr, ok := GetAppError(wrapped)
	require.True(t, ok)
	assert.Equal(t, 409, appErr.StatusCode)

	_, ok = GetAppError(errors.New("plain"))
	assert.False(t, ok)
}

func TestStatusCodes(t *testing.T) {
	assert.Equal(t, 400, NewBadRequestError(nil, "").StatusCode)
	assert.Equal(t, 403, NewUnauthorizedError(nil, "").StatusCode)
	assert.Equal(t, 500, NewInternalError(nil, "").StatusCode)
}
