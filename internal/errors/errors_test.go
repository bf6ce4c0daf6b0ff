package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestError_HTTPStatus(t *testing.T) {
	tests := []struct {
		err    *Error
		status int
	}{
		{ValidationError("bad input"), http.StatusBadRequest},
		{NotFoundError("missing"), http.StatusNotFound},
		{PersistenceError("write failed", stderrors.New("disk full")), http.StatusInternalServerError},
		{InternalError("boom", nil), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.status, tt.err.HTTPStatus())
	}
}

func TestError_ErrorStringIncludesCause(t *testing.T) {
	cause := stderrors.New("disk full")
	err := PersistenceError("write failed", cause)

	assert.Contains(t, err.Error(), "persistence")
	assert.Contains(t, err.Error(), "disk full")
	assert.ErrorIs(t, err, cause)
}

func TestAsStructuredError(t *testing.T) {
	structured := NotFoundError("missing")
	assert.Same(t, structured, AsStructuredError(structured))

	wrapped := AsStructuredError(fmt.Errorf("wrapping: %w", structured))
	assert.Same(t, structured, wrapped)

	plain := AsStructuredError(stderrors.New("plain"))
	require.NotNil(t, plain)
	assert.Equal(t, TypeInternal, plain.Type)

	assert.Nil(t, AsStructuredError(nil))
}

func TestTypePredicates(t *testing.T) {
	assert.True(t, IsNotFound(NotFoundError("x")))
	assert.False(t, IsNotFound(ValidationError("x")))
	assert.True(t, IsValidation(ValidationError("x")))
	assert.False(t, IsValidation(stderrors.New("x")))
}

func TestWithContext(t *testing.T) {
	err := NotFoundError("session code not found").WithContext("session_code", "ABCDEF")

	resp := err.ToResponse()
	assert.Equal(t, "session code not found", resp.Error)
	assert.Equal(t, TypeNotFound, resp.Type)
	assert.Equal(t, "ABCDEF", resp.Context["session_code"])
}
