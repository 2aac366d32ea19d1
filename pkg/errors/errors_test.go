package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppError_Unwrap(t *testing.T) {
	cause := errors.New("connection reset")
	err := NewUnavailableError("get device", cause)

	assert.ErrorIs(t, err, cause)
}

func TestAppError_TypeChecks(t *testing.T) {
	assert.True(t, IsValidation(NewValidationError("id is required")))
	assert.True(t, IsNotFound(NewNotFoundError("device")))
	assert.False(t, IsNotFound(NewValidationError("id is required")))
	assert.False(t, IsNotFound(errors.New("plain")))
}

func TestAppError_TypeChecksThroughWrapping(t *testing.T) {
	wrapped := fmt.Errorf("handling request: %w", NewNotFoundError("device"))

	assert.True(t, IsNotFound(wrapped))
}

func TestNewNotFoundError_Message(t *testing.T) {
	err := NewNotFoundError("user association")

	assert.Equal(t, "user association not found", err.Message)
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{NewValidationError("bad"), http.StatusBadRequest},
		{NewNotFoundError("device"), http.StatusNotFound},
		{NewUnavailableError("op", errors.New("x")), http.StatusInternalServerError},
		{NewThrottledError("op", errors.New("x")), http.StatusInternalServerError},
		{NewDatabaseError("op", nil), http.StatusInternalServerError},
		{errors.New("plain"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, HTTPStatus(tt.err))
	}
}

func TestWithDetails(t *testing.T) {
	err := NewDatabaseError("cascade delete", nil).WithDetails(map[string]interface{}{
		"deviceId": "dev-1",
	})

	require.NotNil(t, err.Details)
	assert.Equal(t, "dev-1", err.Details["deviceId"])
}
