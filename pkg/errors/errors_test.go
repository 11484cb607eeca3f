package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConstructorsCarryTypeAndStatus(t *testing.T) {
	tests := []struct {
		name    string
		err     *AppError
		errType ErrorType
		status  int
	}{
		{"validation", NewValidationError("bad input"), ErrorTypeValidation, http.StatusBadRequest},
		{"not found", NewNotFoundError("Map"), ErrorTypeNotFound, http.StatusNotFound},
		{"conflict", NewConflictError("Vote budget exceeded"), ErrorTypeConflict, http.StatusConflict},
		{"forbidden", NewForbiddenError(""), ErrorTypeForbidden, http.StatusForbidden},
		{"rate limit", NewRateLimitError("Rate limit exceeded"), ErrorTypeRateLimit, http.StatusTooManyRequests},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.errType, tt.err.Type)
			assert.Equal(t, tt.status, tt.err.HTTPStatus)
			assert.NotEmpty(t, tt.err.Message)
		})
	}
}

func TestRateLimitPredicate(t *testing.T) {
	err := NewRateLimitError("")
	assert.True(t, IsRateLimit(err))
	assert.Equal(t, "rate limit exceeded", err.Message)

	// the predicate sees through wrapping
	wrapped := fmt.Errorf("request rejected: %w", err)
	assert.True(t, IsRateLimit(wrapped))

	assert.False(t, IsRateLimit(NewConflictError("taken")))
	assert.False(t, IsRateLimit(errors.New("plain")))
}

func TestWrapPreservesAppError(t *testing.T) {
	inner := NewNotFoundError("Insight")
	wrapped := Wrap(inner, "loading insight")
	require.True(t, IsNotFound(wrapped))
	assert.Contains(t, wrapped.Error(), "loading insight")

	assert.Nil(t, Wrap(nil, "ignored"))
}
