package decipher

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAPIErrorMessage(t *testing.T) {
	err := &APIError{StatusCode: 404, Message: "survey or XML file not found", URL: "https://example.com/x"}
	assert.Contains(t, err.Error(), "404")
	assert.Contains(t, err.Error(), "survey or XML file not found")
}

func TestRateLimitErrorMessage(t *testing.T) {
	err := &RateLimitError{ResetAt: time.Unix(1700000000, 0)}
	assert.Contains(t, err.Error(), "rate limit exceeded")
}

func TestStatusPredicates(t *testing.T) {
	wrapped := fmt.Errorf("download: %w", &APIError{StatusCode: http.StatusNotFound})
	assert.True(t, IsNotFound(wrapped))
	assert.False(t, IsUnauthorized(wrapped))

	assert.True(t, IsUnauthorized(&APIError{StatusCode: 401}))
	assert.True(t, IsForbidden(&APIError{StatusCode: 403}))
	assert.True(t, IsAuthFailure(&APIError{StatusCode: 403}))
	assert.False(t, IsAuthFailure(&APIError{StatusCode: 500}))
}

func TestIsTransient(t *testing.T) {
	assert.False(t, IsTransient(nil))
	assert.False(t, IsTransient(errors.New("plain")))
	assert.False(t, IsTransient(&APIError{StatusCode: 404}))
	assert.True(t, IsTransient(&APIError{StatusCode: 500}))
	assert.True(t, IsTransient(&APIError{StatusCode: 429}))
	assert.True(t, IsTransient(&RateLimitError{}))
	assert.True(t, IsTransient(fmt.Errorf("call: %w", context.DeadlineExceeded)))
}
