package decipher

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpdateFromResponse(t *testing.T) {
	r := NewRateLimiter()

	resp := &http.Response{Header: http.Header{}}
	resp.Header.Set(HeaderRateRemaining, "42")
	resp.Header.Set(HeaderRateLimit, "1800")
	resp.Header.Set(HeaderRateReset, "1700000000")

	r.UpdateFromResponse(resp)

	assert.Equal(t, 42, r.Remaining())
	assert.Equal(t, 1800, r.Limit())
	assert.Equal(t, time.Unix(1700000000, 0), r.ResetTime())
}

func TestUpdateFromResponseIgnoresGarbage(t *testing.T) {
	r := NewRateLimiter()

	resp := &http.Response{Header: http.Header{}}
	resp.Header.Set(HeaderRateRemaining, "not-a-number")

	r.UpdateFromResponse(resp)
	assert.Equal(t, DefaultRateLimit, r.Remaining())
}

func TestCheckRateLimit(t *testing.T) {
	r := NewRateLimiter()

	resp := &http.Response{
		StatusCode: http.StatusTooManyRequests,
		Header:     http.Header{},
	}
	resp.Header.Set(HeaderRetryAfter, "30")

	err := r.CheckRateLimit(resp)
	require.Error(t, err)

	assert.True(t, IsRateLimited(err))
	assert.True(t, IsTransient(err))

	rlErr, ok := err.(*RateLimitError)
	require.True(t, ok)
	assert.WithinDuration(t, time.Now().Add(30*time.Second), rlErr.ResetAt, 2*time.Second)
}

func TestCheckRateLimitOKResponse(t *testing.T) {
	r := NewRateLimiter()

	resp := &http.Response{StatusCode: http.StatusOK, Header: http.Header{}}
	assert.NoError(t, r.CheckRateLimit(resp))
	assert.NoError(t, r.CheckRateLimit(nil))
}
