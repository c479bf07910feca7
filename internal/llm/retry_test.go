package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func retryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts: 3,
		InitialWait: 1 * time.Millisecond,
		MaxWait:     10 * time.Millisecond,
		Multiplier:  2.0,
	}
}

var okContent = json.RawMessage(`{"ok":true}`)

func unavailable() MockResponse {
	return MockResponse{Err: &ErrProviderUnavailable{Err: errors.New("down")}}
}

func TestRetry_Attempts(t *testing.T) {
	tests := []struct {
		name      string
		script    []MockResponse
		wantCalls int
		wantErr   bool
	}{
		{"succeeds first", []MockResponse{{Content: okContent}}, 1, false},
		{"transient then success", []MockResponse{unavailable(), {Content: okContent}}, 2, false},
		{"all attempts fail", []MockResponse{unavailable(), unavailable(), unavailable()}, 3, true},
		{"max tokens not retried", []MockResponse{{Err: &ErrMaxTokensExceeded{}}, {Content: okContent}}, 1, true},
		{"rejection not retried", []MockResponse{{Err: &ErrRejected{StatusCode: http.StatusUnauthorized}}, {Content: okContent}}, 1, true},
		{
			"invalid response retried once",
			[]MockResponse{
				{Err: &ErrInvalidResponse{Err: errors.New("bad")}},
				{Err: &ErrInvalidResponse{Err: errors.New("bad")}},
				{Content: okContent},
			},
			2, true,
		},
		{
			"rate limit hint",
			[]MockResponse{{Err: &ErrRateLimit{RetryAfter: time.Millisecond, Err: errors.New("429")}}, {Content: okContent}},
			2, false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := NewMockProvider(tt.script...)
			resp, err := WithRetry(mock, retryConfig()).Generate(context.Background(), Request{})
			assert.Equal(t, tt.wantCalls, mock.CallCount())
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.JSONEq(t, string(okContent), string(resp.Content))
		})
	}
}

func TestRetry_ContextCancellation(t *testing.T) {
	mock := NewMockProvider(unavailable(), unavailable(), MockResponse{Content: okContent})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := WithRetry(mock, retryConfig()).Generate(ctx, Request{})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, mock.CallCount())
}

func TestRetry_StopsBeforeDeadline(t *testing.T) {
	mock := NewMockProvider(
		MockResponse{Err: &ErrRateLimit{RetryAfter: time.Minute, Err: errors.New("429")}},
		MockResponse{Content: okContent},
	)
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	start := time.Now()
	_, err := WithRetry(mock, retryConfig()).Generate(ctx, Request{})

	var rl *ErrRateLimit
	assert.ErrorAs(t, err, &rl)
	assert.Equal(t, 1, mock.CallCount())
	assert.Less(t, time.Since(start), 500*time.Millisecond)
}

func TestRetry_ZeroAttemptsMeansOne(t *testing.T) {
	mock := NewMockProvider(MockResponse{Content: okContent})
	_, err := WithRetry(mock, RetryConfig{}).Generate(context.Background(), Request{})
	require.NoError(t, err)
	assert.Equal(t, 1, mock.CallCount())
}

func TestRetry_BackoffCapped(t *testing.T) {
	r := &RetryProvider{config: RetryConfig{InitialWait: 100 * time.Millisecond, MaxWait: time.Second, Multiplier: 10}}
	for attempt := range 5 {
		wait := r.backoff(attempt, errors.New("x"))
		assert.LessOrEqual(t, wait, 1200*time.Millisecond, "attempt %d", attempt)
		assert.GreaterOrEqual(t, wait, 80*time.Millisecond, "attempt %d", attempt)
	}
}

func TestRetry_ModelIDDelegates(t *testing.T) {
	assert.Equal(t, "mock", WithRetry(NewMockProvider(), retryConfig()).ModelID())
}

func TestIsTransient(t *testing.T) {
	assert.False(t, IsTransient(nil))
	assert.False(t, IsTransient(context.DeadlineExceeded))
	assert.False(t, IsTransient(&ErrRejected{StatusCode: 400}))
	assert.False(t, IsTransient(&ErrMaxTokensExceeded{}))
	assert.True(t, IsTransient(&ErrProviderUnavailable{}))
	assert.True(t, IsTransient(&ErrRateLimit{}))
	assert.True(t, IsTransient(errors.New("connection reset")))
}

func TestClassifyStatus(t *testing.T) {
	base := errors.New("api")

	var rl *ErrRateLimit
	require.ErrorAs(t, classifyStatus(http.StatusTooManyRequests, 3*time.Second, base), &rl)
	assert.Equal(t, 3*time.Second, rl.RetryAfter)

	var rejected *ErrRejected
	require.ErrorAs(t, classifyStatus(http.StatusUnauthorized, 0, base), &rejected)
	assert.Equal(t, http.StatusUnauthorized, rejected.StatusCode)

	var unavail *ErrProviderUnavailable
	assert.ErrorAs(t, classifyStatus(http.StatusBadGateway, 0, base), &unavail)
	assert.ErrorAs(t, classifyStatus(http.StatusRequestTimeout, 0, base), &unavail)
	assert.ErrorIs(t, classifyStatus(500, 0, base), base)

	assert.Equal(t, 7*time.Second, parseRetryAfter(http.Header{"Retry-After": {"7"}}))
	assert.Zero(t, parseRetryAfter(http.Header{"Retry-After": {"soon"}}))
	assert.Zero(t, parseRetryAfter(nil))
}

func TestErrorKind(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{nil, ""},
		{&ErrRateLimit{}, "rate_limit"},
		{&ErrRejected{StatusCode: 401}, "rejected"},
		{&ErrProviderUnavailable{}, "unavailable"},
		{&ErrInvalidResponse{Err: errors.New("bad json")}, "invalid_response"},
		{&ErrMaxTokensExceeded{}, "max_tokens"},
		{&ErrProviderUnavailable{Err: context.DeadlineExceeded}, "timeout"},
		{fmt.Errorf("generate: %w", context.Canceled), "canceled"},
		{errors.New("boom"), "other"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ErrorKind(tt.err), "%v", tt.err)
	}
}
