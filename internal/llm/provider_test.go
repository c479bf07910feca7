package llm

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockProvider_ScriptedReplies(t *testing.T) {
	mock := NewMockProvider(
		MockResponse{Content: json.RawMessage(`{"title":"Data Science"}`), Usage: Usage{InputTokens: 10, OutputTokens: 5}},
		MockResponse{Err: &ErrRateLimit{}},
	)

	resp, err := mock.Generate(context.Background(), UserPrompt("sys", "first", nil))
	require.NoError(t, err)
	assert.JSONEq(t, `{"title":"Data Science"}`, string(resp.Content))
	assert.Equal(t, 15, resp.Usage.TotalTokens, "total is derived when unset")
	assert.Equal(t, "end", resp.StopReason)
	assert.Equal(t, "mock", mock.ModelID())

	_, err = mock.Generate(context.Background(), UserPrompt("sys", "second", nil))
	var rl *ErrRateLimit
	assert.ErrorAs(t, err, &rl)

	// Script exhausted and no fallback.
	_, err = mock.Generate(context.Background(), Request{})
	var unavail *ErrProviderUnavailable
	assert.ErrorAs(t, err, &unavail)

	require.Equal(t, 3, mock.CallCount())
	assert.Equal(t, "sys", mock.Calls[0].System)
	assert.Equal(t, "second", mock.Calls[1].Messages[0].Content)
}

func TestMockProvider_Fallback(t *testing.T) {
	mock := NewMockProvider(MockResponse{Content: json.RawMessage(`{"first":true}`)})
	mock.SetFallback(MockResponse{Content: json.RawMessage(`{"again":true}`)})

	for i, want := range []string{`{"first":true}`, `{"again":true}`, `{"again":true}`} {
		resp, err := mock.Generate(context.Background(), Request{})
		require.NoError(t, err, "call %d", i)
		assert.JSONEq(t, want, string(resp.Content), "call %d", i)
	}
}

func TestMockProvider_CancelledContext(t *testing.T) {
	mock := NewMockProvider(MockResponse{Content: json.RawMessage(`{}`)})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := mock.Generate(ctx, Request{})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, mock.CallCount(), "cancelled call is not recorded")
}

func TestPurpose(t *testing.T) {
	ctx := context.Background()
	assert.Equal(t, PurposeUnspecified, PurposeFrom(ctx))
	assert.Equal(t, PurposePersonalize, PurposeFrom(WithPurpose(ctx, PurposePersonalize)))
	assert.Equal(t, PurposeUnspecified, PurposeFrom(WithPurpose(ctx, "")))

	mock := NewMockProvider()
	mock.SetFallback(MockResponse{Content: json.RawMessage(`{}`)})
	_, _ = mock.Generate(WithPurpose(ctx, PurposePersonalize), Request{})
	_, _ = mock.Generate(ctx, Request{})
	assert.Equal(t, []Purpose{PurposePersonalize, PurposeUnspecified}, mock.Purposes)
}

func TestUserPrompt(t *testing.T) {
	schema := &Schema{Name: "career-path"}
	req := UserPrompt("You are a career counselor.", "I like biology.", schema)

	assert.Equal(t, "You are a career counselor.", req.System)
	require.Len(t, req.Messages, 1)
	assert.Equal(t, RoleUser, req.Messages[0].Role)
	assert.Equal(t, "I like biology.", req.Messages[0].Content)
	assert.Same(t, schema, req.Schema)
	assert.Zero(t, req.MaxTokens)
}
