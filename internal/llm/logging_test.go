package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/abhisek/careertree/internal/store"
)

func TestLoggingProvider_RecordsEvents(t *testing.T) {
	s, err := store.Open(filepath.Join(t.TempDir(), "llm.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	defer s.Close()

	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))

	mock := NewMockProvider(
		MockResponse{Content: json.RawMessage(`{"ok":true}`), Usage: Usage{InputTokens: 12, OutputTokens: 3}},
		MockResponse{Err: &ErrProviderUnavailable{}},
	)
	p := WithLogging(mock, "mock", s.EventRepo(), logger)

	ctx := WithPurpose(context.Background(), "personalize")
	req := Request{
		System:   "You are a career guidance counselor.",
		Messages: []Message{{Role: RoleUser, Content: "Suggest a path."}},
		Schema:   &Schema{Name: "career-path", Definition: map[string]any{"type": "object"}},
	}
	if _, err := p.Generate(ctx, req); err != nil {
		t.Fatalf("first call: %v", err)
	}
	if _, err := p.Generate(ctx, req); err == nil {
		t.Fatal("expected second call to fail")
	}

	events, err := s.EventRepo().QueryLLMEvents(context.Background(), store.QueryOpts{})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("got %d events, want 2", len(events))
	}

	failed, ok := events[0], events[1]
	if failed.Success || failed.ErrorMessage == "" || failed.ErrorKind != "unavailable" {
		t.Errorf("failed event = %+v", failed)
	}
	if !ok.Success || ok.InputTokens != 12 || ok.Purpose != "personalize" || ok.Provider != "mock" {
		t.Errorf("ok event = %+v", ok)
	}
	if !strings.Contains(ok.RequestBody, "[schema: career-path]") {
		t.Errorf("request body missing schema: %q", ok.RequestBody)
	}
	if ok.ResponseBody != `{"ok":true}` {
		t.Errorf("response body = %q", ok.ResponseBody)
	}

	out := logs.String()
	if !strings.Contains(out, "llm request failed") || !strings.Contains(out, "purpose=personalize") {
		t.Errorf("unexpected log output: %s", out)
	}
}

func TestLoggingProvider_NilRepo(t *testing.T) {
	mock := NewMockProvider(MockResponse{Content: json.RawMessage(`{}`)})
	p := WithLogging(mock, "mock", nil, nil)
	if _, err := p.Generate(context.Background(), Request{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.ModelID() != "mock" {
		t.Errorf("ModelID() = %q", p.ModelID())
	}
}

func TestNewProvider_Mock(t *testing.T) {
	p, err := NewProvider(context.Background(), Config{Provider: "mock"}, nil, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.ModelID() != "mock" {
		t.Errorf("ModelID() = %q", p.ModelID())
	}

	if _, err := NewProvider(context.Background(), Config{Provider: "nope"}, nil, nil); err == nil {
		t.Fatal("expected error for unknown provider")
	}
}

func TestNewProvider_MockResponseFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "path.json")
	if err := os.WriteFile(path, []byte(`{"title":"Nursing"}`), 0o644); err != nil {
		t.Fatal(err)
	}
	p, err := NewProvider(context.Background(), Config{Provider: "mock", Mock: MockConfig{ResponseFile: path}}, nil, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for range 2 {
		resp, err := p.Generate(context.Background(), Request{})
		if err != nil {
			t.Fatalf("generate: %v", err)
		}
		if string(resp.Content) != `{"title":"Nursing"}` {
			t.Fatalf("content = %s", resp.Content)
		}
	}

	bad := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(bad, []byte("not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := NewProvider(context.Background(), Config{Provider: "mock", Mock: MockConfig{ResponseFile: bad}}, nil, nil); err == nil {
		t.Fatal("expected error for invalid mock response")
	}
}

