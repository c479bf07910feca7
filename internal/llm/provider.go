package llm

import (
	"context"
	"encoding/json"
)

// Provider generates structured output from a language model. Every
// backend (Anthropic, OpenAI and compatibles, Gemini, the mock) and every
// decorator (logging, retry) implements it.
type Provider interface {
	// Generate returns the model's reply to req. When req.Schema is set the
	// reply has already been validated against it.
	Generate(ctx context.Context, req Request) (*Response, error)
	ModelID() string
}

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

type Message struct {
	Role    Role
	Content string
}

// Request is one generation call. Temperature zero means the provider
// default, which is deterministic for the backends used here.
type Request struct {
	System      string
	Messages    []Message
	Schema      *Schema
	MaxTokens   int
	Temperature float64
}

// UserPrompt builds the single-turn request every personalization call
// sends.
func UserPrompt(system, user string, schema *Schema) Request {
	return Request{
		System:   system,
		Messages: []Message{{Role: RoleUser, Content: user}},
		Schema:   schema,
	}
}

// Schema is a named JSON Schema. Name doubles as the structured output
// name on OpenAI and the compile cache key, so keep it unique per shape.
type Schema struct {
	Name        string
	Description string
	Definition  map[string]any
}

type Response struct {
	// Content holds the reply with any code fence removed.
	Content    json.RawMessage
	Usage      Usage
	Model      string
	StopReason string // "end" on success
}

type Usage struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}
