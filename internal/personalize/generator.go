package personalize

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/abhisek/careertree/internal/llm"
	"github.com/abhisek/careertree/internal/questionnaire"
	"github.com/abhisek/careertree/internal/skilltree"
)

// ErrExternalService wraps any failure of the path generator: provider
// errors, timeouts and payloads that fail validation. The caller decides
// whether and when to retry.
type ErrExternalService struct {
	Err       error
	Retryable bool
}

func (e *ErrExternalService) Error() string {
	return fmt.Sprintf("career path generation failed: %v", e.Err)
}

func (e *ErrExternalService) Unwrap() error { return e.Err }

// Config controls the behavior of the Generator.
type Config struct {
	// Timeout bounds one Generate call. Zero means no timeout beyond the
	// caller's context.
	Timeout time.Duration

	// MaxTokens is the token budget for the response.
	MaxTokens int

	// Temperature controls output randomness (0.0-1.0).
	Temperature float64
}

// DefaultConfig returns the recommended generator settings.
func DefaultConfig() Config {
	return Config{
		Timeout:     60 * time.Second,
		MaxTokens:   8192,
		Temperature: 0.7,
	}
}

// Generator produces candidate career paths with an LLM provider.
type Generator struct {
	provider llm.Provider
	config   Config
}

// NewGenerator creates a Generator. The provider is used as given; wrap
// it with llm.WithRetry beforehand if retries are wanted.
func NewGenerator(provider llm.Provider, cfg Config) *Generator {
	return &Generator{provider: provider, config: cfg}
}

// Generate asks the provider for a career path tailored to answers.
// catalog and completed give the model the user's current tree; either
// may be empty. Answers are not validated here.
func (g *Generator) Generate(ctx context.Context, answers questionnaire.Answers, catalog *skilltree.Catalog, completed []string) (*Candidate, error) {
	ctx = llm.WithPurpose(ctx, llm.PurposePersonalize)
	if g.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.config.Timeout)
		defer cancel()
	}

	req := llm.UserPrompt(systemPrompt, buildUserMessage(answers, catalog, completed), CandidateSchema)
	req.MaxTokens = g.config.MaxTokens
	req.Temperature = g.config.Temperature

	resp, err := g.provider.Generate(ctx, req)
	if err != nil {
		// Only a request the provider refused outright is final.
		var rejected *llm.ErrRejected
		return nil, &ErrExternalService{Err: err, Retryable: !errors.As(err, &rejected)}
	}

	// Providers validate too, but the mock and any future provider may
	// not; the payload is untrusted either way.
	var c Candidate
	if err := llm.DecodeResponse(CandidateSchema, resp.Content, &c); err != nil {
		return nil, &ErrExternalService{Err: err, Retryable: true}
	}
	if len(c.Nodes) == 0 {
		return nil, &ErrExternalService{Err: errors.New("response has no nodes"), Retryable: true}
	}
	return &c, nil
}

// MergeRecommendation validates answers, generates a path and merges it
// into catalog. It is the whole personalization step for callers that
// do not need to separate the slow generation from the merge.
func (g *Generator) MergeRecommendation(ctx context.Context, catalog *skilltree.Catalog, completed []string, answers questionnaire.Answers) (*Result, error) {
	if err := questionnaire.Validate(questionnaire.Bank(), answers); err != nil {
		return nil, err
	}
	c, err := g.Generate(ctx, answers, catalog, completed)
	if err != nil {
		return nil, err
	}
	return Merge(catalog, completed, *c)
}
