package llm

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sort"

	json "github.com/goccy/go-json"

	"github.com/abhisek/careertree/internal/store"
)

type providerFactory func(ctx context.Context, cfg Config) (Provider, error)

var providerFactories = map[string]providerFactory{
	"anthropic": func(_ context.Context, cfg Config) (Provider, error) {
		return NewAnthropicProvider(cfg.Anthropic)
	},
	"openai": func(_ context.Context, cfg Config) (Provider, error) {
		return NewOpenAIProvider(cfg.OpenAI)
	},
	"openrouter": func(_ context.Context, cfg Config) (Provider, error) {
		return NewOpenRouterProvider(cfg.OpenRouter)
	},
	"gemini": func(ctx context.Context, cfg Config) (Provider, error) {
		return NewGeminiProvider(ctx, cfg.Gemini)
	},
	"mock": func(_ context.Context, cfg Config) (Provider, error) {
		return newConfiguredMock(cfg.Mock)
	},
}

// NewProvider builds the configured provider wrapped with event logging.
// Retries are the caller's choice; see WithRetry.
func NewProvider(ctx context.Context, cfg Config, eventRepo store.EventRepo, logger *slog.Logger) (Provider, error) {
	build, ok := providerFactories[cfg.Provider]
	if !ok {
		return nil, fmt.Errorf("unknown LLM provider: %q", cfg.Provider)
	}
	base, err := build(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("initializing %s provider: %w", cfg.Provider, err)
	}
	return WithLogging(base, cfg.Provider, eventRepo, logger), nil
}

func newConfiguredMock(cfg MockConfig) (*MockProvider, error) {
	mock := NewMockProvider()
	if cfg.ResponseFile == "" {
		return mock, nil
	}
	data, err := os.ReadFile(cfg.ResponseFile)
	if err != nil {
		return nil, fmt.Errorf("read mock response: %w", err)
	}
	if !json.Valid(data) {
		return nil, fmt.Errorf("mock response %s is not valid JSON", cfg.ResponseFile)
	}
	mock.SetFallback(MockResponse{Content: data})
	return mock, nil
}

// ProviderNames lists the accepted provider settings, sorted.
func ProviderNames() []string {
	names := make([]string, 0, len(providerFactories))
	for name := range providerFactories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
