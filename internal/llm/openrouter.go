package llm

import (
	"fmt"
	"net/http"
)

const defaultOpenRouterBaseURL = "https://openrouter.ai/api/v1"

// openRouterHeaders identify the app on OpenRouter's dashboards.
var openRouterHeaders = http.Header{
	"HTTP-Referer": {"https://github.com/abhisek/careertree"},
	"X-Title":      {"careertree"},
}

// NewOpenRouterProvider creates a provider for the OpenRouter API, which
// is OpenAI-compatible. Model names are OpenRouter's own
// ("vendor/model") and pass through unmapped.
func NewOpenRouterProvider(cfg OpenRouterConfig) (*OpenAIProvider, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openrouter API key is required")
	}
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultOpenRouterBaseURL
	}
	return newOpenAICompatible(OpenAIConfig{
		APIKey:  cfg.APIKey,
		Model:   cfg.Model,
		BaseURL: baseURL,
	}, nil, openRouterHeaders), nil
}
