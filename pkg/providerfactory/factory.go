package providerfactory

import (
	"fmt"
	"log/slog"

	"mercator-hq/meter/pkg/providers"
	"mercator-hq/meter/pkg/providers/anthropic"
	"mercator-hq/meter/pkg/providers/gemini"
	"mercator-hq/meter/pkg/providers/openai"
)

// Constructor builds a provider from its configuration.
type Constructor func(providers.ProviderConfig) (providers.Provider, error)

var constructors = map[providers.Type]Constructor{
	providers.TypeOpenAI:    newOpenAI,
	providers.TypeAzure:     newOpenAI,
	providers.TypeDeepSeek:  newOpenAI,
	providers.TypeLocal:     newOpenAI,
	providers.TypeAnthropic: func(c providers.ProviderConfig) (providers.Provider, error) { return anthropic.NewProvider(c) },
	providers.TypeGemini:    func(c providers.ProviderConfig) (providers.Provider, error) { return gemini.NewProvider(c) },
}

func newOpenAI(c providers.ProviderConfig) (providers.Provider, error) {
	return openai.NewProvider(c)
}

// Model used when a query does not name one.
var defaultModels = map[providers.Type]string{
	providers.TypeOpenAI:    "gpt-4o",
	providers.TypeAzure:     "gpt-4o-ms",
	providers.TypeDeepSeek:  "deepseek-chat",
	providers.TypeAnthropic: "claude-3-5-sonnet-20241022",
	providers.TypeGemini:    "gemini-2.0-flash-exp",
	providers.TypeLocal:     "Qwen/Qwen2.5-32B-Instruct-AWQ",
}

// Endpoint used when the configuration does not set one.
var defaultBaseURLs = map[providers.Type]string{
	providers.TypeOpenAI:    "https://api.openai.com/v1",
	providers.TypeAzure:     "https://msopenai.openai.azure.com",
	providers.TypeDeepSeek:  "https://api.deepseek.com/v1",
	providers.TypeAnthropic: anthropic.DefaultBaseURL,
	providers.TypeGemini:    gemini.DefaultBaseURL,
	providers.TypeLocal:     "http://localhost:8006/v1",
}

// Environment variable holding each provider's credential.
var apiKeyEnv = map[providers.Type]string{
	providers.TypeOpenAI:    "OPENAI_API_KEY",
	providers.TypeAzure:     "AZURE_OPENAI_API_KEY",
	providers.TypeDeepSeek:  "DEEPSEEK_API_KEY",
	providers.TypeAnthropic: "ANTHROPIC_API_KEY",
	providers.TypeGemini:    "GOOGLE_API_KEY",
}

// DefaultModel returns the built-in default model for a provider.
func DefaultModel(t providers.Type) string {
	return defaultModels[t]
}

// DefaultBaseURL returns the built-in endpoint for a provider.
func DefaultBaseURL(t providers.Type) string {
	return defaultBaseURLs[t]
}

// APIKeyEnv returns the environment variable that holds a provider's API key,
// or "" for providers that need none.
func APIKeyEnv(t providers.Type) string {
	return apiKeyEnv[t]
}

// NewProvider creates a provider instance for config.Type.
//
// A missing base URL is filled from DefaultBaseURL. A missing API key is a
// ConfigError for every provider except local, and is reported before any
// network call.
func NewProvider(config providers.ProviderConfig) (providers.Provider, error) {
	if config.Type == "" {
		t, err := providers.ParseType(config.Name)
		if err != nil {
			return nil, err
		}
		config.Type = t
	}
	if config.Name == "" {
		config.Name = string(config.Type)
	}

	construct, ok := constructors[config.Type]
	if !ok {
		return nil, &providers.ConfigError{
			Provider: config.Name,
			Field:    "type",
			Message:  fmt.Sprintf("unsupported provider type: %q", config.Type),
		}
	}

	if config.BaseURL == "" {
		config.BaseURL = DefaultBaseURL(config.Type)
	}

	if config.APIKey == "" && config.Type != providers.TypeLocal {
		return nil, &providers.ConfigError{
			Provider: config.Name,
			Field:    "api_key",
			Message:  fmt.Sprintf("%s not found in environment variables", APIKeyEnv(config.Type)),
		}
	}

	slog.Debug("creating provider",
		"name", config.Name,
		"type", config.Type,
		"base_url", config.BaseURL,
	)

	provider, err := construct(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create provider %q: %w", config.Name, err)
	}

	return provider, nil
}
