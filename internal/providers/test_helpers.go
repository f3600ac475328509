package providers

import (
	"time"

	"mercator-hq/meter/pkg/providers"
)

// TestConfig returns a test provider configuration.
func TestConfig(name string, providerType providers.Type) providers.ProviderConfig {
	return providers.ProviderConfig{
		Name:                name,
		Type:                providerType,
		BaseURL:             "http://localhost:8080",
		APIKey:              "test-key",
		Timeout:             5 * time.Second,
		MaxIdleConns:        10,
		MaxIdleConnsPerHost: 5,
		IdleConnTimeout:     30 * time.Second,
	}
}

// TestConfigWithURL returns a test config with a specific base URL.
func TestConfigWithURL(name string, providerType providers.Type, baseURL string) providers.ProviderConfig {
	config := TestConfig(name, providerType)
	config.BaseURL = baseURL
	return config
}

// TestCompletionRequest creates a single-message test completion request.
func TestCompletionRequest(model, prompt string) *providers.CompletionRequest {
	temperature := 0.7
	return &providers.CompletionRequest{
		Model:       model,
		Messages:    []providers.Message{{Role: providers.RoleUser, Content: prompt}},
		Temperature: &temperature,
	}
}
