package gemini

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"mercator-hq/meter/pkg/providers"
)

const (
	// DefaultBaseURL is the public Generative Language API endpoint
	DefaultBaseURL = "https://generativelanguage.googleapis.com"

	// APIVersion is the path version segment
	APIVersion = "v1beta"
)

// Provider is the Gemini provider adapter.
type Provider struct {
	*providers.HTTPProvider
}

// NewProvider creates a new Gemini provider instance.
func NewProvider(config providers.ProviderConfig) (*Provider, error) {
	if config.Name == "" {
		config.Name = string(providers.TypeGemini)
	}
	if config.Type == "" {
		config.Type = providers.TypeGemini
	}
	if config.BaseURL == "" {
		config.BaseURL = DefaultBaseURL
	}
	config.BaseURL = strings.TrimRight(config.BaseURL, "/")

	if config.APIKey == "" {
		return nil, &providers.ConfigError{
			Provider: config.Name,
			Field:    "api_key",
			Message:  "API key is required for Gemini",
		}
	}

	if config.MaxIdleConns == 0 {
		config.MaxIdleConns = 100
	}
	if config.MaxIdleConnsPerHost == 0 {
		config.MaxIdleConnsPerHost = 10
	}

	slog.Debug("Gemini provider initialized",
		"provider", config.Name,
		"base_url", config.BaseURL,
	)

	return &Provider{HTTPProvider: providers.NewHTTPProvider(config)}, nil
}

// SendCompletion sends a generateContent request to Gemini.
func (p *Provider) SendCompletion(ctx context.Context, req *providers.CompletionRequest) (*providers.CompletionResponse, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	headers := map[string]string{
		"x-goog-api-key": p.GetConfig().APIKey,
		"Content-Type":   "application/json",
	}

	var geminiResp GenerateContentResponse
	if err := p.DoJSONRequest(ctx, http.MethodPost, p.endpoint(req.Model), transformRequest(req), &geminiResp, headers); err != nil {
		return nil, err
	}

	resp, err := transformResponse(req.Model, &geminiResp)
	if err != nil {
		return nil, &providers.ParseError{
			Provider: p.GetName(),
			Cause:    err,
		}
	}

	slog.Debug("completion request succeeded",
		"provider", p.GetName(),
		"model", resp.Model,
		"usage_reported", resp.Usage != nil,
	)

	return resp, nil
}

func (p *Provider) endpoint(model string) string {
	return fmt.Sprintf("%s/%s/models/%s:generateContent", p.GetConfig().BaseURL, APIVersion, url.PathEscape(model))
}

func validateRequest(req *providers.CompletionRequest) error {
	if req == nil {
		return &providers.ValidationError{Field: "request", Message: "request cannot be nil"}
	}
	if req.Model == "" {
		return &providers.ValidationError{Field: "model", Message: "model is required"}
	}
	if len(req.Messages) == 0 {
		return &providers.ValidationError{Field: "messages", Message: "at least one message is required"}
	}
	return nil
}
