package openai

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"strings"

	goopenai "github.com/sashabaranov/go-openai"

	"mercator-hq/meter/pkg/providers"
)

const (
	// DefaultAzureAPIVersion is the Azure OpenAI API version used when none is configured.
	DefaultAzureAPIVersion = "2024-08-01-preview"

	// localAPIKey is sent to local servers that do not check credentials.
	localAPIKey = "not-needed"
)

// Provider is the adapter for OpenAI-compatible chat completion APIs:
// OpenAI, Azure OpenAI, DeepSeek and local OpenAI-compatible servers.
type Provider struct {
	config     providers.ProviderConfig
	client     *goopenai.Client
	httpClient *http.Client
}

// NewProvider creates a new OpenAI-compatible provider instance.
func NewProvider(config providers.ProviderConfig) (*Provider, error) {
	if config.Name == "" {
		config.Name = string(config.Type)
	}
	if !config.Type.OpenAICompatible() {
		return nil, &providers.ConfigError{
			Provider: config.Name,
			Field:    "type",
			Message:  "provider type is not OpenAI-compatible",
		}
	}

	if config.APIKey == "" {
		if config.Type != providers.TypeLocal {
			return nil, &providers.ConfigError{
				Provider: config.Name,
				Field:    "api_key",
				Message:  "API key is required",
			}
		}
		config.APIKey = localAPIKey
	}

	if config.MaxIdleConns == 0 {
		config.MaxIdleConns = 100
	}
	if config.MaxIdleConnsPerHost == 0 {
		config.MaxIdleConnsPerHost = 10
	}

	var clientConfig goopenai.ClientConfig
	switch config.Type {
	case providers.TypeAzure:
		if config.BaseURL == "" {
			return nil, &providers.ConfigError{
				Provider: config.Name,
				Field:    "base_url",
				Message:  "Azure endpoint is required",
			}
		}
		if config.APIVersion == "" {
			config.APIVersion = DefaultAzureAPIVersion
		}
		clientConfig = goopenai.DefaultAzureConfig(config.APIKey, config.BaseURL)
		clientConfig.APIVersion = config.APIVersion
	default:
		clientConfig = goopenai.DefaultConfig(config.APIKey)
		if config.BaseURL != "" {
			clientConfig.BaseURL = strings.TrimRight(config.BaseURL, "/")
		}
	}

	httpClient := &http.Client{
		Transport: &http.Transport{
			Proxy:               http.ProxyFromEnvironment,
			MaxIdleConns:        config.MaxIdleConns,
			MaxIdleConnsPerHost: config.MaxIdleConnsPerHost,
			IdleConnTimeout:     config.IdleConnTimeout,
			ForceAttemptHTTP2:   true,
		},
		Timeout: config.Timeout,
	}
	clientConfig.HTTPClient = httpClient

	slog.Debug("OpenAI-compatible provider initialized",
		"provider", config.Name,
		"type", string(config.Type),
		"base_url", clientConfig.BaseURL,
	)

	return &Provider{
		config:     config,
		client:     goopenai.NewClientWithConfig(clientConfig),
		httpClient: httpClient,
	}, nil
}

// GetName returns the provider's configured name.
func (p *Provider) GetName() string {
	return p.config.Name
}

// GetType returns the provider's type.
func (p *Provider) GetType() providers.Type {
	return p.config.Type
}

// SendCompletion sends a chat completion request.
func (p *Provider) SendCompletion(ctx context.Context, req *providers.CompletionRequest) (*providers.CompletionResponse, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	resp, err := p.client.CreateChatCompletion(ctx, transformRequest(req))
	if err != nil {
		return nil, p.mapError(ctx, err)
	}

	result, err := transformResponse(resp)
	if err != nil {
		return nil, &providers.ParseError{
			Provider: p.GetName(),
			Cause:    err,
		}
	}

	slog.Debug("completion request succeeded",
		"provider", p.GetName(),
		"model", result.Model,
		"usage_reported", result.Usage != nil,
	)

	return result, nil
}

// Close releases idle connections.
func (p *Provider) Close() error {
	p.httpClient.CloseIdleConnections()
	return nil
}

// mapError converts go-openai errors to the typed provider errors.
func (p *Provider) mapError(ctx context.Context, err error) error {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) || errors.Is(err, context.DeadlineExceeded) {
		return &providers.TimeoutError{Provider: p.GetName(), Timeout: p.config.Timeout}
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return &providers.TimeoutError{Provider: p.GetName(), Timeout: p.config.Timeout}
	}

	status, message := 0, err.Error()
	var apiErr *goopenai.APIError
	var reqErr *goopenai.RequestError
	switch {
	case errors.As(err, &apiErr):
		status, message = apiErr.HTTPStatusCode, apiErr.Message
	case errors.As(err, &reqErr):
		status = reqErr.HTTPStatusCode
	}

	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		return &providers.AuthError{Provider: p.GetName(), Message: message}
	case http.StatusTooManyRequests:
		return &providers.RateLimitError{Provider: p.GetName(), Message: message}
	default:
		return &providers.ProviderError{
			Provider:   p.GetName(),
			StatusCode: status,
			Message:    message,
			Cause:      err,
		}
	}
}

// validateRequest validates the completion request.
func validateRequest(req *providers.CompletionRequest) error {
	if req == nil {
		return &providers.ValidationError{
			Field:   "request",
			Message: "request cannot be nil",
		}
	}

	if req.Model == "" {
		return &providers.ValidationError{
			Field:   "model",
			Message: "model is required",
		}
	}

	if len(req.Messages) == 0 {
		return &providers.ValidationError{
			Field:   "messages",
			Message: "at least one message is required",
		}
	}

	return nil
}
