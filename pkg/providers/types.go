package providers

import (
	"fmt"
	"strings"
	"time"

	"mercator-hq/meter/pkg/attachment"
	"mercator-hq/meter/pkg/usage"
)

// Type identifies a supported provider.
type Type string

const (
	TypeOpenAI    Type = "openai"
	TypeAzure     Type = "azure"
	TypeDeepSeek  Type = "deepseek"
	TypeAnthropic Type = "anthropic"
	TypeGemini    Type = "gemini"
	TypeLocal     Type = "local"
)

// Types lists every supported provider type in a stable order.
var Types = []Type{TypeOpenAI, TypeAzure, TypeDeepSeek, TypeAnthropic, TypeGemini, TypeLocal}

// ParseType validates a provider name. It is case-insensitive.
func ParseType(name string) (Type, error) {
	t := Type(strings.ToLower(strings.TrimSpace(name)))
	for _, known := range Types {
		if t == known {
			return t, nil
		}
	}
	return "", &ConfigError{
		Provider: name,
		Field:    "provider",
		Message:  fmt.Sprintf("unsupported provider (expected one of %s)", typeList()),
	}
}

// String returns the provider name.
func (t Type) String() string {
	return string(t)
}

// OpenAICompatible reports whether the provider speaks the OpenAI chat
// completions API.
func (t Type) OpenAICompatible() bool {
	switch t {
	case TypeOpenAI, TypeAzure, TypeDeepSeek, TypeLocal:
		return true
	default:
		return false
	}
}

// SupportsImages reports whether image attachments are forwarded to the provider.
func (t Type) SupportsImages() bool {
	switch t {
	case TypeOpenAI, TypeAzure, TypeAnthropic, TypeGemini:
		return true
	default:
		return false
	}
}

func typeList() string {
	names := make([]string, len(Types))
	for i, t := range Types {
		names[i] = string(t)
	}
	return strings.Join(names, ", ")
}

// Message is a single provider-agnostic chat message.
type Message struct {
	// Role identifies the message sender (system, user, assistant)
	Role string `json:"role"`

	// Content is the message text
	Content string `json:"content"`

	// Image is an optional image attached to a user message
	Image *attachment.Image `json:"-"`
}

// CompletionRequest is a provider-agnostic completion request.
type CompletionRequest struct {
	// Model is the model identifier (e.g., "gpt-4o", "claude-3-5-sonnet-20241022")
	Model string `json:"model"`

	// Messages is the conversation
	Messages []Message `json:"messages"`

	// Temperature controls randomness; nil leaves it to the provider
	Temperature *float64 `json:"temperature,omitempty"`

	// MaxTokens is the maximum number of tokens to generate; 0 leaves it to the provider
	MaxTokens int `json:"max_tokens,omitempty"`

	// ReasoningEffort is sent to reasoning models ("low", "medium", "high")
	ReasoningEffort string `json:"reasoning_effort,omitempty"`

	// ResponseFormat requests a response format ("text", "json_object")
	ResponseFormat string `json:"response_format,omitempty"`
}

// CompletionResponse is a normalized completion response.
type CompletionResponse struct {
	// ID is the provider response identifier
	ID string `json:"id"`

	// Model is the model that generated the response
	Model string `json:"model"`

	// Content is the generated text
	Content string `json:"content"`

	// FinishReason indicates why generation stopped
	FinishReason string `json:"finish_reason"`

	// Usage is the provider-native usage report, nil when the response
	// carried none
	Usage usage.Source `json:"-"`

	// Created is the Unix timestamp when the response was created
	Created int64 `json:"created"`
}

// ProviderConfig contains configuration for a single provider instance.
type ProviderConfig struct {
	// Name is the provider identifier used in logs and errors
	Name string

	// Type is the provider type
	Type Type

	// BaseURL is the API endpoint base URL
	BaseURL string

	// APIKey is the authentication key
	APIKey string

	// APIVersion is sent to providers that version their API by request (Azure)
	APIVersion string

	// Timeout is the request timeout duration
	Timeout time.Duration

	// MaxIdleConns is the maximum number of idle connections in the pool
	MaxIdleConns int

	// MaxIdleConnsPerHost is the maximum idle connections per host
	MaxIdleConnsPerHost int

	// IdleConnTimeout is how long an idle connection remains in the pool
	IdleConnTimeout time.Duration
}

// Message role constants
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Finish reason constants
const (
	FinishReasonStop          = "stop"
	FinishReasonLength        = "length"
	FinishReasonContentFilter = "content_filter"
)
