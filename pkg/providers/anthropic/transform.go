package anthropic

import (
	"fmt"

	"mercator-hq/meter/pkg/providers"
	"mercator-hq/meter/pkg/usage"
)

// Anthropic API request/response types

// AnthropicRequest represents an Anthropic messages request.
type AnthropicRequest struct {
	Model       string             `json:"model"`
	Messages    []AnthropicMessage `json:"messages"`
	System      string             `json:"system,omitempty"`
	MaxTokens   int                `json:"max_tokens"`
	Temperature *float64           `json:"temperature,omitempty"`
}

// AnthropicMessage represents a message in Anthropic format.
type AnthropicMessage struct {
	Role    string         `json:"role"`
	Content []ContentBlock `json:"content"`
}

// ContentBlock represents a content block in Anthropic format.
type ContentBlock struct {
	Type string `json:"type"` // "text" or "image"
	Text string `json:"text,omitempty"`

	// For image blocks
	Source *ImageSource `json:"source,omitempty"`
}

// ImageSource is an inline base64 image.
type ImageSource struct {
	Type      string `json:"type"` // always "base64"
	MediaType string `json:"media_type"`
	Data      string `json:"data"`
}

// AnthropicResponse represents an Anthropic messages response.
type AnthropicResponse struct {
	ID           string          `json:"id"`
	Type         string          `json:"type"`
	Role         string          `json:"role"`
	Content      []ContentBlock  `json:"content"`
	Model        string          `json:"model"`
	StopReason   string          `json:"stop_reason"`
	StopSequence string          `json:"stop_sequence,omitempty"`
	Usage        *AnthropicUsage `json:"usage"`
}

// AnthropicUsage represents token usage in Anthropic format.
type AnthropicUsage struct {
	InputTokens              int64 `json:"input_tokens"`
	OutputTokens             int64 `json:"output_tokens"`
	CacheCreationInputTokens int64 `json:"cache_creation_input_tokens"`
	CacheReadInputTokens     int64 `json:"cache_read_input_tokens"`
}

// Normalize implements usage.Source.
//
// Anthropic reports input tokens excluding cache activity, so the prompt is
// input + cache creation + cache read, and cache reads are the cached part.
func (u *AnthropicUsage) Normalize() (usage.Record, error) {
	if u == nil {
		return usage.Record{}, usage.ErrUnavailable
	}
	prompt := u.InputTokens + u.CacheCreationInputTokens + u.CacheReadInputTokens
	return usage.New(prompt, u.OutputTokens, usage.WithCachedPrompt(u.CacheReadInputTokens))
}

// Transformation functions

// transformRequest transforms a provider-agnostic request to Anthropic format.
func transformRequest(req *providers.CompletionRequest) (*AnthropicRequest, error) {
	anthropicReq := &AnthropicRequest{
		Model:       req.Model,
		Messages:    make([]AnthropicMessage, 0, len(req.Messages)),
		MaxTokens:   req.MaxTokens,
		Temperature: req.Temperature,
	}

	if anthropicReq.MaxTokens == 0 {
		anthropicReq.MaxTokens = DefaultMaxTokens
	}

	// Anthropic takes the system prompt as a separate field.
	for _, msg := range req.Messages {
		if msg.Role == providers.RoleSystem {
			anthropicReq.System = msg.Content
			continue
		}
		anthropicReq.Messages = append(anthropicReq.Messages, transformMessage(msg))
	}

	if err := validateMessageSequence(anthropicReq.Messages); err != nil {
		return nil, err
	}

	return anthropicReq, nil
}

// transformMessage puts the image block, if any, before the text block.
func transformMessage(msg providers.Message) AnthropicMessage {
	out := AnthropicMessage{Role: msg.Role}
	if msg.Image != nil {
		out.Content = append(out.Content, ContentBlock{
			Type: "image",
			Source: &ImageSource{
				Type:      "base64",
				MediaType: msg.Image.MIMEType,
				Data:      msg.Image.Data,
			},
		})
	}
	out.Content = append(out.Content, ContentBlock{Type: "text", Text: msg.Content})
	return out
}

// validateMessageSequence validates that messages alternate between user and assistant.
func validateMessageSequence(messages []AnthropicMessage) error {
	if len(messages) == 0 {
		return &providers.ValidationError{
			Field:   "messages",
			Message: "at least one non-system message is required",
		}
	}

	if messages[0].Role != providers.RoleUser {
		return &providers.ValidationError{
			Field:   "messages",
			Message: "first message must be from user (Anthropic requirement)",
		}
	}

	for i := 1; i < len(messages); i++ {
		if messages[i-1].Role == messages[i].Role {
			return &providers.ValidationError{
				Field:   "messages",
				Message: fmt.Sprintf("messages must alternate between user and assistant (Anthropic requirement), found consecutive %s messages at index %d", messages[i].Role, i),
			}
		}
	}

	return nil
}

// transformResponse transforms an Anthropic response to provider-agnostic format.
func transformResponse(resp *AnthropicResponse) (*providers.CompletionResponse, error) {
	if resp.Type == "error" {
		return nil, fmt.Errorf("provider returned an error object")
	}

	var content string
	for _, block := range resp.Content {
		if block.Type == "text" {
			content += block.Text
		}
	}

	result := &providers.CompletionResponse{
		ID:           resp.ID,
		Model:        resp.Model,
		Content:      content,
		FinishReason: normalizeStopReason(resp.StopReason),
	}

	if resp.Usage != nil {
		result.Usage = resp.Usage
	}

	return result, nil
}

// normalizeStopReason normalizes Anthropic stop reasons to provider-agnostic values.
func normalizeStopReason(reason string) string {
	switch reason {
	case "end_turn", "stop_sequence":
		return providers.FinishReasonStop
	case "max_tokens":
		return providers.FinishReasonLength
	default:
		return reason
	}
}
