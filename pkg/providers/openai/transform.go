package openai

import (
	"fmt"
	"math"

	goopenai "github.com/sashabaranov/go-openai"

	"mercator-hq/meter/pkg/providers"
	"mercator-hq/meter/pkg/usage"
)

// transformRequest transforms a provider-agnostic request to the go-openai format.
func transformRequest(req *providers.CompletionRequest) goopenai.ChatCompletionRequest {
	out := goopenai.ChatCompletionRequest{
		Model:           req.Model,
		Messages:        make([]goopenai.ChatCompletionMessage, len(req.Messages)),
		MaxTokens:       req.MaxTokens,
		ReasoningEffort: req.ReasoningEffort,
	}

	if req.Temperature != nil {
		out.Temperature = float32(*req.Temperature)
		// go-openai omits a zero temperature from the request body.
		if out.Temperature == 0 {
			out.Temperature = math.SmallestNonzeroFloat32
		}
	}

	switch req.ResponseFormat {
	case "":
	case "json_object":
		out.ResponseFormat = &goopenai.ChatCompletionResponseFormat{Type: goopenai.ChatCompletionResponseFormatTypeJSONObject}
	default:
		out.ResponseFormat = &goopenai.ChatCompletionResponseFormat{Type: goopenai.ChatCompletionResponseFormatTypeText}
	}

	for i, msg := range req.Messages {
		out.Messages[i] = transformMessage(msg)
	}

	return out
}

// transformMessage sends plain text as content and text plus image as parts.
func transformMessage(msg providers.Message) goopenai.ChatCompletionMessage {
	if msg.Image == nil {
		return goopenai.ChatCompletionMessage{
			Role:    msg.Role,
			Content: msg.Content,
		}
	}

	return goopenai.ChatCompletionMessage{
		Role: msg.Role,
		MultiContent: []goopenai.ChatMessagePart{
			{
				Type: goopenai.ChatMessagePartTypeText,
				Text: msg.Content,
			},
			{
				Type:     goopenai.ChatMessagePartTypeImageURL,
				ImageURL: &goopenai.ChatMessageImageURL{URL: msg.Image.DataURL()},
			},
		},
	}
}

// transformResponse transforms a go-openai response to provider-agnostic format.
func transformResponse(resp goopenai.ChatCompletionResponse) (*providers.CompletionResponse, error) {
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("no choices in response")
	}

	choice := resp.Choices[0]

	result := &providers.CompletionResponse{
		ID:           resp.ID,
		Model:        resp.Model,
		Content:      choice.Message.Content,
		FinishReason: normalizeFinishReason(string(choice.FinishReason)),
		Created:      resp.Created,
	}

	// Leave Usage as a nil interface when nothing was reported.
	if u := (chatUsage{resp.Usage}); u.reported() {
		result.Usage = u
	}

	return result, nil
}

// chatUsage is the usage block of a chat completion response.
type chatUsage struct {
	goopenai.Usage
}

func (u chatUsage) reported() bool {
	return u.PromptTokens != 0 || u.CompletionTokens != 0 || u.TotalTokens != 0
}

// Normalize implements usage.Source. Cached tokens come from
// prompt_tokens_details and reasoning tokens from completion_tokens_details.
func (u chatUsage) Normalize() (usage.Record, error) {
	if !u.reported() {
		return usage.Record{}, usage.ErrUnavailable
	}

	opts := []usage.Option{usage.WithReportedTotal(int64(u.TotalTokens))}
	if d := u.PromptTokensDetails; d != nil && d.CachedTokens > 0 {
		opts = append(opts, usage.WithCachedPrompt(int64(d.CachedTokens)))
	}
	if d := u.CompletionTokensDetails; d != nil {
		opts = append(opts, usage.WithReasoning(int64(d.ReasoningTokens)))
	}

	return usage.New(int64(u.PromptTokens), int64(u.CompletionTokens), opts...)
}

// normalizeFinishReason normalizes OpenAI finish reasons to provider-agnostic values.
func normalizeFinishReason(reason string) string {
	switch reason {
	case "stop":
		return providers.FinishReasonStop
	case "length":
		return providers.FinishReasonLength
	case "content_filter":
		return providers.FinishReasonContentFilter
	default:
		return reason
	}
}
