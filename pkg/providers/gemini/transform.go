package gemini

import (
	"errors"
	"strings"

	"mercator-hq/meter/pkg/providers"
	"mercator-hq/meter/pkg/usage"
)

// GenerateContentRequest is the generateContent request body.
type GenerateContentRequest struct {
	Contents          []Content         `json:"contents"`
	SystemInstruction *Content          `json:"systemInstruction,omitempty"`
	GenerationConfig  *GenerationConfig `json:"generationConfig,omitempty"`
}

// Content is a single turn.
type Content struct {
	Role  string `json:"role,omitempty"`
	Parts []Part `json:"parts"`
}

// Part is one piece of a turn: text or inline data.
type Part struct {
	Text       string      `json:"text,omitempty"`
	InlineData *InlineData `json:"inline_data,omitempty"`
}

// InlineData is a base64 encoded attachment.
type InlineData struct {
	MIMEType string `json:"mime_type"`
	Data     string `json:"data"`
}

// GenerationConfig holds sampling parameters.
type GenerationConfig struct {
	Temperature     *float64 `json:"temperature,omitempty"`
	MaxOutputTokens int      `json:"maxOutputTokens,omitempty"`
}

// GenerateContentResponse is the generateContent response body.
type GenerateContentResponse struct {
	Candidates    []Candidate    `json:"candidates"`
	UsageMetadata *UsageMetadata `json:"usageMetadata,omitempty"`
	ModelVersion  string         `json:"modelVersion,omitempty"`
	ResponseID    string         `json:"responseId,omitempty"`
}

// Candidate is one generated answer.
type Candidate struct {
	Content      Content `json:"content"`
	FinishReason string  `json:"finishReason"`
}

// UsageMetadata is Gemini's token report.
type UsageMetadata struct {
	PromptTokenCount        int64 `json:"promptTokenCount"`
	CandidatesTokenCount    int64 `json:"candidatesTokenCount"`
	ThoughtsTokenCount      int64 `json:"thoughtsTokenCount"`
	CachedContentTokenCount int64 `json:"cachedContentTokenCount"`
	TotalTokenCount         int64 `json:"totalTokenCount"`
}

// Normalize implements usage.Source. Thought tokens are billed as output, so
// they are folded into the completion count and reported as reasoning.
func (m *UsageMetadata) Normalize() (usage.Record, error) {
	if m == nil {
		return usage.Record{}, usage.ErrUnavailable
	}
	opts := []usage.Option{
		usage.WithCachedPrompt(m.CachedContentTokenCount),
		usage.WithReportedTotal(m.TotalTokenCount),
	}
	if m.ThoughtsTokenCount > 0 {
		opts = append(opts, usage.WithReasoning(m.ThoughtsTokenCount))
	}
	return usage.New(m.PromptTokenCount, m.CandidatesTokenCount+m.ThoughtsTokenCount, opts...)
}

func transformRequest(req *providers.CompletionRequest) *GenerateContentRequest {
	out := &GenerateContentRequest{
		Contents: make([]Content, 0, len(req.Messages)),
	}

	for _, msg := range req.Messages {
		if msg.Role == providers.RoleSystem {
			out.SystemInstruction = &Content{Parts: []Part{{Text: msg.Content}}}
			continue
		}
		out.Contents = append(out.Contents, transformMessage(msg))
	}

	if req.Temperature != nil || req.MaxTokens > 0 {
		out.GenerationConfig = &GenerationConfig{
			Temperature:     req.Temperature,
			MaxOutputTokens: req.MaxTokens,
		}
	}

	return out
}

func transformMessage(msg providers.Message) Content {
	role := "user"
	if msg.Role == providers.RoleAssistant {
		role = "model"
	}

	parts := []Part{{Text: msg.Content}}
	if msg.Image != nil {
		parts = append(parts, Part{InlineData: &InlineData{
			MIMEType: msg.Image.MIMEType,
			Data:     msg.Image.Data,
		}})
	}
	return Content{Role: role, Parts: parts}
}

func transformResponse(model string, resp *GenerateContentResponse) (*providers.CompletionResponse, error) {
	if len(resp.Candidates) == 0 {
		return nil, errors.New("response contained no candidates")
	}

	candidate := resp.Candidates[0]
	var text strings.Builder
	for _, part := range candidate.Content.Parts {
		text.WriteString(part.Text)
	}

	result := &providers.CompletionResponse{
		ID:           resp.ResponseID,
		Model:        model,
		Content:      text.String(),
		FinishReason: normalizeFinishReason(candidate.FinishReason),
	}
	if resp.ModelVersion != "" {
		result.Model = resp.ModelVersion
	}

	// Leave Usage as an untyped nil so callers can test it against nil.
	if resp.UsageMetadata != nil {
		result.Usage = resp.UsageMetadata
	}

	return result, nil
}

func normalizeFinishReason(reason string) string {
	switch reason {
	case "STOP":
		return providers.FinishReasonStop
	case "MAX_TOKENS":
		return providers.FinishReasonLength
	case "SAFETY", "RECITATION", "BLOCKLIST", "PROHIBITED_CONTENT":
		return providers.FinishReasonContentFilter
	default:
		return strings.ToLower(reason)
	}
}
