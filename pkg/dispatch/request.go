package dispatch

import (
	"mercator-hq/meter/pkg/attachment"
	"mercator-hq/meter/pkg/providers"
)

// Default request shaping values.
const (
	DefaultTemperature     = 0.7
	DefaultMaxTokens       = 1000
	DefaultReasoningEffort = "low"

	// responseFormatText is requested from reasoning models.
	responseFormatText = "text"
)

// buildRequest shapes a single-turn completion request for provider t.
//
// OpenAI-family reasoning models get a reasoning effort and a text response
// format instead of a temperature. Anthropic always gets max_tokens, which its
// API requires.
func (d *Dispatcher) buildRequest(t providers.Type, model, prompt string, image *attachment.Image, reasoning bool) *providers.CompletionRequest {
	req := &providers.CompletionRequest{
		Model: model,
		Messages: []providers.Message{
			{Role: providers.RoleUser, Content: prompt, Image: image},
		},
	}

	if reasoning && t.OpenAICompatible() {
		req.ReasoningEffort = d.config.ReasoningEffort
		req.ResponseFormat = responseFormatText
	} else {
		temperature := *d.config.Temperature
		req.Temperature = &temperature
	}

	if t == providers.TypeAnthropic {
		req.MaxTokens = d.config.MaxTokens
	}

	return req
}
