package tokens

import (
	"fmt"
	"sort"
	"strings"

	"mercator-hq/meter/pkg/providers"
)

// Estimation constants.
const (
	// DefaultCharsPerToken applies to models without a configured ratio.
	DefaultCharsPerToken = 4.0

	// ImageTokens is the flat estimate for one attached image.
	ImageTokens = 1000

	messageOverhead      = 3
	conversationOverhead = 3
	requestOverhead      = 5

	minCompletionEstimate = 100
	maxCompletionEstimate = 1000
)

// DefaultRatios are characters-per-token ratios by model prefix.
var DefaultRatios = map[string]float64{
	"gpt-4":    4.0,
	"gpt-3.5":  4.0,
	"o1":       4.0,
	"o3":       4.0,
	"claude":   3.5,
	"gemini":   4.0,
	"deepseek": 3.8,
}

// SimpleEstimator implements character-based token estimation with
// per-model characters-per-token ratios. It is safe for concurrent use.
type SimpleEstimator struct {
	ratios   map[string]float64
	prefixes []string
}

// NewSimpleEstimator creates an estimator. Keys of ratios are exact model
// names or model prefixes; nil uses DefaultRatios.
func NewSimpleEstimator(ratios map[string]float64) *SimpleEstimator {
	if ratios == nil {
		ratios = DefaultRatios
	}
	e := &SimpleEstimator{ratios: make(map[string]float64, len(ratios))}
	for model, ratio := range ratios {
		if ratio <= 0 {
			continue
		}
		e.ratios[model] = ratio
		e.prefixes = append(e.prefixes, model)
	}
	// Longest prefix first so "gpt-4o" wins over "gpt-4".
	sort.Slice(e.prefixes, func(i, j int) bool {
		if len(e.prefixes[i]) != len(e.prefixes[j]) {
			return len(e.prefixes[i]) > len(e.prefixes[j])
		}
		return e.prefixes[i] < e.prefixes[j]
	})
	return e
}

// EstimateText estimates tokens for a single text string. Non-empty text
// is at least one token.
func (e *SimpleEstimator) EstimateText(text string, model string) int64 {
	if text == "" {
		return 0
	}

	tokens := float64(len(text)) / e.charsPerToken(model)
	if tokens < 1.0 {
		tokens = 1.0
	}
	return int64(tokens + 0.5)
}

// EstimateMessages estimates prompt tokens for messages, images included.
func (e *SimpleEstimator) EstimateMessages(messages []providers.Message, model string) int64 {
	if len(messages) == 0 {
		return 0
	}

	var total int64
	for _, msg := range messages {
		// role
		total++
		total += e.EstimateText(msg.Content, model)
		if msg.Image != nil {
			total += ImageTokens
		}
		total += messageOverhead
	}
	return total + conversationOverhead
}

// EstimateRequest estimates all tokens for a complete request.
func (e *SimpleEstimator) EstimateRequest(req *providers.CompletionRequest) (*Estimate, error) {
	if req == nil {
		return nil, fmt.Errorf("request cannot be nil")
	}

	estimate := &Estimate{
		Model:          req.Model,
		OverheadTokens: requestOverhead,
	}

	var system, other []providers.Message
	for _, msg := range req.Messages {
		if msg.Image != nil {
			estimate.ImageTokens += ImageTokens
		}
		if msg.Role == providers.RoleSystem {
			system = append(system, msg)
		} else {
			other = append(other, msg)
		}
	}

	estimate.SystemPromptTokens = e.EstimateMessages(system, req.Model)
	estimate.MessageTokens = e.EstimateMessages(other, req.Model) - estimate.ImageTokens
	if estimate.MessageTokens < 0 {
		estimate.MessageTokens = 0
	}

	estimate.PromptTokens = estimate.SystemPromptTokens +
		estimate.MessageTokens +
		estimate.ImageTokens +
		estimate.OverheadTokens

	if req.MaxTokens > 0 {
		estimate.EstimatedCompletionTokens = int64(req.MaxTokens)
	} else {
		c := estimate.PromptTokens / 3
		c = max(c, minCompletionEstimate)
		c = min(c, maxCompletionEstimate)
		estimate.EstimatedCompletionTokens = c
	}

	estimate.TotalTokens = estimate.PromptTokens + estimate.EstimatedCompletionTokens
	return estimate, nil
}

// charsPerToken returns the ratio of an exact model match, else of the
// longest matching prefix, else DefaultCharsPerToken.
func (e *SimpleEstimator) charsPerToken(model string) float64 {
	if ratio, ok := e.ratios[model]; ok {
		return ratio
	}
	for _, prefix := range e.prefixes {
		if strings.HasPrefix(model, prefix) {
			return e.ratios[prefix]
		}
	}
	return DefaultCharsPerToken
}
