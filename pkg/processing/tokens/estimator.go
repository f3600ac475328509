package tokens

import "mercator-hq/meter/pkg/providers"

// Estimator estimates token counts for text and messages before a request
// is sent. Estimates never replace provider-reported usage in the ledger.
type Estimator interface {
	// EstimateText estimates tokens for a single text string.
	EstimateText(text string, model string) int64

	// EstimateMessages estimates prompt tokens for a conversation,
	// including formatting overhead.
	EstimateMessages(messages []providers.Message, model string) int64

	// EstimateRequest estimates prompt and completion tokens for a request.
	EstimateRequest(req *providers.CompletionRequest) (*Estimate, error)
}

// Estimate contains detailed token estimation results.
type Estimate struct {
	// PromptTokens is the estimated number of tokens in the prompt.
	PromptTokens int64

	// EstimatedCompletionTokens is MaxTokens when the request sets it,
	// otherwise a length-based guess.
	EstimatedCompletionTokens int64

	// TotalTokens is PromptTokens plus EstimatedCompletionTokens.
	TotalTokens int64

	// SystemPromptTokens is the token count for system prompts.
	SystemPromptTokens int64

	// MessageTokens is the token count for user/assistant messages.
	MessageTokens int64

	// ImageTokens is the flat estimate for attached images.
	ImageTokens int64

	// OverheadTokens are additional tokens for request formatting.
	OverheadTokens int64

	// Model is the model used for estimation.
	Model string
}
