package costs

import (
	"github.com/shopspring/decimal"

	"mercator-hq/meter/pkg/pricing"
	"mercator-hq/meter/pkg/providers"
	"mercator-hq/meter/pkg/usage"
)

// DisplayPlaces is the number of decimal places used when showing a cost.
const DisplayPlaces = 6

// Pricing tiers reported in Cost.PricingTier.
const (
	TierStandard    = "standard"
	TierLongContext = "long_context"
)

// Cost is the exact cost of one request in USD, broken down by token kind.
// Amounts are never rounded; use Display for presentation.
type Cost struct {
	// Prompt is the cost of prompt tokens not served from cache.
	Prompt decimal.Decimal `json:"prompt"`

	// CachedPrompt is the cost of cached prompt tokens.
	CachedPrompt decimal.Decimal `json:"cached_prompt"`

	// Completion is the cost of completion tokens billed at the completion rate.
	Completion decimal.Decimal `json:"completion"`

	// Reasoning is the cost of reasoning tokens billed at a dedicated rate.
	// It is zero when the entry has no reasoning price.
	Reasoning decimal.Decimal `json:"reasoning"`

	// Total is the sum of the components.
	Total decimal.Decimal `json:"total"`

	// Provider and Model identify the priced request.
	Provider string `json:"provider"`
	Model    string `json:"model"`

	// PricedAs is the model of the pricing entry that was applied.
	PricedAs string `json:"priced_as"`

	// Fallback reports whether the provider default entry was used.
	Fallback bool `json:"fallback"`

	// PricingTier identifies the pricing tier used.
	PricingTier string `json:"pricing_tier"`

	// Currency is the currency code (always "USD").
	Currency string `json:"currency"`
}

// Display returns the total rounded for presentation.
func (c Cost) Display() string {
	return c.Total.StringFixed(DisplayPlaces)
}

// Formula prices a usage record under one pricing entry. Formulas are pure
// functions: the same inputs always produce the same breakdown.
type Formula func(entry pricing.Entry, u usage.Record) Cost

// formulas maps each provider to its pricing formula.
var formulas = map[providers.Type]Formula{
	providers.TypeOpenAI:    standardFormula,
	providers.TypeAzure:     standardFormula,
	providers.TypeDeepSeek:  standardFormula,
	providers.TypeAnthropic: standardFormula,
	providers.TypeLocal:     standardFormula,
	providers.TypeGemini:    geminiFormula,
}

// FormulaFor returns the formula used for provider.
func FormulaFor(provider providers.Type) Formula {
	if f, ok := formulas[provider]; ok {
		return f
	}
	return standardFormula
}
