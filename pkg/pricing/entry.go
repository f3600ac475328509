package pricing

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// DefaultUnitSize is the number of tokens a price refers to when an entry
// does not set one.
const DefaultUnitSize int64 = 1_000_000

// DefaultModel is the model name of a provider's fallback entry.
const DefaultModel = "default"

// Entry is the price of one model (or model family) of one provider.
type Entry struct {
	// Provider is the provider name, e.g. "openai".
	Provider string `json:"provider"`

	// Model is an exact model name or a model prefix.
	Model string `json:"model"`

	// PromptPrice is the price of UnitSize prompt tokens.
	PromptPrice decimal.Decimal `json:"prompt_price"`

	// CompletionPrice is the price of UnitSize completion tokens.
	CompletionPrice decimal.Decimal `json:"completion_price"`

	// CachedPromptPrice, when valid, bills prompt tokens served from cache.
	CachedPromptPrice decimal.NullDecimal `json:"cached_prompt_price"`

	// ReasoningPrice, when valid, bills reasoning tokens separately from
	// the rest of the completion.
	ReasoningPrice decimal.NullDecimal `json:"reasoning_price"`

	// LongContextThreshold is the prompt size above which the long-context
	// prices apply. Zero disables the tier.
	LongContextThreshold int64 `json:"long_context_threshold,omitempty"`

	// LongContextPromptPrice and LongContextCompletionPrice replace the base
	// prices past LongContextThreshold.
	LongContextPromptPrice     decimal.NullDecimal `json:"long_context_prompt_price"`
	LongContextCompletionPrice decimal.NullDecimal `json:"long_context_completion_price"`

	// UnitSize is the token count prices refer to. It must be a power of ten
	// so that per-token costs stay exact.
	UnitSize int64 `json:"unit_size"`

	// Reasoning marks models that report reasoning tokens and take
	// reasoning-style request parameters.
	Reasoning bool `json:"reasoning"`
}

// IsDefault reports whether e is a provider fallback entry.
func (e Entry) IsDefault() bool {
	return e.Model == DefaultModel
}

// Unit returns UnitSize as a decimal, applying DefaultUnitSize when unset.
func (e Entry) Unit() decimal.Decimal {
	if e.UnitSize <= 0 {
		return decimal.NewFromInt(DefaultUnitSize)
	}
	return decimal.NewFromInt(e.UnitSize)
}

// UnitExponent returns n such that the unit size is 10^n.
func (e Entry) UnitExponent() int32 {
	n, _ := powerOfTen(e.UnitSize)
	return n
}

// powerOfTen returns n such that size is 10^n. Non-positive sizes mean
// DefaultUnitSize.
func powerOfTen(size int64) (int32, bool) {
	if size <= 0 {
		size = DefaultUnitSize
	}
	var n int32
	for size%10 == 0 {
		size /= 10
		n++
	}
	return n, size == 1
}

// Validate checks that the entry is usable for cost calculation.
func (e Entry) Validate() error {
	if e.Provider == "" {
		return fmt.Errorf("pricing entry %q: provider is required", e.Model)
	}
	if e.Model == "" {
		return fmt.Errorf("pricing entry for %s: model is required", e.Provider)
	}
	if e.UnitSize < 0 {
		return fmt.Errorf("pricing entry %s/%s: unit size must be positive", e.Provider, e.Model)
	}
	if _, ok := powerOfTen(e.UnitSize); !ok {
		return fmt.Errorf("pricing entry %s/%s: unit size %d must be a power of ten", e.Provider, e.Model, e.UnitSize)
	}

	prices := map[string]decimal.Decimal{
		"prompt":     e.PromptPrice,
		"completion": e.CompletionPrice,
	}
	optional := map[string]decimal.NullDecimal{
		"cached_prompt":           e.CachedPromptPrice,
		"reasoning":               e.ReasoningPrice,
		"long_context_prompt":     e.LongContextPromptPrice,
		"long_context_completion": e.LongContextCompletionPrice,
	}
	for name, p := range optional {
		if p.Valid {
			prices[name] = p.Decimal
		}
	}
	for name, p := range prices {
		if p.IsNegative() {
			return fmt.Errorf("pricing entry %s/%s: %s price must be non-negative", e.Provider, e.Model, name)
		}
	}

	if e.LongContextThreshold < 0 {
		return fmt.Errorf("pricing entry %s/%s: long context threshold must be non-negative", e.Provider, e.Model)
	}
	if e.LongContextThreshold > 0 && !e.LongContextPromptPrice.Valid && !e.LongContextCompletionPrice.Valid {
		return fmt.Errorf("pricing entry %s/%s: long context threshold set without long context prices", e.Provider, e.Model)
	}
	return nil
}
