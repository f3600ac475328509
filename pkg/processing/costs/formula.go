package costs

import (
	"github.com/shopspring/decimal"

	"mercator-hq/meter/pkg/pricing"
	"mercator-hq/meter/pkg/usage"
)

// standardFormula bills prompt and completion tokens per unit.
//
// Cached prompt tokens use the cached price when the entry has one. Reasoning
// tokens are part of the completion tokens; they only move out of the
// completion base when the entry sets a reasoning price.
func standardFormula(entry pricing.Entry, u usage.Record) Cost {
	unit := entry.UnitExponent()

	prompt := u.PromptTokens
	var cached int64
	if entry.CachedPromptPrice.Valid {
		cached = u.CachedPromptTokens
		prompt -= cached
	}

	completion := u.CompletionTokens
	var reasoning int64
	if entry.ReasoningPrice.Valid && u.HasReasoning() {
		reasoning = u.Reasoning()
		completion -= reasoning
	}

	c := Cost{
		Prompt:       tokenCost(prompt, entry.PromptPrice, unit),
		CachedPrompt: decimal.Zero,
		Completion:   tokenCost(completion, entry.CompletionPrice, unit),
		Reasoning:    decimal.Zero,
		PricingTier:  TierStandard,
	}
	if cached > 0 {
		c.CachedPrompt = tokenCost(cached, entry.CachedPromptPrice.Decimal, unit)
	}
	if reasoning > 0 {
		c.Reasoning = tokenCost(reasoning, entry.ReasoningPrice.Decimal, unit)
	}
	c.Total = c.Prompt.Add(c.CachedPrompt).Add(c.Completion).Add(c.Reasoning)
	return c
}

// geminiFormula applies the long-context tier when the prompt is larger than
// the entry threshold, then bills like standardFormula.
func geminiFormula(entry pricing.Entry, u usage.Record) Cost {
	if entry.LongContextThreshold <= 0 || u.PromptTokens <= entry.LongContextThreshold {
		return standardFormula(entry, u)
	}

	tiered := entry
	if entry.LongContextPromptPrice.Valid {
		tiered.PromptPrice = entry.LongContextPromptPrice.Decimal
	}
	if entry.LongContextCompletionPrice.Valid {
		tiered.CompletionPrice = entry.LongContextCompletionPrice.Decimal
	}

	c := standardFormula(tiered, u)
	c.PricingTier = TierLongContext
	return c
}

// tokenCost returns tokens * price / 10^unit, exactly.
func tokenCost(tokens int64, price decimal.Decimal, unit int32) decimal.Decimal {
	if tokens <= 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(tokens).Mul(price).Shift(-unit)
}
