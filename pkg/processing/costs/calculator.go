package costs

import (
	"fmt"
	"log/slog"

	"mercator-hq/meter/pkg/pricing"
	"mercator-hq/meter/pkg/providers"
	"mercator-hq/meter/pkg/usage"
)

// Calculator prices usage records against a pricing table.
// It holds no mutable state and is safe for concurrent use.
type Calculator struct {
	// table is the immutable price table
	table *pricing.Table

	logger *slog.Logger
}

// NewCalculator creates a cost calculator over table.
func NewCalculator(table *pricing.Table) *Calculator {
	return &Calculator{
		table:  table,
		logger: slog.Default().With("component", "costs"),
	}
}

// Table returns the pricing table used by the calculator.
func (c *Calculator) Table() *pricing.Table {
	return c.table
}

// Calculate returns the exact cost of u for model on provider.
//
// Unknown models are priced with the provider default entry and logged at
// WARN. When the provider has no default, the returned error wraps
// pricing.ErrUnavailable.
func (c *Calculator) Calculate(provider providers.Type, model string, u usage.Record) (Cost, error) {
	if err := u.Validate(); err != nil {
		return Cost{}, err
	}

	match, err := c.table.Lookup(string(provider), model)
	if err != nil {
		return Cost{}, fmt.Errorf("cannot price %s/%s: %w", provider, model, err)
	}

	if match.Fallback() {
		c.logger.Warn("pricing fallback",
			"provider", string(provider),
			"model", model,
			"priced_as", match.Entry.Model,
		)
	}

	cost := FormulaFor(provider)(match.Entry, u)
	cost.Provider = string(provider)
	cost.Model = model
	cost.PricedAs = match.Entry.Model
	cost.Fallback = match.Fallback()
	cost.Currency = "USD"

	return cost, nil
}
