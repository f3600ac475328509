// Package costs computes the exact USD cost of LLM requests from token usage.
//
// # Pricing Model
//
// Prices come from a pricing.Table and are expressed per UnitSize tokens:
//
//	cost = prompt/unit * promptPrice + completion/unit * completionPrice
//
// Refinements applied by the formulas:
//
//   - Cached prompt tokens are billed at the cached price when the entry has one
//   - Reasoning tokens are a subset of completion tokens; they are billed at a
//     dedicated reasoning price only when the entry defines one, and are then
//     removed from the completion base
//   - Gemini entries may define a long-context tier applied when the prompt
//     exceeds a threshold
//
// All arithmetic uses github.com/shopspring/decimal; nothing is rounded until
// Cost.Display.
//
// # Usage
//
//	table, _ := pricing.Default()
//	calculator := costs.NewCalculator(table)
//
//	cost, err := calculator.Calculate(providers.TypeOpenAI, "gpt-4o", rec)
//	if errors.Is(err, pricing.ErrUnavailable) {
//		// no price, leave the request untracked
//	}
//	fmt.Printf("Cost: $%s\n", cost.Display())
//
// # Formula variants
//
// Formulas are pure functions selected by provider type through a lookup
// table (see FormulaFor). Providers without a dedicated formula use the
// standard one.
package costs
