package cli

import (
	"sort"
	"strconv"

	"github.com/shopspring/decimal"

	"mercator-hq/meter/pkg/ledger"
	"mercator-hq/meter/pkg/pricing"
	"mercator-hq/meter/pkg/processing/costs"
	"mercator-hq/meter/pkg/providers"
)

// PricingTable lists the pricing entries of provider, or of every provider
// when provider is empty.
func PricingTable(table *pricing.Table, provider string) *Table {
	t := &Table{
		Headers: []string{"provider", "model", "prompt", "completion", "cached_prompt", "reasoning_price", "unit_size", "reasoning"},
	}

	names := table.Providers()
	if provider != "" {
		names = []string{provider}
	}

	entries := []pricing.Entry{}
	for _, name := range names {
		for _, e := range table.Entries(name) {
			entries = append(entries, e)
			t.Rows = append(t.Rows, []string{
				e.Provider,
				e.Model,
				e.PromptPrice.String(),
				e.CompletionPrice.String(),
				nullString(e.CachedPromptPrice),
				nullString(e.ReasoningPrice),
				e.Unit().String(),
				strconv.FormatBool(e.Reasoning),
			})
		}
	}
	t.Data = entries
	return t
}

// CostTable renders a cost breakdown.
func CostTable(c costs.Cost) *Table {
	pricedAs := c.PricedAs
	if c.Fallback {
		pricedAs += " (fallback)"
	}
	return &Table{
		Headers: []string{"component", "usd"},
		Rows: [][]string{
			{"prompt", c.Prompt.StringFixed(costs.DisplayPlaces)},
			{"cached_prompt", c.CachedPrompt.StringFixed(costs.DisplayPlaces)},
			{"completion", c.Completion.StringFixed(costs.DisplayPlaces)},
			{"reasoning", c.Reasoning.StringFixed(costs.DisplayPlaces)},
			{"total", c.Display()},
			{"priced_as", pricedAs},
			{"tier", c.PricingTier},
		},
		Data: c,
	}
}

// SummaryTable renders a ledger summary with one row per provider and a
// closing total row.
func SummaryTable(s ledger.Summary) *Table {
	t := &Table{
		Headers: []string{"provider", "requests", "prompt_tokens", "completion_tokens", "reasoning_tokens", "total_tokens", "cost_usd"},
		Data:    s,
	}

	names := make([]string, 0, len(s.Providers))
	for p := range s.Providers {
		names = append(names, string(p))
	}
	sort.Strings(names)

	for _, name := range names {
		ps := s.Providers[providers.Type(name)]
		t.Rows = append(t.Rows, statsRow(name, ps.Requests, ps.Tokens, ps.Cost))
	}
	t.Rows = append(t.Rows, statsRow("total", s.Requests, s.Tokens, s.TotalCost))
	return t
}

// RecordsTable renders ledger records, one row each.
func RecordsTable(records []ledger.RequestRecord) *Table {
	t := &Table{
		Headers: []string{"timestamp", "session", "provider", "model", "prompt_tokens", "completion_tokens", "total_tokens", "cost_usd", "thinking_s"},
		Data:    records,
	}
	if records == nil {
		t.Data = []ledger.RequestRecord{}
	}
	for _, r := range records {
		u := r.Usage()
		t.Rows = append(t.Rows, []string{
			r.Timestamp().Format("2006-01-02T15:04:05Z07:00"),
			r.SessionID(),
			r.Provider().String(),
			r.Model(),
			itoa(u.PromptTokens),
			itoa(u.CompletionTokens),
			itoa(u.TotalTokens),
			r.Cost().StringFixed(costs.DisplayPlaces),
			strconv.FormatFloat(r.ThinkingTime().Seconds(), 'f', 3, 64),
		})
	}
	return t
}

func statsRow(name string, requests int, tok ledger.TokenTotals, cost decimal.Decimal) []string {
	return []string{
		name,
		strconv.Itoa(requests),
		itoa(tok.Prompt),
		itoa(tok.Completion),
		itoa(tok.Reasoning),
		itoa(tok.Total),
		cost.StringFixed(costs.DisplayPlaces),
	}
}

func nullString(d decimal.NullDecimal) string {
	if !d.Valid {
		return "-"
	}
	return d.Decimal.String()
}

func itoa(n int64) string {
	return strconv.FormatInt(n, 10)
}
