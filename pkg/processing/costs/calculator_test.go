package costs

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"mercator-hq/meter/pkg/pricing"
	"mercator-hq/meter/pkg/providers"
	"mercator-hq/meter/pkg/usage"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func nd(s string) decimal.NullDecimal {
	return decimal.NewNullDecimal(d(s))
}

func testTable(t *testing.T) *pricing.Table {
	t.Helper()
	table, err := pricing.NewTable([]pricing.Entry{
		{Provider: "openai", Model: "gpt-4o", PromptPrice: d("2.50"), CompletionPrice: d("10.00"), CachedPromptPrice: nd("1.25")},
		{Provider: "openai", Model: "o1", PromptPrice: d("15"), CompletionPrice: d("60"), Reasoning: true},
		{Provider: "openai", Model: "o3-priced", PromptPrice: d("1"), CompletionPrice: d("4"), ReasoningPrice: nd("8"), Reasoning: true},
		{Provider: "openai", Model: pricing.DefaultModel, PromptPrice: d("1"), CompletionPrice: d("2")},
		{Provider: "anthropic", Model: "claude-3-5-sonnet", PromptPrice: d("3"), CompletionPrice: d("15"), CachedPromptPrice: nd("0.30")},
		{
			Provider: "gemini", Model: "gemini-1.5-pro",
			PromptPrice: d("1.25"), CompletionPrice: d("5"),
			LongContextThreshold:   128000,
			LongContextPromptPrice: nd("2.50"), LongContextCompletionPrice: nd("10"),
		},
		{Provider: "gpt-per-1k", Model: "m", PromptPrice: d("0.03"), CompletionPrice: d("0.06"), UnitSize: 1000},
	})
	if err != nil {
		t.Fatalf("NewTable: %v", err)
	}
	return table
}

func TestCalculator_Calculate(t *testing.T) {
	calc := NewCalculator(testTable(t))

	tests := []struct {
		name           string
		provider       providers.Type
		model          string
		usage          usage.Record
		wantTotal      string
		wantCompletion string
		wantReasoning  string
		wantTier       string
		wantFallback   bool
	}{
		{
			name:           "exact prices",
			provider:       providers.TypeOpenAI,
			model:          "gpt-4o",
			usage:          usage.MustNew(1000, 500),
			wantTotal:      "0.0075", // 1000*2.5/1e6 + 500*10/1e6
			wantCompletion: "0.005",
			wantReasoning:  "0",
			wantTier:       TierStandard,
		},
		{
			name:           "cached prompt tokens at cached price",
			provider:       providers.TypeOpenAI,
			model:          "gpt-4o-2024-08-06",
			usage:          usage.MustNew(1000, 0, usage.WithCachedPrompt(400)),
			wantTotal:      "0.002", // 600*2.5/1e6 + 400*1.25/1e6
			wantCompletion: "0",
			wantReasoning:  "0",
			wantTier:       TierStandard,
		},
		{
			name:           "reasoning without reasoning price is not double counted",
			provider:       providers.TypeOpenAI,
			model:          "o1",
			usage:          usage.MustNew(0, 100, usage.WithReasoning(40)),
			wantTotal:      "0.006", // all 100 at 60/1e6
			wantCompletion: "0.006",
			wantReasoning:  "0",
			wantTier:       TierStandard,
		},
		{
			name:           "reasoning price moves reasoning out of completion base",
			provider:       providers.TypeOpenAI,
			model:          "o3-priced",
			usage:          usage.MustNew(0, 100, usage.WithReasoning(40)),
			wantTotal:      "0.00056", // 60*4/1e6 + 40*8/1e6
			wantCompletion: "0.00024",
			wantReasoning:  "0.00032",
			wantTier:       TierStandard,
		},
		{
			name:           "provider default fallback",
			provider:       providers.TypeOpenAI,
			model:          "text-davinci-003",
			usage:          usage.MustNew(1_000_000, 1_000_000),
			wantTotal:      "3",
			wantCompletion: "2",
			wantReasoning:  "0",
			wantTier:       TierStandard,
			wantFallback:   true,
		},
		{
			name:           "gemini standard tier",
			provider:       providers.TypeGemini,
			model:          "gemini-1.5-pro-002",
			usage:          usage.MustNew(128000, 1000),
			wantTotal:      "0.165", // 128000*1.25/1e6 + 1000*5/1e6
			wantCompletion: "0.005",
			wantReasoning:  "0",
			wantTier:       TierStandard,
		},
		{
			name:           "gemini long context tier",
			provider:       providers.TypeGemini,
			model:          "gemini-1.5-pro-002",
			usage:          usage.MustNew(200000, 1000),
			wantTotal:      "0.51", // 200000*2.5/1e6 + 1000*10/1e6
			wantCompletion: "0.01",
			wantReasoning:  "0",
			wantTier:       TierLongContext,
		},
		{
			name:           "custom unit size",
			provider:       providers.Type("gpt-per-1k"),
			model:          "m",
			usage:          usage.MustNew(100, 50),
			wantTotal:      "0.006", // 100*0.03/1000 + 50*0.06/1000
			wantCompletion: "0.003",
			wantReasoning:  "0",
			wantTier:       TierStandard,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cost, err := calc.Calculate(tt.provider, tt.model, tt.usage)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !cost.Total.Equal(d(tt.wantTotal)) {
				t.Errorf("Total = %s, want %s", cost.Total, tt.wantTotal)
			}
			if !cost.Completion.Equal(d(tt.wantCompletion)) {
				t.Errorf("Completion = %s, want %s", cost.Completion, tt.wantCompletion)
			}
			if !cost.Reasoning.Equal(d(tt.wantReasoning)) {
				t.Errorf("Reasoning = %s, want %s", cost.Reasoning, tt.wantReasoning)
			}
			if cost.PricingTier != tt.wantTier {
				t.Errorf("PricingTier = %q, want %q", cost.PricingTier, tt.wantTier)
			}
			if cost.Fallback != tt.wantFallback {
				t.Errorf("Fallback = %v, want %v", cost.Fallback, tt.wantFallback)
			}
			sum := cost.Prompt.Add(cost.CachedPrompt).Add(cost.Completion).Add(cost.Reasoning)
			if !sum.Equal(cost.Total) {
				t.Errorf("breakdown %s does not add up to total %s", sum, cost.Total)
			}
		})
	}
}

func TestCalculator_PricingUnavailable(t *testing.T) {
	calc := NewCalculator(testTable(t))

	tests := []struct {
		name     string
		provider providers.Type
		model    string
	}{
		{name: "no provider default", provider: providers.TypeAnthropic, model: "claude-2.1"},
		{name: "provider not in table", provider: providers.TypeDeepSeek, model: "deepseek-chat"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cost, err := calc.Calculate(tt.provider, tt.model, usage.MustNew(10, 10))
			if !errors.Is(err, pricing.ErrUnavailable) {
				t.Fatalf("expected pricing.ErrUnavailable, got %v", err)
			}
			if !cost.Total.IsZero() || cost.Provider != "" {
				t.Errorf("expected zero Cost on error, got %+v", cost)
			}
		})
	}
}

func TestCalculator_RejectsInvalidUsage(t *testing.T) {
	calc := NewCalculator(testTable(t))

	_, err := calc.Calculate(providers.TypeOpenAI, "gpt-4o", usage.Record{PromptTokens: -1})
	var verr *usage.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected usage.ValidationError, got %v", err)
	}
}

func TestCalculator_NonNegativeAndMonotonic(t *testing.T) {
	calc := NewCalculator(testTable(t))

	models := []struct {
		provider providers.Type
		model    string
	}{
		{providers.TypeOpenAI, "gpt-4o"},
		{providers.TypeOpenAI, "o3-priced"},
		{providers.TypeAnthropic, "claude-3-5-sonnet-latest"},
		{providers.TypeGemini, "gemini-1.5-pro"},
	}
	steps := []int64{0, 1, 999, 127999, 128000, 128001, 1_000_000}

	for _, m := range models {
		t.Run(m.model, func(t *testing.T) {
			for _, completion := range steps {
				prev := decimal.NewFromInt(-1)
				for _, prompt := range steps {
					cost, err := calc.Calculate(m.provider, m.model, usage.MustNew(prompt, completion))
					if err != nil {
						t.Fatalf("Calculate(%d, %d): %v", prompt, completion, err)
					}
					if cost.Total.IsNegative() {
						t.Fatalf("negative cost %s for (%d, %d)", cost.Total, prompt, completion)
					}
					if cost.Total.LessThan(prev) {
						t.Fatalf("cost decreased from %s to %s when prompt grew to %d", prev, cost.Total, prompt)
					}
					prev = cost.Total
				}
			}

			for _, prompt := range steps {
				prev := decimal.NewFromInt(-1)
				for _, completion := range steps {
					cost, err := calc.Calculate(m.provider, m.model, usage.MustNew(prompt, completion))
					if err != nil {
						t.Fatalf("Calculate(%d, %d): %v", prompt, completion, err)
					}
					if cost.Total.LessThan(prev) {
						t.Fatalf("cost decreased from %s to %s when completion grew to %d", prev, cost.Total, completion)
					}
					prev = cost.Total
				}
			}
		})
	}
}

func TestCost_Display(t *testing.T) {
	c := Cost{Total: d("0.0000004999")}
	if got := c.Display(); got != "0.000000" {
		t.Errorf("Display() = %q, want %q", got, "0.000000")
	}

	c = Cost{Total: d("1.2345675")}
	if got := c.Display(); got != "1.234568" {
		t.Errorf("Display() = %q, want %q", got, "1.234568")
	}
	if !c.Total.Equal(d("1.2345675")) {
		t.Error("Display must not round the stored total")
	}
}

func TestFormulaFor(t *testing.T) {
	entry := pricing.Entry{
		Provider: "x", Model: "m", PromptPrice: d("1"), CompletionPrice: d("1"),
		LongContextThreshold: 10, LongContextPromptPrice: nd("100"),
	}
	u := usage.MustNew(20, 0)

	if got := FormulaFor(providers.TypeGemini)(entry, u); got.PricingTier != TierLongContext {
		t.Errorf("gemini formula tier = %q, want %q", got.PricingTier, TierLongContext)
	}
	if got := FormulaFor(providers.TypeOpenAI)(entry, u); got.PricingTier != TierStandard {
		t.Errorf("openai formula tier = %q, want %q", got.PricingTier, TierStandard)
	}
	if got := FormulaFor(providers.Type("unknown"))(entry, u); got.PricingTier != TierStandard {
		t.Errorf("unknown provider should use the standard formula, got %q", got.PricingTier)
	}
}

func TestTokenCost_Exact(t *testing.T) {
	entry := pricing.Entry{Provider: "openai", Model: "m", PromptPrice: d("0.0000000000000007"), UnitSize: 1_000_000}

	total := decimal.Zero
	for i := 0; i < 3; i++ {
		total = total.Add(standardFormula(entry, usage.MustNew(1, 0)).Total)
	}
	if want := d("0.0000000000000000000021"); !total.Equal(want) {
		t.Errorf("total = %s, want %s", total, want)
	}

	if got := tokenCost(1, d("1"), 3); !got.Equal(d("0.001")) {
		t.Errorf("tokenCost per 1k = %s, want 0.001", got)
	}
}
