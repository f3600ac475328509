package pricing

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

//go:embed default_pricing.yaml
var defaultPricingYAML []byte

// fileFormat is the on-disk layout of a pricing file.
type fileFormat struct {
	// UnitSize applies to every entry that does not set its own.
	UnitSize int64 `yaml:"unit_size"`

	// Providers maps a provider name to its model entries.
	Providers map[string][]fileEntry `yaml:"providers"`
}

// fileEntry keeps prices as strings so they parse to exact decimals.
type fileEntry struct {
	Model                 string `yaml:"model"`
	Prompt                string `yaml:"prompt"`
	Completion            string `yaml:"completion"`
	CachedPrompt          string `yaml:"cached_prompt"`
	Reasoning             bool   `yaml:"reasoning"`
	ReasoningPrice        string `yaml:"reasoning_price"`
	LongContextThreshold  int64  `yaml:"long_context_threshold"`
	LongContextPrompt     string `yaml:"long_context_prompt"`
	LongContextCompletion string `yaml:"long_context_completion"`
	UnitSize              int64  `yaml:"unit_size"`
}

// Default returns the built-in price table.
func Default() (*Table, error) {
	t, err := Parse(defaultPricingYAML)
	if err != nil {
		return nil, fmt.Errorf("failed to parse built-in pricing: %w", err)
	}
	return t, nil
}

// Load returns the built-in table, overridden by the file at path when path
// is not empty.
func Load(path string) (*Table, error) {
	base, err := Default()
	if err != nil {
		return nil, err
	}
	if path == "" {
		return base, nil
	}

	override, err := LoadFile(path)
	if err != nil {
		return nil, err
	}
	return base.Override(override), nil
}

// LoadFile reads a pricing file.
func LoadFile(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read pricing file: %w", err)
	}
	t, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse pricing file %s: %w", path, err)
	}
	return t, nil
}

// Parse builds a table from YAML.
func Parse(data []byte) (*Table, error) {
	var f fileFormat
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, err
	}

	var entries []Entry
	for provider, models := range f.Providers {
		for _, fe := range models {
			e, err := fe.toEntry(provider, f.UnitSize)
			if err != nil {
				return nil, err
			}
			entries = append(entries, e)
		}
	}
	return NewTable(entries)
}

func (fe fileEntry) toEntry(provider string, unitSize int64) (Entry, error) {
	e := Entry{
		Provider:             provider,
		Model:                fe.Model,
		Reasoning:            fe.Reasoning,
		LongContextThreshold: fe.LongContextThreshold,
		UnitSize:             fe.UnitSize,
	}
	if e.UnitSize == 0 {
		e.UnitSize = unitSize
	}

	var err error
	if e.PromptPrice, err = parseRequired(fe.Prompt, provider, fe.Model, "prompt"); err != nil {
		return Entry{}, err
	}
	if e.CompletionPrice, err = parseRequired(fe.Completion, provider, fe.Model, "completion"); err != nil {
		return Entry{}, err
	}
	if e.CachedPromptPrice, err = parseOptional(fe.CachedPrompt, provider, fe.Model, "cached_prompt"); err != nil {
		return Entry{}, err
	}
	if e.ReasoningPrice, err = parseOptional(fe.ReasoningPrice, provider, fe.Model, "reasoning_price"); err != nil {
		return Entry{}, err
	}
	if e.LongContextPromptPrice, err = parseOptional(fe.LongContextPrompt, provider, fe.Model, "long_context_prompt"); err != nil {
		return Entry{}, err
	}
	if e.LongContextCompletionPrice, err = parseOptional(fe.LongContextCompletion, provider, fe.Model, "long_context_completion"); err != nil {
		return Entry{}, err
	}
	return e, nil
}

func parseRequired(s, provider, model, field string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Decimal{}, fmt.Errorf("pricing entry %s/%s: %s is required", provider, model, field)
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("pricing entry %s/%s: invalid %s %q: %w", provider, model, field, s, err)
	}
	return d, nil
}

func parseOptional(s, provider, model, field string) (decimal.NullDecimal, error) {
	if s == "" {
		return decimal.NullDecimal{}, nil
	}
	d, err := parseRequired(s, provider, model, field)
	if err != nil {
		return decimal.NullDecimal{}, err
	}
	return decimal.NewNullDecimal(d), nil
}
