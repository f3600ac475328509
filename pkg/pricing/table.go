package pricing

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrUnavailable is returned when no entry, not even a provider default,
// prices the requested model.
var ErrUnavailable = errors.New("pricing unavailable")

// MatchKind tells how Lookup resolved a model.
type MatchKind int

const (
	// MatchExact means the entry names the model exactly.
	MatchExact MatchKind = iota
	// MatchPrefix means the entry model is the longest prefix of the model.
	MatchPrefix
	// MatchDefault means the provider default entry was used.
	MatchDefault
)

// String returns the match kind name.
func (k MatchKind) String() string {
	switch k {
	case MatchExact:
		return "exact"
	case MatchPrefix:
		return "prefix"
	case MatchDefault:
		return "default"
	default:
		return "unknown"
	}
}

// Match is the result of a successful lookup.
type Match struct {
	Entry Entry
	Kind  MatchKind
}

// Fallback reports whether the provider default entry was used.
func (m Match) Fallback() bool {
	return m.Kind == MatchDefault
}

// providerTable indexes the entries of one provider.
type providerTable struct {
	exact    map[string]Entry
	prefixes []Entry // longest model first
	fallback *Entry
}

// Table is an immutable price table. It is safe for concurrent use.
type Table struct {
	providers map[string]*providerTable
}

// NewTable validates entries and builds a table from them. Provider names are
// case-insensitive; model names are matched case-sensitively.
func NewTable(entries []Entry) (*Table, error) {
	t := &Table{providers: make(map[string]*providerTable)}

	for _, e := range entries {
		e.Provider = strings.ToLower(e.Provider)
		if e.UnitSize == 0 {
			e.UnitSize = DefaultUnitSize
		}
		if err := e.Validate(); err != nil {
			return nil, err
		}

		pt, ok := t.providers[e.Provider]
		if !ok {
			pt = &providerTable{exact: make(map[string]Entry)}
			t.providers[e.Provider] = pt
		}

		if _, dup := pt.exact[e.Model]; dup {
			return nil, fmt.Errorf("duplicate pricing entry %s/%s", e.Provider, e.Model)
		}
		pt.exact[e.Model] = e

		if e.IsDefault() {
			entry := e
			pt.fallback = &entry
			continue
		}
		pt.prefixes = append(pt.prefixes, e)
	}

	for _, pt := range t.providers {
		sort.Slice(pt.prefixes, func(i, j int) bool {
			a, b := pt.prefixes[i].Model, pt.prefixes[j].Model
			if len(a) != len(b) {
				return len(a) > len(b)
			}
			return a < b
		})
	}

	return t, nil
}

// Lookup finds the entry pricing model for provider.
func (t *Table) Lookup(provider, model string) (Match, error) {
	pt, ok := t.providers[strings.ToLower(provider)]
	if !ok {
		return Match{}, fmt.Errorf("%w: unknown provider %q", ErrUnavailable, provider)
	}

	if e, ok := pt.exact[model]; ok && !e.IsDefault() {
		return Match{Entry: e, Kind: MatchExact}, nil
	}

	for _, e := range pt.prefixes {
		if strings.HasPrefix(model, e.Model) {
			return Match{Entry: e, Kind: MatchPrefix}, nil
		}
	}

	if pt.fallback != nil {
		return Match{Entry: *pt.fallback, Kind: MatchDefault}, nil
	}

	return Match{}, fmt.Errorf("%w: no price for %s/%s and no provider default", ErrUnavailable, provider, model)
}

// IsReasoningModel reports whether the table marks model as a reasoning model.
// Unknown models are not reasoning models; the provider default entry is not
// consulted.
func (t *Table) IsReasoningModel(provider, model string) bool {
	m, err := t.Lookup(provider, model)
	if err != nil || m.Fallback() {
		return false
	}
	return m.Entry.Reasoning
}

// Providers returns the provider names in the table, sorted.
func (t *Table) Providers() []string {
	names := make([]string, 0, len(t.providers))
	for name := range t.providers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Entries returns the entries of provider, or of all providers when provider
// is empty, sorted by provider then model.
func (t *Table) Entries(provider string) []Entry {
	var out []Entry
	for name, pt := range t.providers {
		if provider != "" && name != strings.ToLower(provider) {
			continue
		}
		for _, e := range pt.exact {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Provider != out[j].Provider {
			return out[i].Provider < out[j].Provider
		}
		return out[i].Model < out[j].Model
	})
	return out
}

// Len returns the number of entries in the table.
func (t *Table) Len() int {
	n := 0
	for _, pt := range t.providers {
		n += len(pt.exact)
	}
	return n
}

// Override returns a new table with the providers of o replacing those of t.
// Providers only present in t are kept.
func (t *Table) Override(o *Table) *Table {
	merged := &Table{providers: make(map[string]*providerTable, len(t.providers)+len(o.providers))}
	for name, pt := range t.providers {
		merged.providers[name] = pt
	}
	for name, pt := range o.providers {
		merged.providers[name] = pt
	}
	return merged
}
