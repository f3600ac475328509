package ledger

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"mercator-hq/meter/pkg/providers"
)

// Filter selects records. Empty fields match everything; set fields are
// combined with AND.
type Filter struct {
	SessionID string
	Provider  providers.Type
	Model     string
}

func (f Filter) matches(r RequestRecord) bool {
	if f.SessionID != "" && r.sessionID != f.SessionID {
		return false
	}
	if f.Provider != "" && r.provider != f.Provider {
		return false
	}
	if f.Model != "" && r.model != f.Model {
		return false
	}
	return true
}

// TokenTotals sums the token counts of a set of records.
type TokenTotals struct {
	Prompt     int64 `json:"prompt"`
	Completion int64 `json:"completion"`
	Total      int64 `json:"total"`
	Reasoning  int64 `json:"reasoning"`
	Cached     int64 `json:"cached"`
}

func (t *TokenTotals) add(r RequestRecord) {
	t.Prompt += r.usage.PromptTokens
	t.Completion += r.usage.CompletionTokens
	t.Total += r.usage.TotalTokens
	t.Reasoning += r.usage.Reasoning()
	t.Cached += r.usage.CachedPromptTokens
}

// Option configures a Tracker.
type Option func(*Tracker)

// WithSessionID sets the default session instead of a generated one.
func WithSessionID(id string) Option {
	return func(t *Tracker) {
		if id != "" {
			t.sessionID = id
		}
	}
}

// Tracker is the in-memory, append-only request ledger.
//
// Records are indexed globally and per session. A lock guards appends and a
// read lock guards aggregate queries, so concurrent callers always observe
// a consistent prefix of the ledger.
type Tracker struct {
	// sessionID is used for records tracked without a session
	sessionID string

	// records holds every record in insertion order
	records []RequestRecord

	// sessions maps a session to the indexes of its records in records
	sessions map[string][]int

	// sessionOrder lists sessions by first appearance
	sessionOrder []string

	mu sync.RWMutex
}

// NewTracker creates an empty ledger with a generated default session.
func NewTracker(opts ...Option) *Tracker {
	t := &Tracker{
		sessionID: uuid.NewString(),
		sessions:  make(map[string][]int),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// SessionID returns the default session.
func (t *Tracker) SessionID() string {
	return t.sessionID
}

// Track appends rec to the ledger. Records without a session join the
// default session. It only fails for a zero-value record; any record built
// by NewRequestRecord is accepted.
func (t *Tracker) Track(rec RequestRecord) error {
	if rec.IsZero() {
		return ErrInvalidRecord
	}
	if rec.sessionID == "" {
		rec.sessionID = t.sessionID
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	idx := len(t.records)
	t.records = append(t.records, rec)
	if _, ok := t.sessions[rec.sessionID]; !ok {
		t.sessionOrder = append(t.sessionOrder, rec.sessionID)
	}
	t.sessions[rec.sessionID] = append(t.sessions[rec.sessionID], idx)
	return nil
}

// Len returns the number of tracked records.
func (t *Tracker) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.records)
}

// TotalCost sums the cost of the records of sessionID, or of every record
// when sessionID is empty. An empty ledger costs zero.
func (t *Tracker) TotalCost(sessionID string) decimal.Decimal {
	t.mu.RLock()
	defer t.mu.RUnlock()

	total := decimal.Zero
	t.each(sessionID, func(r RequestRecord) {
		total = total.Add(r.cost)
	})
	return total
}

// TotalTokens sums the token counts of the records of sessionID, or of every
// record when sessionID is empty.
func (t *Tracker) TotalTokens(sessionID string) TokenTotals {
	t.mu.RLock()
	defer t.mu.RUnlock()

	var totals TokenTotals
	t.each(sessionID, func(r RequestRecord) {
		totals.add(r)
	})
	return totals
}

// Records returns the records matching f in insertion order.
func (t *Tracker) Records(f Filter) []RequestRecord {
	t.mu.RLock()
	defer t.mu.RUnlock()

	var out []RequestRecord
	t.each(f.SessionID, func(r RequestRecord) {
		if f.matches(r) {
			out = append(out, r)
		}
	})
	return out
}

// Snapshot returns a copy of every record in insertion order.
func (t *Tracker) Snapshot() []RequestRecord {
	t.mu.RLock()
	defer t.mu.RUnlock()

	out := make([]RequestRecord, len(t.records))
	copy(out, t.records)
	return out
}

// Sessions returns the known sessions in order of first appearance.
func (t *Tracker) Sessions() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()

	out := make([]string, len(t.sessionOrder))
	copy(out, t.sessionOrder)
	return out
}

// ProviderStats aggregates the records of one provider.
type ProviderStats struct {
	Requests int             `json:"requests"`
	Tokens   TokenTotals     `json:"tokens"`
	Cost     decimal.Decimal `json:"cost"`
}

// Summary aggregates a session, or the whole ledger.
type Summary struct {
	// SessionID is empty for a whole-ledger summary.
	SessionID string `json:"session_id,omitempty"`

	Requests  int             `json:"requests"`
	Tokens    TokenTotals     `json:"tokens"`
	TotalCost decimal.Decimal `json:"total_cost"`

	// AverageThinkingTime is the mean provider call duration.
	AverageThinkingTime time.Duration `json:"average_thinking_time"`

	// Providers breaks the totals down by provider.
	Providers map[providers.Type]ProviderStats `json:"providers"`

	FirstRequest time.Time `json:"first_request,omitempty"`
	LastRequest  time.Time `json:"last_request,omitempty"`
}

// Summary returns the aggregate statistics of sessionID, or of the whole
// ledger when sessionID is empty.
func (t *Tracker) Summary(sessionID string) Summary {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.summary(sessionID)
}

func (t *Tracker) summary(sessionID string) Summary {
	s := Summary{
		SessionID: sessionID,
		TotalCost: decimal.Zero,
		Providers: make(map[providers.Type]ProviderStats),
	}

	var thinking time.Duration
	t.each(sessionID, func(r RequestRecord) {
		s.Requests++
		s.Tokens.add(r)
		s.TotalCost = s.TotalCost.Add(r.cost)
		thinking += r.thinkingTime

		if s.FirstRequest.IsZero() || r.timestamp.Before(s.FirstRequest) {
			s.FirstRequest = r.timestamp
		}
		if r.timestamp.After(s.LastRequest) {
			s.LastRequest = r.timestamp
		}

		ps := s.Providers[r.provider]
		if ps.Requests == 0 {
			ps.Cost = decimal.Zero
		}
		ps.Requests++
		ps.Tokens.add(r)
		ps.Cost = ps.Cost.Add(r.cost)
		s.Providers[r.provider] = ps
	})

	if s.Requests > 0 {
		s.AverageThinkingTime = thinking / time.Duration(s.Requests)
	}
	return s
}

// DayStats aggregates the records of one UTC day.
type DayStats struct {
	// Date is formatted as 2006-01-02.
	Date     string          `json:"date"`
	Requests int             `json:"requests"`
	Tokens   TokenTotals     `json:"tokens"`
	Cost     decimal.Decimal `json:"cost"`
}

// Daily returns per-day statistics of sessionID, or of the whole ledger when
// sessionID is empty, sorted by date.
func (t *Tracker) Daily(sessionID string) []DayStats {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.daily(sessionID)
}

// Report returns Summary and Daily of sessionID computed over the same
// ledger state.
func (t *Tracker) Report(sessionID string) (Summary, []DayStats) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.summary(sessionID), t.daily(sessionID)
}

func (t *Tracker) daily(sessionID string) []DayStats {
	days := make(map[string]*DayStats)
	t.each(sessionID, func(r RequestRecord) {
		date := r.timestamp.Format(time.DateOnly)
		ds, ok := days[date]
		if !ok {
			ds = &DayStats{Date: date, Cost: decimal.Zero}
			days[date] = ds
		}
		ds.Requests++
		ds.Tokens.add(r)
		ds.Cost = ds.Cost.Add(r.cost)
	})

	out := make([]DayStats, 0, len(days))
	for _, ds := range days {
		out = append(out, *ds)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out
}

// each calls fn for the records of sessionID, or for every record when
// sessionID is empty, in insertion order. The caller holds the lock.
func (t *Tracker) each(sessionID string, fn func(RequestRecord)) {
	if sessionID == "" {
		for _, r := range t.records {
			fn(r)
		}
		return
	}
	for _, idx := range t.sessions[sessionID] {
		fn(t.records[idx])
	}
}
