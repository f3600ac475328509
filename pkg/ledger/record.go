package ledger

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"mercator-hq/meter/pkg/providers"
	"mercator-hq/meter/pkg/usage"
)

// ErrInvalidRecord is returned for records that cannot enter the ledger.
var ErrInvalidRecord = errors.New("invalid request record")

// RecordParams are the inputs of NewRequestRecord.
type RecordParams struct {
	// SessionID groups records; empty means the tracker's default session.
	SessionID string

	Provider providers.Type
	Model    string

	// Content is the response text.
	Content string

	Usage usage.Record

	// Cost is the exact total cost in USD.
	Cost decimal.Decimal

	// ThinkingTime is the wall time of the provider call.
	ThinkingTime time.Duration

	// Timestamp defaults to the time of construction.
	Timestamp time.Time
}

// RequestRecord is the accounting record of one completed request.
type RequestRecord struct {
	id           string
	sessionID    string
	provider     providers.Type
	model        string
	content      string
	usage        usage.Record
	cost         decimal.Decimal
	thinkingTime time.Duration
	timestamp    time.Time
}

// NewRequestRecord validates p and builds a record with a fresh ID.
// Every returned error wraps ErrInvalidRecord.
func NewRequestRecord(p RecordParams) (RequestRecord, error) {
	p.Usage = p.Usage.Clone()
	if _, err := providers.ParseType(string(p.Provider)); err != nil {
		return RequestRecord{}, fmt.Errorf("%w: %w", ErrInvalidRecord, err)
	}
	if p.Model == "" {
		return RequestRecord{}, fmt.Errorf("%w: model is required", ErrInvalidRecord)
	}
	if err := p.Usage.Validate(); err != nil {
		return RequestRecord{}, fmt.Errorf("%w: %w", ErrInvalidRecord, err)
	}
	if p.Cost.IsNegative() {
		return RequestRecord{}, fmt.Errorf("%w: cost %s is negative", ErrInvalidRecord, p.Cost)
	}
	if p.ThinkingTime < 0 {
		return RequestRecord{}, fmt.Errorf("%w: thinking time %s is negative", ErrInvalidRecord, p.ThinkingTime)
	}

	ts := p.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}

	return RequestRecord{
		id:           uuid.NewString(),
		sessionID:    p.SessionID,
		provider:     p.Provider,
		model:        p.Model,
		content:      p.Content,
		usage:        p.Usage,
		cost:         p.Cost,
		thinkingTime: p.ThinkingTime,
		timestamp:    ts.UTC(),
	}, nil
}

// ID returns the unique record identifier.
func (r RequestRecord) ID() string { return r.id }

// SessionID returns the session the record belongs to.
func (r RequestRecord) SessionID() string { return r.sessionID }

// Provider returns the provider that served the request.
func (r RequestRecord) Provider() providers.Type { return r.provider }

// Model returns the requested model.
func (r RequestRecord) Model() string { return r.model }

// Content returns the response text.
func (r RequestRecord) Content() string { return r.content }

// Usage returns a copy of the normalized token usage.
func (r RequestRecord) Usage() usage.Record { return r.usage.Clone() }

// Cost returns the exact cost in USD.
func (r RequestRecord) Cost() decimal.Decimal { return r.cost }

// ThinkingTime returns the wall time of the provider call.
func (r RequestRecord) ThinkingTime() time.Duration { return r.thinkingTime }

// Timestamp returns when the record was created, in UTC.
func (r RequestRecord) Timestamp() time.Time { return r.timestamp }

// IsZero reports whether r was not built by NewRequestRecord.
func (r RequestRecord) IsZero() bool { return r.id == "" }

type recordJSON struct {
	ID                  string          `json:"id"`
	SessionID           string          `json:"session_id"`
	Provider            string          `json:"provider"`
	Model               string          `json:"model"`
	Content             string          `json:"content,omitempty"`
	Usage               usage.Record    `json:"usage"`
	Cost                decimal.Decimal `json:"cost"`
	ThinkingTimeSeconds float64         `json:"thinking_time_seconds"`
	Timestamp           time.Time       `json:"timestamp"`
}

// MarshalJSON implements json.Marshaler.
func (r RequestRecord) MarshalJSON() ([]byte, error) {
	return json.Marshal(recordJSON{
		ID:                  r.id,
		SessionID:           r.sessionID,
		Provider:            string(r.provider),
		Model:               r.model,
		Content:             r.content,
		Usage:               r.usage,
		Cost:                r.cost,
		ThinkingTimeSeconds: r.thinkingTime.Seconds(),
		Timestamp:           r.timestamp,
	})
}
