package usage

import (
	"errors"
	"fmt"
)

// ErrUnavailable signals that a provider response did not report token usage.
// It is an expected outcome, not a failure.
var ErrUnavailable = errors.New("usage unavailable")

// Record is the token usage of one completed API call.
// Records are values; build them with New so the invariants hold.
type Record struct {
	// PromptTokens is the number of input tokens, cached ones included.
	PromptTokens int64 `json:"prompt_tokens"`

	// CompletionTokens is the number of output tokens, reasoning ones included.
	CompletionTokens int64 `json:"completion_tokens"`

	// TotalTokens is PromptTokens+CompletionTokens unless the provider reported
	// a different total.
	TotalTokens int64 `json:"total_tokens"`

	// ReasoningTokens is set only for models exposing a separate reasoning count.
	// It is a subset of CompletionTokens.
	ReasoningTokens *int64 `json:"reasoning_tokens,omitempty"`

	// CachedPromptTokens is the subset of PromptTokens served from a prompt cache.
	CachedPromptTokens int64 `json:"cached_prompt_tokens,omitempty"`
}

// Option customizes a Record built by New.
type Option func(*Record)

// WithReasoning sets the reasoning token count.
func WithReasoning(n int64) Option {
	return func(r *Record) {
		r.ReasoningTokens = &n
	}
}

// WithCachedPrompt sets the cached prompt token count.
func WithCachedPrompt(n int64) Option {
	return func(r *Record) {
		r.CachedPromptTokens = n
	}
}

// WithReportedTotal sets the provider-reported total. A zero total is treated
// as "not reported" and the sum of prompt and completion tokens is used.
func WithReportedTotal(n int64) Option {
	return func(r *Record) {
		r.TotalTokens = n
	}
}

// New builds a validated Record.
func New(prompt, completion int64, opts ...Option) (Record, error) {
	r := Record{
		PromptTokens:     prompt,
		CompletionTokens: completion,
	}
	for _, opt := range opts {
		opt(&r)
	}
	if r.TotalTokens == 0 {
		r.TotalTokens = prompt + completion
	}
	if err := r.Validate(); err != nil {
		return Record{}, err
	}
	return r, nil
}

// MustNew is like New but panics on invalid input. Intended for tests and
// static tables.
func MustNew(prompt, completion int64, opts ...Option) Record {
	r, err := New(prompt, completion, opts...)
	if err != nil {
		panic(err)
	}
	return r
}

// Validate checks the record invariants.
func (r Record) Validate() error {
	switch {
	case r.PromptTokens < 0:
		return &ValidationError{Field: "prompt_tokens", Value: r.PromptTokens}
	case r.CompletionTokens < 0:
		return &ValidationError{Field: "completion_tokens", Value: r.CompletionTokens}
	case r.TotalTokens < 0:
		return &ValidationError{Field: "total_tokens", Value: r.TotalTokens}
	case r.CachedPromptTokens < 0:
		return &ValidationError{Field: "cached_prompt_tokens", Value: r.CachedPromptTokens}
	case r.CachedPromptTokens > r.PromptTokens:
		return &ValidationError{Field: "cached_prompt_tokens", Value: r.CachedPromptTokens, Reason: "exceeds prompt_tokens"}
	}
	if r.ReasoningTokens != nil {
		n := *r.ReasoningTokens
		if n < 0 {
			return &ValidationError{Field: "reasoning_tokens", Value: n}
		}
		if n > r.CompletionTokens {
			return &ValidationError{Field: "reasoning_tokens", Value: n, Reason: "exceeds completion_tokens"}
		}
	}
	return nil
}

// HasReasoning reports whether a reasoning token count was reported.
func (r Record) HasReasoning() bool {
	return r.ReasoningTokens != nil
}

// Reasoning returns the reasoning token count, or 0 when not reported.
func (r Record) Reasoning() int64 {
	if r.ReasoningTokens == nil {
		return 0
	}
	return *r.ReasoningTokens
}

// Clone returns a copy of r that shares no memory with it.
func (r Record) Clone() Record {
	if r.ReasoningTokens != nil {
		n := *r.ReasoningTokens
		r.ReasoningTokens = &n
	}
	return r
}

// WithoutReasoning returns a copy of r with the reasoning count dropped.
func (r Record) WithoutReasoning() Record {
	r.ReasoningTokens = nil
	return r
}

// ValidationError reports an invalid token count.
type ValidationError struct {
	Field  string
	Value  int64
	Reason string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("invalid usage %s=%d: %s", e.Field, e.Value, e.Reason)
	}
	return fmt.Sprintf("invalid usage %s=%d: must be non-negative", e.Field, e.Value)
}
