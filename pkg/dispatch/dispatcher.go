package dispatch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"mercator-hq/meter/pkg/attachment"
	"mercator-hq/meter/pkg/config"
	"mercator-hq/meter/pkg/ledger"
	"mercator-hq/meter/pkg/pricing"
	"mercator-hq/meter/pkg/processing/costs"
	"mercator-hq/meter/pkg/providerfactory"
	"mercator-hq/meter/pkg/providers"
	"mercator-hq/meter/pkg/telemetry/logging"
	"mercator-hq/meter/pkg/telemetry/metrics"
	"mercator-hq/meter/pkg/usage"
)

// ProviderSource hands out provider clients by type.
// *providerfactory.Manager implements it.
type ProviderSource interface {
	Get(t providers.Type) (providers.Provider, error)
}

// Config controls request shaping.
type Config struct {
	// DefaultProvider is used when a query names none.
	DefaultProvider providers.Type

	// Timeout bounds every provider call.
	Timeout time.Duration

	// Temperature is sent to non-reasoning models; nil means
	// DefaultTemperature.
	Temperature     *float64
	MaxTokens       int
	ReasoningEffort string

	// DefaultModel resolves the model for queries that name none. Nil means
	// the built-in per-provider defaults.
	DefaultModel func(providers.Type) string
}

// ConfigFrom derives the dispatcher configuration from the loaded config.
func ConfigFrom(cfg *config.Config) Config {
	return Config{
		DefaultProvider: providers.Type(cfg.Request.DefaultProvider),
		Timeout:         cfg.Request.Timeout,
		Temperature:     cfg.Request.Temperature,
		MaxTokens:       cfg.Request.MaxTokens,
		ReasoningEffort: cfg.Request.ReasoningEffort,
		DefaultModel:    cfg.DefaultModel,
	}
}

// Query is one prompt to send.
type Query struct {
	Prompt string

	// Provider is a provider name; empty means the configured default.
	Provider string

	// Model is empty for the provider's default model.
	Model string

	// ImagePath is a local image file to attach.
	ImagePath string

	// Image is an already encoded image; it takes precedence over ImagePath.
	Image *attachment.Image

	// SessionID groups the ledger entry; empty means the tracker's default session.
	SessionID string
}

// Result is the outcome of a successful query.
type Result struct {
	Content  string
	Provider providers.Type
	Model    string

	// Record is the ledger entry, nil when the request was not tracked.
	Record *ledger.RequestRecord

	// Cost is the priced breakdown, nil when the request was not tracked.
	Cost *costs.Cost

	Tracked         bool
	UntrackedReason string
}

// Dispatcher sends queries to providers and records their usage and cost.
// It is safe for concurrent use.
type Dispatcher struct {
	config     Config
	providers  ProviderSource
	calculator *costs.Calculator
	tracker    *ledger.Tracker
	metrics    *metrics.Collector
	logger     *slog.Logger
}

// Option customizes a Dispatcher.
type Option func(*Dispatcher)

// WithMetrics records request metrics on collector.
func WithMetrics(collector *metrics.Collector) Option {
	return func(d *Dispatcher) {
		d.metrics = collector
	}
}

// WithLogger sets the logger. The default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(d *Dispatcher) {
		d.logger = logger
	}
}

// New creates a dispatcher. Zero config values take the package defaults.
func New(cfg Config, source ProviderSource, calculator *costs.Calculator, tracker *ledger.Tracker, opts ...Option) *Dispatcher {
	if cfg.DefaultProvider == "" {
		cfg.DefaultProvider = providers.TypeOpenAI
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = config.DefaultRequestTimeout
	}
	if cfg.Temperature == nil {
		temperature := DefaultTemperature
		cfg.Temperature = &temperature
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = DefaultMaxTokens
	}
	if cfg.ReasoningEffort == "" {
		cfg.ReasoningEffort = DefaultReasoningEffort
	}
	if cfg.DefaultModel == nil {
		cfg.DefaultModel = providerfactory.DefaultModel
	}

	d := &Dispatcher{
		config:     cfg,
		providers:  source,
		calculator: calculator,
		tracker:    tracker,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(d)
	}
	d.logger = d.logger.With("component", "dispatch")
	return d
}

// Tracker returns the ledger the dispatcher records into.
func (d *Dispatcher) Tracker() *ledger.Tracker {
	return d.tracker
}

// Query sends q and records the outcome.
//
// Configuration problems (unknown provider, missing key, unreadable image)
// are returned as is. Provider failures wrap ErrNoResponse. A response whose
// usage or price cannot be determined still succeeds, with Tracked false.
func (d *Dispatcher) Query(ctx context.Context, q Query) (*Result, error) {
	t := d.config.DefaultProvider
	if q.Provider != "" {
		parsed, err := providers.ParseType(q.Provider)
		if err != nil {
			return nil, err
		}
		t = parsed
	}

	model := q.Model
	if model == "" {
		model = d.config.DefaultModel(t)
	}

	ctx = logging.WithProvider(ctx, string(t))
	ctx = logging.WithModel(ctx, model)
	if q.SessionID != "" {
		ctx = logging.WithSession(ctx, q.SessionID)
	}

	image, err := d.resolveImage(ctx, t, q)
	if err != nil {
		return nil, err
	}

	provider, err := d.providers.Get(t)
	if err != nil {
		d.metrics.RecordProviderError(string(t), errorType(err))
		return nil, err
	}

	reasoning := d.calculator.Table().IsReasoningModel(string(t), model)
	req := d.buildRequest(t, model, q.Prompt, image, reasoning)

	callCtx, cancel := context.WithTimeout(ctx, d.config.Timeout)
	defer cancel()

	d.logger.DebugContext(ctx, "sending completion request", "reasoning", reasoning, "image", image != nil)

	start := time.Now()
	resp, err := provider.SendCompletion(callCtx, req)
	elapsed := time.Since(start)

	if err != nil {
		kind := errorType(err)
		d.metrics.RecordRequest(string(t), model, metrics.StatusError, elapsed)
		d.metrics.RecordProviderError(string(t), kind)
		d.logger.ErrorContext(ctx, "provider request failed",
			"error", err,
			"error_type", kind,
			"retryable", providers.IsRetryable(err),
			"latency_ms", elapsed.Milliseconds(),
		)
		return nil, fmt.Errorf("%w: %w", ErrNoResponse, err)
	}

	d.metrics.RecordRequest(string(t), model, metrics.StatusSuccess, elapsed)

	result := &Result{
		Content:  resp.Content,
		Provider: t,
		Model:    model,
	}
	d.track(ctx, result, q.SessionID, resp, reasoning, elapsed)
	return result, nil
}

// resolveImage returns the image to attach, or nil when the query has none or
// the provider cannot take one.
func (d *Dispatcher) resolveImage(ctx context.Context, t providers.Type, q Query) (*attachment.Image, error) {
	image := q.Image
	if image == nil && q.ImagePath != "" {
		encoded, err := attachment.EncodeImageFile(q.ImagePath)
		if err != nil {
			return nil, err
		}
		image = &encoded
	}
	if image == nil {
		return nil, nil
	}
	if !t.SupportsImages() {
		d.logger.WarnContext(ctx, "provider does not support images, ignoring attachment")
		return nil, nil
	}
	return image, nil
}

// track normalizes usage, prices it and appends a ledger entry. Failures
// leave the result untracked.
func (d *Dispatcher) track(ctx context.Context, result *Result, sessionID string, resp *providers.CompletionResponse, reasoning bool, elapsed time.Duration) {
	t, model := result.Provider, result.Model

	untracked := func(reason string, err error) {
		result.UntrackedReason = reason
		d.metrics.RecordUntracked(string(t), reason)
		d.logger.WarnContext(ctx, "request not tracked", "reason", reason, "error", err)
	}

	u, err := usage.Normalize(resp.Usage)
	if err != nil {
		if errors.Is(err, usage.ErrUnavailable) {
			untracked(ReasonUsageUnavailable, err)
		} else {
			untracked(ReasonInvalidUsage, err)
		}
		return
	}
	if !reasoning && u.HasReasoning() {
		u = u.WithoutReasoning()
	}

	cost, err := d.calculator.Calculate(t, model, u)
	if err != nil {
		if errors.Is(err, pricing.ErrUnavailable) {
			untracked(ReasonPricingUnavailable, err)
		} else {
			untracked(ReasonInvalidUsage, err)
		}
		return
	}
	if cost.Fallback {
		d.metrics.RecordPricingFallback(string(t))
	}

	if sessionID == "" {
		sessionID = d.tracker.SessionID()
	}
	rec, err := ledger.NewRequestRecord(ledger.RecordParams{
		SessionID:    sessionID,
		Provider:     t,
		Model:        model,
		Content:      resp.Content,
		Usage:        u,
		Cost:         cost.Total,
		ThinkingTime: elapsed,
	})
	if err == nil {
		err = d.tracker.Track(rec)
	}
	if err != nil {
		untracked(ReasonInvalidUsage, err)
		return
	}
	result.Record = &rec
	result.Cost = &cost
	result.Tracked = true

	d.metrics.RecordUsage(string(t), model, u)
	d.metrics.RecordCost(string(t), model, cost.Total)

	d.logger.InfoContext(ctx, "request tracked",
		"record_id", rec.ID(),
		"prompt_tokens", u.PromptTokens,
		"completion_tokens", u.CompletionTokens,
		"reasoning_tokens", u.Reasoning(),
		"cost", cost.Display(),
		"thinking_time_ms", elapsed.Milliseconds(),
	)
}
