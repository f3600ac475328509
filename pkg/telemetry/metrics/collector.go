package metrics

import (
	"fmt"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"

	"mercator-hq/meter/pkg/config"
	"mercator-hq/meter/pkg/usage"
)

// Request status label values.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Collector owns every Prometheus metric meter exports.
//
// A nil *Collector is valid and records nothing, so callers that run without
// metrics need no special casing.
type Collector struct {
	config   *config.MetricsConfig
	registry *prometheus.Registry

	requestMetrics  *RequestMetrics
	providerMetrics *ProviderMetrics
	costMetrics     *CostMetrics

	cardinalityLimiter *CardinalityLimiter
}

// NewCollector creates a metrics collector registered on registry. If
// registry is nil a fresh registry is created.
//
// Example:
//
//	collector := metrics.NewCollector(&cfg.Telemetry.Metrics, nil)
//	mux.Handle(cfg.Telemetry.Metrics.Path, collector.Handler())
func NewCollector(cfg *config.MetricsConfig, registry *prometheus.Registry) *Collector {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}

	if cfg.Namespace == "" {
		cfg.Namespace = config.DefaultMetricsNamespace
	}
	if len(cfg.RequestDurationBuckets) == 0 {
		cfg.RequestDurationBuckets = config.DefaultRequestDurationBuckets
	}

	c := &Collector{
		config:             cfg,
		registry:           registry,
		cardinalityLimiter: NewCardinalityLimiter(1000),
	}

	c.requestMetrics = NewRequestMetrics(cfg, registry)
	c.providerMetrics = NewProviderMetrics(cfg, registry)
	c.costMetrics = NewCostMetrics(cfg, registry)

	return c
}

func (c *Collector) enabled() bool {
	return c != nil && c.config.IsEnabled()
}

// model returns the model label, folding new models into "other" once the
// cardinality limit is reached.
func (c *Collector) model(provider, model string) string {
	if !c.cardinalityLimiter.Allow(fmt.Sprintf("%s:%s", provider, model)) {
		return "other"
	}
	return model
}

// RecordRequest records a completed provider call.
//
// Parameters:
//   - provider: provider name (e.g., "openai", "gemini")
//   - model: model name
//   - status: StatusSuccess or StatusError
//   - duration: provider call duration (the request's thinking time)
func (c *Collector) RecordRequest(provider, model, status string, duration time.Duration) {
	if !c.enabled() {
		return
	}
	c.requestMetrics.RecordRequest(provider, c.model(provider, model), status, duration)
}

// RecordUsage adds a tracked request's token counts.
func (c *Collector) RecordUsage(provider, model string, u usage.Record) {
	if !c.enabled() {
		return
	}
	c.requestMetrics.RecordTokens(provider, c.model(provider, model), u)
}

// RecordCost adds a tracked request's cost.
func (c *Collector) RecordCost(provider, model string, cost decimal.Decimal) {
	if !c.enabled() {
		return
	}
	c.costMetrics.RecordRequestCost(provider, c.model(provider, model), cost)
}

// RecordPricingFallback counts a cost computed from a provider default entry.
func (c *Collector) RecordPricingFallback(provider string) {
	if !c.enabled() {
		return
	}
	c.costMetrics.RecordFallback(provider)
}

// RecordUntracked counts a request answered without a ledger entry.
//
// Parameters:
//   - provider: provider name
//   - reason: "usage_unavailable", "pricing_unavailable" or "invalid_usage"
func (c *Collector) RecordUntracked(provider, reason string) {
	if !c.enabled() {
		return
	}
	c.requestMetrics.RecordUntracked(provider, reason)
}

// RecordProviderError records an error from a provider.
//
// Parameters:
//   - provider: provider name
//   - errorType: "auth", "rate_limit", "timeout", "parse", "provider" or "config"
func (c *Collector) RecordProviderError(provider, errorType string) {
	if !c.enabled() {
		return
	}
	c.providerMetrics.RecordError(provider, errorType)
}

// Registry returns the Prometheus registry used by this collector.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// CardinalityLimiter prevents metric cardinality explosion by limiting
// the number of unique label combinations.
type CardinalityLimiter struct {
	maxCardinality int
	current        map[string]struct{}
	mu             sync.RWMutex
}

// NewCardinalityLimiter creates a new cardinality limiter with the specified
// maximum cardinality.
func NewCardinalityLimiter(maxCardinality int) *CardinalityLimiter {
	return &CardinalityLimiter{
		maxCardinality: maxCardinality,
		current:        make(map[string]struct{}),
	}
}

// Allow checks if a label set is allowed. Returns true if the label set
// already exists or if we haven't reached the cardinality limit yet.
func (cl *CardinalityLimiter) Allow(labelSet string) bool {
	cl.mu.RLock()
	if _, exists := cl.current[labelSet]; exists {
		cl.mu.RUnlock()
		return true
	}
	cl.mu.RUnlock()

	cl.mu.Lock()
	defer cl.mu.Unlock()

	if _, exists := cl.current[labelSet]; exists {
		return true
	}
	if len(cl.current) >= cl.maxCardinality {
		return false
	}
	cl.current[labelSet] = struct{}{}
	return true
}

// Count returns the current cardinality.
func (cl *CardinalityLimiter) Count() int {
	cl.mu.RLock()
	defer cl.mu.RUnlock()
	return len(cl.current)
}
