package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"mercator-hq/meter/pkg/config"
	"mercator-hq/meter/pkg/usage"
)

// RequestMetrics tracks LLM request outcomes and token volume.
//
// Metrics:
//   - meter_requests_total: request count by provider, model, status
//   - meter_request_duration_seconds: provider call duration histogram
//   - meter_tokens_total: tokens by provider, model, kind
//   - meter_untracked_requests_total: answered requests with no ledger entry
type RequestMetrics struct {
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	tokensTotal     *prometheus.CounterVec
	untrackedTotal  *prometheus.CounterVec
}

// NewRequestMetrics creates and registers request metrics with the provided registry.
func NewRequestMetrics(cfg *config.MetricsConfig, registry *prometheus.Registry) *RequestMetrics {
	rm := &RequestMetrics{
		requestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Name:      "requests_total",
				Help:      "Total number of LLM requests",
			},
			[]string{"provider", "model", "status"},
		),

		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Name:      "request_duration_seconds",
				Help:      "Duration of provider calls in seconds",
				Buckets:   cfg.RequestDurationBuckets,
			},
			[]string{"provider", "model"},
		),

		tokensTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Name:      "tokens_total",
				Help:      "Total tokens of tracked requests by kind",
			},
			[]string{"provider", "model", "kind"},
		),

		untrackedTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Name:      "untracked_requests_total",
				Help:      "Requests answered without a ledger entry",
			},
			[]string{"provider", "reason"},
		),
	}

	registry.MustRegister(
		rm.requestsTotal,
		rm.requestDuration,
		rm.tokensTotal,
		rm.untrackedTotal,
	)

	return rm
}

// RecordRequest records a completed provider call.
func (rm *RequestMetrics) RecordRequest(provider, model, status string, duration time.Duration) {
	rm.requestsTotal.WithLabelValues(provider, model, status).Inc()
	rm.requestDuration.WithLabelValues(provider, model).Observe(duration.Seconds())
}

// RecordTokens records prompt, completion, reasoning and cached token counts.
func (rm *RequestMetrics) RecordTokens(provider, model string, u usage.Record) {
	add := func(kind string, n int64) {
		if n > 0 {
			rm.tokensTotal.WithLabelValues(provider, model, kind).Add(float64(n))
		}
	}
	add("prompt", u.PromptTokens)
	add("completion", u.CompletionTokens)
	add("reasoning", u.Reasoning())
	add("cached", u.CachedPromptTokens)
}

// RecordUntracked counts a request that was answered but not recorded.
func (rm *RequestMetrics) RecordUntracked(provider, reason string) {
	rm.untrackedTotal.WithLabelValues(provider, reason).Inc()
}
