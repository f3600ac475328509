package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"mercator-hq/meter/pkg/config"
)

// ProviderMetrics tracks provider failures.
//
// Metrics:
//   - meter_provider_errors_total: provider error count by type
type ProviderMetrics struct {
	errors *prometheus.CounterVec
}

// NewProviderMetrics creates and registers provider metrics with the provided registry.
func NewProviderMetrics(cfg *config.MetricsConfig, registry *prometheus.Registry) *ProviderMetrics {
	pm := &ProviderMetrics{
		errors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Name:      "provider_errors_total",
				Help:      "Total number of provider errors by type",
			},
			[]string{"provider", "type"},
		),
	}

	registry.MustRegister(pm.errors)

	return pm
}

// RecordError records a provider error.
func (pm *ProviderMetrics) RecordError(provider, errorType string) {
	pm.errors.WithLabelValues(provider, errorType).Inc()
}
