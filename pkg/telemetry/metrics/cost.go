package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"

	"mercator-hq/meter/pkg/config"
)

// CostMetrics tracks spend.
//
// Metrics:
//   - meter_cost_usd_total: total cost in USD by provider and model
//   - meter_cost_per_request_usd: cost distribution per request
//   - meter_pricing_fallback_total: costs computed from a provider default entry
//
// Costs are exact decimals in the ledger; the float conversion here only
// affects the exported series.
type CostMetrics struct {
	costTotal      *prometheus.CounterVec
	costPerRequest *prometheus.HistogramVec
	fallbackTotal  *prometheus.CounterVec
}

// NewCostMetrics creates and registers cost metrics with the provided registry.
func NewCostMetrics(cfg *config.MetricsConfig, registry *prometheus.Registry) *CostMetrics {
	cm := &CostMetrics{
		costTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Name:      "cost_usd_total",
				Help:      "Total cost in USD by provider and model",
			},
			[]string{"provider", "model"},
		),

		costPerRequest: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Name:      "cost_per_request_usd",
				Help:      "Cost distribution per request in USD",
				Buckets:   []float64{0.0001, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1.0, 5.0},
			},
			[]string{"provider", "model"},
		),

		fallbackTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Name:      "pricing_fallback_total",
				Help:      "Costs computed from a provider default pricing entry",
			},
			[]string{"provider"},
		),
	}

	registry.MustRegister(
		cm.costTotal,
		cm.costPerRequest,
		cm.fallbackTotal,
	)

	return cm
}

// RecordRequestCost records the cost of a single request.
func (cm *CostMetrics) RecordRequestCost(provider, model string, cost decimal.Decimal) {
	if cost.IsNegative() {
		return
	}
	usd := cost.InexactFloat64()
	cm.costTotal.WithLabelValues(provider, model).Add(usd)
	cm.costPerRequest.WithLabelValues(provider, model).Observe(usd)
}

// RecordFallback counts a pricing fallback.
func (cm *CostMetrics) RecordFallback(provider string) {
	cm.fallbackTotal.WithLabelValues(provider).Inc()
}
