// Package metrics exports Prometheus metrics for meter.
//
// # Metrics
//
//   - meter_requests_total{provider,model,status}
//   - meter_request_duration_seconds{provider,model}
//   - meter_tokens_total{provider,model,kind}: kind is prompt, completion,
//     reasoning or cached
//   - meter_cost_usd_total{provider,model} and meter_cost_per_request_usd
//   - meter_pricing_fallback_total{provider}
//   - meter_untracked_requests_total{provider,reason}
//   - meter_provider_errors_total{provider,type}
//
// The namespace prefix comes from telemetry.metrics.namespace. Model labels
// are capped by a CardinalityLimiter; models past the cap are reported as
// "other".
//
// # Usage
//
//	collector := metrics.NewCollector(&cfg.Telemetry.Metrics, nil)
//	collector.RecordRequest("openai", "gpt-4o", metrics.StatusSuccess, elapsed)
//	collector.RecordUsage("openai", "gpt-4o", rec)
//	http.Handle("/metrics", collector.Handler())
//
// A nil *Collector and a collector whose config has metrics disabled both
// discard every observation.
package metrics
