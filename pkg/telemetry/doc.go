// Package telemetry groups the observability packages of meter.
//
// # Components
//
//   - logging: slog loggers with request context fields and secret redaction
//   - metrics: Prometheus request, token, cost and untracked-request metrics
//   - health: liveness, readiness and version endpoints for serve mode
//
// # Usage
//
//	logger, err := logging.New(logging.FromConfig(cfg.Telemetry.Logging, verbose))
//	if err != nil {
//		return err
//	}
//	logger.SetDefault()
//
//	collector := metrics.NewCollector(&cfg.Telemetry.Metrics, nil)
//	collector.RecordCost("openai", "gpt-4o", cost.Total)
//
// # Secret Redaction
//
// API keys and bearer tokens are masked in log output by default:
//
//   - sk-abc123... → sk-***
//   - Authorization: Bearer xyz → Bearer ***
//
// Custom redaction patterns can be configured.
package telemetry
