package config

import (
	"time"

	"mercator-hq/meter/pkg/providerfactory"
	"mercator-hq/meter/pkg/providers"
	"mercator-hq/meter/pkg/providers/openai"
)

// Default values for configuration fields.
const (
	// Request defaults
	DefaultProvider        = "openai"
	DefaultRequestTimeout  = 60 * time.Second
	DefaultTemperature     = 0.7
	DefaultMaxTokens       = 1000
	DefaultReasoningEffort = "low"

	// Provider defaults
	DefaultProviderTimeout     = 60 * time.Second
	DefaultMaxIdleConns        = 100
	DefaultMaxIdleConnsPerHost = 10
	DefaultIdleConnTimeout     = 90 * time.Second
	DefaultAzureModelEnv       = "AZURE_OPENAI_MODEL_DEPLOYMENT"

	// Server defaults
	DefaultListenAddress   = "127.0.0.1:8080"
	DefaultReadTimeout     = 30 * time.Second
	DefaultWriteTimeout    = 90 * time.Second
	DefaultIdleTimeout     = 120 * time.Second
	DefaultShutdownTimeout = 30 * time.Second
	DefaultMaxBodyBytes    = int64(20 << 20)

	// Ledger defaults
	DefaultSummarySchedule    = "*/15 * * * *"
	DisabledSchedule          = "off"
	DefaultExportFormat       = "json"
	DefaultExportSQLiteDriver = "sqlite"

	// Telemetry defaults
	DefaultLoggingLevel     = "info"
	DefaultLoggingFormat    = "text"
	DefaultPrometheusPath   = "/metrics"
	DefaultMetricsNamespace = "meter"
)

// DefaultRequestDurationBuckets are the provider call latency buckets in seconds.
var DefaultRequestDurationBuckets = []float64{0.25, 0.5, 1, 2, 5, 10, 30, 60}

// ApplyDefaults fills every unset field with its default value. Every known
// provider gets an entry so credentials can come from the environment alone.
func ApplyDefaults(cfg *Config) {
	if cfg.Providers == nil {
		cfg.Providers = make(map[string]ProviderConfig)
	}
	for _, t := range providers.Types {
		p := cfg.Providers[string(t)]
		applyProviderDefaults(t, &p)
		cfg.Providers[string(t)] = p
	}

	// Request defaults
	if cfg.Request.DefaultProvider == "" {
		cfg.Request.DefaultProvider = DefaultProvider
	}
	if cfg.Request.Timeout == 0 {
		cfg.Request.Timeout = DefaultRequestTimeout
	}
	if cfg.Request.Temperature == nil {
		temperature := DefaultTemperature
		cfg.Request.Temperature = &temperature
	}
	if cfg.Request.MaxTokens == 0 {
		cfg.Request.MaxTokens = DefaultMaxTokens
	}
	if cfg.Request.ReasoningEffort == "" {
		cfg.Request.ReasoningEffort = DefaultReasoningEffort
	}

	// Server defaults
	if cfg.Server.ListenAddress == "" {
		cfg.Server.ListenAddress = DefaultListenAddress
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = DefaultReadTimeout
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = DefaultWriteTimeout
	}
	if cfg.Server.IdleTimeout == 0 {
		cfg.Server.IdleTimeout = DefaultIdleTimeout
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = DefaultShutdownTimeout
	}
	if cfg.Server.MaxBodyBytes == 0 {
		cfg.Server.MaxBodyBytes = DefaultMaxBodyBytes
	}

	// Ledger defaults
	if cfg.Ledger.SummarySchedule == "" {
		cfg.Ledger.SummarySchedule = DefaultSummarySchedule
	}
	if cfg.Ledger.Export.Format == "" {
		cfg.Ledger.Export.Format = DefaultExportFormat
	}
	if cfg.Ledger.Export.SQLiteDriver == "" {
		cfg.Ledger.Export.SQLiteDriver = DefaultExportSQLiteDriver
	}

	// Telemetry defaults
	if cfg.Telemetry.Logging.Level == "" {
		cfg.Telemetry.Logging.Level = DefaultLoggingLevel
	}
	if cfg.Telemetry.Logging.Format == "" {
		cfg.Telemetry.Logging.Format = DefaultLoggingFormat
	}
	if cfg.Telemetry.Metrics.Path == "" {
		cfg.Telemetry.Metrics.Path = DefaultPrometheusPath
	}
	if cfg.Telemetry.Metrics.Namespace == "" {
		cfg.Telemetry.Metrics.Namespace = DefaultMetricsNamespace
	}
	if len(cfg.Telemetry.Metrics.RequestDurationBuckets) == 0 {
		cfg.Telemetry.Metrics.RequestDurationBuckets = DefaultRequestDurationBuckets
	}
}

func applyProviderDefaults(t providers.Type, p *ProviderConfig) {
	if p.APIKeyEnv == "" {
		p.APIKeyEnv = providerfactory.APIKeyEnv(t)
	}
	if p.ModelEnv == "" && t == providers.TypeAzure {
		p.ModelEnv = DefaultAzureModelEnv
	}
	if p.APIVersion == "" && t == providers.TypeAzure {
		p.APIVersion = openai.DefaultAzureAPIVersion
	}
	if p.Timeout == 0 {
		p.Timeout = DefaultProviderTimeout
	}
	if p.MaxIdleConns == 0 {
		p.MaxIdleConns = DefaultMaxIdleConns
	}
	if p.MaxIdleConnsPerHost == 0 {
		p.MaxIdleConnsPerHost = DefaultMaxIdleConnsPerHost
	}
	if p.IdleConnTimeout == 0 {
		p.IdleConnTimeout = DefaultIdleConnTimeout
	}
}
