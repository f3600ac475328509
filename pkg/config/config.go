package config

import "time"

// Config is the root configuration structure for meter.
type Config struct {
	// Providers contains per-provider settings. Keys are provider names
	// ("openai", "azure", "deepseek", "anthropic", "gemini", "local").
	Providers map[string]ProviderConfig `yaml:"providers"`

	// Request contains defaults applied to every completion request.
	Request RequestConfig `yaml:"request"`

	// Pricing selects the pricing table.
	Pricing PricingConfig `yaml:"pricing"`

	// Server contains HTTP API configuration for serve mode.
	Server ServerConfig `yaml:"server"`

	// Ledger contains usage ledger reporting and export settings.
	Ledger LedgerConfig `yaml:"ledger"`

	// Telemetry contains logging and metrics configuration.
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// ProviderConfig contains configuration for a single LLM provider.
type ProviderConfig struct {
	// BaseURL overrides the provider's API endpoint.
	// Required for Azure unless the built-in endpoint is used.
	BaseURL string `yaml:"base_url"`

	// APIKey is the credential. Prefer APIKeyEnv so keys stay out of files.
	APIKey string `yaml:"api_key"`

	// APIKeyEnv names the environment variable holding the credential.
	// Default: the provider's conventional variable (e.g. OPENAI_API_KEY)
	APIKeyEnv string `yaml:"api_key_env"`

	// Model is the model used when a query does not name one.
	Model string `yaml:"model"`

	// ModelEnv names an environment variable consulted before the built-in
	// default model. Default for azure: AZURE_OPENAI_MODEL_DEPLOYMENT
	ModelEnv string `yaml:"model_env"`

	// APIVersion is sent to providers that version requests (Azure).
	// Default for azure: "2024-08-01-preview"
	APIVersion string `yaml:"api_version"`

	// Timeout is the HTTP client timeout for this provider.
	// Default: 60s
	Timeout time.Duration `yaml:"timeout"`

	// MaxIdleConns is the maximum number of idle connections.
	// Default: 100
	MaxIdleConns int `yaml:"max_idle_conns"`

	// MaxIdleConnsPerHost is the maximum idle connections per host.
	// Default: 10
	MaxIdleConnsPerHost int `yaml:"max_idle_conns_per_host"`

	// IdleConnTimeout is how long an idle connection is kept.
	// Default: 90s
	IdleConnTimeout time.Duration `yaml:"idle_conn_timeout"`
}

// RequestConfig contains completion request defaults.
type RequestConfig struct {
	// DefaultProvider is used when a query names no provider.
	// Default: "openai"
	DefaultProvider string `yaml:"default_provider"`

	// Timeout bounds every provider call, including reading the response.
	// Default: 60s
	Timeout time.Duration `yaml:"timeout"`

	// Temperature is sent to non-reasoning models. Nil means unset; an
	// explicit 0 is kept.
	// Default: 0.7
	Temperature *float64 `yaml:"temperature"`

	// MaxTokens caps generated tokens where the provider requires a cap (Anthropic).
	// Default: 1000
	MaxTokens int `yaml:"max_tokens"`

	// ReasoningEffort is sent to reasoning models of the OpenAI family.
	// Options: "low", "medium", "high"
	// Default: "low"
	ReasoningEffort string `yaml:"reasoning_effort"`
}

// PricingConfig selects the pricing table.
type PricingConfig struct {
	// File is an optional YAML pricing table. Providers listed in it replace
	// the built-in entries for that provider; other providers keep the
	// built-in table.
	File string `yaml:"file"`
}

// ServerConfig contains configuration for the serve mode HTTP API.
type ServerConfig struct {
	// ListenAddress is the address and port to listen on.
	// Default: "127.0.0.1:8080"
	ListenAddress string `yaml:"listen_address"`

	// ReadTimeout is the maximum duration for reading the entire request.
	// Default: 30s
	ReadTimeout time.Duration `yaml:"read_timeout"`

	// WriteTimeout bounds writing the response. It must exceed
	// request.timeout or slow completions are cut off.
	// Default: 90s
	WriteTimeout time.Duration `yaml:"write_timeout"`

	// IdleTimeout is the keep-alive idle timeout.
	// Default: 120s
	IdleTimeout time.Duration `yaml:"idle_timeout"`

	// ShutdownTimeout is the maximum time to drain in-flight requests.
	// Default: 30s
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`

	// MaxBodyBytes limits request bodies (images are sent inline).
	// Default: 20971520 (20MB)
	MaxBodyBytes int64 `yaml:"max_body_bytes"`
}

// LedgerConfig contains ledger reporting and export settings.
type LedgerConfig struct {
	// SummarySchedule is a standard 5-field cron expression for the periodic
	// ledger summary log in serve mode. "off" disables it.
	// Default: "*/15 * * * *"
	SummarySchedule string `yaml:"summary_schedule"`

	// Export configures the ledger snapshot written on exit.
	Export ExportConfig `yaml:"export"`
}

// ExportConfig configures ledger exports.
type ExportConfig struct {
	// Path is the file written on shutdown. Empty disables the export.
	Path string `yaml:"path"`

	// Format is the export format.
	// Options: "json", "csv", "sqlite"
	// Default: "json"
	Format string `yaml:"format"`

	// SQLiteDriver selects the database/sql driver for sqlite exports.
	// Options: "sqlite" (modernc.org/sqlite, pure Go), "sqlite3" (mattn/go-sqlite3, cgo)
	// Default: "sqlite"
	SQLiteDriver string `yaml:"sqlite_driver"`
}

// TelemetryConfig contains observability configuration.
type TelemetryConfig struct {
	// Logging contains logging configuration.
	Logging LoggingConfig `yaml:"logging"`

	// Metrics contains metrics collection configuration.
	Metrics MetricsConfig `yaml:"metrics"`
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	// Level is the minimum log level to emit.
	// Options: "debug", "info", "warn", "error"
	// Default: "info"
	Level string `yaml:"level"`

	// Format controls the log output format.
	// Options: "json", "text", "console"
	// Default: "text"
	Format string `yaml:"format"`

	// AddSource includes file and line number in log entries.
	AddSource bool `yaml:"add_source"`

	// RedactSecrets masks API keys and bearer tokens in log messages.
	// Default: true
	RedactSecrets *bool `yaml:"redact_secrets"`

	// RedactPatterns contains additional redaction patterns.
	RedactPatterns []RedactPattern `yaml:"redact_patterns"`
}

// RedactPattern defines a custom redaction pattern.
type RedactPattern struct {
	// Name is a descriptive name for the pattern.
	Name string `yaml:"name"`

	// Pattern is the regular expression to match.
	Pattern string `yaml:"pattern"`

	// Replacement is the string to replace matches with.
	Replacement string `yaml:"replacement"`
}

// MetricsConfig contains metrics collection configuration.
type MetricsConfig struct {
	// Enabled controls whether Prometheus metrics are collected and served.
	// Default: true
	Enabled *bool `yaml:"enabled"`

	// Path is the HTTP path for the Prometheus metrics endpoint.
	// Default: "/metrics"
	Path string `yaml:"path"`

	// Namespace is the metric name prefix.
	// Default: "meter"
	Namespace string `yaml:"namespace"`

	// RequestDurationBuckets defines histogram buckets for provider call duration (seconds).
	// Default: [0.25, 0.5, 1, 2, 5, 10, 30, 60]
	RequestDurationBuckets []float64 `yaml:"request_duration_buckets"`
}

// TemperatureValue returns the configured temperature, or
// DefaultTemperature when none is set.
func (r RequestConfig) TemperatureValue() float64 {
	if r.Temperature == nil {
		return DefaultTemperature
	}
	return *r.Temperature
}

// IsEnabled reports whether metrics are enabled.
func (m MetricsConfig) IsEnabled() bool {
	return m.Enabled == nil || *m.Enabled
}

// RedactionEnabled reports whether secret redaction is enabled.
func (l LoggingConfig) RedactionEnabled() bool {
	return l.RedactSecrets == nil || *l.RedactSecrets
}
