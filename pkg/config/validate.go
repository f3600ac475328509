package config

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/robfig/cron/v3"

	"mercator-hq/meter/pkg/providers"
)

// FieldError represents a validation error for a specific configuration field.
type FieldError struct {
	// Field is the dotted path to the configuration field (e.g., "server.listen_address").
	Field string

	// Message is a human-readable error message.
	Message string
}

// Error returns the error message for this field error.
func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationError represents one or more validation errors in a configuration.
// It implements the error interface and provides access to all field errors.
type ValidationError struct {
	// Errors contains all validation errors found in the configuration.
	Errors []FieldError
}

// Error returns a formatted string containing all validation errors.
func (e ValidationError) Error() string {
	if len(e.Errors) == 0 {
		return "configuration validation failed"
	}
	if len(e.Errors) == 1 {
		return fmt.Sprintf("configuration validation failed: %s", e.Errors[0].Error())
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("configuration validation failed with %d errors:\n", len(e.Errors)))
	for _, err := range e.Errors {
		sb.WriteString(fmt.Sprintf("  - %s\n", err.Error()))
	}
	return sb.String()
}

// Validate validates the entire configuration and returns a ValidationError
// if any validation rules fail. It returns nil if the configuration is valid.
// All validation errors are collected and returned together.
func Validate(cfg *Config) error {
	var errs []FieldError

	errs = append(errs, validateProviders(cfg.Providers)...)
	errs = append(errs, validateRequest(&cfg.Request)...)
	errs = append(errs, validateServer(&cfg.Server)...)
	errs = append(errs, validateLedger(&cfg.Ledger)...)
	errs = append(errs, validateTelemetry(&cfg.Telemetry)...)

	if len(errs) > 0 {
		return ValidationError{Errors: errs}
	}

	return nil
}

// validateProviders validates provider configurations. Credentials are not
// required here: a missing key only fails when that provider is used.
func validateProviders(cfgs map[string]ProviderConfig) []FieldError {
	var errs []FieldError

	for name, provider := range cfgs {
		prefix := fmt.Sprintf("providers.%s", name)

		if _, err := providers.ParseType(name); err != nil {
			errs = append(errs, FieldError{
				Field:   prefix,
				Message: fmt.Sprintf("unsupported provider %q", name),
			})
			continue
		}

		if provider.BaseURL != "" {
			if u, err := url.Parse(provider.BaseURL); err != nil {
				errs = append(errs, FieldError{
					Field:   prefix + ".base_url",
					Message: fmt.Sprintf("invalid URL format: %v", err),
				})
			} else if u.Scheme != "http" && u.Scheme != "https" {
				errs = append(errs, FieldError{
					Field:   prefix + ".base_url",
					Message: "URL scheme must be http or https",
				})
			}
		}

		if provider.Timeout < 0 {
			errs = append(errs, FieldError{
				Field:   prefix + ".timeout",
				Message: "timeout must be positive",
			})
		}
		if provider.MaxIdleConns < 0 || provider.MaxIdleConnsPerHost < 0 {
			errs = append(errs, FieldError{
				Field:   prefix + ".max_idle_conns",
				Message: "connection pool sizes must be non-negative",
			})
		}
	}

	return errs
}

// validateRequest validates request defaults.
func validateRequest(cfg *RequestConfig) []FieldError {
	var errs []FieldError

	if _, err := providers.ParseType(cfg.DefaultProvider); err != nil {
		errs = append(errs, FieldError{
			Field:   "request.default_provider",
			Message: fmt.Sprintf("unsupported provider %q", cfg.DefaultProvider),
		})
	}
	if cfg.Timeout <= 0 {
		errs = append(errs, FieldError{
			Field:   "request.timeout",
			Message: "timeout must be positive",
		})
	}
	if t := cfg.TemperatureValue(); t < 0 || t > 2 {
		errs = append(errs, FieldError{
			Field:   "request.temperature",
			Message: fmt.Sprintf("temperature must be between 0 and 2, got %g", t),
		})
	}
	if cfg.MaxTokens < 0 {
		errs = append(errs, FieldError{
			Field:   "request.max_tokens",
			Message: "max tokens must be non-negative",
		})
	}

	validEfforts := map[string]bool{"low": true, "medium": true, "high": true}
	if !validEfforts[cfg.ReasoningEffort] {
		errs = append(errs, FieldError{
			Field:   "request.reasoning_effort",
			Message: fmt.Sprintf("invalid reasoning effort %q: must be 'low', 'medium', or 'high'", cfg.ReasoningEffort),
		})
	}

	return errs
}

// validateServer validates serve mode configuration.
func validateServer(cfg *ServerConfig) []FieldError {
	var errs []FieldError

	if cfg.ListenAddress == "" {
		errs = append(errs, FieldError{
			Field:   "server.listen_address",
			Message: "listen address is required",
		})
	}

	if cfg.ReadTimeout < 0 {
		errs = append(errs, FieldError{
			Field:   "server.read_timeout",
			Message: "read timeout must be positive",
		})
	}
	if cfg.WriteTimeout < 0 {
		errs = append(errs, FieldError{
			Field:   "server.write_timeout",
			Message: "write timeout must be positive",
		})
	}
	if cfg.IdleTimeout < 0 {
		errs = append(errs, FieldError{
			Field:   "server.idle_timeout",
			Message: "idle timeout must be positive",
		})
	}
	if cfg.ShutdownTimeout < 0 {
		errs = append(errs, FieldError{
			Field:   "server.shutdown_timeout",
			Message: "shutdown timeout must be positive",
		})
	}
	if cfg.MaxBodyBytes < 0 {
		errs = append(errs, FieldError{
			Field:   "server.max_body_bytes",
			Message: "max body bytes must be non-negative",
		})
	}

	return errs
}

// validateLedger validates ledger reporting and export configuration.
func validateLedger(cfg *LedgerConfig) []FieldError {
	var errs []FieldError

	if cfg.SummarySchedule != DisabledSchedule {
		if _, err := cron.ParseStandard(cfg.SummarySchedule); err != nil {
			errs = append(errs, FieldError{
				Field:   "ledger.summary_schedule",
				Message: fmt.Sprintf("invalid cron expression %q: %v", cfg.SummarySchedule, err),
			})
		}
	}

	validFormats := map[string]bool{"json": true, "csv": true, "sqlite": true}
	if !validFormats[cfg.Export.Format] {
		errs = append(errs, FieldError{
			Field:   "ledger.export.format",
			Message: fmt.Sprintf("invalid export format %q: must be 'json', 'csv', or 'sqlite'", cfg.Export.Format),
		})
	}

	validDrivers := map[string]bool{"sqlite": true, "sqlite3": true}
	if !validDrivers[cfg.Export.SQLiteDriver] {
		errs = append(errs, FieldError{
			Field:   "ledger.export.sqlite_driver",
			Message: fmt.Sprintf("invalid sqlite driver %q: must be 'sqlite' or 'sqlite3'", cfg.Export.SQLiteDriver),
		})
	}

	return errs
}

// validateTelemetry validates telemetry configuration.
func validateTelemetry(cfg *TelemetryConfig) []FieldError {
	var errs []FieldError

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[cfg.Logging.Level] {
		errs = append(errs, FieldError{
			Field:   "telemetry.logging.level",
			Message: fmt.Sprintf("invalid logging level %q: must be 'debug', 'info', 'warn', or 'error'", cfg.Logging.Level),
		})
	}

	validFormats := map[string]bool{"json": true, "text": true, "console": true}
	if !validFormats[cfg.Logging.Format] {
		errs = append(errs, FieldError{
			Field:   "telemetry.logging.format",
			Message: fmt.Sprintf("invalid logging format %q: must be 'json', 'text', or 'console'", cfg.Logging.Format),
		})
	}

	for i, p := range cfg.Logging.RedactPatterns {
		if _, err := regexp.Compile(p.Pattern); err != nil {
			errs = append(errs, FieldError{
				Field:   fmt.Sprintf("telemetry.logging.redact_patterns[%d].pattern", i),
				Message: fmt.Sprintf("invalid regular expression: %v", err),
			})
		}
	}

	if !strings.HasPrefix(cfg.Metrics.Path, "/") {
		errs = append(errs, FieldError{
			Field:   "telemetry.metrics.path",
			Message: "metrics path must start with '/'",
		})
	}

	for i, b := range cfg.Metrics.RequestDurationBuckets {
		if b <= 0 || (i > 0 && b <= cfg.Metrics.RequestDurationBuckets[i-1]) {
			errs = append(errs, FieldError{
				Field:   "telemetry.metrics.request_duration_buckets",
				Message: "buckets must be positive and strictly increasing",
			})
			break
		}
	}

	return errs
}
