package config

import (
	"errors"
	"strings"
	"testing"
)

func validConfig() *Config {
	cfg := &Config{}
	ApplyDefaults(cfg)
	return cfg
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*Config)
		wantField string
	}{
		{
			name:   "defaults are valid",
			mutate: func(*Config) {},
		},
		{
			name: "unknown provider key",
			mutate: func(c *Config) {
				c.Providers["mistral"] = ProviderConfig{}
			},
			wantField: "providers.mistral",
		},
		{
			name: "bad base url scheme",
			mutate: func(c *Config) {
				p := c.Providers["local"]
				p.BaseURL = "ftp://localhost"
				c.Providers["local"] = p
			},
			wantField: "providers.local.base_url",
		},
		{
			name: "unknown default provider",
			mutate: func(c *Config) {
				c.Request.DefaultProvider = "bard"
			},
			wantField: "request.default_provider",
		},
		{
			name: "negative max tokens",
			mutate: func(c *Config) {
				c.Request.MaxTokens = -1
			},
			wantField: "request.max_tokens",
		},
		{
			name: "bad reasoning effort",
			mutate: func(c *Config) {
				c.Request.ReasoningEffort = "extreme"
			},
			wantField: "request.reasoning_effort",
		},
		{
			name: "empty listen address",
			mutate: func(c *Config) {
				c.Server.ListenAddress = ""
			},
			wantField: "server.listen_address",
		},
		{
			name: "invalid cron schedule",
			mutate: func(c *Config) {
				c.Ledger.SummarySchedule = "every hour"
			},
			wantField: "ledger.summary_schedule",
		},
		{
			name: "disabled schedule",
			mutate: func(c *Config) {
				c.Ledger.SummarySchedule = DisabledSchedule
			},
		},
		{
			name: "bad export format",
			mutate: func(c *Config) {
				c.Ledger.Export.Format = "xml"
			},
			wantField: "ledger.export.format",
		},
		{
			name: "bad sqlite driver",
			mutate: func(c *Config) {
				c.Ledger.Export.SQLiteDriver = "postgres"
			},
			wantField: "ledger.export.sqlite_driver",
		},
		{
			name: "bad log level",
			mutate: func(c *Config) {
				c.Telemetry.Logging.Level = "verbose"
			},
			wantField: "telemetry.logging.level",
		},
		{
			name: "bad redact pattern",
			mutate: func(c *Config) {
				c.Telemetry.Logging.RedactPatterns = []RedactPattern{{Name: "x", Pattern: "("}}
			},
			wantField: "telemetry.logging.redact_patterns[0].pattern",
		},
		{
			name: "decreasing buckets",
			mutate: func(c *Config) {
				c.Telemetry.Metrics.RequestDurationBuckets = []float64{1, 0.5}
			},
			wantField: "telemetry.metrics.request_duration_buckets",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			err := Validate(cfg)
			if tt.wantField == "" {
				if err != nil {
					t.Fatalf("expected valid config, got %v", err)
				}
				return
			}

			var verr ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected ValidationError, got %T: %v", err, err)
			}
			found := false
			for _, fe := range verr.Errors {
				if fe.Field == tt.wantField {
					found = true
				}
			}
			if !found {
				t.Errorf("expected error for field %q, got %v", tt.wantField, verr)
			}
		})
	}
}

func TestValidationError_Message(t *testing.T) {
	single := ValidationError{Errors: []FieldError{{Field: "a", Message: "bad"}}}
	if single.Error() != "configuration validation failed: a: bad" {
		t.Errorf("unexpected single error message %q", single.Error())
	}

	multi := ValidationError{Errors: []FieldError{{Field: "a", Message: "bad"}, {Field: "b", Message: "worse"}}}
	if !strings.Contains(multi.Error(), "2 errors") || !strings.Contains(multi.Error(), "b: worse") {
		t.Errorf("unexpected multi error message %q", multi.Error())
	}
}
