package config

import (
	"testing"
	"time"

	"mercator-hq/meter/pkg/providers"
	"mercator-hq/meter/pkg/providers/openai"
)

func float64Ptr(f float64) *float64 { return &f }

func TestApplyDefaults(t *testing.T) {
	tests := []struct {
		name  string
		input Config
		check func(*testing.T, *Config)
	}{
		{
			name:  "empty config gets all defaults",
			input: Config{},
			check: func(t *testing.T, cfg *Config) {
				if cfg.Request.DefaultProvider != DefaultProvider {
					t.Errorf("expected default provider %q, got %q", DefaultProvider, cfg.Request.DefaultProvider)
				}
				if cfg.Request.Timeout != DefaultRequestTimeout {
					t.Errorf("expected request timeout %v, got %v", DefaultRequestTimeout, cfg.Request.Timeout)
				}
				if cfg.Request.Temperature == nil || *cfg.Request.Temperature != DefaultTemperature {
					t.Errorf("expected temperature %v, got %v", DefaultTemperature, cfg.Request.TemperatureValue())
				}
				if cfg.Request.MaxTokens != DefaultMaxTokens {
					t.Errorf("expected max tokens %d, got %d", DefaultMaxTokens, cfg.Request.MaxTokens)
				}
				if cfg.Server.ListenAddress != DefaultListenAddress {
					t.Errorf("expected listen address %q, got %q", DefaultListenAddress, cfg.Server.ListenAddress)
				}
				if cfg.Ledger.SummarySchedule != DefaultSummarySchedule {
					t.Errorf("expected schedule %q, got %q", DefaultSummarySchedule, cfg.Ledger.SummarySchedule)
				}
				if cfg.Ledger.Export.SQLiteDriver != DefaultExportSQLiteDriver {
					t.Errorf("expected sqlite driver %q, got %q", DefaultExportSQLiteDriver, cfg.Ledger.Export.SQLiteDriver)
				}
				if cfg.Telemetry.Logging.Level != DefaultLoggingLevel {
					t.Errorf("expected logging level %q, got %q", DefaultLoggingLevel, cfg.Telemetry.Logging.Level)
				}
				if cfg.Telemetry.Metrics.Path != DefaultPrometheusPath {
					t.Errorf("expected prometheus path %q, got %q", DefaultPrometheusPath, cfg.Telemetry.Metrics.Path)
				}
				if len(cfg.Providers) != len(providers.Types) {
					t.Errorf("expected %d provider entries, got %d", len(providers.Types), len(cfg.Providers))
				}
				azure := cfg.Providers["azure"]
				if azure.APIKeyEnv != "AZURE_OPENAI_API_KEY" {
					t.Errorf("expected azure key env, got %q", azure.APIKeyEnv)
				}
				if azure.ModelEnv != DefaultAzureModelEnv {
					t.Errorf("expected azure model env, got %q", azure.ModelEnv)
				}
				if azure.APIVersion != openai.DefaultAzureAPIVersion {
					t.Errorf("expected azure api version, got %q", azure.APIVersion)
				}
				if cfg.Providers["local"].APIKeyEnv != "" {
					t.Errorf("local provider should have no key env")
				}
			},
		},
		{
			name: "existing values are preserved",
			input: Config{
				Providers: map[string]ProviderConfig{
					"openai": {Timeout: 5 * time.Second, APIKeyEnv: "CUSTOM_KEY"},
				},
				Request: RequestConfig{Temperature: float64Ptr(0.2), Timeout: 10 * time.Second},
				Server:  ServerConfig{ListenAddress: "0.0.0.0:9000"},
				Ledger:  LedgerConfig{SummarySchedule: DisabledSchedule},
			},
			check: func(t *testing.T, cfg *Config) {
				if cfg.Providers["openai"].Timeout != 5*time.Second {
					t.Errorf("provider timeout overwritten: %v", cfg.Providers["openai"].Timeout)
				}
				if cfg.Providers["openai"].APIKeyEnv != "CUSTOM_KEY" {
					t.Errorf("api key env overwritten: %q", cfg.Providers["openai"].APIKeyEnv)
				}
				if cfg.Request.TemperatureValue() != 0.2 {
					t.Errorf("temperature overwritten: %v", cfg.Request.TemperatureValue())
				}
				if cfg.Request.Timeout != 10*time.Second {
					t.Errorf("timeout overwritten: %v", cfg.Request.Timeout)
				}
				if cfg.Server.ListenAddress != "0.0.0.0:9000" {
					t.Errorf("listen address overwritten: %q", cfg.Server.ListenAddress)
				}
				if cfg.Ledger.SummarySchedule != DisabledSchedule {
					t.Errorf("schedule overwritten: %q", cfg.Ledger.SummarySchedule)
				}
			},
		},
		{
			name:  "zero temperature is kept",
			input: Config{Request: RequestConfig{Temperature: float64Ptr(0)}},
			check: func(t *testing.T, cfg *Config) {
				if got := cfg.Request.TemperatureValue(); got != 0 {
					t.Errorf("expected temperature 0, got %v", got)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := tt.input
			ApplyDefaults(&cfg)
			tt.check(t, &cfg)

			if err := Validate(&cfg); err != nil {
				t.Errorf("defaults should validate: %v", err)
			}
		})
	}
}
