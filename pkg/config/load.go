package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"mercator-hq/meter/pkg/providerfactory"
	"mercator-hq/meter/pkg/providers"
)

// DefaultPath is the configuration file used when none is given.
const DefaultPath = "meter.yaml"

// EnvFiles are the dotenv files loaded by LoadEnvFiles, in precedence order.
var EnvFiles = []string{".env.local", ".env", ".env.example"}

// LoadConfig loads configuration from a YAML file at the specified path.
// It applies default values, validates the configuration, and returns any errors.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration file %q: %w", path, err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse configuration file %q: %w", path, err)
	}

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// Parse decodes YAML configuration and applies defaults. It does not validate.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	ApplyDefaults(&cfg)
	return &cfg, nil
}

// LoadConfigWithEnvOverrides loads configuration and applies environment
// variable overrides. Environment variables follow the naming convention
// METER_SECTION_FIELD (e.g., METER_SERVER_LISTEN_ADDRESS) and always take
// precedence over file-based configuration.
//
// A missing file at DefaultPath is not an error: defaults are used. An
// explicitly named file must exist.
//
// The loading sequence is:
// 1. Load YAML from file (or start empty)
// 2. Apply default values
// 3. Apply environment variable overrides
// 4. Validate final configuration
func LoadConfigWithEnvOverrides(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		path = DefaultPath
	}

	var cfg *Config
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		cfg, err = Parse(data)
		if err != nil {
			return nil, fmt.Errorf("failed to parse configuration file %q: %w", path, err)
		}
	case !explicit && errors.Is(err, fs.ErrNotExist):
		cfg = &Config{}
		ApplyDefaults(cfg)
	default:
		return nil, fmt.Errorf("failed to read configuration file %q: %w", path, err)
	}

	applyEnvOverrides(cfg)

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// LoadEnvFiles loads EnvFiles from dir into the process environment.
// Variables already set in the environment are never replaced, and a
// variable defined in several files keeps the value from the first file
// loaded. Missing files are skipped. It returns the files that were loaded.
func LoadEnvFiles(dir string) ([]string, error) {
	var loaded []string
	for _, name := range EnvFiles {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if err := godotenv.Load(path); err != nil {
			return loaded, fmt.Errorf("failed to load env file %q: %w", path, err)
		}
		slog.Debug("loaded env file", "path", path)
		loaded = append(loaded, path)
	}
	return loaded, nil
}

// applyEnvOverrides applies environment variable overrides to the configuration.
// Environment variables use the format METER_SECTION_FIELD.
func applyEnvOverrides(cfg *Config) {
	// Request overrides
	if val := os.Getenv("METER_REQUEST_DEFAULT_PROVIDER"); val != "" {
		cfg.Request.DefaultProvider = val
	}
	if val := os.Getenv("METER_REQUEST_TIMEOUT"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Request.Timeout = d
		}
	}
	if val := os.Getenv("METER_REQUEST_TEMPERATURE"); val != "" {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			cfg.Request.Temperature = &f
		}
	}
	if val := os.Getenv("METER_REQUEST_MAX_TOKENS"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			cfg.Request.MaxTokens = i
		}
	}
	if val := os.Getenv("METER_REQUEST_REASONING_EFFORT"); val != "" {
		cfg.Request.ReasoningEffort = val
	}

	// Pricing overrides
	if val := os.Getenv("METER_PRICING_FILE"); val != "" {
		cfg.Pricing.File = val
	}

	// Server overrides
	if val := os.Getenv("METER_SERVER_LISTEN_ADDRESS"); val != "" {
		cfg.Server.ListenAddress = val
	}
	if val := os.Getenv("METER_SERVER_READ_TIMEOUT"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Server.ReadTimeout = d
		}
	}
	if val := os.Getenv("METER_SERVER_WRITE_TIMEOUT"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Server.WriteTimeout = d
		}
	}
	if val := os.Getenv("METER_SERVER_SHUTDOWN_TIMEOUT"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Server.ShutdownTimeout = d
		}
	}

	// Ledger overrides
	if val := os.Getenv("METER_LEDGER_SUMMARY_SCHEDULE"); val != "" {
		cfg.Ledger.SummarySchedule = val
	}
	if val := os.Getenv("METER_LEDGER_EXPORT_PATH"); val != "" {
		cfg.Ledger.Export.Path = val
	}
	if val := os.Getenv("METER_LEDGER_EXPORT_FORMAT"); val != "" {
		cfg.Ledger.Export.Format = val
	}
	if val := os.Getenv("METER_LEDGER_EXPORT_SQLITE_DRIVER"); val != "" {
		cfg.Ledger.Export.SQLiteDriver = val
	}

	// Telemetry overrides
	if val := os.Getenv("METER_TELEMETRY_LOGGING_LEVEL"); val != "" {
		cfg.Telemetry.Logging.Level = val
	}
	if val := os.Getenv("METER_TELEMETRY_LOGGING_FORMAT"); val != "" {
		cfg.Telemetry.Logging.Format = val
	}
	if val := os.Getenv("METER_TELEMETRY_METRICS_ENABLED"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Telemetry.Metrics.Enabled = &b
		}
	}
	if val := os.Getenv("METER_TELEMETRY_METRICS_PATH"); val != "" {
		cfg.Telemetry.Metrics.Path = val
	}

	for _, t := range providers.Types {
		applyProviderEnvOverrides(cfg, string(t))
	}
}

// applyProviderEnvOverrides applies environment variable overrides for a specific provider.
// Provider environment variables follow the format METER_PROVIDERS_<NAME>_<FIELD>
// where NAME is the uppercase provider name.
func applyProviderEnvOverrides(cfg *Config, providerName string) {
	if cfg.Providers == nil {
		cfg.Providers = make(map[string]ProviderConfig)
	}
	provider := cfg.Providers[providerName]

	prefix := fmt.Sprintf("METER_PROVIDERS_%s_", strings.ToUpper(providerName))

	if val := os.Getenv(prefix + "BASE_URL"); val != "" {
		provider.BaseURL = val
	}
	if val := os.Getenv(prefix + "API_KEY"); val != "" {
		provider.APIKey = val
	}
	if val := os.Getenv(prefix + "MODEL"); val != "" {
		provider.Model = val
	}
	if val := os.Getenv(prefix + "API_VERSION"); val != "" {
		provider.APIVersion = val
	}
	if val := os.Getenv(prefix + "TIMEOUT"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			provider.Timeout = d
		}
	}

	cfg.Providers[providerName] = provider
}

// ProviderSettings resolves the client configuration for provider t.
// The API key comes from api_key, else from the api_key_env variable.
func (c *Config) ProviderSettings(t providers.Type) providers.ProviderConfig {
	p := c.Providers[string(t)]

	apiKey := p.APIKey
	if apiKey == "" && p.APIKeyEnv != "" {
		apiKey = os.Getenv(p.APIKeyEnv)
	}

	return providers.ProviderConfig{
		Name:                string(t),
		Type:                t,
		BaseURL:             p.BaseURL,
		APIKey:              apiKey,
		APIVersion:          p.APIVersion,
		Timeout:             p.Timeout,
		MaxIdleConns:        p.MaxIdleConns,
		MaxIdleConnsPerHost: p.MaxIdleConnsPerHost,
		IdleConnTimeout:     p.IdleConnTimeout,
	}
}

// AllProviderSettings resolves ProviderSettings for every known provider.
func (c *Config) AllProviderSettings() map[providers.Type]providers.ProviderConfig {
	out := make(map[providers.Type]providers.ProviderConfig, len(providers.Types))
	for _, t := range providers.Types {
		out[t] = c.ProviderSettings(t)
	}
	return out
}

// DefaultModel resolves the model used for provider t when a query names
// none: the configured model, else the model_env variable, else the
// built-in default.
func (c *Config) DefaultModel(t providers.Type) string {
	p := c.Providers[string(t)]
	if p.Model != "" {
		return p.Model
	}
	if p.ModelEnv != "" {
		if m := os.Getenv(p.ModelEnv); m != "" {
			return m
		}
	}
	return providerfactory.DefaultModel(t)
}
