// Package config provides configuration management for meter.
//
// Configuration is layered. Later layers override earlier ones:
//
//  1. Default values (defined in defaults.go)
//  2. Values from the YAML file (meter.yaml, optional unless named explicitly)
//  3. Environment variable overrides (METER_SECTION_FIELD)
//  4. Validation (fails fast if invalid)
//
// Credentials are not normally stored in the file. Each provider names the
// environment variable holding its key (api_key_env, defaulting to
// OPENAI_API_KEY, AZURE_OPENAI_API_KEY, DEEPSEEK_API_KEY, ANTHROPIC_API_KEY
// and GOOGLE_API_KEY). LoadEnvFiles loads .env.local, .env and .env.example
// into the process environment before configuration is resolved. Variables
// already set in the process win, then the first file that defines a
// variable.
//
// # Environment Variable Overrides
//
//   - METER_SERVER_LISTEN_ADDRESS overrides server.listen_address
//   - METER_PROVIDERS_AZURE_BASE_URL overrides providers.azure.base_url
//   - METER_TELEMETRY_LOGGING_LEVEL overrides telemetry.logging.level
//
// # Validation
//
// Validation errors carry dotted field paths:
//
//	configuration validation failed with 2 errors:
//	  - request.temperature: temperature must be between 0 and 2, got 3
//	  - ledger.summary_schedule: invalid cron expression "every hour": ...
//
// # Example Configuration
//
//	providers:
//	  azure:
//	    base_url: "https://myresource.openai.azure.com"
//	    model: "gpt-4o-ms"
//	  local:
//	    base_url: "http://localhost:8006/v1"
//
//	request:
//	  timeout: "60s"
//	  temperature: 0.7
//
//	ledger:
//	  summary_schedule: "*/15 * * * *"
//	  export:
//	    path: "usage.db"
//	    format: "sqlite"
//
//	telemetry:
//	  logging:
//	    level: "info"
//	    format: "json"
package config
