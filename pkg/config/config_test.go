package config

import (
	"testing"

	"mercator-hq/meter/pkg/providers"
)

func TestProviderSettings(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "env-key")
	t.Setenv("MY_GEMINI_KEY", "gemini-key")

	cfg := &Config{
		Providers: map[string]ProviderConfig{
			"anthropic": {APIKey: "file-key"},
			"gemini":    {APIKeyEnv: "MY_GEMINI_KEY"},
		},
	}
	ApplyDefaults(cfg)

	tests := []struct {
		typ     providers.Type
		wantKey string
	}{
		{providers.TypeOpenAI, "env-key"},
		{providers.TypeAnthropic, "file-key"},
		{providers.TypeGemini, "gemini-key"},
		{providers.TypeLocal, ""},
	}

	for _, tt := range tests {
		t.Run(string(tt.typ), func(t *testing.T) {
			settings := cfg.ProviderSettings(tt.typ)
			if settings.APIKey != tt.wantKey {
				t.Errorf("expected key %q, got %q", tt.wantKey, settings.APIKey)
			}
			if settings.Type != tt.typ {
				t.Errorf("expected type %s, got %s", tt.typ, settings.Type)
			}
			if settings.Timeout != DefaultProviderTimeout {
				t.Errorf("expected timeout %v, got %v", DefaultProviderTimeout, settings.Timeout)
			}
		})
	}

	all := cfg.AllProviderSettings()
	if len(all) != len(providers.Types) {
		t.Errorf("expected %d provider settings, got %d", len(providers.Types), len(all))
	}
}

func TestDefaultModel(t *testing.T) {
	cfg := &Config{
		Providers: map[string]ProviderConfig{
			"openai": {Model: "gpt-4o-mini"},
		},
	}
	ApplyDefaults(cfg)

	if got := cfg.DefaultModel(providers.TypeOpenAI); got != "gpt-4o-mini" {
		t.Errorf("configured model: got %q", got)
	}
	if got := cfg.DefaultModel(providers.TypeAnthropic); got != "claude-3-5-sonnet-20241022" {
		t.Errorf("built-in anthropic model: got %q", got)
	}

	t.Setenv(DefaultAzureModelEnv, "")
	if got := cfg.DefaultModel(providers.TypeAzure); got != "gpt-4o-ms" {
		t.Errorf("azure without env: got %q", got)
	}

	t.Setenv(DefaultAzureModelEnv, "my-deployment")
	if got := cfg.DefaultModel(providers.TypeAzure); got != "my-deployment" {
		t.Errorf("azure with env: got %q", got)
	}
}

func TestEnabledFlags(t *testing.T) {
	var m MetricsConfig
	if !m.IsEnabled() {
		t.Error("metrics should default to enabled")
	}
	off := false
	m.Enabled = &off
	if m.IsEnabled() {
		t.Error("metrics should be disabled")
	}

	var l LoggingConfig
	if !l.RedactionEnabled() {
		t.Error("redaction should default to enabled")
	}
	l.RedactSecrets = &off
	if l.RedactionEnabled() {
		t.Error("redaction should be disabled")
	}
}
