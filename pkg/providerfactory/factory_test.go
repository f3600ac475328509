package providerfactory

import (
	"errors"
	"testing"
	"time"

	"mercator-hq/meter/pkg/providers"
	"mercator-hq/meter/pkg/providers/anthropic"
	"mercator-hq/meter/pkg/providers/gemini"
	"mercator-hq/meter/pkg/providers/openai"
)

func TestNewProvider_Types(t *testing.T) {
	tests := []struct {
		typ      providers.Type
		apiKey   string
		wantType interface{}
	}{
		{providers.TypeOpenAI, "k", &openai.Provider{}},
		{providers.TypeAzure, "k", &openai.Provider{}},
		{providers.TypeDeepSeek, "k", &openai.Provider{}},
		{providers.TypeLocal, "", &openai.Provider{}},
		{providers.TypeAnthropic, "k", &anthropic.Provider{}},
		{providers.TypeGemini, "k", &gemini.Provider{}},
	}

	for _, tt := range tests {
		t.Run(string(tt.typ), func(t *testing.T) {
			p, err := NewProvider(providers.ProviderConfig{
				Type:    tt.typ,
				APIKey:  tt.apiKey,
				Timeout: time.Second,
			})
			if err != nil {
				t.Fatalf("NewProvider() failed: %v", err)
			}
			defer p.Close()

			if p.GetType() != tt.typ {
				t.Errorf("expected type %s, got %s", tt.typ, p.GetType())
			}
			if p.GetName() != string(tt.typ) {
				t.Errorf("expected name %s, got %s", tt.typ, p.GetName())
			}

			switch tt.wantType.(type) {
			case *openai.Provider:
				if _, ok := p.(*openai.Provider); !ok {
					t.Errorf("expected *openai.Provider, got %T", p)
				}
			case *anthropic.Provider:
				if _, ok := p.(*anthropic.Provider); !ok {
					t.Errorf("expected *anthropic.Provider, got %T", p)
				}
			case *gemini.Provider:
				if _, ok := p.(*gemini.Provider); !ok {
					t.Errorf("expected *gemini.Provider, got %T", p)
				}
			}
		})
	}
}

func TestNewProvider_MissingKey(t *testing.T) {
	for _, typ := range []providers.Type{
		providers.TypeOpenAI,
		providers.TypeAzure,
		providers.TypeDeepSeek,
		providers.TypeAnthropic,
		providers.TypeGemini,
	} {
		t.Run(string(typ), func(t *testing.T) {
			_, err := NewProvider(providers.ProviderConfig{Type: typ})
			var cfgErr *providers.ConfigError
			if !errors.As(err, &cfgErr) {
				t.Fatalf("expected ConfigError, got %T: %v", err, err)
			}
			if cfgErr.Field != "api_key" {
				t.Errorf("expected api_key field, got %q", cfgErr.Field)
			}
		})
	}
}

func TestNewProvider_InferTypeFromName(t *testing.T) {
	p, err := NewProvider(providers.ProviderConfig{Name: "DeepSeek", APIKey: "k"})
	if err != nil {
		t.Fatalf("NewProvider() failed: %v", err)
	}
	defer p.Close()
	if p.GetType() != providers.TypeDeepSeek {
		t.Errorf("expected deepseek, got %s", p.GetType())
	}

	_, err = NewProvider(providers.ProviderConfig{Name: "mistral", APIKey: "k"})
	var cfgErr *providers.ConfigError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("expected ConfigError for unknown provider, got %T: %v", err, err)
	}
}

func TestDefaults(t *testing.T) {
	for _, typ := range providers.Types {
		if DefaultModel(typ) == "" {
			t.Errorf("no default model for %s", typ)
		}
		if DefaultBaseURL(typ) == "" {
			t.Errorf("no default base URL for %s", typ)
		}
		if _, ok := constructors[typ]; !ok {
			t.Errorf("no constructor for %s", typ)
		}
	}

	if got := DefaultModel(providers.TypeGemini); got != "gemini-2.0-flash-exp" {
		t.Errorf("unexpected gemini default %q", got)
	}
	if got := APIKeyEnv(providers.TypeGemini); got != "GOOGLE_API_KEY" {
		t.Errorf("unexpected gemini key env %q", got)
	}
	if got := APIKeyEnv(providers.TypeLocal); got != "" {
		t.Errorf("local provider should need no key, got %q", got)
	}
}
