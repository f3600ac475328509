package providers

import (
	"errors"
	"testing"
)

func TestParseType(t *testing.T) {
	tests := []struct {
		input   string
		want    Type
		wantErr bool
	}{
		{"openai", TypeOpenAI, false},
		{"Azure", TypeAzure, false},
		{" deepseek ", TypeDeepSeek, false},
		{"anthropic", TypeAnthropic, false},
		{"gemini", TypeGemini, false},
		{"local", TypeLocal, false},
		{"cohere", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseType(tt.input)
			if tt.wantErr {
				var cfgErr *ConfigError
				if !errors.As(err, &cfgErr) {
					t.Fatalf("expected ConfigError, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestType_Capabilities(t *testing.T) {
	tests := []struct {
		typ        Type
		compatible bool
		images     bool
	}{
		{TypeOpenAI, true, true},
		{TypeAzure, true, true},
		{TypeDeepSeek, true, false},
		{TypeLocal, true, false},
		{TypeAnthropic, false, true},
		{TypeGemini, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.typ.String(), func(t *testing.T) {
			if got := tt.typ.OpenAICompatible(); got != tt.compatible {
				t.Errorf("OpenAICompatible() = %v, want %v", got, tt.compatible)
			}
			if got := tt.typ.SupportsImages(); got != tt.images {
				t.Errorf("SupportsImages() = %v, want %v", got, tt.images)
			}
		})
	}
}
