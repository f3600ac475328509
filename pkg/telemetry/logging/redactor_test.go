package logging

import (
	"strings"
	"testing"

	"mercator-hq/meter/pkg/config"
)

func TestRedactor_RedactString(t *testing.T) {
	r := NewRedactor(nil)

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "openai key",
			input: "key is sk-proj1234567890abcdef",
			want:  "key is sk-***",
		},
		{
			name:  "anthropic key",
			input: "sk-ant-api03-abcdefghijkl",
			want:  "sk-ant-***",
		},
		{
			name:  "google key",
			input: "AIzaSyD-abcdefghijklmnopqrstuv",
			want:  "AIza***",
		},
		{
			name:  "bearer token",
			input: "Authorization: Bearer abc123.def",
			want:  "Authorization: Bearer ***",
		},
		{
			name:  "query parameter",
			input: "GET /v1beta/models/x?key=secret123&alt=json",
			want:  "GET /v1beta/models/x?key=***&alt=json",
		},
		{
			name:  "short sk- word untouched",
			input: "sk-short",
			want:  "sk-short",
		},
		{
			name:  "plain text untouched",
			input: "pricing fallback for gpt-9",
			want:  "pricing fallback for gpt-9",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := r.RedactString(tt.input); got != tt.want {
				t.Errorf("RedactString(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestRedactor_CustomPatterns(t *testing.T) {
	r := NewRedactor([]config.RedactPattern{
		{Name: "deployment", Pattern: `deploy-[a-z0-9]+`, Replacement: "deploy-***"},
		{Name: "broken", Pattern: `(`, Replacement: "x"},
	})

	got := r.RedactString("using deploy-abc123")
	if got != "using deploy-***" {
		t.Errorf("custom pattern not applied: %q", got)
	}
}

func TestRedactor_Nil(t *testing.T) {
	var r *Redactor
	if got := r.RedactString("sk-abcdefghijklmnop"); got != "sk-abcdefghijklmnop" {
		t.Errorf("nil redactor changed value: %q", got)
	}
}

func TestIsSensitiveKey(t *testing.T) {
	for _, key := range []string{"api_key", "API-Key", "Authorization", "x_token", "client_secret"} {
		if !IsSensitiveKey(key) {
			t.Errorf("expected %q to be sensitive", key)
		}
	}
	for _, key := range []string{"provider", "model", "cost", "prompt_tokens"} {
		if IsSensitiveKey(key) {
			t.Errorf("expected %q not to be sensitive", key)
		}
	}
}

func TestRedactAPIKey(t *testing.T) {
	if got := RedactAPIKey("sk-1234567890"); got != "sk-1***" {
		t.Errorf("unexpected %q", got)
	}
	if got := RedactAPIKey("short"); got != "***" {
		t.Errorf("unexpected %q", got)
	}
	if got := RedactAPIKey(""); got != "" {
		t.Errorf("unexpected %q", got)
	}
	if strings.Contains(RedactAPIKey("sk-verysecret"), "secret") {
		t.Error("secret leaked")
	}
}
