package providers

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"
)

func TestProviderError(t *testing.T) {
	t.Run("with status code", func(t *testing.T) {
		err := &ProviderError{
			Provider:   "openai",
			StatusCode: 500,
			Message:    "internal error",
		}

		expected := `provider "openai" error (status 500): internal error`
		if err.Error() != expected {
			t.Errorf("expected %q, got %q", expected, err.Error())
		}
	})

	t.Run("without status code", func(t *testing.T) {
		err := &ProviderError{
			Provider: "openai",
			Message:  "connection failed",
		}

		expected := `provider "openai" error: connection failed`
		if err.Error() != expected {
			t.Errorf("expected %q, got %q", expected, err.Error())
		}
	})

	t.Run("with cause", func(t *testing.T) {
		cause := errors.New("network timeout")
		err := &ProviderError{
			Provider: "openai",
			Message:  "request failed",
			Cause:    cause,
		}

		if !errors.Is(err, cause) {
			t.Error("expected error to wrap cause")
		}

		unwrapped := errors.Unwrap(err)
		if unwrapped != cause {
			t.Errorf("expected unwrapped error to be %v, got %v", cause, unwrapped)
		}
	})
}

func TestAuthError(t *testing.T) {
	err := &AuthError{
		Provider: "openai",
		Message:  "Invalid API key",
	}

	expected := `provider "openai" authentication failed: Invalid API key`
	if err.Error() != expected {
		t.Errorf("expected %q, got %q", expected, err.Error())
	}
}

func TestRateLimitError(t *testing.T) {
	t.Run("with retry after", func(t *testing.T) {
		err := &RateLimitError{
			Provider:   "openai",
			RetryAfter: 10 * time.Second,
			Message:    "Too many requests",
		}

		errStr := err.Error()
		if !strings.Contains(errStr, "rate limit exceeded") {
			t.Errorf("expected error to contain 'rate limit exceeded', got %q", errStr)
		}
		if !strings.Contains(errStr, "10s") {
			t.Errorf("expected error to contain retry duration, got %q", errStr)
		}
	})

	t.Run("without retry after", func(t *testing.T) {
		err := &RateLimitError{
			Provider: "openai",
			Message:  "Too many requests",
		}

		expected := `provider "openai" rate limit exceeded: Too many requests`
		if err.Error() != expected {
			t.Errorf("expected %q, got %q", expected, err.Error())
		}
	})
}

func TestTimeoutError(t *testing.T) {
	err := &TimeoutError{
		Provider: "openai",
		Timeout:  30 * time.Second,
	}

	errStr := err.Error()
	if !strings.Contains(errStr, "openai") {
		t.Errorf("expected error to contain provider name, got %q", errStr)
	}
	if !strings.Contains(errStr, "timeout") {
		t.Errorf("expected error to contain 'timeout', got %q", errStr)
	}
	if !strings.Contains(errStr, "30s") {
		t.Errorf("expected error to contain timeout duration, got %q", errStr)
	}
}

func TestParseError(t *testing.T) {
	t.Run("with cause", func(t *testing.T) {
		cause := errors.New("invalid JSON")
		err := &ParseError{
			Provider:    "openai",
			RawResponse: `{"invalid": json}`,
			Cause:       cause,
		}

		errStr := err.Error()
		if !strings.Contains(errStr, "parse error") {
			t.Errorf("expected error to contain 'parse error', got %q", errStr)
		}

		unwrapped := errors.Unwrap(err)
		if unwrapped != cause {
			t.Errorf("expected unwrapped error to be %v, got %v", cause, unwrapped)
		}
	})
}
func TestValidationError(t *testing.T) {
	err := &ValidationError{
		Field:   "model",
		Message: "model is required",
	}

	expected := `validation error for field "model": model is required`
	if err.Error() != expected {
		t.Errorf("expected %q, got %q", expected, err.Error())
	}
}


func TestConfigError(t *testing.T) {
	err := &ConfigError{
		Provider: "openai",
		Field:    "api_key",
		Message:  "API key is required",
	}

	errStr := err.Error()
	if !strings.Contains(errStr, "openai") {
		t.Errorf("expected error to contain provider name, got %q", errStr)
	}
	if !strings.Contains(errStr, "api_key") {
		t.Errorf("expected error to contain field name, got %q", errStr)
	}
	if !strings.Contains(errStr, "API key is required") {
		t.Errorf("expected error to contain message, got %q", errStr)
	}
}


func TestIsRetryable(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "timeout", err: &TimeoutError{Provider: "openai", Timeout: time.Second}, want: true},
		{name: "rate limit", err: &RateLimitError{Provider: "openai"}, want: true},
		{name: "server error", err: &ProviderError{Provider: "openai", StatusCode: 503}, want: true},
		{name: "wrapped server error", err: fmt.Errorf("query: %w", &ProviderError{Provider: "gemini", StatusCode: 500}), want: true},
		{name: "bad request", err: &ProviderError{Provider: "openai", StatusCode: 400}, want: false},
		{name: "auth", err: &AuthError{Provider: "openai"}, want: false},
		{name: "parse", err: &ParseError{Provider: "openai", Cause: errors.New("bad json")}, want: false},
		{name: "config", err: &ConfigError{Provider: "openai", Field: "api_key"}, want: false},
		{name: "nil", err: nil, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsRetryable(tt.err); got != tt.want {
				t.Errorf("IsRetryable() = %v, want %v", got, tt.want)
			}
		})
	}
}
