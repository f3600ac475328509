package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"mercator-hq/meter/pkg/pricing"
	"mercator-hq/meter/pkg/providers"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name            string
		timeout         time.Duration
		expectedTimeout time.Duration
	}{
		{name: "default timeout", timeout: 0, expectedTimeout: DefaultCheckTimeout},
		{name: "custom timeout", timeout: 10 * time.Second, expectedTimeout: 10 * time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			checker := New(tt.timeout)
			if checker.checkTimeout != tt.expectedTimeout {
				t.Errorf("expected timeout %v, got %v", tt.expectedTimeout, checker.checkTimeout)
			}
			if len(checker.Names()) != 0 {
				t.Errorf("expected no checks, got %v", checker.Names())
			}
		})
	}
}

func TestReadiness(t *testing.T) {
	tests := []struct {
		name       string
		checks     map[string]CheckFunc
		wantStatus string
	}{
		{
			name:       "no checks",
			checks:     nil,
			wantStatus: StatusReady,
		},
		{
			name: "all healthy",
			checks: map[string]CheckFunc{
				"a": func(ctx context.Context) error { return nil },
				"b": func(ctx context.Context) error { return nil },
			},
			wantStatus: StatusReady,
		},
		{
			name: "one failing",
			checks: map[string]CheckFunc{
				"a": func(ctx context.Context) error { return nil },
				"b": func(ctx context.Context) error { return errors.New("down") },
			},
			wantStatus: StatusDegraded,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			checker := New(time.Second)
			for name, check := range tt.checks {
				checker.Register(name, check)
			}

			report := checker.Readiness(context.Background())
			if report.Status != tt.wantStatus {
				t.Errorf("expected status %q, got %q", tt.wantStatus, report.Status)
			}
			if len(report.Checks) != len(tt.checks) {
				t.Errorf("expected %d results, got %d", len(tt.checks), len(report.Checks))
			}
		})
	}
}

func TestReadiness_Timeout(t *testing.T) {
	checker := New(10 * time.Millisecond)
	checker.Register("slow", func(ctx context.Context) error {
		<-ctx.Done()
		time.Sleep(50 * time.Millisecond)
		return nil
	})

	report := checker.Readiness(context.Background())
	result := report.Checks["slow"]
	if result.Status != StatusUnhealthy {
		t.Fatalf("expected unhealthy, got %q", result.Status)
	}
	if result.Message != ErrCheckTimeout.Error() {
		t.Errorf("expected timeout message, got %q", result.Message)
	}
}

func TestPricingCheck(t *testing.T) {
	table, err := pricing.Default()
	if err != nil {
		t.Fatalf("failed to load default pricing: %v", err)
	}

	if err := PricingCheck(table)(context.Background()); err != nil {
		t.Errorf("expected default table to pass, got %v", err)
	}
	if err := PricingCheck(nil)(context.Background()); err == nil {
		t.Error("expected nil table to fail")
	}
}

func TestCredentialsCheck(t *testing.T) {
	tests := []struct {
		name    string
		configs map[providers.Type]providers.ProviderConfig
		wantErr bool
	}{
		{
			name:    "none",
			configs: map[providers.Type]providers.ProviderConfig{providers.TypeOpenAI: {}},
			wantErr: true,
		},
		{
			name:    "key present",
			configs: map[providers.Type]providers.ProviderConfig{providers.TypeGemini: {APIKey: "k"}},
		},
		{
			name:    "local needs no key",
			configs: map[providers.Type]providers.ProviderConfig{providers.TypeLocal: {}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CredentialsCheck(tt.configs)(context.Background())
			if (err != nil) != tt.wantErr {
				t.Errorf("wantErr %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestHandlers(t *testing.T) {
	checker := New(time.Second)
	checker.Register("credentials", func(ctx context.Context) error { return errors.New("missing") })

	mux := http.NewServeMux()
	Register(mux, checker, NewVersionInfo("1.2.3", "abc", "2026-01-01"))

	tests := []struct {
		name       string
		method     string
		path       string
		wantStatus int
		wantField  string
		wantValue  string
	}{
		{name: "liveness", method: http.MethodGet, path: "/health", wantStatus: http.StatusOK, wantField: "status", wantValue: StatusOK},
		{name: "readiness degraded", method: http.MethodGet, path: "/ready", wantStatus: http.StatusServiceUnavailable, wantField: "status", wantValue: StatusDegraded},
		{name: "version", method: http.MethodGet, path: "/version", wantStatus: http.StatusOK, wantField: "version", wantValue: "1.2.3"},
		{name: "method not allowed", method: http.MethodPost, path: "/health", wantStatus: http.StatusMethodNotAllowed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, nil)
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Fatalf("expected status %d, got %d", tt.wantStatus, rec.Code)
			}
			if tt.wantField == "" {
				return
			}

			var body map[string]interface{}
			if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
				t.Fatalf("failed to decode body: %v", err)
			}
			if body[tt.wantField] != tt.wantValue {
				t.Errorf("expected %s=%q, got %v", tt.wantField, tt.wantValue, body[tt.wantField])
			}
		})
	}
}
