package report

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"mercator-hq/meter/pkg/ledger"
	"mercator-hq/meter/pkg/providers"
	"mercator-hq/meter/pkg/usage"
)

func newLogger(buf *bytes.Buffer) *slog.Logger {
	return slog.New(slog.NewJSONHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func TestScheduler_Start(t *testing.T) {
	tests := []struct {
		name        string
		schedule    string
		wantErr     bool
		wantRunning bool
	}{
		{name: "disabled", schedule: DisabledSchedule},
		{name: "empty", schedule: ""},
		{name: "invalid", schedule: "every now and then", wantErr: true},
		{name: "valid", schedule: "*/15 * * * *", wantRunning: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			var buf bytes.Buffer
			s := NewScheduler(ledger.NewTracker(), tt.schedule, newLogger(&buf))
			defer s.Stop()

			err := s.Start(ctx)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Start() error = %v, wantErr %v", err, tt.wantErr)
			}
			if s.IsRunning() != tt.wantRunning {
				t.Errorf("IsRunning() = %v, want %v", s.IsRunning(), tt.wantRunning)
			}
			if tt.wantRunning && s.NextRun() == nil {
				t.Error("expected a next run time")
			}
		})
	}
}

func TestScheduler_StopsOnContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	s := NewScheduler(ledger.NewTracker(), "0 * * * *", newLogger(&bytes.Buffer{}))
	if err := s.Start(ctx); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	cancel()

	deadline := time.Now().Add(2 * time.Second)
	for s.IsRunning() && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	if s.IsRunning() {
		t.Error("expected scheduler to stop after context cancellation")
	}
}

func TestScheduler_Report(t *testing.T) {
	tracker := ledger.NewTracker()
	for _, cost := range []string{"1.23", "4.56"} {
		rec, err := ledger.NewRequestRecord(ledger.RecordParams{
			Provider: providers.TypeOpenAI,
			Model:    "gpt-4o",
			Usage:    usage.MustNew(10, 20),
			Cost:     decimal.RequireFromString(cost),
		})
		if err != nil {
			t.Fatalf("failed to build record: %v", err)
		}
		if err := tracker.Track(rec); err != nil {
			t.Fatalf("Track failed: %v", err)
		}
	}

	var buf bytes.Buffer
	NewScheduler(tracker, "*/15 * * * *", newLogger(&buf)).Report()

	out := buf.String()
	for _, want := range []string{`"msg":"ledger summary"`, `"requests":2`, `"total_cost":"5.790000"`, `"provider":"openai"`} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %s in output:\n%s", want, out)
		}
	}
}

func TestScheduler_ReportEmpty(t *testing.T) {
	var buf bytes.Buffer
	NewScheduler(ledger.NewTracker(), "*/15 * * * *", newLogger(&buf)).Report()

	if !strings.Contains(buf.String(), "no requests tracked") {
		t.Errorf("expected empty ledger message, got:\n%s", buf.String())
	}
}
