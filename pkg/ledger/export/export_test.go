package export

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/csv"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"mercator-hq/meter/pkg/ledger"
	"mercator-hq/meter/pkg/providers"
	"mercator-hq/meter/pkg/usage"
)

func testRecords(t *testing.T) []ledger.RequestRecord {
	t.Helper()

	params := []ledger.RecordParams{
		{
			SessionID:    "s1",
			Provider:     providers.TypeOpenAI,
			Model:        "o1-mini",
			Content:      "first, with a comma",
			Usage:        usage.MustNew(100, 1000, usage.WithReasoning(800)),
			Cost:         decimal.RequireFromString("0.00451"),
			ThinkingTime: 1500 * time.Millisecond,
			Timestamp:    time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
		},
		{
			SessionID:    "s2",
			Provider:     providers.TypeAnthropic,
			Model:        "claude-3-5-sonnet-20241022",
			Content:      "second",
			Usage:        usage.MustNew(520, 50, usage.WithCachedPrompt(400)),
			Cost:         decimal.RequireFromString("0.000123456789"),
			ThinkingTime: 250 * time.Millisecond,
		},
	}

	records := make([]ledger.RequestRecord, len(params))
	for i, p := range params {
		rec, err := ledger.NewRequestRecord(p)
		if err != nil {
			t.Fatalf("failed to build record: %v", err)
		}
		records[i] = rec
	}
	return records
}

func TestJSONExporter(t *testing.T) {
	records := testRecords(t)

	var buf bytes.Buffer
	if err := NewJSONExporter(false).Export(context.Background(), records, &buf); err != nil {
		t.Fatalf("Export failed: %v", err)
	}

	var out []map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("expected 2 records, got %d", len(out))
	}
	if out[0]["id"] != records[0].ID() {
		t.Errorf("expected id %q, got %v", records[0].ID(), out[0]["id"])
	}
}

func TestJSONExporter_Empty(t *testing.T) {
	var buf bytes.Buffer
	if err := NewJSONExporter(false).Export(context.Background(), nil, &buf); err != nil {
		t.Fatalf("Export failed: %v", err)
	}
	if got := bytes.TrimSpace(buf.Bytes()); string(got) != "[]" {
		t.Errorf("expected [], got %s", got)
	}
}

func TestCSVExporter(t *testing.T) {
	records := testRecords(t)

	var buf bytes.Buffer
	if err := NewCSVExporter(true).Export(context.Background(), records, &buf); err != nil {
		t.Fatalf("Export failed: %v", err)
	}

	rows, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("invalid CSV: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected header and 2 rows, got %d", len(rows))
	}
	if len(rows[0]) != len(Header()) {
		t.Errorf("expected %d columns, got %d", len(Header()), len(rows[0]))
	}

	tests := []struct {
		name   string
		row    int
		column string
		want   string
	}{
		{name: "provider", row: 1, column: "provider", want: "openai"},
		{name: "reasoning", row: 1, column: "reasoning_tokens", want: "800"},
		{name: "no reasoning", row: 2, column: "reasoning_tokens", want: ""},
		{name: "cached", row: 2, column: "cached_prompt_tokens", want: "400"},
		{name: "exact cost", row: 2, column: "cost", want: "0.000123456789"},
		{name: "thinking time", row: 1, column: "thinking_time_seconds", want: "1.500"},
		{name: "timestamp", row: 1, column: "timestamp", want: "2026-01-02T03:04:05Z"},
	}

	index := make(map[string]int)
	for i, name := range rows[0] {
		index[name] = i
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := rows[tt.row][index[tt.column]]; got != tt.want {
				t.Errorf("expected %s=%q, got %q", tt.column, tt.want, got)
			}
		})
	}
}

func TestNewExporter(t *testing.T) {
	if _, err := NewExporter("JSON"); err != nil {
		t.Errorf("expected json exporter, got %v", err)
	}
	if _, err := NewExporter("csv"); err != nil {
		t.Errorf("expected csv exporter, got %v", err)
	}
	if _, err := NewExporter("xml"); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("expected ErrUnsupportedFormat, got %v", err)
	}
}

func TestFormatFromPath(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"usage.json", FormatJSON},
		{"usage.CSV", FormatCSV},
		{"usage.db", FormatSQLite},
		{"usage.sqlite3", FormatSQLite},
		{"usage", FormatJSON},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			if got := FormatFromPath(tt.path, FormatJSON); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestWriteFile(t *testing.T) {
	records := testRecords(t)
	dir := t.TempDir()

	for _, format := range []string{FormatJSON, FormatCSV} {
		t.Run(format, func(t *testing.T) {
			path := filepath.Join(dir, "ledger."+format)
			if err := WriteFile(context.Background(), path, format, "", records); err != nil {
				t.Fatalf("WriteFile failed: %v", err)
			}
			info, err := os.Stat(path)
			if err != nil {
				t.Fatalf("export file missing: %v", err)
			}
			if info.Size() == 0 {
				t.Error("export file is empty")
			}
		})
	}
}

func TestWriteSQLite(t *testing.T) {
	records := testRecords(t)
	path := filepath.Join(t.TempDir(), "ledger.db")
	ctx := context.Background()

	if err := WriteSQLite(ctx, DriverModernc, path, records); err != nil {
		t.Fatalf("WriteSQLite failed: %v", err)
	}
	// A second export of the same records replaces their rows.
	if err := WriteFile(ctx, path, FormatSQLite, DriverModernc, records); err != nil {
		t.Fatalf("second export failed: %v", err)
	}

	db, err := sql.Open(DriverModernc, path)
	if err != nil {
		t.Fatalf("failed to open export: %v", err)
	}
	defer db.Close()

	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM ledger_records").Scan(&count); err != nil {
		t.Fatalf("count query failed: %v", err)
	}
	if count != 2 {
		t.Errorf("expected 2 rows, got %d", count)
	}

	var cost string
	var reasoning sql.NullInt64
	err = db.QueryRow("SELECT cost, reasoning_tokens FROM ledger_records WHERE id = ?", records[0].ID()).Scan(&cost, &reasoning)
	if err != nil {
		t.Fatalf("select failed: %v", err)
	}
	if cost != "0.00451" {
		t.Errorf("expected cost 0.00451, got %s", cost)
	}
	if !reasoning.Valid || reasoning.Int64 != 800 {
		t.Errorf("expected 800 reasoning tokens, got %+v", reasoning)
	}
}

func TestWriteSQLite_UnknownDriver(t *testing.T) {
	err := WriteSQLite(context.Background(), "postgres", filepath.Join(t.TempDir(), "x.db"), nil)
	var exportErr *ExportError
	if !errors.As(err, &exportErr) {
		t.Fatalf("expected ExportError, got %v", err)
	}
}
