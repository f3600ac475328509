package cli

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func sampleTable() *Table {
	return &Table{
		Headers: []string{"model", "cost"},
		Rows: [][]string{
			{"gpt-4o", "0.000225"},
			{"claude-3-5-haiku", "0.001000"},
		},
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    OutputFormat
		wantErr bool
	}{
		{in: "", want: FormatText},
		{in: "text", want: FormatText},
		{in: "JSON", want: FormatJSON},
		{in: "csv", want: FormatCSV},
		{in: "junit", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseFormat(%q) expected error", tt.in)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseFormat(%q) error = %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("ParseFormat(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestTextFormatter(t *testing.T) {
	buf := &bytes.Buffer{}
	if err := (&TextFormatter{}).FormatTo(buf, "test message"); err != nil {
		t.Fatalf("FormatTo() error = %v", err)
	}
	if buf.String() != "test message\n" {
		t.Errorf("FormatTo() = %q, want %q", buf.String(), "test message\n")
	}
}

func TestTextFormatter_Table(t *testing.T) {
	buf := &bytes.Buffer{}
	if err := (&TextFormatter{}).FormatTo(buf, sampleTable()); err != nil {
		t.Fatalf("FormatTo() error = %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d: %q", len(lines), buf.String())
	}
	// Columns are aligned, so every value column starts at the same offset.
	col := strings.Index(lines[0], "cost")
	for _, line := range lines[1:] {
		if strings.Index(line, "0.00") != col {
			t.Errorf("misaligned row %q", line)
		}
	}
}

func TestJSONFormatter(t *testing.T) {
	tests := []struct {
		name   string
		data   interface{}
		indent bool
		check  func(t *testing.T, out []byte)
	}{
		{
			name: "map",
			data: map[string]string{"key": "value"},
			check: func(t *testing.T, out []byte) {
				var got map[string]string
				if err := json.Unmarshal(out, &got); err != nil {
					t.Fatalf("invalid JSON: %v", err)
				}
				if got["key"] != "value" {
					t.Errorf("key = %q, want value", got["key"])
				}
			},
		},
		{
			name:   "table without data",
			data:   sampleTable(),
			indent: true,
			check: func(t *testing.T, out []byte) {
				var got []map[string]string
				if err := json.Unmarshal(out, &got); err != nil {
					t.Fatalf("invalid JSON: %v", err)
				}
				if len(got) != 2 || got[0]["model"] != "gpt-4o" || got[1]["cost"] != "0.001000" {
					t.Errorf("unexpected rows %v", got)
				}
			},
		},
		{
			name: "table with data",
			data: &Table{Headers: []string{"a"}, Data: []int{1, 2}},
			check: func(t *testing.T, out []byte) {
				if strings.TrimSpace(string(out)) != "[1,2]" {
					t.Errorf("got %s, want [1,2]", out)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := &bytes.Buffer{}
			if err := (&JSONFormatter{Indent: tt.indent}).FormatTo(buf, tt.data); err != nil {
				t.Fatalf("FormatTo() error = %v", err)
			}
			tt.check(t, buf.Bytes())
		})
	}
}

func TestCSVFormatter(t *testing.T) {
	buf := &bytes.Buffer{}
	if err := (&CSVFormatter{}).FormatTo(buf, sampleTable()); err != nil {
		t.Fatalf("FormatTo() error = %v", err)
	}

	want := "model,cost\ngpt-4o,0.000225\nclaude-3-5-haiku,0.001000\n"
	if buf.String() != want {
		t.Errorf("FormatTo() = %q, want %q", buf.String(), want)
	}

	if err := (&CSVFormatter{}).FormatTo(&bytes.Buffer{}, "not a table"); err == nil {
		t.Error("expected error for non-tabular data")
	}
}

func TestNewFormatter(t *testing.T) {
	tests := []struct {
		format OutputFormat
		want   string
	}{
		{FormatText, "*cli.TextFormatter"},
		{FormatJSON, "*cli.JSONFormatter"},
		{FormatCSV, "*cli.CSVFormatter"},
		{"unknown", "*cli.TextFormatter"},
	}

	for _, tt := range tests {
		t.Run(string(tt.format), func(t *testing.T) {
			got := NewFormatter(tt.format)
			if typeName(got) != tt.want {
				t.Errorf("NewFormatter(%q) = %s, want %s", tt.format, typeName(got), tt.want)
			}
		})
	}
}

func typeName(v interface{}) string {
	switch v.(type) {
	case *TextFormatter:
		return "*cli.TextFormatter"
	case *JSONFormatter:
		return "*cli.JSONFormatter"
	case *CSVFormatter:
		return "*cli.CSVFormatter"
	default:
		return "unknown"
	}
}
