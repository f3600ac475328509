package export

import (
	"context"
	"encoding/csv"
	"io"
	"strconv"
	"time"

	"mercator-hq/meter/pkg/ledger"
)

// CSVExporter writes one row per record.
type CSVExporter struct {
	// IncludeHeader writes a header row first.
	IncludeHeader bool
}

// NewCSVExporter creates a CSV exporter.
func NewCSVExporter(includeHeader bool) *CSVExporter {
	return &CSVExporter{IncludeHeader: includeHeader}
}

// Header returns the CSV column names.
func Header() []string {
	return []string{
		"id", "session_id", "timestamp", "provider", "model",
		"prompt_tokens", "completion_tokens", "total_tokens",
		"reasoning_tokens", "cached_prompt_tokens",
		"cost", "thinking_time_seconds",
	}
}

// Export writes records to w. Costs are written exactly, unrounded.
func (e *CSVExporter) Export(ctx context.Context, records []ledger.RequestRecord, w io.Writer) error {
	writer := csv.NewWriter(w)

	if e.IncludeHeader {
		if err := writer.Write(Header()); err != nil {
			return NewExportError(FormatCSV, len(records), err)
		}
	}

	for _, record := range records {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := writer.Write(Row(record)); err != nil {
			return NewExportError(FormatCSV, len(records), err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return NewExportError(FormatCSV, len(records), err)
	}
	return nil
}

// Row converts a record to a CSV row matching Header.
func Row(r ledger.RequestRecord) []string {
	u := r.Usage()

	reasoning := ""
	if u.HasReasoning() {
		reasoning = strconv.FormatInt(u.Reasoning(), 10)
	}

	return []string{
		r.ID(),
		r.SessionID(),
		r.Timestamp().Format(time.RFC3339Nano),
		string(r.Provider()),
		r.Model(),
		strconv.FormatInt(u.PromptTokens, 10),
		strconv.FormatInt(u.CompletionTokens, 10),
		strconv.FormatInt(u.TotalTokens, 10),
		reasoning,
		strconv.FormatInt(u.CachedPromptTokens, 10),
		r.Cost().String(),
		strconv.FormatFloat(r.ThinkingTime().Seconds(), 'f', 3, 64),
	}
}
