package export

import (
	"context"
	"encoding/json"
	"io"

	"mercator-hq/meter/pkg/ledger"
)

// JSONExporter writes records as a JSON array.
type JSONExporter struct {
	// Pretty enables indentation.
	Pretty bool
}

// NewJSONExporter creates a JSON exporter.
func NewJSONExporter(pretty bool) *JSONExporter {
	return &JSONExporter{Pretty: pretty}
}

// Export writes records to w. An empty ledger is written as [].
func (e *JSONExporter) Export(ctx context.Context, records []ledger.RequestRecord, w io.Writer) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if records == nil {
		records = []ledger.RequestRecord{}
	}

	encoder := json.NewEncoder(w)
	if e.Pretty {
		encoder.SetIndent("", "  ")
	}
	if err := encoder.Encode(records); err != nil {
		return NewExportError(FormatJSON, len(records), err)
	}
	return nil
}
