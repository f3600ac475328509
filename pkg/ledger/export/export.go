package export

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"mercator-hq/meter/pkg/ledger"
)

// Export formats.
const (
	FormatJSON   = "json"
	FormatCSV    = "csv"
	FormatSQLite = "sqlite"
)

// Exporter writes ledger records to a stream.
type Exporter interface {
	Export(ctx context.Context, records []ledger.RequestRecord, w io.Writer) error
}

// NewExporter returns the stream exporter for format. SQLite is not a
// stream format; use WriteSQLite for it.
func NewExporter(format string) (Exporter, error) {
	switch strings.ToLower(format) {
	case FormatJSON:
		return NewJSONExporter(true), nil
	case FormatCSV:
		return NewCSVExporter(true), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
}

// FormatFromPath infers the export format from a file extension, falling
// back to fallback.
func FormatFromPath(path, fallback string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON
	case ".csv":
		return FormatCSV
	case ".db", ".sqlite", ".sqlite3":
		return FormatSQLite
	default:
		return fallback
	}
}

// WriteFile exports records to path in format. The sqlite format writes a
// database through driver ("sqlite" or "sqlite3"); the other formats
// replace the file.
func WriteFile(ctx context.Context, path, format, driver string, records []ledger.RequestRecord) error {
	format = strings.ToLower(format)
	if format == FormatSQLite {
		return WriteSQLite(ctx, driver, path, records)
	}

	exporter, err := NewExporter(format)
	if err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return NewExportError(format, len(records), err)
	}

	if err := exporter.Export(ctx, records, f); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return NewExportError(format, len(records), err)
	}

	slog.Info("ledger exported",
		"component", "ledger.export",
		"path", path,
		"format", format,
		"records", len(records),
	)
	return nil
}
