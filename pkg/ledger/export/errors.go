package export

import (
	"errors"
	"fmt"
)

// ErrUnsupportedFormat is returned for an unknown export format.
var ErrUnsupportedFormat = errors.New("unsupported export format")

// ExportError reports a failed export.
type ExportError struct {
	// Format is the export format (json, csv, sqlite)
	Format string

	// RecordCount is the number of records being exported
	RecordCount int

	// Cause is the underlying error
	Cause error
}

// NewExportError creates an ExportError.
func NewExportError(format string, recordCount int, cause error) *ExportError {
	return &ExportError{
		Format:      format,
		RecordCount: recordCount,
		Cause:       cause,
	}
}

// Error implements the error interface.
func (e *ExportError) Error() string {
	return fmt.Sprintf("%s export of %d records failed: %v", e.Format, e.RecordCount, e.Cause)
}

// Unwrap returns the underlying error.
func (e *ExportError) Unwrap() error {
	return e.Cause
}
