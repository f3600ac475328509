// Package export writes ledger snapshots for audit: a JSON array, a CSV
// table or a SQLite database.
//
// Exports are one-way. Nothing is read back into a Tracker.
//
//	err := export.WriteFile(ctx, "usage.csv", export.FormatCSV, "", tracker.Snapshot())
//
// SQLite exports use the pure Go modernc.org/sqlite driver ("sqlite") by
// default; "sqlite3" selects github.com/mattn/go-sqlite3, which needs cgo.
package export
