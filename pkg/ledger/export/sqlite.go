package export

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/mattn/go-sqlite3" // registers "sqlite3" (cgo)
	_ "modernc.org/sqlite"          // registers "sqlite" (pure Go)

	"mercator-hq/meter/pkg/ledger"
)

// SQLite driver names.
const (
	DriverModernc = "sqlite"
	DriverCGO     = "sqlite3"
)

// Schema creates the export table. Costs are stored as decimal text so no
// precision is lost.
const Schema = `
CREATE TABLE IF NOT EXISTS ledger_records (
    id TEXT PRIMARY KEY,
    session_id TEXT NOT NULL,
    timestamp TEXT NOT NULL,
    provider TEXT NOT NULL,
    model TEXT NOT NULL,
    content TEXT,
    prompt_tokens INTEGER NOT NULL,
    completion_tokens INTEGER NOT NULL,
    total_tokens INTEGER NOT NULL,
    reasoning_tokens INTEGER,
    cached_prompt_tokens INTEGER NOT NULL DEFAULT 0,
    cost TEXT NOT NULL,
    thinking_time_ms INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_ledger_session ON ledger_records(session_id);
CREATE INDEX IF NOT EXISTS idx_ledger_provider_model ON ledger_records(provider, model);
`

const insertRecord = `
INSERT OR REPLACE INTO ledger_records (
    id, session_id, timestamp, provider, model, content,
    prompt_tokens, completion_tokens, total_tokens, reasoning_tokens, cached_prompt_tokens,
    cost, thinking_time_ms
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

// WriteSQLite writes records into the database at path, creating the schema
// when needed. Re-exporting a record replaces its row.
func WriteSQLite(ctx context.Context, driver, path string, records []ledger.RequestRecord) error {
	if driver == "" {
		driver = DriverModernc
	}
	if driver != DriverModernc && driver != DriverCGO {
		return NewExportError(FormatSQLite, len(records), fmt.Errorf("unknown sqlite driver %q", driver))
	}

	db, err := sql.Open(driver, path)
	if err != nil {
		return NewExportError(FormatSQLite, len(records), err)
	}
	defer db.Close()

	if _, err := db.ExecContext(ctx, Schema); err != nil {
		return NewExportError(FormatSQLite, len(records), fmt.Errorf("create schema: %w", err))
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return NewExportError(FormatSQLite, len(records), err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, insertRecord)
	if err != nil {
		return NewExportError(FormatSQLite, len(records), err)
	}
	defer stmt.Close()

	for _, r := range records {
		u := r.Usage()
		var reasoning sql.NullInt64
		if u.HasReasoning() {
			reasoning = sql.NullInt64{Int64: u.Reasoning(), Valid: true}
		}

		_, err := stmt.ExecContext(ctx,
			r.ID(),
			r.SessionID(),
			r.Timestamp().Format(time.RFC3339Nano),
			string(r.Provider()),
			r.Model(),
			r.Content(),
			u.PromptTokens,
			u.CompletionTokens,
			u.TotalTokens,
			reasoning,
			u.CachedPromptTokens,
			r.Cost().String(),
			r.ThinkingTime().Milliseconds(),
		)
		if err != nil {
			return NewExportError(FormatSQLite, len(records), fmt.Errorf("insert %s: %w", r.ID(), err))
		}
	}

	if err := tx.Commit(); err != nil {
		return NewExportError(FormatSQLite, len(records), err)
	}

	slog.Info("ledger exported",
		"component", "ledger.export",
		"path", path,
		"format", FormatSQLite,
		"driver", driver,
		"records", len(records),
	)
	return nil
}
