package repository

import (
	"context"
	"fmt"
)

var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS document_files (
		id           TEXT PRIMARY KEY,
		source_path  TEXT NOT NULL,
		filename     TEXT NOT NULL,
		file_ext     TEXT NOT NULL,
		source_kind  TEXT NOT NULL,
		file_size    BIGINT NOT NULL,
		content_hash TEXT NOT NULL UNIQUE,
		uploaded_at  TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_document_files_uploaded_at ON document_files (uploaded_at)`,
	`CREATE TABLE IF NOT EXISTS extract_job (
		id              TEXT PRIMARY KEY,
		file_id         TEXT NOT NULL REFERENCES document_files (id),
		format          TEXT NOT NULL,
		status          TEXT NOT NULL,
		started_at      TEXT NOT NULL,
		finished_at     TEXT,
		error_message   TEXT,
		method          TEXT,
		pages           INTEGER NOT NULL DEFAULT 0,
		raw_text        TEXT,
		record_json     TEXT,
		resolved_fields INTEGER NOT NULL DEFAULT 0,
		needs_review    INTEGER NOT NULL DEFAULT 0
	)`,
	`CREATE INDEX IF NOT EXISTS idx_extract_job_file_id ON extract_job (file_id)`,
	`CREATE INDEX IF NOT EXISTS idx_extract_job_status_started ON extract_job (status, started_at)`,
}

// Migrate creates the tables if they do not exist. Timestamps are stored as
// fixed-width UTC text so they sort the same on both dialects.
func Migrate(ctx context.Context, db *DB) error {
	for _, stmt := range schemaStatements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}
