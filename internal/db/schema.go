package db

import (
	"context"
	"fmt"
)

var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS documents (
		id          SERIAL PRIMARY KEY,
		filename    TEXT NOT NULL,
		content     TEXT NOT NULL,
		upload_date TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS workflows (
		id          SERIAL PRIMARY KEY,
		name        TEXT NOT NULL,
		config_json TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS chatlogs (
		id          SERIAL PRIMARY KEY,
		user_query  TEXT NOT NULL,
		response    TEXT NOT NULL,
		timestamp   TIMESTAMPTZ NOT NULL DEFAULT now(),
		workflow_id INTEGER REFERENCES workflows(id)
	)`,
	`CREATE INDEX IF NOT EXISTS chatlogs_timestamp_idx ON chatlogs (timestamp DESC)`,
}

// EnsureSchema crea las tablas si no existen. Es idempotente.
func EnsureSchema(ctx context.Context, conn DBTX) error {
	for i, stmt := range schemaStatements {
		if _, err := conn.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("schema statement %d: %w", i, err)
		}
	}
	return nil
}
