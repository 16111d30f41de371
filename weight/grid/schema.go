package grid

import (
	"context"
	"database/sql"
	"fmt"
)

// SchemaVersion is the current schema version of the SQLite grid store.
const SchemaVersion = 1

const schemaV1 = `
CREATE TABLE IF NOT EXISTS entries (
    path TEXT PRIMARY KEY,
    kind TEXT NOT NULL,        -- 'scalar', 'floats', 'strings'
    data TEXT NOT NULL,        -- JSON payload
    updated_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS schema_info (
    version INTEGER NOT NULL
);
`

// InitSchema creates the tables if needed and records the schema version.
func InitSchema(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, schemaV1); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	var count int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM schema_info`).Scan(&count); err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}
	if count == 0 {
		if _, err := db.ExecContext(ctx, `INSERT INTO schema_info (version) VALUES (?)`, SchemaVersion); err != nil {
			return fmt.Errorf("failed to record schema version: %w", err)
		}
	}
	return nil
}
