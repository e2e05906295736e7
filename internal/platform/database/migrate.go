package database

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
)

//go:embed queries/schema.sql
var schemaDDL string

const schemaVersion = 1

// Migrate applies the key/value schema and stamps user_version.
func Migrate(ctx context.Context, db *sql.DB) error {
	var current int
	if err := db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&current); err != nil {
		return err
	}
	if current >= schemaVersion {
		return nil
	}

	if _, err := db.ExecContext(ctx, schemaDDL); err != nil {
		return err
	}
	_, err := db.ExecContext(ctx, fmt.Sprintf("PRAGMA user_version = %d", schemaVersion))
	return err
}
