package repository

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"strings"
)

//go:embed schema.sql
var schemaSQL string

// SchemaStatements splits the embedded schema into individual statements.
func SchemaStatements() []string {
	var stmts []string
	for _, stmt := range strings.Split(schemaSQL, ";") {
		if stmt = strings.TrimSpace(stmt); stmt != "" {
			stmts = append(stmts, stmt)
		}
	}
	return stmts
}

// ApplySchema creates every table that does not exist yet. It is idempotent.
func ApplySchema(ctx context.Context, db *sql.DB) (int, error) {
	stmts := SchemaStatements()
	for i, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return i, fmt.Errorf("schema statement %d: %w", i+1, err)
		}
	}
	return len(stmts), nil
}
