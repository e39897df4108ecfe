package database

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"sort"
	"strings"
)

//go:embed migrations/*.sql
var migrationFS embed.FS

// Migration is a single embedded schema file.  Each file holds exactly one
// statement because the DSN keeps multiStatements disabled.
type Migration struct {
	Name string
	SQL  string
}

// Migrations returns the embedded schema files in lexical order.
func Migrations() ([]Migration, error) {
	names, err := fs.Glob(migrationFS, "migrations/*.sql")
	if err != nil {
		return nil, err
	}
	sort.Strings(names)
	out := make([]Migration, 0, len(names))
	for _, n := range names {
		b, err := migrationFS.ReadFile(n)
		if err != nil {
			return nil, fmt.Errorf("read migration %s: %w", n, err)
		}
		stmt := strings.TrimSuffix(strings.TrimSpace(string(b)), ";")
		if stmt == "" {
			continue
		}
		out = append(out, Migration{Name: strings.TrimPrefix(n, "migrations/"), SQL: stmt})
	}
	return out, nil
}

// Migrate applies every embedded migration.  All statements are
// CREATE ... IF NOT EXISTS, so running it against an initialised schema is a
// no-op.  It returns the names of the applied files.
func Migrate(ctx context.Context, db *sql.DB) ([]string, error) {
	ms, err := Migrations()
	if err != nil {
		return nil, err
	}
	applied := make([]string, 0, len(ms))
	for _, m := range ms {
		if _, err := db.ExecContext(ctx, m.SQL); err != nil {
			return applied, fmt.Errorf("exec migration %s: %w", m.Name, err)
		}
		applied = append(applied, m.Name)
	}
	return applied, nil
}
