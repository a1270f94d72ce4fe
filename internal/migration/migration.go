// Package migration applies the embedded SQL schema files in name order.
package migration

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	_ "github.com/lib/pq"
)

// Migrator handles database migrations for the clinic schema
type Migrator struct {
	DB    *sql.DB
	Files fs.FS
	Dir   string
}

// NewMigrator reads *.sql files from dir inside files.
func NewMigrator(db *sql.DB, files fs.FS, dir string) *Migrator {
	return &Migrator{DB: db, Files: files, Dir: dir}
}

// InitializeSchema creates the table that records applied files
func (m *Migrator) InitializeSchema(ctx context.Context) error {
	_, err := m.DB.ExecContext(ctx, `
	CREATE TABLE IF NOT EXISTS schema_migrations (
		version TEXT PRIMARY KEY,
		applied_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations: %w", err)
	}
	return nil
}

// AppliedVersions returns the file names already applied
func (m *Migrator) AppliedVersions(ctx context.Context) (map[string]bool, error) {
	rows, err := m.DB.QueryContext(ctx, `SELECT version FROM schema_migrations`)
	if err != nil {
		return nil, fmt.Errorf("reading schema_migrations: %w", err)
	}
	defer rows.Close()

	applied := make(map[string]bool)
	for rows.Next() {
		var version string
		if err := rows.Scan(&version); err != nil {
			return nil, err
		}
		applied[version] = true
	}
	return applied, rows.Err()
}

// Pending lists the schema files not yet applied, in name order.
func (m *Migrator) Pending(ctx context.Context) ([]string, error) {
	entries, err := fs.ReadDir(m.Files, m.Dir)
	if err != nil {
		return nil, fmt.Errorf("reading schema files: %w", err)
	}

	applied, err := m.AppliedVersions(ctx)
	if err != nil {
		return nil, err
	}

	var pending []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".sql") || applied[name] {
			continue
		}
		pending = append(pending, name)
	}
	sort.Strings(pending)

	return pending, nil
}

// Apply runs every pending file, each in its own transaction, and returns the
// names it applied.
func (m *Migrator) Apply(ctx context.Context) ([]string, error) {
	if err := m.InitializeSchema(ctx); err != nil {
		return nil, err
	}

	pending, err := m.Pending(ctx)
	if err != nil {
		return nil, err
	}

	var done []string
	for _, name := range pending {
		if err := m.applyFile(ctx, name); err != nil {
			return done, err
		}
		done = append(done, name)
	}

	return done, nil
}

func (m *Migrator) applyFile(ctx context.Context, name string) error {
	body, err := fs.ReadFile(m.Files, path.Join(m.Dir, name))
	if err != nil {
		return fmt.Errorf("reading %s: %w", name, err)
	}

	tx, err := m.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}

	if _, err := tx.ExecContext(ctx, string(body)); err != nil {
		tx.Rollback()
		return fmt.Errorf("applying %s: %w", name, err)
	}

	if _, err := tx.ExecContext(ctx, `INSERT INTO schema_migrations (version) VALUES ($1)`, name); err != nil {
		tx.Rollback()
		return fmt.Errorf("recording %s: %w", name, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit %s: %w", name, err)
	}
	return nil
}
