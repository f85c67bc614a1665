// Package migrate applies the embedded PostgreSQL schema in versioned steps.
// Each step runs in its own transaction and is recorded in schema_migrations.
package migrate

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"sort"
	"strconv"
	"strings"

	"github.com/jmoiron/sqlx"
)

//go:embed migrations/*.sql
var embedded embed.FS

const createVersionTable = `CREATE TABLE IF NOT EXISTS schema_migrations (
    version    INT PRIMARY KEY,
    name       VARCHAR(255) NOT NULL,
    applied_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`

// Migration is one versioned schema step.
type Migration struct {
	Version int
	Name    string
	UpSQL   string
	DownSQL string
}

// Status describes the applied state of the schema.
type Status struct {
	Current int   `json:"current"`
	Latest  int   `json:"latest"`
	Pending []int `json:"pending"`
}

// Migrator runs migrations against a database handle.
type Migrator struct {
	db         *sqlx.DB
	migrations []Migration
}

// NewMigrator loads the embedded migrations.
func NewMigrator(db *sqlx.DB) (*Migrator, error) {
	sub, err := fs.Sub(embedded, "migrations")
	if err != nil {
		return nil, err
	}
	return NewMigratorFS(db, sub)
}

// NewMigratorFS loads migrations named NNNNNN_name.{up,down}.sql from fsys.
func NewMigratorFS(db *sqlx.DB, fsys fs.FS) (*Migrator, error) {
	migrations, err := Load(fsys)
	if err != nil {
		return nil, err
	}
	return &Migrator{db: db, migrations: migrations}, nil
}

// Load parses and orders migrations. Versions must be contiguous from 1 and
// every version needs an up file.
func Load(fsys fs.FS) ([]Migration, error) {
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return nil, fmt.Errorf("read migrations: %w", err)
	}

	byVersion := map[int]*Migration{}
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".sql") {
			continue
		}
		var up bool
		var stem string
		switch {
		case strings.HasSuffix(name, ".up.sql"):
			up, stem = true, strings.TrimSuffix(name, ".up.sql")
		case strings.HasSuffix(name, ".down.sql"):
			stem = strings.TrimSuffix(name, ".down.sql")
		default:
			continue
		}
		versionPart, label, _ := strings.Cut(stem, "_")
		version, err := strconv.Atoi(versionPart)
		if err != nil || version <= 0 {
			return nil, fmt.Errorf("migration %s: invalid version prefix", name)
		}
		body, err := fs.ReadFile(fsys, name)
		if err != nil {
			return nil, fmt.Errorf("read migration %s: %w", name, err)
		}
		m := byVersion[version]
		if m == nil {
			m = &Migration{Version: version, Name: label}
			byVersion[version] = m
		}
		if up {
			m.UpSQL = string(body)
		} else {
			m.DownSQL = string(body)
		}
	}

	if len(byVersion) == 0 {
		return nil, fmt.Errorf("no migrations found")
	}

	migrations := make([]Migration, 0, len(byVersion))
	for _, m := range byVersion {
		migrations = append(migrations, *m)
	}
	sort.Slice(migrations, func(i, j int) bool { return migrations[i].Version < migrations[j].Version })
	for i, m := range migrations {
		if m.Version != i+1 {
			return nil, fmt.Errorf("migration %d is missing", i+1)
		}
		if strings.TrimSpace(m.UpSQL) == "" {
			return nil, fmt.Errorf("migration %d has no up script", m.Version)
		}
	}
	return migrations, nil
}

// Migrations returns the loaded migrations in order.
func (m *Migrator) Migrations() []Migration {
	return m.migrations
}

// CurrentVersion returns the highest applied version, 0 when none.
func (m *Migrator) CurrentVersion(ctx context.Context) (int, error) {
	if _, err := m.db.ExecContext(ctx, createVersionTable); err != nil {
		return 0, fmt.Errorf("ensure schema_migrations: %w", err)
	}
	var version int
	if err := m.db.GetContext(ctx, &version, `SELECT COALESCE(MAX(version), 0) FROM schema_migrations`); err != nil {
		return 0, fmt.Errorf("read schema version: %w", err)
	}
	return version, nil
}

// Up applies every pending migration and returns how many ran.
func (m *Migrator) Up(ctx context.Context) (int, error) {
	current, err := m.CurrentVersion(ctx)
	if err != nil {
		return 0, err
	}
	applied := 0
	for _, mig := range m.migrations {
		if mig.Version <= current {
			continue
		}
		if err := m.apply(ctx, mig, true); err != nil {
			return applied, err
		}
		applied++
	}
	return applied, nil
}

// Down rolls back the most recent migration. It returns the reverted version, 0 when nothing was applied.
func (m *Migrator) Down(ctx context.Context) (int, error) {
	current, err := m.CurrentVersion(ctx)
	if err != nil {
		return 0, err
	}
	if current == 0 {
		return 0, nil
	}
	mig := m.migrations[current-1]
	if strings.TrimSpace(mig.DownSQL) == "" {
		return 0, fmt.Errorf("migration %d has no down script", mig.Version)
	}
	if err := m.apply(ctx, mig, false); err != nil {
		return 0, err
	}
	return mig.Version, nil
}

// Status reports applied and pending versions.
func (m *Migrator) Status(ctx context.Context) (*Status, error) {
	current, err := m.CurrentVersion(ctx)
	if err != nil {
		return nil, err
	}
	status := &Status{Current: current, Latest: m.migrations[len(m.migrations)-1].Version, Pending: []int{}}
	for _, mig := range m.migrations {
		if mig.Version > current {
			status.Pending = append(status.Pending, mig.Version)
		}
	}
	return status, nil
}

func (m *Migrator) apply(ctx context.Context, mig Migration, up bool) error {
	tx, err := m.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin migration %d: %w", mig.Version, err)
	}
	defer tx.Rollback() //nolint:errcheck

	script := mig.UpSQL
	if !up {
		script = mig.DownSQL
	}
	if _, err := tx.ExecContext(ctx, script); err != nil {
		return fmt.Errorf("run migration %d_%s: %w", mig.Version, mig.Name, err)
	}

	if up {
		_, err = tx.ExecContext(ctx, `INSERT INTO schema_migrations (version, name) VALUES ($1, $2)`, mig.Version, mig.Name)
	} else {
		_, err = tx.ExecContext(ctx, `DELETE FROM schema_migrations WHERE version = $1`, mig.Version)
	}
	if err != nil {
		return fmt.Errorf("record migration %d: %w", mig.Version, err)
	}
	return tx.Commit()
}
