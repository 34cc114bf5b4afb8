package migration

import (
	"context"

	"gobenford/internal/errors"

	"github.com/jmoiron/sqlx"
)

// Migrator defines the interface for database migration operations
type Migrator interface {
	Run(ctx context.Context, db *sqlx.DB) error
	Version() string
}

// MigrationRunner handles database schema migrations
type MigrationRunner struct {
	version string
}

// NewRunner creates a new migration runner
func NewRunner() *MigrationRunner {
	return &MigrationRunner{
		version: "1.0.0",
	}
}

// Version returns the migration version
func (r *MigrationRunner) Version() string {
	return r.version
}

type step struct {
	name string
	sql  string
}

var steps = []step{
	{
		name: "create analyses table",
		sql: `
		CREATE TABLE IF NOT EXISTS analyses (
			id UUID PRIMARY KEY,
			filename TEXT NOT NULL,
			valid BOOLEAN NOT NULL,
			observations INTEGER NOT NULL DEFAULT 0,
			statistic DOUBLE PRECISION NOT NULL DEFAULT 0,
			p_value DOUBLE PRECISION NOT NULL DEFAULT 0,
			rejected BOOLEAN NOT NULL DEFAULT false,
			error_message TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
		)`,
	},
	{
		name: "index analyses by creation time",
		sql:  `CREATE INDEX IF NOT EXISTS idx_analyses_created_at ON analyses (created_at DESC)`,
	},
}

// Run executes all database migrations in order. Every step is idempotent.
func (r *MigrationRunner) Run(ctx context.Context, db *sqlx.DB) error {
	for _, s := range steps {
		if _, err := db.ExecContext(ctx, s.sql); err != nil {
			return errors.DatabaseError("migration step failed: "+s.name, err)
		}
	}
	return nil
}
