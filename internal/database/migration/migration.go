// Package migration creates the schema on first start.
package migration

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// sentinelTable marks a migrated database.
const sentinelTable = "public.schemes"

type migrationStep struct {
	Name string
	SQL  string
}

var steps = []migrationStep{
	{
		Name: "create_table_profiles",
		SQL: `CREATE TABLE IF NOT EXISTS profiles (
  user_id    TEXT        PRIMARY KEY,
  user_type  TEXT        NOT NULL CHECK (user_type IN ('student', 'farmer', 'unemployed', 'worker', 'other')),
  data       JSONB       NOT NULL DEFAULT '{}'::jsonb,
  updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_table_documents",
		SQL: `CREATE TABLE IF NOT EXISTS documents (
  id                 UUID        PRIMARY KEY,
  user_id            TEXT        NOT NULL,
  name               TEXT        NOT NULL,
  storage_path       TEXT        NOT NULL UNIQUE,
  content_type       TEXT        NOT NULL,
  size               BIGINT      NOT NULL CHECK (size >= 0),
  status             TEXT        NOT NULL CHECK (status IN ('pending', 'uploaded', 'valid', 'invalid', 'missing')),
  validation_message TEXT        NOT NULL DEFAULT '',
  extracted_data     JSONB,
  created_at         TIMESTAMPTZ NOT NULL DEFAULT now(),
  updated_at         TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_index_documents_user_id",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_documents_user_id ON documents (user_id, created_at DESC);`,
	},
	{
		Name: "create_table_schemes",
		SQL: `CREATE TABLE IF NOT EXISTS schemes (
  id                 UUID        PRIMARY KEY,
  name               TEXT        NOT NULL UNIQUE,
  description        TEXT        NOT NULL DEFAULT '',
  target_group       TEXT        NOT NULL DEFAULT '',
  benefits           TEXT        NOT NULL DEFAULT '',
  portal_url         TEXT        NOT NULL DEFAULT '',
  rules              JSONB       NOT NULL DEFAULT '{}'::jsonb CHECK (jsonb_typeof(rules) = 'object'),
  required_documents JSONB       NOT NULL DEFAULT '[]'::jsonb CHECK (jsonb_typeof(required_documents) = 'array'),
  created_at         TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
}

// EnsureMigrated runs every step when the sentinel table is absent.
// Steps are idempotent, so a partially applied schema is completed.
func EnsureMigrated(ctx context.Context, db *sql.DB, log *zap.Logger) error {
	if log == nil {
		log = zap.NewNop()
	}
	log = log.With(zap.String("component", "database"))
	start := time.Now()

	var exists bool
	if err := db.QueryRowContext(ctx, "SELECT to_regclass($1) IS NOT NULL", sentinelTable).Scan(&exists); err != nil {
		log.Error("db migration failed", zap.Error(err), zap.Duration("duration", time.Since(start)))
		return fmt.Errorf("failed to check sentinel table: %w", err)
	}
	if exists {
		log.Info("db migration skipped, schema already exists")
		return nil
	}

	log.Info("db migration started", zap.Int("steps", len(steps)))
	for _, step := range steps {
		stepStart := time.Now()
		if _, err := db.ExecContext(ctx, step.SQL); err != nil {
			log.Error("db migration failed",
				zap.String("migration_step", step.Name),
				zap.Error(err),
				zap.Duration("duration", time.Since(start)),
			)
			return fmt.Errorf("migration step %s failed: %w", step.Name, err)
		}
		log.Info("db migration step",
			zap.String("migration_step", step.Name),
			zap.Duration("step_duration", time.Since(stepStart)),
		)
	}

	log.Info("db migration finished", zap.Duration("duration", time.Since(start)))
	return nil
}
