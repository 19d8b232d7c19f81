package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/okian/matchboard/pkg/logger"
)

// Migration is a single schema step.
type Migration struct {
	Version     int
	Description string
	Up          func(ctx context.Context, tx *sql.Tx) error
}

// migrations is ordered; append new steps with incrementing versions.
var migrations = []Migration{
	{
		Version:     1,
		Description: "kv documents",
		Up: func(ctx context.Context, tx *sql.Tx) error {
			_, err := tx.ExecContext(ctx, `
CREATE TABLE IF NOT EXISTS kv (
    key TEXT PRIMARY KEY,
    value TEXT NOT NULL
)`)
			return err
		},
	},
	{
		Version:     2,
		Description: "kv updated_at",
		Up: func(ctx context.Context, tx *sql.Tx) error {
			var n int
			err := tx.QueryRowContext(ctx,
				`SELECT COUNT(*) FROM pragma_table_info('kv') WHERE name = 'updated_at'`).Scan(&n)
			if err != nil || n > 0 {
				return err
			}
			_, err = tx.ExecContext(ctx, `ALTER TABLE kv ADD COLUMN updated_at TEXT NOT NULL DEFAULT ''`)
			return err
		},
	},
}

func latestVersion() int {
	return migrations[len(migrations)-1].Version
}

func schemaVersion(ctx context.Context, conn *sql.DB) (int, error) {
	var v int
	if err := conn.QueryRowContext(ctx, "PRAGMA user_version").Scan(&v); err != nil {
		return 0, fmt.Errorf("reading schema version: %w", err)
	}
	return v, nil
}

// migrate brings the schema up to latestVersion, tracking progress in
// PRAGMA user_version.
func migrate(ctx context.Context, conn *sql.DB, log logger.Logger) error {
	current, err := schemaVersion(ctx, conn)
	if err != nil {
		return err
	}
	if current >= latestVersion() {
		return nil
	}

	for _, m := range migrations {
		if m.Version <= current {
			continue
		}
		log.Info(ctx, "applying migration", logger.Int("version", m.Version), logger.String("description", m.Description))

		tx, err := conn.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("begin migration %d: %w", m.Version, err)
		}
		if err := m.Up(ctx, tx); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("migration %d (%s): %w", m.Version, m.Description, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit migration %d: %w", m.Version, err)
		}
		// user_version is set outside the transaction; the steps are idempotent.
		if _, err := conn.ExecContext(ctx, fmt.Sprintf("PRAGMA user_version = %d", m.Version)); err != nil {
			return fmt.Errorf("setting version %d: %w", m.Version, err)
		}
	}
	return nil
}
