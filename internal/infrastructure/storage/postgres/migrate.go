package postgres

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"sort"

	"github.com/jackc/pgx/v5"

	"metapos/pkg/logger"
)

//go:embed schema/*.sql
var schemaFS embed.FS

// Migrate applies every embedded schema file in name order, tracking
// applied files in sys_migrations. Files are idempotent DDL.
func Migrate(ctx context.Context, m *TxManager) error {
	if _, err := m.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS sys_migrations (
			name       VARCHAR(100) PRIMARY KEY,
			applied_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`); err != nil {
		return fmt.Errorf("create sys_migrations: %w", err)
	}

	names, err := fs.Glob(schemaFS, "schema/*.sql")
	if err != nil {
		return fmt.Errorf("list schema files: %w", err)
	}
	sort.Strings(names)

	for _, name := range names {
		ddl, err := schemaFS.ReadFile(name)
		if err != nil {
			return fmt.Errorf("read %s: %w", name, err)
		}

		applied := false
		err = m.RunInTransaction(ctx, func(ctx context.Context) error {
			q := m.GetQuerier(ctx)

			var exists bool
			if err := q.QueryRow(ctx,
				`SELECT EXISTS (SELECT 1 FROM sys_migrations WHERE name = $1)`, name,
			).Scan(&exists); err != nil {
				return err
			}
			if exists {
				return nil
			}

			// Simple protocol allows multiple statements per Exec.
			if _, err := q.Exec(ctx, string(ddl), pgx.QueryExecModeSimpleProtocol); err != nil {
				return fmt.Errorf("apply: %w", err)
			}
			if _, err := q.Exec(ctx, `INSERT INTO sys_migrations (name) VALUES ($1)`, name); err != nil {
				return err
			}
			applied = true
			return nil
		})
		if err != nil {
			return fmt.Errorf("migrate %s: %w", name, err)
		}
		if applied {
			logger.Info(ctx, "schema migration applied", "file", name)
		}
	}

	return nil
}
