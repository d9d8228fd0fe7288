package database

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"sort"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog/log"

	pkgdb "kinex-backend/pkg/database"
)

//go:embed migrations/postgres/*.up.sql
var postgresMigrations embed.FS

// Migrate apply các file *.up.sql chưa chạy, mỗi file trong một transaction riêng
func (db *PostgresDB) Migrate(ctx context.Context) error {
	if db.Pool == nil {
		return fmt.Errorf("database pool is not initialized")
	}

	if _, err := db.Pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version    TEXT PRIMARY KEY,
			applied_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`); err != nil {
		return fmt.Errorf("create schema_migrations: %w", err)
	}

	files, err := fs.Glob(postgresMigrations, "migrations/postgres/*.up.sql")
	if err != nil {
		return fmt.Errorf("list migrations: %w", err)
	}
	sort.Strings(files)

	for _, file := range files {
		version := strings.TrimSuffix(file[strings.LastIndex(file, "/")+1:], ".up.sql")

		body, err := postgresMigrations.ReadFile(file)
		if err != nil {
			return fmt.Errorf("read migration %s: %w", version, err)
		}

		applied, err := pkgdb.WithTransactionResult(ctx, db.Pool, func(tx pgx.Tx) (bool, error) {
			var exists bool
			if err := tx.QueryRow(ctx,
				`SELECT EXISTS (SELECT 1 FROM schema_migrations WHERE version = $1)`, version,
			).Scan(&exists); err != nil {
				return false, err
			}
			if exists {
				return false, nil
			}
			if _, err := tx.Exec(ctx, string(body)); err != nil {
				return false, err
			}
			if _, err := tx.Exec(ctx, `INSERT INTO schema_migrations (version) VALUES ($1)`, version); err != nil {
				return false, err
			}
			return true, nil
		})
		if err != nil {
			return fmt.Errorf("apply migration %s: %w", version, err)
		}
		if applied {
			log.Info().Str("version", version).Msg("[DATABASE] Migration applied")
		}
	}

	return nil
}
