// Package bundb opens the bun database behind the leaderboard, either
// Postgres or an embedded SQLite file, and applies schema migrations.
package bundb

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"

	leaderboardmigrations "github.com/Black-And-White-Club/printboard/app/modules/leaderboard/infrastructure/repositories/migrations"
	"github.com/Black-And-White-Club/printboard/config"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/migrate"

	_ "modernc.org/sqlite"
)

// Open connects to the database named by cfg.DSN. postgres:// and
// postgresql:// DSNs use pgdriver; anything else is handed to SQLite.
func Open(ctx context.Context, cfg config.PostgresConfig) (*bun.DB, error) {
	if isPostgres(cfg.DSN) {
		sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(cfg.DSN)))
		if err := sqldb.PingContext(ctx); err != nil {
			_ = sqldb.Close()
			return nil, fmt.Errorf("failed to ping database: %w", err)
		}
		return BunDB(sqldb), nil
	}

	return OpenSQLite(ctx, cfg.DSN)
}

// BunDB wraps an already opened Postgres connection pool.
func BunDB(sqldb *sql.DB) *bun.DB {
	return bun.NewDB(sqldb, pgdialect.New())
}

// OpenSQLite opens an SQLite database. ":memory:" gives a private in-memory
// database, which is what the repository tests use.
func OpenSQLite(ctx context.Context, dsn string) (*bun.DB, error) {
	sqldb, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}
	// SQLite has a single writer, and an in-memory database lives on one connection.
	sqldb.SetMaxOpenConns(1)

	if err := sqldb.PingContext(ctx); err != nil {
		_ = sqldb.Close()
		return nil, fmt.Errorf("failed to ping sqlite database: %w", err)
	}
	return bun.NewDB(sqldb, sqlitedialect.New()), nil
}

// Migrate creates the migration tables if needed and applies every pending
// leaderboard migration.
func Migrate(ctx context.Context, db *bun.DB, logger *slog.Logger) error {
	migrator := migrate.NewMigrator(db, leaderboardmigrations.Migrations)
	if err := migrator.Init(ctx); err != nil {
		return fmt.Errorf("failed to init migrations: %w", err)
	}

	group, err := migrator.Migrate(ctx)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	if group.IsZero() {
		logger.InfoContext(ctx, "No new migrations to run")
	} else {
		logger.InfoContext(ctx, "Migrated database", slog.String("group", group.String()))
	}
	return nil
}

func isPostgres(dsn string) bool {
	return strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://")
}
