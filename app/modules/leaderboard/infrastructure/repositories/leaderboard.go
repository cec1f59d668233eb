package leaderboarddb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect"
)

// boardLockKey is the Postgres advisory lock taken by board writers.
const boardLockKey = 0x70726e74

// Impl implements the Repository interface using Bun ORM.
type Impl struct {
	db bun.IDB
}

// NewRepository creates a new leaderboard repository.
func NewRepository(db bun.IDB) Repository {
	return &Impl{db: db}
}

// resolveDB returns the provided db handle, falling back to the repository's
// default connection if db is nil.
func (r *Impl) resolveDB(db bun.IDB) bun.IDB {
	if db == nil {
		return r.db
	}
	return db
}

// LockBoard takes a transaction-scoped advisory lock on Postgres. SQLite runs
// on a single connection, so writers are already serialized there.
func (r *Impl) LockBoard(ctx context.Context, db bun.IDB) error {
	db = r.resolveDB(db)
	if db.Dialect().Name() != dialect.PG {
		return nil
	}
	if _, err := db.ExecContext(ctx, "SELECT pg_advisory_xact_lock(?)", boardLockKey); err != nil {
		return fmt.Errorf("failed to lock leaderboard: %w", err)
	}
	return nil
}

func (r *Impl) GetByName(ctx context.Context, db bun.IDB, name string) (*Entry, error) {
	db = r.resolveDB(db)
	entry := new(Entry)
	err := db.NewSelect().
		Model(entry).
		Where("name = ?", name).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get leaderboard entry: %w", err)
	}
	return entry, nil
}

func (r *Impl) InsertIfAbsent(ctx context.Context, db bun.IDB, entry *Entry) (bool, error) {
	db = r.resolveDB(db)
	now := time.Now().UTC()
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = now
	}
	entry.UpdatedAt = now

	res, err := db.NewInsert().
		Model(entry).
		On("CONFLICT (name) DO NOTHING").
		Returning("NULL").
		Exec(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to insert leaderboard entry: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return rows > 0, nil
}

func (r *Impl) Increment(ctx context.Context, db bun.IDB, name string, delta int) error {
	db = r.resolveDB(db)
	res, err := db.NewUpdate().
		Model((*Entry)(nil)).
		Set("score = score + ?", delta).
		Set("cost = cost + ?", delta).
		Set("updated_at = ?", time.Now().UTC()).
		Where("name = ?", name).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to increment leaderboard entry: %w", err)
	}
	return requireRows(res, ErrNotFound)
}

func (r *Impl) SetScoreAndCost(ctx context.Context, db bun.IDB, name string, score, cost *int) error {
	db = r.resolveDB(db)
	q := db.NewUpdate().
		Model((*Entry)(nil)).
		Set("updated_at = ?", time.Now().UTC()).
		Where("name = ?", name)
	if score != nil {
		q = q.Set("score = ?", *score)
	}
	if cost != nil {
		q = q.Set("cost = ?", *cost)
	}

	res, err := q.Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to update leaderboard entry: %w", err)
	}
	return requireRows(res, ErrNotFound)
}

func (r *Impl) ListForRanking(ctx context.Context, db bun.IDB) ([]Entry, error) {
	db = r.resolveDB(db)
	var entries []Entry
	err := db.NewSelect().
		Model(&entries).
		OrderExpr("score DESC").
		OrderExpr("created_at ASC").
		OrderExpr("id ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list entries for ranking: %w", err)
	}
	return entries, nil
}

func (r *Impl) SetRank(ctx context.Context, db bun.IDB, id int64, rank int) error {
	db = r.resolveDB(db)
	res, err := db.NewUpdate().
		Model((*Entry)(nil)).
		Set("? = ?", bun.Ident("rank"), rank).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to set rank: %w", err)
	}
	return requireRows(res, ErrNoRowsAffected)
}

func (r *Impl) ListByRank(ctx context.Context, db bun.IDB) ([]Entry, error) {
	db = r.resolveDB(db)
	var entries []Entry
	err := db.NewSelect().
		Model(&entries).
		OrderExpr("? ASC", bun.Ident("rank")).
		OrderExpr("id ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list leaderboard: %w", err)
	}
	return entries, nil
}

func requireRows(res sql.Result, notFound error) error {
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return notFound
	}
	return nil
}
