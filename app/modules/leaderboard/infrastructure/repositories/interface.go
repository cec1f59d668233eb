package leaderboarddb

import (
	"context"

	"github.com/uptrace/bun"
)

// Repository defines the contract for leaderboard persistence. Every method
// takes an optional bun.IDB so callers can run it inside a transaction; nil
// selects the repository's own connection.
type Repository interface {
	// LockBoard serializes board writers for the rest of the transaction.
	LockBoard(ctx context.Context, db bun.IDB) error

	// GetByName returns the entry for name or ErrNotFound.
	GetByName(ctx context.Context, db bun.IDB, name string) (*Entry, error)

	// InsertIfAbsent inserts entry unless its name already exists. It reports
	// whether a row was written.
	InsertIfAbsent(ctx context.Context, db bun.IDB, entry *Entry) (bool, error)

	// Increment adds delta to both score and cost of the named entry.
	Increment(ctx context.Context, db bun.IDB, name string, delta int) error

	// SetScoreAndCost overwrites the given fields of the named entry. Nil
	// fields are left unchanged.
	SetScoreAndCost(ctx context.Context, db bun.IDB, name string, score, cost *int) error

	// ListForRanking returns all entries in ranking order: score descending,
	// then oldest first.
	ListForRanking(ctx context.Context, db bun.IDB) ([]Entry, error)

	// SetRank stores the rank of a single entry.
	SetRank(ctx context.Context, db bun.IDB, id int64, rank int) error

	// ListByRank returns all entries ordered by stored rank.
	ListByRank(ctx context.Context, db bun.IDB) ([]Entry, error)
}
