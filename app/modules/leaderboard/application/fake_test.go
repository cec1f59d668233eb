package leaderboardservice

import (
	"context"

	leaderboarddb "github.com/Black-And-White-Club/printboard/app/modules/leaderboard/infrastructure/repositories"
	"github.com/uptrace/bun"
)

// ------------------------
// Fake Leaderboard Repo
// ------------------------

type FakeLeaderboardRepo struct {
	trace []string

	LockBoardFunc       func(ctx context.Context, db bun.IDB) error
	GetByNameFunc       func(ctx context.Context, db bun.IDB, name string) (*leaderboarddb.Entry, error)
	InsertIfAbsentFunc  func(ctx context.Context, db bun.IDB, entry *leaderboarddb.Entry) (bool, error)
	IncrementFunc       func(ctx context.Context, db bun.IDB, name string, delta int) error
	SetScoreAndCostFunc func(ctx context.Context, db bun.IDB, name string, score, cost *int) error
	ListForRankingFunc  func(ctx context.Context, db bun.IDB) ([]leaderboarddb.Entry, error)
	SetRankFunc         func(ctx context.Context, db bun.IDB, id int64, rank int) error
	ListByRankFunc      func(ctx context.Context, db bun.IDB) ([]leaderboarddb.Entry, error)
}

func NewFakeLeaderboardRepo() *FakeLeaderboardRepo {
	return &FakeLeaderboardRepo{
		trace: []string{},
	}
}

func (f *FakeLeaderboardRepo) record(step string) {
	f.trace = append(f.trace, step)
}

// --- Repository Interface Implementation ---

func (f *FakeLeaderboardRepo) LockBoard(ctx context.Context, db bun.IDB) error {
	f.record("LockBoard")
	if f.LockBoardFunc != nil {
		return f.LockBoardFunc(ctx, db)
	}
	return nil
}

func (f *FakeLeaderboardRepo) GetByName(ctx context.Context, db bun.IDB, name string) (*leaderboarddb.Entry, error) {
	f.record("GetByName")
	if f.GetByNameFunc != nil {
		return f.GetByNameFunc(ctx, db, name)
	}
	return nil, leaderboarddb.ErrNotFound
}

func (f *FakeLeaderboardRepo) InsertIfAbsent(ctx context.Context, db bun.IDB, entry *leaderboarddb.Entry) (bool, error) {
	f.record("InsertIfAbsent")
	if f.InsertIfAbsentFunc != nil {
		return f.InsertIfAbsentFunc(ctx, db, entry)
	}
	return true, nil
}

func (f *FakeLeaderboardRepo) Increment(ctx context.Context, db bun.IDB, name string, delta int) error {
	f.record("Increment")
	if f.IncrementFunc != nil {
		return f.IncrementFunc(ctx, db, name, delta)
	}
	return nil
}

func (f *FakeLeaderboardRepo) SetScoreAndCost(ctx context.Context, db bun.IDB, name string, score, cost *int) error {
	f.record("SetScoreAndCost")
	if f.SetScoreAndCostFunc != nil {
		return f.SetScoreAndCostFunc(ctx, db, name, score, cost)
	}
	return nil
}

func (f *FakeLeaderboardRepo) ListForRanking(ctx context.Context, db bun.IDB) ([]leaderboarddb.Entry, error) {
	f.record("ListForRanking")
	if f.ListForRankingFunc != nil {
		return f.ListForRankingFunc(ctx, db)
	}
	return nil, nil
}

func (f *FakeLeaderboardRepo) SetRank(ctx context.Context, db bun.IDB, id int64, rank int) error {
	f.record("SetRank")
	if f.SetRankFunc != nil {
		return f.SetRankFunc(ctx, db, id, rank)
	}
	return nil
}

func (f *FakeLeaderboardRepo) ListByRank(ctx context.Context, db bun.IDB) ([]leaderboarddb.Entry, error) {
	f.record("ListByRank")
	if f.ListByRankFunc != nil {
		return f.ListByRankFunc(ctx, db)
	}
	return nil, nil
}

// --- Accessors for assertions ---

func (f *FakeLeaderboardRepo) Trace() []string {
	out := make([]string, len(f.trace))
	copy(out, f.trace)
	return out
}

// Ensure the fake actually satisfies the interface
var _ leaderboarddb.Repository = (*FakeLeaderboardRepo)(nil)
