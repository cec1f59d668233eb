package leaderboardservice

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	leaderboarddb "github.com/Black-And-White-Club/printboard/app/modules/leaderboard/infrastructure/repositories"
	"github.com/Black-And-White-Club/printboard/app/observability"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel/trace/noop"
)

func newTestService(repo leaderboarddb.Repository) *LeaderboardService {
	return NewLeaderboardService(
		repo,
		slog.New(slog.NewTextHandler(io.Discard, nil)),
		observability.NewNoopMetrics(),
		noop.NewTracerProvider().Tracer("test"),
		nil,
	)
}

func intPtr(v int) *int { return &v }

func TestRecordEntry(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		setupRepo   func(*FakeLeaderboardRepo)
		wantCreated bool
		wantTrace   []string
		wantErr     error
		wantAnyErr  bool
	}{
		{
			name:        "new name is inserted and ranked",
			input:       "203.0.113.7",
			wantCreated: true,
			setupRepo: func(f *FakeLeaderboardRepo) {
				f.ListForRankingFunc = func(ctx context.Context, db bun.IDB) ([]leaderboarddb.Entry, error) {
					return []leaderboarddb.Entry{{ID: 1, Name: "203.0.113.7"}}, nil
				}
			},
			wantTrace: []string{"LockBoard", "InsertIfAbsent", "ListForRanking", "SetRank"},
		},
		{
			name:  "existing name is incremented",
			input: "203.0.113.7",
			setupRepo: func(f *FakeLeaderboardRepo) {
				f.InsertIfAbsentFunc = func(ctx context.Context, db bun.IDB, entry *leaderboarddb.Entry) (bool, error) {
					return false, nil
				}
				f.IncrementFunc = func(ctx context.Context, db bun.IDB, name string, delta int) error {
					if delta != 1 {
						return errors.New("unexpected delta")
					}
					return nil
				}
				f.ListForRankingFunc = func(ctx context.Context, db bun.IDB) ([]leaderboarddb.Entry, error) {
					return []leaderboarddb.Entry{{ID: 1, Name: "203.0.113.7", Rank: 1}}, nil
				}
			},
			wantTrace: []string{"LockBoard", "InsertIfAbsent", "Increment", "ListForRanking"},
		},
		{
			name:      "blank name is rejected before touching the repo",
			input:     "   ",
			wantErr:   ErrEmptyName,
			wantTrace: []string{},
		},
		{
			name:  "insert failure is reported",
			input: "203.0.113.7",
			setupRepo: func(f *FakeLeaderboardRepo) {
				f.InsertIfAbsentFunc = func(ctx context.Context, db bun.IDB, entry *leaderboarddb.Entry) (bool, error) {
					return false, errors.New("db down")
				}
			},
			wantAnyErr: true,
			wantTrace:  []string{"LockBoard", "InsertIfAbsent"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fakeRepo := NewFakeLeaderboardRepo()
			if tt.setupRepo != nil {
				tt.setupRepo(fakeRepo)
			}
			svc := newTestService(fakeRepo)

			outcome, err := svc.RecordEntry(context.Background(), tt.input)

			switch {
			case tt.wantErr != nil:
				assert.ErrorIs(t, err, tt.wantErr)
			case tt.wantAnyErr:
				assert.Error(t, err)
				assert.Contains(t, err.Error(), "RecordEntry")
			default:
				require.NoError(t, err)
				assert.Equal(t, tt.wantCreated, outcome.Created)
				assert.Equal(t, tt.input, outcome.Name)
			}
			assert.Equal(t, tt.wantTrace, fakeRepo.Trace())
		})
	}
}

func TestRerankOnlyWritesChangedRanks(t *testing.T) {
	fakeRepo := NewFakeLeaderboardRepo()
	fakeRepo.ListForRankingFunc = func(ctx context.Context, db bun.IDB) ([]leaderboarddb.Entry, error) {
		return []leaderboarddb.Entry{
			{ID: 3, Name: "c", Score: 5, Rank: 3},
			{ID: 1, Name: "a", Score: 2, Rank: 2},
			{ID: 2, Name: "b", Score: 1, Rank: 1},
		}, nil
	}
	got := map[int64]int{}
	fakeRepo.SetRankFunc = func(ctx context.Context, db bun.IDB, id int64, rank int) error {
		got[id] = rank
		return nil
	}

	require.NoError(t, newTestService(fakeRepo).rerank(context.Background(), nil))
	assert.Equal(t, map[int64]int{3: 1, 2: 3}, got)
}

func TestGetLeaderboard(t *testing.T) {
	fakeRepo := NewFakeLeaderboardRepo()
	fakeRepo.ListByRankFunc = func(ctx context.Context, db bun.IDB) ([]leaderboarddb.Entry, error) {
		return []leaderboarddb.Entry{
			{ID: 2, Name: "b", Score: 4, Cost: 4, Rank: 1},
			{ID: 1, Name: "a", Score: 0, Cost: 0, Rank: 2},
		}, nil
	}

	rows, err := newTestService(fakeRepo).GetLeaderboard(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []Row{
		{Rank: 1, Name: "b", Score: 4, Cost: 4},
		{Rank: 2, Name: "a", Score: 0, Cost: 0},
	}, rows)
}

func TestGetLeaderboard_EmptyIsNotNil(t *testing.T) {
	rows, err := newTestService(NewFakeLeaderboardRepo()).GetLeaderboard(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, rows)
	assert.Empty(t, rows)
}

func TestUpdateEntry(t *testing.T) {
	tests := []struct {
		name      string
		filter    EntryFilter
		update    EntryUpdate
		setupRepo func(*FakeLeaderboardRepo)
		wantErr   error
		wantTrace []string
	}{
		{
			name:      "updates and reranks",
			filter:    EntryFilter{Name: "alice"},
			update:    EntryUpdate{Score: intPtr(10)},
			wantTrace: []string{"LockBoard", "SetScoreAndCost", "ListForRanking"},
		},
		{
			name:      "empty filter",
			update:    EntryUpdate{Score: intPtr(1)},
			wantErr:   ErrEmptyFilter,
			wantTrace: []string{},
		},
		{
			name:      "empty update",
			filter:    EntryFilter{Name: "alice"},
			wantErr:   ErrEmptyUpdate,
			wantTrace: []string{},
		},
		{
			name:   "no match",
			filter: EntryFilter{Name: "ghost"},
			update: EntryUpdate{Cost: intPtr(2)},
			setupRepo: func(f *FakeLeaderboardRepo) {
				f.SetScoreAndCostFunc = func(ctx context.Context, db bun.IDB, name string, score, cost *int) error {
					return leaderboarddb.ErrNotFound
				}
			},
			wantErr:   leaderboarddb.ErrNotFound,
			wantTrace: []string{"LockBoard", "SetScoreAndCost"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fakeRepo := NewFakeLeaderboardRepo()
			if tt.setupRepo != nil {
				tt.setupRepo(fakeRepo)
			}

			err := newTestService(fakeRepo).UpdateEntry(context.Background(), tt.filter, tt.update)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.wantTrace, fakeRepo.Trace())
		})
	}
}

func TestWithTelemetry_RecoversPanic(t *testing.T) {
	fakeRepo := NewFakeLeaderboardRepo()
	fakeRepo.ListByRankFunc = func(ctx context.Context, db bun.IDB) ([]leaderboarddb.Entry, error) {
		panic("boom")
	}

	rows, err := newTestService(fakeRepo).GetLeaderboard(context.Background())
	assert.Nil(t, rows)
	assert.ErrorContains(t, err, "panic in GetLeaderboard")
}
