package leaderboardservice

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	leaderboarddb "github.com/Black-And-White-Club/printboard/app/modules/leaderboard/infrastructure/repositories"
	"github.com/Black-And-White-Club/printboard/app/observability"
	"github.com/Black-And-White-Club/printboard/app/observability/attr"
	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const serviceName = "LeaderboardService"

// LeaderboardService implements the Service interface.
type LeaderboardService struct {
	repo    leaderboarddb.Repository
	logger  *slog.Logger
	metrics observability.OperationMetrics
	tracer  trace.Tracer
	db      *bun.DB
}

// NewLeaderboardService creates a new LeaderboardService. A nil db runs
// operations without a transaction, which is what the fakes in tests rely on.
func NewLeaderboardService(
	repo leaderboarddb.Repository,
	logger *slog.Logger,
	metrics observability.OperationMetrics,
	tracer trace.Tracer,
	db *bun.DB,
) *LeaderboardService {
	if logger == nil {
		logger = slog.Default()
	}
	return &LeaderboardService{
		repo:    repo,
		logger:  logger,
		metrics: metrics,
		tracer:  tracer,
		db:      db,
	}
}

// RecordEntry inserts or bumps the named entry and reranks the board.
func (s *LeaderboardService) RecordEntry(ctx context.Context, name string) (RecordOutcome, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return RecordOutcome{}, ErrEmptyName
	}

	return withTelemetry(s, ctx, "RecordEntry", name, func(ctx context.Context) (RecordOutcome, error) {
		return runInTx(s, ctx, func(ctx context.Context, db bun.IDB) (RecordOutcome, error) {
			return s.recordEntryLogic(ctx, db, name)
		})
	})
}

func (s *LeaderboardService) recordEntryLogic(ctx context.Context, db bun.IDB, name string) (RecordOutcome, error) {
	if err := s.repo.LockBoard(ctx, db); err != nil {
		return RecordOutcome{}, err
	}
	created, err := s.repo.InsertIfAbsent(ctx, db, &leaderboarddb.Entry{Name: name})
	if err != nil {
		return RecordOutcome{}, fmt.Errorf("failed to insert entry: %w", err)
	}
	if !created {
		if err := s.repo.Increment(ctx, db, name, 1); err != nil {
			return RecordOutcome{}, fmt.Errorf("failed to increment entry: %w", err)
		}
	}

	if err := s.rerank(ctx, db); err != nil {
		return RecordOutcome{}, err
	}
	return RecordOutcome{Name: name, Created: created}, nil
}

// GetLeaderboard returns all rows ordered by rank.
func (s *LeaderboardService) GetLeaderboard(ctx context.Context) ([]Row, error) {
	return withTelemetry(s, ctx, "GetLeaderboard", "", func(ctx context.Context) ([]Row, error) {
		entries, err := s.repo.ListByRank(ctx, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to get leaderboard: %w", err)
		}
		return toRows(entries), nil
	})
}

// UpdateEntry overwrites the selected fields of one entry and reranks.
func (s *LeaderboardService) UpdateEntry(ctx context.Context, filter EntryFilter, update EntryUpdate) error {
	name := strings.TrimSpace(filter.Name)
	if name == "" {
		return ErrEmptyFilter
	}
	if update.IsEmpty() {
		return ErrEmptyUpdate
	}

	_, err := withTelemetry(s, ctx, "UpdateEntry", name, func(ctx context.Context) (struct{}, error) {
		return runInTx(s, ctx, func(ctx context.Context, db bun.IDB) (struct{}, error) {
			if err := s.repo.LockBoard(ctx, db); err != nil {
				return struct{}{}, err
			}
			if err := s.repo.SetScoreAndCost(ctx, db, name, update.Score, update.Cost); err != nil {
				return struct{}{}, err
			}
			return struct{}{}, s.rerank(ctx, db)
		})
	})
	return err
}

// rerank assigns ranks 1..n in ranking order, writing only changed ranks.
func (s *LeaderboardService) rerank(ctx context.Context, db bun.IDB) error {
	entries, err := s.repo.ListForRanking(ctx, db)
	if err != nil {
		return fmt.Errorf("failed to load entries for ranking: %w", err)
	}
	for i, e := range entries {
		rank := i + 1
		if e.Rank == rank {
			continue
		}
		if err := s.repo.SetRank(ctx, db, e.ID, rank); err != nil {
			return fmt.Errorf("failed to set rank for %q: %w", e.Name, err)
		}
	}
	return nil
}

func toRows(entries []leaderboarddb.Entry) []Row {
	rows := make([]Row, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, Row{Rank: e.Rank, Name: e.Name, Score: e.Score, Cost: e.Cost})
	}
	return rows
}

// isDomainFailure reports errors that describe a bad request rather than a
// broken dependency.
func isDomainFailure(err error) bool {
	return errors.Is(err, leaderboarddb.ErrNotFound) ||
		errors.Is(err, ErrEmptyName) ||
		errors.Is(err, ErrEmptyFilter) ||
		errors.Is(err, ErrEmptyUpdate)
}

// -----------------------------------------------------------------------------
// Generic Helpers (Defined as functions because methods cannot have type params)
// -----------------------------------------------------------------------------

// withTelemetry wraps a service operation with tracing, metrics, and panic recovery.
func withTelemetry[T any](
	s *LeaderboardService,
	ctx context.Context,
	operationName string,
	identifier string,
	op func(ctx context.Context) (T, error),
) (result T, err error) {
	var span trace.Span
	if s.tracer != nil {
		ctx, span = s.tracer.Start(ctx, operationName, trace.WithAttributes(
			attribute.String("operation", operationName),
			attribute.String("identifier", identifier),
		))
	} else {
		span = trace.SpanFromContext(ctx)
	}
	defer span.End()

	if s.metrics != nil {
		s.metrics.RecordOperationAttempt(ctx, operationName, serviceName)
	}

	startTime := time.Now()
	defer func() {
		if s.metrics != nil {
			s.metrics.RecordOperationDuration(ctx, operationName, serviceName, time.Since(startTime))
		}
	}()

	s.logger.InfoContext(ctx, "Operation triggered", attr.ExtractRequestID(ctx), attr.String("operation", operationName))

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic in %s: %v", operationName, r)
			s.logger.ErrorContext(ctx, "Critical panic recovered",
				attr.ExtractRequestID(ctx),
				attr.String("identifier", identifier),
				attr.Error(err),
			)
			if s.metrics != nil {
				s.metrics.RecordOperationFailure(ctx, operationName, serviceName)
			}
			span.RecordError(err)
			var zero T
			result = zero
		}
	}()

	result, err = op(ctx)

	if err != nil {
		if isDomainFailure(err) {
			s.logger.WarnContext(ctx, "Operation returned failure result",
				attr.ExtractRequestID(ctx),
				attr.String("operation", operationName),
				attr.String("identifier", identifier),
				attr.Error(err),
			)
			if s.metrics != nil {
				s.metrics.RecordOperationSuccess(ctx, operationName, serviceName)
			}
			return result, err
		}

		wrappedErr := fmt.Errorf("%s: %w", operationName, err)
		s.logger.ErrorContext(ctx, "Operation failed with error",
			attr.ExtractRequestID(ctx),
			attr.String("operation", operationName),
			attr.String("identifier", identifier),
			attr.Error(wrappedErr),
		)
		if s.metrics != nil {
			s.metrics.RecordOperationFailure(ctx, operationName, serviceName)
		}
		span.RecordError(wrappedErr)
		return result, wrappedErr
	}

	s.logger.InfoContext(ctx, "Operation completed successfully",
		attr.ExtractRequestID(ctx),
		attr.String("operation", operationName),
		attr.String("identifier", identifier),
	)
	if s.metrics != nil {
		s.metrics.RecordOperationSuccess(ctx, operationName, serviceName)
	}
	return result, nil
}

// runInTx ensures the operation runs within a transaction.
func runInTx[T any](
	s *LeaderboardService,
	ctx context.Context,
	fn func(ctx context.Context, db bun.IDB) (T, error),
) (T, error) {
	if s.db == nil {
		return fn(ctx, nil)
	}

	var result T
	err := s.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		var txErr error
		result, txErr = fn(ctx, tx)
		return txErr
	})
	return result, err
}
