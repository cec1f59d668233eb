package leaderboard

import (
	"context"
	"sync"

	leaderboardservice "github.com/Black-And-White-Club/printboard/app/modules/leaderboard/application"
	leaderboardhandlers "github.com/Black-And-White-Club/printboard/app/modules/leaderboard/infrastructure/handlers"
	leaderboarddb "github.com/Black-And-White-Club/printboard/app/modules/leaderboard/infrastructure/repositories"
	"github.com/Black-And-White-Club/printboard/app/observability"
	"github.com/go-chi/chi/v5"
	"github.com/uptrace/bun"
)

// Module represents the leaderboard module.
type Module struct {
	LeaderboardService leaderboardservice.Service
	handlers           leaderboardhandlers.Handlers
	observability      *observability.Observability
	cancelFunc         context.CancelFunc
}

// NewLeaderboardModule creates a new instance of the Leaderboard module and
// mounts its routes on httpRouter.
func NewLeaderboardModule(
	ctx context.Context,
	obs *observability.Observability,
	db *bun.DB,
	httpRouter chi.Router,
) (*Module, error) {
	logger := obs.Logger
	tracer := obs.Tracer

	logger.InfoContext(ctx, "leaderboard.NewLeaderboardModule called")

	repo := leaderboarddb.NewRepository(db)
	service := leaderboardservice.NewLeaderboardService(repo, logger, obs.Metrics, tracer, db)
	handlers := leaderboardhandlers.NewLeaderboardHandlers(service, logger, tracer)

	if httpRouter != nil {
		handlers.RegisterRoutes(httpRouter)
	}

	return &Module{
		LeaderboardService: service,
		handlers:           handlers,
		observability:      obs,
	}, nil
}

// Run starts the leaderboard module.
func (m *Module) Run(ctx context.Context, wg *sync.WaitGroup) {
	logger := m.observability.Logger
	logger.InfoContext(ctx, "Starting leaderboard module")

	ctx, cancel := context.WithCancel(ctx)
	m.cancelFunc = cancel
	defer cancel()

	if wg != nil {
		defer wg.Done()
	}

	<-ctx.Done()
	logger.InfoContext(ctx, "Leaderboard module goroutine stopped")
}

// Close stops the leaderboard module.
func (m *Module) Close() error {
	m.observability.Logger.Info("Stopping leaderboard module")
	if m.cancelFunc != nil {
		m.cancelFunc()
	}
	return nil
}
