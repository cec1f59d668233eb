package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/Black-And-White-Club/printboard/app/eventbus"
	"github.com/Black-And-White-Club/printboard/app/modules/leaderboard"
	printmodule "github.com/Black-And-White-Club/printboard/app/modules/print"
	"github.com/Black-And-White-Club/printboard/app/observability"
	"github.com/Black-And-White-Club/printboard/config"
	"github.com/Black-And-White-Club/printboard/db/bundb"
	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/uptrace/bun"
)

// App holds every long-lived component of the printboard server.
type App struct {
	Config          *config.Config
	Observability   *observability.Observability
	DB              *bun.DB
	EventBus        *eventbus.EventBus
	WatermillRouter *message.Router
	Modules         *Modules

	handler http.Handler
	server  *http.Server
}

// Modules groups the application modules.
type Modules struct {
	LeaderboardModule *leaderboard.Module
	PrintModule       *printmodule.Module
}

// NewApp opens the database and event bus, builds every module and the HTTP
// router. Components opened before a failure are closed again.
func NewApp(ctx context.Context, cfg *config.Config, obs *observability.Observability) (*App, error) {
	logger := obs.Logger

	db, err := bundb.Open(ctx, cfg.Postgres)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if cfg.Postgres.AutoMigrate {
		if err := bundb.Migrate(ctx, db, logger); err != nil {
			_ = db.Close()
			return nil, err
		}
	}

	bus, err := eventbus.New(ctx, cfg, logger)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create event bus: %w", err)
	}

	app, err := newApp(ctx, cfg, obs, db, bus)
	if err != nil {
		_ = bus.Close()
		_ = db.Close()
		return nil, err
	}
	return app, nil
}

func newApp(
	ctx context.Context,
	cfg *config.Config,
	obs *observability.Observability,
	db *bun.DB,
	bus *eventbus.EventBus,
) (*App, error) {
	router, err := message.NewRouter(message.RouterConfig{
		CloseTimeout: 30 * time.Second,
	}, watermill.NewSlogLogger(obs.Logger))
	if err != nil {
		return nil, fmt.Errorf("failed to create Watermill router: %w", err)
	}

	app := &App{
		Config:          cfg,
		Observability:   obs,
		DB:              db,
		EventBus:        bus,
		WatermillRouter: router,
		Modules:         &Modules{},
	}

	if err := app.initializeModules(ctx); err != nil {
		_ = router.Close()
		return nil, err
	}
	return app, nil
}

func (app *App) initializeModules(ctx context.Context) error {
	httpRouter, keyed := app.newHTTPRouter()

	leaderboardModule, err := leaderboard.NewLeaderboardModule(ctx, app.Observability, app.DB, keyed)
	if err != nil {
		return fmt.Errorf("failed to initialize leaderboard module: %w", err)
	}
	app.Modules.LeaderboardModule = leaderboardModule

	printModule, err := printmodule.NewPrintModule(ctx, app.Observability, app.EventBus, app.WatermillRouter, keyed, nil)
	if err != nil {
		return fmt.Errorf("failed to initialize print module: %w", err)
	}
	app.Modules.PrintModule = printModule

	app.handler = httpRouter
	return nil
}

// Handler returns the root HTTP handler.
func (app *App) Handler() http.Handler {
	return app.handler
}
