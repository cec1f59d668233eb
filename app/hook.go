package app

import (
	"context"
	"errors"
	"fmt"
	"time"
)

const readHeaderTimeout = 5 * time.Second

// Close stops the HTTP server, the Watermill router and the modules, then
// closes the event bus, the database and flushes telemetry.
func (app *App) Close() error {
	logger := app.Observability.Logger
	logger.Info("Shutting down application")

	ctx, cancel := context.WithTimeout(context.Background(), app.Config.HTTP.ShutdownTimeout)
	defer cancel()

	var errs []error

	if app.server != nil {
		if err := app.server.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("failed to shut down HTTP server: %w", err))
		}
	}

	if app.WatermillRouter != nil {
		if err := app.WatermillRouter.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close Watermill router: %w", err))
		}
	}

	if app.Modules != nil {
		if m := app.Modules.PrintModule; m != nil {
			_ = m.Close()
		}
		if m := app.Modules.LeaderboardModule; m != nil {
			_ = m.Close()
		}
	}

	if app.EventBus != nil {
		if err := app.EventBus.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close event bus: %w", err))
		}
	}

	if app.DB != nil {
		if err := app.DB.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close database: %w", err))
		}
	}

	if err := app.Observability.Shutdown(ctx); err != nil {
		errs = append(errs, fmt.Errorf("failed to shut down telemetry: %w", err))
	}

	logger.Info("Application shut down")
	return errors.Join(errs...)
}
