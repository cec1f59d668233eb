package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"

	"github.com/Black-And-White-Club/printboard/app/observability/attr"
)

// Start runs the Watermill router, every module and the HTTP server until ctx
// is canceled or the server fails, then shuts everything down.
func (app *App) Start(ctx context.Context) error {
	logger := app.Observability.Logger

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	routerErr := make(chan error, 1)
	go func() {
		if err := app.WatermillRouter.Run(ctx); err != nil {
			routerErr <- err
		}
		close(routerErr)
	}()

	select {
	case <-app.WatermillRouter.Running():
	case err := <-routerErr:
		if err == nil {
			err = errors.New("router exited")
		}
		return fmt.Errorf("watermill router failed to start: %w", err)
	}

	var wg sync.WaitGroup
	wg.Add(2)
	go app.Modules.LeaderboardModule.Run(ctx, &wg)
	go app.Modules.PrintModule.Run(ctx, &wg)

	app.server = &http.Server{
		Addr:              app.Config.HTTP.Addr,
		Handler:           app.handler,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.InfoContext(ctx, "Starting HTTP server", attr.String("addr", app.Config.HTTP.Addr))
		if err := app.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	var runErr error
	select {
	case <-ctx.Done():
		logger.Info("Shutdown signal received")
	case err := <-serverErr:
		runErr = fmt.Errorf("http server failed: %w", err)
	case err, ok := <-routerErr:
		if ok {
			runErr = fmt.Errorf("watermill router stopped: %w", err)
		}
	}

	cancel()
	wg.Wait()

	if err := app.Close(); err != nil && runErr == nil {
		runErr = err
	}
	return runErr
}
