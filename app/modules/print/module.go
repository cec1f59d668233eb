package print

import (
	"context"
	"fmt"
	"sync"

	printservice "github.com/Black-And-White-Club/printboard/app/modules/print/application"
	printhandlers "github.com/Black-And-White-Club/printboard/app/modules/print/infrastructure/handlers"
	printrouter "github.com/Black-And-White-Club/printboard/app/modules/print/infrastructure/router"
	"github.com/Black-And-White-Club/printboard/app/observability"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/go-chi/chi/v5"
)

// Module represents the print module.
type Module struct {
	PrintService  printservice.Service
	PrintRouter   *printrouter.PrintRouter
	observability *observability.Observability
	cancelFunc    context.CancelFunc
}

// Bus is the publisher/subscriber pair print jobs travel over.
type Bus interface {
	message.Publisher
	message.Subscriber
}

// NewPrintModule creates the print module, registers its watermill handlers
// on router and mounts its HTTP routes on httpRouter. A nil printer defaults
// to a LogPrinter.
func NewPrintModule(
	ctx context.Context,
	obs *observability.Observability,
	bus Bus,
	router *message.Router,
	httpRouter chi.Router,
	printer printservice.Printer,
) (*Module, error) {
	logger := obs.Logger
	tracer := obs.Tracer

	logger.InfoContext(ctx, "print.NewPrintModule called")

	if printer == nil {
		printer = printservice.NewLogPrinter(logger)
	}

	service := printservice.NewPrintService(bus, logger, obs.Metrics, tracer)
	handlers := printhandlers.NewPrintHandlers(service, printer, logger, tracer, obs.Metrics)

	printRouter := printrouter.NewPrintRouter(logger, router, bus, obs.Registry)
	if err := printRouter.Configure(ctx, handlers); err != nil {
		return nil, fmt.Errorf("failed to configure print router: %w", err)
	}

	if httpRouter != nil {
		handlers.RegisterRoutes(httpRouter)
	}

	return &Module{
		PrintService:  service,
		PrintRouter:   printRouter,
		observability: obs,
	}, nil
}

// Run starts the print module.
func (m *Module) Run(ctx context.Context, wg *sync.WaitGroup) {
	logger := m.observability.Logger
	logger.InfoContext(ctx, "Starting print module")

	ctx, cancel := context.WithCancel(ctx)
	m.cancelFunc = cancel
	defer cancel()

	if wg != nil {
		defer wg.Done()
	}

	<-ctx.Done()
	logger.InfoContext(ctx, "Print module goroutine stopped")
}

// Close stops the print module.
func (m *Module) Close() error {
	m.observability.Logger.Info("Stopping print module")
	if m.cancelFunc != nil {
		m.cancelFunc()
	}
	return nil
}
