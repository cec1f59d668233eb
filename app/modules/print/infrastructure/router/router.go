package printrouter

import (
	"context"
	"log/slog"

	printservice "github.com/Black-And-White-Club/printboard/app/modules/print/application"
	printhandlers "github.com/Black-And-White-Club/printboard/app/modules/print/infrastructure/handlers"
	"github.com/ThreeDotsLabs/watermill/components/metrics"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
	"github.com/prometheus/client_golang/prometheus"
)

// PrintRouter binds print topics to their handlers on a watermill router.
type PrintRouter struct {
	logger         *slog.Logger
	Router         *message.Router
	subscriber     message.Subscriber
	metricsBuilder *metrics.PrometheusMetricsBuilder
}

// NewPrintRouter creates a new PrintRouter. A nil registry disables router
// metrics.
func NewPrintRouter(
	logger *slog.Logger,
	router *message.Router,
	subscriber message.Subscriber,
	prometheusRegistry prometheus.Registerer,
) *PrintRouter {
	var metricsBuilder *metrics.PrometheusMetricsBuilder
	if prometheusRegistry != nil {
		builder := metrics.NewPrometheusMetricsBuilder(prometheusRegistry, "", "")
		metricsBuilder = &builder
	}

	return &PrintRouter{
		logger:         logger,
		Router:         router,
		subscriber:     subscriber,
		metricsBuilder: metricsBuilder,
	}
}

// Configure sets up the middlewares and registers the print handlers.
func (r *PrintRouter) Configure(ctx context.Context, handlers printhandlers.Handlers) error {
	if r.metricsBuilder != nil {
		r.logger.InfoContext(ctx, "Adding Prometheus router metrics middleware for Print")
		r.metricsBuilder.AddPrometheusRouterMetrics(r.Router)
	}

	r.Router.AddMiddleware(
		middleware.CorrelationID,
		middleware.Recoverer,
	)

	return r.RegisterHandlers(ctx, handlers)
}

// RegisterHandlers binds print topics to their handlers.
func (r *PrintRouter) RegisterHandlers(ctx context.Context, handlers printhandlers.Handlers) error {
	r.logger.InfoContext(ctx, "Registering Print Event Handlers")

	r.Router.AddNoPublisherHandler(
		"print."+printservice.PrintJobRequestedV1,
		printservice.PrintJobRequestedV1,
		r.subscriber,
		handlers.HandlePrintJobRequested,
	)
	return nil
}

// Close stops the router.
func (r *PrintRouter) Close() error {
	return r.Router.Close()
}
