package printservice

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/Black-And-White-Club/printboard/app/observability"
	"github.com/Black-And-White-Club/printboard/app/observability/attr"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const serviceName = "PrintService"

// Metrics is what PrintService records.
type Metrics interface {
	observability.OperationMetrics
	observability.PrintMetrics
}

// PrintService publishes print jobs to the event bus.
type PrintService struct {
	publisher message.Publisher
	logger    *slog.Logger
	metrics   Metrics
	tracer    trace.Tracer
	now       func() time.Time
}

// NewPrintService creates a new PrintService.
func NewPrintService(
	publisher message.Publisher,
	logger *slog.Logger,
	metrics Metrics,
	tracer trace.Tracer,
) *PrintService {
	return &PrintService{
		publisher: publisher,
		logger:    logger,
		metrics:   metrics,
		tracer:    tracer,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// DispatchPrint publishes a PrintJob carrying message.
func (s *PrintService) DispatchPrint(ctx context.Context, msg string) (job PrintJob, err error) {
	const operation = "DispatchPrint"

	ctx, span := s.tracer.Start(ctx, serviceName+"."+operation)
	defer span.End()

	s.metrics.RecordOperationAttempt(ctx, operation, serviceName)
	start := time.Now()
	defer func() {
		s.metrics.RecordOperationDuration(ctx, operation, serviceName, time.Since(start))
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			s.metrics.RecordOperationFailure(ctx, operation, serviceName)
			s.metrics.RecordPrintJob(ctx, OutcomePublishFailed)
			return
		}
		s.metrics.RecordOperationSuccess(ctx, operation, serviceName)
		s.metrics.RecordPrintJob(ctx, OutcomeDispatched)
	}()

	job = PrintJob{
		ID:          uuid.New(),
		Message:     msg,
		RequestedAt: s.now(),
	}

	payload, err := json.Marshal(job)
	if err != nil {
		return PrintJob{}, fmt.Errorf("failed to marshal print job: %w", err)
	}

	wm := message.NewMessage(job.ID.String(), payload)
	if reqID := attr.ExtractRequestID(ctx).Value.String(); reqID != "" {
		middleware.SetCorrelationID(reqID, wm)
	}

	if err := s.publisher.Publish(PrintJobRequestedV1, wm); err != nil {
		s.logger.ErrorContext(ctx, "Failed to publish print job",
			attr.String("job_id", job.ID.String()),
			attr.Error(err),
		)
		return PrintJob{}, fmt.Errorf("%w: %w", ErrPublishFailed, err)
	}

	s.logger.InfoContext(ctx, "Print job dispatched",
		attr.String("job_id", job.ID.String()),
		attr.ExtractRequestID(ctx),
	)
	return job, nil
}
