package printhandlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	printservice "github.com/Black-And-White-Club/printboard/app/modules/print/application"
	"github.com/Black-And-White-Club/printboard/app/observability"
	"github.com/Black-And-White-Club/printboard/app/observability/attr"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel/trace"
)

const (
	maxBodyBytes = 1 << 16

	msgPrintInitiated = "Print job initiated successfully"
)

// Handlers serves the print HTTP endpoint and consumes print jobs.
type Handlers interface {
	HandleSendPrint(w http.ResponseWriter, r *http.Request)
	HandlePrintJobRequested(msg *message.Message) error
	RegisterRoutes(r chi.Router)
}

// PrintHandlers implements Handlers.
type PrintHandlers struct {
	service printservice.Service
	printer printservice.Printer
	logger  *slog.Logger
	tracer  trace.Tracer
	metrics observability.PrintMetrics
}

// NewPrintHandlers creates a new PrintHandlers instance.
func NewPrintHandlers(
	service printservice.Service,
	printer printservice.Printer,
	logger *slog.Logger,
	tracer trace.Tracer,
	metrics observability.PrintMetrics,
) Handlers {
	return &PrintHandlers{
		service: service,
		printer: printer,
		logger:  logger,
		tracer:  tracer,
		metrics: metrics,
	}
}

type sendPrintRequest struct {
	Message string `json:"message"`
}

func (h *PrintHandlers) RegisterRoutes(r chi.Router) {
	r.Post("/sendPrint", h.HandleSendPrint)
}

// HandleSendPrint publishes a print job for the posted message.
func (h *PrintHandlers) HandleSendPrint(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "PrintHandlers.HandleSendPrint")
	defer span.End()

	var req sendPrintRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		h.logger.WarnContext(ctx, "Invalid print payload", attr.ExtractRequestID(ctx), attr.Error(err))
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if _, err := h.service.DispatchPrint(ctx, req.Message); err != nil {
		if errors.Is(err, printservice.ErrPublishFailed) {
			http.Error(w, "Print queue unavailable", http.StatusServiceUnavailable)
			return
		}
		http.Error(w, "Failed to initiate print job", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(msgPrintInitiated))
}

// HandlePrintJobRequested runs the printer for one PrintJobRequestedV1
// message. Malformed payloads and printer failures are logged and acked so
// they are never redelivered.
func (h *PrintHandlers) HandlePrintJobRequested(msg *message.Message) error {
	ctx, span := h.tracer.Start(msg.Context(), "PrintHandlers.HandlePrintJobRequested")
	defer span.End()

	logger := h.logger.With(
		attr.String("message_id", msg.UUID),
		attr.String("correlation_id", middleware.MessageCorrelationID(msg)),
	)

	var job printservice.PrintJob
	if err := json.Unmarshal(msg.Payload, &job); err != nil {
		logger.WarnContext(ctx, "Dropping malformed print job", attr.Error(err))
		h.metrics.RecordPrintJob(ctx, printservice.OutcomeMalformed)
		return nil
	}

	if err := h.printer.Print(ctx, job); err != nil {
		span.RecordError(err)
		logger.ErrorContext(ctx, "Printer failed", attr.String("job_id", job.ID.String()), attr.Error(err))
		h.metrics.RecordPrintJob(ctx, printservice.OutcomePrintFailed)
		return nil
	}

	h.metrics.RecordPrintJob(ctx, printservice.OutcomePrinted)
	return nil
}
