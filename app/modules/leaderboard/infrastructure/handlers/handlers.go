package leaderboardhandlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	leaderboardservice "github.com/Black-And-White-Club/printboard/app/modules/leaderboard/application"
	leaderboarddb "github.com/Black-And-White-Club/printboard/app/modules/leaderboard/infrastructure/repositories"
	"github.com/Black-And-White-Club/printboard/app/observability/attr"
	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel/trace"
)

const (
	maxBodyBytes = 1 << 16

	msgInserted = "Data processed and ranks updated successfully"
	msgUpdated  = "Document updated successfully!"
)

// LeaderboardHandlers implements the Handlers interface.
type LeaderboardHandlers struct {
	service leaderboardservice.Service
	logger  *slog.Logger
	tracer  trace.Tracer
}

// NewLeaderboardHandlers creates a new LeaderboardHandlers instance.
func NewLeaderboardHandlers(
	service leaderboardservice.Service,
	logger *slog.Logger,
	tracer trace.Tracer,
) Handlers {
	return &LeaderboardHandlers{
		service: service,
		logger:  logger,
		tracer:  tracer,
	}
}

type insertRequest struct {
	Name string `json:"name"`
}

type updateRequest struct {
	Filter leaderboardservice.EntryFilter `json:"filter"`
	Update leaderboardservice.EntryUpdate `json:"update"`
}

func (h *LeaderboardHandlers) RegisterRoutes(r chi.Router) {
	r.Post("/leaderboardInsert", h.HandleInsert)
	r.Get("/leaderboardRead", h.HandleRead)
	r.Get("/leaderboard", h.HandleRead)
	r.Put("/leaderboardUpdate", h.HandleUpdate)
	r.Get("/leaderboard/export.xlsx", h.HandleExport)
	r.Get("/leaderboard/chart.png", h.HandleChart)
}

// HandleInsert records a leaderboard entry for the posted name.
func (h *LeaderboardHandlers) HandleInsert(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "LeaderboardHandlers.HandleInsert")
	defer span.End()

	var req insertRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.logger.WarnContext(ctx, "Invalid insert payload", attr.ExtractRequestID(ctx), attr.Error(err))
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	outcome, err := h.service.RecordEntry(ctx, req.Name)
	if err != nil {
		if errors.Is(err, leaderboardservice.ErrEmptyName) {
			http.Error(w, "Name is required", http.StatusBadRequest)
			return
		}
		span.RecordError(err)
		h.logger.ErrorContext(ctx, "Failed to record leaderboard entry", attr.ExtractRequestID(ctx), attr.Error(err))
		http.Error(w, "Failed to process data", http.StatusInternalServerError)
		return
	}

	h.logger.InfoContext(ctx, "Leaderboard entry recorded",
		attr.ExtractRequestID(ctx),
		attr.String("name", outcome.Name),
		attr.Bool("created", outcome.Created),
	)
	writeText(w, http.StatusOK, msgInserted)
}

// HandleRead returns the leaderboard as a JSON array ordered by rank.
func (h *LeaderboardHandlers) HandleRead(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "LeaderboardHandlers.HandleRead")
	defer span.End()

	rows, err := h.service.GetLeaderboard(ctx)
	if err != nil {
		span.RecordError(err)
		h.logger.ErrorContext(ctx, "Failed to read leaderboard", attr.ExtractRequestID(ctx), attr.Error(err))
		http.Error(w, "Failed to read leaderboard", http.StatusInternalServerError)
		return
	}
	if rows == nil {
		rows = []leaderboardservice.Row{}
	}
	writeJSON(w, http.StatusOK, rows)
}

// HandleUpdate overwrites score and/or cost of the entry named in the filter.
func (h *LeaderboardHandlers) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "LeaderboardHandlers.HandleUpdate")
	defer span.End()

	var req updateRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.logger.WarnContext(ctx, "Invalid update payload", attr.ExtractRequestID(ctx), attr.Error(err))
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	err := h.service.UpdateEntry(ctx, req.Filter, req.Update)
	switch {
	case err == nil:
		writeText(w, http.StatusOK, msgUpdated)
	case errors.Is(err, leaderboardservice.ErrEmptyFilter), errors.Is(err, leaderboardservice.ErrEmptyUpdate):
		http.Error(w, "Filter and update must be provided", http.StatusBadRequest)
	case errors.Is(err, leaderboarddb.ErrNotFound):
		http.Error(w, "No matching document found", http.StatusNotFound)
	default:
		span.RecordError(err)
		h.logger.ErrorContext(ctx, "Failed to update leaderboard entry", attr.ExtractRequestID(ctx), attr.Error(err))
		http.Error(w, "Failed to update document", http.StatusInternalServerError)
	}
}

// HandleExport serves the leaderboard as an XLSX download.
func (h *LeaderboardHandlers) HandleExport(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "LeaderboardHandlers.HandleExport")
	defer span.End()

	data, err := h.service.ExportWorkbook(ctx)
	if err != nil {
		span.RecordError(err)
		h.logger.ErrorContext(ctx, "Failed to export leaderboard", attr.ExtractRequestID(ctx), attr.Error(err))
		http.Error(w, "Failed to export leaderboard", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="leaderboard.xlsx"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// HandleChart serves the leaderboard bar chart as PNG.
func (h *LeaderboardHandlers) HandleChart(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "LeaderboardHandlers.HandleChart")
	defer span.End()

	data, err := h.service.RenderChart(ctx)
	if err != nil {
		span.RecordError(err)
		h.logger.ErrorContext(ctx, "Failed to render leaderboard chart", attr.ExtractRequestID(ctx), attr.Error(err))
		http.Error(w, "Failed to render chart", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	return json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(v)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeText(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(msg))
}
