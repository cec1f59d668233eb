// Package image serves the URL of the preview image shown before printing.
package image

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Response is the body of GET /getImage.
type Response struct {
	ImageURL string `json:"imageUrl"`
}

// Handler serves the configured image URL.
type Handler struct {
	url    string
	logger *slog.Logger
}

// NewHandler returns a Handler for url.
func NewHandler(url string, logger *slog.Logger) *Handler {
	return &Handler{url: url, logger: logger}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/getImage", h.HandleGetImage)
}

// HandleGetImage responds with the configured image URL, or 404 when none is set.
func (h *Handler) HandleGetImage(w http.ResponseWriter, r *http.Request) {
	if h.url == "" {
		h.logger.DebugContext(r.Context(), "Image requested but none configured")
		http.Error(w, "No image configured", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(Response{ImageURL: h.url})
}
