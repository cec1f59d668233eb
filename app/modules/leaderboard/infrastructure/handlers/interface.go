package leaderboardhandlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Handlers serves the leaderboard HTTP API.
type Handlers interface {
	HandleInsert(w http.ResponseWriter, r *http.Request)
	HandleRead(w http.ResponseWriter, r *http.Request)
	HandleUpdate(w http.ResponseWriter, r *http.Request)
	HandleExport(w http.ResponseWriter, r *http.Request)
	HandleChart(w http.ResponseWriter, r *http.Request)

	// RegisterRoutes mounts every leaderboard route on r.
	RegisterRoutes(r chi.Router)
}
