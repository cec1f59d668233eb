package app

import (
	"log/slog"
	"net/http"
	"time"

	authhandlers "github.com/Black-And-White-Club/printboard/app/modules/auth/infrastructure/handlers"
	"github.com/Black-And-White-Club/printboard/app/modules/image"
	"github.com/Black-And-White-Club/printboard/app/observability"
	"github.com/Black-And-White-Club/printboard/app/observability/attr"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/time/rate"
)

// newHTTPRouter returns the root router and the API-key protected sub-router
// modules mount their routes on.
func (app *App) newHTTPRouter() (chi.Router, chi.Router) {
	cfg := app.Config
	logger := app.Observability.Logger

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(logger))
	r.Use(middleware.Recoverer)
	r.Use(app.Observability.Metrics.HTTPMiddleware)
	r.Use(authhandlers.CORSMiddleware(cfg.HTTP.AllowedOrigins))
	r.Use(authhandlers.RateLimitMiddleware(
		authhandlers.NewIPRateLimiter(rate.Limit(cfg.HTTP.RateLimit), cfg.HTTP.RateBurst),
	))

	r.Get("/healthz", app.handleHealth)
	r.Method(http.MethodGet, "/metrics", observability.Handler(app.Observability.Registry))
	image.NewHandler(cfg.Image.URL, logger).RegisterRoutes(r)

	keyed := r.With(authhandlers.APIKeyMiddleware(cfg.APIKeys(), logger))
	return r, keyed
}

func (app *App) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := app.DB.PingContext(r.Context()); err != nil {
		app.Observability.Logger.WarnContext(r.Context(), "Health check failed", attr.Error(err))
		http.Error(w, "database unavailable", http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok"))
}

func requestLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			logger.DebugContext(r.Context(), "HTTP request",
				attr.ExtractRequestID(r.Context()),
				attr.String("method", r.Method),
				attr.String("path", r.URL.Path),
				attr.Int("status", ww.Status()),
				attr.Int("bytes", ww.BytesWritten()),
				attr.Duration("duration", time.Since(start)),
			)
		})
	}
}
