package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/tickclear/tickclear/internal/service"
)

// NewRouter creates a chi router with all routes registered, request
// logging with per-request ids, and Content-Type validation middleware.
func NewRouter(markets *service.MarketService, logger *slog.Logger) chi.Router {
	r := chi.NewRouter()

	// Global middleware.
	r.Use(requestLogging(logger))

	marketH := NewMarketHandler(markets)

	// Health check.
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	// Market administration and inspection. No order entry over the wire.
	r.Post("/markets", marketH.Register)
	r.Get("/markets", marketH.List)
	r.Get("/markets/{market_id}", marketH.Get)
	r.Get("/markets/{market_id}/book", marketH.Book)
	r.Get("/markets/{market_id}/due", marketH.NextDue)
	r.Post("/markets/{market_id}/clear", marketH.Clear)
	r.Get("/due", marketH.GlobalDue)

	return r
}

// requestLogging returns middleware that tags each request with a uuid and
// logs method, path, status code, and duration using slog. Request ids
// exist only on the HTTP surface; nothing in the engine ever sees them.
func requestLogging(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			reqID := uuid.New().String()
			w.Header().Set("X-Request-Id", reqID)
			ww := &statusWriter{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(ww, r)
			logger.Info("request",
				slog.String("request_id", reqID),
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", ww.status),
				slog.Duration("duration", time.Since(start)),
			)
		})
	}
}

// statusWriter wraps http.ResponseWriter to capture the status code.
type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}
