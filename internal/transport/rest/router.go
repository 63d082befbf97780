package rest

import (
	"log/slog"
	"net/http"

	"github.com/heartmarshall/translation-desk/internal/transport/middleware"
)

// NewOpsHandler mounts /metrics, /live, /ready and /health behind the
// request-id, logging and recovery middleware.
func NewOpsHandler(logger *slog.Logger, metrics http.Handler, health *HealthHandler) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("GET /metrics", metrics)
	mux.HandleFunc("GET /live", health.Live)
	mux.HandleFunc("GET /ready", health.Ready)
	mux.HandleFunc("GET /health", health.Health)

	log := logger.With("transport", "ops")
	return middleware.Wrap(mux,
		middleware.RequestID,
		middleware.Logger(log),
		middleware.Recovery(log),
	)
}
