package httpapi

import (
	"net/http"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// NewServer returns the API server. Incoming requests get a server span and
// trace context is extracted from request headers.
func NewServer(cfg Config, h *Handler) *http.Server {
	return &http.Server{
		Addr:         cfg.Address,
		Handler:      otelhttp.NewHandler(h.Router(), "todoapi"),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}
}
