package httpapi

import (
	"context"
	"errors"
	"net"
	"net/http"

	"go.uber.org/fx"
)

// FXModule provides the Handler and *http.Server and serves the API for the
// lifetime of the application.
var FXModule = fx.Module("httpapi",
	fx.Provide(
		NewHandlerWithDI,
		NewServer,
	),
	fx.Invoke(RegisterServerLifecycle),
)

// HandlerParams groups the dependencies of NewHandlerWithDI.
type HandlerParams struct {
	fx.In

	Config  Config
	Service Service
	Logger  Logger
	Metrics Metrics `optional:"true"`
}

// NewHandlerWithDI is NewHandler for fx.
func NewHandlerWithDI(params HandlerParams) *Handler {
	return NewHandler(params.Config, params.Service, params.Logger, params.Metrics)
}

// RegisterServerLifecycle binds the listener on start, so a taken port fails
// startup, and drains in-flight requests on stop.
func RegisterServerLifecycle(lc fx.Lifecycle, srv *http.Server, logger Logger) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			ln, err := net.Listen("tcp", srv.Addr)
			if err != nil {
				return err
			}
			logger.InfoWithContext(ctx, "Starting HTTP server", nil, map[string]interface{}{
				"address": ln.Addr().String(),
			})
			go func() {
				if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
					logger.ErrorWithContext(context.Background(), "HTTP server stopped unexpectedly", err, nil)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			logger.InfoWithContext(ctx, "Shutting down HTTP server", nil)
			return srv.Shutdown(ctx)
		},
	})
}
