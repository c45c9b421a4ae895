package logger

import (
	"context"

	"go.uber.org/fx"
)

// FXModule provides *Logger built from a logger.Config in the container and
// flushes it when the application stops.
//
//	app := fx.New(
//	    config.FXModule(cfg),
//	    logger.FXModule,
//	)
var FXModule = fx.Module("logger",
	fx.Provide(
		NewLoggerClient,
	),
	fx.Invoke(RegisterLoggerLifecycle),
)

// RegisterLoggerLifecycle syncs the zap logger on shutdown so buffered entries are not lost.
func RegisterLoggerLifecycle(lc fx.Lifecycle, client *Logger) {
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			// Sync on stderr returns EINVAL on some platforms; nothing useful can be done with it.
			_ = client.Zap.Sync()
			return nil
		},
	})
}
