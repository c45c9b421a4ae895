// Command todoapi serves the todo REST API.
//
// Configuration comes from the environment and an optional .env file; see
// package config. STORAGE_DRIVER selects memory, postgres, sqlite or mariadb storage.
// Todo events are published to every enabled sink: KAFKA_ENABLED,
// RABBITMQ_ENABLED and MINIO_ENABLED.
package main

import (
	"log"

	"github.com/Aleph-Alpha/todoapi/v1/config"
	"github.com/Aleph-Alpha/todoapi/v1/httpapi"
	"github.com/Aleph-Alpha/todoapi/v1/kafka"
	"github.com/Aleph-Alpha/todoapi/v1/logger"
	"github.com/Aleph-Alpha/todoapi/v1/mariadb"
	"github.com/Aleph-Alpha/todoapi/v1/metrics"
	"github.com/Aleph-Alpha/todoapi/v1/minio"
	"github.com/Aleph-Alpha/todoapi/v1/postgres"
	"github.com/Aleph-Alpha/todoapi/v1/rabbit"
	"github.com/Aleph-Alpha/todoapi/v1/sqlite"
	"github.com/Aleph-Alpha/todoapi/v1/storage"
	"github.com/Aleph-Alpha/todoapi/v1/todo"
	"github.com/Aleph-Alpha/todoapi/v1/tracer"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	opts, err := options(cfg)
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	fx.New(opts).Run()
}

// options assembles the application graph for cfg.
func options(cfg config.Config) (fx.Option, error) {
	storageModule, err := storage.Module(cfg.Storage)
	if err != nil {
		return nil, err
	}

	return fx.Options(
		config.FXModule(cfg),
		logger.FXModule,
		metrics.FXModule,
		tracer.FXModule,
		storageModule,
		todo.FXModule,
		kafka.FXModule,
		rabbit.FXModule,
		minio.FXModule,
		httpapi.FXModule,
		adapters,
		fx.WithLogger(func(l *logger.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: l.Zap}
		}),
	), nil
}

// adapters exposes the concrete clients under the narrow interfaces each
// package declares. fx.As maps positionally onto constructor results, so each
// interface gets its own annotation.
var adapters = fx.Provide(
	fx.Annotate(
		func(l *logger.Logger) *logger.Logger { return l },
		fx.As(new(metrics.Logger)),
		fx.As(new(tracer.Logger)),
		fx.As(new(postgres.Logger)),
		fx.As(new(sqlite.Logger)),
		fx.As(new(mariadb.Logger)),
		fx.As(new(kafka.Logger)),
		fx.As(new(rabbit.Logger)),
		fx.As(new(minio.Logger)),
		fx.As(new(todo.Logger)),
		fx.As(new(httpapi.Logger)),
	),
	fx.Annotate(
		func(t *tracer.Tracer) *tracer.Tracer { return t },
		fx.As(new(todo.Tracer)),
		fx.As(new(kafka.Propagator)),
		fx.As(new(rabbit.Propagator)),
	),
	fx.Annotate(
		func(m *metrics.Metrics) *metrics.Metrics { return m },
		fx.As(new(todo.Metrics)),
		fx.As(new(todo.SizeObserver)),
		fx.As(new(httpapi.Metrics)),
	),
	fx.Annotate(
		func(s *todo.Service) *todo.Service { return s },
		fx.As(new(httpapi.Service)),
	),
)
