package main

import (
	"path/filepath"
	"testing"

	"github.com/Aleph-Alpha/todoapi/v1/config"
	"github.com/Aleph-Alpha/todoapi/v1/httpapi"
	"github.com/Aleph-Alpha/todoapi/v1/kafka"
	"github.com/Aleph-Alpha/todoapi/v1/logger"
	"github.com/Aleph-Alpha/todoapi/v1/metrics"
	"github.com/Aleph-Alpha/todoapi/v1/postgres"
	"github.com/Aleph-Alpha/todoapi/v1/rabbit"
	"github.com/Aleph-Alpha/todoapi/v1/storage"
	"github.com/Aleph-Alpha/todoapi/v1/todo"
	"github.com/Aleph-Alpha/todoapi/v1/tracer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx"
	"go.uber.org/fx/fxtest"
)

func TestOptions_GraphIsComplete(t *testing.T) {
	for _, driver := range []string{storage.DriverMemory, storage.DriverSQLite, storage.DriverPostgres, storage.DriverMariaDB} {
		t.Run(driver, func(t *testing.T) {
			cfg := config.Config{}
			cfg.Storage.Driver = driver
			cfg.SQLite.Path = filepath.Join(t.TempDir(), "todos.db")
			cfg.Kafka.Enabled = true
			cfg.Rabbit.Enabled = true
			cfg.Archive.Enabled = true

			opts, err := options(cfg)
			require.NoError(t, err)
			assert.NoError(t, fx.ValidateApp(opts))
		})
	}
}

func TestOptions_RejectsUnknownDriver(t *testing.T) {
	cfg := config.Config{}
	cfg.Storage.Driver = "oracle"

	_, err := options(cfg)
	assert.Error(t, err)
}

func TestAdapters_ExposeEveryInterface(t *testing.T) {
	log := &logger.Logger{}
	tr := &tracer.Tracer{}
	m := &metrics.Metrics{}
	svc := &todo.Service{}

	var (
		tracerLogger   tracer.Logger
		postgresLogger postgres.Logger
		httpLogger     httpapi.Logger
		todoTracer     todo.Tracer
		kafkaProp      kafka.Propagator
		rabbitProp     rabbit.Propagator
		todoMetrics    todo.Metrics
		sizeObserver   todo.SizeObserver
		httpMetrics    httpapi.Metrics
		httpService    httpapi.Service
	)

	app := fxtest.New(t,
		fx.NopLogger,
		fx.Supply(log, tr, m, svc),
		adapters,
		fx.Populate(
			&tracerLogger, &postgresLogger, &httpLogger,
			&todoTracer, &kafkaProp, &rabbitProp,
			&todoMetrics, &sizeObserver, &httpMetrics,
			&httpService,
		),
	)
	require.NoError(t, app.Err())

	assert.Same(t, log, tracerLogger)
	assert.Same(t, log, postgresLogger)
	assert.Same(t, log, httpLogger)
	assert.Same(t, tr, todoTracer)
	assert.Same(t, tr, kafkaProp)
	assert.Same(t, tr, rabbitProp)
	assert.Same(t, m, todoMetrics)
	assert.Same(t, m, sizeObserver)
	assert.Same(t, m, httpMetrics)
	assert.Same(t, svc, httpService)
}
