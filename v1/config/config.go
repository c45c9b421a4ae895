// Package config loads the application configuration from the environment.
//
// Variables are read after an optional dotenv file has been loaded. The file
// defaults to ./.env and can be changed with ENV_FILE; variables already set in
// the environment win over the file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

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
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"go.uber.org/fx"
)

// DefaultEnvFile is loaded when ENV_FILE is unset. A missing default file is
// not an error.
const DefaultEnvFile = ".env"

// Config aggregates the configuration of every package.
type Config struct {
	Logger   logger.Config
	Metrics  metrics.Config
	Tracer   tracer.Config
	HTTP     httpapi.Config
	Storage  storage.Config
	Postgres postgres.Config
	SQLite   sqlite.Config
	MariaDB  mariadb.Config
	Todo     todo.Config
	Kafka    kafka.Config
	Rabbit   rabbit.Config
	Archive  minio.Config
}

// Load reads the dotenv file, then the environment.
func Load() (Config, error) {
	path, explicit := os.LookupEnv("ENV_FILE")
	if !explicit {
		path = DefaultEnvFile
	}
	if err := godotenv.Load(path); err != nil {
		if explicit || !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("failed to load env file %s: %w", path, err)
		}
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to process environment: %w", err)
	}
	if err := cfg.Storage.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// FXModule supplies each package its own Config.
func FXModule(cfg Config) fx.Option {
	return fx.Module("config",
		fx.Supply(
			cfg.Logger,
			cfg.Metrics,
			cfg.Tracer,
			cfg.HTTP,
			cfg.Storage,
			cfg.Postgres,
			cfg.SQLite,
			cfg.MariaDB,
			cfg.Todo,
			cfg.Kafka,
			cfg.Rabbit,
			cfg.Archive,
		),
	)
}
