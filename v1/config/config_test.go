package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("ENV_FILE", writeEnvFile(t, ""))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.Logger.Level)
	assert.Equal(t, ":8080", cfg.HTTP.Address)
	assert.Equal(t, 10*time.Second, cfg.HTTP.ReadTimeout)
	assert.Equal(t, "memory", cfg.Storage.Driver)
	assert.Equal(t, "localhost", cfg.Postgres.Connection.Host)
	assert.Equal(t, "todos.db", cfg.SQLite.Path)
	assert.Equal(t, 10000, cfg.Todo.ParallelThreshold)
	assert.False(t, cfg.Kafka.Enabled)
	assert.Equal(t, []string{"localhost:9092"}, cfg.Kafka.Brokers)
	assert.False(t, cfg.Rabbit.Enabled)
	assert.Equal(t, uint(5672), cfg.Rabbit.Connection.Port)
	assert.Equal(t, "todo-events", cfg.Rabbit.Exchange)
	assert.Equal(t, "3306", cfg.MariaDB.Connection.Port)
	assert.True(t, cfg.MariaDB.Connection.ParseTime)
	assert.Equal(t, "UTC", cfg.MariaDB.Connection.Loc)
	assert.False(t, cfg.Archive.Enabled)
	assert.Equal(t, "todo-events", cfg.Archive.Connection.BucketName)
}

func TestLoad_EnvFileAndOverrides(t *testing.T) {
	t.Setenv("ENV_FILE", writeEnvFile(t, `
STORAGE_DRIVER=Postgres
DB_CONNECTION_STRING=postgres://u:p@db:5432/todos
HTTP_ADDRESS=:9000
KAFKA_BROKERS=a:9092,b:9092
RABBITMQ_ENABLED=true
RABBITMQ_EXCHANGE=audit
`))
	t.Setenv("HTTP_ADDRESS", ":7000")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "postgres", cfg.Storage.Driver)
	assert.Equal(t, "postgres://u:p@db:5432/todos", cfg.Postgres.DSN)
	assert.Equal(t, ":7000", cfg.HTTP.Address)
	assert.Equal(t, []string{"a:9092", "b:9092"}, cfg.Kafka.Brokers)
	assert.True(t, cfg.Rabbit.Enabled)
	assert.Equal(t, "audit", cfg.Rabbit.Exchange)
}

func TestLoad_Errors(t *testing.T) {
	t.Run("missing explicit file", func(t *testing.T) {
		t.Setenv("ENV_FILE", filepath.Join(t.TempDir(), "missing.env"))
		_, err := Load()
		assert.Error(t, err)
	})

	t.Run("unknown storage driver", func(t *testing.T) {
		t.Setenv("ENV_FILE", writeEnvFile(t, "STORAGE_DRIVER=oracle\n"))
		_, err := Load()
		assert.ErrorContains(t, err, "oracle")
	})

	t.Run("malformed duration", func(t *testing.T) {
		t.Setenv("ENV_FILE", writeEnvFile(t, "HTTP_READ_TIMEOUT=soon\n"))
		_, err := Load()
		assert.Error(t, err)
	})
}

// writeEnvFile writes a dotenv file and unsets the variables it defines once
// the test ends, since godotenv sets them on the process.
func writeEnvFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	vars, err := godotenv.Read(path)
	require.NoError(t, err)
	for key := range vars {
		if _, set := os.LookupEnv(key); set {
			continue
		}
		t.Cleanup(func() { _ = os.Unsetenv(key) })
	}
	return path
}
