package httpapi

import "time"

// Config configures the API server.
type Config struct {
	Address      string        `envconfig:"HTTP_ADDRESS" default:":8080"`
	ReadTimeout  time.Duration `envconfig:"HTTP_READ_TIMEOUT" default:"10s"`
	WriteTimeout time.Duration `envconfig:"HTTP_WRITE_TIMEOUT" default:"30s"`
	IdleTimeout  time.Duration `envconfig:"HTTP_IDLE_TIMEOUT" default:"60s"`

	// MaxBodyBytes caps request bodies; larger bodies are rejected with 413.
	MaxBodyBytes int64 `envconfig:"HTTP_MAX_BODY_BYTES" default:"1048576"`
}
