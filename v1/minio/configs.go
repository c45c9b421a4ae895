package minio

import "time"

// Config controls archiving of todo events to an S3-compatible bucket.
type Config struct {
	// Enabled turns the archive on.
	Enabled bool `envconfig:"MINIO_ENABLED" default:"false"`

	Connection Connection

	// Prefix is prepended to every object name.
	Prefix string `envconfig:"MINIO_PREFIX" default:"events"`

	// Timeout bounds a single upload.
	Timeout time.Duration `envconfig:"MINIO_TIMEOUT" default:"10s"`
}

// Connection holds the endpoint, credentials and bucket.
type Connection struct {
	Endpoint        string `envconfig:"MINIO_ENDPOINT" default:"localhost:9000"`
	AccessKeyID     string `envconfig:"MINIO_ACCESS_KEY_ID"`
	SecretAccessKey string `envconfig:"MINIO_SECRET_ACCESS_KEY"`
	UseSSL          bool   `envconfig:"MINIO_USE_SSL" default:"false"`
	Region          string `envconfig:"MINIO_REGION"`
	BucketName      string `envconfig:"MINIO_BUCKET" default:"todo-events"`

	// AccessBucketCreation creates the bucket at startup when it is missing.
	AccessBucketCreation bool `envconfig:"MINIO_CREATE_BUCKET" default:"true"`
}

const (
	defaultTimeout    = 10 * time.Second
	validationTimeout = 10 * time.Second
)
