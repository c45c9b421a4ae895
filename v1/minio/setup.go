package minio

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path"
	"strconv"

	"github.com/Aleph-Alpha/todoapi/v1/todo"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// Logger is the subset of the logger package this package uses.
type Logger interface {
	InfoWithContext(ctx context.Context, msg string, err error, fields ...map[string]interface{})
	ErrorWithContext(ctx context.Context, msg string, err error, fields ...map[string]interface{})
}

// ErrConnectionFailed is returned when no client is available.
var ErrConnectionFailed = errors.New("minio: no connection")

// bucketClient is the part of *minio.Client the archive uses.
type bucketClient interface {
	BucketExists(ctx context.Context, bucketName string) (bool, error)
	MakeBucket(ctx context.Context, bucketName string, opts minio.MakeBucketOptions) error
	PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
}

// Archiver stores every todo event as a JSON object. It implements
// todo.Publisher. Object names are
//
//	<prefix>/<yyyy>/<mm>/<dd>/<todo id>/<unix nanos>-<event type>.json
//
// so a todo's history lists in order under its own prefix.
type Archiver struct {
	cfg     Config
	client  bucketClient
	logger  Logger
	buffers *BufferPool
}

var _ todo.Publisher = (*Archiver)(nil)

// NewArchiver connects to the endpoint, checks the bucket and creates it
// when allowed.
//
// Parameters:
//   - ctx: bounds the bucket check and creation
//   - cfg: endpoint, credentials, bucket and key prefix
//   - logger: receives bucket and upload messages
//
// Returns:
//   - *Archiver: a todo.Publisher writing one object per event
//   - error: if the endpoint is invalid or the bucket is missing and cannot be created
func NewArchiver(ctx context.Context, cfg Config, logger Logger) (*Archiver, error) {
	client, err := connectToMinio(cfg)
	if err != nil {
		return nil, err
	}
	a := newArchiver(cfg, client, logger)
	if err := a.ensureBucketExists(ctx); err != nil {
		return nil, err
	}
	return a, nil
}

func newArchiver(cfg Config, client bucketClient, logger Logger) *Archiver {
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	return &Archiver{
		cfg:     cfg,
		client:  client,
		logger:  logger,
		buffers: NewBufferPool(),
	}
}

func connectToMinio(cfg Config) (*minio.Client, error) {
	if cfg.Connection.Endpoint == "" {
		return nil, fmt.Errorf("minio endpoint cannot be empty")
	}
	client, err := minio.New(cfg.Connection.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.Connection.AccessKeyID, cfg.Connection.SecretAccessKey, ""),
		Secure: cfg.Connection.UseSSL,
		Region: cfg.Connection.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client for %s: %w", cfg.Connection.Endpoint, err)
	}
	return client, nil
}

func (a *Archiver) ensureBucketExists(ctx context.Context) error {
	bucket := a.cfg.Connection.BucketName
	if bucket == "" {
		return fmt.Errorf("bucket name is empty")
	}
	if a.client == nil {
		return ErrConnectionFailed
	}

	ctx, cancel := context.WithTimeout(ctx, validationTimeout)
	defer cancel()

	exists, err := a.client.BucketExists(ctx, bucket)
	if err != nil {
		return fmt.Errorf("failed to check if bucket exists, bucket: %v, err: %w", bucket, err)
	}
	if exists {
		return nil
	}
	if !a.cfg.Connection.AccessBucketCreation {
		return fmt.Errorf("bucket %s does not exist, please create it manually", bucket)
	}

	a.logger.InfoWithContext(ctx, "Bucket does not exist, creating it", nil, map[string]interface{}{
		"bucket": bucket,
		"region": a.cfg.Connection.Region,
	})
	if err := a.client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{Region: a.cfg.Connection.Region}); err != nil {
		return fmt.Errorf("failed to create bucket %s: %w", bucket, err)
	}
	return nil
}

// ObjectName returns where event is stored.
func (a *Archiver) ObjectName(event todo.Event) string {
	at := event.OccurredAt.UTC()
	return path.Join(
		a.cfg.Prefix,
		at.Format("2006/01/02"),
		strconv.Itoa(event.ID),
		fmt.Sprintf("%d-%s.json", at.UnixNano(), event.Type),
	)
}

// Publish uploads event.
func (a *Archiver) Publish(ctx context.Context, event todo.Event) error {
	buf := a.buffers.Get()
	defer a.buffers.Put(buf)

	if err := json.NewEncoder(buf).Encode(event); err != nil {
		return fmt.Errorf("failed to encode %s event: %w", event.Type, err)
	}

	ctx, cancel := context.WithTimeout(ctx, a.cfg.Timeout)
	defer cancel()

	name := a.ObjectName(event)
	_, err := a.client.PutObject(ctx, a.cfg.Connection.BucketName, name, buf, int64(buf.Len()), minio.PutObjectOptions{
		ContentType: "application/json",
		UserMetadata: map[string]string{
			"todo-id":    strconv.Itoa(event.ID),
			"event-type": string(event.Type),
		},
	})
	if err != nil {
		return fmt.Errorf("failed to archive %s for todo %d: %w", event.Type, event.ID, err)
	}
	return nil
}
