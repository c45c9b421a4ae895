package kafka

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"sync"

	"github.com/Aleph-Alpha/todoapi/v1/todo"
	"github.com/segmentio/kafka-go"
	"github.com/segmentio/kafka-go/compress"
	"github.com/segmentio/kafka-go/sasl"
	"github.com/segmentio/kafka-go/sasl/plain"
	"github.com/segmentio/kafka-go/sasl/scram"
)

// Header keys set on every event message.
const (
	HeaderEventType   = "event-type"
	HeaderContentType = "content-type"
)

// ErrClosed is returned by Publish after Close.
var ErrClosed = errors.New("kafka publisher is closed")

// Logger is the subset of the logger package this package uses.
type Logger interface {
	Info(msg string, err error, fields ...map[string]interface{})
	Error(msg string, err error, fields ...map[string]interface{})
}

// Propagator serialises the trace context of a request into message headers.
// *tracer.Tracer satisfies it.
type Propagator interface {
	GetCarrier(ctx context.Context) map[string]string
}

// writer is the part of *kafka.Writer the publisher uses.
type writer interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Publisher writes todo.Events as JSON to a Kafka topic. Messages are keyed by
// todo id so that all events of one todo land on the same partition.
type Publisher struct {
	cfg        Config
	writer     writer
	logger     Logger
	propagator Propagator

	mu     sync.RWMutex
	closed bool
}

var _ todo.Publisher = (*Publisher)(nil)

// NewPublisher builds a publisher for cfg. propagator may be nil.
//
// Parameters:
//   - cfg: brokers, topic and delivery settings; zero values take the defaults
//   - logger: receives writer errors and lifecycle messages
//   - propagator: injects the trace context into message headers
//
// Returns:
//   - *Publisher: a todo.Publisher writing to cfg.Topic
//   - error: if no brokers are configured or TLS, SASL or compression is invalid
//
// Example:
//
//	pub, err := kafka.NewPublisher(cfg, log, tracer)
//	if err != nil {
//		return err
//	}
//	defer pub.Close()
func NewPublisher(cfg Config, logger Logger, propagator Propagator) (*Publisher, error) {
	cfg = withDefaults(cfg)
	if len(cfg.Brokers) == 0 {
		return nil, fmt.Errorf("no kafka brokers configured")
	}

	var tlsConfig *tls.Config
	var err error
	if cfg.TLS.Enabled {
		tlsConfig, err = createTLSConfig(cfg.TLS)
		if err != nil {
			return nil, fmt.Errorf("failed to create TLS config: %w", err)
		}
	}

	var mechanism sasl.Mechanism
	if cfg.SASL.Enabled {
		mechanism, err = createSASLMechanism(cfg.SASL)
		if err != nil {
			return nil, fmt.Errorf("failed to create SASL mechanism: %w", err)
		}
	}

	codec, err := compressionCodec(cfg.CompressionCodec)
	if err != nil {
		return nil, err
	}

	w := createWriter(cfg, codec, tlsConfig, mechanism, logger)
	logger.Info("Kafka producer initialized", nil, map[string]interface{}{
		"brokers": cfg.Brokers,
		"topic":   cfg.Topic,
	})
	return newPublisher(cfg, w, logger, propagator), nil
}

func newPublisher(cfg Config, w writer, logger Logger, propagator Propagator) *Publisher {
	return &Publisher{
		cfg:        cfg,
		writer:     w,
		logger:     logger,
		propagator: propagator,
	}
}

func withDefaults(cfg Config) Config {
	if cfg.Topic == "" {
		cfg.Topic = DefaultTopic
	}
	if cfg.RequiredAcks == 0 {
		cfg.RequiredAcks = DefaultRequiredAcks
	}
	if cfg.MaxAttempts == 0 {
		cfg.MaxAttempts = DefaultMaxAttempts
	}
	if cfg.WriteTimeout == 0 {
		cfg.WriteTimeout = DefaultWriteTimeout
	}
	if cfg.BatchSize == 0 {
		cfg.BatchSize = DefaultBatchSize
	}
	if cfg.BatchTimeout == 0 {
		cfg.BatchTimeout = DefaultBatchTimeout
	}
	return cfg
}

// Publish implements todo.Publisher.
func (p *Publisher) Publish(ctx context.Context, event todo.Event) error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return ErrClosed
	}

	msg, err := p.message(ctx, event)
	if err != nil {
		return err
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("failed to publish %s for todo %d: %w", event.Type, event.ID, err)
	}
	return nil
}

func (p *Publisher) message(ctx context.Context, event todo.Event) (kafka.Message, error) {
	body, err := json.Marshal(event)
	if err != nil {
		return kafka.Message{}, fmt.Errorf("failed to encode %s event: %w", event.Type, err)
	}

	headers := []kafka.Header{
		{Key: HeaderEventType, Value: []byte(event.Type)},
		{Key: HeaderContentType, Value: []byte("application/json")},
	}
	if p.propagator != nil {
		for k, v := range p.propagator.GetCarrier(ctx) {
			headers = append(headers, kafka.Header{Key: k, Value: []byte(v)})
		}
	}

	return kafka.Message{
		Key:     []byte(strconv.Itoa(event.ID)),
		Value:   body,
		Headers: headers,
	}, nil
}

// Close flushes pending messages and closes the writer. It is safe to call
// more than once.
func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return nil
	}
	p.closed = true
	return p.writer.Close()
}

// createWriter creates a Kafka writer with the given configuration
func createWriter(cfg Config, codec compress.Codec, tlsConfig *tls.Config, mechanism sasl.Mechanism, logger Logger) *kafka.Writer {
	writerConfig := kafka.WriterConfig{
		Brokers:          cfg.Brokers,
		Topic:            cfg.Topic,
		Balancer:         &kafka.Hash{},
		MaxAttempts:      cfg.MaxAttempts,
		WriteTimeout:     cfg.WriteTimeout,
		RequiredAcks:     cfg.RequiredAcks,
		CompressionCodec: codec,
		ErrorLogger: kafka.LoggerFunc(func(msg string, args ...interface{}) {
			logger.Error("Kafka internal error", nil, map[string]interface{}{
				"error": fmt.Sprintf(msg, args...),
			})
		}),
		Dialer: &kafka.Dialer{
			TLS:           tlsConfig,
			SASLMechanism: mechanism,
		},
	}

	if cfg.Async {
		writerConfig.Async = true
		writerConfig.BatchSize = cfg.BatchSize
		writerConfig.BatchTimeout = cfg.BatchTimeout
	}

	return kafka.NewWriter(writerConfig)
}

func compressionCodec(name string) (compress.Codec, error) {
	switch name {
	case "":
		return nil, nil
	case "gzip":
		return &compress.GzipCodec, nil
	case "snappy":
		return &compress.SnappyCodec, nil
	case "lz4":
		return &compress.Lz4Codec, nil
	case "zstd":
		return &compress.ZstdCodec, nil
	default:
		return nil, fmt.Errorf("unsupported compression codec: %s", name)
	}
}

// createTLSConfig creates a TLS configuration from the provided config
func createTLSConfig(cfg TLSConfig) (*tls.Config, error) {
	tlsConfig := &tls.Config{
		InsecureSkipVerify: cfg.InsecureSkipVerify,
	}

	if cfg.CACertPath != "" {
		caCert, err := os.ReadFile(cfg.CACertPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read CA cert: %w", err)
		}
		caCertPool := x509.NewCertPool()
		if !caCertPool.AppendCertsFromPEM(caCert) {
			return nil, fmt.Errorf("failed to parse CA cert")
		}
		tlsConfig.RootCAs = caCertPool
	}

	if cfg.ClientCertPath != "" && cfg.ClientKeyPath != "" {
		cert, err := tls.LoadX509KeyPair(cfg.ClientCertPath, cfg.ClientKeyPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load client cert: %w", err)
		}
		tlsConfig.Certificates = []tls.Certificate{cert}
	}

	return tlsConfig, nil
}

// createSASLMechanism creates a SASL mechanism from the provided config
func createSASLMechanism(cfg SASLConfig) (sasl.Mechanism, error) {
	switch cfg.Mechanism {
	case "PLAIN":
		return plain.Mechanism{
			Username: cfg.Username,
			Password: cfg.Password,
		}, nil
	case "SCRAM-SHA-256":
		return scram.Mechanism(scram.SHA256, cfg.Username, cfg.Password)
	case "SCRAM-SHA-512":
		return scram.Mechanism(scram.SHA512, cfg.Username, cfg.Password)
	default:
		return nil, fmt.Errorf("unsupported SASL mechanism: %s", cfg.Mechanism)
	}
}
