package rabbit

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
	"time"

	"github.com/Aleph-Alpha/todoapi/v1/todo"
	amqp "github.com/rabbitmq/amqp091-go"
)

var (
	// ErrClosed is returned by Publish after Close.
	ErrClosed = errors.New("rabbitmq publisher is closed")

	// ErrNacked is returned when the broker refuses a message.
	ErrNacked = errors.New("rabbitmq broker did not acknowledge the message")
)

// channel is the part of *amqp.Channel the publisher uses.
type channel interface {
	PublishWithDeferredConfirmWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) (*amqp.DeferredConfirmation, error)
	Close() error
}

// Publisher sends todo.Events to a RabbitMQ exchange with publisher confirms.
// The connection is monitored and re-established by RetryConnection.
type Publisher struct {
	cfg        Config
	logger     Logger
	propagator Propagator

	// mu protects conn and ch
	mu     sync.RWMutex
	conn   *amqp.Connection
	ch     channel
	closed bool

	shutdownSignal    chan struct{}
	closeShutdownOnce sync.Once
}

var _ todo.Publisher = (*Publisher)(nil)

// NewPublisher connects to RabbitMQ and declares the exchange. propagator may be nil.
//
// Example:
//
//	pub, err := rabbit.NewPublisher(cfg, log, tracer)
//	if err != nil {
//		return err
//	}
//	go pub.RetryConnection()
//	defer pub.Close()
func NewPublisher(cfg Config, logger Logger, propagator Propagator) (*Publisher, error) {
	conn, err := newConnection(cfg)
	if err != nil {
		return nil, fmt.Errorf("error in connecting to rabbit: %w", err)
	}

	ch, err := connectToChannel(conn, cfg)
	if err != nil {
		_ = conn.Close()
		return nil, err
	}

	logger.InfoWithContext(context.Background(), "Connected to RabbitMQ", nil, map[string]interface{}{
		"host":     cfg.Connection.Host,
		"exchange": cfg.Exchange,
	})

	p := newPublisher(cfg, ch, logger, propagator)
	p.conn = conn
	return p, nil
}

func newPublisher(cfg Config, ch channel, logger Logger, propagator Propagator) *Publisher {
	return &Publisher{
		cfg:            cfg,
		logger:         logger,
		propagator:     propagator,
		ch:             ch,
		shutdownSignal: make(chan struct{}),
	}
}

// Publish implements todo.Publisher. It returns once the broker has confirmed
// the message or ctx is done.
func (p *Publisher) Publish(ctx context.Context, event todo.Event) error {
	msg, err := p.publishing(ctx, event)
	if err != nil {
		return err
	}

	p.mu.RLock()
	if p.closed {
		p.mu.RUnlock()
		return ErrClosed
	}
	confirm, err := p.ch.PublishWithDeferredConfirmWithContext(ctx, p.cfg.Exchange, string(event.Type), false, false, msg)
	p.mu.RUnlock()
	if err != nil {
		return fmt.Errorf("failed to publish %s for todo %d: %w", event.Type, event.ID, err)
	}

	// nil when the channel is not in confirm mode
	if confirm == nil {
		return nil
	}
	acked, err := confirm.WaitContext(ctx)
	if err != nil {
		return fmt.Errorf("failed waiting for confirmation of %s for todo %d: %w", event.Type, event.ID, err)
	}
	if !acked {
		return fmt.Errorf("%w: %s for todo %d", ErrNacked, event.Type, event.ID)
	}
	return nil
}

func (p *Publisher) publishing(ctx context.Context, event todo.Event) (amqp.Publishing, error) {
	body, err := json.Marshal(event)
	if err != nil {
		return amqp.Publishing{}, fmt.Errorf("failed to encode %s event: %w", event.Type, err)
	}

	headers := amqp.Table{"todo-id": int64(event.ID)}
	if p.propagator != nil {
		for k, v := range p.propagator.GetCarrier(ctx) {
			headers[k] = v
		}
	}

	return amqp.Publishing{
		Headers:      headers,
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    string(event.Type) + ":" + strconv.Itoa(event.ID) + ":" + strconv.FormatInt(event.OccurredAt.UnixNano(), 10),
		Timestamp:    event.OccurredAt,
		Type:         string(event.Type),
		Body:         body,
	}, nil
}

// RetryConnection re-establishes the connection and channel whenever the
// broker closes them. It returns when Close is called.
func (p *Publisher) RetryConnection() {
	ctx := context.Background()
outerLoop:
	for {
		p.mu.RLock()
		conn := p.conn
		p.mu.RUnlock()
		if conn == nil {
			return
		}

		errChan := conn.NotifyClose(make(chan *amqp.Error, 1))

		select {
		case <-p.shutdownSignal:
			return
		case amqpErr := <-errChan:
			p.logger.WarnWithContext(ctx, "RabbitMQ connection closed, retrying", amqpErrToErr(amqpErr))
			for {
				select {
				case <-p.shutdownSignal:
					return
				case <-time.After(p.cfg.ReconnectDelay):
				}

				newConn, err := newConnection(p.cfg)
				if err != nil {
					p.logger.ErrorWithContext(ctx, "RabbitMQ reconnection failed", err)
					continue
				}
				ch, err := connectToChannel(newConn, p.cfg)
				if err != nil {
					_ = newConn.Close()
					p.logger.ErrorWithContext(ctx, "Failed to re-establish RabbitMQ channel", err)
					continue
				}

				p.mu.Lock()
				p.conn = newConn
				p.ch = ch
				p.mu.Unlock()

				p.logger.InfoWithContext(ctx, "Successfully reconnected to RabbitMQ", nil)
				continue outerLoop
			}
		}
	}
}

// Close stops RetryConnection and closes the channel and connection. It is
// safe to call more than once.
func (p *Publisher) Close() error {
	p.closeShutdownOnce.Do(func() { close(p.shutdownSignal) })

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return nil
	}
	p.closed = true

	var errs []error
	if p.ch != nil {
		if err := p.ch.Close(); err != nil && !errors.Is(err, amqp.ErrClosed) {
			errs = append(errs, err)
		}
	}
	if p.conn != nil {
		if err := p.conn.Close(); err != nil && !errors.Is(err, amqp.ErrClosed) {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func amqpErrToErr(err *amqp.Error) error {
	if err == nil {
		return nil
	}
	return err
}

// connectToChannel opens a channel in confirm mode and declares the exchange.
func connectToChannel(conn *amqp.Connection, cfg Config) (*amqp.Channel, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("failed to create channel: %w", err)
	}

	if err = ch.Confirm(false); err != nil {
		_ = ch.Close()
		return nil, fmt.Errorf("failed to enable publisher confirms: %w", err)
	}

	err = ch.ExchangeDeclare(
		cfg.Exchange,
		cfg.ExchangeType,
		true,  // Durable
		false, // AutoDelete
		false, // Internal
		false, // NoWait
		nil,   // Arguments
	)
	if err != nil {
		_ = ch.Close()
		return nil, fmt.Errorf("failed to declare exchange %s: %w", cfg.Exchange, err)
	}
	return ch, nil
}

// newConnection dials RabbitMQ. Three modes are supported: plain AMQP, AMQPS
// with server authentication only, and AMQPS with a client certificate.
func newConnection(cfg Config) (*amqp.Connection, error) {
	amqpCfg := amqp.Config{Heartbeat: 2 * time.Second}

	if cfg.Connection.IsSSLEnabled {
		tlsConfig, err := createTLSConfig(cfg.Connection)
		if err != nil {
			return nil, err
		}
		amqpCfg.TLSClientConfig = tlsConfig
	}

	conn, err := amqp.DialConfig(connectionURL(cfg.Connection), amqpCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to rabbit at %s:%d: %w", cfg.Connection.Host, cfg.Connection.Port, err)
	}
	return conn, nil
}

func connectionURL(c Connection) string {
	u := amqp.URI{
		Scheme:   "amqp",
		Host:     c.Host,
		Port:     int(c.Port),
		Username: c.User,
		Password: c.Password,
		Vhost:    "/",
	}
	if c.IsSSLEnabled {
		u.Scheme = "amqps"
	}
	return u.String()
}

func createTLSConfig(c Connection) (*tls.Config, error) {
	tlsConfig := &tls.Config{ServerName: c.ServerName}

	if c.CACertPath != "" {
		caCert, err := os.ReadFile(c.CACertPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read CA cert: %w", err)
		}
		caCertPool := x509.NewCertPool()
		if !caCertPool.AppendCertsFromPEM(caCert) {
			return nil, fmt.Errorf("failed to parse CA cert")
		}
		tlsConfig.RootCAs = caCertPool
	}

	if c.UseCert {
		cert, err := tls.LoadX509KeyPair(c.ClientCertPath, c.ClientKeyPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load client cert: %w", err)
		}
		tlsConfig.Certificates = []tls.Certificate{cert}
	}
	return tlsConfig, nil
}
