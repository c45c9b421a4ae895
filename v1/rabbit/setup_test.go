package rabbit

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/Aleph-Alpha/todoapi/v1/todo"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type published struct {
	exchange, key string
	msg           amqp.Publishing
}

type fakeChannel struct {
	published []published
	err       error
	closes    int
}

func (c *fakeChannel) PublishWithDeferredConfirmWithContext(_ context.Context, exchange, key string, _, _ bool, msg amqp.Publishing) (*amqp.DeferredConfirmation, error) {
	if c.err != nil {
		return nil, c.err
	}
	c.published = append(c.published, published{exchange, key, msg})
	return nil, nil
}

func (c *fakeChannel) Close() error {
	c.closes++
	return nil
}

type discardLogger struct{}

func (discardLogger) InfoWithContext(context.Context, string, error, ...map[string]interface{})  {}
func (discardLogger) WarnWithContext(context.Context, string, error, ...map[string]interface{})  {}
func (discardLogger) ErrorWithContext(context.Context, string, error, ...map[string]interface{}) {}

type staticPropagator map[string]string

func (p staticPropagator) GetCarrier(context.Context) map[string]string { return p }

func TestPublisher_Publish(t *testing.T) {
	ch := &fakeChannel{}
	pub := newPublisher(Config{Exchange: "todo-events"}, ch, discardLogger{}, staticPropagator{"traceparent": "00-abc-def-01"})

	at := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	event := todo.Event{
		Type:       todo.EventUpdated,
		ID:         3,
		Todo:       &todo.Todo{ID: 3, Name: "eggs", Completed: true, CreatedAt: at, UpdatedAt: at},
		OccurredAt: at,
	}
	require.NoError(t, pub.Publish(context.Background(), event))

	require.Len(t, ch.published, 1)
	got := ch.published[0]
	assert.Equal(t, "todo-events", got.exchange)
	assert.Equal(t, "todo.updated", got.key)
	assert.Equal(t, "application/json", got.msg.ContentType)
	assert.Equal(t, amqp.Persistent, got.msg.DeliveryMode)
	assert.Equal(t, "todo.updated", got.msg.Type)
	assert.Equal(t, at, got.msg.Timestamp)
	assert.Equal(t, int64(3), got.msg.Headers["todo-id"])
	assert.Equal(t, "00-abc-def-01", got.msg.Headers["traceparent"])

	var decoded todo.Event
	require.NoError(t, json.Unmarshal(got.msg.Body, &decoded))
	assert.Equal(t, event, decoded)
}

func TestPublisher_PublishError(t *testing.T) {
	boom := errors.New("channel closed")
	pub := newPublisher(Config{}, &fakeChannel{err: boom}, discardLogger{}, nil)

	err := pub.Publish(context.Background(), todo.Event{Type: todo.EventCreated, ID: 1})
	assert.ErrorIs(t, err, boom)
}

func TestPublisher_Close(t *testing.T) {
	ch := &fakeChannel{}
	pub := newPublisher(Config{}, ch, discardLogger{}, nil)

	require.NoError(t, pub.Close())
	require.NoError(t, pub.Close())
	assert.Equal(t, 1, ch.closes)

	err := pub.Publish(context.Background(), todo.Event{Type: todo.EventCreated, ID: 1})
	assert.ErrorIs(t, err, ErrClosed)

	done := make(chan struct{})
	go func() {
		pub.RetryConnection()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("RetryConnection did not return after Close")
	}
}

func TestConnectionURL(t *testing.T) {
	c := Connection{Host: "mq", Port: 5671, User: "u", Password: "p@ss", IsSSLEnabled: true}
	uri, err := amqp.ParseURI(connectionURL(c))
	require.NoError(t, err)
	assert.Equal(t, "amqps", uri.Scheme)
	assert.Equal(t, "mq", uri.Host)
	assert.Equal(t, 5671, uri.Port)
	assert.Equal(t, "u", uri.Username)
	assert.Equal(t, "p@ss", uri.Password)
	assert.Equal(t, "/", uri.Vhost)
}

func TestNewPublisherWithDI_Disabled(t *testing.T) {
	res, err := NewPublisherWithDI(PublisherParams{Config: Config{}, Logger: discardLogger{}})
	require.NoError(t, err)
	assert.Equal(t, todo.NopPublisher{}, res.Publisher)
}
