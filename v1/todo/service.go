package todo

import (
	"context"
	"errors"
	"fmt"

	"github.com/Aleph-Alpha/todoapi/v1/filter"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// Logger is the logging surface the service needs. *logger.Logger satisfies it.
type Logger interface {
	DebugWithContext(ctx context.Context, msg string, err error, fields ...map[string]interface{})
	InfoWithContext(ctx context.Context, msg string, err error, fields ...map[string]interface{})
	WarnWithContext(ctx context.Context, msg string, err error, fields ...map[string]interface{})
	ErrorWithContext(ctx context.Context, msg string, err error, fields ...map[string]interface{})
}

// Tracer starts spans around service operations. *tracer.Tracer satisfies it.
type Tracer interface {
	StartSpan(ctx context.Context, name string) (context.Context, trace.Span)
	RecordErrorOnSpan(span trace.Span, err error)
	SetAttributes(span trace.Span, attrs map[string]interface{})
}

// Metrics records filter outcomes. *metrics.Metrics satisfies it.
type Metrics interface {
	RecordFilterCompilation(result string)
	RecordFilterSkipped(reason string, n int)
}

// Outcomes counted by Metrics.RecordFilterCompilation.
const (
	CompilationOK       = "ok"
	CompilationRejected = "rejected"
	CompilationFailed   = "error"
)

// Service implements the todo use cases on top of a Repository.
type Service struct {
	repo      Repository
	publisher Publisher
	logger    Logger
	tracer    Tracer
	metrics   Metrics
}

// NewService wires a Service. Every collaborator except repo may be nil.
func NewService(repo Repository, publisher Publisher, logger Logger, tracer Tracer, metrics Metrics) *Service {
	s := &Service{
		repo:      repo,
		publisher: publisher,
		logger:    logger,
		tracer:    tracer,
		metrics:   metrics,
	}
	if s.publisher == nil {
		s.publisher = NopPublisher{}
	}
	if s.logger == nil {
		s.logger = nopLogger{}
	}
	if s.tracer == nil {
		s.tracer = nopTracer{tracer: noop.NewTracerProvider().Tracer("todo")}
	}
	if s.metrics == nil {
		s.metrics = nopMetrics{}
	}
	return s
}

// List returns every todo ordered by id.
func (s *Service) List(ctx context.Context) ([]Todo, error) {
	ctx, span := s.tracer.StartSpan(ctx, "todo.list")
	defer span.End()

	todos, err := s.repo.List(ctx, nil)
	if err != nil {
		s.tracer.RecordErrorOnSpan(span, err)
		return nil, err
	}
	s.tracer.SetAttributes(span, map[string]interface{}{"todo.count": len(todos)})
	return todos, nil
}

// Query returns the todos matching model. Unknown fields and operators are
// ignored; any other problem with the model fails the whole request with an
// error that wraps the filter sentinels.
func (s *Service) Query(ctx context.Context, model filter.Model) ([]Todo, error) {
	ctx, span := s.tracer.StartSpan(ctx, "todo.query")
	defer span.End()

	compiled, err := filter.Compile(Schema, model)
	if err != nil {
		if filter.IsRequestError(err) {
			s.metrics.RecordFilterCompilation(CompilationRejected)
			s.logger.DebugWithContext(ctx, "rejected filter", err, nil)
		} else {
			s.metrics.RecordFilterCompilation(CompilationFailed)
			s.logger.ErrorWithContext(ctx, "failed to compile filter", err, nil)
		}
		s.tracer.RecordErrorOnSpan(span, err)
		return nil, err
	}
	s.metrics.RecordFilterCompilation(CompilationOK)
	s.reportSkipped(ctx, compiled.Skipped())

	todos, err := s.repo.List(ctx, compiled)
	if err != nil {
		s.tracer.RecordErrorOnSpan(span, err)
		return nil, err
	}

	s.tracer.SetAttributes(span, map[string]interface{}{
		"filter.conditions": len(compiled.Conditions()),
		"filter.skipped":    len(compiled.Skipped()),
		"todo.count":        len(todos),
	})
	return todos, nil
}

func (s *Service) reportSkipped(ctx context.Context, skipped []filter.Skip) {
	if len(skipped) == 0 {
		return
	}

	counts := make(map[filter.SkipReason]int)
	clauses := make([]string, 0, len(skipped))
	for _, sk := range skipped {
		counts[sk.Reason]++
		clauses = append(clauses, sk.String())
	}
	for reason, n := range counts {
		s.metrics.RecordFilterSkipped(reason.String(), n)
	}
	s.logger.DebugWithContext(ctx, "ignored filter clauses", nil, map[string]interface{}{
		"skipped": clauses,
	})
}

// Get returns the todo with id or ErrNotFound.
func (s *Service) Get(ctx context.Context, id int) (Todo, error) {
	ctx, span := s.tracer.StartSpan(ctx, "todo.get")
	defer span.End()
	s.tracer.SetAttributes(span, map[string]interface{}{"todo.id": id})

	t, err := s.repo.Get(ctx, id)
	if err != nil {
		s.tracer.RecordErrorOnSpan(span, err)
		return Todo{}, err
	}
	return t, nil
}

// Create validates and stores t. Any client supplied ID is ignored.
func (s *Service) Create(ctx context.Context, t Todo) (Todo, error) {
	ctx, span := s.tracer.StartSpan(ctx, "todo.create")
	defer span.End()

	if err := t.Validate(); err != nil {
		s.tracer.RecordErrorOnSpan(span, err)
		return Todo{}, err
	}

	t.ID = 0
	if err := s.repo.Create(ctx, &t); err != nil {
		s.tracer.RecordErrorOnSpan(span, err)
		s.logger.ErrorWithContext(ctx, "failed to create todo", err, nil)
		return Todo{}, err
	}
	s.tracer.SetAttributes(span, map[string]interface{}{"todo.id": t.ID})

	created := t
	s.publish(ctx, Event{Type: EventCreated, ID: t.ID, Todo: &created, OccurredAt: t.CreatedAt})
	return t, nil
}

// Update replaces Name and Completed of the todo with id. A non-zero t.ID that
// differs from id yields ErrIDMismatch.
func (s *Service) Update(ctx context.Context, id int, t Todo) (Todo, error) {
	ctx, span := s.tracer.StartSpan(ctx, "todo.update")
	defer span.End()
	s.tracer.SetAttributes(span, map[string]interface{}{"todo.id": id})

	if t.ID != 0 && t.ID != id {
		err := fmt.Errorf("%w: path id %d, body id %d", ErrIDMismatch, id, t.ID)
		s.tracer.RecordErrorOnSpan(span, err)
		return Todo{}, err
	}
	if err := t.Validate(); err != nil {
		s.tracer.RecordErrorOnSpan(span, err)
		return Todo{}, err
	}

	t.ID = id
	if err := s.repo.Update(ctx, &t); err != nil {
		s.tracer.RecordErrorOnSpan(span, err)
		if !errors.Is(err, ErrNotFound) {
			s.logger.ErrorWithContext(ctx, "failed to update todo", err, map[string]interface{}{"id": id})
		}
		return Todo{}, err
	}

	updated := t
	s.publish(ctx, Event{Type: EventUpdated, ID: id, Todo: &updated, OccurredAt: t.UpdatedAt})
	return t, nil
}

// Delete removes the todo with id.
func (s *Service) Delete(ctx context.Context, id int) error {
	ctx, span := s.tracer.StartSpan(ctx, "todo.delete")
	defer span.End()
	s.tracer.SetAttributes(span, map[string]interface{}{"todo.id": id})

	if err := s.repo.Delete(ctx, id); err != nil {
		s.tracer.RecordErrorOnSpan(span, err)
		if !errors.Is(err, ErrNotFound) {
			s.logger.ErrorWithContext(ctx, "failed to delete todo", err, map[string]interface{}{"id": id})
		}
		return err
	}

	s.publish(ctx, Event{Type: EventDeleted, ID: id, OccurredAt: now()})
	return nil
}

// Ready reports whether the repository is reachable.
func (s *Service) Ready(ctx context.Context) error {
	return s.repo.Ping(ctx)
}

// publish never fails the caller; the change is already committed.
func (s *Service) publish(ctx context.Context, event Event) {
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.WarnWithContext(ctx, "failed to publish todo event", err, map[string]interface{}{
			"type": string(event.Type),
			"id":   event.ID,
		})
	}
}

type nopLogger struct{}

func (nopLogger) DebugWithContext(context.Context, string, error, ...map[string]interface{}) {}
func (nopLogger) InfoWithContext(context.Context, string, error, ...map[string]interface{})  {}
func (nopLogger) WarnWithContext(context.Context, string, error, ...map[string]interface{})  {}
func (nopLogger) ErrorWithContext(context.Context, string, error, ...map[string]interface{}) {}

type nopTracer struct {
	tracer trace.Tracer
}

func (n nopTracer) StartSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return n.tracer.Start(ctx, name)
}
func (nopTracer) RecordErrorOnSpan(trace.Span, error)              {}
func (nopTracer) SetAttributes(trace.Span, map[string]interface{}) {}

type nopMetrics struct{}

func (nopMetrics) RecordFilterCompilation(string)  {}
func (nopMetrics) RecordFilterSkipped(string, int) {}
