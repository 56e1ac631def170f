package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"questify/pkg/events"
	"questify/pkg/platform/metrics"
)

// EventHandler reacts to one decoded event.
type EventHandler func(ctx context.Context, event events.Event) error

// Router decodes envelopes and dispatches them to subject-specific
// handlers. Subjects without a handler are skipped so services only consume
// the slice of the contract they care about.
type Router struct {
	handlers map[events.Subject]EventHandler
	logger   *slog.Logger
	metrics  *metrics.Metrics
	tracer   trace.Tracer
}

// NewRouter creates an empty subject router.
func NewRouter(logger *slog.Logger, m *metrics.Metrics) *Router {
	return &Router{
		handlers: make(map[events.Subject]EventHandler),
		logger:   logger,
		metrics:  m,
		tracer:   otel.Tracer("questify/kafka"),
	}
}

// On registers a handler for a subject. Registering the same subject twice
// overwrites, matching consumer startup order.
func (r *Router) On(subject events.Subject, handler EventHandler) {
	r.handlers[subject] = handler
}

// Handle implements Handler by decoding the envelope and dispatching on its
// subject.
func (r *Router) Handle(ctx context.Context, msg *Message) error {
	var env events.Envelope
	if err := json.Unmarshal(msg.Value, &env); err != nil {
		return fmt.Errorf("decode envelope from %s: %w", msg.Topic, err)
	}

	handler, ok := r.handlers[env.Subject]
	if !ok {
		r.logger.DebugContext(ctx, "no handler for subject, skipping",
			"subject", env.Subject,
			"topic", msg.Topic,
		)
		return nil
	}

	event, err := env.Open()
	if err != nil {
		return err
	}

	ctx, span := r.tracer.Start(ctx, "kafka.consume", trace.WithAttributes(
		attribute.String("messaging.source", msg.Topic),
		attribute.String("questify.subject", string(env.Subject)),
		attribute.String("questify.event_id", env.EventID.String()),
	))
	defer span.End()

	if err := handler(ctx, event); err != nil {
		span.RecordError(err)
		return fmt.Errorf("handle %s: %w", env.Subject, err)
	}
	if r.metrics != nil {
		r.metrics.EventsConsumed.WithLabelValues(string(env.Subject)).Inc()
	}
	return nil
}
