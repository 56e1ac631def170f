// Package kafka owns the broker-facing plumbing: a producer that hands one
// record per event to the transport, a consumer group wrapper, and a
// subject router for dispatching envelopes to handlers.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/twmb/franz-go/pkg/kgo"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"questify/pkg/events"
	"questify/pkg/platform/metrics"
)

// Producer publishes sealed event envelopes. Each Publish hands exactly one
// record to the broker and returns once the broker acks acceptance; there
// is no batching, deduplication, or retry policy here.
type Producer struct {
	client  *kgo.Client
	logger  *slog.Logger
	metrics *metrics.Metrics
	tracer  trace.Tracer
}

// NewProducer connects to the brokers and returns a producer.
func NewProducer(brokers []string, logger *slog.Logger, m *metrics.Metrics) (*Producer, error) {
	client, err := kgo.NewClient(
		kgo.SeedBrokers(brokers...),
		kgo.ProducerBatchCompression(kgo.SnappyCompression()),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka client: %w", err)
	}
	return &Producer{
		client:  client,
		logger:  logger,
		metrics: m,
		tracer:  otel.Tracer("questify/kafka"),
	}, nil
}

// Publish seals the event and produces it to the subject's topic, keyed by
// the subject so one partition sees one event kind in order.
func (p *Producer) Publish(ctx context.Context, event events.Event) error {
	env, err := events.Seal(event)
	if err != nil {
		return err
	}
	return p.PublishEnvelope(ctx, env, []byte(env.Subject))
}

// PublishEnvelope produces a pre-sealed envelope with an explicit record
// key. The outbox relay uses this to key records by aggregate id.
func (p *Producer) PublishEnvelope(ctx context.Context, env events.Envelope, key []byte) error {
	topic := events.TopicFor(env.Subject)
	if topic == "" {
		return fmt.Errorf("no topic for subject %q", env.Subject)
	}

	value, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("marshal envelope: %w", err)
	}

	ctx, span := p.tracer.Start(ctx, "kafka.publish", trace.WithAttributes(
		attribute.String("messaging.destination", topic),
		attribute.String("questify.subject", string(env.Subject)),
		attribute.String("questify.event_id", env.EventID.String()),
	))
	defer span.End()

	start := time.Now()
	record := &kgo.Record{Topic: topic, Key: key, Value: value}
	if err := p.client.ProduceSync(ctx, record).FirstErr(); err != nil {
		span.RecordError(err)
		return fmt.Errorf("produce %s: %w", env.Subject, err)
	}

	if p.metrics != nil {
		p.metrics.EventsPublished.WithLabelValues(string(env.Subject)).Inc()
		p.metrics.PublishLatencyMs.Observe(float64(time.Since(start).Microseconds()) / 1000.0)
	}
	p.logger.DebugContext(ctx, "event published",
		"subject", env.Subject,
		"topic", topic,
		"event_id", env.EventID,
	)
	return nil
}

// Close flushes and releases the underlying client.
func (p *Producer) Close() {
	p.client.Close()
}
