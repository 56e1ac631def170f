package kafka

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/twmb/franz-go/pkg/kgo"
)

// Message is one record delivered to a handler. Delivery is at-least-once
// and possibly reordered; handlers must be idempotent.
type Message struct {
	Topic     string
	Partition int32
	Offset    int64
	Key       []byte
	Value     []byte
}

// Handler processes one message. A failing message is retried a few
// times with backoff, then logged and skipped rather than blocking the
// partition; poison messages must not stall the group.
type Handler interface {
	Handle(ctx context.Context, msg *Message) error
}

const handlerAttempts = 3

// Consumer runs a consumer group over a fixed topic set.
type Consumer struct {
	client  *kgo.Client
	handler Handler
	logger  *slog.Logger
	backoff time.Duration
}

// NewConsumer joins the group and subscribes to the topics.
func NewConsumer(brokers []string, group string, topics []string, handler Handler, logger *slog.Logger) (*Consumer, error) {
	client, err := kgo.NewClient(
		kgo.SeedBrokers(brokers...),
		kgo.ConsumerGroup(group),
		kgo.ConsumeTopics(topics...),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka consumer client: %w", err)
	}
	return &Consumer{client: client, handler: handler, logger: logger, backoff: 100 * time.Millisecond}, nil
}

// Run polls until the context is cancelled. A handler error is retried
// briefly to ride out transient store blips; once attempts are spent the
// failure is logged and the offset still advances. Projections are
// idempotent upserts, so a skipped event heals on the next one for the
// same aggregate.
func (c *Consumer) Run(ctx context.Context) error {
	defer c.client.Close()
	for {
		fetches := c.client.PollFetches(ctx)
		if fetches.IsClientClosed() {
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		fetches.EachError(func(topic string, partition int32, err error) {
			c.logger.Error("fetch error",
				"topic", topic,
				"partition", partition,
				"error", err,
			)
		})
		fetches.EachRecord(func(record *kgo.Record) {
			msg := &Message{
				Topic:     record.Topic,
				Partition: record.Partition,
				Offset:    record.Offset,
				Key:       record.Key,
				Value:     record.Value,
			}
			if err := c.dispatch(ctx, msg); err != nil {
				c.logger.Error("message handling failed, skipping",
					"topic", msg.Topic,
					"partition", msg.Partition,
					"offset", msg.Offset,
					"attempts", handlerAttempts,
					"error", err,
				)
			}
		})
	}
}

// dispatch runs the handler with bounded retries. The last error wins;
// a cancelled context cuts the retries short.
func (c *Consumer) dispatch(ctx context.Context, msg *Message) error {
	var err error
	for attempt := 1; ; attempt++ {
		if err = c.handler.Handle(ctx, msg); err == nil {
			return nil
		}
		if attempt == handlerAttempts {
			return err
		}
		c.logger.Warn("message handling failed, retrying",
			"topic", msg.Topic,
			"offset", msg.Offset,
			"attempt", attempt,
			"error", err,
		)
		select {
		case <-ctx.Done():
			return err
		case <-time.After(time.Duration(attempt) * c.backoff):
		}
	}
}
