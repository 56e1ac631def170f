package outbox

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"questify/pkg/events"
	"questify/pkg/platform/metrics"
)

// EnvelopePublisher hands a sealed envelope to the broker. Satisfied by
// kafka.Producer.
type EnvelopePublisher interface {
	PublishEnvelope(ctx context.Context, env events.Envelope, key []byte) error
}

// RelayStore is the slice of Store the relay needs; split out so tests can
// fake it.
type RelayStore interface {
	FetchPending(ctx context.Context, limit int) ([]Entry, error)
	MarkPublished(ctx context.Context, ids []uuid.UUID) error
	PendingCount(ctx context.Context) (int, error)
}

// Relay polls the outbox and publishes pending rows in order. A row that
// fails to publish stays pending and is retried on the next tick, so
// delivery is at-least-once.
type Relay struct {
	store     RelayStore
	publisher EnvelopePublisher
	breaker   *CircuitBreaker
	logger    *slog.Logger
	metrics   *metrics.Metrics
	interval  time.Duration
	batchSize int
}

// NewRelay builds a relay with the given poll interval.
func NewRelay(store RelayStore, publisher EnvelopePublisher, logger *slog.Logger, m *metrics.Metrics, interval time.Duration) *Relay {
	if interval <= 0 {
		interval = time.Second
	}
	return &Relay{
		store:     store,
		publisher: publisher,
		breaker:   NewCircuitBreaker(5, 30*time.Second),
		logger:    logger,
		metrics:   m,
		interval:  interval,
		batchSize: 100,
	}
}

// Run polls until the context is cancelled.
func (r *Relay) Run(ctx context.Context) error {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := r.Drain(ctx); err != nil {
				r.logger.ErrorContext(ctx, "outbox drain failed", "error", err)
			}
		}
	}
}

// Drain publishes one batch of pending rows. Exported so tests and shutdown
// paths can flush without the ticker.
func (r *Relay) Drain(ctx context.Context) error {
	if !r.breaker.Allow() {
		return nil
	}

	entries, err := r.store.FetchPending(ctx, r.batchSize)
	if err != nil {
		return err
	}
	if r.metrics != nil {
		if count, err := r.store.PendingCount(ctx); err == nil {
			r.metrics.OutboxBacklog.Set(float64(count))
		}
	}

	var published []uuid.UUID
	for _, entry := range entries {
		var env events.Envelope
		if err := json.Unmarshal(entry.Envelope, &env); err != nil {
			// A row we can never decode would wedge the relay forever;
			// mark it published and surface it in the logs instead.
			r.logger.ErrorContext(ctx, "unreadable outbox row, dropping",
				"outbox_id", entry.ID,
				"subject", entry.Subject,
				"error", err,
			)
			published = append(published, entry.ID)
			continue
		}
		if err := r.publisher.PublishEnvelope(ctx, env, []byte(entry.AggregateID)); err != nil {
			r.breaker.RecordFailure()
			if markErr := r.store.MarkPublished(ctx, published); markErr != nil {
				return fmt.Errorf("mark published after partial drain: %w", markErr)
			}
			return fmt.Errorf("publish outbox row %s: %w", entry.ID, err)
		}
		r.breaker.RecordSuccess()
		published = append(published, entry.ID)
	}
	return r.store.MarkPublished(ctx, published)
}
