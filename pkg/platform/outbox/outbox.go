// Package outbox implements the transactional outbox: services append the
// sealed event envelope to an outbox table inside the same transaction as
// the domain mutation, and a relay publishes pending rows to the broker.
// The broker is the source of truth for cross-service state.
package outbox

import (
	"time"

	"github.com/google/uuid"

	"questify/pkg/events"
)

// Entry is one pending or published outbox row.
type Entry struct {
	ID            uuid.UUID
	AggregateType string
	AggregateID   string
	Subject       events.Subject
	Envelope      []byte // sealed events.Envelope, JSON
	CreatedAt     time.Time
	PublishedAt   *time.Time
}
