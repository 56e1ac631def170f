package outbox

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"questify/pkg/events"
)

type fakeRelayStore struct {
	pending []Entry
	marked  []uuid.UUID
}

func (s *fakeRelayStore) FetchPending(_ context.Context, limit int) ([]Entry, error) {
	if limit > len(s.pending) {
		limit = len(s.pending)
	}
	return s.pending[:limit], nil
}

func (s *fakeRelayStore) MarkPublished(_ context.Context, ids []uuid.UUID) error {
	s.marked = append(s.marked, ids...)
	remaining := s.pending[:0]
	for _, entry := range s.pending {
		published := false
		for _, id := range ids {
			if entry.ID == id {
				published = true
				break
			}
		}
		if !published {
			remaining = append(remaining, entry)
		}
	}
	s.pending = remaining
	return nil
}

func (s *fakeRelayStore) PendingCount(context.Context) (int, error) {
	return len(s.pending), nil
}

type capturingPublisher struct {
	envelopes []events.Envelope
	keys      []string
	failures  int
}

func (p *capturingPublisher) PublishEnvelope(_ context.Context, env events.Envelope, key []byte) error {
	if p.failures > 0 {
		p.failures--
		return errors.New("broker unavailable")
	}
	p.envelopes = append(p.envelopes, env)
	p.keys = append(p.keys, string(key))
	return nil
}

func entryFor(t *testing.T, event events.Event, aggregateID string) Entry {
	t.Helper()
	env, err := events.Seal(event)
	require.NoError(t, err)
	envelope, err := json.Marshal(env)
	require.NoError(t, err)
	return Entry{
		ID:          env.EventID,
		AggregateID: aggregateID,
		Subject:     env.Subject,
		Envelope:    envelope,
		CreatedAt:   time.Now(),
	}
}

func TestDrainPublishesAndMarks(t *testing.T) {
	courseID := uuid.New()
	store := &fakeRelayStore{pending: []Entry{
		entryFor(t, events.CourseCreated{ID: courseID, TeacherID: uuid.New(), Name: "Go 101", Status: events.CourseStatusDraft, CreatedAt: time.Now()}, courseID.String()),
	}}
	publisher := &capturingPublisher{}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	relay := NewRelay(store, publisher, logger, nil, time.Second)
	require.NoError(t, relay.Drain(context.Background()))

	require.Len(t, publisher.envelopes, 1)
	assert.Equal(t, events.SubjectCourseCreated, publisher.envelopes[0].Subject)
	assert.Equal(t, courseID.String(), publisher.keys[0], "record key should be the aggregate id")
	assert.Empty(t, store.pending, "published rows should be marked")
}

func TestDrainKeepsFailedRowsPending(t *testing.T) {
	first := uuid.New()
	second := uuid.New()
	store := &fakeRelayStore{pending: []Entry{
		entryFor(t, events.UserCreated{ID: first, Gmail: "a@gmail.com", Role: events.RoleStudent, Status: events.UserStatusActive, CreatedAt: time.Now()}, first.String()),
		entryFor(t, events.UserCreated{ID: second, Gmail: "b@gmail.com", Role: events.RoleStudent, Status: events.UserStatusActive, CreatedAt: time.Now()}, second.String()),
	}}
	publisher := &capturingPublisher{failures: 1}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	relay := NewRelay(store, publisher, logger, nil, time.Second)
	assert.Error(t, relay.Drain(context.Background()))
	assert.Len(t, store.pending, 2, "nothing published, nothing marked")

	// Broker recovered: the same rows drain on the next tick.
	require.NoError(t, relay.Drain(context.Background()))
	assert.Empty(t, store.pending)
	assert.Len(t, publisher.envelopes, 2)
}

func TestBreakerOpensAfterRepeatedFailures(t *testing.T) {
	cb := NewCircuitBreaker(3, time.Hour)
	for i := 0; i < 3; i++ {
		assert.True(t, cb.Allow())
		cb.RecordFailure()
	}
	assert.False(t, cb.Allow(), "circuit should be open after threshold failures")

	cb.RecordSuccess()
	assert.True(t, cb.Allow(), "success closes the circuit")
}
