package kafka

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"questify/pkg/events"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func sealToMessage(t *testing.T, event events.Event) *Message {
	t.Helper()
	env, err := events.Seal(event)
	require.NoError(t, err)
	value, err := json.Marshal(env)
	require.NoError(t, err)
	return &Message{Topic: events.TopicFor(env.Subject), Value: value}
}

func TestRouterDispatchesBySubject(t *testing.T) {
	router := NewRouter(discardLogger(), nil)

	var got *events.CourseCreated
	router.On(events.SubjectCourseCreated, func(_ context.Context, event events.Event) error {
		got = event.(*events.CourseCreated)
		return nil
	})

	created := events.CourseCreated{
		ID:        uuid.New(),
		TeacherID: uuid.New(),
		Name:      "Intro to Go",
		Status:    events.CourseStatusDraft,
		CreatedAt: time.Now().UTC().Truncate(time.Second),
	}
	require.NoError(t, router.Handle(context.Background(), sealToMessage(t, created)))

	require.NotNil(t, got)
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, "Intro to Go", got.Name)
}

func TestRouterSkipsUnregisteredSubjects(t *testing.T) {
	router := NewRouter(discardLogger(), nil)
	msg := sealToMessage(t, events.UserCreated{
		ID:        uuid.New(),
		Gmail:     "student@gmail.com",
		Role:      events.RoleStudent,
		Status:    events.UserStatusActive,
		CreatedAt: time.Now(),
	})
	assert.NoError(t, router.Handle(context.Background(), msg))
}

func TestRouterRejectsMalformedEnvelope(t *testing.T) {
	router := NewRouter(discardLogger(), nil)
	err := router.Handle(context.Background(), &Message{Topic: events.TopicUsers, Value: []byte("{not json")})
	assert.Error(t, err)
}
