package kafka

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type flakyHandler struct {
	calls    int
	failures int
}

func (h *flakyHandler) Handle(context.Context, *Message) error {
	h.calls++
	if h.calls <= h.failures {
		return errors.New("db connection reset")
	}
	return nil
}

func newRetryConsumer(handler Handler) *Consumer {
	return &Consumer{
		handler: handler,
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		backoff: time.Millisecond,
	}
}

func TestDispatchRetriesTransientFailure(t *testing.T) {
	handler := &flakyHandler{failures: 2}
	c := newRetryConsumer(handler)

	err := c.dispatch(context.Background(), &Message{Topic: "questify.users", Offset: 7})
	require.NoError(t, err)
	assert.Equal(t, 3, handler.calls)
}

func TestDispatchGivesUpAfterAttempts(t *testing.T) {
	handler := &flakyHandler{failures: 10}
	c := newRetryConsumer(handler)

	err := c.dispatch(context.Background(), &Message{Topic: "questify.users", Offset: 7})
	require.Error(t, err)
	assert.Equal(t, handlerAttempts, handler.calls)
}

func TestDispatchStopsOnCancel(t *testing.T) {
	handler := &flakyHandler{failures: 10}
	c := newRetryConsumer(handler)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := c.dispatch(ctx, &Message{Topic: "questify.users", Offset: 7})
	require.Error(t, err)
	assert.Equal(t, 1, handler.calls)
}
