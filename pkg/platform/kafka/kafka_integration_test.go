//go:build integration

package kafka_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"questify/pkg/events"
	"questify/pkg/platform/kafka"
	"questify/pkg/platform/logger"
	"questify/pkg/platform/metrics"
	"questify/pkg/testutil/containers"
)

// Full broker round trip: ensure the topic, publish a sealed event, consume
// it through the subject router.
func TestPublishConsumeRoundTrip(t *testing.T) {
	rp := containers.NewRedpandaContainer(t)
	t.Cleanup(func() {
		_ = rp.Container.Terminate(context.Background())
	})

	log := logger.New("kafka-integration")
	m := metrics.NewWith(prometheus.NewRegistry(), "kafka_integration")
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	require.NoError(t, kafka.EnsureTopics(ctx, rp.Brokers, 1, events.TopicCourseMgmt))

	received := make(chan events.Event, 1)
	router := kafka.NewRouter(log, m)
	router.On(events.SubjectCourseCreated, func(_ context.Context, event events.Event) error {
		received <- event
		return nil
	})

	consumer, err := kafka.NewConsumer(rp.Brokers, "kafka-integration", []string{events.TopicCourseMgmt}, router, log)
	require.NoError(t, err)
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = consumer.Run(ctx)
	}()

	producer, err := kafka.NewProducer(rp.Brokers, log, m)
	require.NoError(t, err)
	defer producer.Close()

	sent := events.CourseCreated{
		ID:        uuid.New(),
		TeacherID: uuid.New(),
		Name:      "Go from zero",
		Status:    events.CourseStatusDraft,
		Price:     25,
		CreatedAt: time.Now().UTC().Truncate(time.Millisecond),
	}
	require.NoError(t, producer.Publish(ctx, sent))

	select {
	case event := <-received:
		created, ok := event.(*events.CourseCreated)
		require.True(t, ok)
		assert.Equal(t, sent.ID, created.ID)
		assert.Equal(t, sent.Name, created.Name)
	case <-time.After(30 * time.Second):
		t.Fatal("event not consumed within deadline")
	}

	cancel()
	select {
	case <-done:
	case <-time.After(10 * time.Second):
		t.Fatal("consumer did not stop")
	}
}
