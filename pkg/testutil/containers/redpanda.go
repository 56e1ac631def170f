//go:build integration

package containers

import (
	"context"
	"testing"

	"github.com/testcontainers/testcontainers-go"
	tcredpanda "github.com/testcontainers/testcontainers-go/modules/redpanda"
	"github.com/twmb/franz-go/pkg/kgo"
)

// RedpandaContainer wraps a testcontainers Redpanda broker.
type RedpandaContainer struct {
	Container testcontainers.Container
	Brokers   []string
}

// NewRedpandaContainer starts a single-node Redpanda broker.
func NewRedpandaContainer(t *testing.T) *RedpandaContainer {
	t.Helper()

	ctx := context.Background()
	container, err := tcredpanda.Run(ctx, "redpandadata/redpanda:v24.1.7")
	if err != nil {
		t.Fatalf("failed to start redpanda container: %v", err)
	}

	seed, err := container.KafkaSeedBroker(ctx)
	if err != nil {
		_ = container.Terminate(ctx)
		t.Fatalf("failed to get redpanda seed broker: %v", err)
	}

	return &RedpandaContainer{Container: container, Brokers: []string{seed}}
}

// NewClient builds a franz-go client against the container's broker.
func (c *RedpandaContainer) NewClient(t *testing.T, opts ...kgo.Opt) *kgo.Client {
	t.Helper()

	opts = append([]kgo.Opt{kgo.SeedBrokers(c.Brokers...)}, opts...)
	client, err := kgo.NewClient(opts...)
	if err != nil {
		t.Fatalf("failed to create kafka client: %v", err)
	}
	return client
}
