package revocation

import (
	"context"
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/redis/go-redis/v9"
)

var isRevokedDurationMs = promauto.NewHistogram(prometheus.HistogramOpts{
	Name:    "questify_token_revocation_check_duration_ms",
	Help:    "Latency of token revocation checks in milliseconds",
	Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 25},
})

const revokedKeyPrefix = "revoked:jti:"

// RedisList is a Redis-backed revocation list. All service instances share
// it, so a sign-out on one instance is visible everywhere immediately.
type RedisList struct {
	client *redis.Client
}

func NewRedisList(client *redis.Client) *RedisList {
	return &RedisList{client: client}
}

// Revoke marks a token id as revoked until the token would have expired
// anyway. The key existence is the marker; the value carries no meaning.
func (l *RedisList) Revoke(ctx context.Context, jti string, ttl time.Duration) error {
	if jti == "" || ttl <= 0 {
		return nil
	}
	return l.client.Set(ctx, revokedKeyPrefix+jti, "1", ttl).Err()
}

// IsRevoked reports whether a token id is on the list. A missing key means
// not revoked, or already expired and harmless either way.
func (l *RedisList) IsRevoked(ctx context.Context, jti string) (bool, error) {
	start := time.Now()
	defer func() {
		isRevokedDurationMs.Observe(float64(time.Since(start).Microseconds()) / 1000.0)
	}()

	if jti == "" {
		return false, nil
	}
	_, err := l.client.Get(ctx, revokedKeyPrefix+jti).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
