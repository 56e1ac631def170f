package ratelimit

import (
	"context"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "ratelimit:"

// Redis is a sliding-window store shared across replicas. Each admission is
// a member in a per-key sorted set scored by its unix timestamp; members
// older than the window are trimmed on every check.
type Redis struct {
	client *redis.Client
}

func NewRedis(client *redis.Client) *Redis {
	return &Redis{client: client}
}

func (r *Redis) Allow(ctx context.Context, key string, limit int, window time.Duration) (Result, error) {
	now := time.Now()
	cutoff := now.Add(-window)
	redisKey := redisKeyPrefix + key

	pipe := r.client.TxPipeline()
	pipe.ZRemRangeByScore(ctx, redisKey, "0", strconv.FormatInt(cutoff.UnixNano(), 10))
	count := pipe.ZCard(ctx, redisKey)
	if _, err := pipe.Exec(ctx); err != nil {
		return Result{}, err
	}

	if count.Val() >= int64(limit) {
		oldest, err := r.client.ZRangeWithScores(ctx, redisKey, 0, 0).Result()
		if err != nil {
			return Result{}, err
		}
		resetAt := now.Add(window)
		if len(oldest) > 0 {
			resetAt = time.Unix(0, int64(oldest[0].Score)).Add(window)
		}
		return Result{Allowed: false, Limit: limit, ResetAt: resetAt}, nil
	}

	pipe = r.client.TxPipeline()
	pipe.ZAdd(ctx, redisKey, redis.Z{
		Score:  float64(now.UnixNano()),
		Member: uuid.NewString(),
	})
	pipe.Expire(ctx, redisKey, window)
	if _, err := pipe.Exec(ctx); err != nil {
		return Result{}, err
	}

	return Result{
		Allowed:   true,
		Remaining: limit - int(count.Val()) - 1,
		Limit:     limit,
		ResetAt:   now.Add(window),
	}, nil
}
