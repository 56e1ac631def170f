package leaderboard

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"questify/internal/learning"
)

const keyPrefix = "leaderboard:course:"

// RedisBoard keeps one sorted set per course, scored by points. All service
// instances share it, so rankings stay consistent across replicas.
type RedisBoard struct {
	client *redis.Client
}

func NewRedisBoard(client *redis.Client) *RedisBoard {
	return &RedisBoard{client: client}
}

// Record sets the student's score to their current point total. Scores are
// absolute, so replaying an update is idempotent.
func (b *RedisBoard) Record(ctx context.Context, courseID, studentID uuid.UUID, points int) error {
	err := b.client.ZAdd(ctx, keyPrefix+courseID.String(), redis.Z{
		Score:  float64(points),
		Member: studentID.String(),
	}).Err()
	if err != nil {
		return fmt.Errorf("record leaderboard score: %w", err)
	}
	return nil
}

// Top returns up to limit students ordered by points, highest first.
func (b *RedisBoard) Top(ctx context.Context, courseID uuid.UUID, limit int64) ([]learning.LeaderboardEntry, error) {
	if limit <= 0 {
		limit = 10
	}
	scored, err := b.client.ZRevRangeWithScores(ctx, keyPrefix+courseID.String(), 0, limit-1).Result()
	if err != nil {
		return nil, fmt.Errorf("read leaderboard: %w", err)
	}

	entries := make([]learning.LeaderboardEntry, 0, len(scored))
	for i, z := range scored {
		member, ok := z.Member.(string)
		if !ok {
			continue
		}
		studentID, err := uuid.Parse(member)
		if err != nil {
			continue
		}
		entries = append(entries, learning.LeaderboardEntry{
			StudentID: studentID,
			Point:     int(z.Score),
			Rank:      i + 1,
		})
	}
	return entries, nil
}
