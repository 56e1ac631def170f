package leaderboard

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRedisBoard(t *testing.T) *RedisBoard {
	t.Helper()
	mr := miniredis.RunT(t)
	return NewRedisBoard(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
}

func TestRedisBoardRanksByPoints(t *testing.T) {
	board := newRedisBoard(t)
	ctx := context.Background()
	courseID := uuid.New()

	first, second, third := uuid.New(), uuid.New(), uuid.New()
	require.NoError(t, board.Record(ctx, courseID, second, 50))
	require.NoError(t, board.Record(ctx, courseID, first, 120))
	require.NoError(t, board.Record(ctx, courseID, third, 10))

	entries, err := board.Top(ctx, courseID, 10)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, first, entries[0].StudentID)
	assert.Equal(t, 120, entries[0].Point)
	assert.Equal(t, 1, entries[0].Rank)
	assert.Equal(t, second, entries[1].StudentID)
	assert.Equal(t, third, entries[2].StudentID)
}

func TestRedisBoardRecordIsAbsolute(t *testing.T) {
	board := newRedisBoard(t)
	ctx := context.Background()
	courseID := uuid.New()
	student := uuid.New()

	require.NoError(t, board.Record(ctx, courseID, student, 40))
	require.NoError(t, board.Record(ctx, courseID, student, 40))
	require.NoError(t, board.Record(ctx, courseID, student, 55))

	entries, err := board.Top(ctx, courseID, 10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, 55, entries[0].Point)
}

func TestRedisBoardLimit(t *testing.T) {
	board := newRedisBoard(t)
	ctx := context.Background()
	courseID := uuid.New()

	for i := 0; i < 5; i++ {
		require.NoError(t, board.Record(ctx, courseID, uuid.New(), i*10))
	}

	entries, err := board.Top(ctx, courseID, 2)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
	assert.Equal(t, 40, entries[0].Point)
}

func TestRedisBoardEmptyCourse(t *testing.T) {
	board := newRedisBoard(t)

	entries, err := board.Top(context.Background(), uuid.New(), 10)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
