//go:build integration

package leaderboard

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"questify/pkg/testutil/containers"
)

func TestRedisBoardAgainstRealRedis(t *testing.T) {
	rc := containers.NewRedisContainer(t)
	t.Cleanup(func() {
		_ = rc.Client.Close()
		_ = rc.Container.Terminate(context.Background())
	})

	board := NewRedisBoard(rc.Client)
	ctx := context.Background()
	courseID := uuid.New()
	first, second := uuid.New(), uuid.New()

	require.NoError(t, board.Record(ctx, courseID, second, 80))
	require.NoError(t, board.Record(ctx, courseID, first, 120))

	entries, err := board.Top(ctx, courseID, 10)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, first, entries[0].StudentID)
	assert.Equal(t, 120, entries[0].Point)
	assert.Equal(t, 1, entries[0].Rank)
	assert.Equal(t, second, entries[1].StudentID)
	assert.Equal(t, 2, entries[1].Rank)

	// Scores are absolute, so replaying a progress update cannot inflate.
	require.NoError(t, board.Record(ctx, courseID, first, 120))
	entries, err = board.Top(ctx, courseID, 10)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, 120, entries[0].Point)
}
