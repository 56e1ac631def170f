// Package leaderboard ranks students within a course by points.
package leaderboard

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"questify/internal/learning"
)

// Board records point totals and serves ranked slices per course.
type Board interface {
	Record(ctx context.Context, courseID, studentID uuid.UUID, points int) error
	Top(ctx context.Context, courseID uuid.UUID, limit int64) ([]learning.LeaderboardEntry, error)
}

type courseScores map[uuid.UUID]int

// Memory is an in-memory Board for tests and local development.
type Memory struct {
	mu     sync.RWMutex
	boards map[uuid.UUID]courseScores
}

func NewMemory() *Memory {
	return &Memory{boards: make(map[uuid.UUID]courseScores)}
}

func (m *Memory) Record(_ context.Context, courseID, studentID uuid.UUID, points int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	scores, ok := m.boards[courseID]
	if !ok {
		scores = make(courseScores)
		m.boards[courseID] = scores
	}
	scores[studentID] = points
	return nil
}

func (m *Memory) Top(_ context.Context, courseID uuid.UUID, limit int64) ([]learning.LeaderboardEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	scores := m.boards[courseID]
	entries := make([]learning.LeaderboardEntry, 0, len(scores))
	for studentID, points := range scores {
		entries = append(entries, learning.LeaderboardEntry{StudentID: studentID, Point: points})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Point != entries[j].Point {
			return entries[i].Point > entries[j].Point
		}
		return entries[i].StudentID.String() < entries[j].StudentID.String()
	})
	if limit > 0 && int64(len(entries)) > limit {
		entries = entries[:limit]
	}
	for i := range entries {
		entries[i].Rank = i + 1
	}
	return entries, nil
}
