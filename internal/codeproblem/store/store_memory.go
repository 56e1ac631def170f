package store

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"questify/internal/codeproblem"
	"questify/pkg/apperrors"
)

// Memory is an in-memory Store used by unit tests and local development.
type Memory struct {
	mu         sync.RWMutex
	problems   map[uuid.UUID]codeproblem.CodeProblem
	attempts   map[uuid.UUID]codeproblem.Attempt
	challenges map[uuid.UUID]codeproblem.ChallengeProjection
}

func NewMemory() *Memory {
	return &Memory{
		problems:   make(map[uuid.UUID]codeproblem.CodeProblem),
		attempts:   make(map[uuid.UUID]codeproblem.Attempt),
		challenges: make(map[uuid.UUID]codeproblem.ChallengeProjection),
	}
}

func (m *Memory) CreateProblem(_ context.Context, p codeproblem.CodeProblem) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.problems[p.ID] = p
	return nil
}

func (m *Memory) UpdateProblem(_ context.Context, p codeproblem.CodeProblem) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.problems[p.ID]; !ok {
		return apperrors.NotFound()
	}
	m.problems[p.ID] = p
	return nil
}

func (m *Memory) ProblemByID(_ context.Context, id uuid.UUID) (codeproblem.CodeProblem, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.problems[id]
	if !ok || p.IsDeleted {
		return codeproblem.CodeProblem{}, apperrors.NotFound()
	}
	return p, nil
}

func (m *Memory) ListProblemsByChallenge(_ context.Context, challengeID uuid.UUID) ([]codeproblem.CodeProblem, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []codeproblem.CodeProblem
	for _, p := range m.problems {
		if p.ChallengeID == challengeID && !p.IsDeleted {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (m *Memory) CreateAttempt(_ context.Context, a codeproblem.Attempt) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.attempts[a.ID] = a
	return nil
}

func (m *Memory) UpdateAttempt(_ context.Context, a codeproblem.Attempt) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.attempts[a.ID]; !ok {
		return apperrors.NotFound()
	}
	m.attempts[a.ID] = a
	return nil
}

func (m *Memory) AttemptByID(_ context.Context, id uuid.UUID) (codeproblem.Attempt, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	a, ok := m.attempts[id]
	if !ok {
		return codeproblem.Attempt{}, apperrors.NotFound()
	}
	return a, nil
}

func (m *Memory) ListAttemptsByUserAndProblem(_ context.Context, userID, problemID uuid.UUID) ([]codeproblem.Attempt, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []codeproblem.Attempt
	for _, a := range m.attempts {
		if a.UserID == userID && a.CodeProblemID == problemID {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (m *Memory) UpsertChallengeProjection(_ context.Context, c codeproblem.ChallengeProjection) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.challenges[c.ID] = c
	return nil
}

func (m *Memory) ChallengeProjectionByID(_ context.Context, id uuid.UUID) (codeproblem.ChallengeProjection, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	c, ok := m.challenges[id]
	if !ok {
		return codeproblem.ChallengeProjection{}, apperrors.NotFound()
	}
	return c, nil
}
