// Package store persists code problems, attempts and the challenge
// projection for the code-problem service.
package store

import (
	"context"

	"github.com/google/uuid"

	"questify/internal/codeproblem"
)

// Store is the code-problem service's persistence surface. Missing rows
// come back as apperrors.NotFound.
type Store interface {
	CreateProblem(ctx context.Context, p codeproblem.CodeProblem) error
	UpdateProblem(ctx context.Context, p codeproblem.CodeProblem) error
	ProblemByID(ctx context.Context, id uuid.UUID) (codeproblem.CodeProblem, error)
	ListProblemsByChallenge(ctx context.Context, challengeID uuid.UUID) ([]codeproblem.CodeProblem, error)

	CreateAttempt(ctx context.Context, a codeproblem.Attempt) error
	UpdateAttempt(ctx context.Context, a codeproblem.Attempt) error
	AttemptByID(ctx context.Context, id uuid.UUID) (codeproblem.Attempt, error)
	ListAttemptsByUserAndProblem(ctx context.Context, userID, problemID uuid.UUID) ([]codeproblem.Attempt, error)

	UpsertChallengeProjection(ctx context.Context, c codeproblem.ChallengeProjection) error
	ChallengeProjectionByID(ctx context.Context, id uuid.UUID) (codeproblem.ChallengeProjection, error)
}
