// Package service implements code problem authoring and attempt judging.
package service

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"questify/internal/codeproblem"
	"questify/internal/codeproblem/judge"
	"questify/internal/codeproblem/store"
	"questify/pkg/apperrors"
	"questify/pkg/events"
	"questify/pkg/requestcontext"
)

// EventAppender stages events in the outbox inside the ambient transaction.
type EventAppender interface {
	Append(ctx context.Context, event events.Event, aggregateType, aggregateID string) error
}

// TxRunner wraps fn in a transaction scope.
type TxRunner func(ctx context.Context, fn func(ctx context.Context) error) error

// EnrollmentChecker asks the learning service whether a student is enrolled
// in a course. Submissions from students outside the course are rejected.
type EnrollmentChecker interface {
	Enrolled(ctx context.Context, studentID, courseID uuid.UUID) (bool, error)
}

type Service struct {
	store       store.Store
	outbox      EventAppender
	enrollments EnrollmentChecker
	run         TxRunner
	logger      *slog.Logger
}

func New(s store.Store, outbox EventAppender, enrollments EnrollmentChecker, run TxRunner, logger *slog.Logger) *Service {
	return &Service{
		store:       s,
		outbox:      outbox,
		enrollments: enrollments,
		run:         run,
		logger:      logger,
	}
}

// canEdit allows the challenge's teacher and admins.
func canEdit(current requestcontext.User, challenge codeproblem.ChallengeProjection) bool {
	return current.Role == events.RoleAdmin || challenge.TeacherID == current.ID
}

type CreateProblemParams struct {
	Title       string
	Description string
	StarterCode string
	TestCases   []codeproblem.TestCase
	GoldReward  int
	PointReward int
}

func validateProblem(title string, gold, point int) error {
	if title == "" {
		return apperrors.BadRequest("Problem title is required")
	}
	if gold < 0 || point < 0 {
		return apperrors.BadRequest("Rewards must not be negative")
	}
	return nil
}

// CreateProblem attaches a coding exercise to a challenge the current user
// teaches.
func (s *Service) CreateProblem(ctx context.Context, challengeID uuid.UUID, params CreateProblemParams) (codeproblem.CodeProblem, error) {
	current, ok := requestcontext.CurrentUser(ctx)
	if !ok {
		return codeproblem.CodeProblem{}, apperrors.NotAuthorized()
	}
	if err := validateProblem(params.Title, params.GoldReward, params.PointReward); err != nil {
		return codeproblem.CodeProblem{}, err
	}

	challenge, err := s.store.ChallengeProjectionByID(ctx, challengeID)
	if err != nil {
		return codeproblem.CodeProblem{}, err
	}
	if challenge.IsDeleted {
		return codeproblem.CodeProblem{}, apperrors.NotFound()
	}
	if !canEdit(current, challenge) {
		return codeproblem.CodeProblem{}, apperrors.NotAuthorized()
	}

	now := requestcontext.Now(ctx)
	problem := codeproblem.CodeProblem{
		ID:          uuid.New(),
		ChallengeID: challengeID,
		Title:       params.Title,
		Description: params.Description,
		StarterCode: params.StarterCode,
		TestCases:   params.TestCases,
		GoldReward:  params.GoldReward,
		PointReward: params.PointReward,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.store.CreateProblem(ctx, problem); err != nil {
		return codeproblem.CodeProblem{}, err
	}
	return problem, nil
}

// UpdateProblemParams carries the fields to change; nil means unchanged.
type UpdateProblemParams struct {
	Title       *string
	Description *string
	StarterCode *string
	TestCases   *[]codeproblem.TestCase
	GoldReward  *int
	PointReward *int
	IsDeleted   *bool
}

func (s *Service) UpdateProblem(ctx context.Context, id uuid.UUID, params UpdateProblemParams) (codeproblem.CodeProblem, error) {
	current, ok := requestcontext.CurrentUser(ctx)
	if !ok {
		return codeproblem.CodeProblem{}, apperrors.NotAuthorized()
	}
	if params.Title != nil && *params.Title == "" {
		return codeproblem.CodeProblem{}, apperrors.BadRequest("Problem title is required")
	}
	if (params.GoldReward != nil && *params.GoldReward < 0) ||
		(params.PointReward != nil && *params.PointReward < 0) {
		return codeproblem.CodeProblem{}, apperrors.BadRequest("Rewards must not be negative")
	}

	problem, err := s.store.ProblemByID(ctx, id)
	if err != nil {
		return codeproblem.CodeProblem{}, err
	}
	challenge, err := s.store.ChallengeProjectionByID(ctx, problem.ChallengeID)
	if err != nil {
		return codeproblem.CodeProblem{}, err
	}
	if !canEdit(current, challenge) {
		return codeproblem.CodeProblem{}, apperrors.NotAuthorized()
	}

	if params.Title != nil {
		problem.Title = *params.Title
	}
	if params.Description != nil {
		problem.Description = *params.Description
	}
	if params.StarterCode != nil {
		problem.StarterCode = *params.StarterCode
	}
	if params.TestCases != nil {
		problem.TestCases = *params.TestCases
	}
	if params.GoldReward != nil {
		problem.GoldReward = *params.GoldReward
	}
	if params.PointReward != nil {
		problem.PointReward = *params.PointReward
	}
	if params.IsDeleted != nil {
		problem.IsDeleted = *params.IsDeleted
	}
	problem.UpdatedAt = requestcontext.Now(ctx)

	if err := s.store.UpdateProblem(ctx, problem); err != nil {
		return codeproblem.CodeProblem{}, err
	}
	return problem, nil
}

func (s *Service) GetProblem(ctx context.Context, id uuid.UUID) (codeproblem.CodeProblem, error) {
	return s.store.ProblemByID(ctx, id)
}

func (s *Service) ListProblems(ctx context.Context, challengeID uuid.UUID) ([]codeproblem.CodeProblem, error) {
	return s.store.ListProblemsByChallenge(ctx, challengeID)
}

// SubmitParams is one submission: the code and the outputs it produced per
// test case.
type SubmitParams struct {
	Code    string
	Outputs []string
}

// Submit records the attempt, judges it, and stages AttemptCreated followed
// by AttemptUpdated with the verdict. Both rows and both events commit
// together.
func (s *Service) Submit(ctx context.Context, problemID uuid.UUID, params SubmitParams) (codeproblem.Attempt, error) {
	current, ok := requestcontext.CurrentUser(ctx)
	if !ok {
		return codeproblem.Attempt{}, apperrors.NotAuthorized()
	}

	problem, err := s.store.ProblemByID(ctx, problemID)
	if err != nil {
		return codeproblem.Attempt{}, err
	}

	challenge, err := s.store.ChallengeProjectionByID(ctx, problem.ChallengeID)
	if err != nil {
		return codeproblem.Attempt{}, err
	}
	enrolled, err := s.enrollments.Enrolled(ctx, current.ID, challenge.CourseID)
	if err != nil {
		return codeproblem.Attempt{}, err
	}
	if !enrolled {
		return codeproblem.Attempt{}, apperrors.BadRequest("You must be enrolled in this course")
	}

	now := requestcontext.Now(ctx)
	attempt := codeproblem.Attempt{
		ID:            uuid.New(),
		UserID:        current.ID,
		CodeProblemID: problemID,
		Code:          params.Code,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	verdict := judge.Evaluate(problem, params.Outputs)

	err = s.run(ctx, func(ctx context.Context) error {
		if err := s.store.CreateAttempt(ctx, attempt); err != nil {
			return err
		}
		if err := s.outbox.Append(ctx, events.AttemptCreated{
			ID:            attempt.ID,
			UserID:        attempt.UserID,
			CodeProblemID: attempt.CodeProblemID,
			CreatedAt:     attempt.CreatedAt,
		}, "attempt", attempt.ID.String()); err != nil {
			return err
		}

		attempt.Gold = verdict.Gold
		attempt.Point = verdict.Point
		attempt.Progress = verdict.Progress
		attempt.Finished = verdict.Finished
		if err := s.store.UpdateAttempt(ctx, attempt); err != nil {
			return err
		}
		return s.outbox.Append(ctx, events.AttemptUpdated{
			ID:        attempt.ID,
			Gold:      &attempt.Gold,
			Point:     &attempt.Point,
			Progress:  &attempt.Progress,
			Finished:  &attempt.Finished,
			UpdatedAt: attempt.UpdatedAt,
		}, "attempt", attempt.ID.String())
	})
	if err != nil {
		return codeproblem.Attempt{}, err
	}
	return attempt, nil
}

// GetAttempt fetches one attempt. Only its owner or an admin may read it.
func (s *Service) GetAttempt(ctx context.Context, id uuid.UUID) (codeproblem.Attempt, error) {
	current, ok := requestcontext.CurrentUser(ctx)
	if !ok {
		return codeproblem.Attempt{}, apperrors.NotAuthorized()
	}
	attempt, err := s.store.AttemptByID(ctx, id)
	if err != nil {
		return codeproblem.Attempt{}, err
	}
	if attempt.UserID != current.ID && current.Role != events.RoleAdmin {
		return codeproblem.Attempt{}, apperrors.NotAuthorized()
	}
	return attempt, nil
}

// ListAttempts returns the current user's attempts against one problem.
func (s *Service) ListAttempts(ctx context.Context, problemID uuid.UUID) ([]codeproblem.Attempt, error) {
	current, ok := requestcontext.CurrentUser(ctx)
	if !ok {
		return nil, apperrors.NotAuthorized()
	}
	return s.store.ListAttemptsByUserAndProblem(ctx, current.ID, problemID)
}
