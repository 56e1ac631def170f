// Package service implements enrollment and progress tracking.
package service

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"questify/internal/learning"
	"questify/internal/learning/leaderboard"
	"questify/internal/learning/store"
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

type Service struct {
	store  store.Store
	outbox EventAppender
	board  leaderboard.Board
	run    TxRunner
	logger *slog.Logger
}

func New(s store.Store, outbox EventAppender, board leaderboard.Board, run TxRunner, logger *slog.Logger) *Service {
	return &Service{
		store:  s,
		outbox: outbox,
		board:  board,
		run:    run,
		logger: logger,
	}
}

// Enroll creates the current user's enrollment in a course along with their
// per-course inventory. Both rows and both events commit together.
func (s *Service) Enroll(ctx context.Context, courseID uuid.UUID) (learning.UserCourse, error) {
	current, ok := requestcontext.CurrentUser(ctx)
	if !ok {
		return learning.UserCourse{}, apperrors.NotAuthorized()
	}

	course, err := s.store.CourseProjectionByID(ctx, courseID)
	if err != nil {
		return learning.UserCourse{}, err
	}
	if course.IsDeleted {
		return learning.UserCourse{}, apperrors.NotFound()
	}
	if course.Status != events.CourseStatusApproved {
		return learning.UserCourse{}, apperrors.BadRequest("Course is not open for enrollment")
	}

	now := requestcontext.Now(ctx)
	userCourse := learning.UserCourse{
		ID:               uuid.New(),
		StudentID:        current.ID,
		CourseID:         courseID,
		Point:            0,
		CompletionStatus: events.CompletionNotStarted,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	inventory := learning.Inventory{
		ID:        uuid.New(),
		UserID:    current.ID,
		CourseID:  courseID,
		CreatedAt: now,
		UpdatedAt: now,
	}

	err = s.run(ctx, func(ctx context.Context) error {
		if err := s.store.CreateUserCourse(ctx, userCourse); err != nil {
			return err
		}
		if err := s.store.CreateInventory(ctx, inventory); err != nil {
			return err
		}
		if err := s.outbox.Append(ctx, events.UserCourseCreated{
			ID:               userCourse.ID,
			StudentID:        userCourse.StudentID,
			CourseID:         userCourse.CourseID,
			Point:            userCourse.Point,
			CompletionStatus: userCourse.CompletionStatus,
			CreatedAt:        userCourse.CreatedAt,
		}, "user_course", userCourse.ID.String()); err != nil {
			return err
		}
		return s.outbox.Append(ctx, events.UserCourseInventoryCreation{
			ID:        inventory.ID,
			UserID:    inventory.UserID,
			CourseID:  inventory.CourseID,
			Gold:      inventory.Gold,
			CreatedAt: inventory.CreatedAt,
		}, "inventory", inventory.ID.String())
	})
	if err != nil {
		return learning.UserCourse{}, err
	}

	if err := s.board.Record(ctx, courseID, current.ID, 0); err != nil {
		// The enrollment is committed; a stale leaderboard heals on the
		// next progress update.
		s.logger.WarnContext(ctx, "leaderboard record failed",
			"course_id", courseID.String(),
			"error", err.Error(),
		)
	}
	return userCourse, nil
}

// UpdateProgressParams carries the fields to change; nil means unchanged.
type UpdateProgressParams struct {
	Point            *int
	CompletionStatus *events.CompletionStatus
}

func validCompletionStatus(status events.CompletionStatus) bool {
	switch status {
	case events.CompletionNotStarted, events.CompletionInProgress,
		events.CompletionCompleted, events.CompletionFail:
		return true
	}
	return false
}

// UpdateProgress applies point or completion changes to an enrollment. Only
// the enrolled student or an admin may write.
func (s *Service) UpdateProgress(ctx context.Context, id uuid.UUID, params UpdateProgressParams) (learning.UserCourse, error) {
	current, ok := requestcontext.CurrentUser(ctx)
	if !ok {
		return learning.UserCourse{}, apperrors.NotAuthorized()
	}
	if params.Point != nil && *params.Point < 0 {
		return learning.UserCourse{}, apperrors.BadRequest("Points must not be negative")
	}
	if params.CompletionStatus != nil && !validCompletionStatus(*params.CompletionStatus) {
		return learning.UserCourse{}, apperrors.BadRequest("Invalid completion status")
	}

	var userCourse learning.UserCourse
	err := s.run(ctx, func(ctx context.Context) error {
		var err error
		userCourse, err = s.store.UserCourseByID(ctx, id)
		if err != nil {
			return err
		}
		if userCourse.StudentID != current.ID && current.Role != events.RoleAdmin {
			return apperrors.NotAuthorized()
		}

		if params.Point != nil {
			userCourse.Point = *params.Point
		}
		if params.CompletionStatus != nil {
			userCourse.CompletionStatus = *params.CompletionStatus
		}
		userCourse.UpdatedAt = requestcontext.Now(ctx)

		if err := s.store.UpdateUserCourse(ctx, userCourse); err != nil {
			return err
		}
		return s.outbox.Append(ctx, events.UserCourseUpdated{
			ID:               userCourse.ID,
			Point:            params.Point,
			CompletionStatus: params.CompletionStatus,
			UpdatedAt:        userCourse.UpdatedAt,
		}, "user_course", userCourse.ID.String())
	})
	if err != nil {
		return learning.UserCourse{}, err
	}

	if params.Point != nil {
		if err := s.board.Record(ctx, userCourse.CourseID, userCourse.StudentID, userCourse.Point); err != nil {
			s.logger.WarnContext(ctx, "leaderboard record failed",
				"course_id", userCourse.CourseID.String(),
				"error", err.Error(),
			)
		}
	}
	return userCourse, nil
}

// ListEnrollments returns the current user's enrollments.
func (s *Service) ListEnrollments(ctx context.Context) ([]learning.UserCourse, error) {
	current, ok := requestcontext.CurrentUser(ctx)
	if !ok {
		return nil, apperrors.NotAuthorized()
	}
	return s.store.ListUserCoursesByStudent(ctx, current.ID)
}

// GetEnrollment fetches one enrollment by id. Peer services call this to
// validate enrollment before granting access.
func (s *Service) GetEnrollment(ctx context.Context, id uuid.UUID) (learning.UserCourse, error) {
	return s.store.UserCourseByID(ctx, id)
}

// GetEnrollmentByStudentAndCourse fetches a student's enrollment in a
// course, for peers that know the pair but not the enrollment id.
func (s *Service) GetEnrollmentByStudentAndCourse(ctx context.Context, studentID, courseID uuid.UUID) (learning.UserCourse, error) {
	return s.store.UserCourseByStudentAndCourse(ctx, studentID, courseID)
}

// GetInventory returns the current user's inventory for one course.
func (s *Service) GetInventory(ctx context.Context, courseID uuid.UUID) (learning.Inventory, error) {
	current, ok := requestcontext.CurrentUser(ctx)
	if !ok {
		return learning.Inventory{}, apperrors.NotAuthorized()
	}
	return s.store.InventoryByUserAndCourse(ctx, current.ID, courseID)
}

// Leaderboard returns the top students of a course by points.
func (s *Service) Leaderboard(ctx context.Context, courseID uuid.UUID, limit int64) ([]learning.LeaderboardEntry, error) {
	return s.board.Top(ctx, courseID, limit)
}
