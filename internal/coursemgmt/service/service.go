// Package service implements course authoring: the course lifecycle, the
// island/level/challenge/slide hierarchy, and item templates. Every mutation
// commits its rows and its event in one transaction; the outbox relay
// publishes afterwards.
package service

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"questify/internal/coursemgmt"
	"questify/internal/coursemgmt/store"
	"questify/pkg/apperrors"
	"questify/pkg/events"
	"questify/pkg/requestcontext"
)

// EventAppender stages an event for publication in the caller's transaction.
type EventAppender interface {
	Append(ctx context.Context, event events.Event, aggregateType, aggregateID string) error
}

// TxRunner wraps fn in a transaction scope.
type TxRunner func(ctx context.Context, fn func(ctx context.Context) error) error

type Service struct {
	store  store.Store
	outbox EventAppender
	run    TxRunner
	logger *slog.Logger
}

func New(s store.Store, outbox EventAppender, run TxRunner, logger *slog.Logger) *Service {
	return &Service{store: s, outbox: outbox, run: run, logger: logger}
}

// canEdit passes when the current user owns the course or is an admin.
func canEdit(ctx context.Context, course coursemgmt.Course) *apperrors.Error {
	user, ok := requestcontext.CurrentUser(ctx)
	if !ok {
		return apperrors.NotAuthorized()
	}
	if user.Role == events.RoleAdmin || user.ID == course.TeacherID {
		return nil
	}
	return apperrors.NotAuthorized()
}

// editableCourse loads a course and checks edit rights in one step.
func (s *Service) editableCourse(ctx context.Context, id uuid.UUID) (coursemgmt.Course, error) {
	course, err := s.store.CourseByID(ctx, id)
	if err != nil {
		return coursemgmt.Course{}, err
	}
	if err := canEdit(ctx, course); err != nil {
		return coursemgmt.Course{}, err
	}
	return course, nil
}

// CreateCourseParams are the authoring inputs for a new course.
type CreateCourseParams struct {
	Name               string
	Description        string
	BackgroundImage    string
	Thumbnail          string
	LearningObjectives []string
	Requirements       []string
	Price              float64
}

// CreateCourse opens a draft owned by the current teacher.
func (s *Service) CreateCourse(ctx context.Context, params CreateCourseParams) (coursemgmt.Course, error) {
	user, ok := requestcontext.CurrentUser(ctx)
	if !ok {
		return coursemgmt.Course{}, apperrors.NotAuthorized()
	}
	if params.Name == "" {
		return coursemgmt.Course{}, apperrors.BadRequest("Course name is required")
	}
	if params.Price < 0 {
		return coursemgmt.Course{}, apperrors.BadRequest("Price must not be negative")
	}

	now := requestcontext.Now(ctx)
	course := coursemgmt.Course{
		ID:                 uuid.New(),
		TeacherID:          user.ID,
		Name:               params.Name,
		Status:             events.CourseStatusDraft,
		Description:        params.Description,
		BackgroundImage:    params.BackgroundImage,
		Thumbnail:          params.Thumbnail,
		LearningObjectives: params.LearningObjectives,
		Requirements:       params.Requirements,
		Price:              params.Price,
		CreatedAt:          now,
		UpdatedAt:          now,
	}

	err := s.run(ctx, func(ctx context.Context) error {
		if err := s.store.CreateCourse(ctx, course); err != nil {
			return err
		}
		return s.outbox.Append(ctx, events.CourseCreated{
			ID:                 course.ID,
			TeacherID:          course.TeacherID,
			Name:               course.Name,
			Status:             course.Status,
			Description:        course.Description,
			BackgroundImage:    course.BackgroundImage,
			Thumbnail:          course.Thumbnail,
			LearningObjectives: course.LearningObjectives,
			Requirements:       course.Requirements,
			Price:              course.Price,
			CreatedAt:          course.CreatedAt,
		}, "course", course.ID.String())
	})
	if err != nil {
		return coursemgmt.Course{}, err
	}

	s.logger.InfoContext(ctx, "course created",
		"request_id", requestcontext.RequestID(ctx),
		"course_id", course.ID,
		"teacher_id", course.TeacherID,
	)
	return course, nil
}

// UpdateCourseParams carries the fields the update touches; nil means
// unchanged.
type UpdateCourseParams struct {
	Name               *string
	Description        *string
	BackgroundImage    *string
	Thumbnail          *string
	LearningObjectives *[]string
	Requirements       *[]string
	Price              *float64
}

// UpdateCourse applies the present fields and publishes a CourseUpdated
// carrying only those fields.
func (s *Service) UpdateCourse(ctx context.Context, id uuid.UUID, params UpdateCourseParams) (coursemgmt.Course, error) {
	if params.Name != nil && *params.Name == "" {
		return coursemgmt.Course{}, apperrors.BadRequest("Course name is required")
	}
	if params.Price != nil && *params.Price < 0 {
		return coursemgmt.Course{}, apperrors.BadRequest("Price must not be negative")
	}

	var course coursemgmt.Course
	err := s.run(ctx, func(ctx context.Context) error {
		var err error
		course, err = s.editableCourse(ctx, id)
		if err != nil {
			return err
		}
		if params.Name != nil {
			course.Name = *params.Name
		}
		if params.Description != nil {
			course.Description = *params.Description
		}
		if params.BackgroundImage != nil {
			course.BackgroundImage = *params.BackgroundImage
		}
		if params.Thumbnail != nil {
			course.Thumbnail = *params.Thumbnail
		}
		if params.LearningObjectives != nil {
			course.LearningObjectives = *params.LearningObjectives
		}
		if params.Requirements != nil {
			course.Requirements = *params.Requirements
		}
		if params.Price != nil {
			course.Price = *params.Price
		}
		course.UpdatedAt = requestcontext.Now(ctx)
		if err := s.store.UpdateCourse(ctx, course); err != nil {
			return err
		}
		return s.outbox.Append(ctx, events.CourseUpdated{
			ID:                 course.ID,
			Name:               params.Name,
			Description:        params.Description,
			BackgroundImage:    params.BackgroundImage,
			Thumbnail:          params.Thumbnail,
			LearningObjectives: params.LearningObjectives,
			Requirements:       params.Requirements,
			Price:              params.Price,
			UpdatedAt:          course.UpdatedAt,
		}, "course", course.ID.String())
	})
	if err != nil {
		return coursemgmt.Course{}, err
	}
	return course, nil
}

// DeleteCourse soft-deletes a course; projections drop it on the
// corresponding event.
func (s *Service) DeleteCourse(ctx context.Context, id uuid.UUID) error {
	return s.run(ctx, func(ctx context.Context) error {
		course, err := s.editableCourse(ctx, id)
		if err != nil {
			return err
		}
		course.IsDeleted = true
		course.UpdatedAt = requestcontext.Now(ctx)
		if err := s.store.UpdateCourse(ctx, course); err != nil {
			return err
		}
		deleted := true
		return s.outbox.Append(ctx, events.CourseUpdated{
			ID:        course.ID,
			IsDeleted: &deleted,
			UpdatedAt: course.UpdatedAt,
		}, "course", course.ID.String())
	})
}

// SubmitCourse moves a draft (or a rejected course, after rework) into
// review.
func (s *Service) SubmitCourse(ctx context.Context, id uuid.UUID) (coursemgmt.Course, error) {
	return s.transitionCourse(ctx, id, events.CourseStatusPending,
		events.CourseStatusDraft, events.CourseStatusRejected)
}

// ApproveCourse accepts a pending course. Admin only; guards enforce that
// at the transport.
func (s *Service) ApproveCourse(ctx context.Context, id uuid.UUID) (coursemgmt.Course, error) {
	return s.transitionCourse(ctx, id, events.CourseStatusApproved, events.CourseStatusPending)
}

// RejectCourse turns a pending course back to its teacher.
func (s *Service) RejectCourse(ctx context.Context, id uuid.UUID) (coursemgmt.Course, error) {
	return s.transitionCourse(ctx, id, events.CourseStatusRejected, events.CourseStatusPending)
}

func (s *Service) transitionCourse(ctx context.Context, id uuid.UUID, to events.CourseStatus, from ...events.CourseStatus) (coursemgmt.Course, error) {
	var course coursemgmt.Course
	err := s.run(ctx, func(ctx context.Context) error {
		var err error
		course, err = s.editableCourse(ctx, id)
		if err != nil {
			return err
		}
		allowed := false
		for _, status := range from {
			if course.Status == status {
				allowed = true
				break
			}
		}
		if !allowed {
			return apperrors.BadRequest("Course cannot move to " + string(to) + " from " + string(course.Status))
		}
		course.Status = to
		course.UpdatedAt = requestcontext.Now(ctx)
		if err := s.store.UpdateCourse(ctx, course); err != nil {
			return err
		}
		return s.outbox.Append(ctx, events.CourseUpdated{
			ID:        course.ID,
			Status:    &to,
			UpdatedAt: course.UpdatedAt,
		}, "course", course.ID.String())
	})
	if err != nil {
		return coursemgmt.Course{}, err
	}

	s.logger.InfoContext(ctx, "course status changed",
		"request_id", requestcontext.RequestID(ctx),
		"course_id", course.ID,
		"status", to,
	)
	return course, nil
}

// GetCourse loads one live course.
func (s *Service) GetCourse(ctx context.Context, id uuid.UUID) (coursemgmt.Course, error) {
	return s.store.CourseByID(ctx, id)
}

// ListCourses returns every live course, oldest first.
func (s *Service) ListCourses(ctx context.Context) ([]coursemgmt.Course, error) {
	return s.store.ListCourses(ctx)
}
