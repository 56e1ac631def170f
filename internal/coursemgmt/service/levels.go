package service

import (
	"context"

	"github.com/google/uuid"

	"questify/internal/coursemgmt"
	"questify/pkg/apperrors"
	"questify/pkg/events"
	"questify/pkg/requestcontext"
)

func validContentType(ct events.LevelContentType) bool {
	return ct == events.LevelContentLesson || ct == events.LevelContentChallenge
}

// CreateLevelParams are the authoring inputs for a new level.
type CreateLevelParams struct {
	Name        string
	Position    int
	ContentType events.LevelContentType
}

// CreateLevel adds a level to an island in a course the current user can
// edit.
func (s *Service) CreateLevel(ctx context.Context, islandID uuid.UUID, params CreateLevelParams) (coursemgmt.Level, error) {
	if params.Name == "" {
		return coursemgmt.Level{}, apperrors.BadRequest("Level name is required")
	}
	if !validContentType(params.ContentType) {
		return coursemgmt.Level{}, apperrors.BadRequest("Invalid level content type")
	}

	now := requestcontext.Now(ctx)
	level := coursemgmt.Level{
		ID:          uuid.New(),
		IslandID:    islandID,
		Name:        params.Name,
		Position:    params.Position,
		ContentType: params.ContentType,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	err := s.run(ctx, func(ctx context.Context) error {
		island, err := s.store.IslandByID(ctx, islandID)
		if err != nil {
			return err
		}
		if _, err := s.editableCourse(ctx, island.CourseID); err != nil {
			return err
		}
		if err := s.store.CreateLevel(ctx, level); err != nil {
			return err
		}
		return s.outbox.Append(ctx, events.LevelCreated{
			ID:          level.ID,
			IslandID:    level.IslandID,
			Name:        level.Name,
			Position:    level.Position,
			ContentType: level.ContentType,
			CreatedAt:   level.CreatedAt,
		}, "level", level.ID.String())
	})
	if err != nil {
		return coursemgmt.Level{}, err
	}
	return level, nil
}

// UpdateLevelParams carries the touched fields; nil means unchanged.
type UpdateLevelParams struct {
	Name        *string
	Position    *int
	ContentType *events.LevelContentType
	IsDeleted   *bool
}

func (s *Service) UpdateLevel(ctx context.Context, id uuid.UUID, params UpdateLevelParams) (coursemgmt.Level, error) {
	if params.Name != nil && *params.Name == "" {
		return coursemgmt.Level{}, apperrors.BadRequest("Level name is required")
	}
	if params.ContentType != nil && !validContentType(*params.ContentType) {
		return coursemgmt.Level{}, apperrors.BadRequest("Invalid level content type")
	}

	var level coursemgmt.Level
	err := s.run(ctx, func(ctx context.Context) error {
		var err error
		level, err = s.store.LevelByID(ctx, id)
		if err != nil {
			return err
		}
		island, err := s.store.IslandByID(ctx, level.IslandID)
		if err != nil {
			return err
		}
		if _, err := s.editableCourse(ctx, island.CourseID); err != nil {
			return err
		}
		if params.Name != nil {
			level.Name = *params.Name
		}
		if params.Position != nil {
			level.Position = *params.Position
		}
		if params.ContentType != nil {
			level.ContentType = *params.ContentType
		}
		if params.IsDeleted != nil {
			level.IsDeleted = *params.IsDeleted
		}
		level.UpdatedAt = requestcontext.Now(ctx)
		if err := s.store.UpdateLevel(ctx, level); err != nil {
			return err
		}
		return s.outbox.Append(ctx, events.LevelUpdated{
			ID:          level.ID,
			Name:        params.Name,
			Position:    params.Position,
			ContentType: params.ContentType,
			IsDeleted:   params.IsDeleted,
			UpdatedAt:   level.UpdatedAt,
		}, "level", level.ID.String())
	})
	if err != nil {
		return coursemgmt.Level{}, err
	}
	return level, nil
}

func (s *Service) ListLevels(ctx context.Context, islandID uuid.UUID) ([]coursemgmt.Level, error) {
	return s.store.ListLevels(ctx, islandID)
}

// CreateChallenge attaches challenge content to a challenge-type level. The
// challenge inherits the course and teacher of its level's island.
func (s *Service) CreateChallenge(ctx context.Context, levelID uuid.UUID) (coursemgmt.Challenge, error) {
	now := requestcontext.Now(ctx)
	var challenge coursemgmt.Challenge
	err := s.run(ctx, func(ctx context.Context) error {
		level, err := s.store.LevelByID(ctx, levelID)
		if err != nil {
			return err
		}
		if level.ContentType != events.LevelContentChallenge {
			return apperrors.BadRequest("Level does not hold challenge content")
		}
		island, err := s.store.IslandByID(ctx, level.IslandID)
		if err != nil {
			return err
		}
		course, err := s.editableCourse(ctx, island.CourseID)
		if err != nil {
			return err
		}
		challenge = coursemgmt.Challenge{
			ID:        uuid.New(),
			LevelID:   levelID,
			CourseID:  course.ID,
			TeacherID: course.TeacherID,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := s.store.CreateChallenge(ctx, challenge); err != nil {
			return err
		}
		return s.outbox.Append(ctx, events.ChallengeCreated{
			ID:        challenge.ID,
			LevelID:   challenge.LevelID,
			CourseID:  challenge.CourseID,
			TeacherID: challenge.TeacherID,
			CreatedAt: challenge.CreatedAt,
		}, "challenge", challenge.ID.String())
	})
	if err != nil {
		return coursemgmt.Challenge{}, err
	}
	return challenge, nil
}

// UpdateChallengeParams carries the touched fields; nil means unchanged.
type UpdateChallengeParams struct {
	TeacherID *uuid.UUID
	IsDeleted *bool
}

func (s *Service) UpdateChallenge(ctx context.Context, id uuid.UUID, params UpdateChallengeParams) (coursemgmt.Challenge, error) {
	var challenge coursemgmt.Challenge
	err := s.run(ctx, func(ctx context.Context) error {
		var err error
		challenge, err = s.store.ChallengeByID(ctx, id)
		if err != nil {
			return err
		}
		if _, err := s.editableCourse(ctx, challenge.CourseID); err != nil {
			return err
		}
		if params.TeacherID != nil {
			challenge.TeacherID = *params.TeacherID
		}
		if params.IsDeleted != nil {
			challenge.IsDeleted = *params.IsDeleted
		}
		challenge.UpdatedAt = requestcontext.Now(ctx)
		if err := s.store.UpdateChallenge(ctx, challenge); err != nil {
			return err
		}
		return s.outbox.Append(ctx, events.ChallengeUpdated{
			ID:        challenge.ID,
			TeacherID: params.TeacherID,
			IsDeleted: params.IsDeleted,
			UpdatedAt: challenge.UpdatedAt,
		}, "challenge", challenge.ID.String())
	})
	if err != nil {
		return coursemgmt.Challenge{}, err
	}
	return challenge, nil
}

// UpsertSlideParams authors or edits one slide of a challenge. A zero ID
// creates a new slide.
type UpsertSlideParams struct {
	ID          uuid.UUID
	Title       *string
	Description *string
	Index       *int
	Type        *events.SlideType
	IsDeleted   *bool
}

// UpsertSlide writes a slide and publishes SlideUpdated; consumers key on
// slide id, so authoring and editing share one event shape.
func (s *Service) UpsertSlide(ctx context.Context, challengeID uuid.UUID, params UpsertSlideParams) (coursemgmt.Slide, error) {
	if params.Type != nil && *params.Type != events.SlideTypeLesson && *params.Type != events.SlideTypeQuiz {
		return coursemgmt.Slide{}, apperrors.BadRequest("Invalid slide type")
	}

	var slide coursemgmt.Slide
	err := s.run(ctx, func(ctx context.Context) error {
		challenge, err := s.store.ChallengeByID(ctx, challengeID)
		if err != nil {
			return err
		}
		if _, err := s.editableCourse(ctx, challenge.CourseID); err != nil {
			return err
		}

		if params.ID == uuid.Nil {
			slide = coursemgmt.Slide{
				ID:          uuid.New(),
				ChallengeID: challengeID,
				Type:        events.SlideTypeLesson,
			}
		} else {
			slide, err = s.store.SlideByID(ctx, params.ID)
			if err != nil {
				return err
			}
			if slide.ChallengeID != challengeID {
				return apperrors.BadRequest("Slide belongs to another challenge")
			}
		}
		if params.Title != nil {
			slide.Title = *params.Title
		}
		if params.Description != nil {
			slide.Description = *params.Description
		}
		if params.Index != nil {
			slide.Index = *params.Index
		}
		if params.Type != nil {
			slide.Type = *params.Type
		}
		if params.IsDeleted != nil {
			slide.IsDeleted = *params.IsDeleted
		}
		slide.UpdatedAt = requestcontext.Now(ctx)
		if err := s.store.UpsertSlide(ctx, slide); err != nil {
			return err
		}
		return s.outbox.Append(ctx, events.SlideUpdated{
			ID:          slide.ID,
			ChallengeID: slide.ChallengeID,
			Title:       params.Title,
			Description: params.Description,
			Index:       params.Index,
			Type:        params.Type,
			IsDeleted:   params.IsDeleted,
			UpdatedAt:   slide.UpdatedAt,
		}, "slide", slide.ID.String())
	})
	if err != nil {
		return coursemgmt.Slide{}, err
	}
	return slide, nil
}

func (s *Service) ListSlides(ctx context.Context, challengeID uuid.UUID) ([]coursemgmt.Slide, error) {
	return s.store.ListSlides(ctx, challengeID)
}
