package service

import (
	"context"

	"github.com/google/uuid"

	"questify/internal/coursemgmt"
	"questify/pkg/apperrors"
	"questify/pkg/events"
	"questify/pkg/requestcontext"
)

// CreateIslandTemplateParams are the admin inputs for a reusable theme.
type CreateIslandTemplateParams struct {
	Name     string
	ImageURL string
}

func (s *Service) CreateIslandTemplate(ctx context.Context, params CreateIslandTemplateParams) (coursemgmt.IslandTemplate, error) {
	if params.Name == "" {
		return coursemgmt.IslandTemplate{}, apperrors.BadRequest("Template name is required")
	}

	now := requestcontext.Now(ctx)
	tpl := coursemgmt.IslandTemplate{
		ID:        uuid.New(),
		Name:      params.Name,
		ImageURL:  params.ImageURL,
		CreatedAt: now,
		UpdatedAt: now,
	}
	err := s.run(ctx, func(ctx context.Context) error {
		if err := s.store.CreateIslandTemplate(ctx, tpl); err != nil {
			return err
		}
		return s.outbox.Append(ctx, events.IslandTemplateCreated{
			ID:        tpl.ID,
			Name:      tpl.Name,
			ImageURL:  tpl.ImageURL,
			CreatedAt: tpl.CreatedAt,
		}, "island_template", tpl.ID.String())
	})
	if err != nil {
		return coursemgmt.IslandTemplate{}, err
	}
	return tpl, nil
}

// UpdateIslandTemplateParams carries the touched fields; nil means
// unchanged.
type UpdateIslandTemplateParams struct {
	Name      *string
	ImageURL  *string
	IsDeleted *bool
}

func (s *Service) UpdateIslandTemplate(ctx context.Context, id uuid.UUID, params UpdateIslandTemplateParams) (coursemgmt.IslandTemplate, error) {
	if params.Name != nil && *params.Name == "" {
		return coursemgmt.IslandTemplate{}, apperrors.BadRequest("Template name is required")
	}

	var tpl coursemgmt.IslandTemplate
	err := s.run(ctx, func(ctx context.Context) error {
		var err error
		tpl, err = s.store.IslandTemplateByID(ctx, id)
		if err != nil {
			return err
		}
		if params.Name != nil {
			tpl.Name = *params.Name
		}
		if params.ImageURL != nil {
			tpl.ImageURL = *params.ImageURL
		}
		if params.IsDeleted != nil {
			tpl.IsDeleted = *params.IsDeleted
		}
		tpl.UpdatedAt = requestcontext.Now(ctx)
		if err := s.store.UpdateIslandTemplate(ctx, tpl); err != nil {
			return err
		}
		return s.outbox.Append(ctx, events.IslandTemplateUpdated{
			ID:        tpl.ID,
			Name:      params.Name,
			ImageURL:  params.ImageURL,
			IsDeleted: params.IsDeleted,
			UpdatedAt: tpl.UpdatedAt,
		}, "island_template", tpl.ID.String())
	})
	if err != nil {
		return coursemgmt.IslandTemplate{}, err
	}
	return tpl, nil
}

func (s *Service) ListIslandTemplates(ctx context.Context) ([]coursemgmt.IslandTemplate, error) {
	return s.store.ListIslandTemplates(ctx)
}

// CreateIslandParams are the authoring inputs for a new island.
type CreateIslandParams struct {
	TemplateID      *uuid.UUID
	Name            string
	Position        int
	BackgroundImage string
}

// CreateIsland adds an island to a course the current user can edit.
func (s *Service) CreateIsland(ctx context.Context, courseID uuid.UUID, params CreateIslandParams) (coursemgmt.Island, error) {
	if params.Name == "" {
		return coursemgmt.Island{}, apperrors.BadRequest("Island name is required")
	}

	now := requestcontext.Now(ctx)
	island := coursemgmt.Island{
		ID:              uuid.New(),
		CourseID:        courseID,
		TemplateID:      params.TemplateID,
		Name:            params.Name,
		Position:        params.Position,
		BackgroundImage: params.BackgroundImage,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	err := s.run(ctx, func(ctx context.Context) error {
		if _, err := s.editableCourse(ctx, courseID); err != nil {
			return err
		}
		if params.TemplateID != nil {
			if _, err := s.store.IslandTemplateByID(ctx, *params.TemplateID); err != nil {
				return err
			}
		}
		if err := s.store.CreateIsland(ctx, island); err != nil {
			return err
		}
		return s.outbox.Append(ctx, events.IslandCreated{
			ID:              island.ID,
			CourseID:        island.CourseID,
			TemplateID:      island.TemplateID,
			Name:            island.Name,
			Position:        island.Position,
			BackgroundImage: island.BackgroundImage,
			CreatedAt:       island.CreatedAt,
		}, "island", island.ID.String())
	})
	if err != nil {
		return coursemgmt.Island{}, err
	}
	return island, nil
}

// UpdateIslandParams carries the touched fields; nil means unchanged.
type UpdateIslandParams struct {
	Name            *string
	Position        *int
	TemplateID      *uuid.UUID
	BackgroundImage *string
	IsDeleted       *bool
}

func (s *Service) UpdateIsland(ctx context.Context, id uuid.UUID, params UpdateIslandParams) (coursemgmt.Island, error) {
	if params.Name != nil && *params.Name == "" {
		return coursemgmt.Island{}, apperrors.BadRequest("Island name is required")
	}

	var island coursemgmt.Island
	err := s.run(ctx, func(ctx context.Context) error {
		var err error
		island, err = s.store.IslandByID(ctx, id)
		if err != nil {
			return err
		}
		if _, err := s.editableCourse(ctx, island.CourseID); err != nil {
			return err
		}
		if params.Name != nil {
			island.Name = *params.Name
		}
		if params.Position != nil {
			island.Position = *params.Position
		}
		if params.TemplateID != nil {
			if _, err := s.store.IslandTemplateByID(ctx, *params.TemplateID); err != nil {
				return err
			}
			island.TemplateID = params.TemplateID
		}
		if params.BackgroundImage != nil {
			island.BackgroundImage = *params.BackgroundImage
		}
		if params.IsDeleted != nil {
			island.IsDeleted = *params.IsDeleted
		}
		island.UpdatedAt = requestcontext.Now(ctx)
		if err := s.store.UpdateIsland(ctx, island); err != nil {
			return err
		}
		return s.outbox.Append(ctx, events.IslandUpdated{
			ID:              island.ID,
			Name:            params.Name,
			Position:        params.Position,
			TemplateID:      params.TemplateID,
			BackgroundImage: params.BackgroundImage,
			IsDeleted:       params.IsDeleted,
			UpdatedAt:       island.UpdatedAt,
		}, "island", island.ID.String())
	})
	if err != nil {
		return coursemgmt.Island{}, err
	}
	return island, nil
}

func (s *Service) ListIslands(ctx context.Context, courseID uuid.UUID) ([]coursemgmt.Island, error) {
	return s.store.ListIslands(ctx, courseID)
}

// AddPrerequisite records that islandID unlocks only after prerequisiteID.
// Both islands must live in the same course.
func (s *Service) AddPrerequisite(ctx context.Context, islandID, prerequisiteID uuid.UUID) error {
	if islandID == prerequisiteID {
		return apperrors.BadRequest("An island cannot be its own prerequisite")
	}
	return s.run(ctx, func(ctx context.Context) error {
		island, err := s.store.IslandByID(ctx, islandID)
		if err != nil {
			return err
		}
		prerequisite, err := s.store.IslandByID(ctx, prerequisiteID)
		if err != nil {
			return err
		}
		if island.CourseID != prerequisite.CourseID {
			return apperrors.BadRequest("Prerequisite must belong to the same course")
		}
		if _, err := s.editableCourse(ctx, island.CourseID); err != nil {
			return err
		}
		link := coursemgmt.PrerequisiteIsland{
			IslandID:             islandID,
			PrerequisiteIslandID: prerequisiteID,
			CreatedAt:            requestcontext.Now(ctx),
		}
		if err := s.store.CreatePrerequisite(ctx, link); err != nil {
			return err
		}
		return s.outbox.Append(ctx, events.PrerequisiteIslandCreated{
			IslandID:             link.IslandID,
			PrerequisiteIslandID: link.PrerequisiteIslandID,
			CreatedAt:            link.CreatedAt,
		}, "prerequisite_island", link.IslandID.String())
	})
}

// RemovePrerequisite deletes a prerequisite link.
func (s *Service) RemovePrerequisite(ctx context.Context, islandID, prerequisiteID uuid.UUID) error {
	return s.run(ctx, func(ctx context.Context) error {
		island, err := s.store.IslandByID(ctx, islandID)
		if err != nil {
			return err
		}
		if _, err := s.editableCourse(ctx, island.CourseID); err != nil {
			return err
		}
		if err := s.store.DeletePrerequisite(ctx, islandID, prerequisiteID); err != nil {
			return err
		}
		return s.outbox.Append(ctx, events.PrerequisiteIslandDeleted{
			IslandID:             islandID,
			PrerequisiteIslandID: prerequisiteID,
			DeletedAt:            requestcontext.Now(ctx),
		}, "prerequisite_island", islandID.String())
	})
}

func (s *Service) ListPrerequisites(ctx context.Context, islandID uuid.UUID) ([]coursemgmt.PrerequisiteIsland, error) {
	return s.store.ListPrerequisites(ctx, islandID)
}
