package service

import (
	"context"

	"github.com/google/uuid"

	"questify/internal/coursemgmt"
	"questify/pkg/apperrors"
	"questify/pkg/events"
	"questify/pkg/requestcontext"
)

func validEffectType(et events.ItemEffectType) bool {
	switch et {
	case events.ItemEffectGoldBoost, events.ItemEffectPointBoost, events.ItemEffectHintReveal:
		return true
	}
	return false
}

// CreateItemTemplateParams are the admin inputs for a purchasable item kind.
type CreateItemTemplateParams struct {
	Name        string
	Gold        int
	EffectType  events.ItemEffectType
	Description string
	Img         string
}

func (s *Service) CreateItemTemplate(ctx context.Context, params CreateItemTemplateParams) (coursemgmt.ItemTemplate, error) {
	if params.Name == "" {
		return coursemgmt.ItemTemplate{}, apperrors.BadRequest("Item name is required")
	}
	if params.Gold < 0 {
		return coursemgmt.ItemTemplate{}, apperrors.BadRequest("Gold cost must not be negative")
	}
	if !validEffectType(params.EffectType) {
		return coursemgmt.ItemTemplate{}, apperrors.BadRequest("Invalid item effect type")
	}

	now := requestcontext.Now(ctx)
	tpl := coursemgmt.ItemTemplate{
		ID:          uuid.New(),
		Name:        params.Name,
		Gold:        params.Gold,
		EffectType:  params.EffectType,
		Description: params.Description,
		Img:         params.Img,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	err := s.run(ctx, func(ctx context.Context) error {
		if err := s.store.CreateItemTemplate(ctx, tpl); err != nil {
			return err
		}
		return s.outbox.Append(ctx, events.ItemTemplateCreated{
			ID:          tpl.ID,
			Name:        tpl.Name,
			Gold:        tpl.Gold,
			EffectType:  tpl.EffectType,
			Description: tpl.Description,
			Img:         tpl.Img,
			CreatedAt:   tpl.CreatedAt,
		}, "item_template", tpl.ID.String())
	})
	if err != nil {
		return coursemgmt.ItemTemplate{}, err
	}
	return tpl, nil
}

// UpdateItemTemplateParams carries the touched fields; nil means unchanged.
type UpdateItemTemplateParams struct {
	Name        *string
	Gold        *int
	EffectType  *events.ItemEffectType
	Description *string
	Img         *string
	IsDeleted   *bool
}

func (s *Service) UpdateItemTemplate(ctx context.Context, id uuid.UUID, params UpdateItemTemplateParams) (coursemgmt.ItemTemplate, error) {
	if params.Name != nil && *params.Name == "" {
		return coursemgmt.ItemTemplate{}, apperrors.BadRequest("Item name is required")
	}
	if params.Gold != nil && *params.Gold < 0 {
		return coursemgmt.ItemTemplate{}, apperrors.BadRequest("Gold cost must not be negative")
	}
	if params.EffectType != nil && !validEffectType(*params.EffectType) {
		return coursemgmt.ItemTemplate{}, apperrors.BadRequest("Invalid item effect type")
	}

	var tpl coursemgmt.ItemTemplate
	err := s.run(ctx, func(ctx context.Context) error {
		var err error
		tpl, err = s.store.ItemTemplateByID(ctx, id)
		if err != nil {
			return err
		}
		if params.Name != nil {
			tpl.Name = *params.Name
		}
		if params.Gold != nil {
			tpl.Gold = *params.Gold
		}
		if params.EffectType != nil {
			tpl.EffectType = *params.EffectType
		}
		if params.Description != nil {
			tpl.Description = *params.Description
		}
		if params.Img != nil {
			tpl.Img = *params.Img
		}
		if params.IsDeleted != nil {
			tpl.IsDeleted = *params.IsDeleted
		}
		tpl.UpdatedAt = requestcontext.Now(ctx)
		if err := s.store.UpdateItemTemplate(ctx, tpl); err != nil {
			return err
		}
		return s.outbox.Append(ctx, events.ItemTemplateUpdated{
			ID:          tpl.ID,
			Name:        params.Name,
			Gold:        params.Gold,
			EffectType:  params.EffectType,
			Description: params.Description,
			Img:         params.Img,
			IsDeleted:   params.IsDeleted,
			UpdatedAt:   tpl.UpdatedAt,
		}, "item_template", tpl.ID.String())
	})
	if err != nil {
		return coursemgmt.ItemTemplate{}, err
	}
	return tpl, nil
}

func (s *Service) ListItemTemplates(ctx context.Context) ([]coursemgmt.ItemTemplate, error) {
	return s.store.ListItemTemplates(ctx)
}

// AttachItemTemplate puts an item kind in a course's shop.
func (s *Service) AttachItemTemplate(ctx context.Context, courseID, itemTemplateID uuid.UUID) error {
	return s.run(ctx, func(ctx context.Context) error {
		if _, err := s.editableCourse(ctx, courseID); err != nil {
			return err
		}
		if _, err := s.store.ItemTemplateByID(ctx, itemTemplateID); err != nil {
			return err
		}
		link := coursemgmt.CourseItemTemplate{
			CourseID:       courseID,
			ItemTemplateID: itemTemplateID,
			CreatedAt:      requestcontext.Now(ctx),
			UpdatedAt:      requestcontext.Now(ctx),
		}
		if err := s.store.UpsertCourseItemTemplate(ctx, link); err != nil {
			return err
		}
		return s.outbox.Append(ctx, events.CourseItemTemplateCreated{
			CourseID:       link.CourseID,
			ItemTemplateID: link.ItemTemplateID,
			CreatedAt:      link.CreatedAt,
		}, "course_item_template", link.CourseID.String())
	})
}

// DetachItemTemplate removes an item kind from a course's shop by
// soft-deleting the link.
func (s *Service) DetachItemTemplate(ctx context.Context, courseID, itemTemplateID uuid.UUID) error {
	return s.run(ctx, func(ctx context.Context) error {
		if _, err := s.editableCourse(ctx, courseID); err != nil {
			return err
		}
		now := requestcontext.Now(ctx)
		link := coursemgmt.CourseItemTemplate{
			CourseID:       courseID,
			ItemTemplateID: itemTemplateID,
			IsDeleted:      true,
			CreatedAt:      now,
			UpdatedAt:      now,
		}
		if err := s.store.UpsertCourseItemTemplate(ctx, link); err != nil {
			return err
		}
		deleted := true
		return s.outbox.Append(ctx, events.CourseItemTemplateUpdated{
			CourseID:       link.CourseID,
			ItemTemplateID: link.ItemTemplateID,
			IsDeleted:      &deleted,
			UpdatedAt:      link.UpdatedAt,
		}, "course_item_template", link.CourseID.String())
	})
}

func (s *Service) ListCourseItemTemplates(ctx context.Context, courseID uuid.UUID) ([]coursemgmt.CourseItemTemplate, error) {
	return s.store.ListCourseItemTemplates(ctx, courseID)
}
