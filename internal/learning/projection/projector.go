// Package projection keeps the learning service's read models in sync with
// auth and course-mgmt events.
package projection

import (
	"context"
	"fmt"
	"log/slog"

	"questify/internal/learning"
	"questify/internal/learning/store"
	"questify/pkg/apperrors"
	"questify/pkg/events"
	"questify/pkg/platform/kafka"
)

// Projector applies upstream events to the projection tables. Handlers are
// idempotent upserts and tolerate out-of-order delivery: an Updated event
// for an unknown id creates the row from the fields present, and a later
// Created event fills in the rest.
type Projector struct {
	store  store.Store
	logger *slog.Logger
}

func New(s store.Store, logger *slog.Logger) *Projector {
	return &Projector{store: s, logger: logger}
}

// Register wires the projector into a subject router.
func (p *Projector) Register(router *kafka.Router) {
	router.On(events.SubjectUserCreated, p.applyUserCreated)
	router.On(events.SubjectUserUpdated, p.applyUserUpdated)
	router.On(events.SubjectCourseCreated, p.applyCourseCreated)
	router.On(events.SubjectCourseUpdated, p.applyCourseUpdated)
	router.On(events.SubjectIslandCreated, p.applyIslandCreated)
	router.On(events.SubjectIslandUpdated, p.applyIslandUpdated)
}

func (p *Projector) logUpdateBeforeCreate(ctx context.Context, subject events.Subject, id string) {
	p.logger.DebugContext(ctx, "update arrived before create, projecting partial row",
		"subject", subject,
		"id", id,
	)
}

func (p *Projector) applyUserCreated(ctx context.Context, event events.Event) error {
	payload, ok := event.(*events.UserCreated)
	if !ok {
		return fmt.Errorf("unexpected payload %T for %s", event, events.SubjectUserCreated)
	}

	// A later Updated event may already have projected newer fields; only
	// fill what the existing row is missing.
	existing, err := p.store.UserProjectionByID(ctx, payload.ID)
	if err == nil {
		if existing.Gmail == "" {
			existing.Gmail = payload.Gmail
		}
		if existing.Role == "" {
			existing.Role = payload.Role
		}
		if existing.Status == "" {
			existing.Status = payload.Status
		}
		if existing.FirstName == "" {
			existing.FirstName = payload.FirstName
		}
		if existing.LastName == "" {
			existing.LastName = payload.LastName
		}
		return p.store.UpsertUserProjection(ctx, existing)
	}
	if !apperrors.Is(err, apperrors.CodeNotFound) {
		return err
	}

	return p.store.UpsertUserProjection(ctx, learning.UserProjection{
		ID:        payload.ID,
		Gmail:     payload.Gmail,
		FirstName: payload.FirstName,
		LastName:  payload.LastName,
		Role:      payload.Role,
		Status:    payload.Status,
		UpdatedAt: payload.CreatedAt,
	})
}

func (p *Projector) applyUserUpdated(ctx context.Context, event events.Event) error {
	payload, ok := event.(*events.UserUpdated)
	if !ok {
		return fmt.Errorf("unexpected payload %T for %s", event, events.SubjectUserUpdated)
	}

	projection, err := p.store.UserProjectionByID(ctx, payload.ID)
	if apperrors.Is(err, apperrors.CodeNotFound) {
		p.logUpdateBeforeCreate(ctx, events.SubjectUserUpdated, payload.ID.String())
		projection = learning.UserProjection{ID: payload.ID}
	} else if err != nil {
		return err
	}

	if payload.Gmail != nil {
		projection.Gmail = *payload.Gmail
	}
	if payload.FirstName != nil {
		projection.FirstName = *payload.FirstName
	}
	if payload.LastName != nil {
		projection.LastName = *payload.LastName
	}
	if payload.Role != nil {
		projection.Role = *payload.Role
	}
	if payload.Status != nil {
		projection.Status = *payload.Status
	}
	if payload.IsDeleted != nil {
		projection.IsDeleted = *payload.IsDeleted
	}
	projection.UpdatedAt = payload.UpdatedAt
	return p.store.UpsertUserProjection(ctx, projection)
}

func (p *Projector) applyCourseCreated(ctx context.Context, event events.Event) error {
	payload, ok := event.(*events.CourseCreated)
	if !ok {
		return fmt.Errorf("unexpected payload %T for %s", event, events.SubjectCourseCreated)
	}

	existing, err := p.store.CourseProjectionByID(ctx, payload.ID)
	if err == nil {
		if existing.Name == "" {
			existing.Name = payload.Name
		}
		if existing.Status == "" {
			existing.Status = payload.Status
		}
		existing.TeacherID = payload.TeacherID
		return p.store.UpsertCourseProjection(ctx, existing)
	}
	if !apperrors.Is(err, apperrors.CodeNotFound) {
		return err
	}

	return p.store.UpsertCourseProjection(ctx, learning.CourseProjection{
		ID:        payload.ID,
		TeacherID: payload.TeacherID,
		Name:      payload.Name,
		Status:    payload.Status,
		Price:     payload.Price,
		UpdatedAt: payload.CreatedAt,
	})
}

func (p *Projector) applyCourseUpdated(ctx context.Context, event events.Event) error {
	payload, ok := event.(*events.CourseUpdated)
	if !ok {
		return fmt.Errorf("unexpected payload %T for %s", event, events.SubjectCourseUpdated)
	}

	projection, err := p.store.CourseProjectionByID(ctx, payload.ID)
	if apperrors.Is(err, apperrors.CodeNotFound) {
		p.logUpdateBeforeCreate(ctx, events.SubjectCourseUpdated, payload.ID.String())
		projection = learning.CourseProjection{ID: payload.ID}
	} else if err != nil {
		return err
	}

	if payload.Name != nil {
		projection.Name = *payload.Name
	}
	if payload.Status != nil {
		projection.Status = *payload.Status
	}
	if payload.Price != nil {
		projection.Price = *payload.Price
	}
	if payload.IsDeleted != nil {
		projection.IsDeleted = *payload.IsDeleted
	}
	projection.UpdatedAt = payload.UpdatedAt
	return p.store.UpsertCourseProjection(ctx, projection)
}

func (p *Projector) applyIslandCreated(ctx context.Context, event events.Event) error {
	payload, ok := event.(*events.IslandCreated)
	if !ok {
		return fmt.Errorf("unexpected payload %T for %s", event, events.SubjectIslandCreated)
	}

	existing, err := p.store.IslandProjectionByID(ctx, payload.ID)
	if err == nil {
		if existing.Name == "" {
			existing.Name = payload.Name
		}
		existing.CourseID = payload.CourseID
		return p.store.UpsertIslandProjection(ctx, existing)
	}
	if !apperrors.Is(err, apperrors.CodeNotFound) {
		return err
	}

	return p.store.UpsertIslandProjection(ctx, learning.IslandProjection{
		ID:        payload.ID,
		CourseID:  payload.CourseID,
		Name:      payload.Name,
		Position:  payload.Position,
		UpdatedAt: payload.CreatedAt,
	})
}

func (p *Projector) applyIslandUpdated(ctx context.Context, event events.Event) error {
	payload, ok := event.(*events.IslandUpdated)
	if !ok {
		return fmt.Errorf("unexpected payload %T for %s", event, events.SubjectIslandUpdated)
	}

	projection, err := p.store.IslandProjectionByID(ctx, payload.ID)
	if apperrors.Is(err, apperrors.CodeNotFound) {
		p.logUpdateBeforeCreate(ctx, events.SubjectIslandUpdated, payload.ID.String())
		projection = learning.IslandProjection{ID: payload.ID}
	} else if err != nil {
		return err
	}

	if payload.Name != nil {
		projection.Name = *payload.Name
	}
	if payload.Position != nil {
		projection.Position = *payload.Position
	}
	if payload.IsDeleted != nil {
		projection.IsDeleted = *payload.IsDeleted
	}
	projection.UpdatedAt = payload.UpdatedAt
	return p.store.UpsertIslandProjection(ctx, projection)
}
