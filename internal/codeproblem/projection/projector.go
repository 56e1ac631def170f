// Package projection keeps the challenge read model in sync with
// course-mgmt events.
package projection

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"questify/internal/codeproblem"
	"questify/internal/codeproblem/store"
	"questify/pkg/apperrors"
	"questify/pkg/events"
	"questify/pkg/platform/kafka"
)

// Projector applies challenge events to the projection table. Handlers are
// idempotent upserts; an Updated event for an unknown id creates the row
// from the fields present.
type Projector struct {
	store  store.Store
	logger *slog.Logger
}

func New(s store.Store, logger *slog.Logger) *Projector {
	return &Projector{store: s, logger: logger}
}

// Register wires the projector into a subject router.
func (p *Projector) Register(router *kafka.Router) {
	router.On(events.SubjectChallengeCreated, p.applyChallengeCreated)
	router.On(events.SubjectChallengeUpdated, p.applyChallengeUpdated)
}

func (p *Projector) applyChallengeCreated(ctx context.Context, event events.Event) error {
	payload, ok := event.(*events.ChallengeCreated)
	if !ok {
		return fmt.Errorf("unexpected payload %T for %s", event, events.SubjectChallengeCreated)
	}

	existing, err := p.store.ChallengeProjectionByID(ctx, payload.ID)
	if err == nil {
		existing.CourseID = payload.CourseID
		if existing.TeacherID == uuid.Nil {
			existing.TeacherID = payload.TeacherID
		}
		return p.store.UpsertChallengeProjection(ctx, existing)
	}
	if !apperrors.Is(err, apperrors.CodeNotFound) {
		return err
	}

	return p.store.UpsertChallengeProjection(ctx, codeproblem.ChallengeProjection{
		ID:        payload.ID,
		CourseID:  payload.CourseID,
		TeacherID: payload.TeacherID,
		UpdatedAt: payload.CreatedAt,
	})
}

func (p *Projector) applyChallengeUpdated(ctx context.Context, event events.Event) error {
	payload, ok := event.(*events.ChallengeUpdated)
	if !ok {
		return fmt.Errorf("unexpected payload %T for %s", event, events.SubjectChallengeUpdated)
	}

	projection, err := p.store.ChallengeProjectionByID(ctx, payload.ID)
	if apperrors.Is(err, apperrors.CodeNotFound) {
		p.logger.DebugContext(ctx, "update arrived before create, projecting partial row",
			"subject", events.SubjectChallengeUpdated,
			"id", payload.ID.String(),
		)
		projection = codeproblem.ChallengeProjection{ID: payload.ID}
	} else if err != nil {
		return err
	}

	if payload.TeacherID != nil {
		projection.TeacherID = *payload.TeacherID
	}
	if payload.IsDeleted != nil {
		projection.IsDeleted = *payload.IsDeleted
	}
	projection.UpdatedAt = payload.UpdatedAt
	return p.store.UpsertChallengeProjection(ctx, projection)
}
