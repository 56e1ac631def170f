// Package store persists the course-management aggregates. Memory backs
// tests and local development; postgres is the production store and renders
// its FK clauses from the frozen relations schema.
package store

import (
	"context"

	"github.com/google/uuid"

	"questify/internal/coursemgmt"
)

// Store is the persistence boundary for the authoring aggregates. Missing
// rows come back as apperrors.NotFound.
type Store interface {
	CreateCourse(ctx context.Context, course coursemgmt.Course) error
	UpdateCourse(ctx context.Context, course coursemgmt.Course) error
	CourseByID(ctx context.Context, id uuid.UUID) (coursemgmt.Course, error)
	ListCourses(ctx context.Context) ([]coursemgmt.Course, error)

	CreateIslandTemplate(ctx context.Context, tpl coursemgmt.IslandTemplate) error
	UpdateIslandTemplate(ctx context.Context, tpl coursemgmt.IslandTemplate) error
	IslandTemplateByID(ctx context.Context, id uuid.UUID) (coursemgmt.IslandTemplate, error)
	ListIslandTemplates(ctx context.Context) ([]coursemgmt.IslandTemplate, error)

	CreateIsland(ctx context.Context, island coursemgmt.Island) error
	UpdateIsland(ctx context.Context, island coursemgmt.Island) error
	IslandByID(ctx context.Context, id uuid.UUID) (coursemgmt.Island, error)
	ListIslands(ctx context.Context, courseID uuid.UUID) ([]coursemgmt.Island, error)

	CreatePrerequisite(ctx context.Context, link coursemgmt.PrerequisiteIsland) error
	DeletePrerequisite(ctx context.Context, islandID, prerequisiteID uuid.UUID) error
	ListPrerequisites(ctx context.Context, islandID uuid.UUID) ([]coursemgmt.PrerequisiteIsland, error)

	CreateLevel(ctx context.Context, level coursemgmt.Level) error
	UpdateLevel(ctx context.Context, level coursemgmt.Level) error
	LevelByID(ctx context.Context, id uuid.UUID) (coursemgmt.Level, error)
	ListLevels(ctx context.Context, islandID uuid.UUID) ([]coursemgmt.Level, error)

	CreateChallenge(ctx context.Context, challenge coursemgmt.Challenge) error
	UpdateChallenge(ctx context.Context, challenge coursemgmt.Challenge) error
	ChallengeByID(ctx context.Context, id uuid.UUID) (coursemgmt.Challenge, error)

	UpsertSlide(ctx context.Context, slide coursemgmt.Slide) error
	SlideByID(ctx context.Context, id uuid.UUID) (coursemgmt.Slide, error)
	ListSlides(ctx context.Context, challengeID uuid.UUID) ([]coursemgmt.Slide, error)

	CreateItemTemplate(ctx context.Context, tpl coursemgmt.ItemTemplate) error
	UpdateItemTemplate(ctx context.Context, tpl coursemgmt.ItemTemplate) error
	ItemTemplateByID(ctx context.Context, id uuid.UUID) (coursemgmt.ItemTemplate, error)
	ListItemTemplates(ctx context.Context) ([]coursemgmt.ItemTemplate, error)

	UpsertCourseItemTemplate(ctx context.Context, link coursemgmt.CourseItemTemplate) error
	ListCourseItemTemplates(ctx context.Context, courseID uuid.UUID) ([]coursemgmt.CourseItemTemplate, error)
}
