// Package store persists enrollments, inventories and the event-fed read
// models for the learning service.
package store

import (
	"context"

	"github.com/google/uuid"

	"questify/internal/learning"
)

// Store is the learning service's persistence surface. Missing rows come
// back as apperrors.NotFound.
type Store interface {
	CreateUserCourse(ctx context.Context, uc learning.UserCourse) error
	UpdateUserCourse(ctx context.Context, uc learning.UserCourse) error
	UserCourseByID(ctx context.Context, id uuid.UUID) (learning.UserCourse, error)
	UserCourseByStudentAndCourse(ctx context.Context, studentID, courseID uuid.UUID) (learning.UserCourse, error)
	ListUserCoursesByStudent(ctx context.Context, studentID uuid.UUID) ([]learning.UserCourse, error)

	CreateInventory(ctx context.Context, inv learning.Inventory) error
	UpdateInventory(ctx context.Context, inv learning.Inventory) error
	InventoryByUserAndCourse(ctx context.Context, userID, courseID uuid.UUID) (learning.Inventory, error)

	UpsertCourseProjection(ctx context.Context, c learning.CourseProjection) error
	CourseProjectionByID(ctx context.Context, id uuid.UUID) (learning.CourseProjection, error)

	UpsertIslandProjection(ctx context.Context, i learning.IslandProjection) error
	IslandProjectionByID(ctx context.Context, id uuid.UUID) (learning.IslandProjection, error)

	UpsertUserProjection(ctx context.Context, u learning.UserProjection) error
	UserProjectionByID(ctx context.Context, id uuid.UUID) (learning.UserProjection, error)
}
