// Package learning owns the consumption side of the platform: enrollments,
// per-course inventories and the read models projected from auth and
// course-mgmt events.
package learning

import (
	"time"

	"github.com/google/uuid"

	"questify/pkg/events"
)

// UserCourse is one student's enrollment in one course.
type UserCourse struct {
	ID               uuid.UUID               `json:"id"`
	StudentID        uuid.UUID               `json:"studentId"`
	CourseID         uuid.UUID               `json:"courseId"`
	Point            int                     `json:"point"`
	CompletionStatus events.CompletionStatus `json:"completionStatus"`
	CreatedAt        time.Time               `json:"createdAt"`
	UpdatedAt        time.Time               `json:"updatedAt"`
}

// Inventory holds the currencies a student has earned inside one course.
type Inventory struct {
	ID         uuid.UUID `json:"id"`
	UserID     uuid.UUID `json:"userId"`
	CourseID   uuid.UUID `json:"courseId"`
	Gold       int       `json:"gold"`
	GemsInTree int       `json:"gemsInTree"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// CourseProjection is the slice of a course this service needs to validate
// enrollments. It is maintained from course-mgmt events, never written by
// request handlers.
type CourseProjection struct {
	ID        uuid.UUID           `json:"id"`
	TeacherID uuid.UUID           `json:"teacherId"`
	Name      string              `json:"name"`
	Status    events.CourseStatus `json:"status"`
	Price     float64             `json:"price"`
	IsDeleted bool                `json:"-"`
	UpdatedAt time.Time           `json:"updatedAt"`
}

// IslandProjection mirrors an island's position within a course.
type IslandProjection struct {
	ID        uuid.UUID `json:"id"`
	CourseID  uuid.UUID `json:"courseId"`
	Name      string    `json:"name"`
	Position  int       `json:"position"`
	IsDeleted bool      `json:"-"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// UserProjection mirrors the auth service's account records so leaderboards
// can show names without a synchronous call.
type UserProjection struct {
	ID        uuid.UUID         `json:"id"`
	Gmail     string            `json:"gmail"`
	FirstName string            `json:"firstName,omitempty"`
	LastName  string            `json:"lastName,omitempty"`
	Role      events.Role       `json:"role"`
	Status    events.UserStatus `json:"status"`
	IsDeleted bool              `json:"-"`
	UpdatedAt time.Time         `json:"updatedAt"`
}

// LeaderboardEntry is one row of a course leaderboard.
type LeaderboardEntry struct {
	StudentID uuid.UUID `json:"studentId"`
	Point     int       `json:"point"`
	Rank      int       `json:"rank"`
}
