package events

import (
	"time"

	"github.com/google/uuid"
)

// CompletionStatus tracks a student's standing in a course.
type CompletionStatus string

const (
	CompletionNotStarted CompletionStatus = "NotStarted"
	CompletionInProgress CompletionStatus = "InProgress"
	CompletionCompleted  CompletionStatus = "Completed"
	CompletionFail       CompletionStatus = "Fail"
)

// UserCourseCreated is emitted when a student enrolls in a course.
type UserCourseCreated struct {
	ID               uuid.UUID        `json:"id"`
	StudentID        uuid.UUID        `json:"studentId"`
	CourseID         uuid.UUID        `json:"courseId"`
	Point            int              `json:"point"`
	CompletionStatus CompletionStatus `json:"completionStatus"`
	CreatedAt        time.Time        `json:"createdAt"`
}

func (UserCourseCreated) Subject() Subject { return SubjectUserCourseCreated }

// UserCourseUpdated carries only the fields the update touched; nil means
// unchanged.
type UserCourseUpdated struct {
	ID               uuid.UUID         `json:"id"`
	Point            *int              `json:"point,omitempty"`
	CompletionStatus *CompletionStatus `json:"completionStatus,omitempty"`
	UpdatedAt        time.Time         `json:"updatedAt"`
}

func (UserCourseUpdated) Subject() Subject { return SubjectUserCourseUpdated }

// UserCourseInventoryCreation is emitted once per enrollment when the
// student's per-course inventory is initialized.
type UserCourseInventoryCreation struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"userId"`
	CourseID  uuid.UUID `json:"courseId"`
	Gold      int       `json:"gold"`
	CreatedAt time.Time `json:"createdAt"`
}

func (UserCourseInventoryCreation) Subject() Subject { return SubjectUserCourseInventoryCreation }
