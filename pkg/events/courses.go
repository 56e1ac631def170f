package events

import (
	"time"

	"github.com/google/uuid"
)

// CourseStatus tracks a course through the review pipeline.
type CourseStatus string

const (
	CourseStatusDraft    CourseStatus = "Draft"
	CourseStatusPending  CourseStatus = "Pending"
	CourseStatusApproved CourseStatus = "Approved"
	CourseStatusRejected CourseStatus = "Rejected"
)

// CourseCreated is emitted when a teacher creates a course shell.
type CourseCreated struct {
	ID                 uuid.UUID    `json:"id"`
	TeacherID          uuid.UUID    `json:"teacherId"`
	Name               string       `json:"name"`
	Status             CourseStatus `json:"status"`
	Description        string       `json:"description,omitempty"`
	BackgroundImage    string       `json:"backgroundImage,omitempty"`
	Thumbnail          string       `json:"thumbnail,omitempty"`
	LearningObjectives []string     `json:"learningObjectives,omitempty"`
	Requirements       []string     `json:"requirements,omitempty"`
	Price              float64      `json:"price"`
	CreatedAt          time.Time    `json:"createdAt"`
}

func (CourseCreated) Subject() Subject { return SubjectCourseCreated }

// CourseUpdated carries only the fields the update touched; nil means
// unchanged.
type CourseUpdated struct {
	ID                 uuid.UUID     `json:"id"`
	Name               *string       `json:"name,omitempty"`
	Status             *CourseStatus `json:"status,omitempty"`
	Description        *string       `json:"description,omitempty"`
	BackgroundImage    *string       `json:"backgroundImage,omitempty"`
	Thumbnail          *string       `json:"thumbnail,omitempty"`
	LearningObjectives *[]string     `json:"learningObjectives,omitempty"`
	Requirements       *[]string     `json:"requirements,omitempty"`
	Price              *float64      `json:"price,omitempty"`
	IsDeleted          *bool         `json:"isDeleted,omitempty"`
	UpdatedAt          time.Time     `json:"updatedAt"`
}

func (CourseUpdated) Subject() Subject { return SubjectCourseUpdated }
