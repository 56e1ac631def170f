package events

import (
	"time"

	"github.com/google/uuid"
)

// SlideType distinguishes lesson slides from quiz slides.
type SlideType string

const (
	SlideTypeLesson SlideType = "Lesson"
	SlideTypeQuiz   SlideType = "Quiz"
)

// ChallengeCreated is emitted when a level gains a challenge.
type ChallengeCreated struct {
	ID        uuid.UUID `json:"id"`
	LevelID   uuid.UUID `json:"levelId"`
	CourseID  uuid.UUID `json:"courseId"`
	TeacherID uuid.UUID `json:"teacherId"`
	CreatedAt time.Time `json:"createdAt"`
}

func (ChallengeCreated) Subject() Subject { return SubjectChallengeCreated }

// ChallengeUpdated carries only the fields the update touched; nil means
// unchanged.
type ChallengeUpdated struct {
	ID        uuid.UUID  `json:"id"`
	TeacherID *uuid.UUID `json:"teacherId,omitempty"`
	IsDeleted *bool      `json:"isDeleted,omitempty"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

func (ChallengeUpdated) Subject() Subject { return SubjectChallengeUpdated }

// SlideUpdated covers both authoring a slide and editing it; slides are
// upserted by consumers keyed on id.
type SlideUpdated struct {
	ID          uuid.UUID  `json:"id"`
	ChallengeID uuid.UUID  `json:"challengeId"`
	Title       *string    `json:"title,omitempty"`
	Description *string    `json:"description,omitempty"`
	Index       *int       `json:"index,omitempty"`
	Type        *SlideType `json:"type,omitempty"`
	IsDeleted   *bool      `json:"isDeleted,omitempty"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

func (SlideUpdated) Subject() Subject { return SubjectSlideUpdated }
