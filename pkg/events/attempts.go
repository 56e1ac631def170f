package events

import (
	"time"

	"github.com/google/uuid"
)

// AttemptCreated is emitted when a student submits code for judging.
type AttemptCreated struct {
	ID            uuid.UUID `json:"id"`
	UserID        uuid.UUID `json:"userId"`
	CodeProblemID uuid.UUID `json:"codeProblemId"`
	CreatedAt     time.Time `json:"createdAt"`
}

func (AttemptCreated) Subject() Subject { return SubjectAttemptCreated }

// AttemptUpdated carries the judged outcome; nil means unchanged.
type AttemptUpdated struct {
	ID        uuid.UUID `json:"id"`
	Gold      *int      `json:"gold,omitempty"`
	Point     *int      `json:"point,omitempty"`
	Progress  *float64  `json:"progress,omitempty"`
	Answer    *string   `json:"answer,omitempty"`
	Finished  *bool     `json:"finished,omitempty"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (AttemptUpdated) Subject() Subject { return SubjectAttemptUpdated }
