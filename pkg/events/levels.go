package events

import (
	"time"

	"github.com/google/uuid"
)

// LevelContentType says what a level contains.
type LevelContentType string

const (
	LevelContentLesson    LevelContentType = "Lesson"
	LevelContentChallenge LevelContentType = "Challenge"
)

// LevelCreated is emitted when an island gains a level.
type LevelCreated struct {
	ID          uuid.UUID        `json:"id"`
	IslandID    uuid.UUID        `json:"islandId"`
	Name        string           `json:"name"`
	Position    int              `json:"position"`
	ContentType LevelContentType `json:"contentType"`
	CreatedAt   time.Time        `json:"createdAt"`
}

func (LevelCreated) Subject() Subject { return SubjectLevelCreated }

// LevelUpdated carries only the fields the update touched; nil means
// unchanged.
type LevelUpdated struct {
	ID          uuid.UUID         `json:"id"`
	Name        *string           `json:"name,omitempty"`
	Position    *int              `json:"position,omitempty"`
	ContentType *LevelContentType `json:"contentType,omitempty"`
	IsDeleted   *bool             `json:"isDeleted,omitempty"`
	UpdatedAt   time.Time         `json:"updatedAt"`
}

func (LevelUpdated) Subject() Subject { return SubjectLevelUpdated }
