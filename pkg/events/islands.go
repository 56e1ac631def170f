package events

import (
	"time"

	"github.com/google/uuid"
)

// IslandCreated is emitted when a course gains a new island (a themed group
// of levels).
type IslandCreated struct {
	ID              uuid.UUID  `json:"id"`
	CourseID        uuid.UUID  `json:"courseId"`
	TemplateID      *uuid.UUID `json:"templateId,omitempty"`
	Name            string     `json:"name"`
	Position        int        `json:"position"`
	BackgroundImage string     `json:"backgroundImage,omitempty"`
	CreatedAt       time.Time  `json:"createdAt"`
}

func (IslandCreated) Subject() Subject { return SubjectIslandCreated }

// IslandUpdated carries only the fields the update touched; nil means
// unchanged.
type IslandUpdated struct {
	ID              uuid.UUID  `json:"id"`
	Name            *string    `json:"name,omitempty"`
	Position        *int       `json:"position,omitempty"`
	TemplateID      *uuid.UUID `json:"templateId,omitempty"`
	BackgroundImage *string    `json:"backgroundImage,omitempty"`
	IsDeleted       *bool      `json:"isDeleted,omitempty"`
	UpdatedAt       time.Time  `json:"updatedAt"`
}

func (IslandUpdated) Subject() Subject { return SubjectIslandUpdated }

// IslandTemplateCreated is emitted when an admin adds a reusable island
// theme.
type IslandTemplateCreated struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	ImageURL  string    `json:"imageUrl"`
	CreatedAt time.Time `json:"createdAt"`
}

func (IslandTemplateCreated) Subject() Subject { return SubjectIslandTemplateCreated }

// IslandTemplateUpdated carries only the fields the update touched.
type IslandTemplateUpdated struct {
	ID        uuid.UUID `json:"id"`
	Name      *string   `json:"name,omitempty"`
	ImageURL  *string   `json:"imageUrl,omitempty"`
	IsDeleted *bool     `json:"isDeleted,omitempty"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (IslandTemplateUpdated) Subject() Subject { return SubjectIslandTemplateUpdated }

// PrerequisiteIslandCreated links an island to one it requires first.
type PrerequisiteIslandCreated struct {
	IslandID             uuid.UUID `json:"islandId"`
	PrerequisiteIslandID uuid.UUID `json:"prerequisiteIslandId"`
	CreatedAt            time.Time `json:"createdAt"`
}

func (PrerequisiteIslandCreated) Subject() Subject { return SubjectPrerequisiteIslandCreated }

// PrerequisiteIslandDeleted removes a prerequisite link.
type PrerequisiteIslandDeleted struct {
	IslandID             uuid.UUID `json:"islandId"`
	PrerequisiteIslandID uuid.UUID `json:"prerequisiteIslandId"`
	DeletedAt            time.Time `json:"deletedAt"`
}

func (PrerequisiteIslandDeleted) Subject() Subject { return SubjectPrerequisiteIslandDeleted }
