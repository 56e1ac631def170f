// Package coursemgmt owns the authoring side of the platform: courses and
// the island/level/challenge/slide hierarchy inside them, plus the item
// templates a course shop can sell.
package coursemgmt

import (
	"time"

	"github.com/google/uuid"

	"questify/pkg/events"
)

// Course is the root aggregate. It moves Draft -> Pending -> Approved or
// Rejected; only approved courses are visible to students.
type Course struct {
	ID                 uuid.UUID           `json:"id"`
	TeacherID          uuid.UUID           `json:"teacherId"`
	Name               string              `json:"name"`
	Status             events.CourseStatus `json:"status"`
	Description        string              `json:"description,omitempty"`
	BackgroundImage    string              `json:"backgroundImage,omitempty"`
	Thumbnail          string              `json:"thumbnail,omitempty"`
	LearningObjectives []string            `json:"learningObjectives,omitempty"`
	Requirements       []string            `json:"requirements,omitempty"`
	Price              float64             `json:"price"`
	IsDeleted          bool                `json:"-"`
	CreatedAt          time.Time           `json:"createdAt"`
	UpdatedAt          time.Time           `json:"updatedAt"`
}

// IslandTemplate is a reusable island theme maintained by admins.
type IslandTemplate struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	ImageURL  string    `json:"imageUrl"`
	IsDeleted bool      `json:"-"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Island is a themed group of levels within a course.
type Island struct {
	ID              uuid.UUID  `json:"id"`
	CourseID        uuid.UUID  `json:"courseId"`
	TemplateID      *uuid.UUID `json:"templateId,omitempty"`
	Name            string     `json:"name"`
	Position        int        `json:"position"`
	BackgroundImage string     `json:"backgroundImage,omitempty"`
	IsDeleted       bool       `json:"-"`
	CreatedAt       time.Time  `json:"createdAt"`
	UpdatedAt       time.Time  `json:"updatedAt"`
}

// PrerequisiteIsland says IslandID unlocks only after
// PrerequisiteIslandID is completed.
type PrerequisiteIsland struct {
	IslandID             uuid.UUID `json:"islandId"`
	PrerequisiteIslandID uuid.UUID `json:"prerequisiteIslandId"`
	CreatedAt            time.Time `json:"createdAt"`
}

// Level is one step inside an island, either a lesson or a challenge.
type Level struct {
	ID          uuid.UUID               `json:"id"`
	IslandID    uuid.UUID               `json:"islandId"`
	Name        string                  `json:"name"`
	Position    int                     `json:"position"`
	ContentType events.LevelContentType `json:"contentType"`
	IsDeleted   bool                    `json:"-"`
	CreatedAt   time.Time               `json:"createdAt"`
	UpdatedAt   time.Time               `json:"updatedAt"`
}

// Challenge is the interactive content of a challenge level.
type Challenge struct {
	ID        uuid.UUID `json:"id"`
	LevelID   uuid.UUID `json:"levelId"`
	CourseID  uuid.UUID `json:"courseId"`
	TeacherID uuid.UUID `json:"teacherId"`
	IsDeleted bool      `json:"-"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Slide is one page of a challenge, lesson or quiz.
type Slide struct {
	ID          uuid.UUID        `json:"id"`
	ChallengeID uuid.UUID        `json:"challengeId"`
	Title       string           `json:"title"`
	Description string           `json:"description,omitempty"`
	Index       int              `json:"index"`
	Type        events.SlideType `json:"type"`
	IsDeleted   bool             `json:"-"`
	UpdatedAt   time.Time        `json:"updatedAt"`
}

// ItemTemplate is a purchasable item kind maintained by admins.
type ItemTemplate struct {
	ID          uuid.UUID             `json:"id"`
	Name        string                `json:"name"`
	Gold        int                   `json:"gold"`
	EffectType  events.ItemEffectType `json:"effectType"`
	Description string                `json:"description,omitempty"`
	Img         string                `json:"img,omitempty"`
	IsDeleted   bool                  `json:"-"`
	CreatedAt   time.Time             `json:"createdAt"`
	UpdatedAt   time.Time             `json:"updatedAt"`
}

// CourseItemTemplate attaches an item kind to a course shop.
type CourseItemTemplate struct {
	CourseID       uuid.UUID `json:"courseId"`
	ItemTemplateID uuid.UUID `json:"itemTemplateId"`
	IsDeleted      bool      `json:"-"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}
