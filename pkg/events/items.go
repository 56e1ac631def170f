package events

import (
	"time"

	"github.com/google/uuid"
)

// ItemEffectType is what an inventory item does when used.
type ItemEffectType string

const (
	ItemEffectGoldBoost  ItemEffectType = "GoldBoost"
	ItemEffectPointBoost ItemEffectType = "PointBoost"
	ItemEffectHintReveal ItemEffectType = "HintReveal"
)

// ItemTemplateCreated is emitted when an admin adds a purchasable item kind.
type ItemTemplateCreated struct {
	ID          uuid.UUID      `json:"id"`
	Name        string         `json:"name"`
	Gold        int            `json:"gold"`
	EffectType  ItemEffectType `json:"effectType"`
	Description string         `json:"description,omitempty"`
	Img         string         `json:"img,omitempty"`
	CreatedAt   time.Time      `json:"createdAt"`
}

func (ItemTemplateCreated) Subject() Subject { return SubjectItemTemplateCreated }

// ItemTemplateUpdated carries only the fields the update touched.
type ItemTemplateUpdated struct {
	ID          uuid.UUID       `json:"id"`
	Name        *string         `json:"name,omitempty"`
	Gold        *int            `json:"gold,omitempty"`
	EffectType  *ItemEffectType `json:"effectType,omitempty"`
	Description *string         `json:"description,omitempty"`
	Img         *string         `json:"img,omitempty"`
	IsDeleted   *bool           `json:"isDeleted,omitempty"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

func (ItemTemplateUpdated) Subject() Subject { return SubjectItemTemplateUpdated }

// CourseItemTemplateCreated attaches an item kind to a course shop.
type CourseItemTemplateCreated struct {
	CourseID       uuid.UUID `json:"courseId"`
	ItemTemplateID uuid.UUID `json:"itemTemplateId"`
	CreatedAt      time.Time `json:"createdAt"`
}

func (CourseItemTemplateCreated) Subject() Subject { return SubjectCourseItemTemplateCreated }

// CourseItemTemplateUpdated toggles an attachment; nil means unchanged.
type CourseItemTemplateUpdated struct {
	CourseID       uuid.UUID `json:"courseId"`
	ItemTemplateID uuid.UUID `json:"itemTemplateId"`
	IsDeleted      *bool     `json:"isDeleted,omitempty"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

func (CourseItemTemplateUpdated) Subject() Subject { return SubjectCourseItemTemplateUpdated }
