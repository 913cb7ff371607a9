package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ReviewValue string

const (
	VoteUp   ReviewValue = "up"
	VoteDown ReviewValue = "down"
)

func (v ReviewValue) Valid() bool {
	return v == VoteUp || v == VoteDown
}

// Review is one profile's vote on one project; (project_id, owner_id) is unique.
type Review struct {
	ID        uuid.UUID   `json:"id" gorm:"type:uuid;primaryKey"`
	Body      *string     `json:"body" gorm:"type:text"`
	Value     ReviewValue `json:"value" gorm:"size:4;not null"`
	ProjectID uuid.UUID   `json:"project_id" gorm:"type:uuid;not null;uniqueIndex:idx_reviews_project_owner"`
	OwnerID   *uuid.UUID  `json:"owner_id" gorm:"type:uuid;uniqueIndex:idx_reviews_project_owner"`
	CreatedAt time.Time   `json:"created"`

	Owner *Profile `json:"owner,omitempty" gorm:"foreignKey:OwnerID;constraint:OnDelete:SET NULL"`
}

func (r *Review) BeforeCreate(tx *gorm.DB) error {
	ensureID(&r.ID)
	return nil
}

func (r Review) OwnerKey() *uuid.UUID {
	return r.OwnerID
}
