package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Project represents a showcased portfolio item.
// VoteTotal is written only by the review triggers; VoteRatio only by the vote recompute.
type Project struct {
	ID            uuid.UUID  `json:"id" gorm:"type:uuid;primaryKey"`
	Title         string     `json:"title" gorm:"size:200;not null"`
	Description   *string    `json:"description" gorm:"type:text"`
	FeaturedImage string     `json:"featured_image" gorm:"size:255;not null"`
	DemoLink      *string    `json:"demo_link" gorm:"size:2000"`
	SourceCode    *string    `json:"source_code" gorm:"size:2000"`
	VoteTotal     int        `json:"vote_total" gorm:"not null;default:0"`
	VoteRatio     float64    `json:"vote_ratio" gorm:"not null;default:0"`
	OwnerID       *uuid.UUID `json:"owner_id" gorm:"type:uuid;index"`
	CreatedAt     time.Time  `json:"created" gorm:"index"`

	Owner   *Profile `json:"owner,omitempty" gorm:"foreignKey:OwnerID;constraint:OnDelete:SET NULL"`
	Tags    []Tag    `json:"tags" gorm:"many2many:project_tags;constraint:OnDelete:CASCADE"`
	Reviews []Review `json:"-" gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE"`
}

func (p *Project) BeforeCreate(tx *gorm.DB) error {
	ensureID(&p.ID)
	if p.FeaturedImage == "" {
		p.FeaturedImage = DefaultProjectImage
	}
	return nil
}

func (p Project) OwnerKey() *uuid.UUID {
	return p.OwnerID
}

// HasTagNamed reports whether a tag with exactly this name is attached. Tags must be loaded.
func (p Project) HasTagNamed(name string) bool {
	for _, t := range p.Tags {
		if t.Name == name {
			return true
		}
	}
	return false
}
