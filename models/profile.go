package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Profile is a registered developer account.
type Profile struct {
	ID           uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	Username     string    `json:"username" gorm:"size:100;not null;uniqueIndex"`
	Email        string    `json:"email" gorm:"size:200;not null;uniqueIndex"`
	Password     string    `json:"-" gorm:"size:255;not null"`
	FirstName    *string   `json:"first_name" gorm:"size:50"`
	LastName     *string   `json:"last_name" gorm:"size:50"`
	Location     *string   `json:"location" gorm:"size:200"`
	ShortIntro   *string   `json:"short_intro" gorm:"size:200"`
	Bio          *string   `json:"bio" gorm:"type:text"`
	ProfileImage string    `json:"profile_image" gorm:"size:255;not null"`
	Github       *string   `json:"github" gorm:"size:200"`
	X            *string   `json:"x" gorm:"column:x;size:200"`
	Linkedin     *string   `json:"linkedin" gorm:"size:200"`
	Youtube      *string   `json:"youtube" gorm:"size:200"`
	Website      *string   `json:"website" gorm:"size:200"`
	IsVerified   bool      `json:"is_verified" gorm:"not null"`
	IsActive     bool      `json:"is_active" gorm:"not null"`
	IsSuperuser  bool      `json:"-" gorm:"not null"`
	CreatedAt    time.Time `json:"created"`

	Skills []Skill `json:"skills,omitempty" gorm:"foreignKey:OwnerID;constraint:OnDelete:CASCADE"`
}

func (p *Profile) BeforeCreate(tx *gorm.DB) error {
	ensureID(&p.ID)
	if p.ProfileImage == "" {
		p.ProfileImage = DefaultProfileImage
	}
	return nil
}

// DisplayName is "First Last" when set, the username otherwise.
func (p Profile) DisplayName() string {
	first, last := deref(p.FirstName), deref(p.LastName)
	switch {
	case first != "" && last != "":
		return first + " " + last
	case first != "":
		return first
	case last != "":
		return last
	}
	return p.Username
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
