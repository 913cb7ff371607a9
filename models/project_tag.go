package models

import "github.com/google/uuid"

// ProjectTag is the project <-> tag association row. The composite key makes attaching idempotent.
type ProjectTag struct {
	ProjectID uuid.UUID `json:"project_id" gorm:"type:uuid;primaryKey"`
	TagID     uuid.UUID `json:"tag_id" gorm:"type:uuid;primaryKey;index"`
}

func (ProjectTag) TableName() string {
	return "project_tags"
}
