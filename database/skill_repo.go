package database

import (
	"context"

	"github.com/google/uuid"
	"github.com/rpupo63/devsearch-backend/models"
	"gorm.io/gorm"
)

type SkillRepo struct {
	db *gorm.DB
}

func NewSkillRepo(db *gorm.DB) *SkillRepo {
	return &SkillRepo{db}
}

func (r *SkillRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Skill, error) {
	var skill models.Skill
	if err := r.db.WithContext(ctx).First(&skill, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &skill, nil
}

// FindByOwner returns every skill of a profile, oldest first.
func (r *SkillRepo) FindByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.Skill, error) {
	var skills []models.Skill
	err := r.db.WithContext(ctx).Where("owner_id = ?", ownerID).Order("created_at").Find(&skills).Error
	return skills, err
}

func (r *SkillRepo) Add(ctx context.Context, skill *models.Skill) error {
	return r.db.WithContext(ctx).Create(skill).Error
}

func (r *SkillRepo) Update(ctx context.Context, skill *models.Skill) error {
	return r.db.WithContext(ctx).Model(skill).Select("name", "description").Updates(skill).Error
}

func (r *SkillRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.Skill{}, "id = ?", id).Error
}
