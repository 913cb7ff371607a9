package database

import (
	"context"

	"github.com/google/uuid"
	"github.com/rpupo63/devsearch-backend/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type TagRepo struct {
	db *gorm.DB
}

func NewTagRepo(db *gorm.DB) *TagRepo {
	return &TagRepo{db}
}

func (r *TagRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Tag, error) {
	var tag models.Tag
	if err := r.db.WithContext(ctx).First(&tag, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &tag, nil
}

// FindByName matches the exact, case-sensitive name.
func (r *TagRepo) FindByName(ctx context.Context, name string) (*models.Tag, error) {
	var tag models.Tag
	if err := r.db.WithContext(ctx).Where("name = ?", name).First(&tag).Error; err != nil {
		return nil, err
	}
	return &tag, nil
}

// FindByProject returns the tags attached to a project, by name.
func (r *TagRepo) FindByProject(ctx context.Context, projectID uuid.UUID) ([]models.Tag, error) {
	var tags []models.Tag
	err := r.db.WithContext(ctx).
		Joins("JOIN project_tags ON project_tags.tag_id = tags.id").
		Where("project_tags.project_id = ?", projectID).
		Order("tags.name").
		Find(&tags).Error
	return tags, err
}

// TagIDsForProject lists the ids of tags attached to a project.
func (r *TagRepo) TagIDsForProject(ctx context.Context, projectID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).Model(&models.ProjectTag{}).
		Where("project_id = ?", projectID).
		Pluck("tag_id", &ids).Error
	return ids, err
}

// Add inserts a new tag into the database
func (r *TagRepo) Add(ctx context.Context, tag *models.Tag) error {
	return r.db.WithContext(ctx).Create(tag).Error
}

// Attach links a tag to a project. Attaching an existing pair is a no-op.
func (r *TagRepo) Attach(ctx context.Context, projectID, tagID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&models.ProjectTag{ProjectID: projectID, TagID: tagID}).Error
}

// Detach removes the association row and reports whether one existed.
func (r *TagRepo) Detach(ctx context.Context, projectID, tagID uuid.UUID) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("project_id = ? AND tag_id = ?", projectID, tagID).
		Delete(&models.ProjectTag{})
	return res.RowsAffected > 0, res.Error
}

// DetachAll removes every association of a project.
func (r *TagRepo) DetachAll(ctx context.Context, projectID uuid.UUID) error {
	return r.db.WithContext(ctx).Where("project_id = ?", projectID).Delete(&models.ProjectTag{}).Error
}

// CountProjects counts the projects still referencing a tag.
func (r *TagRepo) CountProjects(ctx context.Context, tagID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.ProjectTag{}).Where("tag_id = ?", tagID).Count(&count).Error
	return count, err
}

// Delete removes a tag from the database by id
func (r *TagRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.Tag{}, "id = ?", id).Error
}
