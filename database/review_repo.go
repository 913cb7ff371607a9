package database

import (
	"context"

	"github.com/google/uuid"
	"github.com/rpupo63/devsearch-backend/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/plugin/dbresolver"
)

type ReviewRepo struct {
	db *gorm.DB
}

func NewReviewRepo(db *gorm.DB) *ReviewRepo {
	return &ReviewRepo{db}
}

func (r *ReviewRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Review, error) {
	var review models.Review
	if err := r.db.WithContext(ctx).First(&review, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &review, nil
}

// FindByProjectAndOwner returns the single review a profile left on a project.
func (r *ReviewRepo) FindByProjectAndOwner(ctx context.Context, projectID, ownerID uuid.UUID) (*models.Review, error) {
	var review models.Review
	err := r.db.WithContext(ctx).
		Where("project_id = ? AND owner_id = ?", projectID, ownerID).
		First(&review).Error
	if err != nil {
		return nil, err
	}
	return &review, nil
}

// FindByProject returns one page of a project's reviews, newest first, with their authors.
func (r *ReviewRepo) FindByProject(ctx context.Context, projectID uuid.UUID, offset, limit int) ([]models.Review, int64, error) {
	q := r.db.WithContext(ctx).Model(&models.Review{}).Where("project_id = ?", projectID).Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var reviews []models.Review
	err := q.Preload("Owner").
		Order("created_at DESC").Order("id").
		Offset(offset).Limit(limit).
		Find(&reviews).Error
	return reviews, total, err
}

// Add inserts a review; the insert trigger bumps the project's vote_total.
func (r *ReviewRepo) Add(ctx context.Context, review *models.Review) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(review).Error
}

func (r *ReviewRepo) Update(ctx context.Context, review *models.Review) error {
	return r.db.WithContext(ctx).Model(review).Omit(clause.Associations).Select("body", "value").Updates(review).Error
}

// Delete removes a review; the delete trigger lowers the project's vote_total.
func (r *ReviewRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.Review{}, "id = ?", id).Error
}

// CountUpVotes counts "up" reviews of a project on the primary.
func (r *ReviewRepo) CountUpVotes(ctx context.Context, projectID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Clauses(dbresolver.Write).Model(&models.Review{}).
		Where("project_id = ? AND value = ?", projectID, models.VoteUp).
		Count(&count).Error
	return count, err
}
