package database

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/rpupo63/devsearch-backend/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/plugin/dbresolver"
)

type ProjectRepo struct {
	db *gorm.DB
}

func NewProjectRepo(db *gorm.DB) *ProjectRepo {
	return &ProjectRepo{db}
}

// Search returns projects whose title or any tag name contains term, case-insensitively, newest first.
// Matching through a subquery keeps each project once however many tags match.
func (r *ProjectRepo) Search(ctx context.Context, term string, offset, limit int) ([]models.Project, int64, error) {
	q := r.db.WithContext(ctx).Model(&models.Project{})

	if term = strings.TrimSpace(term); term != "" {
		like := "%" + strings.ToLower(term) + "%"
		tagged := r.db.Model(&models.ProjectTag{}).
			Select("project_tags.project_id").
			Joins("JOIN tags ON tags.id = project_tags.tag_id").
			Where("LOWER(tags.name) LIKE ?", like)
		q = q.Where("LOWER(projects.title) LIKE ? OR projects.id IN (?)", like, tagged)
	}

	return r.page(q, offset, limit)
}

// FindByOwner returns one page of a profile's projects and the owner's project count.
func (r *ProjectRepo) FindByOwner(ctx context.Context, ownerID uuid.UUID, offset, limit int) ([]models.Project, int64, error) {
	q := r.db.WithContext(ctx).Model(&models.Project{}).Where("projects.owner_id = ?", ownerID)
	return r.page(q, offset, limit)
}

func (r *ProjectRepo) page(q *gorm.DB, offset, limit int) ([]models.Project, int64, error) {
	q = q.Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var projects []models.Project
	err := q.Preload("Tags", func(db *gorm.DB) *gorm.DB { return db.Order("tags.name") }).
		Preload("Owner").
		Order("projects.created_at DESC").Order("projects.id").
		Offset(offset).Limit(limit).
		Find(&projects).Error
	return projects, total, err
}

// FindByID returns a project by its ID with tags and owner
func (r *ProjectRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Project, error) {
	var project models.Project
	err := r.db.WithContext(ctx).
		Preload("Tags", func(db *gorm.DB) *gorm.DB { return db.Order("tags.name") }).
		Preload("Owner").
		First(&project, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &project, nil
}

// Add inserts a new project into the database. Tags are attached separately.
func (r *ProjectRepo) Add(ctx context.Context, project *models.Project) error {
	return r.db.WithContext(ctx).Omit(clause.Associations, "vote_total", "vote_ratio").Create(project).Error
}

// UpdateFields writes only the named editable columns.
func (r *ProjectRepo) UpdateFields(ctx context.Context, project *models.Project, columns ...string) error {
	if len(columns) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Model(project).Omit(clause.Associations).Select(columns).Updates(project).Error
}

// VoteTotal reads the trigger-maintained total from the primary.
func (r *ProjectRepo) VoteTotal(ctx context.Context, id uuid.UUID) (int, error) {
	var project models.Project
	err := r.db.WithContext(ctx).Clauses(dbresolver.Write).
		Select("vote_total").
		First(&project, "id = ?", id).Error
	return project.VoteTotal, err
}

func (r *ProjectRepo) SetVoteRatio(ctx context.Context, id uuid.UUID, ratio float64) error {
	return r.db.WithContext(ctx).Model(&models.Project{}).Where("id = ?", id).UpdateColumn("vote_ratio", ratio).Error
}

// Delete removes a project by id; reviews cascade.
func (r *ProjectRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.Project{}, "id = ?", id).Error
}
