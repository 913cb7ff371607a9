package database

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/rpupo63/devsearch-backend/models"
	"gorm.io/gorm"
)

type ProfileRepo struct {
	db *gorm.DB
}

func NewProfileRepo(db *gorm.DB) *ProfileRepo {
	return &ProfileRepo{db}
}

// ProfileFilter narrows a profile search. Empty fields match everything.
type ProfileFilter struct {
	Query string // case-insensitive substring of username, first or last name
	Skill string // exact skill name
}

// FindByID returns a profile by its ID, optionally with skills
func (r *ProfileRepo) FindByID(ctx context.Context, id uuid.UUID, withSkills bool) (*models.Profile, error) {
	q := r.db.WithContext(ctx)
	if withSkills {
		q = q.Preload("Skills", func(db *gorm.DB) *gorm.DB { return db.Order("skills.created_at") })
	}

	var profile models.Profile
	if err := q.First(&profile, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

// FindByIdentifier looks a profile up by username or email.
func (r *ProfileRepo) FindByIdentifier(ctx context.Context, identifier string) (*models.Profile, error) {
	var profile models.Profile
	err := r.db.WithContext(ctx).
		Where("username = ? OR email = ?", identifier, identifier).
		First(&profile).Error
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *ProfileRepo) FindByEmail(ctx context.Context, email string) (*models.Profile, error) {
	var profile models.Profile
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&profile).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *ProfileRepo) UsernameTaken(ctx context.Context, username string) (bool, error) {
	return r.exists(ctx, "username = ?", username)
}

func (r *ProfileRepo) EmailTaken(ctx context.Context, email string) (bool, error) {
	return r.exists(ctx, "email = ?", email)
}

func (r *ProfileRepo) exists(ctx context.Context, query string, arg any) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Profile{}).Where(query, arg).Count(&count).Error
	return count > 0, err
}

// Search returns one page of profiles matching the filter plus the total match count.
func (r *ProfileRepo) Search(ctx context.Context, filter ProfileFilter, offset, limit int) ([]models.Profile, int64, error) {
	q := r.db.WithContext(ctx).Model(&models.Profile{})

	if filter.Query != "" {
		like := "%" + strings.ToLower(filter.Query) + "%"
		q = q.Where("LOWER(profiles.username) LIKE ? OR LOWER(profiles.first_name) LIKE ? OR LOWER(profiles.last_name) LIKE ?",
			like, like, like)
	}
	if filter.Skill != "" {
		owners := r.db.Model(&models.Skill{}).Select("owner_id").Where("name = ?", filter.Skill)
		q = q.Where("profiles.id IN (?)", owners)
	}
	q = q.Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var profiles []models.Profile
	err := q.Preload("Skills").
		Order("profiles.created_at").Order("profiles.id").
		Offset(offset).Limit(limit).
		Find(&profiles).Error
	return profiles, total, err
}

// Add inserts a new profile into the database
func (r *ProfileRepo) Add(ctx context.Context, profile *models.Profile) error {
	return r.db.WithContext(ctx).Omit("Skills").Create(profile).Error
}

// UpdateFields writes only the named columns, so explicit nulls are stored and nothing else is touched.
func (r *ProfileRepo) UpdateFields(ctx context.Context, profile *models.Profile, columns ...string) error {
	if len(columns) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Model(profile).Select(columns).Updates(profile).Error
}

func (r *ProfileRepo) SetPassword(ctx context.Context, id uuid.UUID, hash string) error {
	return r.db.WithContext(ctx).Model(&models.Profile{}).Where("id = ?", id).Update("password", hash).Error
}

func (r *ProfileRepo) SetVerified(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&models.Profile{}).Where("id = ?", id).Update("is_verified", true).Error
}

// Delete removes a profile. Skills cascade; projects, reviews and messages keep their rows with a null owner.
func (r *ProfileRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.Profile{}, "id = ?", id).Error
}
