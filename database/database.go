package database

import (
	"context"

	"gorm.io/gorm"
)

type Database struct {
	db          *gorm.DB
	profileRepo *ProfileRepo
	skillRepo   *SkillRepo
	projectRepo *ProjectRepo
	tagRepo     *TagRepo
	reviewRepo  *ReviewRepo
	messageRepo *MessageRepo
}

// New initializes a new Database struct with each repository using a shared GORM database instance
func New(db *gorm.DB) Database {
	return Database{
		db:          db,
		profileRepo: NewProfileRepo(db),
		skillRepo:   NewSkillRepo(db),
		projectRepo: NewProjectRepo(db),
		tagRepo:     NewTagRepo(db),
		reviewRepo:  NewReviewRepo(db),
		messageRepo: NewMessageRepo(db),
	}
}

// Transaction runs fn with repositories bound to one transaction. Any error rolls it back.
func (d Database) Transaction(ctx context.Context, fn func(tx Database) error) error {
	return d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(New(tx))
	})
}

// Accessor methods for each repository

func (d Database) DB() *gorm.DB {
	return d.db
}

func (d Database) ProfileRepo() *ProfileRepo {
	return d.profileRepo
}

func (d Database) SkillRepo() *SkillRepo {
	return d.skillRepo
}

func (d Database) ProjectRepo() *ProjectRepo {
	return d.projectRepo
}

func (d Database) TagRepo() *TagRepo {
	return d.tagRepo
}

func (d Database) ReviewRepo() *ReviewRepo {
	return d.reviewRepo
}

func (d Database) MessageRepo() *MessageRepo {
	return d.messageRepo
}

// Ping checks the connection with a trivial query.
func (d Database) Ping(ctx context.Context) error {
	var result int
	return d.db.WithContext(ctx).Raw("SELECT 1").Scan(&result).Error
}
