package services

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/rpupo63/devsearch-backend/auth"
	"github.com/rpupo63/devsearch-backend/database"
	"github.com/rpupo63/devsearch-backend/errs"
	"github.com/rpupo63/devsearch-backend/models"
	"github.com/rpupo63/devsearch-backend/validation"
	"gorm.io/gorm"
)

type TagService struct {
	db database.Database
}

func NewTagService(db database.Database) *TagService {
	return &TagService{db: db}
}

func (s *TagService) ForProject(ctx context.Context, projectID uuid.UUID) ([]models.Tag, error) {
	if _, err := s.db.ProjectRepo().FindByID(ctx, projectID); err != nil {
		return nil, errs.NewDatabaseError("find", "project", err)
	}
	tags, err := s.db.TagRepo().FindByProject(ctx, projectID)
	if err != nil {
		return nil, errs.NewDatabaseError("list", "tags", err)
	}
	return tags, nil
}

// Add attaches the named tag to the actor's project, creating the tag when needed.
func (s *TagService) Add(ctx context.Context, actor, projectID uuid.UUID, name string) (*models.Tag, error) {
	if !validation.ValidTagName(name) {
		return nil, errs.NewValidationError(map[string][]string{"name": {"Tag name must be between 1 and 200 characters."}})
	}

	var tag *models.Tag
	err := s.db.Transaction(ctx, func(tx database.Database) error {
		project, err := tx.ProjectRepo().FindByID(ctx, projectID)
		if err != nil {
			return err
		}
		if err := auth.RequireOwner(actor, project); err != nil {
			return err
		}
		tag, err = assignTag(ctx, tx, projectID, name)
		return err
	})
	if err != nil {
		return nil, errs.NewDatabaseError("add", "tag", err)
	}
	return tag, nil
}

// Remove detaches a tag from the actor's project and deletes the tag once no project uses it.
func (s *TagService) Remove(ctx context.Context, actor, projectID, tagID uuid.UUID) error {
	err := s.db.Transaction(ctx, func(tx database.Database) error {
		project, err := tx.ProjectRepo().FindByID(ctx, projectID)
		if err != nil {
			return err
		}
		if err := auth.RequireOwner(actor, project); err != nil {
			return err
		}
		removed, err := tx.TagRepo().Detach(ctx, projectID, tagID)
		if err != nil {
			return err
		}
		if !removed {
			return errs.NewNotFoundError("Tag not found!")
		}
		return dropIfUnused(ctx, tx, tagID)
	})
	if err != nil {
		return errs.NewDatabaseError("delete", "tag", err)
	}
	return nil
}

// assignTag finds the tag by exact name or creates it, then links it. Relinking is a no-op.
func assignTag(ctx context.Context, tx database.Database, projectID uuid.UUID, name string) (*models.Tag, error) {
	tag, err := tx.TagRepo().FindByName(ctx, name)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		tag = &models.Tag{Name: name}
		err = tx.TagRepo().Add(ctx, tag)
	}
	if err != nil {
		return nil, err
	}
	if err := tx.TagRepo().Attach(ctx, projectID, tag.ID); err != nil {
		return nil, err
	}
	return tag, nil
}

func dropIfUnused(ctx context.Context, tx database.Database, tagID uuid.UUID) error {
	count, err := tx.TagRepo().CountProjects(ctx, tagID)
	if err != nil || count > 0 {
		return err
	}
	return tx.TagRepo().Delete(ctx, tagID)
}
