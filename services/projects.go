package services

import (
	"context"

	"github.com/google/uuid"
	"github.com/rpupo63/devsearch-backend/auth"
	"github.com/rpupo63/devsearch-backend/database"
	"github.com/rpupo63/devsearch-backend/errs"
	"github.com/rpupo63/devsearch-backend/media"
	"github.com/rpupo63/devsearch-backend/models"
	"github.com/rpupo63/devsearch-backend/pagination"
	"github.com/rpupo63/devsearch-backend/validation"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type ProjectService struct {
	db     database.Database
	images *media.Ingestor
	logger zerolog.Logger
}

func NewProjectService(db database.Database, images *media.Ingestor) *ProjectService {
	return &ProjectService{db: db, images: images, logger: log.With().Str("service", "projects").Logger()}
}

// Search pages through projects whose title or a tag name contains term.
func (s *ProjectService) Search(ctx context.Context, term string, page, size int) ([]models.Project, pagination.Paginator, error) {
	projects, total, err := s.db.ProjectRepo().Search(ctx, term, pagination.Offset(page, size), size)
	if err != nil {
		return nil, pagination.Paginator{}, errs.NewDatabaseError("search", "projects", err)
	}
	return projects, pagination.New(page, size, total), nil
}

// ByOwner pages through one profile's projects.
func (s *ProjectService) ByOwner(ctx context.Context, ownerID uuid.UUID, page, size int) ([]models.Project, pagination.Paginator, error) {
	projects, total, err := s.db.ProjectRepo().FindByOwner(ctx, ownerID, pagination.Offset(page, size), size)
	if err != nil {
		return nil, pagination.Paginator{}, errs.NewDatabaseError("list", "projects", err)
	}
	return projects, pagination.New(page, size, total), nil
}

func (s *ProjectService) Get(ctx context.Context, id uuid.UUID) (*models.Project, error) {
	project, err := s.db.ProjectRepo().FindByID(ctx, id)
	if err != nil {
		return nil, errs.NewDatabaseError("find", "project", err)
	}
	return project, nil
}

// Create stores the project, its tags and an optional image. The image is written first
// and discarded again if the database work fails.
func (s *ProjectService) Create(ctx context.Context, actor uuid.UUID, in validation.ProjectInput, image *media.Upload) (*models.Project, error) {
	if err := in.Validate().Err(); err != nil {
		return nil, err
	}

	project := in.Project()
	project.OwnerID = &actor

	if image != nil {
		key, err := s.images.SaveUpload(ctx, *image)
		if err != nil {
			return nil, err
		}
		project.FeaturedImage = key
	}

	err := s.db.Transaction(ctx, func(tx database.Database) error {
		if err := tx.ProjectRepo().Add(ctx, &project); err != nil {
			return err
		}
		for _, name := range validation.TagNames(in.Tags) {
			if _, err := assignTag(ctx, tx, project.ID, name); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		if image != nil {
			s.images.Discard(ctx, project.FeaturedImage)
		}
		return nil, errs.NewDatabaseError("create", "project", err)
	}

	return s.Get(ctx, project.ID)
}

// Update applies a partial update to one of the actor's projects and links any new tags.
func (s *ProjectService) Update(ctx context.Context, actor, id uuid.UUID, update validation.ProjectUpdate) (*models.Project, error) {
	return s.UpdateWithImage(ctx, actor, id, update, nil)
}

// UpdateWithImage is Update plus an optional replacement image. The image is checked and
// stored before any row changes, so a rejected upload leaves the project untouched.
func (s *ProjectService) UpdateWithImage(ctx context.Context, actor, id uuid.UUID, update validation.ProjectUpdate, image *media.Upload) (*models.Project, error) {
	if err := update.Validate().Err(); err != nil {
		return nil, err
	}

	var key, old string
	if image != nil {
		saved, err := s.images.SaveUpload(ctx, *image)
		if err != nil {
			return nil, err
		}
		key = saved
	}

	err := s.db.Transaction(ctx, func(tx database.Database) error {
		project, err := tx.ProjectRepo().FindByID(ctx, id)
		if err != nil {
			return err
		}
		if err := auth.RequireOwner(actor, project); err != nil {
			return err
		}
		fields := update.Apply(project)
		if key != "" {
			old = project.FeaturedImage
			project.FeaturedImage = key
			fields = append(fields, "featured_image")
		}
		if err := tx.ProjectRepo().UpdateFields(ctx, project, fields...); err != nil {
			return err
		}
		for _, name := range validation.TagNames(update.Tags) {
			if project.HasTagNamed(name) {
				continue
			}
			if _, err := assignTag(ctx, tx, project.ID, name); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		if key != "" {
			s.images.Discard(ctx, key)
		}
		return nil, errs.NewDatabaseError("update", "project", err)
	}
	if old != "" {
		s.images.Discard(ctx, old)
	}
	return s.Get(ctx, id)
}

// UpdateImage replaces the featured image of one of the actor's projects.
func (s *ProjectService) UpdateImage(ctx context.Context, actor, id uuid.UUID, upload media.Upload) (*models.Project, error) {
	project, err := s.db.ProjectRepo().FindByID(ctx, id)
	if err != nil {
		return nil, errs.NewDatabaseError("find", "project", err)
	}
	if err := auth.RequireOwner(actor, project); err != nil {
		return nil, err
	}

	key, err := s.images.SaveUpload(ctx, upload)
	if err != nil {
		return nil, err
	}

	old := project.FeaturedImage
	project.FeaturedImage = key
	if err := s.db.ProjectRepo().UpdateFields(ctx, project, "featured_image"); err != nil {
		s.images.Discard(ctx, key)
		return nil, errs.NewDatabaseError("update", "project", err)
	}
	s.images.Discard(ctx, old)
	return project, nil
}

// Delete removes one of the actor's projects with its reviews, and any tag it leaves unused.
func (s *ProjectService) Delete(ctx context.Context, actor, id uuid.UUID) error {
	var image string
	err := s.db.Transaction(ctx, func(tx database.Database) error {
		project, err := tx.ProjectRepo().FindByID(ctx, id)
		if err != nil {
			return err
		}
		if err := auth.RequireOwner(actor, project); err != nil {
			return err
		}
		image = project.FeaturedImage

		tagIDs, err := tx.TagRepo().TagIDsForProject(ctx, id)
		if err != nil {
			return err
		}
		if err := tx.TagRepo().DetachAll(ctx, id); err != nil {
			return err
		}
		if err := tx.ProjectRepo().Delete(ctx, id); err != nil {
			return err
		}
		for _, tagID := range tagIDs {
			if err := dropIfUnused(ctx, tx, tagID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return errs.NewDatabaseError("delete", "project", err)
	}

	s.images.Discard(ctx, image)
	s.logger.Info().Str("projectID", id.String()).Msg("Deleted project")
	return nil
}
