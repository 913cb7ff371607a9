package services

import (
	"context"

	"github.com/google/uuid"
	"github.com/rpupo63/devsearch-backend/database"
	"github.com/rpupo63/devsearch-backend/errs"
	"github.com/rpupo63/devsearch-backend/media"
	"github.com/rpupo63/devsearch-backend/models"
	"github.com/rpupo63/devsearch-backend/pagination"
	"github.com/rpupo63/devsearch-backend/validation"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type ProfileService struct {
	db     database.Database
	images *media.Ingestor
	logger zerolog.Logger
}

func NewProfileService(db database.Database, images *media.Ingestor) *ProfileService {
	return &ProfileService{db: db, images: images, logger: log.With().Str("service", "profiles").Logger()}
}

// Get returns a profile with its skills.
func (s *ProfileService) Get(ctx context.Context, id uuid.UUID) (*models.Profile, error) {
	profile, err := s.db.ProfileRepo().FindByID(ctx, id, true)
	if err != nil {
		return nil, errs.NewDatabaseError("find", "profile", err)
	}
	return profile, nil
}

// Search pages through profiles matching the filter. The total counts matches only.
func (s *ProfileService) Search(ctx context.Context, filter database.ProfileFilter, page, size int) ([]models.Profile, pagination.Paginator, error) {
	profiles, total, err := s.db.ProfileRepo().Search(ctx, filter, pagination.Offset(page, size), size)
	if err != nil {
		return nil, pagination.Paginator{}, errs.NewDatabaseError("search", "profiles", err)
	}
	return profiles, pagination.New(page, size, total), nil
}

// Update applies a partial update to the actor's own profile.
func (s *ProfileService) Update(ctx context.Context, actor uuid.UUID, update validation.ProfileUpdate) (*models.Profile, error) {
	if err := update.Validate().Err(); err != nil {
		return nil, err
	}

	var profile *models.Profile
	err := s.db.Transaction(ctx, func(tx database.Database) error {
		var err error
		profile, err = tx.ProfileRepo().FindByID(ctx, actor, false)
		if err != nil {
			return err
		}
		columns := update.Apply(profile)
		return tx.ProfileRepo().UpdateFields(ctx, profile, columns...)
	})
	if err != nil {
		return nil, errs.NewDatabaseError("update", "profile", err)
	}
	return profile, nil
}

// UpdateImage stores a new profile image, then discards the previous one.
func (s *ProfileService) UpdateImage(ctx context.Context, actor uuid.UUID, upload media.Upload) (*models.Profile, error) {
	profile, err := s.db.ProfileRepo().FindByID(ctx, actor, false)
	if err != nil {
		return nil, errs.NewDatabaseError("find", "profile", err)
	}

	key, err := s.images.SaveUpload(ctx, upload)
	if err != nil {
		return nil, err
	}

	old := profile.ProfileImage
	profile.ProfileImage = key
	if err := s.db.ProfileRepo().UpdateFields(ctx, profile, "profile_image"); err != nil {
		s.images.Discard(ctx, key)
		return nil, errs.NewDatabaseError("update", "profile", err)
	}
	s.images.Discard(ctx, old)
	return profile, nil
}

// Delete removes the actor's profile. Skills go with it, owned projects and reviews lose their owner,
// and messages nobody references anymore are removed.
func (s *ProfileService) Delete(ctx context.Context, actor uuid.UUID) error {
	var image string
	err := s.db.Transaction(ctx, func(tx database.Database) error {
		profile, err := tx.ProfileRepo().FindByID(ctx, actor, false)
		if err != nil {
			return err
		}
		image = profile.ProfileImage
		if err := tx.ProfileRepo().Delete(ctx, actor); err != nil {
			return err
		}
		_, err = tx.MessageRepo().DeleteOrphans(ctx)
		return err
	})
	if err != nil {
		return errs.NewDatabaseError("delete", "profile", err)
	}

	s.images.Discard(ctx, image)
	s.logger.Info().Str("profileID", actor.String()).Msg("Deleted profile")
	return nil
}
