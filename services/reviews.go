package services

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/rpupo63/devsearch-backend/auth"
	"github.com/rpupo63/devsearch-backend/database"
	"github.com/rpupo63/devsearch-backend/errs"
	"github.com/rpupo63/devsearch-backend/models"
	"github.com/rpupo63/devsearch-backend/pagination"
	"github.com/rpupo63/devsearch-backend/validation"
	"gorm.io/gorm"
)

// ReviewService manages votes. vote_total belongs to the database triggers;
// this service only ever writes vote_ratio, after every review change.
type ReviewService struct {
	db database.Database
}

func NewReviewService(db database.Database) *ReviewService {
	return &ReviewService{db: db}
}

func (s *ReviewService) ForProject(ctx context.Context, projectID uuid.UUID, page, size int) ([]models.Review, pagination.Paginator, error) {
	reviews, total, err := s.db.ReviewRepo().FindByProject(ctx, projectID, pagination.Offset(page, size), size)
	if err != nil {
		return nil, pagination.Paginator{}, errs.NewDatabaseError("list", "reviews", err)
	}
	return reviews, pagination.New(page, size, total), nil
}

// Mine returns the actor's review of a project.
func (s *ReviewService) Mine(ctx context.Context, actor, projectID uuid.UUID) (*models.Review, error) {
	review, err := s.db.ReviewRepo().FindByProjectAndOwner(ctx, projectID, actor)
	if err != nil {
		return nil, errs.NewDatabaseError("find", "review", err)
	}
	return review, nil
}

// HasReviewed reports whether the actor already voted on a project.
func (s *ReviewService) HasReviewed(ctx context.Context, actor, projectID uuid.UUID) (bool, error) {
	_, err := s.db.ReviewRepo().FindByProjectAndOwner(ctx, projectID, actor)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return false, nil
	default:
		return false, errs.NewDatabaseError("find", "review", err)
	}
}

// Create records the actor's single vote on someone else's project.
func (s *ReviewService) Create(ctx context.Context, actor, projectID uuid.UUID, in validation.ReviewInput) (*models.Review, error) {
	if err := in.Validate().Err(); err != nil {
		return nil, err
	}

	review := &models.Review{Body: in.Body, Value: in.Value, ProjectID: projectID, OwnerID: &actor}
	err := s.db.Transaction(ctx, func(tx database.Database) error {
		project, err := tx.ProjectRepo().FindByID(ctx, projectID)
		if err != nil {
			return err
		}
		if auth.IsOwner(actor, project) {
			return errs.NewForbiddenError("You cannot review your own project.")
		}

		_, err = tx.ReviewRepo().FindByProjectAndOwner(ctx, projectID, actor)
		switch {
		case err == nil:
			return errs.NewConflictError("You have already reviewed this project.")
		case !errors.Is(err, gorm.ErrRecordNotFound):
			return err
		}

		if err := tx.ReviewRepo().Add(ctx, review); err != nil {
			return err
		}
		_, err = Recompute(ctx, tx, projectID)
		return err
	})
	if err != nil {
		return nil, errs.NewDatabaseError("create", "review", err)
	}
	return review, nil
}

// Update changes the value or body of the actor's own review.
func (s *ReviewService) Update(ctx context.Context, actor, id uuid.UUID, update validation.ReviewUpdate) (*models.Review, error) {
	if err := update.Validate().Err(); err != nil {
		return nil, err
	}

	var review *models.Review
	err := s.db.Transaction(ctx, func(tx database.Database) error {
		var err error
		if review, err = tx.ReviewRepo().FindByID(ctx, id); err != nil {
			return err
		}
		if err := auth.RequireOwner(actor, review); err != nil {
			return err
		}
		update.Apply(review)
		if err := tx.ReviewRepo().Update(ctx, review); err != nil {
			return err
		}
		_, err = Recompute(ctx, tx, review.ProjectID)
		return err
	})
	if err != nil {
		return nil, errs.NewDatabaseError("update", "review", err)
	}
	return review, nil
}

func (s *ReviewService) Delete(ctx context.Context, actor, id uuid.UUID) error {
	err := s.db.Transaction(ctx, func(tx database.Database) error {
		review, err := tx.ReviewRepo().FindByID(ctx, id)
		if err != nil {
			return err
		}
		if err := auth.RequireOwner(actor, review); err != nil {
			return err
		}
		if err := tx.ReviewRepo().Delete(ctx, id); err != nil {
			return err
		}
		_, err = Recompute(ctx, tx, review.ProjectID)
		return err
	})
	if err != nil {
		return errs.NewDatabaseError("delete", "review", err)
	}
	return nil
}

// Recompute sets vote_ratio to the percentage of up votes among the trigger-maintained vote_total.
// A project without votes has a ratio of 0.
func Recompute(ctx context.Context, db database.Database, projectID uuid.UUID) (float64, error) {
	up, err := db.ReviewRepo().CountUpVotes(ctx, projectID)
	if err != nil {
		return 0, err
	}
	total, err := db.ProjectRepo().VoteTotal(ctx, projectID)
	if err != nil {
		return 0, err
	}

	var ratio float64
	if total > 0 {
		ratio = float64(up) / float64(total) * 100
	}
	return ratio, db.ProjectRepo().SetVoteRatio(ctx, projectID, ratio)
}
