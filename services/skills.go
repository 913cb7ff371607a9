package services

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/rpupo63/devsearch-backend/auth"
	"github.com/rpupo63/devsearch-backend/database"
	"github.com/rpupo63/devsearch-backend/errs"
	"github.com/rpupo63/devsearch-backend/models"
	"github.com/rpupo63/devsearch-backend/validation"
)

type SkillService struct {
	db database.Database
}

func NewSkillService(db database.Database) *SkillService {
	return &SkillService{db: db}
}

// Get returns one of the actor's own skills.
func (s *SkillService) Get(ctx context.Context, actor, id uuid.UUID) (*models.Skill, error) {
	skill, err := s.db.SkillRepo().FindByID(ctx, id)
	if err != nil {
		return nil, errs.NewDatabaseError("find", "skill", err)
	}
	if err := auth.RequireOwner(actor, skill); err != nil {
		return nil, err
	}
	return skill, nil
}

func (s *SkillService) ForProfile(ctx context.Context, profileID uuid.UUID) ([]models.Skill, error) {
	if _, err := s.db.ProfileRepo().FindByID(ctx, profileID, false); err != nil {
		return nil, errs.NewDatabaseError("find", "profile", err)
	}
	skills, err := s.db.SkillRepo().FindByOwner(ctx, profileID)
	if err != nil {
		return nil, errs.NewDatabaseError("list", "skills", err)
	}
	return skills, nil
}

func (s *SkillService) Create(ctx context.Context, actor uuid.UUID, in validation.SkillInput) (*models.Skill, error) {
	if err := in.Validate().Err(); err != nil {
		return nil, err
	}
	skill := &models.Skill{Name: strings.TrimSpace(in.Name), Description: in.Description, OwnerID: actor}
	if err := s.db.SkillRepo().Add(ctx, skill); err != nil {
		return nil, errs.NewDatabaseError("create", "skill", err)
	}
	return skill, nil
}

func (s *SkillService) Update(ctx context.Context, actor, id uuid.UUID, update validation.SkillUpdate) (*models.Skill, error) {
	if err := update.Validate().Err(); err != nil {
		return nil, err
	}

	var skill *models.Skill
	err := s.db.Transaction(ctx, func(tx database.Database) error {
		var err error
		if skill, err = tx.SkillRepo().FindByID(ctx, id); err != nil {
			return err
		}
		if err := auth.RequireOwner(actor, skill); err != nil {
			return err
		}
		update.Apply(skill)
		return tx.SkillRepo().Update(ctx, skill)
	})
	if err != nil {
		return nil, errs.NewDatabaseError("update", "skill", err)
	}
	return skill, nil
}

func (s *SkillService) Delete(ctx context.Context, actor, id uuid.UUID) error {
	err := s.db.Transaction(ctx, func(tx database.Database) error {
		skill, err := tx.SkillRepo().FindByID(ctx, id)
		if err != nil {
			return err
		}
		if err := auth.RequireOwner(actor, skill); err != nil {
			return err
		}
		return tx.SkillRepo().Delete(ctx, id)
	})
	if err != nil {
		return errs.NewDatabaseError("delete", "skill", err)
	}
	return nil
}
