// Package services holds the business rules shared by the JSON API and the rendered pages.
package services

import (
	"github.com/rpupo63/devsearch-backend/auth"
	"github.com/rpupo63/devsearch-backend/database"
	"github.com/rpupo63/devsearch-backend/media"
)

// Services bundles one instance of every service over a shared database.
type Services struct {
	Accounts *AccountService
	Profiles *ProfileService
	Skills   *SkillService
	Projects *ProjectService
	Tags     *TagService
	Reviews  *ReviewService
	Messages *MessageService
}

func New(db database.Database, issuer *auth.Issuer, images *media.Ingestor, mailer Mailer, baseURL string) *Services {
	return &Services{
		Accounts: NewAccountService(db, issuer, mailer, baseURL),
		Profiles: NewProfileService(db, images),
		Skills:   NewSkillService(db),
		Projects: NewProjectService(db, images),
		Tags:     NewTagService(db),
		Reviews:  NewReviewService(db),
		Messages: NewMessageService(db),
	}
}
