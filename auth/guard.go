package auth

import (
	"github.com/google/uuid"
	"github.com/rpupo63/devsearch-backend/errs"
)

// Owned is any resource with an optional owning profile.
type Owned interface {
	OwnerKey() *uuid.UUID
}

// RequireOwner fails with Forbidden unless actor owns resource. Ownerless resources belong to nobody.
func RequireOwner(actor uuid.UUID, resource Owned) error {
	owner := resource.OwnerKey()
	if owner == nil || *owner != actor || actor == uuid.Nil {
		return errs.NewForbiddenError("you are not allowed to modify this resource")
	}
	return nil
}

// IsOwner is RequireOwner as a predicate, for templates deciding which controls to show.
func IsOwner(actor uuid.UUID, resource Owned) bool {
	return RequireOwner(actor, resource) == nil
}
