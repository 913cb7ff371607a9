package api

import (
	"context"

	"github.com/google/uuid"
	"github.com/rpupo63/devsearch-backend/models"
)

type keyType string

const profileKey keyType = "profile"

// ctxWithProfile attaches the authenticated profile to the context
func ctxWithProfile(ctx context.Context, profile *models.Profile) context.Context {
	return context.WithValue(ctx, profileKey, profile)
}

// ctxGetProfile returns the authenticated profile, or nil for anonymous requests
func ctxGetProfile(ctx context.Context) *models.Profile {
	profile, _ := ctx.Value(profileKey).(*models.Profile)
	return profile
}

// ctxGetProfileID returns the authenticated profile's id, or uuid.Nil
func ctxGetProfileID(ctx context.Context) uuid.UUID {
	if profile := ctxGetProfile(ctx); profile != nil {
		return profile.ID
	}
	return uuid.Nil
}
