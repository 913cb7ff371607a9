package models

import "github.com/google/uuid"

// Shared placeholder images, relative to the media root. They are never deleted.
const (
	DefaultProfileImage = "images/user-default.png"
	DefaultProjectImage = "images/default.png"
)

// IsDefaultImage reports whether path is one of the shared placeholders.
func IsDefaultImage(path string) bool {
	return path == DefaultProfileImage || path == DefaultProjectImage
}

func ensureID(id *uuid.UUID) {
	if *id == uuid.Nil {
		*id = uuid.New()
	}
}
