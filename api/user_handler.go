package api

import (
	"net/http"

	"github.com/rpupo63/devsearch-backend/database"
	"github.com/rpupo63/devsearch-backend/errs"
	"github.com/rpupo63/devsearch-backend/media"
	"github.com/rpupo63/devsearch-backend/services"
	"github.com/rpupo63/devsearch-backend/validation"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const profileSearchSize = 10

type userHandler struct {
	responder Responder
	logger    zerolog.Logger
	accounts  *services.AccountService
	profiles  *services.ProfileService
	images    *media.Ingestor
}

func newUserHandler(accounts *services.AccountService, profiles *services.ProfileService, images *media.Ingestor) userHandler {
	logger := log.With().Str("handlerName", "userHandler").Logger()

	return userHandler{
		responder: NewResponder(logger),
		logger:    logger,
		accounts:  accounts,
		profiles:  profiles,
		images:    images,
	}
}

// getProfile returns one profile with its skills
// @Router /api/users-api/{profileID} [get]
func (h userHandler) getProfile() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := urlID(r, "profileID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		profile, err := h.profiles.Get(r.Context(), id)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, newProfileResponse(*profile, h.images))
	}
}

// searchProfiles filters by name substring and exact skill name
// @Router /api/users-api/search [get]
func (h userHandler) searchProfiles() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page, size := pageParams(r, profileSearchSize)
		filter := database.ProfileFilter{
			Query: r.URL.Query().Get("username"),
			Skill: r.URL.Query().Get("skill"),
		}

		profiles, paginator, err := h.profiles.Search(r.Context(), filter, page, size)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		response := profilePage{Profiles: make([]profileResponse, 0, len(profiles)), Paginator: paginator}
		for _, p := range profiles {
			response.Profiles = append(response.Profiles, newProfileResponse(p, h.images))
		}
		h.responder.WriteJSON(w, response)
	}
}

// register creates an account; every failing field is reported together
// @Router /api/users-api/ [post]
func (h userHandler) register() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var registration validation.Registration
		if err := decodeJSON(r, &registration, "registration"); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		profile, err := h.accounts.Register(r.Context(), registration)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.logger.Info().Str("profileID", profile.ID.String()).Msg("profile registered")
		h.responder.WriteCreated(w, newProfileResponse(*profile, h.images))
	}
}

// login takes an OAuth2 password form and returns an access/refresh pair
// @Router /api/users-api/token [post]
func (h userHandler) login() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			h.responder.WriteError(w, errs.Malformed("login form"))
			return
		}

		pair, _, err := h.accounts.Login(r.Context(), r.PostForm.Get("username"), r.PostForm.Get("password"))
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, pair)
	}
}

// refresh exchanges a refresh token for a fresh access token
// @Router /api/users-api/refresh [post]
func (h userHandler) refresh() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req refreshRequest
		if err := decodeJSON(r, &req, "refresh"); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		pair, err := h.accounts.Refresh(r.Context(), req.RefreshToken)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, pair)
	}
}

// updateProfile applies a partial update; an explicit null clears a field
// @Router /api/users-api/ [put]
func (h userHandler) updateProfile() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var update validation.ProfileUpdate
		if err := decodeJSON(r, &update, "profile"); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		if _, err := h.profiles.Update(r.Context(), ctxGetProfileID(r.Context()), update); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteNoContent(w)
	}
}

// updateProfileImage replaces the profile picture from the multipart "image" field
// @Router /api/users-api/profile-image [put]
func (h userHandler) updateProfileImage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := parseUploadForm(w, r); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		upload, file, err := requireUpload(r, "image")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		defer file.Close()

		if _, err := h.profiles.UpdateImage(r.Context(), ctxGetProfileID(r.Context()), *upload); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteNoContent(w)
	}
}

// changePassword sets a new password after checking strength and confirmation
// @Router /api/users-api/password [put]
func (h userHandler) changePassword() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var change validation.PasswordChange
		if err := decodeJSON(r, &change, "password"); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		if err := h.accounts.ChangePassword(r.Context(), ctxGetProfileID(r.Context()), change); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteNoContent(w)
	}
}

// deleteProfile removes the caller's account
// @Router /api/users-api/ [delete]
func (h userHandler) deleteProfile() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := ctxGetProfileID(r.Context())
		if err := h.profiles.Delete(r.Context(), id); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.logger.Info().Str("profileID", id.String()).Msg("profile deleted")
		h.responder.WriteNoContent(w)
	}
}
