package api

import (
	"net/http"

	"github.com/rpupo63/devsearch-backend/services"
	"github.com/rpupo63/devsearch-backend/validation"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type skillHandler struct {
	responder Responder
	logger    zerolog.Logger
	skills    *services.SkillService
}

func newSkillHandler(skills *services.SkillService) skillHandler {
	logger := log.With().Str("handlerName", "skillHandler").Logger()

	return skillHandler{
		responder: NewResponder(logger),
		logger:    logger,
		skills:    skills,
	}
}

// getSkill returns one of the caller's own skills
func (h skillHandler) getSkill() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := urlID(r, "skillID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		skill, err := h.skills.Get(r.Context(), ctxGetProfileID(r.Context()), id)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, skill)
	}
}

func (h skillHandler) getProfileSkills() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := urlID(r, "profileID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		skills, err := h.skills.ForProfile(r.Context(), id)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, skills)
	}
}

func (h skillHandler) createSkill() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in validation.SkillInput
		if err := decodeJSON(r, &in, "skill"); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		skill, err := h.skills.Create(r.Context(), ctxGetProfileID(r.Context()), in)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteCreated(w, skill)
	}
}

func (h skillHandler) updateSkill() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := urlID(r, "skillID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		var update validation.SkillUpdate
		if err := decodeJSON(r, &update, "skill"); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		if _, err := h.skills.Update(r.Context(), ctxGetProfileID(r.Context()), id, update); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteNoContent(w)
	}
}

func (h skillHandler) deleteSkill() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := urlID(r, "skillID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		if err := h.skills.Delete(r.Context(), ctxGetProfileID(r.Context()), id); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteNoContent(w)
	}
}
