package api

import (
	"net/http"
	"strings"

	"github.com/rpupo63/devsearch-backend/services"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type tagHandler struct {
	responder Responder
	logger    zerolog.Logger
	tags      *services.TagService
}

func newTagHandler(tags *services.TagService) tagHandler {
	logger := log.With().Str("handlerName", "tagHandler").Logger()

	return tagHandler{
		responder: NewResponder(logger),
		logger:    logger,
		tags:      tags,
	}
}

// @Router /api/tags-api/ [get]
func (h tagHandler) getProjectTags() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projectID, err := queryID(r, "project_id")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		tags, err := h.tags.ForProject(r.Context(), projectID)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, tags)
	}
}

// addTag attaches a tag by name, creating it on first use
// @Router /api/tags-api/ [post]
func (h tagHandler) addTag() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req tagRequest
		if err := decodeJSON(r, &req, "tag"); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		projectID, err := parseID(req.ProjectID, "project_id")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		tag, err := h.tags.Add(r.Context(), ctxGetProfileID(r.Context()), projectID, strings.TrimSpace(req.Name))
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteCreated(w, tag)
	}
}

// removeTag detaches a tag; the tag row goes once no project uses it
// @Router /api/tags-api/{tagID} [delete]
func (h tagHandler) removeTag() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tagID, err := urlID(r, "tagID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		projectID, err := queryID(r, "project_id")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		if err := h.tags.Remove(r.Context(), ctxGetProfileID(r.Context()), projectID, tagID); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteNoContent(w)
	}
}
