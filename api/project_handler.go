package api

import (
	"mime"
	"net/http"
	"strings"

	"github.com/rpupo63/devsearch-backend/media"
	"github.com/rpupo63/devsearch-backend/models"
	"github.com/rpupo63/devsearch-backend/pagination"
	"github.com/rpupo63/devsearch-backend/services"
	"github.com/rpupo63/devsearch-backend/validation"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type projectHandler struct {
	responder Responder
	logger    zerolog.Logger
	projects  *services.ProjectService
	reviews   *services.ReviewService
	images    *media.Ingestor
}

func newProjectHandler(projects *services.ProjectService, reviews *services.ReviewService, images *media.Ingestor) projectHandler {
	logger := log.With().Str("handlerName", "projectHandler").Logger()

	return projectHandler{
		responder: NewResponder(logger),
		logger:    logger,
		projects:  projects,
		reviews:   reviews,
		images:    images,
	}
}

// searchProjects matches title or tag name, newest first
// @Router /api/projects-api/search [get]
func (h projectHandler) searchProjects() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page, size := pageParams(r, pagination.DefaultSize)

		projects, paginator, err := h.projects.Search(r.Context(), r.URL.Query().Get("q"), page, size)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, h.page(projects, paginator))
	}
}

// getProfileProjects lists one owner's projects
// @Router /api/projects-api/user/{profileID} [get]
func (h projectHandler) getProfileProjects() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ownerID, err := urlID(r, "profileID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		page, size := pageParams(r, pagination.DefaultSize)

		projects, paginator, err := h.projects.ByOwner(r.Context(), ownerID, page, size)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, h.page(projects, paginator))
	}
}

// getProject returns a project with its tags, owner and first page of reviews
// @Router /api/projects-api/{projectID} [get]
func (h projectHandler) getProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := urlID(r, "projectID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		project, err := h.projects.Get(r.Context(), id)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		reviews, paginator, err := h.reviews.ForProject(r.Context(), id, 1, pagination.DefaultReviewSize)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSON(w, projectDetail{
			projectResponse: newProjectResponse(*project, h.images),
			Reviews:         reviews,
			Paginator:       paginator,
		})
	}
}

// createProject accepts JSON, or a multipart form with an optional "image" file
// @Router /api/projects-api/ [post]
func (h projectHandler) createProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var (
			in     validation.ProjectInput
			upload *media.Upload
		)

		if isMultipart(r) {
			if err := parseUploadForm(w, r); err != nil {
				h.responder.WriteError(w, err)
				return
			}
			in = projectInputFromForm(r)
			u, file, err := readUpload(r, "image")
			if err != nil {
				h.responder.WriteError(w, err)
				return
			}
			if file != nil {
				defer file.Close()
			}
			upload = u
		} else if err := decodeJSON(r, &in, "project"); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		project, err := h.projects.Create(r.Context(), ctxGetProfileID(r.Context()), in, upload)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.logger.Info().Str("projectID", project.ID.String()).Msg("project created")
		h.responder.WriteCreated(w, newProjectResponse(*project, h.images))
	}
}

// updateProject applies a partial update; tags are added, never removed here
// @Router /api/projects-api/{projectID} [put]
func (h projectHandler) updateProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := urlID(r, "projectID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		var update validation.ProjectUpdate
		if err := decodeJSON(r, &update, "project"); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		if _, err := h.projects.Update(r.Context(), ctxGetProfileID(r.Context()), id, update); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteNoContent(w)
	}
}

// @Router /api/projects-api/{projectID}/image [put]
func (h projectHandler) updateProjectImage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := urlID(r, "projectID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
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

		if _, err := h.projects.UpdateImage(r.Context(), ctxGetProfileID(r.Context()), id, *upload); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteNoContent(w)
	}
}

// @Router /api/projects-api/{projectID} [delete]
func (h projectHandler) deleteProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := urlID(r, "projectID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		if err := h.projects.Delete(r.Context(), ctxGetProfileID(r.Context()), id); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.logger.Info().Str("projectID", id.String()).Msg("project deleted")
		h.responder.WriteNoContent(w)
	}
}

func (h projectHandler) page(projects []models.Project, paginator pagination.Paginator) projectPage {
	response := projectPage{Projects: make([]projectResponse, 0, len(projects)), Paginator: paginator}
	for _, p := range projects {
		response.Projects = append(response.Projects, newProjectResponse(p, h.images))
	}
	return response
}

func isMultipart(r *http.Request) bool {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && strings.HasPrefix(mediaType, "multipart/")
}

// projectInputFromForm reads a parsed form. Blank optional fields are stored as null.
func projectInputFromForm(r *http.Request) validation.ProjectInput {
	optional := func(key string) *string {
		v := strings.TrimSpace(r.FormValue(key))
		if v == "" {
			return nil
		}
		return &v
	}
	return validation.ProjectInput{
		Title:       r.FormValue("title"),
		Description: optional("description"),
		DemoLink:    optional("demo_link"),
		SourceCode:  optional("source_code"),
		Tags:        r.FormValue("tags"),
	}
}
