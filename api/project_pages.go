package api

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rpupo63/devsearch-backend/auth"
	"github.com/rpupo63/devsearch-backend/errs"
	"github.com/rpupo63/devsearch-backend/media"
	"github.com/rpupo63/devsearch-backend/models"
	"github.com/rpupo63/devsearch-backend/pagination"
	"github.com/rpupo63/devsearch-backend/validation"
)

var projectNotFound = errs.NewNotFoundError("Project not found!")

func (p *pageHandlers) projects() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		page, size := pagination.Parse(q.Get("page"), q.Get("size"), pagination.DefaultSize)
		search := strings.TrimSpace(q.Get("search_query"))

		projects, paginator, err := p.svc.Projects.Search(r.Context(), search, page, size)
		if err != nil {
			p.fail(w, r, err)
			return
		}
		p.render(w, r, "projects", http.StatusOK, view{
			"Projects":    projects,
			"Paginator":   paginator,
			"SearchQuery": search,
		})
	}
}

// project shows one project, its reviews and, for other signed-in profiles, the review form.
func (p *pageHandlers) project() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := urlID(r, "projectID")
		if err != nil {
			p.fail(w, r, projectNotFound)
			return
		}
		project, err := p.svc.Projects.Get(r.Context(), id)
		if err != nil {
			p.fail(w, r, err)
			return
		}
		q := r.URL.Query()
		page, size := pagination.Parse(q.Get("page"), q.Get("size"), pagination.DefaultReviewSize)
		reviews, paginator, err := p.svc.Reviews.ForProject(r.Context(), id, page, size)
		if err != nil {
			p.fail(w, r, err)
			return
		}

		canReview := false
		if user := ctxGetProfile(r.Context()); user != nil && !auth.IsOwner(user.ID, project) {
			reviewed, err := p.svc.Reviews.HasReviewed(r.Context(), user.ID, id)
			if err != nil {
				p.fail(w, r, err)
				return
			}
			canReview = !reviewed
		}

		p.render(w, r, "project", http.StatusOK, view{
			"Project":   project,
			"Reviews":   reviews,
			"Paginator": paginator,
			"CanReview": canReview,
		})
	}
}

func (p *pageHandlers) createReview() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := urlID(r, "projectID")
		if err != nil {
			p.fail(w, r, projectNotFound)
			return
		}
		if err := r.ParseForm(); err != nil {
			p.fail(w, r, errs.Malformed("review form"))
			return
		}
		back := "/projects/project/" + id.String()
		in := validation.ReviewInput{
			Value: models.ReviewValue(r.PostForm.Get("value")),
			Body:  optionalForm(r, "body"),
		}

		_, err = p.svc.Reviews.Create(r.Context(), actorID(r), id, in)
		switch {
		case err == nil:
			p.redirect(w, r, back, flashSuccess, "Your review was successfully submitted!")
		case errs.IsForbidden(err):
			p.redirect(w, r, back, flashError, "You cannot review your own work.")
		case errs.IsConflict(err):
			p.redirect(w, r, back, flashError, "You have already reviewed this project.")
		case errs.IsValidation(err):
			p.redirect(w, r, back, flashError, "Please choose whether you vote up or down.")
		default:
			p.fail(w, r, err)
		}
	}
}

// projectForm serves both the create and the update form. Only the owner may edit.
func (p *pageHandlers) projectForm() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if chi.URLParam(r, "projectID") == "" {
			p.render(w, r, "project_form", http.StatusOK, view{"Action": "/projects/create-project", "Form": map[string]string{}})
			return
		}
		project, ok := p.ownProject(w, r)
		if !ok {
			return
		}
		form := map[string]string{
			"title":       project.Title,
			"description": deref(project.Description),
			"demo_link":   deref(project.DemoLink),
			"source_code": deref(project.SourceCode),
		}
		p.render(w, r, "project_form", http.StatusOK, view{
			"Action":  "/projects/update-project/" + project.ID.String(),
			"Form":    form,
			"Project": project,
		})
	}
}

func (p *pageHandlers) createProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in validation.ProjectInput
		err := withUpload(w, r, false, func(upload *media.Upload) error {
			in = projectInputFromForm(r)
			_, err := p.svc.Projects.Create(r.Context(), actorID(r), in, upload)
			return err
		})
		if err != nil {
			if fields, ok := formErrors(err); ok {
				p.render(w, r, "project_form", http.StatusUnprocessableEntity, view{
					"Action": "/projects/create-project",
					"Form":   projectFormValues(r),
					"Errors": fields,
				})
				return
			}
			p.fail(w, r, err)
			return
		}
		p.redirect(w, r, "/account", flashSuccess, "Project was created successfully!")
	}
}

// updateProject edits fields, links the space separated "newtags" and replaces the image when one is sent.
func (p *pageHandlers) updateProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		project, ok := p.ownProject(w, r)
		if !ok {
			return
		}
		action := "/projects/update-project/" + project.ID.String()

		err := withUpload(w, r, false, func(upload *media.Upload) error {
			update := validation.ProjectUpdate{
				Title:       validation.FormString(r.MultipartForm.Value, "title"),
				Description: validation.FormString(r.MultipartForm.Value, "description"),
				DemoLink:    validation.FormString(r.MultipartForm.Value, "demo_link"),
				SourceCode:  validation.FormString(r.MultipartForm.Value, "source_code"),
				Tags:        r.FormValue("newtags"),
			}
			_, err := p.svc.Projects.UpdateWithImage(r.Context(), actorID(r), project.ID, update, upload)
			return err
		})
		if err != nil {
			if fields, ok := formErrors(err); ok {
				p.render(w, r, "project_form", http.StatusUnprocessableEntity, view{
					"Action":  action,
					"Form":    projectFormValues(r),
					"Project": project,
					"Errors":  fields,
				})
				return
			}
			p.fail(w, r, err)
			return
		}
		p.redirect(w, r, "/account", flashSuccess, "Project was updated successfully!")
	}
}

func (p *pageHandlers) confirmDeleteProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		project, ok := p.ownProject(w, r)
		if !ok {
			return
		}
		p.render(w, r, "delete", http.StatusOK, view{
			"Object": project.Title,
			"Action": "/projects/delete-project/" + project.ID.String(),
			"Back":   "/account",
		})
	}
}

func (p *pageHandlers) deleteProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := urlID(r, "projectID")
		if err != nil {
			p.fail(w, r, projectNotFound)
			return
		}
		if err := p.svc.Projects.Delete(r.Context(), actorID(r), id); err != nil {
			p.fail(w, r, err)
			return
		}
		p.redirect(w, r, "/account", flashSuccess, "Project was deleted successfully!")
	}
}

func (p *pageHandlers) deleteTag() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projectID, err := urlID(r, "projectID")
		if err != nil {
			p.fail(w, r, projectNotFound)
			return
		}
		tagID, err := urlID(r, "tagID")
		if err != nil {
			p.fail(w, r, errs.NewNotFoundError("Tag not found!"))
			return
		}
		if err := p.svc.Tags.Remove(r.Context(), actorID(r), projectID, tagID); err != nil {
			p.fail(w, r, err)
			return
		}
		p.redirect(w, r, "/projects/update-project/"+projectID.String(), flashSuccess, "Tag was removed.")
	}
}

// ownProject loads the project named in the URL and checks the signed-in profile owns it.
func (p *pageHandlers) ownProject(w http.ResponseWriter, r *http.Request) (*models.Project, bool) {
	id, err := urlID(r, "projectID")
	if err != nil {
		p.fail(w, r, projectNotFound)
		return nil, false
	}
	project, err := p.svc.Projects.Get(r.Context(), id)
	if err != nil {
		p.fail(w, r, err)
		return nil, false
	}
	if err := auth.RequireOwner(actorID(r), project); err != nil {
		p.fail(w, r, err)
		return nil, false
	}
	return project, true
}

func projectFormValues(r *http.Request) map[string]string {
	values := map[string]string{}
	for _, name := range []string{"title", "description", "demo_link", "source_code", "tags", "newtags"} {
		values[name] = r.FormValue(name)
	}
	return values
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
