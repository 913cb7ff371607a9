package api

import (
	"net/http"
	"strings"

	"github.com/rpupo63/devsearch-backend/database"
	"github.com/rpupo63/devsearch-backend/errs"
	"github.com/rpupo63/devsearch-backend/media"
	"github.com/rpupo63/devsearch-backend/pagination"
	"github.com/rpupo63/devsearch-backend/validation"
)

// profileFields are the editable profile form inputs, in display order.
var profileFields = []string{
	"first_name", "last_name", "location", "short_intro", "bio",
	"github", "x", "linkedin", "youtube", "website",
}

// profiles is the developer directory with name and skill search.
func (p *pageHandlers) profiles() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		page, size := pagination.Parse(q.Get("page"), q.Get("size"), pagination.DefaultSize)
		filter := database.ProfileFilter{
			Query: strings.TrimSpace(q.Get("search_query")),
			Skill: strings.TrimSpace(q.Get("skill")),
		}

		profiles, paginator, err := p.svc.Profiles.Search(r.Context(), filter, page, size)
		if err != nil {
			p.fail(w, r, err)
			return
		}
		p.render(w, r, "profiles", http.StatusOK, view{
			"Profiles":    profiles,
			"Paginator":   paginator,
			"SearchQuery": filter.Query,
			"Skill":       filter.Skill,
		})
	}
}

func (p *pageHandlers) userProfile() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := urlID(r, "profileID")
		if err != nil {
			p.fail(w, r, errs.NewNotFoundError("Profile not found!"))
			return
		}
		profile, err := p.svc.Profiles.Get(r.Context(), id)
		if err != nil {
			p.fail(w, r, err)
			return
		}
		page, size := pagination.Parse(r.URL.Query().Get("page"), r.URL.Query().Get("size"), pagination.DefaultSize)
		projects, paginator, err := p.svc.Projects.ByOwner(r.Context(), id, page, size)
		if err != nil {
			p.fail(w, r, err)
			return
		}
		p.render(w, r, "user_profile", http.StatusOK, view{
			"Profile":   profile,
			"Projects":  projects,
			"Paginator": paginator,
		})
	}
}

// account is the signed-in profile's own page with edit controls.
func (p *pageHandlers) account() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		profile, err := p.svc.Profiles.Get(r.Context(), actorID(r))
		if err != nil {
			p.fail(w, r, err)
			return
		}
		page, size := pagination.Parse(r.URL.Query().Get("page"), r.URL.Query().Get("size"), pagination.DefaultSize)
		projects, paginator, err := p.svc.Projects.ByOwner(r.Context(), profile.ID, page, size)
		if err != nil {
			p.fail(w, r, err)
			return
		}
		p.render(w, r, "account", http.StatusOK, view{
			"Profile":   profile,
			"Projects":  projects,
			"Paginator": paginator,
		})
	}
}

func (p *pageHandlers) editAccountForm() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		profile, err := p.svc.Profiles.Get(r.Context(), actorID(r))
		if err != nil {
			p.fail(w, r, err)
			return
		}
		p.render(w, r, "profile_form", http.StatusOK, view{"Form": profileFormValues(profile.FirstName, profile.LastName,
			profile.Location, profile.ShortIntro, profile.Bio, profile.Github, profile.X, profile.Linkedin,
			profile.Youtube, profile.Website)})
	}
}

// editAccount treats a blank input as clearing the field.
func (p *pageHandlers) editAccount() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			p.fail(w, r, errs.Malformed("profile form"))
			return
		}
		form := r.PostForm
		update := validation.ProfileUpdate{
			FirstName:  validation.FormString(form, "first_name"),
			LastName:   validation.FormString(form, "last_name"),
			Location:   validation.FormString(form, "location"),
			ShortIntro: validation.FormString(form, "short_intro"),
			Bio:        validation.FormString(form, "bio"),
			Github:     validation.FormString(form, "github"),
			X:          validation.FormString(form, "x"),
			Linkedin:   validation.FormString(form, "linkedin"),
			Youtube:    validation.FormString(form, "youtube"),
			Website:    validation.FormString(form, "website"),
		}

		if _, err := p.svc.Profiles.Update(r.Context(), actorID(r), update); err != nil {
			if fields, ok := formErrors(err); ok {
				values := map[string]string{}
				for _, name := range profileFields {
					values[name] = form.Get(name)
				}
				p.render(w, r, "profile_form", http.StatusUnprocessableEntity, view{"Form": values, "Errors": fields})
				return
			}
			p.fail(w, r, err)
			return
		}
		p.redirect(w, r, "/account", flashSuccess, "Profile was updated!")
	}
}

func (p *pageHandlers) profileImageForm() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p.render(w, r, "profile_image", http.StatusOK, nil)
	}
}

func (p *pageHandlers) updateProfileImage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := withUpload(w, r, true, func(upload *media.Upload) error {
			_, err := p.svc.Profiles.UpdateImage(r.Context(), actorID(r), *upload)
			return err
		})
		if err != nil {
			if fields, ok := formErrors(err); ok {
				p.render(w, r, "profile_image", http.StatusBadRequest, view{"Errors": fields})
				return
			}
			p.fail(w, r, err)
			return
		}
		p.redirect(w, r, "/account", flashSuccess, "Profile image was updated!")
	}
}

// profileFormValues maps stored profile values onto form inputs.
func profileFormValues(values ...*string) map[string]string {
	out := make(map[string]string, len(profileFields))
	for i, name := range profileFields {
		if i < len(values) && values[i] != nil {
			out[name] = *values[i]
		}
	}
	return out
}
