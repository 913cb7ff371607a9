package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rpupo63/devsearch-backend/errs"
	"github.com/rpupo63/devsearch-backend/validation"
)

// skillForm serves both the create and the update form.
func (p *pageHandlers) skillForm() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if chi.URLParam(r, "skillID") == "" {
			p.render(w, r, "skill_form", http.StatusOK, view{"Action": "/create-skill", "Form": map[string]string{}})
			return
		}
		id, err := urlID(r, "skillID")
		if err != nil {
			p.fail(w, r, errs.NewNotFoundError("Skill not found!"))
			return
		}
		skill, err := p.svc.Skills.Get(r.Context(), actorID(r), id)
		if err != nil {
			p.fail(w, r, err)
			return
		}
		form := map[string]string{"name": skill.Name}
		if skill.Description != nil {
			form["description"] = *skill.Description
		}
		p.render(w, r, "skill_form", http.StatusOK, view{"Action": "/update-skill/" + id.String(), "Form": form})
	}
}

func (p *pageHandlers) createSkill() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			p.fail(w, r, errs.Malformed("skill form"))
			return
		}
		in := validation.SkillInput{Name: r.PostForm.Get("name"), Description: optionalForm(r, "description")}

		if _, err := p.svc.Skills.Create(r.Context(), actorID(r), in); err != nil {
			if fields, ok := formErrors(err); ok {
				p.render(w, r, "skill_form", http.StatusUnprocessableEntity, view{
					"Action": "/create-skill",
					"Form":   map[string]string{"name": in.Name, "description": r.PostForm.Get("description")},
					"Errors": fields,
				})
				return
			}
			p.fail(w, r, err)
			return
		}
		p.redirect(w, r, "/account", flashSuccess, "Skill was added successfully!")
	}
}

func (p *pageHandlers) updateSkill() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := urlID(r, "skillID")
		if err != nil {
			p.fail(w, r, errs.NewNotFoundError("Skill not found!"))
			return
		}
		if err := r.ParseForm(); err != nil {
			p.fail(w, r, errs.Malformed("skill form"))
			return
		}
		update := validation.SkillUpdate{
			Name:        validation.FormString(r.PostForm, "name"),
			Description: validation.FormString(r.PostForm, "description"),
		}

		if _, err := p.svc.Skills.Update(r.Context(), actorID(r), id, update); err != nil {
			if fields, ok := formErrors(err); ok {
				p.render(w, r, "skill_form", http.StatusUnprocessableEntity, view{
					"Action": "/update-skill/" + id.String(),
					"Form":   map[string]string{"name": r.PostForm.Get("name"), "description": r.PostForm.Get("description")},
					"Errors": fields,
				})
				return
			}
			p.fail(w, r, err)
			return
		}
		p.redirect(w, r, "/account", flashSuccess, "Skill was updated successfully!")
	}
}

func (p *pageHandlers) confirmDeleteSkill() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := urlID(r, "skillID")
		if err != nil {
			p.fail(w, r, errs.NewNotFoundError("Skill not found!"))
			return
		}
		skill, err := p.svc.Skills.Get(r.Context(), actorID(r), id)
		if err != nil {
			p.fail(w, r, err)
			return
		}
		p.render(w, r, "delete", http.StatusOK, view{
			"Object": skill.Name,
			"Action": "/delete-skill/" + id.String(),
			"Back":   "/account",
		})
	}
}

func (p *pageHandlers) deleteSkill() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := urlID(r, "skillID")
		if err != nil {
			p.fail(w, r, errs.NewNotFoundError("Skill not found!"))
			return
		}
		if err := p.svc.Skills.Delete(r.Context(), actorID(r), id); err != nil {
			p.fail(w, r, err)
			return
		}
		p.redirect(w, r, "/account", flashSuccess, "Skill was deleted successfully!")
	}
}
