package api

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rpupo63/devsearch-backend/auth"
	"github.com/rpupo63/devsearch-backend/errs"
	"github.com/rpupo63/devsearch-backend/validation"
)

func (p *pageHandlers) loginForm() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if ctxGetProfile(r.Context()) != nil {
			http.Redirect(w, r, "/", http.StatusFound)
			return
		}
		p.render(w, r, "login", http.StatusOK, view{"Next": r.URL.Query().Get("next"), "Username": ""})
	}
}

// login accepts a username or email and stores the access token in a cookie.
func (p *pageHandlers) login() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			p.fail(w, r, errs.Malformed("login form"))
			return
		}
		identifier := r.PostForm.Get("username")
		next := r.PostForm.Get("next")

		pair, profile, err := p.svc.Accounts.Login(r.Context(), identifier, r.PostForm.Get("password"))
		if err != nil {
			if errs.IsUnauthorized(err) {
				p.render(w, r, "login", http.StatusUnauthorized, view{
					"Next":     next,
					"Username": identifier,
					"Error":    "Username or password is incorrect.",
				})
				return
			}
			p.fail(w, r, err)
			return
		}

		p.cookies.set(w, accessTokenCookie, pair.AccessToken, auth.AccessTokenTTL)
		p.redirect(w, r, safeNext(next, "/account"), flashSuccess, "Welcome back, "+profile.Username+"!")
	}
}

func (p *pageHandlers) logout() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p.cookies.clear(w, accessTokenCookie)
		p.redirect(w, r, "/login/", flashInfo, "You have been logged out.")
	}
}

func (p *pageHandlers) registerForm() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if ctxGetProfile(r.Context()) != nil {
			http.Redirect(w, r, "/", http.StatusFound)
			return
		}
		p.render(w, r, "register", http.StatusOK, view{"Form": validation.Registration{}})
	}
}

// register signs the new profile straight in and sends it to fill out the account.
func (p *pageHandlers) register() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			p.fail(w, r, errs.Malformed("registration form"))
			return
		}
		confirmation := r.PostForm.Get("password_2")
		registration := validation.Registration{
			Username:     r.PostForm.Get("username"),
			Email:        r.PostForm.Get("email"),
			Password:     r.PostForm.Get("password"),
			Confirmation: &confirmation,
			FirstName:    optionalForm(r, "first_name"),
			LastName:     optionalForm(r, "last_name"),
		}

		profile, err := p.svc.Accounts.Register(r.Context(), registration)
		if err != nil {
			if fields, ok := formErrors(err); ok {
				p.render(w, r, "register", http.StatusUnprocessableEntity, view{"Form": registration, "Errors": fields})
				return
			}
			p.fail(w, r, err)
			return
		}

		pair, _, err := p.svc.Accounts.Login(r.Context(), profile.Username, registration.Password)
		if err != nil {
			p.fail(w, r, err)
			return
		}
		p.cookies.set(w, accessTokenCookie, pair.AccessToken, auth.AccessTokenTTL)
		p.redirect(w, r, "/edit-account", flashSuccess, "User account was created!")
	}
}

func (p *pageHandlers) sendEmailVerification() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := p.svc.Accounts.SendVerification(r.Context(), actorID(r)); err != nil {
			if errs.IsBadRequest(err) {
				p.redirect(w, r, "/account", flashInfo, "Your email is already verified.")
				return
			}
			p.fail(w, r, err)
			return
		}
		p.redirect(w, r, "/account", flashSuccess, "A verification link has been sent to your email.")
	}
}

func (p *pageHandlers) verifyEmail() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := p.svc.Accounts.VerifyEmail(r.Context(), chi.URLParam(r, "token")); err != nil {
			if errs.IsUnauthorized(err) || errs.IsNotFound(err) {
				p.redirect(w, r, "/", flashError, "The verification link is invalid or has expired.")
				return
			}
			p.fail(w, r, err)
			return
		}
		p.redirect(w, r, "/account", flashSuccess, "Your email has been verified.")
	}
}

func (p *pageHandlers) resetPasswordForm() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p.render(w, r, "reset_password", http.StatusOK, view{"Email": ""})
	}
}

// resetPassword answers the same way whether or not the email is registered.
func (p *pageHandlers) resetPassword() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			p.fail(w, r, errs.Malformed("reset form"))
			return
		}
		email := strings.TrimSpace(r.PostForm.Get("email"))
		if !validation.ValidEmail(email) {
			p.render(w, r, "reset_password", http.StatusUnprocessableEntity, view{
				"Email":  email,
				"Errors": map[string][]string{"email": {"value is not a valid email address"}},
			})
			return
		}

		if err := p.svc.Accounts.RequestPasswordReset(r.Context(), email); err != nil {
			p.fail(w, r, err)
			return
		}
		p.redirect(w, r, "/login/", flashInfo, "If an account exists for that email, a reset link has been sent.")
	}
}

func (p *pageHandlers) changePasswordForm() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := chi.URLParam(r, "token")
		if err := p.svc.Accounts.CheckResetToken(token); err != nil {
			p.redirect(w, r, "/reset-password", flashError, "The reset link is invalid or has expired.")
			return
		}
		p.render(w, r, "change_password", http.StatusOK, view{"Token": token})
	}
}

func (p *pageHandlers) changePassword() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := chi.URLParam(r, "token")
		if err := r.ParseForm(); err != nil {
			p.fail(w, r, errs.Malformed("password form"))
			return
		}
		change := validation.PasswordChange{
			Password:     r.PostForm.Get("password"),
			Confirmation: r.PostForm.Get("password_2"),
		}

		if err := p.svc.Accounts.ResetPassword(r.Context(), token, change); err != nil {
			if fields, ok := formErrors(err); ok {
				p.render(w, r, "change_password", http.StatusUnprocessableEntity, view{"Token": token, "Errors": fields})
				return
			}
			if errs.IsUnauthorized(err) || errs.IsNotFound(err) {
				p.redirect(w, r, "/reset-password", flashError, "The reset link is invalid or has expired.")
				return
			}
			p.fail(w, r, err)
			return
		}
		p.redirect(w, r, "/login/", flashSuccess, "Your password has been changed. Please log in.")
	}
}

// optionalForm returns nil for a blank form value
func optionalForm(r *http.Request, key string) *string {
	v := strings.TrimSpace(r.FormValue(key))
	if v == "" {
		return nil
	}
	return &v
}
