package api

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rpupo63/devsearch-backend/auth"
	"github.com/rpupo63/devsearch-backend/errs"
	"github.com/rpupo63/devsearch-backend/media"
	"github.com/rpupo63/devsearch-backend/models"
	"github.com/rpupo63/devsearch-backend/pagination"
	"github.com/rpupo63/devsearch-backend/services"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

//go:embed templates/*.html templates/partials/*.html
var templateFS embed.FS

// view is the data handed to a page template
type view map[string]any

type pageHandlers struct {
	logger    zerolog.Logger
	svc       *services.Services
	images    *media.Ingestor
	cookies   cookieJar
	flash     flasher
	templates map[string]*template.Template
}

func newPageHandlers(deps Deps, cookies cookieJar, secret []byte) (*pageHandlers, error) {
	p := &pageHandlers{
		logger:  log.With().Str("handlerName", "pageHandlers").Logger(),
		svc:     deps.Services,
		images:  deps.Images,
		cookies: cookies,
		flash:   newFlasher(secret, cookies),
	}
	templates, err := p.loadTemplates()
	if err != nil {
		return nil, err
	}
	p.templates = templates
	return p, nil
}

// loadTemplates parses the layout and partials once, then clones them for every page.
func (p *pageHandlers) loadTemplates() (map[string]*template.Template, error) {
	base, err := template.New("pages").Funcs(p.funcs()).ParseFS(templateFS, "templates/layout.html", "templates/partials/*.html")
	if err != nil {
		return nil, err
	}

	pages, err := fs.Glob(templateFS, "templates/*.html")
	if err != nil {
		return nil, err
	}

	templates := make(map[string]*template.Template, len(pages))
	for _, page := range pages {
		name := strings.TrimSuffix(strings.TrimPrefix(page, "templates/"), ".html")
		if name == "layout" {
			continue
		}
		clone, err := base.Clone()
		if err != nil {
			return nil, err
		}
		if _, err := clone.ParseFS(templateFS, page); err != nil {
			return nil, fmt.Errorf("parse %s: %w", page, err)
		}
		templates[name] = clone
	}
	return templates, nil
}

func (p *pageHandlers) funcs() template.FuncMap {
	return template.FuncMap{
		"imageURL": p.images.URL,
		"deref":    deref,
		"isOwner": func(user *models.Profile, resource auth.Owned) bool {
			return user != nil && auth.IsOwner(user.ID, resource)
		},
		"isSelf": func(user *models.Profile, id uuid.UUID) bool {
			return user != nil && user.ID == id
		},
		"profileFields": func() []string { return profileFields },
		"pageItems": func(p pagination.Paginator) []pagination.PageItem {
			return p.PagesRange(2, 2)
		},
		"add":  func(a, b int) int { return a + b },
		"sub":  func(a, b int) int { return a - b },
		"date": func(t time.Time) string { return t.Format("Jan 2, 2006") },
	}
}

// render writes a page inside the layout. The pending flash and signed-in profile are always available.
func (p *pageHandlers) render(w http.ResponseWriter, r *http.Request, name string, status int, data view) {
	tmpl, ok := p.templates[name]
	if !ok {
		p.logger.Error().Str("template", name).Msg("unknown template")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	if data == nil {
		data = view{}
	}
	if _, ok := data["Errors"]; !ok {
		data["Errors"] = map[string][]string{}
	}
	data["User"] = ctxGetProfile(r.Context())
	data["Flash"] = p.flash.pop(w, r)
	data["Path"] = r.URL.Path

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "layout", data); err != nil {
		p.logger.Error().Err(err).Str("template", name).Msg("failed to render page")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		p.logger.Error().Err(err).Msg("failed to write page")
	}
}

// redirect finishes a successful POST, optionally leaving a flash for the next page.
func (p *pageHandlers) redirect(w http.ResponseWriter, r *http.Request, to, kind, message string) {
	if message != "" {
		p.flash.set(w, kind, message)
	}
	http.Redirect(w, r, to, http.StatusFound)
}

// fail renders the error page for err. Expired sessions go back to the login page.
func (p *pageHandlers) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := errs.Status(err)
	message := "Something went wrong. Please try again."

	switch {
	case status == http.StatusUnauthorized:
		p.cookies.clear(w, accessTokenCookie)
		http.Redirect(w, r, "/login/?next="+url.QueryEscape(r.URL.RequestURI()), http.StatusFound)
		return
	case status >= http.StatusInternalServerError:
		var apiErr *errs.ApiErr
		if errors.As(err, &apiErr) {
			p.logger.Error().Msg(apiErr.GetFullError())
		} else {
			p.logger.Error().Err(err).Msg("page request failed")
		}
	default:
		var apiErr *errs.ApiErr
		if errors.As(err, &apiErr) {
			message = apiErr.Message()
		}
	}
	p.render(w, r, "error", status, view{"Status": status, "Message": message})
}

// formErrors returns field messages for errors a form can show inline.
// Field-tagged bad requests, such as a rejected upload, are shown next to their field.
func formErrors(err error) (map[string][]string, bool) {
	if fields, ok := errs.AsValidation(err); ok {
		return fields, true
	}
	var apiErr *errs.ApiErr
	if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusBadRequest && apiErr.Field != "" {
		return map[string][]string{apiErr.Field: {apiErr.Message()}}, true
	}
	return nil, false
}

// safeNext keeps login redirects on this site.
func safeNext(next, fallback string) string {
	if next == "" || !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return fallback
	}
	return next
}

func actorID(r *http.Request) uuid.UUID {
	return ctxGetProfileID(r.Context())
}
