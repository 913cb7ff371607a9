package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rpupo63/devsearch-backend/config"
	"github.com/rpupo63/devsearch-backend/database"
	"github.com/rpupo63/devsearch-backend/media"
	"github.com/rpupo63/devsearch-backend/services"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

type Server struct {
	*http.Server
	startupTime time.Time
}

// Deps is everything the router needs from main.
type Deps struct {
	Database database.Database
	Services *services.Services
	Images   *media.Ingestor
}

func NewServer(settings config.Settings, deps Deps) (Server, error) {
	address := fmt.Sprintf("0.0.0.0:%s", settings.Port) // Bind to 0.0.0.0 for external access

	startupTime := time.Now()

	handler, err := NewRouter(settings, deps)
	if err != nil {
		return Server{}, err
	}

	server := &http.Server{
		Addr:         address,
		Handler:      handler,
		ReadTimeout:  settings.ReadTimeout,
		WriteTimeout: settings.WriteTimeout,
		IdleTimeout:  settings.IdleTimeout,
	}

	return Server{server, startupTime}, nil
}

// NewRouter wires the JSON API under /api and the rendered pages at the root.
func NewRouter(settings config.Settings, deps Deps) (*chi.Mux, error) {
	chiRouter := chi.NewRouter()
	chiRouter.Use(middleware.RequestID)
	chiRouter.Use(middleware.RealIP)
	chiRouter.Use(LogInternalServerErrors)
	chiRouter.Use(ColoredHTTPLoggingMiddleware)

	cookies := cookieJar{secure: settings.SecureCookies}
	limiter := NewIPRateLimiter(rate.Limit(settings.RateLimitRPS), settings.RateLimitBurst)
	authMiddleware := newAuthMiddleware(deps.Services.Accounts, cookies)

	handlers := initializeHandlers(deps)
	pages, err := newPageHandlers(deps, cookies, []byte(settings.SecretKey))
	if err != nil {
		return nil, fmt.Errorf("load templates: %w", err)
	}

	chiRouter.Route("/api", func(r chi.Router) {
		r.Use(CORSCheckMiddleware(settings.AcceptedOrigins))
		r.Use(corsMiddleware(settings.AcceptedOrigins))
		setupAPIRoutes(r, handlers, authMiddleware, limiter)
	})

	chiRouter.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.Dir(settings.StaticDir))))

	chiRouter.Group(func(r chi.Router) {
		r.Use(securityHeaders)
		r.Use(authMiddleware.loadPageUser)
		setupPageRoutes(r, pages, limiter)
	})

	return chiRouter, nil
}

func (s Server) Start(errChannel chan<- error) {
	log.Info().Msgf("Server started on: %s", s.Addr)
	errChannel <- s.ListenAndServe()
}

func (s Server) ShutdownGracefully(timeout time.Duration) {
	log.Info().Msg("Gracefully shutting down...")

	gracefullCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := s.Shutdown(gracefullCtx); err != nil {
		log.Error().Msgf("Error shutting down the server: %v", err)
	} else {
		log.Info().Str("uptime", time.Since(s.startupTime).Round(time.Second).String()).Msg("HttpServer gracefully shut down")
	}
}
