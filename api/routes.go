package api

import (
	"github.com/go-chi/chi/v5"
)

// setupAPIRoutes mounts the JSON API. Credential and anonymous write endpoints are rate limited.
func setupAPIRoutes(r chi.Router, handlers *routeHandlers, auth authMiddleware, limiter *IPRateLimiter) {
	limited := RateLimitMiddleware(limiter)

	r.Get("/health", handlers.healthHandler.health())

	r.Route("/users-api", func(r chi.Router) {
		r.Get("/search", handlers.userHandler.searchProfiles())
		r.Get("/{profileID}", handlers.userHandler.getProfile())
		r.With(limited).Post("/", handlers.userHandler.register())
		r.With(limited).Post("/token", handlers.userHandler.login())
		r.Post("/refresh", handlers.userHandler.refresh())

		r.Group(func(r chi.Router) {
			r.Use(auth.authenticate)
			r.Put("/", handlers.userHandler.updateProfile())
			r.Put("/profile-image", handlers.userHandler.updateProfileImage())
			r.Put("/password", handlers.userHandler.changePassword())
			r.Delete("/", handlers.userHandler.deleteProfile())
		})
	})

	r.Route("/skills-api", func(r chi.Router) {
		r.Get("/profile/{profileID}", handlers.skillHandler.getProfileSkills())

		r.Group(func(r chi.Router) {
			r.Use(auth.authenticate)
			r.Get("/{skillID}", handlers.skillHandler.getSkill())
			r.Post("/", handlers.skillHandler.createSkill())
			r.Put("/{skillID}", handlers.skillHandler.updateSkill())
			r.Delete("/{skillID}", handlers.skillHandler.deleteSkill())
		})
	})

	r.Route("/messages-api", func(r chi.Router) {
		r.With(limited).Post("/from-non-user", handlers.messageHandler.sendAnonymous())

		r.Group(func(r chi.Router) {
			r.Use(auth.authenticate)
			r.Get("/received", handlers.messageHandler.getReceived())
			r.Get("/sent", handlers.messageHandler.getSent())
			r.Get("/{messageID}", handlers.messageHandler.openMessage())
			r.Post("/", handlers.messageHandler.sendMessage())
			r.Delete("/{messageID}", handlers.messageHandler.deleteMessage())
		})
	})

	r.Route("/projects-api", func(r chi.Router) {
		r.Get("/search", handlers.projectHandler.searchProjects())
		r.Get("/user/{profileID}", handlers.projectHandler.getProfileProjects())
		r.Get("/{projectID}", handlers.projectHandler.getProject())

		r.Group(func(r chi.Router) {
			r.Use(auth.authenticate)
			r.Post("/", handlers.projectHandler.createProject())
			r.Put("/{projectID}", handlers.projectHandler.updateProject())
			r.Put("/{projectID}/image", handlers.projectHandler.updateProjectImage())
			r.Delete("/{projectID}", handlers.projectHandler.deleteProject())
		})
	})

	r.Route("/tags-api", func(r chi.Router) {
		r.Get("/", handlers.tagHandler.getProjectTags())

		r.Group(func(r chi.Router) {
			r.Use(auth.authenticate)
			r.Post("/", handlers.tagHandler.addTag())
			r.Delete("/{tagID}", handlers.tagHandler.removeTag())
		})
	})

	r.Route("/reviews-api", func(r chi.Router) {
		r.Get("/", handlers.reviewHandler.getProjectReviews())

		r.Group(func(r chi.Router) {
			r.Use(auth.authenticate)
			r.Get("/mine", handlers.reviewHandler.getMyReview())
			r.Post("/", handlers.reviewHandler.createReview())
			r.Put("/{reviewID}", handlers.reviewHandler.updateReview())
			r.Delete("/{reviewID}", handlers.reviewHandler.deleteReview())
		})
	})
}

// setupPageRoutes mounts the server-rendered site.
func setupPageRoutes(r chi.Router, pages *pageHandlers, limiter *IPRateLimiter) {
	limited := RateLimitMiddleware(limiter)

	r.Get("/login/", pages.loginForm())
	r.With(limited).Post("/login/", pages.login())
	r.Get("/logout/", pages.logout())
	r.Get("/register/", pages.registerForm())
	r.With(limited).Post("/register/", pages.register())
	r.Get("/verify-email/{token}", pages.verifyEmail())
	r.Get("/reset-password", pages.resetPasswordForm())
	r.With(limited).Post("/reset-password", pages.resetPassword())
	r.Get("/change-password/{token}", pages.changePasswordForm())
	r.Post("/change-password/{token}", pages.changePassword())

	r.Get("/", pages.profiles())
	r.Get("/user-profile/{profileID}", pages.userProfile())
	r.Get("/create-message/{profileID}", pages.messageForm())
	r.With(limited).Post("/create-message/{profileID}", pages.createMessage())

	r.Get("/projects/", pages.projects())
	r.Get("/projects/project/{projectID}", pages.project())

	r.Group(func(r chi.Router) {
		r.Use(requirePageUser)

		r.Post("/send-email-verification", pages.sendEmailVerification())
		r.Get("/account", pages.account())
		r.Get("/edit-account", pages.editAccountForm())
		r.Post("/edit-account", pages.editAccount())
		r.Get("/edit-profile-image", pages.profileImageForm())
		r.Post("/edit-profile-image", pages.updateProfileImage())

		r.Get("/create-skill", pages.skillForm())
		r.Post("/create-skill", pages.createSkill())
		r.Get("/update-skill/{skillID}", pages.skillForm())
		r.Post("/update-skill/{skillID}", pages.updateSkill())
		r.Get("/delete-skill/{skillID}", pages.confirmDeleteSkill())
		r.Post("/delete-skill/{skillID}", pages.deleteSkill())

		r.Get("/inbox", pages.inbox())
		r.Get("/message/{messageID}", pages.message())

		r.Post("/projects/project/{projectID}", pages.createReview())
		r.Get("/projects/create-project", pages.projectForm())
		r.Post("/projects/create-project", pages.createProject())
		r.Get("/projects/update-project/{projectID}", pages.projectForm())
		r.Post("/projects/update-project/{projectID}", pages.updateProject())
		r.Get("/projects/delete-project/{projectID}", pages.confirmDeleteProject())
		r.Post("/projects/delete-project/{projectID}", pages.deleteProject())
		r.Post("/projects/project/{projectID}/delete-tag/{tagID}", pages.deleteTag())
	})
}
