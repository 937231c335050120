package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/roadmap-labs/roadmap-api/internal/api"
	apiMiddleware "github.com/roadmap-labs/roadmap-api/internal/api/middleware"
)

// setupRouter creates and configures the application router with all routes
// and middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.TraceMiddleware)

	authHandler := api.NewAuthHandler(
		app.userStore,
		app.curriculumStore,
		app.jwtService,
		app.passwordVerifier,
		app.config.Curriculum.DefaultSlug,
	)
	progressHandler := api.NewProgressHandler(app.progressService, app.config.Curriculum.DefaultSlug)
	curriculumHandler := api.NewCurriculumHandler(app.curriculumService)
	authMiddleware := apiMiddleware.NewAuthMiddleware(app.jwtService)

	r.Route("/api", func(r chi.Router) {
		// Authentication endpoints (public)
		r.Post("/auth/register", authHandler.Register)
		r.Post("/auth/login", authHandler.Login)

		// Public curriculum browsing
		r.Get("/curricula", curriculumHandler.ListCurricula)
		r.Get("/curricula/{slug}", curriculumHandler.GetCurriculum)

		// Progress endpoints act on the authenticated account only
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)
			r.Get("/user/progress", progressHandler.GetProgress)
			r.Put("/user/progress", progressHandler.UpdateProgress)
			r.Post("/user/progress/reset", progressHandler.ResetProgress)
		})

		// Curriculum authoring is admin only
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)
			r.Use(authMiddleware.RequireAdmin)
			r.Get("/admin/curricula", curriculumHandler.ListCurriculaAdmin)
			r.Post("/admin/curricula", curriculumHandler.CreateCurriculum)
			r.Put("/admin/curricula/{slug}", curriculumHandler.UpdateCurriculum)
			r.Delete("/admin/curricula/{slug}", curriculumHandler.DeleteCurriculum)
		})
	})

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			app.logger.Error("Failed to write health check response", "error", err)
		}
	})

	return r
}
