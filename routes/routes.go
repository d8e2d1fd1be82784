// Package routes assembles the HTTP surface: middleware stack, auth
// endpoints, the guarded page paths and the /api/v1 resource routes.
package routes

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/resumelane/resumelane/app"
	"github.com/resumelane/resumelane/authz"
	"github.com/resumelane/resumelane/obs"
)

// SetupRoutes configures all application routes and middleware
func SetupRoutes(deps *app.Dependencies) http.Handler {
	r := chi.NewRouter()

	// Core middleware
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(60 * time.Second))
	r.Use(obs.Instrument)

	// CORS middleware
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{deps.Config.Identity.FrontEndURL},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Session is attached best-effort on every request; the guard and the
	// API middleware decide what an absent session means per route.
	r.Use(deps.AuthMiddleware.AttachSession)
	r.Use(deps.RouteGuard.Guard)

	// Observability endpoints
	r.Get("/healthz", deps.HealthHandler.HandleHealth)
	r.Get("/readyz", deps.HealthHandler.HandleReadiness)
	r.Method(http.MethodGet, "/metrics", obs.MetricsHandler())

	// OAuth2 proxy endpoints against the hosted identity provider
	r.Route("/auth", func(r chi.Router) {
		r.Get("/login", deps.AuthHandler.HandleLogin)
		r.Get("/callback", deps.AuthHandler.HandleCallback)
		r.Get("/logout", deps.AuthHandler.HandleLogout)
	})

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		if deps.RateLimitMiddleware != nil {
			r.Use(deps.RateLimitMiddleware.Limit)
		}

		// Public directory endpoints
		r.Get("/reviewers", deps.ReviewerHandler.HandleList)
		r.Get("/reviewers/slug/{slug}", deps.ReviewerHandler.HandleGetBySlug)
		r.Get("/reviewers/{id}", deps.ReviewerHandler.HandleGetByID)
		r.Get("/reviewers/{id}/followers/count", deps.FollowHandler.HandleFollowerCount)

		// Everything below requires a session
		r.Group(func(r chi.Router) {
			r.Use(deps.AuthMiddleware.RequireSession)

			r.Get("/profile", deps.ProfileHandler.HandleGetProfile)
			r.Patch("/profile", deps.ProfileHandler.HandleUpdateProfile)

			r.Post("/reviewers", deps.ReviewerHandler.HandleBecome)

			r.Route("/resumes", func(r chi.Router) {
				r.Post("/", deps.ResumeHandler.HandleUpload)
				r.Get("/", deps.ResumeHandler.HandleList)

				r.Group(func(r chi.Router) {
					r.Use(deps.AuthMiddleware.RequirePermission(authz.PermReviewResumes))
					r.Get("/queue", deps.ResumeHandler.HandleQueue)
					r.Post("/{id}/claim", deps.ResumeHandler.HandleClaim)
				})

				r.Get("/{id}", deps.ResumeHandler.HandleGet)
				r.Patch("/{id}", deps.ResumeHandler.HandleUpdate)
			})

			r.Route("/reviews", func(r chi.Router) {
				r.Get("/", deps.ReviewHandler.HandleList)

				r.Group(func(r chi.Router) {
					r.Use(deps.AuthMiddleware.RequirePermission(authz.PermReviewResumes))
					r.Post("/", deps.ReviewHandler.HandleSubmit)
				})
			})

			r.Route("/follows", func(r chi.Router) {
				r.Use(deps.AuthMiddleware.RequirePermission(authz.PermFollowReviewers))
				r.Put("/{reviewerID}", deps.FollowHandler.HandleFollow)
				r.Delete("/{reviewerID}", deps.FollowHandler.HandleUnfollow)
				r.Get("/{reviewerID}", deps.FollowHandler.HandleFollowState)
			})

			r.Route("/experiences", func(r chi.Router) {
				r.Use(deps.AuthMiddleware.RequirePermission(authz.PermManageExperiences))
				r.Get("/", deps.ReviewerHandler.HandleListExperiences)
				r.Post("/", deps.ReviewerHandler.HandleAddExperience)
				r.Put("/{id}", deps.ReviewerHandler.HandleUpdateExperience)
				r.Delete("/{id}", deps.ReviewerHandler.HandleDeleteExperience)
			})

			r.Patch("/reviewers/me", deps.ReviewerHandler.HandleUpdatePage)
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":"endpoint not found"}`))
	})

	return r
}
