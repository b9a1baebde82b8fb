// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package router wires the HTTP routes and middleware chains for the
// Chronicle blog: public reads, authenticated mutations, the auth flow,
// and the admin area.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"chronicle/internal/handlers"
	"chronicle/internal/middleware"
	"chronicle/internal/session"
	"chronicle/web"
)

// Deps carries everything the router needs. The error handler group doubles
// as the failure target for the recovery and CSRF middleware.
type Deps struct {
	Sessions *session.Store
	Secure   bool

	Errors   *handlers.Errors
	Public   *handlers.Public
	Posts    *handlers.Posts
	Comments *handlers.Comments
	Auth     *handlers.Auth
	Profile  *handlers.Profile
	Admin    *handlers.Admin
}

// New creates the configured chi router.
func New(d Deps) chi.Router {
	r := chi.NewRouter()

	// Global middleware. Recovery sits outermost so a panic anywhere below
	// still renders the 500 page.
	r.Use(middleware.NewRecoverer(http.HandlerFunc(d.Errors.ServerError)))
	r.Use(middleware.Logger)
	r.Use(middleware.SecureHeaders)
	r.Use(middleware.LoadSession(d.Sessions))
	r.Use(middleware.NewCSRF(d.Secure, http.HandlerFunc(d.Errors.CSRFFailure)))

	r.NotFound(d.Errors.NotFound)

	// Health check for load balancers and uptime probes.
	r.Get("/health", healthHandler)

	// Embedded static assets. URL paths mirror the embedded tree, so no
	// prefix stripping is needed.
	r.Handle("/static/*", http.FileServer(http.FS(web.StaticFS)))

	// Public pages.
	r.Get("/", d.Public.Index)
	r.Get("/posts/{id}/", d.Public.PostDetail)
	r.Get("/category/{slug}/", d.Public.CategoryPosts)
	r.Get("/profile/{username}/", d.Public.Profile)

	// Auth flow. The 2FA verify pages must be reachable with a pending
	// session, so they sit outside RequireAuth.
	r.Get("/register", d.Auth.RegisterPage)
	r.Post("/register", d.Auth.RegisterSubmit)
	r.Get("/login", d.Auth.LoginPage)
	r.Post("/login", d.Auth.LoginSubmit)
	r.Post("/logout", d.Auth.Logout)
	r.Get("/2fa/verify", d.Auth.TwoFAVerifyPage)
	r.Post("/2fa/verify", d.Auth.TwoFAVerifySubmit)

	// Signed-in users only.
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth)

		r.Get("/posts/create/", d.Posts.CreatePage)
		r.Post("/posts/create/", d.Posts.CreateSubmit)
		r.Get("/posts/{id}/edit/", d.Posts.EditPage)
		r.Post("/posts/{id}/edit/", d.Posts.EditSubmit)
		r.Get("/posts/{id}/delete/", d.Posts.DeletePage)
		r.Post("/posts/{id}/delete/", d.Posts.DeleteSubmit)

		r.Post("/posts/{id}/comment/", d.Comments.Create)
		r.Get("/posts/{id}/edit_comment/{commentID}/", d.Comments.EditPage)
		r.Post("/posts/{id}/edit_comment/{commentID}/", d.Comments.EditSubmit)
		r.Get("/posts/{id}/delete_comment/{commentID}/", d.Comments.DeletePage)
		r.Post("/posts/{id}/delete_comment/{commentID}/", d.Comments.DeleteSubmit)

		r.Get("/profile/{username}/edit/", d.Profile.EditPage)
		r.Post("/profile/{username}/edit/", d.Profile.EditSubmit)

		r.Get("/2fa/setup", d.Auth.TwoFASetupPage)
		r.Post("/2fa/setup", d.Auth.TwoFASetupSubmit)
		r.Post("/2fa/disable", d.Auth.TwoFADisable)
	})

	// Admin area.
	r.Route("/admin", func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Use(middleware.RequireAdmin)

		r.Get("/", d.Admin.Dashboard)
		r.Get("/categories/", d.Admin.CategoriesPage)
		r.Post("/categories/", d.Admin.CategoryCreate)
		r.Post("/categories/{id}/toggle", d.Admin.CategoryToggle)
		r.Get("/locations/", d.Admin.LocationsPage)
		r.Post("/locations/", d.Admin.LocationCreate)
		r.Post("/locations/{id}/toggle", d.Admin.LocationToggle)
	})

	return r
}

func healthHandler(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}
