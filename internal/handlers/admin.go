// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"chronicle/internal/render"
	"chronicle/internal/slug"
	"chronicle/internal/store"
)

// Admin handles the category and location management pages. All routes sit
// behind RequireAuth plus RequireAdmin.
type Admin struct {
	renderer   *render.Renderer
	posts      *store.PostStore
	users      *store.UserStore
	categories *store.CategoryStore
	locations  *store.LocationStore
	errs       *Errors
}

// NewAdmin creates the admin handler group.
func NewAdmin(renderer *render.Renderer, posts *store.PostStore, users *store.UserStore, categories *store.CategoryStore, locations *store.LocationStore, errs *Errors) *Admin {
	return &Admin{
		renderer:   renderer,
		posts:      posts,
		users:      users,
		categories: categories,
		locations:  locations,
		errs:       errs,
	}
}

// Dashboard shows entity counts and links to the management pages.
func (h *Admin) Dashboard(w http.ResponseWriter, r *http.Request) {
	postCount, err := h.posts.Count()
	if err != nil {
		h.errs.ServerError(w, r)
		return
	}
	userCount, err := h.users.Count()
	if err != nil {
		h.errs.ServerError(w, r)
		return
	}
	categoryCount, err := h.categories.Count()
	if err != nil {
		h.errs.ServerError(w, r)
		return
	}
	locationCount, err := h.locations.Count()
	if err != nil {
		h.errs.ServerError(w, r)
		return
	}

	h.renderer.Page(w, r, "admin_dashboard", &render.PageData{
		Title: "Admin",
		Data: map[string]any{
			"PostCount":     postCount,
			"UserCount":     userCount,
			"CategoryCount": categoryCount,
			"LocationCount": locationCount,
		},
	})
}

// CategoriesPage lists every category with its post count.
func (h *Admin) CategoriesPage(w http.ResponseWriter, r *http.Request) {
	h.renderCategories(w, r, "")
}

// CategoryCreate creates a category, deriving the slug from the title.
func (h *Admin) CategoryCreate(w http.ResponseWriter, r *http.Request) {
	title := strings.TrimSpace(r.FormValue("title"))
	if title == "" {
		h.renderCategories(w, r, "Title is required.")
		return
	}

	s := slug.Generate(title)
	if s == "" {
		h.renderCategories(w, r, "Title must contain at least one letter or digit.")
		return
	}

	existing, err := h.categories.FindBySlug(s)
	if err != nil {
		h.errs.ServerError(w, r)
		return
	}
	if existing != nil {
		h.renderCategories(w, r, "A category with that slug already exists.")
		return
	}

	if _, err := h.categories.Create(title, s, r.FormValue("description")); err != nil {
		h.errs.ServerError(w, r)
		return
	}

	slog.Info("category created", "slug", s)
	http.Redirect(w, r, "/admin/categories/", http.StatusSeeOther)
}

// CategoryToggle flips a category's published flag. Unpublishing pulls the
// category's page and all its posts out of public view without touching
// the posts themselves.
func (h *Admin) CategoryToggle(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		h.errs.NotFound(w, r)
		return
	}

	category, err := h.categories.FindByID(id)
	if err != nil {
		h.errs.ServerError(w, r)
		return
	}
	if category == nil {
		h.errs.NotFound(w, r)
		return
	}

	if err := h.categories.SetPublished(category.ID, !category.IsPublished); err != nil {
		h.errs.ServerError(w, r)
		return
	}

	http.Redirect(w, r, "/admin/categories/", http.StatusSeeOther)
}

// LocationsPage lists every location with its post count.
func (h *Admin) LocationsPage(w http.ResponseWriter, r *http.Request) {
	h.renderLocations(w, r, "")
}

// LocationCreate creates a location.
func (h *Admin) LocationCreate(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimSpace(r.FormValue("name"))
	if name == "" {
		h.renderLocations(w, r, "Name is required.")
		return
	}

	if _, err := h.locations.Create(name); err != nil {
		h.errs.ServerError(w, r)
		return
	}

	slog.Info("location created", "name", name)
	http.Redirect(w, r, "/admin/locations/", http.StatusSeeOther)
}

// LocationToggle flips a location's published flag. An unpublished location
// stops being offered on the post form; posts already tagged with it keep
// the tag but no longer show it.
func (h *Admin) LocationToggle(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		h.errs.NotFound(w, r)
		return
	}

	location, err := h.locations.FindByID(id)
	if err != nil {
		h.errs.ServerError(w, r)
		return
	}
	if location == nil {
		h.errs.NotFound(w, r)
		return
	}

	if err := h.locations.SetPublished(location.ID, !location.IsPublished); err != nil {
		h.errs.ServerError(w, r)
		return
	}

	http.Redirect(w, r, "/admin/locations/", http.StatusSeeOther)
}

func (h *Admin) renderCategories(w http.ResponseWriter, r *http.Request, errMsg string) {
	categories, err := h.categories.List()
	if err != nil {
		h.errs.ServerError(w, r)
		return
	}
	h.renderer.Page(w, r, "admin_categories", &render.PageData{
		Title: "Categories",
		Data:  map[string]any{"Categories": categories, "Error": errMsg},
	})
}

func (h *Admin) renderLocations(w http.ResponseWriter, r *http.Request, errMsg string) {
	locations, err := h.locations.List()
	if err != nil {
		h.errs.ServerError(w, r)
		return
	}
	h.renderer.Page(w, r, "admin_locations", &render.PageData{
		Title: "Locations",
		Data:  map[string]any{"Locations": locations, "Error": errMsg},
	})
}
