// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"chronicle/internal/middleware"
	"chronicle/internal/models"
	"chronicle/internal/render"
	"chronicle/internal/store"
)

// Posts handles creating, editing, and deleting blog posts. All routes in
// this group sit behind RequireAuth. Edit and delete are author-only: a
// signed-in non-author is silently redirected to the post's detail page
// rather than shown an error.
type Posts struct {
	renderer   *render.Renderer
	posts      *store.PostStore
	categories *store.CategoryStore
	locations  *store.LocationStore
	errs       *Errors
}

// NewPosts creates the post mutation handler group.
func NewPosts(renderer *render.Renderer, posts *store.PostStore, categories *store.CategoryStore, locations *store.LocationStore, errs *Errors) *Posts {
	return &Posts{
		renderer:   renderer,
		posts:      posts,
		categories: categories,
		locations:  locations,
		errs:       errs,
	}
}

// CreatePage renders the empty post form, defaulting to a published post
// dated now.
func (h *Posts) CreatePage(w http.ResponseWriter, r *http.Request) {
	h.renderForm(w, r, "Add post", "create", &models.Post{IsPublished: true, PubDate: time.Now()}, "")
}

// CreateSubmit validates the form and creates the post, then redirects to
// the author's profile.
func (h *Posts) CreateSubmit(w http.ResponseWriter, r *http.Request) {
	viewer := middleware.Viewer(r.Context())

	post := &models.Post{AuthorID: viewer.UserID}
	if msg := h.fillFromForm(r, post); msg != "" {
		h.renderForm(w, r, "Add post", "create", post, msg)
		return
	}

	created, err := h.posts.Create(post)
	if err != nil {
		h.errs.ServerError(w, r)
		return
	}

	slog.Info("post created", "post_id", created.ID, "author", viewer.Username)
	http.Redirect(w, r, "/profile/"+viewer.Username+"/", http.StatusSeeOther)
}

// EditPage renders the form prefilled with the post's current values.
func (h *Posts) EditPage(w http.ResponseWriter, r *http.Request) {
	post, ok := h.authorGate(w, r)
	if !ok {
		return
	}
	h.renderForm(w, r, "Edit post", "edit", post, "")
}

// EditSubmit validates the form and updates the post, then redirects to its
// detail page. The author never changes on edit.
func (h *Posts) EditSubmit(w http.ResponseWriter, r *http.Request) {
	post, ok := h.authorGate(w, r)
	if !ok {
		return
	}

	if msg := h.fillFromForm(r, post); msg != "" {
		h.renderForm(w, r, "Edit post", "edit", post, msg)
		return
	}

	if err := h.posts.Update(post); err != nil {
		h.errs.ServerError(w, r)
		return
	}

	http.Redirect(w, r, "/posts/"+post.ID.String()+"/", http.StatusSeeOther)
}

// DeletePage renders a read-only view of the post with a confirm button.
func (h *Posts) DeletePage(w http.ResponseWriter, r *http.Request) {
	post, ok := h.authorGate(w, r)
	if !ok {
		return
	}
	h.renderForm(w, r, "Delete post", "delete", post, "")
}

// DeleteSubmit deletes the post and its comments, then redirects home.
func (h *Posts) DeleteSubmit(w http.ResponseWriter, r *http.Request) {
	post, ok := h.authorGate(w, r)
	if !ok {
		return
	}

	if err := h.posts.Delete(post.ID); err != nil {
		h.errs.ServerError(w, r)
		return
	}

	viewer := middleware.Viewer(r.Context())
	slog.Info("post deleted", "post_id", post.ID, "author", viewer.Username)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// authorGate loads the post from the URL and checks the viewer is its
// author. Unknown posts 404; a non-author is redirected to the detail page
// and ok is false.
func (h *Posts) authorGate(w http.ResponseWriter, r *http.Request) (*models.Post, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		h.errs.NotFound(w, r)
		return nil, false
	}

	post, err := h.posts.FindByID(id)
	if err != nil {
		h.errs.ServerError(w, r)
		return nil, false
	}
	if post == nil {
		h.errs.NotFound(w, r)
		return nil, false
	}

	viewer := middleware.Viewer(r.Context())
	if viewer == nil || viewer.UserID != post.AuthorID {
		http.Redirect(w, r, "/posts/"+post.ID.String()+"/", http.StatusSeeOther)
		return nil, false
	}
	return post, true
}

// fillFromForm copies the submitted fields onto post and returns a
// validation message, empty when the input is acceptable. Referenced
// categories and locations must exist and be published.
func (h *Posts) fillFromForm(r *http.Request, post *models.Post) string {
	title := r.FormValue("title")
	text := r.FormValue("text")
	if msg := validatePost(title, text); msg != "" {
		return msg
	}

	pubDate, msg := parsePubDate(r.FormValue("pub_date"))
	if msg != "" {
		return msg
	}

	post.Title = title
	post.Text = text
	post.PubDate = pubDate
	post.IsPublished = r.FormValue("is_published") != ""

	post.CategoryID = nil
	if v := r.FormValue("category"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			return "Choose a valid category."
		}
		category, err := h.categories.FindByID(id)
		if err != nil || category == nil || !category.IsPublished {
			return "Choose a valid category."
		}
		post.CategoryID = &category.ID
	}

	post.LocationID = nil
	if v := r.FormValue("location"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			return "Choose a valid location."
		}
		location, err := h.locations.FindByID(id)
		if err != nil || location == nil || !location.IsPublished {
			return "Choose a valid location."
		}
		post.LocationID = &location.ID
	}

	return ""
}

// renderForm renders the post form in one of its three modes.
func (h *Posts) renderForm(w http.ResponseWriter, r *http.Request, title, mode string, post *models.Post, errMsg string) {
	categories, err := h.categories.ListPublished()
	if err != nil {
		h.errs.ServerError(w, r)
		return
	}
	locations, err := h.locations.ListPublished()
	if err != nil {
		h.errs.ServerError(w, r)
		return
	}

	h.renderer.Page(w, r, "post_form", &render.PageData{
		Title: title,
		Data: map[string]any{
			"Mode":       mode,
			"Action":     r.URL.Path,
			"Post":       post,
			"Categories": categories,
			"Locations":  locations,
			"Error":      errMsg,
		},
	})
}
