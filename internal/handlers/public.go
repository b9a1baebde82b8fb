// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"chronicle/internal/middleware"
	"chronicle/internal/pagination"
	"chronicle/internal/render"
	"chronicle/internal/store"
)

// Public serves the read-only blog pages: the index, post detail, category
// listings, and author profiles.
type Public struct {
	renderer   *render.Renderer
	posts      *store.PostStore
	categories *store.CategoryStore
	comments   *store.CommentStore
	users      *store.UserStore
	errs       *Errors
}

// NewPublic creates the public page handler group.
func NewPublic(renderer *render.Renderer, posts *store.PostStore, categories *store.CategoryStore, comments *store.CommentStore, users *store.UserStore, errs *Errors) *Public {
	return &Public{
		renderer:   renderer,
		posts:      posts,
		categories: categories,
		comments:   comments,
		users:      users,
		errs:       errs,
	}
}

// Index renders the paginated list of visible posts, newest first.
func (h *Public) Index(w http.ResponseWriter, r *http.Request) {
	now := time.Now()

	total, err := h.posts.CountVisible(now)
	if err != nil {
		h.errs.ServerError(w, r)
		return
	}
	page := pagination.FromRequest(r, total)

	posts, err := h.posts.ListVisible(now, pagination.PerPage, page.Offset())
	if err != nil {
		h.errs.ServerError(w, r)
		return
	}

	h.renderer.Page(w, r, "index", &render.PageData{
		Title: "Chronicle",
		Data: map[string]any{
			"Posts": posts,
			"Page":  page,
		},
	})
}

// PostDetail renders a single post with its comments. The visibility filter
// applies unless the viewer is the author, who always sees their own post.
func (h *Public) PostDetail(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		h.errs.NotFound(w, r)
		return
	}

	post, err := h.posts.FindByID(id)
	if err != nil {
		h.errs.ServerError(w, r)
		return
	}
	if post == nil {
		h.errs.NotFound(w, r)
		return
	}

	viewer := middleware.Viewer(r.Context())
	isAuthor := viewer != nil && viewer.UserID == post.AuthorID
	if !isAuthor && !post.VisibleAt(time.Now()) {
		h.errs.NotFound(w, r)
		return
	}

	comments, err := h.comments.ListByPost(post.ID)
	if err != nil {
		h.errs.ServerError(w, r)
		return
	}

	h.renderer.Page(w, r, "detail", &render.PageData{
		Title: post.Title,
		Data: map[string]any{
			"Post":     post,
			"Comments": comments,
			"IsAuthor": isAuthor,
		},
	})
}

// CategoryPosts renders the paginated visible posts of one published
// category. Unknown and unpublished categories both 404.
func (h *Public) CategoryPosts(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	category, err := h.categories.FindBySlug(slug)
	if err != nil {
		h.errs.ServerError(w, r)
		return
	}
	if category == nil || !category.IsPublished {
		h.errs.NotFound(w, r)
		return
	}

	now := time.Now()
	total, err := h.posts.CountVisibleByCategory(category.ID, now)
	if err != nil {
		h.errs.ServerError(w, r)
		return
	}
	page := pagination.FromRequest(r, total)

	posts, err := h.posts.ListVisibleByCategory(category.ID, now, pagination.PerPage, page.Offset())
	if err != nil {
		h.errs.ServerError(w, r)
		return
	}

	h.renderer.Page(w, r, "category", &render.PageData{
		Title: category.Title,
		Data: map[string]any{
			"Category": category,
			"Posts":    posts,
			"Page":     page,
		},
	})
}

// Profile renders an author's page. It lists every post by the author,
// published or not, so authors see their own drafts and scheduled posts.
func (h *Public) Profile(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")

	user, err := h.users.FindByUsername(username)
	if err != nil {
		h.errs.ServerError(w, r)
		return
	}
	if user == nil {
		h.errs.NotFound(w, r)
		return
	}

	total, err := h.posts.CountByAuthor(user.ID)
	if err != nil {
		h.errs.ServerError(w, r)
		return
	}
	page := pagination.FromRequest(r, total)

	posts, err := h.posts.ListByAuthor(user.ID, pagination.PerPage, page.Offset())
	if err != nil {
		h.errs.ServerError(w, r)
		return
	}

	viewer := middleware.Viewer(r.Context())
	h.renderer.Page(w, r, "profile", &render.PageData{
		Title: user.Username,
		Data: map[string]any{
			"Profile": user,
			"Posts":   posts,
			"Page":    page,
			"IsOwner": viewer != nil && viewer.UserID == user.ID,
		},
	})
}
