// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package handlers contains the HTTP handlers for the Chronicle blog.
// Handlers are grouped by concern (public reads, post mutations, comments,
// auth, profile, admin) and receive their dependencies through the handler
// struct.
package handlers

import (
	"net/http"

	"chronicle/internal/render"
)

// Errors groups the static failure page renderers. They carry no business
// logic; each maps one failure class to its template and status code.
type Errors struct {
	renderer *render.Renderer
}

// NewErrors creates the error page handler group.
func NewErrors(renderer *render.Renderer) *Errors {
	return &Errors{renderer: renderer}
}

// NotFound renders the 404 page. Wired as the router's fallback handler
// and called directly for unknown entities.
func (e *Errors) NotFound(w http.ResponseWriter, r *http.Request) {
	e.renderer.Page(w, r, "404", &render.PageData{Status: http.StatusNotFound})
}

// ServerError renders the 500 page. Wired as the recovery middleware's
// failure handler.
func (e *Errors) ServerError(w http.ResponseWriter, r *http.Request) {
	e.renderer.Page(w, r, "500", &render.PageData{Status: http.StatusInternalServerError})
}

// CSRFFailure renders the dedicated CSRF 403 page. Wired as the CSRF
// middleware's failure handler.
func (e *Errors) CSRFFailure(w http.ResponseWriter, r *http.Request) {
	e.renderer.Page(w, r, "403csrf", &render.PageData{Status: http.StatusForbidden})
}

// Forbidden rejects the request with a plain 403. Used when a non-author
// tries to edit or delete someone else's comment.
func (e *Errors) Forbidden(w http.ResponseWriter, r *http.Request) {
	http.Error(w, "Forbidden", http.StatusForbidden)
}
