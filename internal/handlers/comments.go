package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"chronicle/internal/middleware"
	"chronicle/internal/models"
	"chronicle/internal/render"
	"chronicle/internal/store"
)

// Comments handles adding, editing, and deleting comments. All routes sit
// behind RequireAuth. Unlike posts, a non-author who tries to edit or
// delete someone else's comment gets a plain 403.
type Comments struct {
	renderer *render.Renderer
	posts    *store.PostStore
	comments *store.CommentStore
	errs     *Errors
}

// NewComments creates the comment handler group.
func NewComments(renderer *render.Renderer, posts *store.PostStore, comments *store.CommentStore, errs *Errors) *Comments {
	return &Comments{renderer: renderer, posts: posts, comments: comments, errs: errs}
}

// Create appends a comment to a post and redirects back to its detail page.
// The target post only has to exist.
func (h *Comments) Create(w http.ResponseWriter, r *http.Request) {
	post, ok := h.loadPost(w, r)
	if !ok {
		return
	}

	viewer := middleware.Viewer(r.Context())
	text := r.FormValue("text")
	if msg := validateComment(text); msg != "" {
		h.redisplayDetail(w, r, post, msg)
		return
	}

	if _, err := h.comments.Create(post.ID, viewer.UserID, text); err != nil {
		h.errs.ServerError(w, r)
		return
	}

	http.Redirect(w, r, "/posts/"+post.ID.String()+"/", http.StatusSeeOther)
}

// EditPage renders the comment form prefilled with the comment text.
func (h *Comments) EditPage(w http.ResponseWriter, r *http.Request) {
	_, comment, ok := h.authorGate(w, r)
	if !ok {
		return
	}
	h.renderForm(w, r, "Edit comment", "edit", comment, "")
}

// EditSubmit updates the comment and redirects to the post detail page.
func (h *Comments) EditSubmit(w http.ResponseWriter, r *http.Request) {
	post, comment, ok := h.authorGate(w, r)
	if !ok {
		return
	}

	text := r.FormValue("text")
	if msg := validateComment(text); msg != "" {
		comment.Text = text
		h.renderForm(w, r, "Edit comment", "edit", comment, msg)
		return
	}

	if err := h.comments.Update(comment.ID, text); err != nil {
		h.errs.ServerError(w, r)
		return
	}

	http.Redirect(w, r, "/posts/"+post.ID.String()+"/", http.StatusSeeOther)
}

// DeletePage renders the comment with a confirm button.
func (h *Comments) DeletePage(w http.ResponseWriter, r *http.Request) {
	_, comment, ok := h.authorGate(w, r)
	if !ok {
		return
	}
	h.renderForm(w, r, "Delete comment", "delete", comment, "")
}

// DeleteSubmit deletes the comment and redirects to the post detail page.
func (h *Comments) DeleteSubmit(w http.ResponseWriter, r *http.Request) {
	post, comment, ok := h.authorGate(w, r)
	if !ok {
		return
	}

	if err := h.comments.Delete(comment.ID); err != nil {
		h.errs.ServerError(w, r)
		return
	}

	http.Redirect(w, r, "/posts/"+post.ID.String()+"/", http.StatusSeeOther)
}

// loadPost resolves the post from the URL. Only existence matters here:
// comment ownership is independent of post visibility, so an author keeps
// their comment rights even after the post drops out of public view.
func (h *Comments) loadPost(w http.ResponseWriter, r *http.Request) (*models.Post, bool) {
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
	return post, true
}

// authorGate loads the post and comment from the URL and checks ownership.
// A comment that does not belong to the addressed post 404s; a non-author
// gets 403.
func (h *Comments) authorGate(w http.ResponseWriter, r *http.Request) (*models.Post, *models.Comment, bool) {
	post, ok := h.loadPost(w, r)
	if !ok {
		return nil, nil, false
	}

	commentID, err := uuid.Parse(chi.URLParam(r, "commentID"))
	if err != nil {
		h.errs.NotFound(w, r)
		return nil, nil, false
	}

	comment, err := h.comments.FindByID(commentID)
	if err != nil {
		h.errs.ServerError(w, r)
		return nil, nil, false
	}
	if comment == nil || comment.PostID != post.ID {
		h.errs.NotFound(w, r)
		return nil, nil, false
	}

	viewer := middleware.Viewer(r.Context())
	if viewer == nil || viewer.UserID != comment.AuthorID {
		h.errs.Forbidden(w, r)
		return nil, nil, false
	}
	return post, comment, true
}

// redisplayDetail re-renders the post detail page with an inline error on
// the comment form.
func (h *Comments) redisplayDetail(w http.ResponseWriter, r *http.Request, post *models.Post, errMsg string) {
	comments, err := h.comments.ListByPost(post.ID)
	if err != nil {
		h.errs.ServerError(w, r)
		return
	}

	viewer := middleware.Viewer(r.Context())
	h.renderer.Page(w, r, "detail", &render.PageData{
		Title: post.Title,
		Data: map[string]any{
			"Post":     post,
			"Comments": comments,
			"IsAuthor": viewer != nil && viewer.UserID == post.AuthorID,
			"Error":    errMsg,
		},
	})
}

// renderForm renders the shared comment form template.
func (h *Comments) renderForm(w http.ResponseWriter, r *http.Request, title, mode string, comment *models.Comment, errMsg string) {
	h.renderer.Page(w, r, "comment_form", &render.PageData{
		Title: title,
		Data: map[string]any{
			"Mode":    mode,
			"Action":  r.URL.Path,
			"Comment": comment,
			"Error":   errMsg,
		},
	})
}
