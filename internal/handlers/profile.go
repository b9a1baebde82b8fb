package handlers

import (
	"net/http"

	"chronicle/internal/middleware"
	"chronicle/internal/models"
	"chronicle/internal/render"
	"chronicle/internal/session"
	"chronicle/internal/store"
)

// Profile handles editing the signed-in user's own identity fields. The
// username in the URL is display only; the edit always targets the current
// user, so one user cannot edit another through the URL.
type Profile struct {
	renderer *render.Renderer
	sessions *session.Store
	users    *store.UserStore
	errs     *Errors
}

// NewProfile creates the profile edit handler group.
func NewProfile(renderer *render.Renderer, sessions *session.Store, users *store.UserStore, errs *Errors) *Profile {
	return &Profile{renderer: renderer, sessions: sessions, users: users, errs: errs}
}

// EditPage renders the profile form prefilled with the current user's data.
func (h *Profile) EditPage(w http.ResponseWriter, r *http.Request) {
	viewer := middleware.Viewer(r.Context())

	user, err := h.users.FindByID(viewer.UserID)
	if err != nil || user == nil {
		h.errs.ServerError(w, r)
		return
	}

	h.renderForm(w, r, user, "")
}

// EditSubmit updates the current user's username, name, and email, keeps
// the session's username in step, and redirects to the (possibly renamed)
// profile page.
func (h *Profile) EditSubmit(w http.ResponseWriter, r *http.Request) {
	viewer := middleware.Viewer(r.Context())

	user, err := h.users.FindByID(viewer.UserID)
	if err != nil || user == nil {
		h.errs.ServerError(w, r)
		return
	}

	submitted := *user
	submitted.Username = r.FormValue("username")
	submitted.Email = r.FormValue("email")
	submitted.FirstName = r.FormValue("first_name")
	submitted.LastName = r.FormValue("last_name")

	if msg := validateProfile(submitted.Username, submitted.Email, submitted.FirstName, submitted.LastName); msg != "" {
		h.renderForm(w, r, &submitted, msg)
		return
	}

	if submitted.Username != user.Username {
		taken, err := h.users.FindByUsername(submitted.Username)
		if err != nil {
			h.errs.ServerError(w, r)
			return
		}
		if taken != nil {
			h.renderForm(w, r, &submitted, "That username is already taken.")
			return
		}
	}

	if err := h.users.UpdateProfile(user.ID, submitted.Username, submitted.Email, submitted.FirstName, submitted.LastName); err != nil {
		h.errs.ServerError(w, r)
		return
	}

	if submitted.Username != viewer.Username {
		sess := middleware.SessionFromCtx(r.Context())
		sess.Username = submitted.Username
		if err := h.sessions.Update(r.Context(), r, sess); err != nil {
			h.errs.ServerError(w, r)
			return
		}
	}

	http.Redirect(w, r, "/profile/"+submitted.Username+"/", http.StatusSeeOther)
}

// renderForm renders the profile form. On validation errors the submitted
// values are shown back, not the stored ones.
func (h *Profile) renderForm(w http.ResponseWriter, r *http.Request, user *models.User, errMsg string) {
	status := 0
	if errMsg != "" {
		status = http.StatusUnprocessableEntity
	}
	h.renderer.Page(w, r, "profile_form", &render.PageData{
		Title:  "Edit profile",
		Status: status,
		Data:   map[string]any{"User": user, "Error": errMsg},
	})
}
