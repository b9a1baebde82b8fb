// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"encoding/base64"
	"log/slog"
	"net/http"
	"time"

	"github.com/pquerna/otp/totp"
	qrcode "github.com/skip2/go-qrcode"

	"chronicle/internal/middleware"
	"chronicle/internal/models"
	"chronicle/internal/render"
	"chronicle/internal/session"
	"chronicle/internal/store"
)

// Auth handles registration, login, logout, and the optional TOTP
// second factor. 2FA is opt-in: users without it go straight from the
// password check to a full session, users with it get a pending session
// until they verify a code.
type Auth struct {
	renderer *render.Renderer
	sessions *session.Store
	users    *store.UserStore
	errs     *Errors
}

// NewAuth creates the auth handler group.
func NewAuth(renderer *render.Renderer, sessions *session.Store, users *store.UserStore, errs *Errors) *Auth {
	return &Auth{renderer: renderer, sessions: sessions, users: users, errs: errs}
}

// RegisterPage renders the registration form. Signed-in users are sent home.
func (h *Auth) RegisterPage(w http.ResponseWriter, r *http.Request) {
	if middleware.Viewer(r.Context()) != nil {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	h.renderRegister(w, r, "")
}

// RegisterSubmit validates the form, creates the account, and signs the new
// user in, landing them on their profile page.
func (h *Auth) RegisterSubmit(w http.ResponseWriter, r *http.Request) {
	if middleware.Viewer(r.Context()) != nil {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	username := r.FormValue("username")
	email := r.FormValue("email")
	firstName := r.FormValue("first_name")
	lastName := r.FormValue("last_name")

	if msg := validateRegistration(username, email, firstName, lastName, r.FormValue("password1"), r.FormValue("password2")); msg != "" {
		h.renderRegister(w, r, msg)
		return
	}

	existing, err := h.users.FindByUsername(username)
	if err != nil {
		h.errs.ServerError(w, r)
		return
	}
	if existing != nil {
		h.renderRegister(w, r, "That username is already taken.")
		return
	}

	user, err := h.users.Create(username, email, r.FormValue("password1"), firstName, lastName, models.RoleMember)
	if err != nil {
		h.errs.ServerError(w, r)
		return
	}

	if _, err := h.sessions.Create(r.Context(), w, &session.Data{
		UserID:    user.ID,
		Username:  user.Username,
		Role:      string(user.Role),
		CreatedAt: time.Now(),
	}); err != nil {
		h.errs.ServerError(w, r)
		return
	}

	slog.Info("user registered", "username", user.Username)
	http.Redirect(w, r, "/profile/"+user.Username+"/", http.StatusSeeOther)
}

// LoginPage renders the login form.
func (h *Auth) LoginPage(w http.ResponseWriter, r *http.Request) {
	if middleware.Viewer(r.Context()) != nil {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	h.renderer.Page(w, r, "login", &render.PageData{Title: "Log in", Data: map[string]any{"Error": ""}})
}

// LoginSubmit checks the credentials. Users with 2FA enabled get a pending
// session and are sent to the code prompt; everyone else is signed in.
func (h *Auth) LoginSubmit(w http.ResponseWriter, r *http.Request) {
	username := r.FormValue("username")
	password := r.FormValue("password")

	user, err := h.users.FindByUsername(username)
	if err != nil {
		h.errs.ServerError(w, r)
		return
	}
	if user == nil || !h.users.CheckPassword(user, password) {
		slog.Info("login failed", "username", username)
		h.renderer.Page(w, r, "login", &render.PageData{
			Title:  "Log in",
			Status: http.StatusUnauthorized,
			Data:   map[string]any{"Error": "Invalid username or password."},
		})
		return
	}

	data := &session.Data{
		UserID:       user.ID,
		Username:     user.Username,
		Role:         string(user.Role),
		TwoFAPending: user.TOTPEnabled,
		CreatedAt:    time.Now(),
	}
	if _, err := h.sessions.Create(r.Context(), w, data); err != nil {
		h.errs.ServerError(w, r)
		return
	}

	if data.TwoFAPending {
		http.Redirect(w, r, "/2fa/verify", http.StatusSeeOther)
		return
	}

	slog.Info("user logged in", "username", user.Username)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// Logout destroys the session. POST only, so a stray link cannot log the
// user out.
func (h *Auth) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.Destroy(r.Context(), w, r); err != nil {
		slog.Error("session destroy failed", "error", err)
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// TwoFASetupPage generates a fresh TOTP secret for the signed-in user and
// renders it as a QR code. Visiting again before confirming rotates the
// secret; users who already enabled 2FA are sent to their profile.
func (h *Auth) TwoFASetupPage(w http.ResponseWriter, r *http.Request) {
	viewer := middleware.Viewer(r.Context())

	user, err := h.users.FindByID(viewer.UserID)
	if err != nil || user == nil {
		h.errs.ServerError(w, r)
		return
	}
	if user.TOTPEnabled {
		http.Redirect(w, r, "/profile/"+user.Username+"/", http.StatusSeeOther)
		return
	}

	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      "Chronicle",
		AccountName: user.Username,
	})
	if err != nil {
		slog.Error("totp generate failed", "error", err)
		h.errs.ServerError(w, r)
		return
	}

	if err := h.users.SetTOTPSecret(user.ID, key.Secret()); err != nil {
		h.errs.ServerError(w, r)
		return
	}

	qrPNG, err := qrcode.Encode(key.URL(), qrcode.Medium, 256)
	if err != nil {
		h.errs.ServerError(w, r)
		return
	}

	h.renderer.Page(w, r, "twofa_setup", &render.PageData{
		Title: "Set up 2FA",
		Data: map[string]any{
			"QRCode": base64.StdEncoding.EncodeToString(qrPNG),
			"Secret": key.Secret(),
			"Error":  "",
		},
	})
}

// TwoFASetupSubmit verifies the first code against the stored secret and
// turns 2FA on for the account.
func (h *Auth) TwoFASetupSubmit(w http.ResponseWriter, r *http.Request) {
	viewer := middleware.Viewer(r.Context())

	user, err := h.users.FindByID(viewer.UserID)
	if err != nil || user == nil || user.TOTPSecret == nil {
		h.errs.ServerError(w, r)
		return
	}

	if !totp.Validate(r.FormValue("code"), *user.TOTPSecret) {
		qrPNG, _ := qrcode.Encode(totpURL(user), qrcode.Medium, 256)
		h.renderer.Page(w, r, "twofa_setup", &render.PageData{
			Title:  "Set up 2FA",
			Status: http.StatusUnauthorized,
			Data: map[string]any{
				"QRCode": base64.StdEncoding.EncodeToString(qrPNG),
				"Secret": *user.TOTPSecret,
				"Error":  "That code did not match. Try again.",
			},
		})
		return
	}

	if err := h.users.EnableTOTP(user.ID); err != nil {
		h.errs.ServerError(w, r)
		return
	}

	slog.Info("2fa enabled", "username", user.Username)
	http.Redirect(w, r, "/profile/"+user.Username+"/", http.StatusSeeOther)
}

// TwoFAVerifyPage renders the code prompt for a pending login.
func (h *Auth) TwoFAVerifyPage(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())
	if sess == nil {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}
	if !sess.TwoFAPending {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	h.renderer.Page(w, r, "twofa_verify", &render.PageData{Title: "Enter code", Data: map[string]any{"Error": ""}})
}

// TwoFAVerifySubmit checks the code and promotes the pending session to a
// full one.
func (h *Auth) TwoFAVerifySubmit(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())
	if sess == nil {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}
	if !sess.TwoFAPending {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	user, err := h.users.FindByID(sess.UserID)
	if err != nil || user == nil || user.TOTPSecret == nil {
		h.errs.ServerError(w, r)
		return
	}

	if !totp.Validate(r.FormValue("code"), *user.TOTPSecret) {
		h.renderer.Page(w, r, "twofa_verify", &render.PageData{
			Title:  "Enter code",
			Status: http.StatusUnauthorized,
			Data:   map[string]any{"Error": "That code did not match. Try again."},
		})
		return
	}

	sess.TwoFAPending = false
	if err := h.sessions.Update(r.Context(), r, sess); err != nil {
		h.errs.ServerError(w, r)
		return
	}

	slog.Info("user logged in", "username", user.Username, "2fa", true)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// TwoFADisable turns 2FA off for the signed-in user and clears the secret.
func (h *Auth) TwoFADisable(w http.ResponseWriter, r *http.Request) {
	viewer := middleware.Viewer(r.Context())

	if err := h.users.DisableTOTP(viewer.UserID); err != nil {
		h.errs.ServerError(w, r)
		return
	}

	slog.Info("2fa disabled", "username", viewer.Username)
	http.Redirect(w, r, "/profile/"+viewer.Username+"/", http.StatusSeeOther)
}

// totpURL rebuilds the otpauth provisioning URL for an existing secret so
// the setup page can re-render the QR code after a failed confirm.
func totpURL(user *models.User) string {
	return "otpauth://totp/Chronicle:" + user.Username + "?secret=" + *user.TOTPSecret + "&issuer=Chronicle"
}

// renderRegister re-renders the registration form keeping the identity
// fields the user already typed.
func (h *Auth) renderRegister(w http.ResponseWriter, r *http.Request, errMsg string) {
	status := 0
	if errMsg != "" {
		status = http.StatusUnprocessableEntity
	}
	h.renderer.Page(w, r, "register", &render.PageData{
		Title:  "Register",
		Status: status,
		Data: map[string]any{
			"Username":  r.FormValue("username"),
			"Email":     r.FormValue("email"),
			"FirstName": r.FormValue("first_name"),
			"LastName":  r.FormValue("last_name"),
			"Error":     errMsg,
		},
	})
}
