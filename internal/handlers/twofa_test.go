package handlers_test

import (
	"net/http"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/pquerna/otp/totp"
)

// TestTwoFAFlow walks the whole opt-in second-factor path: enrolment from
// the profile, then a login that stops at the code prompt until a valid
// code is presented.
func TestTwoFAFlow(t *testing.T) {
	env := newTestEnv(t)
	user := env.makeUser(t, "member")
	cookie := env.loginAs(t, user)

	// Enrolment: the setup page stores a fresh secret and shows the QR code.
	resp := env.get(t, "/2fa/setup", cookie)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("2fa setup page = %d, want 200", resp.StatusCode)
	}
	if !strings.Contains(body(t, resp), "data:image/png;base64,") {
		t.Error("setup page missing QR code image")
	}

	stored, err := env.users.FindByID(user.ID)
	if err != nil || stored.TOTPSecret == nil {
		t.Fatalf("secret not stored after setup page: %v", err)
	}
	secret := *stored.TOTPSecret

	// A wrong code does not enable 2FA.
	resp = env.postForm(t, "/2fa/setup", url.Values{"code": {"000000"}}, cookie)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("bad setup code = %d, want 401", resp.StatusCode)
	}

	code, err := totp.GenerateCode(secret, time.Now())
	if err != nil {
		t.Fatal(err)
	}
	resp = env.postForm(t, "/2fa/setup", url.Values{"code": {code}}, cookie)
	if resp.StatusCode != http.StatusSeeOther {
		t.Fatalf("setup confirm = %d, want 303", resp.StatusCode)
	}
	stored, _ = env.users.FindByID(user.ID)
	if !stored.TOTPEnabled {
		t.Fatal("2FA not enabled after confirmation")
	}

	// Login now stops at the verify prompt with a pending session.
	resp = env.postForm(t, "/login", url.Values{
		"username": {user.Username},
		"password": {"password123"},
	})
	if resp.StatusCode != http.StatusSeeOther || resp.Header.Get("Location") != "/2fa/verify" {
		t.Fatalf("login with 2FA = %d -> %q, want 303 -> /2fa/verify",
			resp.StatusCode, resp.Header.Get("Location"))
	}
	var pending *http.Cookie
	for _, c := range resp.Cookies() {
		if c.Name == "ch_session" {
			pending = c
		}
	}
	if pending == nil {
		t.Fatal("no session cookie from 2FA login")
	}

	// The pending session is not authenticated yet.
	resp = env.get(t, "/posts/create/", pending)
	if resp.StatusCode != http.StatusSeeOther || resp.Header.Get("Location") != "/login" {
		t.Error("pending 2FA session should not pass RequireAuth")
	}

	// A valid code promotes the session.
	code, err = totp.GenerateCode(secret, time.Now())
	if err != nil {
		t.Fatal(err)
	}
	resp = env.postForm(t, "/2fa/verify", url.Values{"code": {code}}, pending)
	if resp.StatusCode != http.StatusSeeOther || resp.Header.Get("Location") != "/" {
		t.Fatalf("verify = %d -> %q, want 303 -> /", resp.StatusCode, resp.Header.Get("Location"))
	}
	resp = env.get(t, "/posts/create/", pending)
	if resp.StatusCode != http.StatusOK {
		t.Errorf("create page after verify = %d, want 200", resp.StatusCode)
	}
}

func TestTwoFADisable(t *testing.T) {
	env := newTestEnv(t)
	user := env.makeUser(t, "member")
	cookie := env.loginAs(t, user)

	// Enroll and enable directly through the store.
	if err := env.users.SetTOTPSecret(user.ID, "JBSWY3DPEHPK3PXP"); err != nil {
		t.Fatal(err)
	}
	if err := env.users.EnableTOTP(user.ID); err != nil {
		t.Fatal(err)
	}

	resp := env.postForm(t, "/2fa/disable", nil, cookie)
	if resp.StatusCode != http.StatusSeeOther {
		t.Fatalf("disable = %d, want 303", resp.StatusCode)
	}

	stored, _ := env.users.FindByID(user.ID)
	if stored.TOTPEnabled || stored.TOTPSecret != nil {
		t.Error("2FA still enabled after disable")
	}
}
