package handlers_test

import (
	"net/http"
	"net/url"
	"strings"
	"testing"

	"github.com/google/uuid"
)

func TestRegisterCreatesUserAndSession(t *testing.T) {
	env := newTestEnv(t)
	username := "hnd-reg-" + uuid.NewString()[:8]
	t.Cleanup(func() { env.db.Exec("DELETE FROM users WHERE username = $1", username) })

	resp := env.postForm(t, "/register", url.Values{
		"username":  {username},
		"email":     {username + "@example.com"},
		"password1": {"password123"},
		"password2": {"password123"},
	})

	if resp.StatusCode != http.StatusSeeOther {
		t.Fatalf("register = %d, want 303", resp.StatusCode)
	}
	if loc := resp.Header.Get("Location"); loc != "/profile/"+username+"/" {
		t.Errorf("redirect = %q, want own profile", loc)
	}

	// Registration signs the user in immediately.
	var sessionCookie *http.Cookie
	for _, c := range resp.Cookies() {
		if c.Name == "ch_session" {
			sessionCookie = c
		}
	}
	if sessionCookie == nil {
		t.Fatal("no session cookie after registration")
	}

	resp = env.get(t, "/", sessionCookie)
	if !strings.Contains(body(t, resp), "Log out") {
		t.Error("index does not show logged-in nav after registration")
	}
}

func TestRegisterDuplicateUsername(t *testing.T) {
	env := newTestEnv(t)
	existing := env.makeUser(t, "member")

	resp := env.postForm(t, "/register", url.Values{
		"username":  {existing.Username},
		"email":     {"dup@example.com"},
		"password1": {"password123"},
		"password2": {"password123"},
	})

	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("duplicate register = %d, want 422", resp.StatusCode)
	}
	if !strings.Contains(body(t, resp), "already taken") {
		t.Error("expected duplicate username message")
	}
}

func TestLoginWrongPassword(t *testing.T) {
	env := newTestEnv(t)
	user := env.makeUser(t, "member")

	resp := env.postForm(t, "/login", url.Values{
		"username": {user.Username},
		"password": {"not-the-password"},
	})

	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("wrong password = %d, want 401", resp.StatusCode)
	}
	if !strings.Contains(body(t, resp), "Invalid username or password.") {
		t.Error("expected login error message")
	}
}

func TestLoginAndLogout(t *testing.T) {
	env := newTestEnv(t)
	user := env.makeUser(t, "member")

	resp := env.postForm(t, "/login", url.Values{
		"username": {user.Username},
		"password": {"password123"},
	})
	if resp.StatusCode != http.StatusSeeOther {
		t.Fatalf("login = %d, want 303", resp.StatusCode)
	}
	var sessionCookie *http.Cookie
	for _, c := range resp.Cookies() {
		if c.Name == "ch_session" {
			sessionCookie = c
		}
	}
	if sessionCookie == nil {
		t.Fatal("no session cookie after login")
	}

	resp = env.postForm(t, "/logout", nil, sessionCookie)
	if resp.StatusCode != http.StatusSeeOther {
		t.Fatalf("logout = %d, want 303", resp.StatusCode)
	}

	// The old cookie no longer authenticates.
	resp = env.get(t, "/posts/create/", sessionCookie)
	if resp.StatusCode != http.StatusSeeOther || resp.Header.Get("Location") != "/login" {
		t.Errorf("after logout create page = %d -> %q, want 303 -> /login",
			resp.StatusCode, resp.Header.Get("Location"))
	}
}

func TestCSRFMissingTokenRendersErrorPage(t *testing.T) {
	env := newTestEnv(t)
	user := env.makeUser(t, "member")
	cookie := env.loginAs(t, user)

	// Bypass postForm so no CSRF token is attached.
	req, err := http.NewRequest(http.MethodPost, env.server.URL+"/logout", nil)
	if err != nil {
		t.Fatal(err)
	}
	req.AddCookie(cookie)
	client := &http.Client{CheckRedirect: func(*http.Request, []*http.Request) error {
		return http.ErrUseLastResponse
	}}
	resp, err := client.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("missing csrf token = %d, want 403", resp.StatusCode)
	}
}

func TestProfileEditTargetsCurrentUserOnly(t *testing.T) {
	env := newTestEnv(t)
	victim := env.makeUser(t, "member")
	attacker := env.makeUser(t, "member")

	// Posting to the victim's edit URL changes the attacker's own profile,
	// never the victim's.
	resp := env.postForm(t, "/profile/"+victim.Username+"/edit/", url.Values{
		"username":   {attacker.Username},
		"email":      {"new@example.com"},
		"first_name": {"Changed"},
		"last_name":  {"Name"},
	}, env.loginAs(t, attacker))

	if resp.StatusCode != http.StatusSeeOther {
		t.Fatalf("profile edit = %d, want 303", resp.StatusCode)
	}

	got, _ := env.users.FindByID(victim.ID)
	if got.FirstName == "Changed" {
		t.Error("victim's profile was modified through the URL")
	}
	got, _ = env.users.FindByID(attacker.ID)
	if got.FirstName != "Changed" {
		t.Error("attacker's own profile was not updated")
	}
}

func TestAdminRequiresAdminRole(t *testing.T) {
	env := newTestEnv(t)
	member := env.makeUser(t, "member")
	admin := env.makeUser(t, "admin")

	if resp := env.get(t, "/admin/", env.loginAs(t, member)); resp.StatusCode != http.StatusForbidden {
		t.Errorf("member admin access = %d, want 403", resp.StatusCode)
	}
	if resp := env.get(t, "/admin/", env.loginAs(t, admin)); resp.StatusCode != http.StatusOK {
		t.Errorf("admin dashboard = %d, want 200", resp.StatusCode)
	}
}

func TestAdminCategoryCreateAndToggle(t *testing.T) {
	env := newTestEnv(t)
	admin := env.makeUser(t, "admin")
	cookie := env.loginAs(t, admin)

	title := "Field Notes " + uuid.NewString()[:8]
	t.Cleanup(func() { env.db.Exec("DELETE FROM categories WHERE title = $1", title) })

	resp := env.postForm(t, "/admin/categories/", url.Values{
		"title":       {title},
		"description": {"notes from the field"},
	}, cookie)
	if resp.StatusCode != http.StatusSeeOther {
		t.Fatalf("category create = %d, want 303", resp.StatusCode)
	}

	// The slug is derived from the title and the category starts published.
	var slug string
	var published bool
	err := env.db.QueryRow("SELECT slug, is_published FROM categories WHERE title = $1", title).
		Scan(&slug, &published)
	if err != nil {
		t.Fatalf("created category not found: %v", err)
	}
	if !strings.HasPrefix(slug, "field-notes") {
		t.Errorf("slug = %q, want field-notes prefix", slug)
	}
	if !published {
		t.Error("new category should start published")
	}

	// Toggle it off; the public category page disappears.
	var id string
	env.db.QueryRow("SELECT id FROM categories WHERE title = $1", title).Scan(&id)
	resp = env.postForm(t, "/admin/categories/"+id+"/toggle", nil, cookie)
	if resp.StatusCode != http.StatusSeeOther {
		t.Fatalf("toggle = %d, want 303", resp.StatusCode)
	}
	if resp := env.get(t, "/category/"+slug+"/"); resp.StatusCode != http.StatusNotFound {
		t.Errorf("unpublished category page = %d, want 404", resp.StatusCode)
	}
}
