package handlers_test

import (
	"net/http"
	"net/url"
	"strings"
	"testing"
	"time"
)

func TestPostCreateRequiresLogin(t *testing.T) {
	env := newTestEnv(t)

	resp := env.get(t, "/posts/create/")
	if resp.StatusCode != http.StatusSeeOther {
		t.Fatalf("anonymous create page = %d, want 303", resp.StatusCode)
	}
	if loc := resp.Header.Get("Location"); loc != "/login" {
		t.Errorf("redirect target = %q, want /login", loc)
	}
}

func TestPostCreateAndRedirect(t *testing.T) {
	env := newTestEnv(t)
	author := env.makeUser(t, "member")
	cookie := env.loginAs(t, author)

	resp := env.postForm(t, "/posts/create/", url.Values{
		"title":        {"My first entry"},
		"text":         {"Some **markdown** text."},
		"pub_date":     {time.Now().Format("2006-01-02T15:04")},
		"is_published": {"on"},
	}, cookie)

	if resp.StatusCode != http.StatusSeeOther {
		t.Fatalf("create = %d, want 303", resp.StatusCode)
	}
	if loc := resp.Header.Get("Location"); loc != "/profile/"+author.Username+"/" {
		t.Errorf("redirect = %q, want author profile", loc)
	}

	// The post is attributed to the submitter.
	posts, err := env.posts.ListByAuthor(author.ID, 10, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(posts) != 1 || posts[0].Title != "My first entry" {
		t.Fatalf("expected the created post, got %+v", posts)
	}
}

func TestPostCreateValidation(t *testing.T) {
	env := newTestEnv(t)
	author := env.makeUser(t, "member")
	cookie := env.loginAs(t, author)

	resp := env.postForm(t, "/posts/create/", url.Values{
		"title":    {"   "},
		"text":     {"body"},
		"pub_date": {time.Now().Format("2006-01-02T15:04")},
	}, cookie)

	// The form is redisplayed with the error, nothing is stored.
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("invalid create = %d, want 200 redisplay", resp.StatusCode)
	}
	if !strings.Contains(body(t, resp), "Title is required.") {
		t.Error("expected validation message in response")
	}
	if n, _ := env.posts.CountByAuthor(author.ID); n != 0 {
		t.Errorf("post count = %d, want 0", n)
	}
}

func TestPostEditSilentRedirectForNonAuthor(t *testing.T) {
	env := newTestEnv(t)
	author := env.makeUser(t, "member")
	other := env.makeUser(t, "member")

	post := env.makePost(t, author, true, time.Now().Add(-time.Hour))
	editPath := "/posts/" + post.ID.String() + "/edit/"
	detailPath := "/posts/" + post.ID.String() + "/"

	// A signed-in non-author is redirected to the detail page, not shown
	// an error.
	resp := env.get(t, editPath, env.loginAs(t, other))
	if resp.StatusCode != http.StatusSeeOther {
		t.Fatalf("non-author edit = %d, want 303", resp.StatusCode)
	}
	if loc := resp.Header.Get("Location"); loc != detailPath {
		t.Errorf("redirect = %q, want %q", loc, detailPath)
	}

	// Submitting the form as a non-author is also a redirect, and the post
	// is untouched.
	resp = env.postForm(t, editPath, url.Values{
		"title":        {"hijacked"},
		"text":         {"hijacked"},
		"pub_date":     {time.Now().Format("2006-01-02T15:04")},
		"is_published": {"on"},
	}, env.loginAs(t, other))
	if resp.StatusCode != http.StatusSeeOther {
		t.Fatalf("non-author edit submit = %d, want 303", resp.StatusCode)
	}
	got, _ := env.posts.FindByID(post.ID)
	if got.Title != post.Title {
		t.Errorf("post title changed to %q", got.Title)
	}

	// The author can edit.
	resp = env.postForm(t, editPath, url.Values{
		"title":        {"Updated title"},
		"text":         {"Updated text."},
		"pub_date":     {time.Now().Format("2006-01-02T15:04")},
		"is_published": {"on"},
	}, env.loginAs(t, author))
	if resp.StatusCode != http.StatusSeeOther {
		t.Fatalf("author edit submit = %d, want 303", resp.StatusCode)
	}
	if loc := resp.Header.Get("Location"); loc != detailPath {
		t.Errorf("author edit redirect = %q, want detail page", loc)
	}
	got, _ = env.posts.FindByID(post.ID)
	if got.Title != "Updated title" {
		t.Errorf("title = %q after author edit", got.Title)
	}
}

func TestPostDeleteCascadesComments(t *testing.T) {
	env := newTestEnv(t)
	author := env.makeUser(t, "member")
	commenter := env.makeUser(t, "member")

	post := env.makePost(t, author, true, time.Now().Add(-time.Hour))
	if _, err := env.comments.Create(post.ID, commenter.ID, "so long"); err != nil {
		t.Fatal(err)
	}

	resp := env.postForm(t, "/posts/"+post.ID.String()+"/delete/", nil, env.loginAs(t, author))
	if resp.StatusCode != http.StatusSeeOther {
		t.Fatalf("delete = %d, want 303", resp.StatusCode)
	}
	if loc := resp.Header.Get("Location"); loc != "/" {
		t.Errorf("delete redirect = %q, want /", loc)
	}

	if got, _ := env.posts.FindByID(post.ID); got != nil {
		t.Error("post still present after delete")
	}
	if n, _ := env.comments.CountByPost(post.ID); n != 0 {
		t.Errorf("comments remaining = %d, want 0", n)
	}

	// The detail page is gone too.
	if resp := env.get(t, "/posts/"+post.ID.String()+"/"); resp.StatusCode != http.StatusNotFound {
		t.Errorf("deleted post detail = %d, want 404", resp.StatusCode)
	}
}

func TestPostCreateRejectsUnpublishedCategory(t *testing.T) {
	env := newTestEnv(t)
	author := env.makeUser(t, "member")
	hidden := env.makeCategory(t, false)

	resp := env.postForm(t, "/posts/create/", url.Values{
		"title":        {"categorized"},
		"text":         {"text"},
		"pub_date":     {time.Now().Format("2006-01-02T15:04")},
		"is_published": {"on"},
		"category":     {hidden.ID.String()},
	}, env.loginAs(t, author))

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("create with hidden category = %d, want 200 redisplay", resp.StatusCode)
	}
	if !strings.Contains(body(t, resp), "Choose a valid category.") {
		t.Error("expected category validation message")
	}
}
