// store_test.go provides a shared test database helper for all store
// integration tests. Tests are skipped if PostgreSQL is not available.
package store

import (
	"database/sql"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"chronicle/internal/database"
	"chronicle/internal/models"
)

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// testDSN returns the PostgreSQL connection string for testing.
// Uses environment variables with defaults matching docker-compose.yml.
func testDSN() string {
	host := envOr("POSTGRES_HOST", "localhost")
	port := envOr("POSTGRES_PORT", "5432")
	user := envOr("POSTGRES_USER", "chronicle")
	pass := envOr("POSTGRES_PASSWORD", "changeme")
	name := envOr("POSTGRES_DB", "chronicle")
	return "postgres://" + user + ":" + pass + "@" + host + ":" + port + "/" + name + "?sslmode=disable"
}

// testDB opens a connection to the test database and runs migrations.
// If the database is unavailable, the test is skipped. A cleanup
// function is registered to close the connection when the test finishes.
func testDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("pgx", testDSN())
	if err != nil {
		t.Skipf("skipping integration test: cannot open DB: %v", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		t.Skipf("skipping integration test: DB not reachable: %v", err)
	}

	if err := database.Migrate(db); err != nil {
		db.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}

	// Reset goose global state.
	goose.SetBaseFS(nil)

	t.Cleanup(func() { db.Close() })
	return db
}

// makeUser inserts a throwaway user and schedules its removal, comments
// and posts included.
func makeUser(t *testing.T, db *sql.DB) *models.User {
	t.Helper()
	s := NewUserStore(db)
	username := "test-user-" + uuid.NewString()[:8]
	u, err := s.Create(username, username+"@example.com", "password123", "Test", "User", models.RoleMember)
	if err != nil {
		t.Fatalf("create test user: %v", err)
	}
	t.Cleanup(func() {
		db.Exec("DELETE FROM comments WHERE author_id = $1", u.ID)
		db.Exec("DELETE FROM posts WHERE author_id = $1", u.ID)
		db.Exec("DELETE FROM users WHERE id = $1", u.ID)
	})
	return u
}

// makeCategory inserts a throwaway category and schedules its removal.
func makeCategory(t *testing.T, db *sql.DB, published bool) *models.Category {
	t.Helper()
	s := NewCategoryStore(db)
	slug := "test-cat-" + uuid.NewString()[:8]
	c, err := s.Create("Test Category", slug, "for tests")
	if err != nil {
		t.Fatalf("create test category: %v", err)
	}
	if !published {
		if err := s.SetPublished(c.ID, false); err != nil {
			t.Fatalf("unpublish test category: %v", err)
		}
		c.IsPublished = false
	}
	t.Cleanup(func() { db.Exec("DELETE FROM categories WHERE id = $1", c.ID) })
	return c
}

// makePost inserts a post with the given flags, owned by author.
func makePost(t *testing.T, db *sql.DB, author *models.User, categoryID *uuid.UUID, published bool, pubDate time.Time) *models.Post {
	t.Helper()
	s := NewPostStore(db)
	p, err := s.Create(&models.Post{
		Title:       "Test Post " + uuid.NewString()[:8],
		Text:        "Body text.",
		PubDate:     pubDate,
		IsPublished: published,
		AuthorID:    author.ID,
		CategoryID:  categoryID,
	})
	if err != nil {
		t.Fatalf("create test post: %v", err)
	}
	return p
}

// containsPost reports whether posts includes the given ID.
func containsPost(posts []models.Post, id uuid.UUID) bool {
	for _, p := range posts {
		if p.ID == id {
			return true
		}
	}
	return false
}
