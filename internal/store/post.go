// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"chronicle/internal/models"
)

// PostStore handles all post-related database operations, including the
// public visibility filter: a post is visible iff it is published, its
// publication date is not in the future, and its category (if any) is
// itself published.
type PostStore struct {
	db *sql.DB
}

// NewPostStore creates a new PostStore with the given database connection.
func NewPostStore(db *sql.DB) *PostStore {
	return &PostStore{db: db}
}

// postSelect joins the author, category, and location so listings and the
// detail page can be rendered from a single query. An unpublished location's
// name comes back NULL so it silently disappears from rendered posts.
const postSelect = `
	SELECT p.id, p.title, p.text, p.pub_date, p.is_published,
	       p.author_id, p.category_id, p.location_id, p.created_at, p.updated_at,
	       u.username, c.title, c.slug, c.is_published,
	       CASE WHEN l.is_published THEN l.name END,
	       (SELECT COUNT(*) FROM comments cm WHERE cm.post_id = p.id)
	FROM posts p
	JOIN users u ON u.id = p.author_id
	LEFT JOIN categories c ON c.id = p.category_id
	LEFT JOIN locations l ON l.id = p.location_id`

// visibleCond is the SQL form of models.Post.VisibleAt. $1 is "now":
// visibility is evaluated against the live clock on every request, so
// scheduled posts appear automatically once their pub_date passes.
const visibleCond = `p.is_published AND p.pub_date <= $1 AND (p.category_id IS NULL OR c.is_published)`

func scanPostRows(rows *sql.Rows) ([]models.Post, error) {
	var posts []models.Post
	for rows.Next() {
		var p models.Post
		if err := rows.Scan(
			&p.ID, &p.Title, &p.Text, &p.PubDate, &p.IsPublished,
			&p.AuthorID, &p.CategoryID, &p.LocationID, &p.CreatedAt, &p.UpdatedAt,
			&p.AuthorUsername, &p.CategoryTitle, &p.CategorySlug, &p.CategoryPublished,
			&p.LocationName, &p.CommentCount,
		); err != nil {
			return nil, fmt.Errorf("scan post: %w", err)
		}
		posts = append(posts, p)
	}
	return posts, rows.Err()
}

// ListVisible returns one page of publicly visible posts, newest
// publication date first.
func (s *PostStore) ListVisible(now time.Time, limit, offset int) ([]models.Post, error) {
	rows, err := s.db.Query(
		postSelect+` WHERE `+visibleCond+` ORDER BY p.pub_date DESC LIMIT $2 OFFSET $3`,
		now, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list visible posts: %w", err)
	}
	defer rows.Close()
	return scanPostRows(rows)
}

// CountVisible returns the number of publicly visible posts.
func (s *PostStore) CountVisible(now time.Time) (int, error) {
	var count int
	err := s.db.QueryRow(`
		SELECT COUNT(*) FROM posts p
		LEFT JOIN categories c ON c.id = p.category_id
		WHERE `+visibleCond, now).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count visible posts: %w", err)
	}
	return count, nil
}

// ListVisibleByCategory returns one page of visible posts in the given
// category. The caller has already established that the category exists
// and is published.
func (s *PostStore) ListVisibleByCategory(categoryID uuid.UUID, now time.Time, limit, offset int) ([]models.Post, error) {
	rows, err := s.db.Query(
		postSelect+` WHERE `+visibleCond+` AND p.category_id = $2
		ORDER BY p.pub_date DESC LIMIT $3 OFFSET $4`,
		now, categoryID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list category posts: %w", err)
	}
	defer rows.Close()
	return scanPostRows(rows)
}

// CountVisibleByCategory returns the number of visible posts in a category.
func (s *PostStore) CountVisibleByCategory(categoryID uuid.UUID, now time.Time) (int, error) {
	var count int
	err := s.db.QueryRow(`
		SELECT COUNT(*) FROM posts p
		LEFT JOIN categories c ON c.id = p.category_id
		WHERE `+visibleCond+` AND p.category_id = $2`, now, categoryID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count category posts: %w", err)
	}
	return count, nil
}

// ListByAuthor returns one page of ALL posts by the given author, with no
// visibility filtering: profile pages show an author's unpublished and
// scheduled posts to every viewer.
func (s *PostStore) ListByAuthor(authorID uuid.UUID, limit, offset int) ([]models.Post, error) {
	rows, err := s.db.Query(
		postSelect+` WHERE p.author_id = $1 ORDER BY p.pub_date DESC LIMIT $2 OFFSET $3`,
		authorID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list author posts: %w", err)
	}
	defer rows.Close()
	return scanPostRows(rows)
}

// CountByAuthor returns the number of posts by the given author.
func (s *PostStore) CountByAuthor(authorID uuid.UUID) (int, error) {
	var count int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM posts WHERE author_id = $1`, authorID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count author posts: %w", err)
	}
	return count, nil
}

// FindByID retrieves a post by its UUID with joined display fields,
// regardless of visibility. Returns nil if not found. The caller applies
// the visibility check for non-author viewers.
func (s *PostStore) FindByID(id uuid.UUID) (*models.Post, error) {
	rows, err := s.db.Query(postSelect+` WHERE p.id = $1`, id)
	if err != nil {
		return nil, fmt.Errorf("find post by id: %w", err)
	}
	defer rows.Close()

	posts, err := scanPostRows(rows)
	if err != nil {
		return nil, fmt.Errorf("find post by id: %w", err)
	}
	if len(posts) == 0 {
		return nil, nil
	}
	return &posts[0], nil
}

// Create inserts a new post. The author is fixed at creation and never
// reassigned afterwards.
func (s *PostStore) Create(p *models.Post) (*models.Post, error) {
	result := &models.Post{}
	err := s.db.QueryRow(`
		INSERT INTO posts (title, text, pub_date, is_published, author_id, category_id, location_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, title, text, pub_date, is_published, author_id, category_id, location_id, created_at, updated_at
	`, p.Title, p.Text, p.PubDate, p.IsPublished, p.AuthorID, p.CategoryID, p.LocationID,
	).Scan(
		&result.ID, &result.Title, &result.Text, &result.PubDate, &result.IsPublished,
		&result.AuthorID, &result.CategoryID, &result.LocationID, &result.CreatedAt, &result.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("create post: %w", err)
	}
	return result, nil
}

// Update modifies an existing post's editable fields. The author column is
// deliberately absent from the statement.
func (s *PostStore) Update(p *models.Post) error {
	_, err := s.db.Exec(`
		UPDATE posts SET
			title = $1, text = $2, pub_date = $3, is_published = $4,
			category_id = $5, location_id = $6, updated_at = NOW()
		WHERE id = $7
	`, p.Title, p.Text, p.PubDate, p.IsPublished, p.CategoryID, p.LocationID, p.ID)
	if err != nil {
		return fmt.Errorf("update post: %w", err)
	}
	return nil
}

// Delete removes a post by ID. Its comments go with it (ON DELETE CASCADE).
func (s *PostStore) Delete(id uuid.UUID) error {
	_, err := s.db.Exec(`DELETE FROM posts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete post: %w", err)
	}
	return nil
}

// Count returns the total number of posts regardless of visibility.
func (s *PostStore) Count() (int, error) {
	var count int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM posts`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count posts: %w", err)
	}
	return count, nil
}
