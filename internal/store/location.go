// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"chronicle/internal/models"
)

// LocationStore handles all location-related database operations.
type LocationStore struct {
	db *sql.DB
}

// NewLocationStore creates a new LocationStore with the given database connection.
func NewLocationStore(db *sql.DB) *LocationStore {
	return &LocationStore{db: db}
}

// FindByID retrieves a location by its UUID. Returns nil if not found.
func (s *LocationStore) FindByID(id uuid.UUID) (*models.Location, error) {
	l := &models.Location{}
	err := s.db.QueryRow(`
		SELECT id, name, is_published, created_at FROM locations WHERE id = $1
	`, id).Scan(&l.ID, &l.Name, &l.IsPublished, &l.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find location by id: %w", err)
	}
	return l, nil
}

// List returns all locations with their post counts, newest first.
func (s *LocationStore) List() ([]models.Location, error) {
	rows, err := s.db.Query(`
		SELECT l.id, l.name, l.is_published, l.created_at,
		       (SELECT COUNT(*) FROM posts p WHERE p.location_id = l.id)
		FROM locations l
		ORDER BY l.created_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("list locations: %w", err)
	}
	defer rows.Close()

	var locs []models.Location
	for rows.Next() {
		var l models.Location
		if err := rows.Scan(&l.ID, &l.Name, &l.IsPublished, &l.CreatedAt, &l.PostCount); err != nil {
			return nil, fmt.Errorf("scan location: %w", err)
		}
		locs = append(locs, l)
	}
	return locs, rows.Err()
}

// ListPublished returns published locations ordered by name, for the post form.
func (s *LocationStore) ListPublished() ([]models.Location, error) {
	rows, err := s.db.Query(`
		SELECT id, name, is_published, created_at FROM locations WHERE is_published ORDER BY name ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("list published locations: %w", err)
	}
	defer rows.Close()

	var locs []models.Location
	for rows.Next() {
		var l models.Location
		if err := rows.Scan(&l.ID, &l.Name, &l.IsPublished, &l.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan location: %w", err)
		}
		locs = append(locs, l)
	}
	return locs, rows.Err()
}

// Create inserts a new location and returns it with the generated ID.
func (s *LocationStore) Create(name string) (*models.Location, error) {
	l := &models.Location{}
	err := s.db.QueryRow(`
		INSERT INTO locations (name) VALUES ($1)
		RETURNING id, name, is_published, created_at
	`, name).Scan(&l.ID, &l.Name, &l.IsPublished, &l.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("create location: %w", err)
	}
	return l, nil
}

// SetPublished flips the publication flag.
func (s *LocationStore) SetPublished(id uuid.UUID, published bool) error {
	_, err := s.db.Exec(`UPDATE locations SET is_published = $1 WHERE id = $2`, published, id)
	if err != nil {
		return fmt.Errorf("set location published: %w", err)
	}
	return nil
}

// Count returns the total number of locations.
func (s *LocationStore) Count() (int, error) {
	var count int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM locations`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count locations: %w", err)
	}
	return count, nil
}
