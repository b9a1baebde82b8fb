// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// Post is a blog entry. PubDate may be set in the future to schedule
// publication; the post then becomes publicly visible once that time
// passes, with no explicit trigger.
type Post struct {
	ID          uuid.UUID  `json:"id"`
	Title       string     `json:"title"`
	Text        string     `json:"text"`
	PubDate     time.Time  `json:"pub_date"`
	IsPublished bool       `json:"is_published"`
	AuthorID    uuid.UUID  `json:"author_id"`
	CategoryID  *uuid.UUID `json:"category_id,omitempty"`
	LocationID  *uuid.UUID `json:"location_id,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`

	// Virtual fields populated by store joins.
	AuthorUsername    string  `json:"author_username,omitempty"`
	CategoryTitle     *string `json:"category_title,omitempty"`
	CategorySlug      *string `json:"category_slug,omitempty"`
	CategoryPublished *bool   `json:"-"`
	LocationName      *string `json:"location_name,omitempty"`
	CommentCount      int     `json:"comment_count"`
}

// VisibleAt reports whether the post is visible to a non-author viewer at
// the given time: the post must be published, its publication date must not
// be in the future, and its category (if any) must itself be published.
func (p *Post) VisibleAt(now time.Time) bool {
	if !p.IsPublished || p.PubDate.After(now) {
		return false
	}
	if p.CategoryID != nil {
		return p.CategoryPublished != nil && *p.CategoryPublished
	}
	return true
}
