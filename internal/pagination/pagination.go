// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package pagination splits ordered collections into fixed-size pages
// addressed by a 1-based page number taken from the request query string.
package pagination

import (
	"net/http"
	"strconv"
)

// PerPage is the number of items shown on every listing page.
const PerPage = 10

// Page describes one page of a paginated collection. The store layer uses
// Limit/Offset to fetch exactly the items belonging to this page.
type Page struct {
	Number     int // 1-based, always within [1, NumPages]
	PerPage    int
	TotalItems int
	NumPages   int
}

// New computes the page for a requested 1-based page number, clamping
// out-of-range values: zero, negative, or unparseable requests land on the
// first page; requests beyond the end land on the last page. An empty
// collection yields a single empty page.
func New(totalItems, perPage, requested int) Page {
	if perPage < 1 {
		perPage = PerPage
	}
	numPages := (totalItems + perPage - 1) / perPage
	if numPages < 1 {
		numPages = 1
	}
	if requested < 1 {
		requested = 1
	}
	if requested > numPages {
		requested = numPages
	}
	return Page{
		Number:     requested,
		PerPage:    perPage,
		TotalItems: totalItems,
		NumPages:   numPages,
	}
}

// FromRequest reads the "page" query parameter and returns the clamped page
// for a collection of totalItems. A missing or non-numeric parameter selects
// the first page.
func FromRequest(r *http.Request, totalItems int) Page {
	requested, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil {
		requested = 1
	}
	return New(totalItems, PerPage, requested)
}

// Offset returns the zero-based item offset of the first item on this page.
func (p Page) Offset() int {
	return (p.Number - 1) * p.PerPage
}

// HasPrev reports whether a previous page exists.
func (p Page) HasPrev() bool { return p.Number > 1 }

// HasNext reports whether a following page exists.
func (p Page) HasNext() bool { return p.Number < p.NumPages }

// PrevNumber returns the previous page number (valid only when HasPrev).
func (p Page) PrevNumber() int { return p.Number - 1 }

// NextNumber returns the next page number (valid only when HasNext).
func (p Page) NextNumber() int { return p.Number + 1 }
