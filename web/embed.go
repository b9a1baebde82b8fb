// Package web provides the embedded static assets for the blog: the site
// stylesheet and anything else under web/static/.
package web

import "embed"

// StaticFS embeds the web/static/ directory tree. Served at /static/ by
// the router; file paths under the URL mirror the paths in the embed.
//
//go:embed all:static
var StaticFS embed.FS
