// Package content enumerates documents from a source content tree.
package content

import (
	"path"
	"time"

	"git.home.luguber.info/inful/sitegen/internal/util/sets"
)

// Document is one content item: parsed frontmatter plus the raw Markdown body.
// Documents are read-only during a build.
type Document struct {
	Slug       string // unique per build, normalized from file location (or explicit slug key)
	Title      string
	Date       time.Time
	Draft      bool
	Tags       sets.Set[string]
	Categories sets.Set[string]
	Layout     string // explicit layout name; empty means the convention default
	Body       []byte // raw Markdown, frontmatter already stripped
	SourcePath string // path of the source file, relative to the content root
}

// OutputPath returns the deterministic output location for the document,
// following the slug/index.html convention.
func (d *Document) OutputPath() string {
	return path.Join(d.Slug, "index.html")
}

// Permalink returns the site-absolute URL path for the document. A top-level
// index document has an empty slug and lives at the site root.
func (d *Document) Permalink() string {
	if d.Slug == "" {
		return "/"
	}
	return "/" + d.Slug + "/"
}
