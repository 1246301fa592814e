// Package content turns raw Markdown files from the content repository into
// structured posts and pages, and assembles the listings built on top of
// them.
package content

import "time"

// Visibility values recognized in front matter.
const (
	VisibilityPublic   = "public"
	VisibilityUnlisted = "unlisted"
	VisibilityHidden   = "hidden"
)

// FrontMatter is the typed metadata extracted from the leading YAML block of
// a Markdown file. Unrecognized keys are preserved in Extra rather than
// rejected, so content authors can carry forward-compatible metadata.
type FrontMatter struct {
	Title         string
	Date          *time.Time
	Tags          []string
	Description   string
	Draft         bool
	Featured      bool
	FeaturedOrder *int
	Visibility    string
	NavOrder      *int
	Template      string
	Theme         string
	Author        string
	Extra         map[string]any
}

// DefaultFrontMatter returns the front matter used when a document has no
// parseable YAML block.
func DefaultFrontMatter() FrontMatter {
	return FrontMatter{
		Title:      "Untitled",
		Visibility: VisibilityPublic,
		Extra:      map[string]any{},
	}
}

// Post is a parsed blog post.
type Post struct {
	Slug          string
	Title         string
	Date          *time.Time
	Tags          []string
	Description   string
	Content       string // raw Markdown body
	HTML          string // rendered body
	Draft         bool
	Featured      bool
	FeaturedOrder *int
	Template      string
	Theme         string
	Author        string
}

// URL returns the URL path for the post.
func (p Post) URL() string { return "/posts/" + p.Slug }

// Page is a parsed static page.
type Page struct {
	Slug          string
	Title         string
	Content       string
	HTML          string
	Visibility    string
	NavOrder      *int
	Featured      bool
	FeaturedOrder *int
	Template      string
	Theme         string
}

// URL returns the URL path for the page.
func (p Page) URL() string { return "/" + p.Slug }

// Pagination describes one page of a post listing.
type Pagination struct {
	Page       int
	PerPage    int
	TotalItems int
	TotalPages int
}

// HasPrev reports whether a previous page exists.
func (p Pagination) HasPrev() bool { return p.Page > 1 }

// HasNext reports whether a next page exists.
func (p Pagination) HasNext() bool { return p.Page < p.TotalPages }

// PrevPage returns the previous page number, or 0 when on the first page.
func (p Pagination) PrevPage() int {
	if !p.HasPrev() {
		return 0
	}
	return p.Page - 1
}

// NextPage returns the next page number, or 0 when on the last page.
func (p Pagination) NextPage() int {
	if !p.HasNext() {
		return 0
	}
	return p.Page + 1
}
