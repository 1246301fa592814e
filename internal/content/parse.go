package content

import (
	"regexp"
	"strings"
	"time"
)

// Renderer turns a Markdown body into HTML. Implemented by
// internal/markdown; kept as an interface so parsing stays testable without
// a full engine.
type Renderer interface {
	Render(body string) (string, error)
}

var datePrefixPattern = regexp.MustCompile(`^(\d{4}-\d{2}-\d{2})-`)

// ParsePost parses a post file into a Post. The slug comes from the
// filename with any `YYYY-MM-DD-` prefix stripped; the date prefers front
// matter over the filename prefix and is nil when neither is present.
func ParsePost(path, raw string, r Renderer) (Post, error) {
	fm, body := ParseFrontMatter(raw)

	html, err := r.Render(body)
	if err != nil {
		return Post{}, err
	}
	html = RewriteImageURLs(html, path)

	date := fm.Date
	if date == nil {
		date = dateFromPath(path)
	}

	return Post{
		Slug:          slugFromPath(path, true),
		Title:         fm.Title,
		Date:          date,
		Tags:          fm.Tags,
		Description:   fm.Description,
		Content:       body,
		HTML:          html,
		Draft:         fm.Draft,
		Featured:      fm.Featured,
		FeaturedOrder: fm.FeaturedOrder,
		Template:      fm.Template,
		Theme:         fm.Theme,
		Author:        fm.Author,
	}, nil
}

// ParsePage parses a page file into a Page. Date-prefix stripping does not
// apply to page slugs.
func ParsePage(path, raw string, r Renderer) (Page, error) {
	fm, body := ParseFrontMatter(raw)

	html, err := r.Render(body)
	if err != nil {
		return Page{}, err
	}
	html = RewriteImageURLs(html, path)

	return Page{
		Slug:          slugFromPath(path, false),
		Title:         fm.Title,
		Content:       body,
		HTML:          html,
		Visibility:    fm.Visibility,
		NavOrder:      fm.NavOrder,
		Featured:      fm.Featured,
		FeaturedOrder: fm.FeaturedOrder,
		Template:      fm.Template,
		Theme:         fm.Theme,
	}, nil
}

// slugFromPath derives a slug from the final path segment. The slug is
// already filesystem- and URL-safe at the source layer and is not
// re-validated here.
func slugFromPath(path string, stripDate bool) string {
	name := path
	if idx := strings.LastIndex(name, "/"); idx >= 0 {
		name = name[idx+1:]
	}
	name = strings.TrimSuffix(name, ".md")

	if stripDate {
		name = datePrefixPattern.ReplaceAllString(name, "")
	}
	return name
}

// dateFromPath parses a `YYYY-MM-DD-` filename prefix into a date.
func dateFromPath(path string) *time.Time {
	name := path
	if idx := strings.LastIndex(name, "/"); idx >= 0 {
		name = name[idx+1:]
	}

	m := datePrefixPattern.FindStringSubmatch(name)
	if m == nil {
		return nil
	}
	d, err := time.Parse("2006-01-02", m[1])
	if err != nil {
		return nil
	}
	return &d
}
