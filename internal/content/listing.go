package content

import (
	"context"
	"log/slog"
	"sort"
	"strings"
)

// Source is the narrow view of the content fetcher the listing code needs.
type Source interface {
	// ListDir returns the sorted file paths under dir, empty when absent.
	ListDir(ctx context.Context, dir string) []string
	// ReadFile returns the file content, or ok=false when absent.
	ReadFile(ctx context.Context, path string) (string, bool)
}

// AllPosts fetches and parses every post in the repository's posts/
// directory. Missing files and per-file parse failures are skipped rather
// than aborting the listing. Posts are sorted newest first, with dateless
// posts last.
func AllPosts(ctx context.Context, src Source, r Renderer, includeDrafts bool) []Post {
	var posts []Post
	for _, path := range src.ListDir(ctx, "posts") {
		if !strings.HasSuffix(path, ".md") {
			continue
		}
		raw, ok := src.ReadFile(ctx, path)
		if !ok {
			continue
		}

		post, err := ParsePost(path, raw, r)
		if err != nil {
			slog.Warn("Skipping unparsable post", "path", path, "error", err)
			continue
		}
		if post.Draft && !includeDrafts {
			continue
		}
		posts = append(posts, post)
	}

	SortPostsByDate(posts)
	return posts
}

// AllPages fetches and parses every page in the repository's pages/
// directory, skipping per-file failures.
func AllPages(ctx context.Context, src Source, r Renderer) []Page {
	var pages []Page
	for _, path := range src.ListDir(ctx, "pages") {
		if !strings.HasSuffix(path, ".md") {
			continue
		}
		raw, ok := src.ReadFile(ctx, path)
		if !ok {
			continue
		}

		page, err := ParsePage(path, raw, r)
		if err != nil {
			slog.Warn("Skipping unparsable page", "path", path, "error", err)
			continue
		}
		pages = append(pages, page)
	}
	return pages
}

// SortPostsByDate orders posts newest first; posts without a date sort
// last.
func SortPostsByDate(posts []Post) {
	sort.SliceStable(posts, func(i, j int) bool {
		a, b := posts[i].Date, posts[j].Date
		switch {
		case a == nil:
			return false
		case b == nil:
			return true
		default:
			return a.After(*b)
		}
	})
}

// FeaturedPosts selects the featured posts, ordered by explicit featured
// order ascending (posts without an order last), then date descending, and
// capped at cfg.Site.FeaturedMax.
func FeaturedPosts(posts []Post, cfg *Config) []Post {
	var featured []Post
	for _, p := range posts {
		if p.Featured {
			featured = append(featured, p)
		}
	}

	sort.SliceStable(featured, func(i, j int) bool {
		a, b := featured[i], featured[j]
		switch {
		case a.FeaturedOrder != nil && b.FeaturedOrder != nil:
			return *a.FeaturedOrder < *b.FeaturedOrder
		case a.FeaturedOrder != nil:
			return true
		case b.FeaturedOrder != nil:
			return false
		}
		switch {
		case a.Date == nil:
			return false
		case b.Date == nil:
			return true
		default:
			return a.Date.After(*b.Date)
		}
	})

	if len(featured) > cfg.Site.FeaturedMax {
		featured = featured[:cfg.Site.FeaturedMax]
	}
	return featured
}

// Paginate slices posts for the requested page and returns the pagination
// descriptor. The page number is clamped to the valid range.
func Paginate(posts []Post, page, perPage int) ([]Post, Pagination) {
	totalItems := len(posts)
	totalPages := (totalItems + perPage - 1) / perPage
	if totalPages < 1 {
		totalPages = 1
	}

	if page < 1 {
		page = 1
	}
	if page > totalPages {
		page = totalPages
	}

	start := (page - 1) * perPage
	end := start + perPage
	if start > totalItems {
		start = totalItems
	}
	if end > totalItems {
		end = totalItems
	}

	return posts[start:end], Pagination{
		Page:       page,
		PerPage:    perPage,
		TotalItems: totalItems,
		TotalPages: totalPages,
	}
}
