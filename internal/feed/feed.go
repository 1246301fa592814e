// Package feed builds the site's Atom feed from published posts.
package feed

import (
	"fmt"
	"strings"
	"time"

	"github.com/gorilla/feeds"

	"github.com/quillhost/quill/internal/content"
)

// MaxEntries caps the number of posts included in the feed.
const MaxEntries = 20

// CacheKey is where the rendered feed XML is cached.
const CacheKey = "feed:atom"

// ContentType is the media type the feed is served with.
const ContentType = "application/atom+xml; charset=utf-8"

// BuildAtom renders an Atom 1.0 feed for the given published posts, newest
// first, capped at MaxEntries. Posts are expected to be draft-filtered and
// date-sorted already.
func BuildAtom(cfg *content.Config, posts []content.Post, now time.Time) (string, error) {
	siteURL := strings.TrimRight(cfg.Site.URL, "/")

	if len(posts) > MaxEntries {
		posts = posts[:MaxEntries]
	}

	updated := now
	if len(posts) > 0 && posts[0].Date != nil {
		updated = *posts[0].Date
	}

	f := &feeds.Feed{
		Title:       cfg.Site.Title,
		Description: cfg.Site.Description,
		Link:        &feeds.Link{Href: siteURL + "/"},
		Id:          feedID(siteURL),
		Updated:     updated,
	}
	if cfg.Site.Author != "" {
		f.Author = &feeds.Author{Name: cfg.Site.Author}
	}

	for _, post := range posts {
		postURL := siteURL + post.URL()

		item := &feeds.Item{
			Title:       post.Title,
			Link:        &feeds.Link{Href: postURL},
			Id:          postURL,
			Description: post.Description,
			Content:     post.HTML,
		}
		if post.Date != nil {
			item.Created = *post.Date
			item.Updated = *post.Date
		}
		if author := entryAuthor(post, cfg); author != "" {
			item.Author = &feeds.Author{Name: author}
		}
		f.Items = append(f.Items, item)
	}

	xml, err := f.ToAtom()
	if err != nil {
		return "", fmt.Errorf("build atom feed: %w", err)
	}
	return xml, nil
}

func feedID(siteURL string) string {
	if siteURL == "" {
		return "urn:quill:feed"
	}
	return siteURL
}

func entryAuthor(post content.Post, cfg *content.Config) string {
	if post.Author != "" {
		return post.Author
	}
	return cfg.Site.Author
}
