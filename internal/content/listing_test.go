package content

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// mapSource serves content from an in-memory map, listing by prefix.
type mapSource struct {
	files map[string]string
	dirs  map[string][]string
}

func (m mapSource) ListDir(_ context.Context, dir string) []string  { return m.dirs[dir] }
func (m mapSource) ReadFile(_ context.Context, path string) (string, bool) {
	raw, ok := m.files[path]
	return raw, ok
}

func datePtr(y int, mo time.Month, d int) *time.Time {
	t := time.Date(y, mo, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func intPtr(n int) *int { return &n }

func TestAllPosts_SortedNewestFirst_DatelessLast(t *testing.T) {
	src := mapSource{
		dirs: map[string][]string{"posts": {
			"posts/2024-01-01-old.md",
			"posts/2024-06-01-new.md",
			"posts/undated.md",
		}},
		files: map[string]string{
			"posts/2024-01-01-old.md": "Old.",
			"posts/2024-06-01-new.md": "New.",
			"posts/undated.md":        "No date.",
		},
	}

	posts := AllPosts(context.Background(), src, passthroughRenderer{}, false)

	require.Len(t, posts, 3)
	require.Equal(t, "new", posts[0].Slug)
	require.Equal(t, "old", posts[1].Slug)
	require.Equal(t, "undated", posts[2].Slug)
}

func TestAllPosts_Drafts_ExcludedUnlessRequested(t *testing.T) {
	src := mapSource{
		dirs: map[string][]string{"posts": {"posts/a.md", "posts/b.md"}},
		files: map[string]string{
			"posts/a.md": "---\ndraft: true\n---\nDraft.",
			"posts/b.md": "Live.",
		},
	}

	published := AllPosts(context.Background(), src, passthroughRenderer{}, false)
	require.Len(t, published, 1)
	require.Equal(t, "b", published[0].Slug)

	all := AllPosts(context.Background(), src, passthroughRenderer{}, true)
	require.Len(t, all, 2)
}

func TestAllPosts_NonMarkdownAndMissingFiles_Skipped(t *testing.T) {
	src := mapSource{
		dirs: map[string][]string{"posts": {
			"posts/image.png",
			"posts/gone.md",
			"posts/here.md",
		}},
		files: map[string]string{"posts/here.md": "Here."},
	}

	posts := AllPosts(context.Background(), src, passthroughRenderer{}, false)

	require.Len(t, posts, 1)
	require.Equal(t, "here", posts[0].Slug)
}

func TestAllPages_ParsesEverything(t *testing.T) {
	src := mapSource{
		dirs: map[string][]string{"pages": {"pages/about.md", "pages/contact.md"}},
		files: map[string]string{
			"pages/about.md":   "---\ntitle: About\n---\nAbout.",
			"pages/contact.md": "Contact.",
		},
	}

	pages := AllPages(context.Background(), src, passthroughRenderer{})

	require.Len(t, pages, 2)
	require.Equal(t, "About", pages[0].Title)
}

func TestFeaturedPosts_OrderAscThenDateDesc_Capped(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Site.FeaturedMax = 3
	posts := []Post{
		{Slug: "plain", Featured: false},
		{Slug: "dated-new", Featured: true, Date: datePtr(2024, 6, 1)},
		{Slug: "second", Featured: true, FeaturedOrder: intPtr(2)},
		{Slug: "first", Featured: true, FeaturedOrder: intPtr(1)},
		{Slug: "dated-old", Featured: true, Date: datePtr(2024, 1, 1)},
	}

	featured := FeaturedPosts(posts, cfg)

	require.Len(t, featured, 3)
	require.Equal(t, "first", featured[0].Slug)
	require.Equal(t, "second", featured[1].Slug)
	require.Equal(t, "dated-new", featured[2].Slug)
}

func TestFeaturedPosts_CapAppliesAfterSorting(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Site.FeaturedMax = 1
	posts := []Post{
		{Slug: "later", Featured: true, FeaturedOrder: intPtr(5)},
		{Slug: "winner", Featured: true, FeaturedOrder: intPtr(1)},
	}

	featured := FeaturedPosts(posts, cfg)

	require.Len(t, featured, 1)
	require.Equal(t, "winner", featured[0].Slug)
}

func TestPaginate_SlicesAndClamps(t *testing.T) {
	posts := make([]Post, 25)

	pagePosts, pg := Paginate(posts, 2, 10)
	require.Len(t, pagePosts, 10)
	require.Equal(t, 2, pg.Page)
	require.Equal(t, 3, pg.TotalPages)
	require.Equal(t, 25, pg.TotalItems)
	require.True(t, pg.HasPrev())
	require.True(t, pg.HasNext())

	lastPosts, last := Paginate(posts, 99, 10)
	require.Len(t, lastPosts, 5)
	require.Equal(t, 3, last.Page)
	require.False(t, last.HasNext())

	firstPosts, first := Paginate(posts, -1, 10)
	require.Len(t, firstPosts, 10)
	require.Equal(t, 1, first.Page)
	require.False(t, first.HasPrev())
}

func TestPaginate_Empty_SinglePage(t *testing.T) {
	pagePosts, pg := Paginate(nil, 1, 10)

	require.Empty(t, pagePosts)
	require.Equal(t, 1, pg.Page)
	require.Equal(t, 1, pg.TotalPages)
	require.Equal(t, 0, pg.TotalItems)
}
