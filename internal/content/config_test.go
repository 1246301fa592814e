package content

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseConfig_PartialFile_DefaultsApplied(t *testing.T) {
	cfg := ParseConfig([]byte("site:\n  title: Quill Dev Log\n"))

	require.NotNil(t, cfg)
	require.Equal(t, "Quill Dev Log", cfg.Site.Title)
	require.Equal(t, 3, cfg.Site.FeaturedMax)
	require.Equal(t, "default", cfg.Theme.Name)
	require.Equal(t, "monokai", cfg.Theme.PygmentsStyle)
	require.Equal(t, 10, cfg.Posts.PerPage)
}

func TestParseConfig_FullFile_ValuesKept(t *testing.T) {
	raw := `
site:
  title: My Site
  description: A site
  author: octocat
  url: https://blog.example.com/
  featured_max: 5
theme:
  name: terminal
  pygments_style: dracula
  nav_max_pages: 4
posts:
  per_page: 7
`
	cfg := ParseConfig([]byte(raw))

	require.NotNil(t, cfg)
	require.Equal(t, "octocat", cfg.Site.Author)
	require.Equal(t, 5, cfg.Site.FeaturedMax)
	require.Equal(t, "terminal", cfg.Theme.Name)
	require.Equal(t, "dracula", cfg.Theme.PygmentsStyle)
	require.Equal(t, 4, cfg.Theme.NavMaxPages)
	require.Equal(t, 7, cfg.Posts.PerPage)
}

func TestParseConfig_MalformedYAML_Nil(t *testing.T) {
	require.Nil(t, ParseConfig([]byte("site: [unclosed")))
}

func TestDefaultConfig_SafeToRenderWith(t *testing.T) {
	cfg := DefaultConfig()

	require.Equal(t, "My Blog", cfg.Site.Title)
	require.Equal(t, "default", cfg.Theme.Name)
	require.Equal(t, 10, cfg.Posts.PerPage)
}
