package fetch

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/quillhost/quill/internal/cache"
	"github.com/quillhost/quill/internal/config"
)

// newLocalService wires a Service over a throwaway content directory.
func newLocalService(t *testing.T) (*Service, string) {
	t.Helper()
	root := t.TempDir()
	settings := &config.Settings{
		ContentRepo: "file://" + root,
		ContentRef:  "main",
		CacheTTL:    time.Minute,
	}
	svc, err := New(settings, cache.New(settings.CacheTTL), nil)
	require.NoError(t, err)
	return svc, root
}

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	full := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
	require.NoError(t, os.WriteFile(full, []byte(content), 0o644))
}

func TestGetFile_LocalBackend_ReadsContent(t *testing.T) {
	svc, root := newLocalService(t)
	writeFile(t, root, "posts/hello.md", "# Hello")

	file := svc.GetFile(context.Background(), "posts/hello.md", "main", true)

	require.NotNil(t, file)
	require.Equal(t, "posts/hello.md", file.Path)
	require.Equal(t, "# Hello", file.Content)
}

func TestGetFile_Missing_NilAndNotCached(t *testing.T) {
	svc, root := newLocalService(t)

	require.Nil(t, svc.GetFile(context.Background(), "posts/later.md", "main", true))

	// The absence must not pin: once the file exists the next cached read
	// sees it.
	writeFile(t, root, "posts/later.md", "now here")
	file := svc.GetFile(context.Background(), "posts/later.md", "main", true)
	require.NotNil(t, file)
	require.Equal(t, "now here", file.Content)
}

func TestGetFile_SuccessCached_SurvivesSourceRemoval(t *testing.T) {
	svc, root := newLocalService(t)
	writeFile(t, root, "posts/hello.md", "cached")

	require.NotNil(t, svc.GetFile(context.Background(), "posts/hello.md", "main", true))
	require.NoError(t, os.Remove(filepath.Join(root, "posts", "hello.md")))

	file := svc.GetFile(context.Background(), "posts/hello.md", "main", true)
	require.NotNil(t, file)
	require.Equal(t, "cached", file.Content)
}

func TestGetFile_CacheBypass_AlwaysHitsBackend(t *testing.T) {
	svc, root := newLocalService(t)
	writeFile(t, root, "posts/hello.md", "v1")

	require.Equal(t, "v1", svc.GetFile(context.Background(), "posts/hello.md", "main", true).Content)
	writeFile(t, root, "posts/hello.md", "v2")

	require.Equal(t, "v2", svc.GetFile(context.Background(), "posts/hello.md", "main", false).Content)
}

func TestGetFile_PathTraversal_Nil(t *testing.T) {
	svc, _ := newLocalService(t)

	require.Nil(t, svc.GetFile(context.Background(), "../../etc/passwd", "main", true))
}

func TestGetBinaryFile_ContentTypeFromExtension(t *testing.T) {
	svc, root := newLocalService(t)
	writeFile(t, root, "static/logo.png", "png-bytes")
	writeFile(t, root, "static/data.bin", "raw")

	png := svc.GetBinaryFile(context.Background(), "static/logo.png", "main", true)
	require.NotNil(t, png)
	require.Equal(t, "image/png", png.ContentType)

	bin := svc.GetBinaryFile(context.Background(), "static/data.bin", "main", true)
	require.NotNil(t, bin)
	require.Equal(t, "application/octet-stream", bin.ContentType)
}

func TestListDirectory_SortedFilesOnly(t *testing.T) {
	svc, root := newLocalService(t)
	writeFile(t, root, "posts/b.md", "b")
	writeFile(t, root, "posts/a.md", "a")
	writeFile(t, root, "posts/.hidden", "x")
	require.NoError(t, os.MkdirAll(filepath.Join(root, "posts", "nested"), 0o755))

	paths := svc.ListDirectory(context.Background(), "posts", "main", true)

	require.Equal(t, []string{"posts/a.md", "posts/b.md"}, paths)
}

func TestListDirectory_Listing_CachedEvenWhenStale(t *testing.T) {
	svc, root := newLocalService(t)
	writeFile(t, root, "posts/a.md", "a")

	first := svc.ListDirectory(context.Background(), "posts", "main", true)
	require.Len(t, first, 1)

	writeFile(t, root, "posts/b.md", "b")
	second := svc.ListDirectory(context.Background(), "posts", "main", true)
	require.Equal(t, first, second)
}

func TestGetConfig_YmlPreferredOverYaml(t *testing.T) {
	svc, root := newLocalService(t)
	writeFile(t, root, "config.yml", "site:\n  title: From Yml\n")
	writeFile(t, root, "config.yaml", "site:\n  title: From Yaml\n")

	cfg := svc.GetConfig(context.Background(), true)

	require.NotNil(t, cfg)
	require.Equal(t, "From Yml", cfg.Site.Title)
}

func TestGetConfig_FallsBackToYamlExtension(t *testing.T) {
	svc, root := newLocalService(t)
	writeFile(t, root, "config.yaml", "site:\n  title: From Yaml\n")

	cfg := svc.GetConfig(context.Background(), true)

	require.NotNil(t, cfg)
	require.Equal(t, "From Yaml", cfg.Site.Title)
}

func TestGetConfig_MissingOrMalformed_Nil(t *testing.T) {
	svc, root := newLocalService(t)
	require.Nil(t, svc.GetConfig(context.Background(), true))

	writeFile(t, root, "config.yml", "site: [broken")
	require.Nil(t, svc.GetConfig(context.Background(), false))
}

func TestSiteConfig_NoRepoConfig_Defaults(t *testing.T) {
	svc, _ := newLocalService(t)

	cfg := svc.SiteConfig(context.Background())

	require.Equal(t, "My Blog", cfg.Site.Title)
}

func TestRefresh_LocalBackend_Noop(t *testing.T) {
	svc, _ := newLocalService(t)

	require.NoError(t, svc.Refresh(context.Background()))
}
