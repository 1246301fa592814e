package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func newTestGitHubBackend(srv *httptest.Server, token string) *githubBackend {
	return &githubBackend{
		repo:       "octocat/blog",
		token:      token,
		httpClient: &http.Client{Timeout: 5 * time.Second},
		apiURL:     srv.URL,
		rawURL:     srv.URL,
	}
}

func TestGitHubFetchFile_OK(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/octocat/blog/main/posts/hello.md", r.URL.Path)
		require.Equal(t, "Quill/1.0", r.Header.Get("User-Agent"))
		_, _ = w.Write([]byte("# Hello"))
	}))
	defer srv.Close()

	file, err := newTestGitHubBackend(srv, "").fetchFile(context.Background(), "posts/hello.md", "main")

	require.NoError(t, err)
	require.NotNil(t, file)
	require.Equal(t, "# Hello", file.Content)
}

func TestGitHubFetchFile_404_AbsentNotError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	file, err := newTestGitHubBackend(srv, "").fetchFile(context.Background(), "gone.md", "main")

	require.NoError(t, err)
	require.Nil(t, file)
}

func TestGitHubFetchFile_ServerError_Error(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	file, err := newTestGitHubBackend(srv, "").fetchFile(context.Background(), "x.md", "main")

	require.Error(t, err)
	require.Nil(t, file)
}

func TestGitHubRequests_BearerTokenAttached(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "Bearer tok123", r.Header.Get("Authorization"))
		_, _ = w.Write([]byte("ok"))
	}))
	defer srv.Close()

	_, err := newTestGitHubBackend(srv, "tok123").fetchFile(context.Background(), "x.md", "main")

	require.NoError(t, err)
}

func TestGitHubListDir_FilesOnlySorted(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/repos/octocat/blog/contents/posts", r.URL.Path)
		require.Equal(t, "main", r.URL.Query().Get("ref"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
			{"path": "posts/z.md", "type": "file"},
			{"path": "posts/drafts", "type": "dir"},
			{"path": "posts/a.md", "type": "file"}
		]`))
	}))
	defer srv.Close()

	paths, err := newTestGitHubBackend(srv, "").listDir(context.Background(), "posts", "main")

	require.NoError(t, err)
	require.Equal(t, []string{"posts/a.md", "posts/z.md"}, paths)
}

func TestGitHubListDir_404_EmptyNotError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	paths, err := newTestGitHubBackend(srv, "").listDir(context.Background(), "posts", "main")

	require.NoError(t, err)
	require.Empty(t, paths)
}

func TestGitHubFetchBinary_ContentType(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte{0x89, 0x50})
	}))
	defer srv.Close()

	bf, err := newTestGitHubBackend(srv, "").fetchBinary(context.Background(), "static/logo.png", "main")

	require.NoError(t, err)
	require.NotNil(t, bf)
	require.Equal(t, "image/png", bf.ContentType)
	require.Equal(t, []byte{0x89, 0x50}, bf.Content)
}
