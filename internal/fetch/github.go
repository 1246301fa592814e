package fetch

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"time"
)

const maxContentResponseBytes = 20 * 1024 * 1024

// githubBackend fetches content over HTTPS: raw.githubusercontent.com for
// file bodies, the contents API for directory listings.
type githubBackend struct {
	repo       string
	token      string
	httpClient *http.Client
	apiURL     string
	rawURL     string
}

func newGitHubBackend(repo, token string) *githubBackend {
	return &githubBackend{
		repo:       repo,
		token:      token,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		apiURL:     "https://api.github.com",
		rawURL:     "https://raw.githubusercontent.com",
	}
}

func (b *githubBackend) name() string { return "github" }

func (b *githubBackend) fetchFile(ctx context.Context, path, ref string) (*File, error) {
	data, found, err := b.fetchRaw(ctx, path, ref)
	if err != nil || !found {
		return nil, err
	}
	return &File{Path: path, Content: string(data)}, nil
}

func (b *githubBackend) fetchBinary(ctx context.Context, path, ref string) (*BinaryFile, error) {
	data, found, err := b.fetchRaw(ctx, path, ref)
	if err != nil || !found {
		return nil, err
	}
	return &BinaryFile{Path: path, Content: data, ContentType: contentTypeFor(path)}, nil
}

// fetchRaw gets a file's bytes from the raw content host. A 404 is
// (nil, false, nil): absent, not an error.
func (b *githubBackend) fetchRaw(ctx context.Context, path, ref string) ([]byte, bool, error) {
	rawURL := fmt.Sprintf("%s/%s/%s/%s", b.rawURL, b.repo, ref, path)

	req, err := b.newRequest(ctx, rawURL)
	if err != nil {
		return nil, false, err
	}

	resp, err := b.httpClient.Do(req)
	if err != nil {
		return nil, false, err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode == http.StatusNotFound {
		return nil, false, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, false, fmt.Errorf("fetch %s: HTTP %d", path, resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxContentResponseBytes))
	if err != nil {
		return nil, false, fmt.Errorf("read response: %w", err)
	}
	return data, true, nil
}

// githubContentsEntry is one entry from the contents API listing.
type githubContentsEntry struct {
	Path string `json:"path"`
	Type string `json:"type"`
}

func (b *githubBackend) listDir(ctx context.Context, dir, ref string) ([]string, error) {
	listURL := fmt.Sprintf("%s/repos/%s/contents/%s?ref=%s", b.apiURL, b.repo, dir, url.QueryEscape(ref))

	req, err := b.newRequest(ctx, listURL)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/vnd.github+json")

	resp, err := b.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("list %s: HTTP %d", dir, resp.StatusCode)
	}

	var entries []githubContentsEntry
	if err := json.NewDecoder(resp.Body).Decode(&entries); err != nil {
		return nil, fmt.Errorf("decode listing: %w", err)
	}

	var paths []string
	for _, entry := range entries {
		if entry.Type == "file" {
			paths = append(paths, entry.Path)
		}
	}
	sort.Strings(paths)
	return paths, nil
}

func (b *githubBackend) newRequest(ctx context.Context, rawURL string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, http.NoBody)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "Quill/1.0")
	if b.token != "" {
		req.Header.Set("Authorization", "Bearer "+b.token)
	}
	return req, nil
}
