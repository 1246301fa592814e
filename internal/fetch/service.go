// Package fetch reads content out of the configured repository, whether a
// GitHub repo over HTTPS, a local directory, or a maintained git mirror.
// Every read goes through the TTL cache first.
package fetch

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/quillhost/quill/internal/cache"
	"github.com/quillhost/quill/internal/config"
	"github.com/quillhost/quill/internal/content"
	"github.com/quillhost/quill/internal/metrics"
)

// File is a text file fetched from the content repository.
type File struct {
	Path    string
	Content string
}

// BinaryFile is a binary file fetched from the content repository.
type BinaryFile struct {
	Path        string
	Content     []byte
	ContentType string
}

// backend is one concrete content source. Absent files are (nil, nil);
// errors are backend failures that the service degrades to absent.
type backend interface {
	name() string
	fetchFile(ctx context.Context, path, ref string) (*File, error)
	fetchBinary(ctx context.Context, path, ref string) (*BinaryFile, error)
	listDir(ctx context.Context, dir, ref string) ([]string, error)
}

// Service is the cache-aware content fetcher.
//
// Successful reads populate the cache; absences and failures are never
// cached, so a missing file is re-attempted on every uncached request
// rather than pinning a transient error.
type Service struct {
	settings *config.Settings
	cache    *cache.Cache
	backend  backend
	recorder metrics.Recorder
}

// New builds a Service for the configured content source.
func New(settings *config.Settings, c *cache.Cache, recorder metrics.Recorder) (*Service, error) {
	if recorder == nil {
		recorder = metrics.NoopRecorder{}
	}

	var (
		b   backend
		err error
	)
	switch {
	case settings.IsLocalContent():
		b = newLocalBackend(settings.LocalPath())
	case settings.IsGitContent():
		b, err = newGitMirrorBackend(settings.GitURL(), settings.MirrorDir, settings.ContentRef)
		if err != nil {
			return nil, fmt.Errorf("init git mirror: %w", err)
		}
	default:
		b = newGitHubBackend(settings.ContentRepo, settings.Token)
	}

	return &Service{
		settings: settings,
		cache:    c,
		backend:  b,
		recorder: recorder,
	}, nil
}

// GetFile fetches a text file, or nil when absent or the backend failed.
func (s *Service) GetFile(ctx context.Context, path, ref string, useCache bool) *File {
	key := "file:" + path + ":" + ref

	if useCache {
		if cached, ok := s.cache.Get(key); ok {
			s.recorder.IncCacheHit("file")
			return cached.(*File)
		}
		s.recorder.IncCacheMiss("file")
	}

	start := time.Now()
	file, err := s.backend.fetchFile(ctx, path, ref)
	s.recorder.ObserveFetch(s.backend.name(), time.Since(start), err == nil)
	if err != nil {
		slog.Debug("Content fetch failed", "path", path, "ref", ref, "error", err)
		return nil
	}
	if file == nil {
		return nil
	}

	if useCache {
		s.cache.Set(key, file)
	}
	return file
}

// GetBinaryFile fetches a binary file, or nil when absent or failed.
func (s *Service) GetBinaryFile(ctx context.Context, path, ref string, useCache bool) *BinaryFile {
	key := "binary:" + path + ":" + ref

	if useCache {
		if cached, ok := s.cache.Get(key); ok {
			s.recorder.IncCacheHit("binary")
			return cached.(*BinaryFile)
		}
		s.recorder.IncCacheMiss("binary")
	}

	start := time.Now()
	file, err := s.backend.fetchBinary(ctx, path, ref)
	s.recorder.ObserveFetch(s.backend.name(), time.Since(start), err == nil)
	if err != nil {
		slog.Debug("Binary fetch failed", "path", path, "ref", ref, "error", err)
		return nil
	}
	if file == nil {
		return nil
	}

	if useCache {
		s.cache.Set(key, file)
	}
	return file
}

// ListDirectory returns the lexicographically sorted file paths directly
// under dir, empty when the directory is absent. Listings are cached even
// when empty, matching downstream expectations of a stable iteration order.
func (s *Service) ListDirectory(ctx context.Context, dir, ref string, useCache bool) []string {
	key := "dir:" + dir + ":" + ref

	if useCache {
		if cached, ok := s.cache.Get(key); ok {
			s.recorder.IncCacheHit("dir")
			return cached.([]string)
		}
		s.recorder.IncCacheMiss("dir")
	}

	start := time.Now()
	paths, err := s.backend.listDir(ctx, dir, ref)
	s.recorder.ObserveFetch(s.backend.name(), time.Since(start), err == nil)
	if err != nil {
		slog.Debug("Directory listing failed", "dir", dir, "ref", ref, "error", err)
		return nil
	}

	if useCache {
		s.cache.Set(key, paths)
	}
	return paths
}

// GetConfig fetches and parses the site configuration, trying config.yml
// then config.yaml. Absent files and malformed YAML both yield nil; callers
// substitute content.DefaultConfig.
func (s *Service) GetConfig(ctx context.Context, useCache bool) *content.Config {
	const key = "config"

	if useCache {
		if cached, ok := s.cache.Get(key); ok {
			s.recorder.IncCacheHit("config")
			return cached.(*content.Config)
		}
		s.recorder.IncCacheMiss("config")
	}

	file := s.GetFile(ctx, "config.yml", s.settings.ContentRef, false)
	if file == nil {
		file = s.GetFile(ctx, "config.yaml", s.settings.ContentRef, false)
	}
	if file == nil {
		return nil
	}

	cfg := content.ParseConfig([]byte(file.Content))
	if cfg == nil {
		return nil
	}

	if useCache {
		s.cache.Set(key, cfg)
	}
	return cfg
}

// SiteConfig returns the parsed site configuration, falling back to
// defaults when the repo has none.
func (s *Service) SiteConfig(ctx context.Context) *content.Config {
	if cfg := s.GetConfig(ctx, true); cfg != nil {
		return cfg
	}
	return content.DefaultConfig()
}

// ListDir implements content.Source with the default ref and caching.
func (s *Service) ListDir(ctx context.Context, dir string) []string {
	return s.ListDirectory(ctx, dir, s.settings.ContentRef, true)
}

// ReadFile implements content.Source with the default ref and caching.
func (s *Service) ReadFile(ctx context.Context, path string) (string, bool) {
	file := s.GetFile(ctx, path, s.settings.ContentRef, true)
	if file == nil {
		return "", false
	}
	return file.Content, true
}

// GetBinary fetches a binary file with the default ref and caching.
func (s *Service) GetBinary(ctx context.Context, path string) *BinaryFile {
	return s.GetBinaryFile(ctx, path, s.settings.ContentRef, true)
}

// Refresh lets backends that maintain local state (the git mirror) sync
// before a cache warm. Other backends treat it as a no-op.
func (s *Service) Refresh(ctx context.Context) error {
	if r, ok := s.backend.(interface{ refresh(context.Context) error }); ok {
		return r.refresh(ctx)
	}
	return nil
}
