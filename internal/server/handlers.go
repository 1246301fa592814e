package server

import (
	"context"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/quillhost/quill/internal/content"
	"github.com/quillhost/quill/internal/feed"
	"github.com/quillhost/quill/internal/markdown"
	"github.com/quillhost/quill/internal/store"
	"github.com/quillhost/quill/internal/theme"
)

func (s *Server) allPosts(ctx context.Context) []content.Post {
	return content.AllPosts(ctx, s.fetcher, s.renderer, false)
}

func (s *Server) allPages(ctx context.Context) []content.Page {
	return content.AllPages(ctx, s.fetcher, s.renderer)
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	cfg := s.fetcher.SiteConfig(ctx)

	page := 1
	if raw := r.URL.Query().Get("page"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			page = n
		}
	}

	posts := s.allPosts(ctx)
	featured := content.FeaturedPosts(posts, cfg)
	pagePosts, pagination := content.Paginate(posts, page, cfg.Posts.PerPage)

	html, err := s.engine.RenderIndex(ctx, cfg, pagePosts, pagination, featured, "")
	if err != nil {
		s.logger.Error("render index", "error", err)
		s.renderNotFound(w, r)
		return
	}

	s.recordView(r, "/")
	writeHTML(w, http.StatusOK, html)
}

func (s *Server) handlePost(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	slug := chi.URLParam(r, "slug")
	cfg := s.fetcher.SiteConfig(ctx)

	var post *content.Post
	for _, p := range s.allPosts(ctx) {
		if p.Slug == slug {
			post = &p
			break
		}
	}
	if post == nil {
		s.renderNotFound(w, r)
		return
	}

	featured := content.FeaturedPosts(s.allPosts(ctx), cfg)
	html, err := s.engine.RenderPost(ctx, cfg, *post, featured, s.publicNotes(ctx, post.URL()), "")
	if err != nil {
		s.logger.Error("render post", "slug", slug, "error", err)
		s.renderNotFound(w, r)
		return
	}

	s.recordView(r, post.URL())
	writeHTML(w, http.StatusOK, html)
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	slug := chi.URLParam(r, "slug")
	cfg := s.fetcher.SiteConfig(ctx)

	var page *content.Page
	for _, p := range s.allPages(ctx) {
		if p.Slug == slug {
			page = &p
			break
		}
	}
	if page == nil || page.Visibility == content.VisibilityHidden {
		s.renderNotFound(w, r)
		return
	}

	featured := content.FeaturedPosts(s.allPosts(ctx), cfg)
	html, err := s.engine.RenderPage(ctx, cfg, *page, featured, s.publicNotes(ctx, page.URL()), "")
	if err != nil {
		s.logger.Error("render page", "slug", slug, "error", err)
		s.renderNotFound(w, r)
		return
	}

	s.recordView(r, page.URL())
	writeHTML(w, http.StatusOK, html)
}

func (s *Server) handleFeed(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if v, ok := s.cache.Get(feed.CacheKey); ok {
		if xml, ok := v.(string); ok {
			w.Header().Set("Content-Type", feed.ContentType)
			_, _ = w.Write([]byte(xml))
			return
		}
	}

	cfg := s.fetcher.SiteConfig(ctx)
	xml, err := feed.BuildAtom(cfg, s.allPosts(ctx), time.Now())
	if err != nil {
		s.logger.Error("build feed", "error", err)
		http.Error(w, "feed unavailable", http.StatusInternalServerError)
		return
	}
	s.cache.Set(feed.CacheKey, xml)

	w.Header().Set("Content-Type", feed.ContentType)
	_, _ = w.Write([]byte(xml))
}

func (s *Server) handlePygmentsCSS(w http.ResponseWriter, r *http.Request) {
	cfg := s.fetcher.SiteConfig(r.Context())
	style := cfg.Theme.PygmentsStyle

	key := "pygments:" + style
	if v, ok := s.cache.Get(key); ok {
		if css, ok := v.(string); ok {
			w.Header().Set("Content-Type", "text/css; charset=utf-8")
			_, _ = w.Write([]byte(css))
			return
		}
	}

	css, err := markdown.PygmentsCSS(style)
	if err != nil {
		s.logger.Error("generate pygments stylesheet", "style", style, "error", err)
		http.Error(w, "stylesheet unavailable", http.StatusInternalServerError)
		return
	}
	s.cache.Set(key, css)

	w.Header().Set("Content-Type", "text/css; charset=utf-8")
	_, _ = w.Write([]byte(css))
}

// handleUserStatic serves binary assets from the content repository's
// static/ directory.
func (s *Server) handleUserStatic(w http.ResponseWriter, r *http.Request) {
	rest := chi.URLParam(r, "*")
	if rest == "" || strings.Contains(rest, "..") {
		http.NotFound(w, r)
		return
	}

	bf := s.fetcher.GetBinary(r.Context(), "static/"+rest)
	if bf == nil {
		http.NotFound(w, r)
		return
	}

	w.Header().Set("Content-Type", bf.ContentType)
	w.Header().Set("Cache-Control", "public, max-age=3600")
	_, _ = w.Write(bf.Content)
}

// handleThemeStatic serves bundled theme assets from disk.
func (s *Server) handleThemeStatic(w http.ResponseWriter, r *http.Request) {
	themeName := chi.URLParam(r, "theme")
	rest := chi.URLParam(r, "*")
	if !theme.ValidName(themeName) || rest == "" {
		http.NotFound(w, r)
		return
	}

	base := filepath.Join(s.settings.ThemesPath, themeName, "static")
	full := filepath.Join(base, filepath.FromSlash(rest))
	if rel, err := filepath.Rel(base, full); err != nil || strings.HasPrefix(rel, "..") {
		http.NotFound(w, r)
		return
	}
	if info, err := os.Stat(full); err != nil || info.IsDir() {
		http.NotFound(w, r)
		return
	}

	http.ServeFile(w, r, full)
}

func (s *Server) renderNotFound(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	cfg := s.fetcher.SiteConfig(ctx)
	writeHTML(w, http.StatusNotFound, s.engine.Render404(ctx, cfg, ""))
}

// publicNotes returns public notes for a content URL, or nil when the store
// is absent or failing. Note failures never affect rendering.
func (s *Server) publicNotes(ctx context.Context, url string) []store.Note {
	if s.store == nil {
		return nil
	}
	notes, err := s.store.NotesForPath(ctx, url, true)
	if err != nil {
		s.logger.Warn("load notes", "path", url, "error", err)
		return nil
	}
	return notes
}

// recordView stores a page view without blocking the response.
func (s *Server) recordView(r *http.Request, path string) {
	if s.store == nil {
		return
	}

	host := r.RemoteAddr
	if h, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		host = h
	}
	ipHash := store.HashIP(host)
	referrer := r.Referer()
	userAgent := r.UserAgent()

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.store.RecordPageView(ctx, path, ipHash, referrer, userAgent); err != nil {
			s.logger.Warn("record page view", "path", path, "error", err)
		}
	}()
}
