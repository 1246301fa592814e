package theme

import (
	"bytes"
	"context"
	"errors"
	"html/template"
	"log/slog"
	"sort"
	"strings"
	"sync"

	"github.com/quillhost/quill/internal/content"
	"github.com/quillhost/quill/internal/fetch"
	"github.com/quillhost/quill/internal/metrics"
)

// notFoundFallback is served when no 404 template exists at any tier, so
// the server always has some 404 response.
const notFoundFallback = "<h1>404 - Page Not Found</h1>"

// Fetcher is the slice of the content fetcher the theme engine needs.
type Fetcher interface {
	content.Source
	GetBinary(ctx context.Context, path string) *fetch.BinaryFile
}

// Engine renders templates with theme support. Theme selection is an
// explicit per-render parameter threaded down to template lookup, so one
// engine instance can serve different themes to concurrent requests.
type Engine struct {
	fetcher  Fetcher
	renderer content.Renderer
	loader   *Loader
	favicon  *FaviconDetector
	recorder metrics.Recorder

	mu       sync.Mutex
	compiled map[string]*template.Template
}

// NewEngine constructs an engine over the bundled themes directory.
func NewEngine(fetcher Fetcher, renderer content.Renderer, themesPath string, recorder metrics.Recorder) *Engine {
	if recorder == nil {
		recorder = metrics.NoopRecorder{}
	}
	return &Engine{
		fetcher:  fetcher,
		renderer: renderer,
		loader:   NewLoader(themesPath),
		favicon:  NewFaviconDetector(fetcher),
		recorder: recorder,
		compiled: map[string]*template.Template{},
	}
}

// LoadCustomTemplates pulls template overrides from the content repo's
// theme/ directory into the loader and returns how many were loaded.
func (e *Engine) LoadCustomTemplates(ctx context.Context) int {
	count := 0
	for _, path := range e.fetcher.ListDir(ctx, "theme") {
		if !strings.HasSuffix(path, ".html") {
			continue
		}
		source, ok := e.fetcher.ReadFile(ctx, path)
		if !ok {
			continue
		}

		name := path
		if idx := strings.LastIndex(name, "/"); idx >= 0 {
			name = name[idx+1:]
		}
		e.loader.SetCustom(name, source)
		count++
	}

	if count > 0 {
		// Recompile anything that may now be shadowed by an override.
		e.mu.Lock()
		e.compiled = map[string]*template.Template{}
		e.mu.Unlock()
	}

	slog.Debug("Loaded custom templates", "count", count)
	return count
}

// Reset discards the compiled template cache, the custom overrides, and
// the favicon probe result. The next render rebuilds everything.
func (e *Engine) Reset() {
	e.mu.Lock()
	e.compiled = map[string]*template.Template{}
	e.mu.Unlock()

	e.loader.ClearCustom()
	e.favicon.Reset()
}

// ResolveTheme picks the active theme for a render: explicit override,
// then the config default.
func ResolveTheme(override string, cfg *content.Config) string {
	if override != "" {
		return override
	}
	if cfg.Theme.Name != "" {
		return cfg.Theme.Name
	}
	return DefaultTheme
}

// Render renders the named template under the resolved theme with the base
// site context plus data.
func (e *Engine) Render(ctx context.Context, name string, cfg *content.Config, themeOverride string, data map[string]any) (string, error) {
	themeName := ResolveTheme(themeOverride, cfg)

	tmpl, err := e.template(themeName, name)
	if err != nil {
		return "", err
	}

	faviconURL := cfg.Site.Favicon
	if faviconURL == "" {
		faviconURL = e.favicon.Detect(ctx)
	}

	full := map[string]any{
		"Site":           cfg.Site,
		"Theme":          cfg.Theme,
		"ThemeName":      themeName,
		"FaviconURL":     faviconURL,
		"PygmentsCSSURL": PygmentsCSSURL(themeName, cfg),
		"FeaturedPosts":  []content.Post{},
	}
	if _, ok := data["NavPages"]; !ok && name != "admin.html" {
		full["NavPages"] = e.NavPages(ctx, cfg)
	}
	for key, value := range data {
		full[key] = value
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, full); err != nil {
		return "", err
	}
	e.recorder.IncRender(name)
	return buf.String(), nil
}

// template returns the compiled template for (theme, name), compiling and
// caching on first use.
func (e *Engine) template(themeName, name string) (*template.Template, error) {
	key := themeName + "/" + name

	e.mu.Lock()
	tmpl, ok := e.compiled[key]
	e.mu.Unlock()
	if ok {
		return tmpl, nil
	}

	source, err := e.loader.Source(themeName, name)
	if err != nil {
		return nil, err
	}

	tmpl, err = template.New(name).Funcs(funcMap()).Parse(source)
	if err != nil {
		return nil, err
	}

	e.mu.Lock()
	e.compiled[key] = tmpl
	e.mu.Unlock()
	return tmpl, nil
}

// NavPages returns the publicly visible pages for the navbar, sorted by
// nav_order ascending with unordered pages last, then by title, truncated
// to the configured maximum.
func (e *Engine) NavPages(ctx context.Context, cfg *content.Config) []content.Page {
	var pages []content.Page
	for _, page := range content.AllPages(ctx, e.fetcher, e.renderer) {
		if page.Visibility == content.VisibilityPublic {
			pages = append(pages, page)
		}
	}

	sort.SliceStable(pages, func(i, j int) bool {
		a, b := pages[i], pages[j]
		switch {
		case a.NavOrder != nil && b.NavOrder != nil:
			if *a.NavOrder != *b.NavOrder {
				return *a.NavOrder < *b.NavOrder
			}
		case a.NavOrder != nil:
			return true
		case b.NavOrder != nil:
			return false
		}
		return a.Title < b.Title
	})

	if max := cfg.Theme.NavMaxPages; max > 0 && len(pages) > max {
		pages = pages[:max]
	}
	return pages
}

// CanonicalURL builds an absolute canonical URL from the configured site
// base URL, or "" when none is configured so templates can skip the tag.
func CanonicalURL(cfg *content.Config, path string) string {
	base := strings.TrimRight(cfg.Site.URL, "/")
	if base == "" {
		return ""
	}
	return base + path
}

// RenderIndex renders the paginated post listing.
func (e *Engine) RenderIndex(ctx context.Context, cfg *content.Config, posts []content.Post, pagination content.Pagination, featured []content.Post, themeOverride string) (string, error) {
	return e.Render(ctx, "index.html", cfg, themeOverride, map[string]any{
		"Posts":         posts,
		"Pagination":    pagination,
		"FeaturedPosts": featured,
		"CanonicalURL":  CanonicalURL(cfg, "/posts"),
	})
}

// RenderPost renders a single post, honoring its template and theme
// overrides.
func (e *Engine) RenderPost(ctx context.Context, cfg *content.Config, post content.Post, featured []content.Post, notes any, themeOverride string) (string, error) {
	name := post.Template
	if name == "" {
		name = "post.html"
	}
	if post.Theme != "" {
		themeOverride = post.Theme
	}
	return e.Render(ctx, name, cfg, themeOverride, map[string]any{
		"Post":          post,
		"FeaturedPosts": featured,
		"Notes":         notes,
		"CanonicalURL":  CanonicalURL(cfg, post.URL()),
	})
}

// RenderPage renders a static page, honoring its template and theme
// overrides.
func (e *Engine) RenderPage(ctx context.Context, cfg *content.Config, page content.Page, featured []content.Post, notes any, themeOverride string) (string, error) {
	name := page.Template
	if name == "" {
		name = "page.html"
	}
	if page.Theme != "" {
		themeOverride = page.Theme
	}
	return e.Render(ctx, name, cfg, themeOverride, map[string]any{
		"Page":          page,
		"FeaturedPosts": featured,
		"Notes":         notes,
		"CanonicalURL":  CanonicalURL(cfg, page.URL()),
	})
}

// Render404 renders the 404 page, substituting a minimal built-in fallback
// when no 404 template exists at any tier.
func (e *Engine) Render404(ctx context.Context, cfg *content.Config, themeOverride string) string {
	out, err := e.Render(ctx, "404.html", cfg, themeOverride, nil)
	if err != nil {
		if !errors.Is(err, ErrTemplateNotFound) {
			slog.Warn("404 template failed to render", "error", err)
		}
		return notFoundFallback
	}
	return out
}

// RenderAdmin renders the admin dashboard.
func (e *Engine) RenderAdmin(ctx context.Context, cfg *content.Config, data map[string]any) (string, error) {
	return e.Render(ctx, "admin.html", cfg, "", data)
}
