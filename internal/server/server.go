// Package server wires the HTTP surface: public content routes, the Atom
// feed, static assets, the GitHub webhook, and the admin surface.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/quillhost/quill/internal/cache"
	"github.com/quillhost/quill/internal/config"
	"github.com/quillhost/quill/internal/content"
	"github.com/quillhost/quill/internal/fetch"
	"github.com/quillhost/quill/internal/metrics"
	"github.com/quillhost/quill/internal/store"
	"github.com/quillhost/quill/internal/theme"
)

// Server holds the collaborators every handler needs. The store is optional;
// a nil store disables notes and analytics but never content serving.
type Server struct {
	settings *config.Settings
	cache    *cache.Cache
	fetcher  *fetch.Service
	renderer content.Renderer
	engine   *theme.Engine
	store    *store.Store
	recorder metrics.Recorder
	logger   *slog.Logger

	httpServer *http.Server
}

// New constructs a Server. recorder may be metrics.NoopRecorder{} but not nil.
func New(settings *config.Settings, c *cache.Cache, fetcher *fetch.Service, renderer content.Renderer, engine *theme.Engine, st *store.Store, recorder metrics.Recorder) *Server {
	return &Server{
		settings: settings,
		cache:    c,
		fetcher:  fetcher,
		renderer: renderer,
		engine:   engine,
		store:    st,
		recorder: recorder,
		logger:   slog.Default(),
	}
}

// Router builds the full route table.
func (s *Server) Router() chi.Router {
	r := chi.NewRouter()
	r.Use(requestLogger(s.logger))
	r.Use(recoverer(s.logger))

	r.Get("/healthz", s.handleHealthz)
	if pr, ok := s.recorder.(*metrics.PrometheusRecorder); ok {
		r.Method(http.MethodGet, "/metrics", pr.Handler())
	}

	r.Post("/webhooks/github", s.handleGitHubWebhook)

	r.Route("/admin", func(r chi.Router) {
		r.Use(s.requireAdmin)
		r.Get("/", s.handleAdminDashboard)
		r.Post("/cache/refresh", s.handleAdminRefresh)
		r.Get("/analytics", s.handleAdminAnalytics)
		r.Get("/notes", s.handleAdminListNotes)
		r.Post("/notes", s.handleAdminCreateNote)
		r.Put("/notes/{id}", s.handleAdminUpdateNote)
		r.Delete("/notes/{id}", s.handleAdminDeleteNote)
	})

	r.Get("/", s.handleIndex)
	r.Get("/posts", s.handleIndex)
	r.Get("/posts/{slug}", s.handlePost)
	r.Get("/feed.xml", s.handleFeed)
	r.Get("/pygments.css", s.handlePygmentsCSS)
	r.Get("/static/user/*", s.handleUserStatic)
	r.Get("/static/{theme}/*", s.handleThemeStatic)
	r.Get("/{slug}", s.handlePage)

	return r
}

// Start serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	s.httpServer = &http.Server{
		Addr:         s.settings.Addr,
		Handler:      s.Router(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("HTTP server listening", "addr", s.settings.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return s.httpServer.Shutdown(shutdownCtx)
	}
}

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":     "ok",
		"cache_size": s.cache.Size(),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Warn("write JSON response", "error", err)
	}
}

func writeHTML(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}
