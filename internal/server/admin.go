package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/quillhost/quill/internal/store"
)

// authLoginHeader carries the authenticated login established by the
// reverse proxy in front of this process. The process itself performs no
// authentication, only allow-list checks.
const authLoginHeader = "X-Auth-Login"

// requireAdmin rejects requests whose login is not on the admin allow-list.
// An empty allow-list denies everyone.
func (s *Server) requireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		login := r.Header.Get(authLoginHeader)
		if login == "" || !s.settings.IsAdmin(login) {
			s.logger.Warn("admin access denied", "login", login, "path", r.URL.Path)
			writeJSON(w, http.StatusForbidden, map[string]string{"error": "forbidden"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleAdminDashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	cfg := s.fetcher.SiteConfig(ctx)

	data := map[string]any{
		"Login":     r.Header.Get(authLoginHeader),
		"CacheSize": s.cache.Size(),
	}
	if s.store != nil {
		if summary, err := s.store.AnalyticsSummary(ctx, 30); err == nil {
			data["Analytics"] = summary
		} else {
			s.logger.Warn("analytics summary", "error", err)
		}
		if notes, err := s.store.AllNotes(ctx); err == nil {
			data["Notes"] = notes
		} else {
			s.logger.Warn("load notes", "error", err)
		}
	}

	html, err := s.engine.RenderAdmin(ctx, cfg, data)
	if err != nil {
		s.logger.Error("render admin dashboard", "error", err)
		http.Error(w, "dashboard unavailable", http.StatusInternalServerError)
		return
	}
	writeHTML(w, http.StatusOK, html)
}

func (s *Server) handleAdminRefresh(w http.ResponseWriter, r *http.Request) {
	result := s.refresh(r.Context())
	s.logger.Info("admin cache refresh",
		"refresh_id", result.ID,
		"login", r.Header.Get(authLoginHeader),
		"cleared", result.Cleared)
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleAdminAnalytics(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "store disabled"})
		return
	}

	days := 30
	if raw := r.URL.Query().Get("days"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			days = n
		}
	}

	summary, err := s.store.AnalyticsSummary(r.Context(), days)
	if err != nil {
		s.logger.Error("analytics summary", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "analytics unavailable"})
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

type noteRequest struct {
	Path   string `json:"path"`
	Text   string `json:"text"`
	Public bool   `json:"public"`
}

func (s *Server) handleAdminListNotes(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "store disabled"})
		return
	}

	var (
		notes []store.Note
		err   error
	)
	if path := r.URL.Query().Get("path"); path != "" {
		notes, err = s.store.NotesForPath(r.Context(), path, false)
	} else {
		notes, err = s.store.AllNotes(r.Context())
	}
	if err != nil {
		s.logger.Error("list notes", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "notes unavailable"})
		return
	}
	writeJSON(w, http.StatusOK, notes)
}

func (s *Server) handleAdminCreateNote(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "store disabled"})
		return
	}

	var req noteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Path == "" || req.Text == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "path and text required"})
		return
	}

	note, err := s.store.CreateNote(r.Context(), req.Path, req.Text, r.Header.Get(authLoginHeader), req.Public)
	if err != nil {
		s.logger.Error("create note", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "note not created"})
		return
	}
	writeJSON(w, http.StatusCreated, note)
}

func (s *Server) handleAdminUpdateNote(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "store disabled"})
		return
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid note id"})
		return
	}

	var req noteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Text == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "text required"})
		return
	}

	switch err := s.store.UpdateNote(r.Context(), id, req.Text, req.Public); {
	case errors.Is(err, store.ErrNoteNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "note not found"})
	case err != nil:
		s.logger.Error("update note", "id", id, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "note not updated"})
	default:
		writeJSON(w, http.StatusOK, map[string]string{"status": "updated"})
	}
}

func (s *Server) handleAdminDeleteNote(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "store disabled"})
		return
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid note id"})
		return
	}

	switch err := s.store.DeleteNote(r.Context(), id); {
	case errors.Is(err, store.ErrNoteNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "note not found"})
	case err != nil:
		s.logger.Error("delete note", "id", id, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "note not deleted"})
	default:
		writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
	}
}
