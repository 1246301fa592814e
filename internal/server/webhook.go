package server

import (
	"context"
	"crypto/hmac"
	"crypto/sha1"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/quillhost/quill/internal/content"
)

// maxWebhookBody bounds incoming webhook payloads.
const maxWebhookBody = 1 << 20

// ValidateSignature checks a GitHub webhook signature against the shared
// secret. The sha256= form is preferred; sha1= is accepted for legacy hook
// configurations.
func ValidateSignature(payload []byte, signature, secret string) bool {
	if signature == "" || secret == "" {
		return false
	}

	if strings.HasPrefix(signature, "sha256=") {
		expected := signature[len("sha256="):]
		mac := hmac.New(sha256.New, []byte(secret))
		mac.Write(payload)
		calc := hex.EncodeToString(mac.Sum(nil))
		return hmac.Equal([]byte(expected), []byte(calc))
	}

	if strings.HasPrefix(signature, "sha1=") {
		expected := signature[len("sha1="):]
		mac := hmac.New(sha1.New, []byte(secret))
		mac.Write(payload)
		calc := hex.EncodeToString(mac.Sum(nil))
		return hmac.Equal([]byte(expected), []byte(calc))
	}

	return false
}

type pushEvent struct {
	Ref        string `json:"ref"`
	After      string `json:"after"`
	Repository struct {
		FullName string `json:"full_name"`
	} `json:"repository"`
}

func (s *Server) handleGitHubWebhook(w http.ResponseWriter, r *http.Request) {
	if s.settings.WebhookSecret == "" {
		s.logger.Error("webhook received but no secret configured")
		s.recorder.IncWebhook("unconfigured")
		http.Error(w, "webhook secret not configured", http.StatusInternalServerError)
		return
	}

	payload, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBody))
	if err != nil {
		s.recorder.IncWebhook("bad_payload")
		http.Error(w, "unreadable payload", http.StatusBadRequest)
		return
	}

	signature := r.Header.Get("X-Hub-Signature-256")
	if signature == "" {
		signature = r.Header.Get("X-Hub-Signature")
	}
	if !ValidateSignature(payload, signature, s.settings.WebhookSecret) {
		s.logger.Warn("webhook signature rejected", "remote_addr", r.RemoteAddr)
		s.recorder.IncWebhook("invalid_signature")
		http.Error(w, "invalid signature", http.StatusUnauthorized)
		return
	}

	event := r.Header.Get("X-GitHub-Event")
	switch event {
	case "ping":
		s.recorder.IncWebhook("ping")
		writeJSON(w, http.StatusOK, map[string]string{"status": "pong"})
		return
	case "push":
	default:
		s.recorder.IncWebhook("ignored")
		writeJSON(w, http.StatusOK, map[string]string{"status": "ignored", "event": event})
		return
	}

	var push pushEvent
	if err := json.Unmarshal(payload, &push); err != nil {
		s.recorder.IncWebhook("bad_payload")
		http.Error(w, "invalid push payload", http.StatusBadRequest)
		return
	}

	result := s.refresh(r.Context())
	s.recorder.IncWebhook("refreshed")
	s.logger.Info("webhook refresh complete",
		"refresh_id", result.ID,
		"ref", push.Ref,
		"repository", push.Repository.FullName,
		"cleared", result.Cleared,
		"posts", result.Posts,
		"pages", result.Pages)

	writeJSON(w, http.StatusOK, result)
}

// RefreshResult reports one cache refresh cycle.
type RefreshResult struct {
	ID        string        `json:"refresh_id"`
	Cleared   int           `json:"cleared"`
	Posts     int           `json:"posts"`
	Pages     int           `json:"pages"`
	Templates int           `json:"templates"`
	Duration  time.Duration `json:"duration_ns"`
}

// refresh drops all cached state and warms it back up: site config first,
// then post and page listings so nested file fetches land in a clean cache,
// then custom template overrides.
func (s *Server) refresh(ctx context.Context) RefreshResult {
	start := time.Now()
	result := RefreshResult{ID: uuid.NewString()}

	result.Cleared = s.cache.Clear()
	s.engine.Reset()

	if err := s.fetcher.Refresh(ctx); err != nil {
		s.logger.Warn("content refresh", "refresh_id", result.ID, "error", err)
	}

	s.fetcher.GetConfig(ctx, true)
	result.Posts = len(content.AllPosts(ctx, s.fetcher, s.renderer, false))
	result.Pages = len(content.AllPages(ctx, s.fetcher, s.renderer))
	result.Templates = s.engine.LoadCustomTemplates(ctx)

	result.Duration = time.Since(start)
	return result
}
