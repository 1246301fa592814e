// Package config loads process settings from the environment. Site-level
// configuration lives in the content repository and is handled by
// internal/content; this package only covers what the operator sets on the
// host.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Settings holds the process configuration.
type Settings struct {
	// ContentRepo identifies the content source: "owner/repo" for GitHub,
	// a file:// URI for a local directory, or a git URL (git+https:// or
	// ending in .git) for a maintained local mirror.
	ContentRepo string
	// ContentRef is the git ref used for remote content reads.
	ContentRef string
	// Token is the bearer token for GitHub API access, if any.
	Token string
	// WebhookSecret signs incoming GitHub webhook deliveries.
	WebhookSecret string
	// AdminUsers is the allow-list of logins for the admin surface.
	AdminUsers []string

	CacheTTL      time.Duration
	SweepInterval time.Duration

	ThemesPath string
	MirrorDir  string
	DBPath     string
	Addr       string
	Debug      bool
}

// Load reads settings from the environment, loading envFile first when it
// exists. Existing process variables are never overwritten by the file.
func Load(envFile string) (*Settings, error) {
	if envFile != "" {
		if _, err := os.Stat(envFile); err == nil {
			if err := godotenv.Load(envFile); err != nil {
				return nil, fmt.Errorf("load env file %s: %w", envFile, err)
			}
		}
	}

	s := &Settings{
		ContentRepo:   os.Getenv("QUILL_CONTENT_REPO"),
		ContentRef:    envOr("QUILL_CONTENT_REF", "main"),
		Token:         os.Getenv("QUILL_TOKEN"),
		WebhookSecret: os.Getenv("QUILL_WEBHOOK_SECRET"),
		AdminUsers:    splitCSV(os.Getenv("QUILL_ADMIN_USERS")),
		CacheTTL:      envDuration("QUILL_CACHE_TTL", 5*time.Minute),
		SweepInterval: envDuration("QUILL_SWEEP_INTERVAL", 10*time.Minute),
		ThemesPath:    envOr("QUILL_THEMES_PATH", "./themes"),
		MirrorDir:     envOr("QUILL_MIRROR_DIR", "./data/mirror"),
		DBPath:        envOr("QUILL_DB_PATH", "./data/quill.db"),
		Addr:          envOr("QUILL_ADDR", ":8080"),
		Debug:         envBool("QUILL_DEBUG"),
	}

	// Debug mode disables caching so content edits show up immediately.
	if s.Debug {
		s.CacheTTL = 0
	}

	if s.ContentRepo == "" {
		return nil, fmt.Errorf("QUILL_CONTENT_REPO is required")
	}

	return s, nil
}

// IsLocalContent reports whether content is read from the local filesystem.
func (s *Settings) IsLocalContent() bool {
	return strings.HasPrefix(s.ContentRepo, "file://")
}

// IsGitContent reports whether content is served from a maintained git
// mirror instead of the GitHub API.
func (s *Settings) IsGitContent() bool {
	return strings.HasPrefix(s.ContentRepo, "git+") || strings.HasSuffix(s.ContentRepo, ".git")
}

// LocalPath returns the filesystem path of a file:// content repo.
func (s *Settings) LocalPath() string {
	return strings.TrimPrefix(s.ContentRepo, "file://")
}

// GitURL returns the clone URL of a git content repo.
func (s *Settings) GitURL() string {
	return strings.TrimPrefix(s.ContentRepo, "git+")
}

// IsAdmin reports whether login is on the admin allow-list.
func (s *Settings) IsAdmin(login string) bool {
	for _, u := range s.AdminUsers {
		if u == login {
			return true
		}
	}
	return false
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envBool(key string) bool {
	v, err := strconv.ParseBool(os.Getenv(key))
	return err == nil && v
}

// envDuration reads a duration that may be given either as a Go duration
// string ("5m") or as plain seconds ("300").
func envDuration(key string, fallback time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	if secs, err := strconv.Atoi(raw); err == nil {
		return time.Duration(secs) * time.Second
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	return fallback
}

func splitCSV(raw string) []string {
	if raw == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
