// Package commands defines the quill CLI.
package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"github.com/quillhost/quill/internal/cache"
	"github.com/quillhost/quill/internal/config"
	"github.com/quillhost/quill/internal/fetch"
	"github.com/quillhost/quill/internal/markdown"
	"github.com/quillhost/quill/internal/metrics"
	"github.com/quillhost/quill/internal/store"
	"github.com/quillhost/quill/internal/theme"
	"github.com/quillhost/quill/internal/version"
)

// Global context passed to subcommands if we need to share state later.
type Global struct {
	Logger *slog.Logger
}

// CLI definition and global flags.
type CLI struct {
	EnvFile string           `short:"c" help:"Environment file path" default:".env"`
	Verbose bool             `short:"v" help:"Enable verbose logging"`
	Version kong.VersionFlag `name:"version" help:"Show version and exit"`

	Serve      ServeCmd   `cmd:"" help:"Serve the blog over HTTP"`
	Warm       WarmCmd    `cmd:"" help:"Warm the content cache and exit"`
	VersionCmd VersionCmd `cmd:"" name:"version" help:"Show version and exit"`
}

// VersionCmd implements the 'version' command.
type VersionCmd struct{}

func (v *VersionCmd) Run(_ *Global, _ *CLI) error {
	fmt.Printf("quill %s (built %s, commit %s)\n", version.Version, version.BuildTime, version.GitCommit)
	return nil
}

// AfterApply runs after flag parsing; sets up logging once.
func (c *CLI) AfterApply() error {
	level := slog.LevelInfo
	if c.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return nil
}

// stack holds the wired serving collaborators shared by serve and warm.
type stack struct {
	settings *config.Settings
	cache    *cache.Cache
	fetcher  *fetch.Service
	renderer *markdown.Engine
	engine   *theme.Engine
	store    *store.Store
	recorder metrics.Recorder
}

// buildStack wires the content pipeline from process settings. The store is
// opened when a DB path is configured and withStore is set; a store open
// failure is fatal since it means a misconfigured data directory.
func buildStack(envFile string, recorder metrics.Recorder, withStore bool) (*stack, error) {
	settings, err := config.Load(envFile)
	if err != nil {
		return nil, fmt.Errorf("load settings: %w", err)
	}

	c := cache.New(settings.CacheTTL)
	fetcher, err := fetch.New(settings, c, recorder)
	if err != nil {
		return nil, fmt.Errorf("create fetcher: %w", err)
	}

	// The highlight style comes from the site config in the content repo;
	// a style change needs a restart to take effect on rendered HTML.
	style := fetcher.SiteConfig(context.Background()).Theme.PygmentsStyle
	renderer := markdown.New(style)
	engine := theme.NewEngine(fetcher, renderer, settings.ThemesPath, recorder)

	s := &stack{
		settings: settings,
		cache:    c,
		fetcher:  fetcher,
		renderer: renderer,
		engine:   engine,
		recorder: recorder,
	}

	if withStore && settings.DBPath != "" {
		st, err := store.Open(settings.DBPath)
		if err != nil {
			return nil, fmt.Errorf("open store: %w", err)
		}
		s.store = st
	}

	return s, nil
}
