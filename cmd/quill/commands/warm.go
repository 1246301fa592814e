package commands

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/quillhost/quill/internal/content"
	"github.com/quillhost/quill/internal/metrics"
)

// WarmCmd implements the 'warm' command: fill the cache once and report what
// was loaded. Useful as a config smoke test and before cutting traffic over.
type WarmCmd struct {
	Timeout time.Duration `help:"Abort warming after this long" default:"60s"`
}

func (w *WarmCmd) Run(_ *Global, root *CLI) error {
	st, err := buildStack(root.EnvFile, metrics.NoopRecorder{}, false)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), w.Timeout)
	defer cancel()

	start := time.Now()
	cfg := st.fetcher.SiteConfig(ctx)
	posts := content.AllPosts(ctx, st.fetcher, st.renderer, false)
	pages := content.AllPages(ctx, st.fetcher, st.renderer)
	templates := st.engine.LoadCustomTemplates(ctx)

	slog.Info("Cache warmed",
		"site", cfg.Site.Title,
		"posts", len(posts),
		"pages", len(pages),
		"custom_templates", templates,
		"cache_entries", st.cache.Size(),
		"duration", time.Since(start))

	if len(posts) == 0 && len(pages) == 0 {
		return fmt.Errorf("no content found in %s", st.settings.ContentRepo)
	}
	return nil
}
