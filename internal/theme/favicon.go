package theme

import (
	"context"
	"strings"
	"sync"
)

// faviconCandidates in order of preference.
var faviconCandidates = []string{
	"static/favicon.ico",
	"static/favicon.png",
	"static/favicon.svg",
}

// FaviconDetector probes the content repository for a favicon once and
// caches the outcome, including the negative one, until reset.
type FaviconDetector struct {
	fetcher Fetcher

	mu      sync.Mutex
	url     string
	checked bool
}

// NewFaviconDetector creates a detector over the given fetcher.
func NewFaviconDetector(fetcher Fetcher) *FaviconDetector {
	return &FaviconDetector{fetcher: fetcher}
}

// Detect returns the URL path of the repo's favicon, or "" when the repo
// has none. The probe runs at most once per reset.
func (d *FaviconDetector) Detect(ctx context.Context) string {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.checked {
		return d.url
	}
	d.checked = true

	for _, candidate := range faviconCandidates {
		if file := d.fetcher.GetBinary(ctx, candidate); file != nil {
			d.url = "/static/user/" + strings.TrimPrefix(candidate, "static/")
			break
		}
	}
	return d.url
}

// Reset discards the cached probe result so the next Detect re-probes.
func (d *FaviconDetector) Reset() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.url = ""
	d.checked = false
}
