// Package metrics defines the observability hooks for the content pipeline.
package metrics

import "time"

// Recorder receives pipeline events. Implementations may forward to
// Prometheus; the NoopRecorder is used when metrics are not configured.
type Recorder interface {
	IncCacheHit(kind string)
	IncCacheMiss(kind string)
	ObserveFetch(backend string, d time.Duration, success bool)
	IncRender(template string)
	IncWebhook(outcome string)
}

// NoopRecorder is a Recorder that does nothing.
type NoopRecorder struct{}

func (NoopRecorder) IncCacheHit(string)                        {}
func (NoopRecorder) IncCacheMiss(string)                       {}
func (NoopRecorder) ObserveFetch(string, time.Duration, bool)  {}
func (NoopRecorder) IncRender(string)                          {}
func (NoopRecorder) IncWebhook(string)                         {}
