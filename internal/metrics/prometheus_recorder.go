package metrics

import (
	"net/http"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	registry      *prom.Registry
	cacheHits     *prom.CounterVec
	cacheMisses   *prom.CounterVec
	fetchDuration *prom.HistogramVec
	renders       *prom.CounterVec
	webhooks      *prom.CounterVec
}

// NewPrometheusRecorder constructs and registers the pipeline metrics.
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}

	pr := &PrometheusRecorder{registry: reg}
	pr.cacheHits = prom.NewCounterVec(prom.CounterOpts{
		Namespace: "quill",
		Name:      "cache_hits_total",
		Help:      "Cache hits by entry kind",
	}, []string{"kind"})
	pr.cacheMisses = prom.NewCounterVec(prom.CounterOpts{
		Namespace: "quill",
		Name:      "cache_misses_total",
		Help:      "Cache misses by entry kind",
	}, []string{"kind"})
	pr.fetchDuration = prom.NewHistogramVec(prom.HistogramOpts{
		Namespace: "quill",
		Name:      "fetch_duration_seconds",
		Help:      "Duration of content backend fetches",
		Buckets:   prom.DefBuckets,
	}, []string{"backend", "result"})
	pr.renders = prom.NewCounterVec(prom.CounterOpts{
		Namespace: "quill",
		Name:      "renders_total",
		Help:      "Template renders by template name",
	}, []string{"template"})
	pr.webhooks = prom.NewCounterVec(prom.CounterOpts{
		Namespace: "quill",
		Name:      "webhook_deliveries_total",
		Help:      "Webhook deliveries by outcome",
	}, []string{"outcome"})

	reg.MustRegister(pr.cacheHits, pr.cacheMisses, pr.fetchDuration, pr.renders, pr.webhooks)
	return pr
}

// Handler returns the /metrics HTTP handler for the recorder's registry.
func (pr *PrometheusRecorder) Handler() http.Handler {
	return promhttp.HandlerFor(pr.registry, promhttp.HandlerOpts{})
}

func (pr *PrometheusRecorder) IncCacheHit(kind string)  { pr.cacheHits.WithLabelValues(kind).Inc() }
func (pr *PrometheusRecorder) IncCacheMiss(kind string) { pr.cacheMisses.WithLabelValues(kind).Inc() }

func (pr *PrometheusRecorder) ObserveFetch(backend string, d time.Duration, success bool) {
	result := "success"
	if !success {
		result = "failure"
	}
	pr.fetchDuration.WithLabelValues(backend, result).Observe(d.Seconds())
}

func (pr *PrometheusRecorder) IncRender(template string) {
	pr.renders.WithLabelValues(template).Inc()
}

func (pr *PrometheusRecorder) IncWebhook(outcome string) {
	pr.webhooks.WithLabelValues(outcome).Inc()
}
