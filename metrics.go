package blog

import (
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dkmqflx/blog/content"
	"github.com/dkmqflx/blog/routes"
	"github.com/dkmqflx/blog/sitemap"
)

// pipelineMetrics are registered on a per-App registry so several Apps
// (tests, build + serve) never collide.
type pipelineMetrics struct {
	registry       *prometheus.Registry
	loads          *prometheus.CounterVec
	loadDuration   prometheus.Histogram
	posts          prometheus.Gauge
	sitemapEntries prometheus.Gauge
	mismatches     *prometheus.GaugeVec
}

func newPipelineMetrics() *pipelineMetrics {
	m := &pipelineMetrics{
		registry: prometheus.NewRegistry(),
		loads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "blog",
			Name:      "post_loads_total",
			Help:      "Post store loads by result.",
		}, []string{"result"}),
		loadDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "blog",
			Name:      "post_load_duration_seconds",
			Help:      "Time spent reading and ordering the post store.",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 4, 8),
		}),
		posts: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "blog",
			Name:      "posts",
			Help:      "Number of posts in the last successful load.",
		}),
		sitemapEntries: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "blog",
			Name:      "sitemap_entries",
			Help:      "Number of <url> entries in the last generated sitemap.",
		}),
		mismatches: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "blog",
			Name:      "route_mismatches",
			Help:      "Folders without posts (orphan) and posts without folders (missing) at the last check.",
		}, []string{"kind"}),
	}
	m.registry.MustRegister(m.loads, m.loadDuration, m.posts, m.sitemapEntries, m.mismatches)
	return m
}

func (m *pipelineMetrics) handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *pipelineMetrics) observeLoad(d time.Duration, n int, err error) {
	m.loadDuration.Observe(d.Seconds())
	m.loads.WithLabelValues(loadResult(err)).Inc()
	if err == nil {
		m.posts.Set(float64(n))
	}
}

func (m *pipelineMetrics) observeSitemap(doc sitemap.Document) {
	m.sitemapEntries.Set(float64(len(doc.Entries)))
	m.observeMismatch(doc.Mismatch)
}

func (m *pipelineMetrics) observeMismatch(mm routes.Mismatch) {
	m.mismatches.WithLabelValues("orphan").Set(float64(len(mm.Orphans)))
	m.mismatches.WithLabelValues("missing").Set(float64(len(mm.Missing)))
}

func loadResult(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, content.ErrNotFound):
		return "not_found"
	case errors.Is(err, content.ErrParse):
		return "parse_error"
	default:
		return "error"
	}
}
