// Package metrics holds the Prometheus collectors shared by the gateway,
// prerender and sitemap binaries.
package metrics

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Gateway decisions.
const (
	DecisionAsset       = "asset"
	DecisionHuman       = "human"
	DecisionPrerendered = "prerendered"
	DecisionFallback    = "fallback"
)

type Metrics struct {
	GatewayDecisions    *prometheus.CounterVec
	GatewayUpstreamTime prometheus.Histogram
	PrerenderResponses  *prometheus.CounterVec
	PrerenderDuration   *prometheus.HistogramVec
	RenderCacheLookups  *prometheus.CounterVec
	SitemapGenerations  *prometheus.CounterVec
	SitemapURLs         prometheus.Gauge
	registry            prometheus.Gatherer
}

// New registers every collector on reg. Pass prometheus.NewRegistry() in tests.
func New(reg *prometheus.Registry) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		GatewayDecisions: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gateway_requests_total",
				Help: "Requests seen by the bot gateway, labeled by decision and bot class.",
			},
			[]string{"decision", "class"},
		),
		GatewayUpstreamTime: f.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "gateway_prerender_duration_seconds",
				Help:    "Latency of calls from the gateway to the prerender service.",
				Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 4, 8},
			},
		),
		PrerenderResponses: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "prerender_responses_total",
				Help: "Prerendered documents, labeled by route and status code.",
			},
			[]string{"route", "code"},
		),
		PrerenderDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "prerender_duration_seconds",
				Help:    "Time spent resolving and rendering a document, labeled by route.",
				Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2, 5},
			},
			[]string{"route"},
		),
		RenderCacheLookups: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "prerender_cache_lookups_total",
				Help: "Render cache lookups, labeled by result (hit or miss).",
			},
			[]string{"result"},
		),
		SitemapGenerations: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sitemap_generations_total",
				Help: "Generated sitemap and feed documents, labeled by document and result.",
			},
			[]string{"document", "result"},
		),
		SitemapURLs: f.NewGauge(
			prometheus.GaugeOpts{
				Name: "sitemap_urls",
				Help: "Number of urls in the last generated sitemap.",
			},
		),
		registry: reg,
	}
}

func (m *Metrics) ObservePrerender(route string, code int, seconds float64) {
	m.PrerenderResponses.WithLabelValues(route, strconv.Itoa(code)).Inc()
	m.PrerenderDuration.WithLabelValues(route).Observe(seconds)
}

func (m *Metrics) ObserveGeneration(document string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.SitemapGenerations.WithLabelValues(document, result).Inc()
}

// Handler exposes the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
