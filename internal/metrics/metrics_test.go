package metrics

import (
	"errors"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObservePrerender(t *testing.T) {
	m := New(prometheus.NewRegistry())
	m.ObservePrerender("job", 200, 0.02)
	m.ObservePrerender("job", 200, 0.03)
	m.ObservePrerender("not_found", 404, 0.01)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.PrerenderResponses.WithLabelValues("job", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.PrerenderResponses.WithLabelValues("not_found", "404")))
}

func TestObserveGeneration(t *testing.T) {
	m := New(prometheus.NewRegistry())
	m.ObserveGeneration("sitemap", nil)
	m.ObserveGeneration("sitemap", errors.New("db down"))

	assert.Equal(t, 1.0, testutil.ToFloat64(m.SitemapGenerations.WithLabelValues("sitemap", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.SitemapGenerations.WithLabelValues("sitemap", "error")))
}

func TestHandlerExposesCollectors(t *testing.T) {
	m := New(prometheus.NewRegistry())
	m.GatewayDecisions.WithLabelValues(DecisionPrerendered, "search").Inc()

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `gateway_requests_total{class="search",decision="prerendered"} 1`)
}
