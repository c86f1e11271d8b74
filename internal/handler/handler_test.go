package handler

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"github.com/jobboard/prerender/internal/config"
	"github.com/jobboard/prerender/internal/metrics"
	"github.com/jobboard/prerender/internal/prerender"
	"github.com/jobboard/prerender/internal/server"
	"github.com/jobboard/prerender/internal/sitemap"
)

func newTestServer() server.Server {
	cfg := config.Config{Env: "dev", SiteName: "Jobs", SiteHost: "jobs.example.com", URLProtocol: "https://"}
	return server.NewServer(cfg, nil, mux.NewRouter(), metrics.New(prometheus.NewRegistry()))
}

type fakeRenderer struct {
	page prerender.Page
	err  error
	path string
}

func (f *fakeRenderer) Render(ctx context.Context, path string) (prerender.Page, error) {
	f.path = path
	return f.page, f.err
}

func TestPrerenderHandler(t *testing.T) {
	svr := newTestServer()
	svc := &fakeRenderer{page: prerender.Page{Status: 200, Route: "job", HTML: "<html>job</html>"}}
	rec := httptest.NewRecorder()

	PrerenderHandler(svr, svc)(rec, httptest.NewRequest(http.MethodGet, "/prerender?path=/job/abc", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "/job/abc", svc.path)
	assert.Equal(t, "<html>job</html>", rec.Body.String())
	assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Equal(t, "public, max-age=3600, s-maxage=86400", rec.Header().Get("Cache-Control"))
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, 1.0, testutil.ToFloat64(svr.Metrics.PrerenderResponses.WithLabelValues("job", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(svr.Metrics.RenderCacheLookups.WithLabelValues("miss")))
}

func TestPrerenderHandlerDefaultsToHome(t *testing.T) {
	svc := &fakeRenderer{page: prerender.Page{Status: 200, Route: "home", Cached: true}}
	rec := httptest.NewRecorder()
	svr := newTestServer()

	PrerenderHandler(svr, svc)(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, "/", svc.path)
	assert.Equal(t, 1.0, testutil.ToFloat64(svr.Metrics.RenderCacheLookups.WithLabelValues("hit")))
}

func TestPrerenderHandlerPassesThroughNotFoundStatus(t *testing.T) {
	svc := &fakeRenderer{page: prerender.Page{Status: 404, Route: "not_found", HTML: "<html>missing</html>"}}
	rec := httptest.NewRecorder()

	PrerenderHandler(newTestServer(), svc)(rec, httptest.NewRequest(http.MethodGet, "/?path=/nope", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "<html>missing</html>", rec.Body.String())
}

func TestPrerenderHandlerError(t *testing.T) {
	svr := newTestServer()
	svc := &fakeRenderer{page: prerender.Page{Status: 500, Route: "job"}, err: errors.New("db down")}
	rec := httptest.NewRecorder()

	PrerenderHandler(svr, svc)(rec, httptest.NewRequest(http.MethodGet, "/?path=/job/x", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Internal Server Error", rec.Body.String())
	assert.Equal(t, "text/plain; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Empty(t, rec.Header().Get("Cache-Control"))
	assert.Equal(t, 1.0, testutil.ToFloat64(svr.Metrics.PrerenderResponses.WithLabelValues("job", "500")))
}

func TestPreflight(t *testing.T) {
	svc := &fakeRenderer{}
	rec := httptest.NewRecorder()

	PrerenderHandler(newTestServer(), svc)(rec, httptest.NewRequest(http.MethodOptions, "/?path=/", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, svc.path)
	assert.Equal(t, "authorization, x-client-info, apikey, content-type", rec.Header().Get("Access-Control-Allow-Headers"))
}

type fakeBuilder struct {
	set *sitemap.URLSet
	rss string
	err error
}

func (f fakeBuilder) Build(ctx context.Context) (*sitemap.URLSet, error) { return f.set, f.err }
func (f fakeBuilder) JobsFeed(ctx context.Context) (string, error) { return f.rss, f.err }
func (f fakeBuilder) BlogsFeed(ctx context.Context) (string, error) { return f.rss, f.err }

func TestSitemapHandler(t *testing.T) {
	svr := newTestServer()
	set := &sitemap.URLSet{Xmlns: "http://www.sitemaps.org/schemas/sitemap/0.9", URLs: []sitemap.URL{
		{Loc: "https://jobs.example.com/", LastMod: "2024-05-01", ChangeFreq: "daily", Priority: "1.0"},
	}}
	rec := httptest.NewRecorder()

	SitemapHandler(svr, fakeBuilder{set: set})(rec, httptest.NewRequest(http.MethodGet, "/sitemap.xml", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/xml; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Equal(t, "public, max-age=3600, s-maxage=3600", rec.Header().Get("Cache-Control"))
	assert.Contains(t, rec.Body.String(), "<loc>https://jobs.example.com/</loc>")
	assert.Equal(t, 1.0, testutil.ToFloat64(svr.Metrics.SitemapURLs))
	assert.Equal(t, 1.0, testutil.ToFloat64(svr.Metrics.SitemapGenerations.WithLabelValues("sitemap", "ok")))
}

func TestSitemapHandlerError(t *testing.T) {
	svr := newTestServer()
	rec := httptest.NewRecorder()

	SitemapHandler(svr, fakeBuilder{err: errors.New("boom")})(rec, httptest.NewRequest(http.MethodGet, "/sitemap.xml", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Internal Server Error", rec.Body.String())
	assert.NotContains(t, rec.Body.String(), "<urlset")
	assert.Equal(t, 1.0, testutil.ToFloat64(svr.Metrics.SitemapGenerations.WithLabelValues("sitemap", "error")))
}

func TestSitemapHandlerEncodingError(t *testing.T) {
	encode := encodeSitemap
	defer func() { encodeSitemap = encode }()
	encodeSitemap = func(w io.Writer, set *sitemap.URLSet) error {
		w.Write([]byte("<urlset>"))
		return errors.New("xml: unsupported type")
	}
	set := &sitemap.URLSet{URLs: []sitemap.URL{{Loc: "https://jobs.example.com/"}}}
	rec := httptest.NewRecorder()

	SitemapHandler(newTestServer(), fakeBuilder{set: set})(rec, httptest.NewRequest(http.MethodGet, "/sitemap.xml", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Internal Server Error", rec.Body.String())
	assert.Equal(t, "text/plain; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Empty(t, rec.Header().Get("Cache-Control"))
}

func TestFeedHandlers(t *testing.T) {
	gen := fakeBuilder{rss: `<rss version="2.0"></rss>`}
	for name, h := range map[string]http.HandlerFunc{
		"jobs":  JobsFeedHandler(newTestServer(), gen),
		"blogs": BlogsFeedHandler(newTestServer(), gen),
	} {
		t.Run(name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			h(rec, httptest.NewRequest(http.MethodGet, "/feed.rss", nil))
			assert.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, `<rss version="2.0"></rss>`, rec.Body.String())
			assert.Equal(t, "application/xml; charset=utf-8", rec.Header().Get("Content-Type"))
		})
	}

	rec := httptest.NewRecorder()
	JobsFeedHandler(newTestServer(), fakeBuilder{err: errors.New("boom")})(rec, httptest.NewRequest(http.MethodGet, "/jobs.rss", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestHealthHandler(t *testing.T) {
	rec := httptest.NewRecorder()
	HealthHandler(newTestServer())(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}
