package handler

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"time"

	"github.com/jobboard/prerender/internal/prerender"
	"github.com/jobboard/prerender/internal/server"
	"github.com/jobboard/prerender/internal/sitemap"
)

const (
	prerenderCacheControl = "public, max-age=3600, s-maxage=86400"
	sitemapCacheControl   = "public, max-age=3600, s-maxage=3600"
	internalErrorBody     = "Internal Server Error"
)

// cors lets the prerendered documents and sitemaps be fetched cross origin.
// It reports true when the request was a preflight and has been answered.
func cors(w http.ResponseWriter, r *http.Request) bool {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Headers", "authorization, x-client-info, apikey, content-type")
	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusOK)
		return true
	}
	return false
}

type renderer interface {
	Render(ctx context.Context, path string) (prerender.Page, error)
}

// PrerenderHandler answers ?path= with the server rendered document for that
// logical path.
func PrerenderHandler(svr server.Server, svc renderer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if cors(w, r) {
			return
		}
		start := time.Now()
		path := r.URL.Query().Get("path")
		if path == "" {
			path = "/"
		}
		page, err := svc.Render(r.Context(), path)
		if svr.Metrics != nil {
			svr.Metrics.ObservePrerender(page.Route, statusOf(page, err), time.Since(start).Seconds())
			if err == nil {
				result := "miss"
				if page.Cached {
					result = "hit"
				}
				svr.Metrics.RenderCacheLookups.WithLabelValues(result).Inc()
			}
		}
		if err != nil {
			svr.Log(err, "unable to prerender "+path)
			svr.TEXT(w, http.StatusInternalServerError, internalErrorBody)
			return
		}
		w.Header().Set("Cache-Control", prerenderCacheControl)
		svr.HTML(w, page.Status, page.HTML)
	}
}

func statusOf(page prerender.Page, err error) int {
	if err != nil {
		return http.StatusInternalServerError
	}
	return page.Status
}

type sitemapBuilder interface {
	Build(ctx context.Context) (*sitemap.URLSet, error)
	JobsFeed(ctx context.Context) (string, error)
	BlogsFeed(ctx context.Context) (string, error)
}

func SitemapHandler(svr server.Server, gen sitemapBuilder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if cors(w, r) {
			return
		}
		set, err := gen.Build(r.Context())
		observeGeneration(svr, "sitemap", err)
		if err != nil {
			svr.Log(err, "unable to build sitemap")
			svr.TEXT(w, http.StatusInternalServerError, internalErrorBody)
			return
		}
		if svr.Metrics != nil {
			svr.Metrics.SitemapURLs.Set(float64(len(set.URLs)))
		}
		var buf bytes.Buffer
		if err := encodeSitemap(&buf, set); err != nil {
			svr.Log(err, "unable to encode sitemap")
			svr.TEXT(w, http.StatusInternalServerError, internalErrorBody)
			return
		}
		w.Header().Set("Cache-Control", sitemapCacheControl)
		svr.XML(w, http.StatusOK, buf.Bytes())
	}
}

var encodeSitemap = func(w io.Writer, set *sitemap.URLSet) error {
	_, err := set.WriteTo(w)
	return err
}

func JobsFeedHandler(svr server.Server, gen sitemapBuilder) http.HandlerFunc {
	return feedHandler(svr, "jobs_rss", gen.JobsFeed)
}

func BlogsFeedHandler(svr server.Server, gen sitemapBuilder) http.HandlerFunc {
	return feedHandler(svr, "blogs_rss", gen.BlogsFeed)
}

func feedHandler(svr server.Server, document string, build func(ctx context.Context) (string, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if cors(w, r) {
			return
		}
		rss, err := build(r.Context())
		observeGeneration(svr, document, err)
		if err != nil {
			svr.Log(err, "unable to build "+document)
			svr.TEXT(w, http.StatusInternalServerError, internalErrorBody)
			return
		}
		w.Header().Set("Cache-Control", sitemapCacheControl)
		svr.XML(w, http.StatusOK, []byte(rss))
	}
}

func observeGeneration(svr server.Server, document string, err error) {
	if svr.Metrics != nil {
		svr.Metrics.ObserveGeneration(document, err)
	}
}

func HealthHandler(svr server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		svr.TEXT(w, http.StatusOK, "ok")
	}
}
