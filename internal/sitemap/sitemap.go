package sitemap

import (
	"bytes"
	"context"
	"encoding/xml"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/jobboard/prerender/internal/blog"
	"github.com/jobboard/prerender/internal/config"
	"github.com/jobboard/prerender/internal/job"
	"github.com/jobboard/prerender/internal/resource"
	"github.com/jobboard/prerender/internal/seo"
)

const xmlns = "http://www.sitemaps.org/schemas/sitemap/0.9"

var changeFrequencies = map[string]bool{
	"always":  true,
	"hourly":  true,
	"daily":   true,
	"weekly":  true,
	"monthly": true,
	"yearly":  true,
	"never":   true,
}

type StaticRouteStore interface {
	ActiveStaticRoutes(ctx context.Context) ([]resource.StaticRoute, error)
}

type JobStore interface {
	ActiveForSitemap(ctx context.Context, today time.Time) ([]job.SitemapEntry, error)
	LatestActive(ctx context.Context, limit int) ([]job.JobTeaser, error)
}

type BlogStore interface {
	PublishedForSitemap(ctx context.Context) ([]blog.SitemapEntry, error)
	LatestPublished(ctx context.Context, limit int) ([]blog.BlogPost, error)
}

type URL struct {
	Loc        string `xml:"loc"`
	LastMod    string `xml:"lastmod"`
	ChangeFreq string `xml:"changefreq"`
	Priority   string `xml:"priority"`
}

type URLSet struct {
	XMLName xml.Name `xml:"urlset"`
	Xmlns   string   `xml:"xmlns,attr"`
	URLs    []URL    `xml:"url"`
}

// WriteTo encodes the sitemap, XML declaration included.
func (s *URLSet) WriteTo(w io.Writer) (int64, error) {
	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	enc := xml.NewEncoder(&buf)
	enc.Indent("", "  ")
	if err := enc.Encode(s); err != nil {
		return 0, errors.Wrap(err, "unable to encode sitemap")
	}
	buf.WriteString("\n")
	return buf.WriteTo(w)
}

type Generator struct {
	baseURL     string
	siteName    string
	description string
	feedLimit   int
	routes      StaticRouteStore
	jobs        JobStore
	blogs       BlogStore
	now         func() time.Time
}

func NewGenerator(cfg config.Config, routes StaticRouteStore, jobs JobStore, blogs BlogStore) *Generator {
	feedLimit := cfg.FeedItemsLimit
	if feedLimit <= 0 {
		feedLimit = 50
	}
	return &Generator{
		baseURL:     strings.TrimSuffix(cfg.BaseURL(), "/"),
		siteName:    cfg.SiteName,
		description: cfg.SiteDescription,
		feedLimit:   feedLimit,
		routes:      routes,
		jobs:        jobs,
		blogs:       blogs,
		now:         time.Now,
	}
}

// Build runs the three queries concurrently. Any failure fails the whole
// sitemap, partial documents are never returned.
func (g *Generator) Build(ctx context.Context) (*URLSet, error) {
	now := g.now().UTC()
	today := now.Format("2006-01-02")

	var (
		statics []resource.StaticRoute
		jobs    []job.SitemapEntry
		blogs   []blog.SitemapEntry
	)
	eg, gctx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		var err error
		statics, err = g.routes.ActiveStaticRoutes(gctx)
		return err
	})
	eg.Go(func() error {
		var err error
		jobs, err = g.jobs.ActiveForSitemap(gctx, now)
		return err
	})
	eg.Go(func() error {
		var err error
		blogs, err = g.blogs.PublishedForSitemap(gctx)
		return err
	})
	if err := eg.Wait(); err != nil {
		return nil, errors.Wrap(err, "unable to build sitemap")
	}

	set := &URLSet{Xmlns: xmlns, URLs: make([]URL, 0, 1+len(statics)+len(jobs)+len(blogs))}
	seen := make(map[string]struct{}, cap(set.URLs))
	add := func(u URL) {
		if _, ok := seen[u.Loc]; ok {
			return
		}
		seen[u.Loc] = struct{}{}
		set.URLs = append(set.URLs, u)
	}

	add(URL{Loc: g.baseURL + "/", LastMod: today, ChangeFreq: "daily", Priority: "1.0"})
	for _, s := range statics {
		add(URL{
			Loc:        g.baseURL + routePath(s.Path),
			LastMod:    today,
			ChangeFreq: changeFrequency(s.ChangeFrequency),
			Priority:   priority(s.Priority),
		})
	}
	for _, j := range jobs {
		add(URL{Loc: g.baseURL + seo.JobPath(j.ID), LastMod: lastMod(j.UpdatedAt, today), ChangeFreq: "daily", Priority: "0.8"})
	}
	for _, b := range blogs {
		add(URL{Loc: g.baseURL + seo.BlogPath(b.Slug), LastMod: lastMod(b.UpdatedAt, today), ChangeFreq: "weekly", Priority: "0.7"})
	}
	return set, nil
}

func routePath(p string) string {
	p = strings.TrimSpace(p)
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return p
}

func changeFrequency(f string) string {
	f = strings.ToLower(strings.TrimSpace(f))
	if changeFrequencies[f] {
		return f
	}
	return "weekly"
}

func priority(p *float64) string {
	if p == nil || *p < 0 || *p > 1 {
		return "0.5"
	}
	return strconv.FormatFloat(*p, 'f', 1, 64)
}

func lastMod(t *time.Time, today string) string {
	if t == nil {
		return today
	}
	return t.UTC().Format("2006-01-02")
}
