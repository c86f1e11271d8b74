package seo

import (
	"context"
	"net/url"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/jobboard/prerender/internal/blog"
	"github.com/jobboard/prerender/internal/job"
)

// StaticPages lists every fixed path the prerender service answers with a
// 200. The route script and the prerender tests both depend on it.
func StaticPages() []string {
	return []string{
		"/",
		"/blogs",
		"/about",
		"/resources",
		"/resources/career-guides",
		"/resources/interview-tips",
		"/resources/resume-templates",
		"/resources/salary-insights",
		"/contact",
		"/privacy-policy",
		"/terms",
		"/disclaimer",
		"/cookie-policy",
		"/advertise",
		"/sitemap",
	}
}

func JobPath(id uuid.UUID) string {
	return "/job/" + id.String()
}

func BlogPath(slug string) string {
	return "/blog/" + url.PathEscape(slug)
}

type JobLister interface {
	ActiveForSitemap(ctx context.Context, today time.Time) ([]job.SitemapEntry, error)
}

type BlogLister interface {
	PublishedForSitemap(ctx context.Context) ([]blog.SitemapEntry, error)
}

// CrawlableRoutes returns the static pages followed by every active job and
// published blog path, each path once, in a stable order.
func CrawlableRoutes(ctx context.Context, jobs JobLister, blogs BlogLister, today time.Time) ([]string, error) {
	jobEntries, err := jobs.ActiveForSitemap(ctx, today)
	if err != nil {
		return nil, errors.Wrap(err, "unable to list jobs for routes")
	}
	blogEntries, err := blogs.PublishedForSitemap(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "unable to list blogs for routes")
	}

	static := StaticPages()
	routes := make([]string, 0, len(static)+len(jobEntries)+len(blogEntries))
	seen := make(map[string]struct{}, cap(routes))
	add := func(p string) {
		if _, ok := seen[p]; ok {
			return
		}
		seen[p] = struct{}{}
		routes = append(routes, p)
	}
	for _, p := range static {
		add(p)
	}
	for _, j := range jobEntries {
		add(JobPath(j.ID))
	}
	for _, b := range blogEntries {
		add(BlogPath(b.Slug))
	}
	return routes, nil
}
