package sitemap

import (
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jobboard/prerender/internal/blog"
	"github.com/jobboard/prerender/internal/config"
	"github.com/jobboard/prerender/internal/job"
	"github.com/jobboard/prerender/internal/resource"
)

var fixedNow = time.Date(2024, 5, 1, 10, 30, 0, 0, time.UTC)

type fakeRoutes struct {
	routes []resource.StaticRoute
	err    error
}

func (f fakeRoutes) ActiveStaticRoutes(ctx context.Context) ([]resource.StaticRoute, error) {
	return f.routes, f.err
}

type fakeJobs struct {
	entries []job.SitemapEntry
	latest  []job.JobTeaser
	err     error
	today   time.Time
}

func (f *fakeJobs) ActiveForSitemap(ctx context.Context, today time.Time) ([]job.SitemapEntry, error) {
	f.today = today
	return f.entries, f.err
}

func (f *fakeJobs) LatestActive(ctx context.Context, limit int) ([]job.JobTeaser, error) {
	return f.latest, f.err
}

type fakeBlogs struct {
	entries []blog.SitemapEntry
	latest  []blog.BlogPost
	err     error
}

func (f fakeBlogs) PublishedForSitemap(ctx context.Context) ([]blog.SitemapEntry, error) {
	return f.entries, f.err
}

func (f fakeBlogs) LatestPublished(ctx context.Context, limit int) ([]blog.BlogPost, error) {
	return f.latest, f.err
}

func testConfig() config.Config {
	return config.Config{
		SiteName:        "Jobs & Co",
		SiteHost:        "jobs.example.com",
		SiteDescription: "Find jobs",
		URLProtocol:     "https://",
		FeedItemsLimit:  50,
	}
}

func newTestGenerator(routes fakeRoutes, jobs *fakeJobs, blogs fakeBlogs) *Generator {
	g := NewGenerator(testConfig(), routes, jobs, blogs)
	g.now = func() time.Time { return fixedNow }
	return g
}

func float(f float64) *float64 { return &f }

func TestBuild(t *testing.T) {
	jobID := uuid.MustParse("11111111-1111-1111-1111-111111111111")
	updated := time.Date(2024, 4, 20, 23, 0, 0, 0, time.UTC)
	routes := fakeRoutes{routes: []resource.StaticRoute{
		{Path: "/about", Priority: float(0.9), ChangeFrequency: "monthly"},
		{Path: "contact"},
		{Path: "/terms", ChangeFrequency: "sometimes"},
	}}
	jobs := &fakeJobs{entries: []job.SitemapEntry{{ID: jobID, UpdatedAt: &updated}}}
	blogs := fakeBlogs{entries: []blog.SitemapEntry{{Slug: "ace-the-interview"}, {Slug: "q&a-<night>"}}}

	set, err := newTestGenerator(routes, jobs, blogs).Build(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "2024-05-01", jobs.today.Format("2006-01-02"))

	require.Len(t, set.URLs, 1+3+1+2)
	assert.Equal(t, URL{Loc: "https://jobs.example.com/", LastMod: "2024-05-01", ChangeFreq: "daily", Priority: "1.0"}, set.URLs[0])
	assert.Equal(t, URL{Loc: "https://jobs.example.com/about", LastMod: "2024-05-01", ChangeFreq: "monthly", Priority: "0.9"}, set.URLs[1])
	assert.Equal(t, URL{Loc: "https://jobs.example.com/contact", LastMod: "2024-05-01", ChangeFreq: "weekly", Priority: "0.5"}, set.URLs[2])
	assert.Equal(t, "weekly", set.URLs[3].ChangeFreq)
	assert.Equal(t, URL{Loc: "https://jobs.example.com/job/11111111-1111-1111-1111-111111111111", LastMod: "2024-04-20", ChangeFreq: "daily", Priority: "0.8"}, set.URLs[4])
	assert.Equal(t, URL{Loc: "https://jobs.example.com/blog/ace-the-interview", LastMod: "2024-05-01", ChangeFreq: "weekly", Priority: "0.7"}, set.URLs[5])
}

func TestBuildSkipsDuplicateLocations(t *testing.T) {
	routes := fakeRoutes{routes: []resource.StaticRoute{{Path: "/"}, {Path: "/about"}, {Path: "/about"}}}
	set, err := newTestGenerator(routes, &fakeJobs{}, fakeBlogs{}).Build(context.Background())
	require.NoError(t, err)

	locs := make([]string, 0, len(set.URLs))
	for _, u := range set.URLs {
		locs = append(locs, u.Loc)
	}
	assert.Equal(t, []string{"https://jobs.example.com/", "https://jobs.example.com/about"}, locs)
}

func TestBuildEmptyDatabaseStillListsHome(t *testing.T) {
	set, err := newTestGenerator(fakeRoutes{}, &fakeJobs{}, fakeBlogs{}).Build(context.Background())
	require.NoError(t, err)
	require.Len(t, set.URLs, 1)
	assert.Equal(t, "https://jobs.example.com/", set.URLs[0].Loc)
}

func TestBuildFailsOnAnyQueryError(t *testing.T) {
	boom := errors.New("connection reset")
	cases := map[string]*Generator{
		"routes": newTestGenerator(fakeRoutes{err: boom}, &fakeJobs{}, fakeBlogs{}),
		"jobs":   newTestGenerator(fakeRoutes{}, &fakeJobs{err: boom}, fakeBlogs{}),
		"blogs":  newTestGenerator(fakeRoutes{}, &fakeJobs{}, fakeBlogs{err: boom}),
	}
	for name, g := range cases {
		t.Run(name, func(t *testing.T) {
			set, err := g.Build(context.Background())
			assert.Nil(t, set)
			assert.ErrorIs(t, err, boom)
		})
	}
}

func TestWriteTo(t *testing.T) {
	blogs := fakeBlogs{entries: []blog.SitemapEntry{{Slug: "q&a"}}}
	set, err := newTestGenerator(fakeRoutes{}, &fakeJobs{}, blogs).Build(context.Background())
	require.NoError(t, err)

	var buf bytes.Buffer
	_, err = set.WriteTo(&buf)
	require.NoError(t, err)
	out := buf.String()

	assert.True(t, strings.HasPrefix(out, `<?xml version="1.0" encoding="UTF-8"?>`))
	assert.Contains(t, out, `<urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">`)
	assert.Contains(t, out, "<loc>https://jobs.example.com/blog/q&amp;a</loc>")

	var decoded URLSet
	require.NoError(t, xml.Unmarshal(buf.Bytes(), &decoded))
	assert.Len(t, decoded.URLs, 2)
}

func TestJobsFeed(t *testing.T) {
	salaryMax := int64(1200000)
	jobs := &fakeJobs{latest: []job.JobTeaser{{
		ID:          uuid.MustParse("11111111-1111-1111-1111-111111111111"),
		Title:       "Backend Engineer",
		Description: "Build **APIs**",
		SalaryMax:   &salaryMax,
		Currency:    "INR",
		CreatedAt:   fixedNow,
	}}}
	rss, err := newTestGenerator(fakeRoutes{}, jobs, fakeBlogs{}).JobsFeed(context.Background())
	require.NoError(t, err)
	assert.Contains(t, rss, "<title>Jobs &amp; Co Jobs</title>")
	assert.Contains(t, rss, "<title>Backend Engineer at Confidential</title>")
	assert.Contains(t, rss, "<link>https://jobs.example.com/job/11111111-1111-1111-1111-111111111111</link>")
	assert.Contains(t, rss, "Up to INR 1,200,000")
}

func TestBlogsFeed(t *testing.T) {
	published := fixedNow.Add(-48 * time.Hour)
	blogs := fakeBlogs{latest: []blog.BlogPost{{
		Title:       "Ace the interview",
		Slug:        "ace-the-interview",
		Summary:     "Five habits",
		PublishedAt: &published,
		Author:      blog.Author{Name: "Priya"},
	}}}
	rss, err := newTestGenerator(fakeRoutes{}, &fakeJobs{}, blogs).BlogsFeed(context.Background())
	require.NoError(t, err)
	assert.Contains(t, rss, "<title>Ace the interview</title>")
	assert.Contains(t, rss, "<link>https://jobs.example.com/blog/ace-the-interview</link>")
	assert.Contains(t, rss, "Five habits")
}

func TestFeedsPropagateErrors(t *testing.T) {
	boom := errors.New("timeout")
	g := newTestGenerator(fakeRoutes{}, &fakeJobs{err: boom}, fakeBlogs{err: boom})
	_, err := g.JobsFeed(context.Background())
	assert.ErrorIs(t, err, boom)
	_, err = g.BlogsFeed(context.Background())
	assert.ErrorIs(t, err, boom)
}
