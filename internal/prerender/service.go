package prerender

import (
	"context"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/jobboard/prerender/internal/blog"
	"github.com/jobboard/prerender/internal/config"
	"github.com/jobboard/prerender/internal/job"
	"github.com/jobboard/prerender/internal/render"
	"github.com/jobboard/prerender/internal/resource"
)

type JobStore interface {
	LatestActive(ctx context.Context, limit int) ([]job.JobTeaser, error)
	ActiveByID(ctx context.Context, id uuid.UUID) (*job.JobPost, error)
}

type BlogStore interface {
	PublishedBySlug(ctx context.Context, slug string) (*blog.BlogPost, error)
	LatestPublished(ctx context.Context, limit int) ([]blog.BlogPost, error)
}

type ResourceStore interface {
	TopLevelCategories(ctx context.Context) ([]resource.Category, error)
}

// Page is a rendered document ready to be written to the client.
type Page struct {
	Status int
	Route  string
	HTML   string
	Cached bool
}

// resolved is a routed document. A partial document was rendered without data
// from a failed query, it is served but never cached.
type resolved struct {
	doc     render.Document
	status  int
	partial bool
}

type resolveFunc func(ctx context.Context, path string, params []string) (resolved, error)

type route struct {
	name    string
	match   func(path string) ([]string, bool)
	resolve resolveFunc
}

var (
	jobPathRe  = regexp.MustCompile(`^/job/([0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12})$`)
	blogPathRe = regexp.MustCompile(`^/blog/([^/]+)$`)
)

type Service struct {
	renderer      *render.Renderer
	jobs          JobStore
	blogs         BlogStore
	resources     ResourceStore
	cache         *RenderCache
	log           zerolog.Logger
	siteName      string
	baseURL       string
	logoURL       string
	description   string
	homeJobsLimit int
	blogsLimit    int
	routes        []route
}

func NewService(cfg config.Config, jobs JobStore, blogs BlogStore, resources ResourceStore, cache *RenderCache, log zerolog.Logger) *Service {
	s := &Service{
		renderer:      render.NewRenderer(cfg.SiteName, cfg.BaseURL(), cfg.SiteDescription),
		jobs:          jobs,
		blogs:         blogs,
		resources:     resources,
		cache:         cache,
		log:           log,
		siteName:      cfg.SiteName,
		baseURL:       cfg.BaseURL(),
		logoURL:       cfg.SiteLogoURL,
		description:   cfg.SiteDescription,
		homeJobsLimit: cfg.HomeJobsLimit,
		blogsLimit:    cfg.BlogsLimit,
	}
	// order matters, the first match wins and the last route matches everything
	s.routes = []route{
		{"home", exact("/"), s.home},
		{"job", pattern(jobPathRe), s.jobDetail},
		{"blog", pattern(blogPathRe), s.blogDetail},
		{"blogs", exact("/blogs"), s.blogList},
		{"static", isStaticPage, s.static},
		{"not_found", anyPath, s.notFound},
	}
	return s
}

// NormalizePath turns the path query parameter into the logical path used
// for dispatch and canonical urls.
func NormalizePath(p string) string {
	p = strings.TrimSpace(p)
	if i := strings.IndexAny(p, "?#"); i >= 0 {
		p = p[:i]
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	for len(p) > 1 && strings.HasSuffix(p, "/") {
		p = strings.TrimSuffix(p, "/")
	}
	return p
}

// Render resolves the page for path. A returned error means the caller must
// answer with a plain 500.
func (s *Service) Render(ctx context.Context, rawPath string) (Page, error) {
	path := NormalizePath(rawPath)
	if page, ok := s.cache.Get(path); ok {
		return page, nil
	}
	for _, rt := range s.routes {
		params, ok := rt.match(path)
		if !ok {
			continue
		}
		res, err := rt.resolve(ctx, path, params)
		if err != nil {
			return Page{Status: 500, Route: rt.name}, errors.Wrapf(err, "unable to resolve %s", path)
		}
		html, err := s.renderer.Render(res.doc)
		if err != nil {
			return Page{Status: 500, Route: rt.name}, errors.Wrapf(err, "unable to render %s", path)
		}
		page := Page{Status: res.status, Route: rt.name, HTML: html}
		if !res.partial {
			s.cache.Set(path, page)
		}
		return page, nil
	}
	return Page{Status: 500}, errors.Errorf("no route matched %s", path)
}

func exact(want string) func(string) ([]string, bool) {
	return func(path string) ([]string, bool) {
		return nil, path == want
	}
}

func pattern(re *regexp.Regexp) func(string) ([]string, bool) {
	return func(path string) ([]string, bool) {
		m := re.FindStringSubmatch(path)
		if m == nil {
			return nil, false
		}
		return m[1:], true
	}
}

func isStaticPage(path string) ([]string, bool) {
	_, ok := staticPages[path]
	return nil, ok
}

func anyPath(string) ([]string, bool) {
	return nil, true
}

func noIndex() []render.Meta {
	return []render.Meta{{Name: "robots", Content: "noindex"}}
}

func dateOf(t *time.Time) string {
	if t == nil {
		return ""
	}
	return render.FormatDate(*t)
}
