package prerender

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize/english"
	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"github.com/pkg/errors"

	"github.com/jobboard/prerender/internal/blog"
	"github.com/jobboard/prerender/internal/job"
	"github.com/jobboard/prerender/internal/render"
	"github.com/jobboard/prerender/internal/seo"
)

func (s *Service) home(ctx context.Context, path string, _ []string) (resolved, error) {
	teasers, err := s.jobs.LatestActive(ctx, s.homeJobsLimit)
	if err != nil {
		s.log.Error().Err(err).Str("path", path).Msg("unable to load latest jobs, rendering empty listing")
		teasers = nil
	}
	partial := err != nil
	v := newHomeView(teasers)

	listing := render.El("p", render.Text("There are no open positions right now. Please check back soon."))
	if len(v.Jobs) > 0 {
		items := make([]render.Markup, 0, len(v.Jobs))
		for _, j := range v.Jobs {
			items = append(items, render.El("li", render.El("article",
				render.El("h2", render.Link(j.Path, j.Title)),
				render.El("p", render.Text(joinNonEmpty(" · ", j.Company, j.Sector))),
				render.El("p", render.Text(joinNonEmpty(" · ", j.JobType, j.WorkMode, j.Salary))),
				render.El("p", render.Textf("Posted %s", j.Posted)),
			)))
		}
		listing = render.El("ul", items...)
	}

	return resolved{partial: partial, status: http.StatusOK, doc: render.Document{
		Title:          fmt.Sprintf("%s - Find Your Next Job", s.siteName),
		Description:    s.description,
		Path:           "/",
		Image:          s.logoURL,
		StructuredData: newWebSite(s.siteName, s.baseURL),
		Body: render.El("section",
			render.El("h1", render.Textf("Latest Jobs on %s", s.siteName)),
			render.El("p", render.Textf("Browse %s from verified employers, updated daily.", english.Plural(len(v.Jobs), "open position", ""))),
			listing,
		),
	}}, nil
}

func (s *Service) jobDetail(ctx context.Context, path string, params []string) (resolved, error) {
	id, err := uuid.Parse(params[0])
	if err != nil {
		return resolved{doc: s.jobNotFound(path), status: http.StatusOK}, nil
	}
	j, err := s.jobs.ActiveByID(ctx, id)
	if errors.Is(err, job.ErrNotFound) {
		return resolved{doc: s.jobNotFound(path), status: http.StatusOK}, nil
	}
	if err != nil {
		return resolved{}, err
	}
	v := newJobDetailView(j)

	parts := []render.Markup{
		render.El("h1", render.Text(v.Title)),
		field("Company", v.Company.Name),
		field("Location", strings.Join(v.Locations, ", ")),
		field("Job Type", v.JobType),
		field("Work Mode", v.WorkMode),
		field("Salary", v.Salary),
		field("Apply Before", dateOf(v.Deadline)),
		field("Posted", render.FormatDate(v.PostedAt)),
		render.El("section", render.El("h2", render.Text("Job Description")), v.Description),
		listSection("Responsibilities", v.Responsibilities),
		listSection("Qualifications", v.Qualifications),
		listSection("Skills", v.Skills),
		listSection("Benefits", v.Benefits),
	}
	if e := v.Eligibility; e != nil {
		parts = append(parts, render.El("section",
			render.El("h2", render.Text("Eligibility")),
			field("Education", e.Education),
			field("Experience", e.Experience),
			field("Graduation Years", strings.Join(e.GraduationYears, ", ")),
			field("Notes", e.Notes),
		))
	}
	parts = append(parts, companySection(v.Company))
	if v.ApplyLink != "" {
		parts = append(parts, render.El("p", render.ElAttrs("a",
			[]render.Attr{{Key: "href", Value: v.ApplyLink}, {Key: "rel", Value: "nofollow noopener"}, {Key: "target", Value: "_blank"}},
			render.Text("Apply Now"),
		)))
	}
	parts = append(parts, render.El("p", render.Link("/", "Browse all jobs")))

	summary := fmt.Sprintf("%s at %s. Salary: %s. %s", v.Title, v.Company.Name, v.Salary, v.PlainDescription)
	return resolved{status: http.StatusOK, doc: render.Document{
		Title:          fmt.Sprintf("%s at %s", v.Title, v.Company.Name),
		Description:    render.PlainText(summary, 160),
		Path:           v.Path,
		Image:          v.Company.LogoURL,
		StructuredData: newJobPosting(v, s.renderer.Canonical(v.Path)),
		Body:           render.El("article", parts...),
	}}, nil
}

func (s *Service) jobNotFound(path string) render.Document {
	return render.Document{
		Title:       "Job Not Found",
		Description: "This job posting is no longer available. It may have expired or been removed.",
		Path:        path,
		ExtraMeta:   noIndex(),
		Body: render.El("section",
			render.El("h1", render.Text("Job Not Found")),
			render.El("p", render.Text("This job posting is no longer available. It may have expired or been removed.")),
			render.El("p", render.Link("/", "Browse all jobs")),
		),
	}
}

func (s *Service) blogDetail(ctx context.Context, path string, params []string) (resolved, error) {
	blogSlug, err := url.PathUnescape(params[0])
	if err != nil || strings.TrimSpace(blogSlug) == "" {
		return resolved{doc: s.blogNotFound(path), status: http.StatusOK}, nil
	}
	b, err := s.blogs.PublishedBySlug(ctx, blogSlug)
	if errors.Is(err, blog.ErrNotFound) {
		return resolved{doc: s.blogNotFound(path), status: http.StatusOK}, nil
	}
	if err != nil {
		return resolved{}, err
	}
	v := newBlogDetailView(b)

	author := render.Text(v.AuthorName)
	if v.AuthorURL != "" && v.AuthorName != "" {
		author = render.Link(v.AuthorURL, v.AuthorName)
	}
	var byline []render.Markup
	if v.AuthorName != "" {
		byline = append(byline, render.Group(render.Text("By "), author))
	}
	if v.PublishedAt != nil {
		byline = append(byline, render.Textf("Published %s", render.FormatDate(*v.PublishedAt)))
	}
	if v.ReadTime > 0 {
		byline = append(byline, render.Textf("%d min read", v.ReadTime))
	}

	parts := []render.Markup{render.El("h1", render.Text(v.Title))}
	if len(byline) > 0 {
		parts = append(parts, render.El("p", joinMarkup(render.Text(" · "), byline...)))
	}
	parts = append(parts, render.List(v.Tags))
	if v.Summary != "" {
		parts = append(parts, render.El("p", render.El("em", render.Text(v.Summary))))
	}
	parts = append(parts,
		render.El("div", v.Content),
		render.El("p", render.Link("/blogs", "Back to all articles")),
	)

	meta := make([]render.Meta, 0, 3+len(v.Tags))
	if v.PublishedAt != nil {
		meta = append(meta, render.Meta{Property: "article:published_time", Content: v.PublishedAt.UTC().Format(time.RFC3339)})
	}
	if v.ModifiedAt != nil {
		meta = append(meta, render.Meta{Property: "article:modified_time", Content: v.ModifiedAt.UTC().Format(time.RFC3339)})
	}
	if v.AuthorName != "" {
		meta = append(meta, render.Meta{Property: "article:author", Content: v.AuthorName})
	}
	for _, tag := range v.Tags {
		meta = append(meta, render.Meta{Property: "article:tag", Content: tag})
	}

	description := v.Summary
	if description == "" {
		description = render.PlainText(v.Content.String(), 160)
	}
	return resolved{status: http.StatusOK, doc: render.Document{
		Title:          v.Title,
		Description:    description,
		Path:           v.Path,
		Image:          v.Thumbnail,
		OGType:         "article",
		ExtraMeta:      meta,
		StructuredData: newBlogPosting(v, s.renderer.Canonical(v.Path), s.siteName, s.logoURL),
		Body:           render.El("article", parts...),
	}}, nil
}

func (s *Service) blogNotFound(path string) render.Document {
	return render.Document{
		Title:       "Blog Not Found",
		Description: "The article you are looking for does not exist or is no longer published.",
		Path:        path,
		ExtraMeta:   noIndex(),
		Body: render.El("section",
			render.El("h1", render.Text("Blog Not Found")),
			render.El("p", render.Text("The article you are looking for does not exist or is no longer published.")),
			render.El("p", render.Link("/blogs", "Read all articles")),
		),
	}
}

func (s *Service) blogList(ctx context.Context, path string, _ []string) (resolved, error) {
	posts, err := s.blogs.LatestPublished(ctx, s.blogsLimit)
	if err != nil {
		s.log.Error().Err(err).Str("path", path).Msg("unable to load blogs, rendering empty listing")
		posts = nil
	}
	partial := err != nil
	v := newBlogListView(posts)

	listing := render.El("p", render.Text("No articles have been published yet."))
	if len(v.Posts) > 0 {
		items := make([]render.Markup, 0, len(v.Posts))
		for _, p := range v.Posts {
			details := []string{}
			if p.AuthorName != "" {
				details = append(details, "By "+p.AuthorName)
			}
			if p.PublishedAt != nil {
				details = append(details, render.FormatDate(*p.PublishedAt))
			}
			if p.ReadTime > 0 {
				details = append(details, strconv.Itoa(p.ReadTime)+" min read")
			}
			article := []render.Markup{
				render.El("h2", render.Link(p.Path, p.Title)),
				render.El("p", render.Text(strings.Join(details, " · "))),
			}
			if p.Summary != "" {
				article = append(article, render.El("p", render.Text(p.Summary)))
			}
			items = append(items, render.El("li", render.El("article", article...)))
		}
		listing = render.El("ul", items...)
	}

	return resolved{partial: partial, status: http.StatusOK, doc: render.Document{
		Title:       "Blog",
		Description: fmt.Sprintf("Career advice, hiring trends and job search tips from the %s blog.", s.siteName),
		Path:        "/blogs",
		Body: render.El("section",
			render.El("h1", render.Textf("%s Blog", s.siteName)),
			render.El("p", render.Textf("%s on careers, interviews and hiring.", english.Plural(len(v.Posts), "article", ""))),
			listing,
		),
	}}, nil
}

func (s *Service) static(ctx context.Context, path string, _ []string) (resolved, error) {
	page := staticPages[path].withSiteName(s.siteName)
	doc := render.Document{
		Title:       page.Title,
		Description: page.Description,
		Path:        path,
	}
	partial := false
	switch path {
	case "/about":
		doc.StructuredData = newOrganization(s.siteName, s.baseURL, s.logoURL, s.description)
		doc.Body = page.body()
	case "/resources":
		var categories render.Markup
		categories, partial = s.resourceCategories(ctx, path)
		doc.Body = page.body(categories)
	case "/sitemap":
		doc.Body = page.body(navList(s.sitemapLinks()))
	default:
		doc.Body = page.body()
	}
	return resolved{doc: doc, status: http.StatusOK, partial: partial}, nil
}

// resourceCategories lists the top level categories. It reports true when the
// query failed and the section was left out.
func (s *Service) resourceCategories(ctx context.Context, path string) (render.Markup, bool) {
	categories, err := s.resources.TopLevelCategories(ctx)
	if err != nil {
		s.log.Error().Err(err).Str("path", path).Msg("unable to load resource categories")
		return render.Markup{}, true
	}
	v := ResourcesView{Categories: categories}
	if len(v.Categories) == 0 {
		return render.Markup{}, false
	}
	items := make([]render.Markup, 0, len(v.Categories))
	for _, c := range v.Categories {
		anchor := c.Slug
		if anchor == "" {
			anchor = slug.Make(c.Name)
		}
		item := []render.Markup{render.El("h3", render.Text(c.Name))}
		if c.Description != "" {
			item = append(item, render.El("p", render.Text(c.Description)))
		}
		items = append(items, render.ElAttrs("li", []render.Attr{{Key: "id", Value: anchor}}, item...))
	}
	return render.El("section",
		render.El("h2", render.Text("Browse by Category")),
		render.El("ul", items...),
	), false
}

func (s *Service) sitemapLinks() []render.NavLink {
	links := make([]render.NavLink, 0, len(seo.StaticPages()))
	for _, p := range seo.StaticPages() {
		switch p {
		case "/sitemap":
			continue
		case "/":
			links = append(links, render.NavLink{Path: p, Label: "Jobs"})
		case "/blogs":
			links = append(links, render.NavLink{Path: p, Label: "Blog"})
		default:
			links = append(links, render.NavLink{Path: p, Label: staticPages[p].withSiteName(s.siteName).Heading})
		}
	}
	return links
}

func (s *Service) notFound(_ context.Context, path string, _ []string) (resolved, error) {
	return resolved{status: http.StatusNotFound, doc: render.Document{
		Title:       "Page Not Found",
		Description: "The page you are looking for does not exist.",
		Path:        path,
		ExtraMeta:   noIndex(),
		Body: render.El("section",
			render.El("h1", render.Text("Page Not Found")),
			render.El("p", render.Text("The page you are looking for does not exist.")),
			render.El("p", render.Link("/", "Go to the homepage")),
		),
	}}, nil
}

// field renders a labelled paragraph, or nothing when value is empty.
func field(label, value string) render.Markup {
	if value == "" {
		return render.Markup{}
	}
	return render.El("p", render.El("strong", render.Text(label+":")), render.Text(" "+value))
}

func listSection(heading string, items []string) render.Markup {
	if len(items) == 0 {
		return render.Markup{}
	}
	return render.El("section", render.El("h2", render.Text(heading)), render.List(items))
}

func companySection(c CompanyView) render.Markup {
	founded := ""
	if c.FoundedYear > 0 {
		founded = strconv.Itoa(c.FoundedYear)
	}
	website := render.Markup{}
	if c.Website != "" {
		website = render.El("p", render.El("strong", render.Text("Website:")), render.Text(" "),
			render.ElAttrs("a", []render.Attr{{Key: "href", Value: c.Website}, {Key: "rel", Value: "nofollow noopener"}}, render.Text(c.Website)))
	}
	return render.El("section",
		render.El("h2", render.Textf("About %s", c.Name)),
		field("Sector", c.Sector),
		field("Company Size", c.EmployeeCount),
		field("Founded", founded),
		field("Headquarters", c.Headquarters),
		website,
		field("Culture", c.Culture),
	)
}

func joinNonEmpty(sep string, values ...string) string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v != "" {
			out = append(out, v)
		}
	}
	return strings.Join(out, sep)
}

func joinMarkup(sep render.Markup, parts ...render.Markup) render.Markup {
	out := make([]render.Markup, 0, 2*len(parts))
	for i, p := range parts {
		if i > 0 {
			out = append(out, sep)
		}
		out = append(out, p)
	}
	return render.Group(out...)
}
