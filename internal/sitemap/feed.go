package sitemap

import (
	"context"
	"fmt"

	"github.com/gorilla/feeds"
	"github.com/pkg/errors"

	"github.com/jobboard/prerender/internal/render"
	"github.com/jobboard/prerender/internal/seo"
)

// JobsFeed lists the latest active jobs as RSS 2.0.
func (g *Generator) JobsFeed(ctx context.Context) (string, error) {
	jobs, err := g.jobs.LatestActive(ctx, g.feedLimit)
	if err != nil {
		return "", errors.Wrap(err, "unable to retrieve jobs for rss feed")
	}
	feed := &feeds.Feed{
		Title:       fmt.Sprintf("%s Jobs", g.siteName),
		Link:        &feeds.Link{Href: g.baseURL + "/"},
		Description: g.description,
		Created:     g.now(),
	}
	for _, j := range jobs {
		company := j.CompanyName
		if company == "" {
			company = "Confidential"
		}
		salary := render.FormatSalary(j.SalaryMin, j.SalaryMax, j.Currency)
		feed.Items = append(feed.Items, &feeds.Item{
			Title:       fmt.Sprintf("%s at %s", j.Title, company),
			Link:        &feeds.Link{Href: g.baseURL + seo.JobPath(j.ID)},
			Id:          g.baseURL + seo.JobPath(j.ID),
			Description: render.Markdown(j.Description + "\n\n**Salary:** " + salary).String(),
			Created:     j.CreatedAt,
		})
	}
	rss, err := feed.ToRss()
	if err != nil {
		return "", errors.Wrap(err, "unable to convert jobs feed to rss")
	}
	return rss, nil
}

// BlogsFeed lists the latest published posts as RSS 2.0.
func (g *Generator) BlogsFeed(ctx context.Context) (string, error) {
	posts, err := g.blogs.LatestPublished(ctx, g.feedLimit)
	if err != nil {
		return "", errors.Wrap(err, "unable to retrieve blogs for rss feed")
	}
	feed := &feeds.Feed{
		Title:       fmt.Sprintf("%s Blog", g.siteName),
		Link:        &feeds.Link{Href: g.baseURL + "/blogs"},
		Description: fmt.Sprintf("Career advice, hiring trends and job search tips from the %s blog.", g.siteName),
		Created:     g.now(),
	}
	for _, p := range posts {
		item := &feeds.Item{
			Title:       p.Title,
			Link:        &feeds.Link{Href: g.baseURL + seo.BlogPath(p.Slug)},
			Id:          g.baseURL + seo.BlogPath(p.Slug),
			Description: p.Summary,
		}
		if p.Author.Name != "" {
			item.Author = &feeds.Author{Name: p.Author.Name}
		}
		if p.PublishedAt != nil {
			item.Created = *p.PublishedAt
		}
		if p.UpdatedAt != nil {
			item.Updated = *p.UpdatedAt
		}
		feed.Items = append(feed.Items, item)
	}
	rss, err := feed.ToRss()
	if err != nil {
		return "", errors.Wrap(err, "unable to convert blogs feed to rss")
	}
	return rss, nil
}
