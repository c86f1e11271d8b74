package prerender

import (
	"fmt"
	"strings"
	"time"

	"github.com/jobboard/prerender/internal/blog"
	"github.com/jobboard/prerender/internal/job"
	"github.com/jobboard/prerender/internal/render"
	"github.com/jobboard/prerender/internal/resource"
	"github.com/jobboard/prerender/internal/seo"
)

const undisclosedCompany = "Confidential"

type JobTeaserView struct {
	Path     string
	Title    string
	Company  string
	Sector   string
	JobType  string
	WorkMode string
	Salary   string
	Posted   string
}

type HomeView struct {
	Jobs []JobTeaserView
}

type CompanyView struct {
	Name          string
	LogoURL       string
	Sector        string
	Website       string
	EmployeeCount string
	FoundedYear   int
	Headquarters  string
	Culture       string
}

type EligibilityView struct {
	Education       string
	Experience      string
	GraduationYears []string
	Notes           string
}

type JobDetailView struct {
	Path             string
	Title            string
	Description      render.Markup
	PlainDescription string
	JobType          string
	WorkMode         string
	Salary           string
	SalaryMin        *int64
	SalaryMax        *int64
	Currency         string
	PostedAt         time.Time
	Deadline         *time.Time
	Responsibilities []string
	Qualifications   []string
	Locations        []string
	Skills           []string
	Benefits         []string
	ApplyLink        string
	Company          CompanyView
	Eligibility      *EligibilityView
}

type BlogDetailView struct {
	Path          string
	Title         string
	Summary       string
	Content       render.Markup
	Thumbnail     string
	ReadTime      int
	PublishedAt   *time.Time
	ModifiedAt    *time.Time
	AuthorName    string
	AuthorURL     string
	AuthorPicture string
	Tags          []string
}

type BlogTeaserView struct {
	Path        string
	Title       string
	Summary     string
	AuthorName  string
	ReadTime    int
	PublishedAt *time.Time
}

type BlogListView struct {
	Posts []BlogTeaserView
}

type ResourcesView struct {
	Categories []resource.Category
}

func newHomeView(teasers []job.JobTeaser) HomeView {
	v := HomeView{Jobs: make([]JobTeaserView, 0, len(teasers))}
	for _, t := range teasers {
		company := t.CompanyName
		if company == "" {
			company = undisclosedCompany
		}
		v.Jobs = append(v.Jobs, JobTeaserView{
			Path:     seo.JobPath(t.ID),
			Title:    t.Title,
			Company:  company,
			Sector:   t.Sector,
			JobType:  t.JobType,
			WorkMode: t.WorkMode,
			Salary:   render.FormatSalary(t.SalaryMin, t.SalaryMax, t.Currency),
			Posted:   render.FormatDate(t.CreatedAt),
		})
	}
	return v
}

func newJobDetailView(j *job.JobPost) JobDetailView {
	currency := j.Currency
	if currency == "" {
		currency = render.DefaultCurrency
	}
	v := JobDetailView{
		Path:             seo.JobPath(j.ID),
		Title:            j.Title,
		Description:      render.Markdown(j.Description),
		JobType:          j.JobType,
		WorkMode:         j.WorkMode,
		Salary:           render.FormatSalary(j.SalaryMin, j.SalaryMax, currency),
		SalaryMin:        j.SalaryMin,
		SalaryMax:        j.SalaryMax,
		Currency:         currency,
		PostedAt:         j.CreatedAt,
		Deadline:         j.Deadline,
		Responsibilities: nonEmpty(j.Responsibilities),
		Qualifications:   nonEmpty(j.Qualifications),
		Locations:        nonEmpty(j.Locations),
		Skills:           nonEmpty(j.Skills),
		Benefits:         nonEmpty(j.Benefits),
		ApplyLink:        safeURL(j.ApplyLink),
		Company: CompanyView{
			Name:          j.Company.Name,
			LogoURL:       safeURL(j.Company.LogoURL),
			Sector:        j.Company.Sector,
			Website:       safeURL(j.Company.Website),
			EmployeeCount: j.Company.EmployeeCount,
			FoundedYear:   j.Company.FoundedYear,
			Headquarters:  j.Company.Headquarters,
			Culture:       j.Company.Culture,
		},
	}
	v.PlainDescription = render.PlainText(v.Description.String(), 0)
	if v.Company.Name == "" {
		v.Company.Name = undisclosedCompany
	}
	if e := j.Eligibility; e != nil {
		v.Eligibility = &EligibilityView{
			Education:       e.Education,
			Experience:      experienceRange(e.MinExperience, e.MaxExperience),
			GraduationYears: nonEmpty(e.GraduationYears),
			Notes:           e.Notes,
		}
	}
	return v
}

func newBlogDetailView(b *blog.BlogPost) BlogDetailView {
	modified := b.UpdatedAt
	if modified == nil {
		modified = b.PublishedAt
	}
	return BlogDetailView{
		Path:          seo.BlogPath(b.Slug),
		Title:         b.Title,
		Summary:       b.Summary,
		Content:       render.Sanitized(b.Content),
		Thumbnail:     safeURL(b.ThumbnailURL),
		ReadTime:      b.ReadTime,
		PublishedAt:   b.PublishedAt,
		ModifiedAt:    modified,
		AuthorName:    b.Author.Name,
		AuthorURL:     safeURL(b.Author.ProfileURL),
		AuthorPicture: safeURL(b.Author.PictureURL),
		Tags:          nonEmpty(b.Tags),
	}
}

func newBlogListView(posts []blog.BlogPost) BlogListView {
	v := BlogListView{Posts: make([]BlogTeaserView, 0, len(posts))}
	for _, p := range posts {
		v.Posts = append(v.Posts, BlogTeaserView{
			Path:        seo.BlogPath(p.Slug),
			Title:       p.Title,
			Summary:     p.Summary,
			AuthorName:  p.Author.Name,
			ReadTime:    p.ReadTime,
			PublishedAt: p.PublishedAt,
		})
	}
	return v
}

func experienceRange(min, max *int) string {
	switch {
	case min != nil && max != nil:
		return fmt.Sprintf("%d-%d years", *min, *max)
	case min != nil:
		return fmt.Sprintf("%d+ years", *min)
	case max != nil:
		return fmt.Sprintf("Up to %d years", *max)
	}
	return ""
}

// safeURL drops anything that is not an absolute http(s) url, so a stored
// javascript: link never ends up in an href.
func safeURL(u string) string {
	u = strings.TrimSpace(u)
	lower := strings.ToLower(u)
	if strings.HasPrefix(lower, "https://") || strings.HasPrefix(lower, "http://") {
		return u
	}
	return ""
}

func nonEmpty(items []string) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		if it = strings.TrimSpace(it); it != "" {
			out = append(out, it)
		}
	}
	return out
}
