package prerender

import (
	"strings"

	"github.com/jobboard/prerender/internal/render"
)

// staticPage copy may contain {site}, replaced with the configured site name.
type staticPage struct {
	Title       string
	Description string
	Heading     string
	Paragraphs  []string
	Links       []render.NavLink
}

var resourceLinks = []render.NavLink{
	{Path: "/resources/career-guides", Label: "Career Guides"},
	{Path: "/resources/interview-tips", Label: "Interview Tips"},
	{Path: "/resources/resume-templates", Label: "Resume Templates"},
	{Path: "/resources/salary-insights", Label: "Salary Insights"},
}

var staticPages = map[string]staticPage{
	"/about": {
		Title:       "About {site}",
		Description: "Learn about {site}, the job board connecting job seekers with verified employers.",
		Heading:     "About {site}",
		Paragraphs: []string{
			"{site} helps job seekers discover verified openings from companies that are actively hiring.",
			"Every listing is reviewed before it goes live and removed once its application deadline has passed.",
		},
	},
	"/resources": {
		Title:       "Career Resources",
		Description: "Career guides, interview tips, resume templates and salary insights from {site}.",
		Heading:     "Career Resources",
		Paragraphs: []string{
			"Practical material to help you plan your career, prepare for interviews and negotiate offers.",
		},
		Links: resourceLinks,
	},
	"/resources/career-guides": {
		Title:       "Career Guides",
		Description: "Step by step career guides for students, freshers and experienced professionals.",
		Heading:     "Career Guides",
		Paragraphs: []string{
			"Explore guides on choosing a career path, switching industries and growing into senior roles.",
		},
		Links: []render.NavLink{{Path: "/resources", Label: "All resources"}},
	},
	"/resources/interview-tips": {
		Title:       "Interview Tips",
		Description: "Interview preparation tips, common questions and how to answer them.",
		Heading:     "Interview Tips",
		Paragraphs: []string{
			"Prepare for technical, HR and behavioural rounds with advice from recruiters and hiring managers.",
		},
		Links: []render.NavLink{{Path: "/resources", Label: "All resources"}},
	},
	"/resources/resume-templates": {
		Title:       "Resume Templates",
		Description: "Free resume templates and formatting advice that get past applicant tracking systems.",
		Heading:     "Resume Templates",
		Paragraphs: []string{
			"Pick a template that matches your experience level and tailor it to each application.",
		},
		Links: []render.NavLink{{Path: "/resources", Label: "All resources"}},
	},
	"/resources/salary-insights": {
		Title:       "Salary Insights",
		Description: "Salary ranges by role, experience and location to help you negotiate with confidence.",
		Heading:     "Salary Insights",
		Paragraphs: []string{
			"Compare the salary ranges published on {site} job listings across roles and cities.",
		},
		Links: []render.NavLink{{Path: "/resources", Label: "All resources"}},
	},
	"/contact": {
		Title:       "Contact Us",
		Description: "Get in touch with the {site} team for support, partnerships or feedback.",
		Heading:     "Contact Us",
		Paragraphs: []string{
			"Have a question about a listing, your account or advertising with us? Write to the {site} team and we will get back to you within two working days.",
		},
	},
	"/privacy-policy": {
		Title:       "Privacy Policy",
		Description: "How {site} collects, uses and protects your personal information.",
		Heading:     "Privacy Policy",
		Paragraphs: []string{
			"We collect only the information needed to operate {site} and never sell personal data to third parties.",
			"You can request a copy or the deletion of your data at any time by contacting us.",
		},
	},
	"/terms": {
		Title:       "Terms and Conditions",
		Description: "The terms and conditions for using {site}.",
		Heading:     "Terms and Conditions",
		Paragraphs: []string{
			"By using {site} you agree to these terms. Employers are responsible for the accuracy of their listings.",
		},
	},
	"/disclaimer": {
		Title:       "Disclaimer",
		Description: "Important information about job listings and content published on {site}.",
		Heading:     "Disclaimer",
		Paragraphs: []string{
			"{site} never charges candidates to apply for a job. Report any listing that asks you for payment.",
		},
	},
	"/cookie-policy": {
		Title:       "Cookie Policy",
		Description: "How {site} uses cookies and similar technologies.",
		Heading:     "Cookie Policy",
		Paragraphs: []string{
			"We use essential cookies to keep the site working and analytics cookies to understand how it is used.",
		},
	},
	"/advertise": {
		Title:       "Advertise With Us",
		Description: "Reach thousands of active job seekers by advertising on {site}.",
		Heading:     "Advertise With Us",
		Paragraphs: []string{
			"Promote your openings or your employer brand to an engaged audience of job seekers.",
		},
		Links: []render.NavLink{{Path: "/contact", Label: "Contact our team"}},
	},
	"/sitemap": {
		Title:       "Sitemap",
		Description: "Every section of {site} in one place.",
		Heading:     "Sitemap",
		Paragraphs: []string{
			"Browse all the main sections of {site}.",
		},
	},
}

func (p staticPage) withSiteName(siteName string) staticPage {
	r := strings.NewReplacer("{site}", siteName)
	out := staticPage{
		Title:       r.Replace(p.Title),
		Description: r.Replace(p.Description),
		Heading:     r.Replace(p.Heading),
		Links:       p.Links,
	}
	for _, para := range p.Paragraphs {
		out.Paragraphs = append(out.Paragraphs, r.Replace(para))
	}
	return out
}

func (p staticPage) body(extra ...render.Markup) render.Markup {
	parts := []render.Markup{render.El("h1", render.Text(p.Heading))}
	for _, para := range p.Paragraphs {
		parts = append(parts, render.El("p", render.Text(para)))
	}
	if len(p.Links) > 0 {
		parts = append(parts, navList(p.Links))
	}
	parts = append(parts, extra...)
	return render.El("section", parts...)
}

func navList(links []render.NavLink) render.Markup {
	items := make([]render.Markup, 0, len(links))
	for _, l := range links {
		items = append(items, render.El("li", render.Link(l.Path, l.Label)))
	}
	return render.El("ul", items...)
}
