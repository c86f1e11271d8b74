package render

import (
	"encoding/json"
	"strings"

	"github.com/pkg/errors"
)

// Meta is an extra head tag. Exactly one of Name or Property is set.
type Meta struct {
	Name     string
	Property string
	Content  string
}

type Document struct {
	Title       string
	Description string
	Path        string
	Image       string
	OGType      string
	ExtraMeta   []Meta
	// StructuredData is encoded as a single JSON-LD block when not nil.
	StructuredData interface{}
	Body           Markup
}

type NavLink struct {
	Path  string
	Label string
}

var (
	headerNav = []NavLink{
		{"/", "Jobs"},
		{"/blogs", "Blog"},
		{"/resources", "Resources"},
		{"/about", "About"},
		{"/contact", "Contact"},
	}
	footerNav = []NavLink{
		{"/about", "About"},
		{"/contact", "Contact"},
		{"/advertise", "Advertise"},
		{"/privacy-policy", "Privacy Policy"},
		{"/terms", "Terms"},
		{"/disclaimer", "Disclaimer"},
		{"/cookie-policy", "Cookie Policy"},
		{"/sitemap", "Sitemap"},
	}
)

type Renderer struct {
	SiteName    string
	BaseURL     string
	Description string
}

func NewRenderer(siteName, baseURL, description string) *Renderer {
	return &Renderer{
		SiteName:    siteName,
		BaseURL:     strings.TrimSuffix(baseURL, "/"),
		Description: description,
	}
}

func (r *Renderer) Title(title string) string {
	if title == "" {
		return r.SiteName
	}
	if strings.Contains(title, r.SiteName) {
		return title
	}
	return title + " | " + r.SiteName
}

func (r *Renderer) Canonical(path string) string {
	if path == "" {
		path = "/"
	}
	return r.BaseURL + path
}

func (r *Renderer) Render(doc Document) (string, error) {
	title := r.Title(doc.Title)
	description := doc.Description
	if description == "" {
		description = r.Description
	}
	ogType := doc.OGType
	if ogType == "" {
		ogType = "website"
	}
	canonical := r.Canonical(doc.Path)

	head := []Markup{
		ElAttrs("meta", []Attr{{"charset", "utf-8"}}),
		ElAttrs("meta", []Attr{{"name", "viewport"}, {"content", "width=device-width, initial-scale=1"}}),
		El("title", Text(title)),
		nameMeta("description", description),
		ElAttrs("link", []Attr{{"rel", "canonical"}, {"href", canonical}}),
		ElAttrs("link", []Attr{{"rel", "icon"}, {"href", "/favicon.ico"}}),
		propertyMeta("og:title", title),
		propertyMeta("og:description", description),
		propertyMeta("og:type", ogType),
		propertyMeta("og:url", canonical),
		propertyMeta("og:site_name", r.SiteName),
	}
	if doc.Image != "" {
		head = append(head, propertyMeta("og:image", doc.Image))
	}
	head = append(head,
		nameMeta("twitter:card", "summary"),
		nameMeta("twitter:title", title),
		nameMeta("twitter:description", description),
	)
	if doc.Image != "" {
		head = append(head, nameMeta("twitter:image", doc.Image))
	}
	for _, m := range doc.ExtraMeta {
		if m.Property != "" {
			head = append(head, propertyMeta(m.Property, m.Content))
			continue
		}
		head = append(head, nameMeta(m.Name, m.Content))
	}
	if doc.StructuredData != nil {
		ld, err := json.Marshal(doc.StructuredData)
		if err != nil {
			return "", errors.Wrap(err, "unable to encode structured data")
		}
		head = append(head, ElAttrs("script", []Attr{{"type", "application/ld+json"}}, raw(string(ld))))
	}

	var b strings.Builder
	b.WriteString("<!DOCTYPE html>\n")
	b.WriteString(`<html lang="en">`)
	b.WriteString("\n<head>\n")
	for _, m := range head {
		b.WriteString(m.String())
		b.WriteString("\n")
	}
	b.WriteString("</head>\n<body>\n")
	b.WriteString(El("header", r.nav(headerNav, Link("/", r.SiteName))).String())
	b.WriteString("\n")
	b.WriteString(El("main", doc.Body).String())
	b.WriteString("\n")
	b.WriteString(El("footer", r.nav(footerNav, El("p", Textf("© %s", r.SiteName)))).String())
	b.WriteString("\n</body>\n</html>\n")
	return b.String(), nil
}

func (r *Renderer) nav(links []NavLink, extra Markup) Markup {
	items := make([]Markup, 0, len(links))
	for _, l := range links {
		items = append(items, El("li", Link(l.Path, l.Label)))
	}
	return Group(extra, El("nav", El("ul", items...)))
}

func nameMeta(name, content string) Markup {
	return ElAttrs("meta", []Attr{{"name", name}, {"content", content}})
}

func propertyMeta(property, content string) Markup {
	return ElAttrs("meta", []Attr{{"property", property}, {"content", content}})
}
