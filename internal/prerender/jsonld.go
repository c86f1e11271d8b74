package prerender

import (
	"strings"
	"time"
)

const schemaContext = "https://schema.org"

type searchAction struct {
	Type       string `json:"@type"`
	Target     string `json:"target"`
	QueryInput string `json:"query-input"`
}

type webSite struct {
	Context         string       `json:"@context"`
	Type            string       `json:"@type"`
	Name            string       `json:"name"`
	URL             string       `json:"url"`
	PotentialAction searchAction `json:"potentialAction"`
}

type imageObject struct {
	Type string `json:"@type"`
	URL  string `json:"url"`
}

type organization struct {
	Context     string       `json:"@context,omitempty"`
	Type        string       `json:"@type"`
	Name        string       `json:"name"`
	URL         string       `json:"url,omitempty"`
	SameAs      string       `json:"sameAs,omitempty"`
	Logo        *imageObject `json:"logo,omitempty"`
	Description string       `json:"description,omitempty"`
}

type postalAddress struct {
	Type            string `json:"@type"`
	AddressLocality string `json:"addressLocality"`
}

type place struct {
	Type    string        `json:"@type"`
	Address postalAddress `json:"address"`
}

type quantitativeValue struct {
	Type     string `json:"@type"`
	MinValue *int64 `json:"minValue,omitempty"`
	MaxValue *int64 `json:"maxValue,omitempty"`
	UnitText string `json:"unitText"`
}

type monetaryAmount struct {
	Type     string            `json:"@type"`
	Currency string            `json:"currency"`
	Value    quantitativeValue `json:"value"`
}

type jobPosting struct {
	Context            string          `json:"@context"`
	Type               string          `json:"@type"`
	Title              string          `json:"title"`
	Description        string          `json:"description"`
	DatePosted         string          `json:"datePosted"`
	ValidThrough       string          `json:"validThrough,omitempty"`
	EmploymentType     string          `json:"employmentType,omitempty"`
	JobLocationType    string          `json:"jobLocationType,omitempty"`
	HiringOrganization organization    `json:"hiringOrganization"`
	JobLocation        []place         `json:"jobLocation,omitempty"`
	BaseSalary         *monetaryAmount `json:"baseSalary,omitempty"`
	Skills             string          `json:"skills,omitempty"`
	URL                string          `json:"url"`
}

type person struct {
	Type string `json:"@type"`
	Name string `json:"name"`
	URL  string `json:"url,omitempty"`
}

type webPage struct {
	Type string `json:"@type"`
	ID   string `json:"@id"`
}

type blogPosting struct {
	Context          string       `json:"@context"`
	Type             string       `json:"@type"`
	Headline         string       `json:"headline"`
	Description      string       `json:"description,omitempty"`
	Image            string       `json:"image,omitempty"`
	DatePublished    string       `json:"datePublished,omitempty"`
	DateModified     string       `json:"dateModified,omitempty"`
	Author           *person      `json:"author,omitempty"`
	Publisher        organization `json:"publisher"`
	MainEntityOfPage webPage      `json:"mainEntityOfPage"`
	Keywords         string       `json:"keywords,omitempty"`
}

func newWebSite(siteName, baseURL string) webSite {
	return webSite{
		Context: schemaContext,
		Type:    "WebSite",
		Name:    siteName,
		URL:     baseURL + "/",
		PotentialAction: searchAction{
			Type:       "SearchAction",
			Target:     baseURL + "/?search={search_term_string}",
			QueryInput: "required name=search_term_string",
		},
	}
}

func newOrganization(siteName, baseURL, logoURL, description string) organization {
	org := organization{
		Context:     schemaContext,
		Type:        "Organization",
		Name:        siteName,
		URL:         baseURL + "/",
		Description: description,
	}
	if logoURL != "" {
		org.Logo = &imageObject{Type: "ImageObject", URL: logoURL}
	}
	return org
}

func newJobPosting(v JobDetailView, canonical string) jobPosting {
	jp := jobPosting{
		Context:        schemaContext,
		Type:           "JobPosting",
		Title:          v.Title,
		Description:    v.Description.String(),
		DatePosted:     v.PostedAt.UTC().Format("2006-01-02"),
		EmploymentType: employmentType(v.JobType),
		HiringOrganization: organization{
			Type:   "Organization",
			Name:   v.Company.Name,
			SameAs: v.Company.Website,
		},
		Skills: strings.Join(v.Skills, ", "),
		URL:    canonical,
	}
	if v.Company.LogoURL != "" {
		jp.HiringOrganization.Logo = &imageObject{Type: "ImageObject", URL: v.Company.LogoURL}
	}
	if v.Deadline != nil {
		jp.ValidThrough = v.Deadline.UTC().Format(time.RFC3339)
	}
	if strings.EqualFold(v.WorkMode, "remote") {
		jp.JobLocationType = "TELECOMMUTE"
	}
	for _, loc := range v.Locations {
		jp.JobLocation = append(jp.JobLocation, place{
			Type:    "Place",
			Address: postalAddress{Type: "PostalAddress", AddressLocality: loc},
		})
	}
	if v.SalaryMin != nil || v.SalaryMax != nil {
		jp.BaseSalary = &monetaryAmount{
			Type:     "MonetaryAmount",
			Currency: v.Currency,
			Value: quantitativeValue{
				Type:     "QuantitativeValue",
				MinValue: v.SalaryMin,
				MaxValue: v.SalaryMax,
				UnitText: "YEAR",
			},
		}
	}
	return jp
}

func newBlogPosting(v BlogDetailView, canonical, siteName, logoURL string) blogPosting {
	bp := blogPosting{
		Context:     schemaContext,
		Type:        "BlogPosting",
		Headline:    v.Title,
		Description: v.Summary,
		Image:       v.Thumbnail,
		Publisher: organization{
			Type: "Organization",
			Name: siteName,
		},
		MainEntityOfPage: webPage{Type: "WebPage", ID: canonical},
		Keywords:         strings.Join(v.Tags, ", "),
	}
	if logoURL != "" {
		bp.Publisher.Logo = &imageObject{Type: "ImageObject", URL: logoURL}
	}
	if v.PublishedAt != nil {
		bp.DatePublished = v.PublishedAt.UTC().Format(time.RFC3339)
	}
	if v.ModifiedAt != nil {
		bp.DateModified = v.ModifiedAt.UTC().Format(time.RFC3339)
	}
	if v.AuthorName != "" {
		bp.Author = &person{Type: "Person", Name: v.AuthorName, URL: v.AuthorURL}
	}
	return bp
}

// employmentType maps "Full-time" style labels to schema.org values like FULL_TIME.
func employmentType(jobType string) string {
	if jobType == "" {
		return ""
	}
	return strings.ToUpper(strings.NewReplacer("-", "_", " ", "_").Replace(strings.TrimSpace(jobType)))
}
