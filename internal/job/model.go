package job

import (
	"time"

	"github.com/google/uuid"

	"github.com/jobboard/prerender/internal/company"
)

// JobTeaser is the slim row used by listings and feeds.
type JobTeaser struct {
	ID          uuid.UUID
	Title       string
	Description string
	CompanyName string
	CompanyLogo string
	Sector      string
	JobType     string
	WorkMode    string
	SalaryMin   *int64
	SalaryMax   *int64
	Currency    string
	CreatedAt   time.Time
}

// JobPost is a fully joined job posting, only ever loaded for active jobs.
type JobPost struct {
	ID               uuid.UUID
	Title            string
	Description      string
	JobType          string
	WorkMode         string
	SalaryMin        *int64
	SalaryMax        *int64
	Currency         string
	CreatedAt        time.Time
	Deadline         *time.Time
	Responsibilities []string
	Qualifications   []string
	ApplyLink        string
	Company          company.Company
	Locations        []string
	Skills           []string
	Benefits         []string
	Eligibility      *Eligibility
}

type Eligibility struct {
	Education       string
	MinExperience   *int
	MaxExperience   *int
	GraduationYears []string
	Notes           string
}

// SitemapEntry carries what the sitemap and route generator need per job.
type SitemapEntry struct {
	ID        uuid.UUID
	UpdatedAt *time.Time
}
