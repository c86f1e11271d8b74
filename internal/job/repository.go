package job

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/pkg/errors"
)

var ErrNotFound = errors.New("job not found")

// activeFilter hides soft deleted jobs and jobs whose deadline is before $1.
// Every query in this file must include it.
const activeFilter = `j.deleted_at IS NULL AND (j.deadline IS NULL OR j.deadline >= $1::date)`

type Repository struct {
	db  *sql.DB
	now func() time.Time
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db, now: time.Now}
}

// today is the date (UTC) jobs are checked against for expiry.
func (r *Repository) today() string {
	return r.now().UTC().Format("2006-01-02")
}

func (r *Repository) LatestActive(ctx context.Context, limit int) ([]JobTeaser, error) {
	jobs := make([]JobTeaser, 0, limit)
	rows, err := r.db.QueryContext(ctx, `
	SELECT j.id, j.title, j.description, j.job_type, j.work_mode, j.salary_min, j.salary_max, j.currency, j.created_at, c.name, c.logo_url, c.sector
	FROM jobs j
	LEFT JOIN companies c ON c.id = j.company_id
	WHERE `+activeFilter+`
	ORDER BY j.created_at DESC
	LIMIT $2`, r.today(), limit)
	if err != nil {
		return jobs, errors.Wrap(err, "unable to query latest jobs")
	}
	defer rows.Close()
	for rows.Next() {
		var (
			j                                JobTeaser
			jobType, workMode, currency      sql.NullString
			companyName, companyLogo, sector sql.NullString
			salaryMin, salaryMax             sql.NullInt64
		)
		if err := rows.Scan(&j.ID, &j.Title, &j.Description, &jobType, &workMode, &salaryMin, &salaryMax, &currency, &j.CreatedAt, &companyName, &companyLogo, &sector); err != nil {
			return jobs, errors.Wrap(err, "unable to scan job teaser")
		}
		j.JobType = jobType.String
		j.WorkMode = workMode.String
		j.Currency = currency.String
		j.CompanyName = companyName.String
		j.CompanyLogo = companyLogo.String
		j.Sector = sector.String
		j.SalaryMin = nullInt64Ptr(salaryMin)
		j.SalaryMax = nullInt64Ptr(salaryMax)
		jobs = append(jobs, j)
	}
	if err := rows.Err(); err != nil {
		return jobs, errors.Wrap(err, "unable to iterate latest jobs")
	}
	return jobs, nil
}

// ActiveByID loads one active job with its company and relations. Deleted,
// expired and unknown ids all yield ErrNotFound.
func (r *Repository) ActiveByID(ctx context.Context, id uuid.UUID) (*JobPost, error) {
	row := r.db.QueryRowContext(ctx, `
	SELECT j.id, j.title, j.description, j.job_type, j.work_mode, j.salary_min, j.salary_max, j.currency, j.created_at, j.deadline, j.responsibilities, j.qualifications, j.apply_link,
		c.name, c.logo_url, c.sector, c.website, c.employee_count, c.founded_year, c.headquarters, c.culture,
		ARRAY(SELECT l.name FROM job_locations jl JOIN locations l ON l.id = jl.location_id WHERE jl.job_id = j.id ORDER BY l.name) AS locations,
		ARRAY(SELECT s.name FROM job_skills js JOIN skills s ON s.id = js.skill_id WHERE js.job_id = j.id ORDER BY s.name) AS skills,
		ARRAY(SELECT b.name FROM job_benefits jb JOIN benefits b ON b.id = jb.benefit_id WHERE jb.job_id = j.id ORDER BY b.name) AS benefits
	FROM jobs j
	LEFT JOIN companies c ON c.id = j.company_id
	WHERE `+activeFilter+`
	AND j.id = $2`, r.today(), id)

	job := &JobPost{}
	var jobType, workMode, currency, applyLink sql.NullString
	var companyName, logo, sector, website, employees, headquarters, culture sql.NullString
	var salaryMin, salaryMax, foundedYear sql.NullInt64
	var deadline sql.NullTime
	err := row.Scan(
		&job.ID, &job.Title, &job.Description, &jobType, &workMode, &salaryMin, &salaryMax, &currency, &job.CreatedAt, &deadline,
		pq.Array(&job.Responsibilities), pq.Array(&job.Qualifications), &applyLink,
		&companyName, &logo, &sector, &website, &employees, &foundedYear, &headquarters, &culture,
		pq.Array(&job.Locations), pq.Array(&job.Skills), pq.Array(&job.Benefits),
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrapf(err, "unable to fetch job %s", id)
	}
	job.JobType = jobType.String
	job.WorkMode = workMode.String
	job.Currency = currency.String
	job.ApplyLink = applyLink.String
	job.SalaryMin = nullInt64Ptr(salaryMin)
	job.SalaryMax = nullInt64Ptr(salaryMax)
	if deadline.Valid {
		d := deadline.Time
		job.Deadline = &d
	}
	job.Company.Name = companyName.String
	job.Company.LogoURL = logo.String
	job.Company.Sector = sector.String
	job.Company.Website = website.String
	job.Company.EmployeeCount = employees.String
	job.Company.FoundedYear = int(foundedYear.Int64)
	job.Company.Headquarters = headquarters.String
	job.Company.Culture = culture.String

	job.Eligibility, err = r.eligibilityForJob(ctx, job.ID)
	if err != nil {
		return nil, err
	}
	return job, nil
}

func (r *Repository) eligibilityForJob(ctx context.Context, id uuid.UUID) (*Eligibility, error) {
	row := r.db.QueryRowContext(ctx, `SELECT education, min_experience, max_experience, graduation_years, notes FROM eligibility_criteria WHERE job_id = $1`, id)
	e := &Eligibility{}
	var education, notes sql.NullString
	var minExp, maxExp sql.NullInt64
	err := row.Scan(&education, &minExp, &maxExp, pq.Array(&e.GraduationYears), &notes)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, "unable to fetch eligibility for job %s", id)
	}
	e.Education = education.String
	e.Notes = notes.String
	if minExp.Valid {
		v := int(minExp.Int64)
		e.MinExperience = &v
	}
	if maxExp.Valid {
		v := int(maxExp.Int64)
		e.MaxExperience = &v
	}
	return e, nil
}

// ActiveForSitemap lists every job that is neither deleted nor past its
// deadline as of today.
func (r *Repository) ActiveForSitemap(ctx context.Context, today time.Time) ([]SitemapEntry, error) {
	entries := make([]SitemapEntry, 0)
	rows, err := r.db.QueryContext(ctx, `
	SELECT j.id, j.updated_at
	FROM jobs j
	WHERE `+activeFilter+`
	ORDER BY j.created_at DESC`, today.UTC().Format("2006-01-02"))
	if err != nil {
		return entries, errors.Wrap(err, "unable to query sitemap jobs")
	}
	defer rows.Close()
	for rows.Next() {
		var e SitemapEntry
		var updatedAt sql.NullTime
		if err := rows.Scan(&e.ID, &updatedAt); err != nil {
			return entries, errors.Wrap(err, "unable to scan sitemap job")
		}
		if updatedAt.Valid {
			t := updatedAt.Time
			e.UpdatedAt = &t
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return entries, errors.Wrap(err, "unable to iterate sitemap jobs")
	}
	return entries, nil
}

func nullInt64Ptr(n sql.NullInt64) *int64 {
	if !n.Valid {
		return nil
	}
	v := n.Int64
	return &v
}
