package job

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2024, 5, 1, 22, 30, 0, 0, time.UTC)

func newMockRepository(t *testing.T) (*Repository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	repo := NewRepository(db)
	repo.now = func() time.Time { return fixedNow }
	return repo, mock
}

func TestLatestActive(t *testing.T) {
	repo, mock := newMockRepository(t)
	id := uuid.MustParse("11111111-1111-1111-1111-111111111111")
	created := time.Date(2024, 4, 20, 9, 0, 0, 0, time.UTC)

	rows := sqlmock.NewRows([]string{"id", "title", "description", "job_type", "work_mode", "salary_min", "salary_max", "currency", "created_at", "name", "logo_url", "sector"}).
		AddRow(id.String(), "Backend Engineer", "Build APIs", "Full-time", "Remote", int64(800000), nil, "INR", created, "Acme Corp", nil, "Fintech")
	mock.ExpectQuery(`FROM jobs j\s+LEFT JOIN companies c .*j.deleted_at IS NULL AND \(j.deadline IS NULL OR j.deadline >= \$1::date\).*LIMIT \$2`).
		WithArgs("2024-05-01", 50).
		WillReturnRows(rows)

	jobs, err := repo.LatestActive(context.Background(), 50)
	require.NoError(t, err)
	require.Len(t, jobs, 1)
	assert.Equal(t, id, jobs[0].ID)
	assert.Equal(t, "Acme Corp", jobs[0].CompanyName)
	assert.Equal(t, "", jobs[0].CompanyLogo)
	require.NotNil(t, jobs[0].SalaryMin)
	assert.Equal(t, int64(800000), *jobs[0].SalaryMin)
	assert.Nil(t, jobs[0].SalaryMax)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestLatestActiveQueryError(t *testing.T) {
	repo, mock := newMockRepository(t)
	mock.ExpectQuery(`FROM jobs j`).WillReturnError(sql.ErrConnDone)

	jobs, err := repo.LatestActive(context.Background(), 10)
	require.Error(t, err)
	assert.ErrorIs(t, err, sql.ErrConnDone)
	assert.Empty(t, jobs)
}

func TestActiveByID(t *testing.T) {
	repo, mock := newMockRepository(t)
	id := uuid.MustParse("11111111-1111-1111-1111-111111111111")
	created := time.Date(2024, 4, 20, 9, 0, 0, 0, time.UTC)
	deadline := time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC)

	rows := sqlmock.NewRows([]string{
		"id", "title", "description", "job_type", "work_mode", "salary_min", "salary_max", "currency", "created_at", "deadline", "responsibilities", "qualifications", "apply_link",
		"name", "logo_url", "sector", "website", "employee_count", "founded_year", "headquarters", "culture",
		"locations", "skills", "benefits",
	}).AddRow(
		id.String(), "Backend Engineer", "Build APIs", "Full-time", "Hybrid", int64(800000), int64(1200000), "INR", created, deadline, "{\"Own services\",\"Review code\"}", "{Go}", "https://acme.example/apply",
		"Acme Corp", "https://acme.example/logo.png", "Fintech", "https://acme.example", "50-200", int64(2012), "Bengaluru", nil,
		"{Bengaluru,Pune}", "{Go,PostgreSQL}", "{}",
	)
	mock.ExpectQuery(`FROM jobs j\s+LEFT JOIN companies c .*AND j.id = \$2`).
		WithArgs("2024-05-01", id.String()).
		WillReturnRows(rows)
	mock.ExpectQuery(`FROM eligibility_criteria WHERE job_id = \$1`).
		WithArgs(id.String()).
		WillReturnRows(sqlmock.NewRows([]string{"education", "min_experience", "max_experience", "graduation_years", "notes"}).
			AddRow("B.Tech", int64(2), nil, "{2022,2023}", nil))

	job, err := repo.ActiveByID(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "Backend Engineer", job.Title)
	assert.Equal(t, []string{"Own services", "Review code"}, job.Responsibilities)
	assert.Equal(t, []string{"Bengaluru", "Pune"}, job.Locations)
	assert.Empty(t, job.Benefits)
	assert.Equal(t, 2012, job.Company.FoundedYear)
	assert.Equal(t, "", job.Company.Culture)
	require.NotNil(t, job.Deadline)
	assert.True(t, deadline.Equal(*job.Deadline))
	require.NotNil(t, job.Eligibility)
	assert.Equal(t, "B.Tech", job.Eligibility.Education)
	require.NotNil(t, job.Eligibility.MinExperience)
	assert.Equal(t, 2, *job.Eligibility.MinExperience)
	assert.Nil(t, job.Eligibility.MaxExperience)
	assert.Equal(t, []string{"2022", "2023"}, job.Eligibility.GraduationYears)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestActiveByIDWithoutEligibility(t *testing.T) {
	repo, mock := newMockRepository(t)
	id := uuid.New()
	rows := sqlmock.NewRows([]string{
		"id", "title", "description", "job_type", "work_mode", "salary_min", "salary_max", "currency", "created_at", "deadline", "responsibilities", "qualifications", "apply_link",
		"name", "logo_url", "sector", "website", "employee_count", "founded_year", "headquarters", "culture",
		"locations", "skills", "benefits",
	}).AddRow(
		id.String(), "QA Analyst", "", nil, nil, nil, nil, nil, fixedNow, nil, "{}", "{}", nil,
		nil, nil, nil, nil, nil, nil, nil, nil,
		"{}", "{}", "{}",
	)
	mock.ExpectQuery(`FROM jobs j`).WillReturnRows(rows)
	mock.ExpectQuery(`FROM eligibility_criteria`).WillReturnError(sql.ErrNoRows)

	job, err := repo.ActiveByID(context.Background(), id)
	require.NoError(t, err)
	assert.Nil(t, job.Eligibility)
	assert.Nil(t, job.Deadline)
	assert.Equal(t, "", job.Company.Name)
}

func TestActiveByIDNotFound(t *testing.T) {
	repo, mock := newMockRepository(t)
	mock.ExpectQuery(`FROM jobs j`).WillReturnError(sql.ErrNoRows)

	job, err := repo.ActiveByID(context.Background(), uuid.New())
	assert.Nil(t, job)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestActiveByIDDatabaseErrorIsNotNotFound(t *testing.T) {
	repo, mock := newMockRepository(t)
	mock.ExpectQuery(`FROM jobs j`).WillReturnError(sql.ErrConnDone)

	_, err := repo.ActiveByID(context.Background(), uuid.New())
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
}

func TestActiveForSitemap(t *testing.T) {
	repo, mock := newMockRepository(t)
	updated := time.Date(2024, 4, 28, 15, 0, 0, 0, time.UTC)
	first, second := uuid.New(), uuid.New()
	mock.ExpectQuery(`SELECT j.id, j.updated_at\s+FROM jobs j\s+WHERE j.deleted_at IS NULL`).
		WithArgs("2024-05-01").
		WillReturnRows(sqlmock.NewRows([]string{"id", "updated_at"}).
			AddRow(first.String(), updated).
			AddRow(second.String(), nil))

	entries, err := repo.ActiveForSitemap(context.Background(), fixedNow)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, first, entries[0].ID)
	require.NotNil(t, entries[0].UpdatedAt)
	assert.Nil(t, entries[1].UpdatedAt)
	require.NoError(t, mock.ExpectationsWereMet())
}
