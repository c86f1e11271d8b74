package database

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"
	"github.com/pkg/errors"
)

// Table Structure (owned by the admin backend, read-only here):
//
// CREATE TABLE IF NOT EXISTS companies (
//   id              UUID PRIMARY KEY DEFAULT gen_random_uuid(),
//   name            VARCHAR(255) NOT NULL,
//   logo_url        TEXT DEFAULT NULL,
//   sector          VARCHAR(255) DEFAULT NULL,
//   website         TEXT DEFAULT NULL,
//   employee_count  VARCHAR(50) DEFAULT NULL,
//   founded_year    INTEGER DEFAULT NULL,
//   headquarters    VARCHAR(255) DEFAULT NULL,
//   culture         TEXT DEFAULT NULL
// );
//
// CREATE TABLE IF NOT EXISTS jobs (
//   id               UUID PRIMARY KEY DEFAULT gen_random_uuid(),
//   company_id       UUID REFERENCES companies (id),
//   title            VARCHAR(255) NOT NULL,
//   description      TEXT NOT NULL DEFAULT '',
//   job_type         VARCHAR(50) DEFAULT NULL,
//   work_mode        VARCHAR(50) DEFAULT NULL,
//   salary_min       BIGINT DEFAULT NULL,
//   salary_max       BIGINT DEFAULT NULL,
//   currency         CHAR(3) DEFAULT NULL,
//   responsibilities TEXT[] NOT NULL DEFAULT '{}',
//   qualifications   TEXT[] NOT NULL DEFAULT '{}',
//   apply_link       TEXT DEFAULT NULL,
//   deadline         DATE DEFAULT NULL,
//   created_at       TIMESTAMPTZ NOT NULL DEFAULT NOW(),
//   updated_at       TIMESTAMPTZ DEFAULT NULL,
//   deleted_at       TIMESTAMPTZ DEFAULT NULL
// );
// CREATE INDEX jobs_active_idx ON jobs (created_at DESC) WHERE deleted_at IS NULL;
//
// CREATE TABLE IF NOT EXISTS locations (id UUID PRIMARY KEY, name VARCHAR(255) NOT NULL);
// CREATE TABLE IF NOT EXISTS job_locations (job_id UUID REFERENCES jobs (id), location_id UUID REFERENCES locations (id));
// CREATE TABLE IF NOT EXISTS skills (id UUID PRIMARY KEY, name VARCHAR(255) NOT NULL);
// CREATE TABLE IF NOT EXISTS job_skills (job_id UUID REFERENCES jobs (id), skill_id UUID REFERENCES skills (id));
// CREATE TABLE IF NOT EXISTS benefits (id UUID PRIMARY KEY, name VARCHAR(255) NOT NULL);
// CREATE TABLE IF NOT EXISTS job_benefits (job_id UUID REFERENCES jobs (id), benefit_id UUID REFERENCES benefits (id));
//
// CREATE TABLE IF NOT EXISTS eligibility_criteria (
//   job_id           UUID PRIMARY KEY REFERENCES jobs (id),
//   education        TEXT DEFAULT NULL,
//   min_experience   INTEGER DEFAULT NULL,
//   max_experience   INTEGER DEFAULT NULL,
//   graduation_years TEXT[] NOT NULL DEFAULT '{}',
//   notes            TEXT DEFAULT NULL
// );
//
// CREATE TABLE IF NOT EXISTS authors (
//   id          UUID PRIMARY KEY,
//   name        VARCHAR(255) NOT NULL,
//   profile_url TEXT DEFAULT NULL,
//   picture_url TEXT DEFAULT NULL
// );
//
// CREATE TABLE IF NOT EXISTS blogs (
//   id            UUID PRIMARY KEY DEFAULT gen_random_uuid(),
//   author_id     UUID REFERENCES authors (id),
//   title         VARCHAR(255) NOT NULL,
//   slug          VARCHAR(255) NOT NULL,
//   summary       TEXT DEFAULT NULL,
//   content       TEXT NOT NULL DEFAULT '',
//   thumbnail_url TEXT DEFAULT NULL,
//   read_time     INTEGER DEFAULT NULL,
//   status        VARCHAR(20) NOT NULL DEFAULT 'draft',
//   is_top_blog   BOOLEAN NOT NULL DEFAULT FALSE,
//   published_at  TIMESTAMPTZ DEFAULT NULL,
//   updated_at    TIMESTAMPTZ DEFAULT NULL
// );
// CREATE INDEX blogs_slug_idx ON blogs (slug);
//
// CREATE TABLE IF NOT EXISTS tags (id UUID PRIMARY KEY, name VARCHAR(100) NOT NULL);
// CREATE TABLE IF NOT EXISTS blog_tags (blog_id UUID REFERENCES blogs (id), tag_id UUID REFERENCES tags (id));
//
// CREATE TABLE IF NOT EXISTS sitemap_routes (
//   path             VARCHAR(255) NOT NULL UNIQUE,
//   priority         NUMERIC(2,1) DEFAULT NULL,
//   change_frequency VARCHAR(20) DEFAULT NULL,
//   is_active        BOOLEAN NOT NULL DEFAULT TRUE
// );
//
// CREATE TABLE IF NOT EXISTS resource_categories (
//   id          UUID PRIMARY KEY,
//   name        VARCHAR(255) NOT NULL,
//   slug        VARCHAR(255) NOT NULL,
//   description TEXT DEFAULT NULL,
//   parent_id   UUID DEFAULT NULL REFERENCES resource_categories (id),
//   sort_order  INTEGER NOT NULL DEFAULT 0
// );

// GetDbConn opens a pooled postgres connection and verifies it with a ping
func GetDbConn(databaseURL string) (*sql.DB, error) {
	if databaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL cannot be empty")
	}
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, errors.Wrap(err, "unable to open postgres connection")
	}
	err = db.Ping()
	if err != nil {
		return nil, errors.Wrap(err, "unable to ping postgres")
	}
	db.SetMaxOpenConns(20)
	db.SetMaxIdleConns(20)
	db.SetConnMaxLifetime(5 * time.Minute)
	return db, nil
}

// CloseDbConn closes db conn
func CloseDbConn(conn *sql.DB) {
	conn.Close()
}
