package resource

import (
	"context"
	"database/sql"

	"github.com/pkg/errors"
)

type Category struct {
	Name        string
	Slug        string
	Description string
}

// StaticRoute is a crawlable path maintained in sitemap_routes. Priority and
// ChangeFrequency are empty when the row leaves them null.
type StaticRoute struct {
	Path            string
	Priority        *float64
	ChangeFrequency string
}

type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db}
}

func (r *Repository) TopLevelCategories(ctx context.Context) ([]Category, error) {
	categories := make([]Category, 0)
	rows, err := r.db.QueryContext(ctx, `SELECT name, slug, description FROM resource_categories WHERE parent_id IS NULL ORDER BY sort_order, name`)
	if err != nil {
		return categories, errors.Wrap(err, "unable to query resource categories")
	}
	defer rows.Close()
	for rows.Next() {
		var c Category
		var description sql.NullString
		if err := rows.Scan(&c.Name, &c.Slug, &description); err != nil {
			return categories, errors.Wrap(err, "unable to scan resource category")
		}
		c.Description = description.String
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return categories, errors.Wrap(err, "unable to iterate resource categories")
	}
	return categories, nil
}

func (r *Repository) ActiveStaticRoutes(ctx context.Context) ([]StaticRoute, error) {
	routes := make([]StaticRoute, 0)
	rows, err := r.db.QueryContext(ctx, `SELECT path, priority, change_frequency FROM sitemap_routes WHERE is_active = TRUE ORDER BY path`)
	if err != nil {
		return routes, errors.Wrap(err, "unable to query sitemap routes")
	}
	defer rows.Close()
	for rows.Next() {
		var s StaticRoute
		var priority sql.NullFloat64
		var changeFrequency sql.NullString
		if err := rows.Scan(&s.Path, &priority, &changeFrequency); err != nil {
			return routes, errors.Wrap(err, "unable to scan sitemap route")
		}
		if priority.Valid {
			p := priority.Float64
			s.Priority = &p
		}
		s.ChangeFrequency = changeFrequency.String
		routes = append(routes, s)
	}
	if err := rows.Err(); err != nil {
		return routes, errors.Wrap(err, "unable to iterate sitemap routes")
	}
	return routes, nil
}
