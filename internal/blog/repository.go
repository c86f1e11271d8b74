package blog

import (
	"context"
	"database/sql"
	"time"

	"github.com/lib/pq"
	"github.com/pkg/errors"
)

var ErrNotFound = errors.New("blog post not found")

type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db}
}

func (r Repository) PublishedBySlug(ctx context.Context, slug string) (*BlogPost, error) {
	row := r.db.QueryRowContext(ctx, `
	SELECT b.title, b.slug, b.summary, b.content, b.thumbnail_url, b.read_time, b.published_at, b.updated_at, b.is_top_blog,
		a.name, a.profile_url, a.picture_url,
		ARRAY(SELECT t.name FROM blog_tags bt JOIN tags t ON t.id = bt.tag_id WHERE bt.blog_id = b.id ORDER BY t.name) AS tags
	FROM blogs b
	LEFT JOIN authors a ON a.id = b.author_id
	WHERE b.slug = $1 AND b.status = $2
	LIMIT 1`, slug, StatusPublished)
	bp := &BlogPost{}
	var summary, thumbnail, authorName, authorURL, authorPicture sql.NullString
	var readTime sql.NullInt64
	var publishedAt, updatedAt sql.NullTime
	err := row.Scan(&bp.Title, &bp.Slug, &summary, &bp.Content, &thumbnail, &readTime, &publishedAt, &updatedAt, &bp.IsTopBlog,
		&authorName, &authorURL, &authorPicture, pq.Array(&bp.Tags))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrapf(err, "unable to fetch blog %s", slug)
	}
	bp.Summary = summary.String
	bp.ThumbnailURL = thumbnail.String
	bp.ReadTime = int(readTime.Int64)
	bp.PublishedAt = nullTimePtr(publishedAt)
	bp.UpdatedAt = nullTimePtr(updatedAt)
	bp.Author = Author{Name: authorName.String, ProfileURL: authorURL.String, PictureURL: authorPicture.String}
	return bp, nil
}

// LatestPublished returns published posts newest first. Content is not loaded.
func (r Repository) LatestPublished(ctx context.Context, limit int) ([]BlogPost, error) {
	all := make([]BlogPost, 0, limit)
	rows, err := r.db.QueryContext(ctx, `
	SELECT b.title, b.slug, b.summary, b.thumbnail_url, b.read_time, b.published_at, b.updated_at, b.is_top_blog, a.name
	FROM blogs b
	LEFT JOIN authors a ON a.id = b.author_id
	WHERE b.status = $1
	ORDER BY b.published_at DESC NULLS LAST
	LIMIT $2`, StatusPublished, limit)
	if err != nil {
		return all, errors.Wrap(err, "unable to query published blogs")
	}
	defer rows.Close()
	for rows.Next() {
		var bp BlogPost
		var summary, thumbnail, authorName sql.NullString
		var readTime sql.NullInt64
		var publishedAt, updatedAt sql.NullTime
		if err := rows.Scan(&bp.Title, &bp.Slug, &summary, &thumbnail, &readTime, &publishedAt, &updatedAt, &bp.IsTopBlog, &authorName); err != nil {
			return all, errors.Wrap(err, "unable to scan published blog")
		}
		bp.Summary = summary.String
		bp.ThumbnailURL = thumbnail.String
		bp.ReadTime = int(readTime.Int64)
		bp.PublishedAt = nullTimePtr(publishedAt)
		bp.UpdatedAt = nullTimePtr(updatedAt)
		bp.Author.Name = authorName.String
		all = append(all, bp)
	}
	if err := rows.Err(); err != nil {
		return all, errors.Wrap(err, "unable to iterate published blogs")
	}
	return all, nil
}

func (r Repository) PublishedForSitemap(ctx context.Context) ([]SitemapEntry, error) {
	entries := make([]SitemapEntry, 0)
	rows, err := r.db.QueryContext(ctx, `SELECT slug, updated_at FROM blogs WHERE status = $1 ORDER BY published_at DESC NULLS LAST`, StatusPublished)
	if err != nil {
		return entries, errors.Wrap(err, "unable to query sitemap blogs")
	}
	defer rows.Close()
	for rows.Next() {
		var e SitemapEntry
		var updatedAt sql.NullTime
		if err := rows.Scan(&e.Slug, &updatedAt); err != nil {
			return entries, errors.Wrap(err, "unable to scan sitemap blog")
		}
		e.UpdatedAt = nullTimePtr(updatedAt)
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return entries, errors.Wrap(err, "unable to iterate sitemap blogs")
	}
	return entries, nil
}

func nullTimePtr(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time
	return &v
}
