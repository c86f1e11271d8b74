package blog

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockRepository(t *testing.T) (*Repository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewRepository(db), mock
}

func TestPublishedBySlug(t *testing.T) {
	repo, mock := newMockRepository(t)
	published := time.Date(2024, 3, 10, 8, 0, 0, 0, time.UTC)
	mock.ExpectQuery(`FROM blogs b\s+LEFT JOIN authors a ON a.id = b.author_id\s+WHERE b.slug = \$1 AND b.status = \$2`).
		WithArgs("go-interview-tips", "published").
		WillReturnRows(sqlmock.NewRows([]string{"title", "slug", "summary", "content", "thumbnail_url", "read_time", "published_at", "updated_at", "is_top_blog", "name", "profile_url", "picture_url", "tags"}).
			AddRow("Go Interview Tips", "go-interview-tips", "Prepare well", "<p>Hello</p>", nil, int64(6), published, nil, true, "Asha Rao", "https://example.com/asha", nil, "{Careers,Go}"))

	post, err := repo.PublishedBySlug(context.Background(), "go-interview-tips")
	require.NoError(t, err)
	assert.Equal(t, "Go Interview Tips", post.Title)
	assert.Equal(t, 6, post.ReadTime)
	assert.True(t, post.IsTopBlog)
	assert.Equal(t, "Asha Rao", post.Author.Name)
	assert.Equal(t, []string{"Careers", "Go"}, post.Tags)
	require.NotNil(t, post.PublishedAt)
	assert.Nil(t, post.UpdatedAt)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPublishedBySlugNotFound(t *testing.T) {
	repo, mock := newMockRepository(t)
	mock.ExpectQuery(`FROM blogs b`).WillReturnError(sql.ErrNoRows)

	post, err := repo.PublishedBySlug(context.Background(), "draft-post")
	assert.Nil(t, post)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLatestPublished(t *testing.T) {
	repo, mock := newMockRepository(t)
	newer := time.Date(2024, 3, 10, 8, 0, 0, 0, time.UTC)
	older := time.Date(2024, 1, 2, 8, 0, 0, 0, time.UTC)
	mock.ExpectQuery(`WHERE b.status = \$1\s+ORDER BY b.published_at DESC NULLS LAST\s+LIMIT \$2`).
		WithArgs("published", 50).
		WillReturnRows(sqlmock.NewRows([]string{"title", "slug", "summary", "thumbnail_url", "read_time", "published_at", "updated_at", "is_top_blog", "name"}).
			AddRow("Newer", "newer", "s1", nil, int64(3), newer, nil, false, "Asha Rao").
			AddRow("Older", "older", nil, nil, nil, older, older, false, nil))

	posts, err := repo.LatestPublished(context.Background(), 50)
	require.NoError(t, err)
	require.Len(t, posts, 2)
	assert.Equal(t, "newer", posts[0].Slug)
	assert.Equal(t, "", posts[1].Summary)
	assert.Equal(t, "", posts[1].Author.Name)
	assert.Equal(t, 0, posts[1].ReadTime)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPublishedForSitemapError(t *testing.T) {
	repo, mock := newMockRepository(t)
	mock.ExpectQuery(`SELECT slug, updated_at FROM blogs`).WillReturnError(sql.ErrConnDone)

	_, err := repo.PublishedForSitemap(context.Background())
	assert.ErrorIs(t, err, sql.ErrConnDone)
}
