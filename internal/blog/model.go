package blog

import "time"

const StatusPublished = "published"

type Author struct {
	Name       string
	ProfileURL string
	PictureURL string
}

type BlogPost struct {
	Title        string
	Slug         string
	Summary      string
	Content      string // html fragment authored in the admin backend
	ThumbnailURL string
	ReadTime     int // minutes, zero when unknown
	PublishedAt  *time.Time
	UpdatedAt    *time.Time
	IsTopBlog    bool
	Author       Author
	Tags         []string
}

// SitemapEntry carries what the sitemap and route generator need per post.
type SitemapEntry struct {
	Slug      string
	UpdatedAt *time.Time
}
