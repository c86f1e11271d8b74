package prerender

import (
	"context"
	"encoding/binary"
	"time"

	"github.com/allegro/bigcache/v3"
	"github.com/pkg/errors"
)

// RenderCache keeps rendered pages in process for a short TTL. A nil
// *RenderCache is valid and caches nothing.
type RenderCache struct {
	bc *bigcache.BigCache
}

// NewRenderCache returns nil when ttl is zero.
func NewRenderCache(ttl time.Duration, maxMB int) (*RenderCache, error) {
	if ttl <= 0 {
		return nil, nil
	}
	cfg := bigcache.DefaultConfig(ttl)
	cfg.Shards = 64
	cfg.MaxEntriesInWindow = 1000
	cfg.MaxEntrySize = 16 * 1024
	cfg.HardMaxCacheSize = maxMB
	cfg.Verbose = false
	bc, err := bigcache.New(context.Background(), cfg)
	if err != nil {
		return nil, errors.Wrap(err, "unable to create render cache")
	}
	return &RenderCache{bc: bc}, nil
}

func (c *RenderCache) Get(path string) (Page, bool) {
	if c == nil {
		return Page{}, false
	}
	entry, err := c.bc.Get(path)
	if err != nil || len(entry) < 3 {
		return Page{}, false
	}
	routeLen := int(entry[2])
	if len(entry) < 3+routeLen {
		return Page{}, false
	}
	return Page{
		Status: int(binary.BigEndian.Uint16(entry[:2])),
		Route:  string(entry[3 : 3+routeLen]),
		HTML:   string(entry[3+routeLen:]),
		Cached: true,
	}, true
}

// Set stores page unless it is a server error.
func (c *RenderCache) Set(path string, page Page) {
	if c == nil || page.Status >= 500 {
		return
	}
	// entry layout: status (2 bytes), route name length (1 byte), route name, html
	entry := make([]byte, 3, 3+len(page.Route)+len(page.HTML))
	binary.BigEndian.PutUint16(entry, uint16(page.Status))
	entry[2] = byte(len(page.Route))
	entry = append(entry, page.Route...)
	entry = append(entry, page.HTML...)
	_ = c.bc.Set(path, entry)
}

func (c *RenderCache) Close() error {
	if c == nil {
		return nil
	}
	return c.bc.Close()
}
