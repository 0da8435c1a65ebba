package persistence

import (
	"context"
	"sync"
	"time"

	"github.com/khoahotran/profile-pages/internal/domain/page"
)

type memoryEntry struct {
	page      *page.CachedPage
	expiresAt time.Time
}

// memoryPageCache keeps pages in process. Used when no Redis is configured.
type memoryPageCache struct {
	mu    sync.RWMutex
	pages map[string]memoryEntry
	now   func() time.Time
}

func NewMemoryPageCache() page.Cache {
	return &memoryPageCache{pages: make(map[string]memoryEntry), now: time.Now}
}

func (c *memoryPageCache) Get(_ context.Context, path string) (*page.CachedPage, error) {
	c.mu.RLock()
	e, ok := c.pages[path]
	c.mu.RUnlock()
	if !ok {
		return nil, nil
	}
	if !e.expiresAt.IsZero() && !c.now().Before(e.expiresAt) {
		c.mu.Lock()
		if cur, ok := c.pages[path]; ok && cur.expiresAt.Equal(e.expiresAt) {
			delete(c.pages, path)
		}
		c.mu.Unlock()
		return nil, nil
	}
	return e.page, nil
}

// Set with a non-positive ttl keeps the page until it is replaced or deleted.
func (c *memoryPageCache) Set(_ context.Context, p *page.CachedPage, ttl time.Duration) error {
	e := memoryEntry{page: p}
	if ttl > 0 {
		e.expiresAt = c.now().Add(ttl)
	}
	c.mu.Lock()
	c.pages[p.Path] = e
	c.mu.Unlock()
	return nil
}

func (c *memoryPageCache) Delete(_ context.Context, path string) error {
	c.mu.Lock()
	delete(c.pages, path)
	c.mu.Unlock()
	return nil
}
