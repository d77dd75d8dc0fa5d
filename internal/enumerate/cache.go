package enumerate

import (
	"sync"

	"github.com/vvka-141/filer/pkg/filer"
)

// dirCache holds listings per identity key. A nil *dirCache is a valid
// disabled cache; all methods are no-ops on it.
type dirCache struct {
	mu       sync.Mutex
	listings map[string]*filer.Listing
}

func newDirCache() *dirCache {
	return &dirCache{listings: make(map[string]*filer.Listing)}
}

func (c *dirCache) get(key string) *filer.Listing {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.listings[key]
}

func (c *dirCache) put(key string, l *filer.Listing) {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.listings[key] = l
}

func (c *dirCache) invalidate(key string) {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.listings, key)
}

func (c *dirCache) invalidateAll() {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.listings = make(map[string]*filer.Listing)
}
