package material

import "github.com/rigport/rigport/pkg/asset"

// Cache holds resolved materials keyed by content hash for one job.
// Entries are write-once: the first material stored under a hash stays.
type Cache struct {
	entries map[asset.MaterialHash]*Resolved
	order   []asset.MaterialHash
}

// NewCache creates an empty cache.
func NewCache() *Cache {
	return &Cache{entries: make(map[asset.MaterialHash]*Resolved)}
}

// Get returns the material stored under hash. The empty hash never hits.
func (c *Cache) Get(hash asset.MaterialHash) (*Resolved, bool) {
	if hash == "" {
		return nil, false
	}
	r, ok := c.entries[hash]
	return r, ok
}

// Put stores r under its hash and reports whether it was stored. An
// existing entry is never replaced.
func (c *Cache) Put(r *Resolved) bool {
	if r == nil || r.Hash == "" {
		return false
	}
	if _, exists := c.entries[r.Hash]; exists {
		return false
	}
	c.entries[r.Hash] = r
	c.order = append(c.order, r.Hash)
	return true
}

// Reset empties the cache. Jobs call it when they start.
func (c *Cache) Reset() {
	clear(c.entries)
	c.order = c.order[:0]
}

// Len returns the number of cached materials.
func (c *Cache) Len() int { return len(c.entries) }

// All returns the cached materials in insertion order.
func (c *Cache) All() []*Resolved {
	out := make([]*Resolved, 0, len(c.order))
	for _, h := range c.order {
		out = append(out, c.entries[h])
	}
	return out
}
