package browse

import "github.com/orderdeck/orderdeck/internal/models"

// ResultCache holds at most one full (unpaginated) result set, keyed by the
// scope it was fetched under. Storing a new scope evicts the old one; the
// browser never needs two scopes alive at once.
type ResultCache struct {
	scopeKey string
	records  []models.Order
}

// NewResultCache returns an empty cache.
func NewResultCache() *ResultCache {
	return &ResultCache{}
}

// Valid reports whether the cache holds a usable result set for the given
// scope key. An empty record list is never considered usable: it forces a
// refetch rather than silently serving nothing.
func (c *ResultCache) Valid(scopeKey string) bool {
	return c.scopeKey == scopeKey && len(c.records) > 0
}

// Put replaces the cache contents with a full result set for scopeKey.
func (c *ResultCache) Put(scopeKey string, records []models.Order) {
	c.scopeKey = scopeKey
	c.records = records
}

// Records returns the cached full result set.
func (c *ResultCache) Records() []models.Order {
	return c.records
}

// Clear drops the cached records but remembers the scope key, so a later
// search under the same scope still knows the slot is empty and must fetch.
func (c *ResultCache) Clear(scopeKey string) {
	c.scopeKey = scopeKey
	c.records = nil
}
