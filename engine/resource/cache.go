package resource

import (
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"
)

// AvailabilityCache memoizes CheckAvailability results keyed by the
// (resource, window, qty) triple, for a caller that checks the same triple
// repeatedly within one plan request. CheckAvailability does not consult it,
// and neither the constraint builder nor the solver uses it.
type AvailabilityCache struct {
	cache *lru.Cache[string, bool]
}

// NewAvailabilityCache builds a cache holding up to size entries.
func NewAvailabilityCache(size int) (*AvailabilityCache, error) {
	c, err := lru.New[string, bool](size)
	if err != nil {
		return nil, fmt.Errorf("resource: building availability cache: %w", err)
	}
	return &AvailabilityCache{cache: c}, nil
}

func cacheKey(resourceID string, window Window, qty int) string {
	return fmt.Sprintf("%s|%d|%d|%d", resourceID, window.Start.Unix(), window.End.Unix(), qty)
}

// Get returns a cached result for (resourceID, window, qty), if present.
func (c *AvailabilityCache) Get(resourceID string, window Window, qty int) (bool, bool) {
	return c.cache.Get(cacheKey(resourceID, window, qty))
}

// Put records a result for (resourceID, window, qty).
func (c *AvailabilityCache) Put(resourceID string, window Window, qty int, available bool) {
	c.cache.Add(cacheKey(resourceID, window, qty), available)
}

// Purge discards every cached entry, used between plan requests since the
// cache's lifetime is request-scoped.
func (c *AvailabilityCache) Purge() {
	c.cache.Purge()
}
