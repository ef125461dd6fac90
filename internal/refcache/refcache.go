// Package refcache resolves opaque user identifiers to richer descriptors
// through an external lookup, caching results for the lifetime of the owning
// widget. Entries are never evicted; a changed identifier is simply a new
// cache key.
package refcache

import (
	"context"
	"sync"

	"golang.org/x/sync/singleflight"
)

// Descriptor is the resolved form of an identifier. Undefined lookups return
// nil without error; that is "unresolved", not a failure.
type Descriptor struct {
	ID   string
	Type string
}

// LookupFunc is the external identity lookup.
type LookupFunc func(ctx context.Context, id string) (*Descriptor, error)

// Cache memoizes lookups. Concurrent resolutions of the same identifier are
// collapsed into one in-flight call.
type Cache struct {
	lookup LookupFunc

	mu      sync.Mutex
	entries map[string]*Descriptor
	group   singleflight.Group
}

// New builds a cache over the given lookup.
func New(lookup LookupFunc) *Cache {
	return &Cache{
		lookup:  lookup,
		entries: make(map[string]*Descriptor),
	}
}

// Peek returns the cached descriptor without triggering a lookup.
func (c *Cache) Peek(id string) (*Descriptor, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	d, ok := c.entries[id]
	return d, ok
}

// Resolve returns the descriptor for id, performing the external lookup on
// first need. A nil descriptor with nil error means the identity does not
// resolve; callers keep the raw-identifier rendering in that case.
func (c *Cache) Resolve(ctx context.Context, id string) (*Descriptor, error) {
	if d, ok := c.Peek(id); ok {
		return d, nil
	}

	v, err, _ := c.group.Do(id, func() (any, error) {
		d, err := c.lookup(ctx, id)
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		c.entries[id] = d
		c.mu.Unlock()
		return d, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Descriptor), nil
}
