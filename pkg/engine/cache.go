package engine

import (
	"sync"

	"github.com/lct-labs/jiraseed/pkg/catalog"
)

// ResolvedEntity records one logical identity resolved to a tracker
// identifier during the current run. Entries are never mutated after
// insertion and the cache is discarded at process exit: idempotency on
// rerun comes from querying the tracker, not from local state.
type ResolvedEntity struct {
	Identity       catalog.Identity
	ID             Identifier
	CreatedThisRun bool
}

// ResolutionCache maps logical identities to tracker identifiers.
// Shared by the workers of a level; each identity is written at most
// once, first write wins.
type ResolutionCache struct {
	mu      sync.RWMutex
	entries map[string]ResolvedEntity
}

// NewResolutionCache returns an empty cache.
func NewResolutionCache() *ResolutionCache {
	return &ResolutionCache{entries: make(map[string]ResolvedEntity)}
}

// Lookup returns the resolution for an identity, if present.
func (c *ResolutionCache) Lookup(id catalog.Identity) (ResolvedEntity, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[id.String()]
	return e, ok
}

// Record stores a resolution unless the identity is already present,
// and returns the entry that ended up in the cache.
func (c *ResolutionCache) Record(id catalog.Identity, trackerID Identifier, createdThisRun bool) ResolvedEntity {
	c.mu.Lock()
	defer c.mu.Unlock()
	key := id.String()
	if existing, ok := c.entries[key]; ok {
		return existing
	}
	e := ResolvedEntity{Identity: id, ID: trackerID, CreatedThisRun: createdThisRun}
	c.entries[key] = e
	return e
}

// Len returns the number of cached resolutions.
func (c *ResolutionCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
