package barrel

import "sync"

// cacheEntry holds either a validated descriptor or the error raised
// the first time validation ran, so a repeatedly-imported barrel is
// never re-parsed or re-validated (spec §4.4).
type cacheEntry struct {
	descriptor *Descriptor
	err        error
}

// Cache memoises parsed+validated barrel descriptors, keyed by absolute
// path (spec §4.4). Scope is owned by the transform driver, not shared
// process-wide: one Cache lives as long as the Driver that built it and
// is reused for every file that Driver transforms. This matches the
// resolver cache pattern used elsewhere in the pack — a mutex-
// protected map rather than the teacher's own disk-backed
// content-addressed cache, which is built for cross-run persistence
// this in-process, per-driver cache does not need.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]cacheEntry
}

func NewCache() *Cache {
	return &Cache{entries: make(map[string]cacheEntry)}
}

// Get returns a previously cached entry for absPath, if any.
func (c *Cache) Get(absPath string) (*Descriptor, error, bool) {
	c.mu.RLock()
	entry, ok := c.entries[absPath]
	c.mu.RUnlock()
	if !ok {
		return nil, nil, false
	}
	return entry.descriptor, entry.err, true
}

// Store records the validation outcome for absPath.
func (c *Cache) Store(absPath string, descriptor *Descriptor, err error) {
	c.mu.Lock()
	c.entries[absPath] = cacheEntry{descriptor: descriptor, err: err}
	c.mu.Unlock()
}

// GetOrValidate returns the cached descriptor for absPath, validating
// via load on a cache miss and memoising either outcome.
func (c *Cache) GetOrValidate(absPath string, load func() (*Descriptor, error)) (*Descriptor, error) {
	if descriptor, err, ok := c.Get(absPath); ok {
		return descriptor, err
	}
	descriptor, err := load()
	c.Store(absPath, descriptor, err)
	return descriptor, err
}
