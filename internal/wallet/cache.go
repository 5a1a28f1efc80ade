package wallet

import (
	"sync"
	"time"
)

// memoCache is a short-lived per-session cache for remote lookups (fee,
// account info). Entries expire after their TTL; Cleanup drops everything.
type memoCache struct {
	mu      sync.Mutex
	entries map[string]memoEntry
}

type memoEntry struct {
	value   any
	expires time.Time
}

func newMemoCache() *memoCache {
	return &memoCache{entries: make(map[string]memoEntry)}
}

// do returns the cached value for key if it is still fresh, otherwise calls
// fn and caches the result for ttl. Errors are never cached.
func (c *memoCache) do(key string, ttl time.Duration, fn func() (any, error)) (any, error) {
	c.mu.Lock()
	if e, ok := c.entries[key]; ok && time.Now().Before(e.expires) {
		c.mu.Unlock()
		return e.value, nil
	}
	c.mu.Unlock()

	v, err := fn()
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.entries[key] = memoEntry{value: v, expires: time.Now().Add(ttl)}
	c.mu.Unlock()
	return v, nil
}

func (c *memoCache) clear() {
	c.mu.Lock()
	c.entries = make(map[string]memoEntry)
	c.mu.Unlock()
}
