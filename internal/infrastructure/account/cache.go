package account

import (
	"sync"
	"time"

	"github.com/fitrivals/fitrivals-api/internal/domain/user"
)

type cachedPrincipal struct {
	principal user.Principal
	expiresAt time.Time
}

// principalCache is a small TTL map keyed by hashed token. It is bounded:
// when full it evicts expired entries first, then the entry closest to
// expiry.
type principalCache struct {
	mu         sync.Mutex
	entries    map[string]cachedPrincipal
	ttl        time.Duration
	maxEntries int
	now        func() time.Time
}

func newPrincipalCache(ttl time.Duration, maxEntries int) *principalCache {
	return &principalCache{
		entries:    make(map[string]cachedPrincipal),
		ttl:        ttl,
		maxEntries: maxEntries,
		now:        time.Now,
	}
}

func (c *principalCache) Get(key string) (user.Principal, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[key]
	if !ok {
		return user.Principal{}, false
	}
	if c.now().After(entry.expiresAt) {
		delete(c.entries, key)
		return user.Principal{}, false
	}
	return entry.principal, true
}

func (c *principalCache) Set(key string, principal user.Principal) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.entries) >= c.maxEntries {
		c.evictExpired()
		if len(c.entries) >= c.maxEntries {
			c.evictOne()
		}
	}
	c.entries[key] = cachedPrincipal{
		principal: principal,
		expiresAt: c.now().Add(c.ttl),
	}
}

func (c *principalCache) evictExpired() {
	now := c.now()
	for key, entry := range c.entries {
		if now.After(entry.expiresAt) {
			delete(c.entries, key)
		}
	}
}

func (c *principalCache) evictOne() {
	var victim string
	var victimExpiry time.Time
	for key, entry := range c.entries {
		if victim == "" || entry.expiresAt.Before(victimExpiry) {
			victim = key
			victimExpiry = entry.expiresAt
		}
	}
	if victim != "" {
		delete(c.entries, victim)
	}
}
