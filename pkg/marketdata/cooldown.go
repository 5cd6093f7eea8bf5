package marketdata

import (
	"sync"
	"time"
)

// DefaultCooldownTTL is how long a symbol stays blocked after a provider
// rate-limits it.
const DefaultCooldownTTL = 5 * time.Minute

// CooldownCache remembers which symbols were recently rate limited so the
// client can fail fast instead of hammering the provider again. Entries
// expire after the TTL. Safe for concurrent use.
type CooldownCache struct {
	mu      sync.RWMutex
	ttl     time.Duration
	entries map[string]time.Time
	now     func() time.Time
}

// NewCooldownCache creates a cache with the given TTL. A zero ttl uses
// DefaultCooldownTTL.
func NewCooldownCache(ttl time.Duration) *CooldownCache {
	if ttl <= 0 {
		ttl = DefaultCooldownTTL
	}

	return &CooldownCache{
		ttl:     ttl,
		entries: make(map[string]time.Time),
		now:     time.Now,
	}
}

// MarkRateLimited records that the symbol was just rate limited.
func (c *CooldownCache) MarkRateLimited(symbol string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[symbol] = c.now()
}

// InCooldown reports whether the symbol is still inside its cooldown
// window. Expired entries are pruned on read.
func (c *CooldownCache) InCooldown(symbol string) bool {
	return c.Remaining(symbol) > 0
}

// Remaining returns how much cooldown time the symbol has left; zero when
// the symbol is not limited.
func (c *CooldownCache) Remaining(symbol string) time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()

	limitedAt, ok := c.entries[symbol]
	if !ok {
		return 0
	}

	remaining := c.ttl - c.now().Sub(limitedAt)
	if remaining <= 0 {
		delete(c.entries, symbol)

		return 0
	}

	return remaining
}

// Clear removes the symbol's cooldown entry.
func (c *CooldownCache) Clear(symbol string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.entries, symbol)
}

// setClock overrides the time source, for tests.
func (c *CooldownCache) setClock(now func() time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.now = now
}
