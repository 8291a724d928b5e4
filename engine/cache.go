package engine

import (
	"sync"
	"time"

	"meetbot/db"
)

// DefaultRuleTTL bounds how stale a cached rule list may get before the
// store is queried again.
const DefaultRuleTTL = 5 * time.Minute

// RuleSource is the durable rule store queried on cache misses. Results
// must be active rules scoped to the account or global, ordered by
// priority descending.
type RuleSource interface {
	RulesForAccount(accountID string) ([]db.Rule, error)
}

type cacheEntry struct {
	rules     []db.Rule
	fetchedAt time.Time
}

// RuleCache amortizes rule lookups per account within a TTL window. Rule
// mutations must call Invalidate so the next evaluation sees them without
// waiting out the TTL. A store failure propagates; there is no fallback to
// a stale entry.
type RuleCache struct {
	source RuleSource
	ttl    time.Duration
	clock  func() time.Time

	mu      sync.Mutex
	entries map[string]cacheEntry
}

func NewRuleCache(source RuleSource, ttl time.Duration) *RuleCache {
	if ttl <= 0 {
		ttl = DefaultRuleTTL
	}
	return &RuleCache{
		source:  source,
		ttl:     ttl,
		clock:   time.Now,
		entries: make(map[string]cacheEntry),
	}
}

func (c *RuleCache) RulesFor(accountID string) ([]db.Rule, error) {
	now := c.clock()

	c.mu.Lock()
	entry, ok := c.entries[accountID]
	c.mu.Unlock()
	if ok && now.Sub(entry.fetchedAt) < c.ttl {
		return entry.rules, nil
	}

	rules, err := c.source.RulesForAccount(accountID)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.entries[accountID] = cacheEntry{rules: rules, fetchedAt: now}
	c.mu.Unlock()

	return rules, nil
}

// Invalidate drops the cached entry for one account.
func (c *RuleCache) Invalidate(accountID string) {
	c.mu.Lock()
	delete(c.entries, accountID)
	c.mu.Unlock()
}

// InvalidateAll clears the whole cache; used when a global rule changes.
func (c *RuleCache) InvalidateAll() {
	c.mu.Lock()
	c.entries = make(map[string]cacheEntry)
	c.mu.Unlock()
}
