// Package balance memoizes vault balance lookups so concurrent UI surfaces
// do not hammer the read-only node. One Cache is constructed at application
// start and injected into every consumer; there is no package-level state.
package balance

import (
	"context"
	"sync"
	"time"

	"cosmossdk.io/log"
	"cosmossdk.io/math"

	"github.com/altuslabsxyz/revwallet/internal/application/ports"
	"github.com/altuslabsxyz/revwallet/internal/domain"
	"github.com/altuslabsxyz/revwallet/internal/rho"
)

// DefaultTTL is how long a cached balance stays fresh.
const DefaultTTL = 15 * time.Second

type entry struct {
	balance    math.Int
	observedAt time.Time
}

// Cache is a short-TTL memoized balance lookup keyed by
// (address, read-only endpoint identity).
type Cache struct {
	node   ports.NodeAPI
	ttl    time.Duration
	logger log.Logger

	mu      sync.Mutex
	entries map[string]entry

	// now is swappable for tests.
	now func() time.Time
}

// NewCache creates a balance cache in front of node.
func NewCache(node ports.NodeAPI, logger log.Logger) *Cache {
	return &Cache{
		node:    node,
		ttl:     DefaultTTL,
		logger:  logger.With("component", "balance-cache"),
		entries: make(map[string]entry),
		now:     time.Now,
	}
}

// WithTTL overrides the cache TTL.
func (c *Cache) WithTTL(ttl time.Duration) *Cache {
	c.ttl = ttl
	return c
}

// Get returns the vault balance for address in atomic units. A cached value
// is returned while fresh unless force is set. Balance values never leave
// this layer in display units.
//
// An integer expression result is the balance. A string expression result
// is a vault-reported error (for example an address with no vault yet) and
// is cached as zero so a failing query does not hot-loop. Transport errors
// are returned to the caller and never cached, so the next read retries
// immediately.
func (c *Cache) Get(ctx context.Context, address string, force bool) (math.Int, error) {
	key := c.node.Identity() + "|" + address

	if !force {
		c.mu.Lock()
		e, ok := c.entries[key]
		c.mu.Unlock()
		if ok && c.now().Sub(e.observedAt) < c.ttl {
			return e.balance, nil
		}
	}

	result, err := c.node.ExploreDeploy(ctx, rho.Balance(address))
	if err != nil {
		return math.Int{}, err
	}

	var bal math.Int
	switch {
	case result.IsInt:
		bal = math.NewInt(result.Int)
	case result.IsString:
		c.logger.Warn("vault reported error for balance query", "address", address, "message", result.String)
		bal = math.ZeroInt()
	default:
		return math.Int{}, &domain.APIError{Status: 200, Body: "balance query returned no usable expression"}
	}

	c.mu.Lock()
	c.entries[key] = entry{balance: bal, observedAt: c.now()}
	c.mu.Unlock()

	return bal, nil
}

// Last returns the most recently observed balance for address regardless
// of freshness. The overlay path uses it to keep showing a balance with
// zero connectivity.
func (c *Cache) Last(address string) (math.Int, bool) {
	key := c.node.Identity() + "|" + address
	c.mu.Lock()
	e, ok := c.entries[key]
	c.mu.Unlock()
	if !ok {
		return math.Int{}, false
	}
	return e.balance, true
}

// Invalidate drops any cached value for address, forcing the next read to
// hit the network.
func (c *Cache) Invalidate(address string) {
	key := c.node.Identity() + "|" + address
	c.mu.Lock()
	delete(c.entries, key)
	c.mu.Unlock()
}
