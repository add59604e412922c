// Package poller runs the background confirmation loop: it re-resolves
// every pending ledger entry, evicts resolved and aged entries, and
// refreshes balances for the accounts it touched. A circuit breaker stops
// the loop after sustained transport failures instead of producing an
// error storm.
package poller

import (
	"context"
	"sync"
	"time"

	"cosmossdk.io/log"
	"cosmossdk.io/math"

	"github.com/altuslabsxyz/revwallet/internal/application/ports"
	"github.com/altuslabsxyz/revwallet/internal/domain"
)

const (
	// DefaultInterval spaces polling ticks.
	DefaultInterval = 30 * time.Second

	// BreakerThreshold is how many consecutive transport failures trip
	// the circuit breaker.
	BreakerThreshold = 3
)

// resolver is the confirmation surface the orchestrator needs.
type resolver interface {
	Resolve(ctx context.Context, id domain.DeployID, maxAttempts int) domain.ConfirmationResult
}

// balanceSource is the cache surface the orchestrator needs.
type balanceSource interface {
	Get(ctx context.Context, address string, force bool) (math.Int, error)
}

// pendingLedger is the ledger surface the orchestrator needs.
type pendingLedger interface {
	List() []domain.PendingTx
	Evict(id domain.DeployID) (domain.PendingTx, bool, error)
	EvictExpired(maxAge time.Duration) ([]domain.PendingTx, error)
	Reconcile(chainBalance math.Int, accountID string) ([]domain.PendingTx, error)
	OverlayBalance(chainBalance math.Int, accountID string) math.Int
}

// Orchestrator is the background polling loop. Idle until Start; Stop
// returns it to Idle. Both are idempotent.
type Orchestrator struct {
	ledger   pendingLedger
	resolver resolver
	balances balanceSource
	node     ports.NodeAPI
	sink     ports.EventSink
	logger   log.Logger

	interval time.Duration
	maxAge   time.Duration

	// guard is checked before any I/O on each tick; a false return skips
	// the tick entirely (user logged out, no network selected).
	guard func() bool

	mu       sync.Mutex
	running  bool
	tripped  bool
	failures int
	stop     chan struct{}
	done     chan struct{}
}

// NewOrchestrator wires the polling loop. sink may be nil.
func NewOrchestrator(l pendingLedger, r resolver, b balanceSource, node ports.NodeAPI, sink ports.EventSink, logger log.Logger) *Orchestrator {
	return &Orchestrator{
		ledger:   l,
		resolver: r,
		balances: b,
		node:     node,
		sink:     sink,
		logger:   logger.With("component", "poller"),
		interval: DefaultInterval,
		maxAge:   24 * time.Hour,
	}
}

// WithInterval overrides the tick interval.
func (o *Orchestrator) WithInterval(d time.Duration) *Orchestrator {
	if d > 0 {
		o.interval = d
	}
	return o
}

// WithGuard installs the cheap pre-I/O check run at the top of every tick.
func (o *Orchestrator) WithGuard(guard func() bool) *Orchestrator {
	o.guard = guard
	return o
}

// Start begins polling. A no-op while already running. Starting after a
// breaker trip resets the failure counter to zero.
func (o *Orchestrator) Start() {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.running {
		return
	}
	o.running = true
	o.tripped = false
	o.failures = 0
	o.stop = make(chan struct{})
	o.done = make(chan struct{})

	o.logger.Info("polling started", "interval", o.interval)
	go o.run(o.stop, o.done)
}

// Stop halts polling. Stopping twice is a no-op.
func (o *Orchestrator) Stop() {
	o.mu.Lock()
	if !o.running {
		o.mu.Unlock()
		return
	}
	o.running = false
	stop, done := o.stop, o.done
	o.mu.Unlock()

	close(stop)
	<-done
	o.logger.Info("polling stopped")
}

// Running reports whether the loop is active.
func (o *Orchestrator) Running() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.running
}

// Tripped reports whether the circuit breaker halted the loop.
func (o *Orchestrator) Tripped() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.tripped
}

func (o *Orchestrator) run(stop, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(o.interval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			if o.tick(context.Background()) {
				// Breaker tripped: leave the loop without touching
				// o.stop so a concurrent Stop stays a clean no-op.
				o.mu.Lock()
				o.running = false
				o.tripped = true
				o.mu.Unlock()
				return
			}
		}
	}
}

// tick runs one polling round. Returns true when the breaker tripped.
// Sequence per tick is strictly resolve, then evict, then refresh: a
// refresh before eviction would double-discount the fresh chain balance
// against an entry that should already be gone.
func (o *Orchestrator) tick(ctx context.Context) bool {
	if o.guard != nil && !o.guard() {
		return false
	}
	ticksTotal.Inc()

	// Lightweight connectivity probe before walking the ledger.
	if err := o.node.Status(ctx); err != nil {
		if domain.IsTransport(err) {
			transportFailuresTotal.Inc()
			o.mu.Lock()
			o.failures++
			failures := o.failures
			o.mu.Unlock()

			o.logger.Warn("connectivity probe failed", "failures", failures, "err", err)
			if failures >= BreakerThreshold {
				breakerTripsTotal.Inc()
				o.logger.Error("circuit breaker tripped, polling halted until restarted",
					"consecutiveFailures", failures)
				return true
			}
			return false
		}
		// The node answered, just unhappily. Not a breaker event.
		o.logger.Warn("connectivity probe rejected", "err", err)
	} else {
		o.mu.Lock()
		o.failures = 0
		o.mu.Unlock()
	}

	entries := o.ledger.List()
	pendingEntries.Set(float64(len(entries)))

	// Address of each touched account, keyed by account id, so only
	// accounts with pending activity get re-queried.
	touched := make(map[string]string)
	resolvedAny := false

	for _, e := range entries {
		// One attempt per entry: the loop itself is the retry cadence.
		res := o.resolver.Resolve(ctx, e.DeployID, 1)
		switch res.Status {
		case domain.StatusCompleted:
			if evicted, ok, err := o.ledger.Evict(e.DeployID); err != nil {
				o.logger.Error("failed to evict confirmed entry", "deployId", e.DeployID, "err", err)
			} else if ok {
				resolvedTotal.WithLabelValues("completed").Inc()
				resolvedAny = true
				touched[e.OwnerAccountID] = e.FromAddress
				o.logger.Info("deploy confirmed", "deployId", e.DeployID, "blockNumber", res.BlockNumber)
				if o.sink != nil {
					o.sink.DeployConfirmed(evicted, res)
				}
			}
		case domain.StatusErrored:
			if evicted, ok, err := o.ledger.Evict(e.DeployID); err != nil {
				o.logger.Error("failed to evict errored entry", "deployId", e.DeployID, "err", err)
			} else if ok {
				resolvedTotal.WithLabelValues("errored").Inc()
				resolvedAny = true
				touched[e.OwnerAccountID] = e.FromAddress
				o.logger.Warn("deploy errored", "deployId", e.DeployID, "reason", res.Reason)
				if o.sink != nil {
					o.sink.DeployFailed(evicted, res.Reason)
				}
			}
		case domain.StatusPending:
			// Still pending; the next tick retries.
		}
	}

	if expired, err := o.ledger.EvictExpired(o.maxAge); err != nil {
		o.logger.Error("failed to evict expired entries", "err", err)
	} else {
		for _, e := range expired {
			resolvedTotal.WithLabelValues("expired").Inc()
			resolvedAny = true
			touched[e.OwnerAccountID] = e.FromAddress
			if o.sink != nil {
				o.sink.DeployFailed(e, "expired without confirmation; it likely never reached the network")
			}
		}
	}

	// Refresh only when something resolved, and only for touched
	// accounts. Accounts with no pending activity are never re-queried.
	if !resolvedAny {
		return false
	}
	for accountID, address := range touched {
		chain, err := o.balances.Get(ctx, address, true)
		if err != nil {
			o.logger.Warn("balance refresh failed", "account", accountID, "err", err)
			continue
		}
		if _, err := o.ledger.Reconcile(chain, accountID); err != nil {
			o.logger.Error("ledger reconcile failed", "account", accountID, "err", err)
		}
		if o.sink != nil {
			o.sink.BalanceChanged(accountID, o.ledger.OverlayBalance(chain, accountID))
		}
	}
	return false
}
