// Package ledger tracks submitted-but-unconfirmed transactions and computes
// the optimistic balance overlay shown to the user before the chain catches
// up. The ledger is the single writer of pending entries; its backing store
// is never touched directly by other components.
package ledger

import (
	"fmt"
	"sync"
	"time"

	"cosmossdk.io/log"
	"cosmossdk.io/math"

	"github.com/altuslabsxyz/revwallet/internal/application/ports"
	"github.com/altuslabsxyz/revwallet/internal/domain"
)

const (
	// storeKey is the single key under which all pending entries persist.
	storeKey = "pending_transactions"

	// DefaultMaxAge is how long an entry may stay pending before it is
	// dropped as most likely never having reached the network.
	DefaultMaxAge = 24 * time.Hour
)

// DefaultEpsilon is the slack added to the expected balance when deciding
// whether a debit has landed. Atomic units.
var DefaultEpsilon = math.NewInt(1000)

// Ledger is the durable record of pending transactions.
type Ledger struct {
	store   ports.Store
	logger  log.Logger
	epsilon math.Int

	mu      sync.Mutex
	entries []domain.PendingTx

	// now is swappable for tests.
	now func() time.Time
}

// NewLedger creates a ledger over a durable store, hydrating any entries
// persisted by a previous run.
func NewLedger(store ports.Store, logger log.Logger) (*Ledger, error) {
	l := &Ledger{
		store:   store,
		logger:  logger.With("component", "pending-ledger"),
		epsilon: DefaultEpsilon,
		now:     time.Now,
	}
	if err := l.hydrate(); err != nil {
		return nil, err
	}
	return l, nil
}

// WithEpsilon overrides the debit-landed slack.
func (l *Ledger) WithEpsilon(eps math.Int) *Ledger {
	l.epsilon = eps
	return l
}

// Record upserts an entry keyed by DeployID. A duplicate record call (UI
// submits, orchestrator also observes it) is idempotent.
func (l *Ledger) Record(tx domain.PendingTx) error {
	if tx.DeployID == "" {
		return fmt.Errorf("pending entry has no deploy id")
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	replaced := false
	for i := range l.entries {
		if l.entries[i].DeployID == tx.DeployID {
			l.entries[i] = tx
			replaced = true
			break
		}
	}
	if !replaced {
		l.entries = append(l.entries, tx)
	}
	return l.flushLocked()
}

// Evict removes the entry for id, returning it when present.
func (l *Ledger) Evict(id domain.DeployID) (domain.PendingTx, bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	for i := range l.entries {
		if l.entries[i].DeployID == id {
			evicted := l.entries[i]
			l.entries = append(l.entries[:i], l.entries[i+1:]...)
			return evicted, true, l.flushLocked()
		}
	}
	return domain.PendingTx{}, false, nil
}

// List returns a copy of every pending entry.
func (l *Ledger) List() []domain.PendingTx {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]domain.PendingTx, len(l.entries))
	copy(out, l.entries)
	return out
}

// ListByAccount returns a copy of the entries owned by accountID.
func (l *Ledger) ListByAccount(accountID string) []domain.PendingTx {
	l.mu.Lock()
	defer l.mu.Unlock()
	var out []domain.PendingTx
	for _, e := range l.entries {
		if e.OwnerAccountID == accountID {
			out = append(out, e)
		}
	}
	return out
}

// Reconcile compares a freshly-read chain balance against the expected
// post-confirmation balance of each entry owned by accountID. An entry is
// evicted once the chain balance is not greater than its expected balance
// plus epsilon, meaning the debit has already landed. Returns the evicted
// entries.
//
// This is an inference, not proof of inclusion: two racing sends from one
// account can satisfy each other's threshold. The orchestrator therefore
// evicts via the confirmation resolver first and only leans on this
// heuristic for the balance-read path.
func (l *Ledger) Reconcile(chainBalance math.Int, accountID string) ([]domain.PendingTx, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	var evicted []domain.PendingTx
	kept := l.entries[:0]
	for _, e := range l.entries {
		if e.OwnerAccountID == accountID && e.ExpectedBalance != nil &&
			chainBalance.LTE(e.ExpectedBalance.Add(l.epsilon)) {
			l.logger.Info("debit landed on chain, evicting pending entry",
				"deployId", e.DeployID, "account", accountID)
			evicted = append(evicted, e)
			continue
		}
		kept = append(kept, e)
	}
	l.entries = kept

	if len(evicted) == 0 {
		return nil, nil
	}
	return evicted, l.flushLocked()
}

// OverlayBalance applies the optimistic overlay for accountID to a chain
// balance: every surviving entry subtracts its debit (amount plus fee for
// sends, fee only for contract deploys), clamped at zero. Every "balance to
// show right now" must come through here, or the UI shows stale pre-debit
// amounts until the next poll.
func (l *Ledger) OverlayBalance(chainBalance math.Int, accountID string) math.Int {
	l.mu.Lock()
	defer l.mu.Unlock()

	display := chainBalance
	for _, e := range l.entries {
		if e.OwnerAccountID == accountID {
			display = display.Sub(e.Debit())
		}
	}
	if display.IsNegative() {
		return math.ZeroInt()
	}
	return display
}

// EvictExpired drops entries older than maxAge unconditionally. Such an
// entry most likely never reached the network; the user is not owed an
// indefinite pending state.
func (l *Ledger) EvictExpired(maxAge time.Duration) ([]domain.PendingTx, error) {
	if maxAge <= 0 {
		maxAge = DefaultMaxAge
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	cutoff := l.now().Add(-maxAge)
	var evicted []domain.PendingTx
	kept := l.entries[:0]
	for _, e := range l.entries {
		if e.SubmittedAt.Before(cutoff) {
			l.logger.Warn("pending transaction expired, likely never reached the network",
				"deployId", e.DeployID, "account", e.OwnerAccountID, "submittedAt", e.SubmittedAt)
			evicted = append(evicted, e)
			continue
		}
		kept = append(kept, e)
	}
	l.entries = kept

	if len(evicted) == 0 {
		return nil, nil
	}
	return evicted, l.flushLocked()
}
