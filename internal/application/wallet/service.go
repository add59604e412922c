// Package wallet composes the submission pipeline behind the interface the
// rest of the application calls: submit a send or a contract deploy, read
// the display balance, start and stop background polling.
package wallet

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"time"

	"cosmossdk.io/log"
	"cosmossdk.io/math"

	"github.com/altuslabsxyz/revwallet/internal/application/ports"
	"github.com/altuslabsxyz/revwallet/internal/balance"
	"github.com/altuslabsxyz/revwallet/internal/domain"
	"github.com/altuslabsxyz/revwallet/internal/ledger"
	"github.com/altuslabsxyz/revwallet/internal/poller"
	"github.com/altuslabsxyz/revwallet/internal/rho"
	"github.com/altuslabsxyz/revwallet/internal/signer"
	"github.com/altuslabsxyz/revwallet/internal/submit"
)

// Service is the wallet engine facade. Constructed once at application
// start; every dependency is injected.
type Service struct {
	node      ports.NodeAPI
	keys      ports.KeyProvider
	cache     *balance.Cache
	ledger    *ledger.Ledger
	submitter *submit.Submitter
	poller    *poller.Orchestrator
	logger    log.Logger

	shardID       string
	sendPhloLimit int64
	phloPrice     int64
}

// Options tune deploy construction.
type Options struct {
	ShardID       string
	SendPhloLimit int64
	PhloPrice     int64
}

// NewService wires the facade.
func NewService(node ports.NodeAPI, keys ports.KeyProvider, cache *balance.Cache, l *ledger.Ledger, sub *submit.Submitter, orch *poller.Orchestrator, opts Options, logger log.Logger) *Service {
	if opts.SendPhloLimit <= 0 {
		opts.SendPhloLimit = submit.DefaultSendPhloLimit
	}
	if opts.PhloPrice <= 0 {
		opts.PhloPrice = submit.DefaultPhloPrice
	}
	return &Service{
		node:          node,
		keys:          keys,
		cache:         cache,
		ledger:        l,
		submitter:     sub,
		poller:        orch,
		logger:        logger.With("component", "wallet"),
		shardID:       opts.ShardID,
		sendPhloLimit: opts.SendPhloLimit,
		phloPrice:     opts.PhloPrice,
	}
}

// EstimatedSendFee is the fee upper bound reserved for a send.
func (s *Service) EstimatedSendFee() math.Int {
	return math.NewInt(s.sendPhloLimit * s.phloPrice)
}

// SubmitSend unlocks the account's key, submits a vault transfer and
// records the pending entry atomically with the submission. The entry
// carries the expected post-confirmation balance when the pre-submission
// balance is known, so the overlay shows the debit immediately.
func (s *Service) SubmitSend(ctx context.Context, from domain.Account, password, toAddress string, amount math.Int) (domain.DeployID, error) {
	if amount.IsNil() || !amount.IsPositive() {
		return "", &domain.RequestError{Message: "send amount must be positive"}
	}
	if toAddress == "" {
		return "", &domain.RequestError{Message: "missing destination address"}
	}

	key, err := s.keys.Unlock(from.ID, password)
	if err != nil {
		return "", fmt.Errorf("unlock account %s: %w", from.ID, err)
	}

	fee := s.EstimatedSendFee()

	// Best effort: a failed balance read only costs the expected-balance
	// hint, never the send itself.
	var expected *math.Int
	if pre, err := s.cache.Get(ctx, from.Address, false); err == nil {
		e := pre.Sub(amount).Sub(fee)
		expected = &e
	} else {
		s.logger.Warn("pre-submission balance unknown, pending entry will lack expected balance",
			"account", from.ID, "err", err)
	}

	term := rho.Transfer(from.Address, toAddress, amount)
	id, err := s.submitter.Submit(ctx, term, s.sendPhloLimit, s.phloPrice, s.shardID, key)
	if err != nil {
		return "", err
	}

	entry := domain.PendingTx{
		DeployID:        id,
		FromAddress:     from.Address,
		ToAddress:       toAddress,
		Amount:          amount,
		EstimatedFee:    fee,
		SubmittedAt:     time.Now(),
		OwnerAccountID:  from.ID,
		Kind:            domain.KindSend,
		ExpectedBalance: expected,
	}
	if err := s.ledger.Record(entry); err != nil {
		// The deploy is on the network: the caller still gets the id,
		// the overlay just will not discount it.
		s.logger.Error("failed to record pending entry", "deployId", id, "err", err)
	}
	s.cache.Invalidate(from.Address)

	return id, nil
}

// SubmitContract submits arbitrary contract code signed with key, recording
// the pending entry under owner so the estimated fee overlays the balance
// until confirmation.
func (s *Service) SubmitContract(ctx context.Context, code string, phloLimit int64, key *ecdsa.PrivateKey, owner domain.Account) (domain.DeployID, error) {
	if code == "" {
		return "", &domain.RequestError{Message: "missing contract code"}
	}
	if key == nil {
		return "", &domain.SigningError{Message: "missing private key"}
	}
	if phloLimit <= 0 {
		phloLimit = s.sendPhloLimit
	}

	fee := math.NewInt(phloLimit * s.phloPrice)

	var expected *math.Int
	if pre, err := s.cache.Get(ctx, owner.Address, false); err == nil {
		e := pre.Sub(fee)
		expected = &e
	}

	id, err := s.submitter.Submit(ctx, code, phloLimit, s.phloPrice, s.shardID, key)
	if err != nil {
		return "", err
	}

	entry := domain.PendingTx{
		DeployID:        id,
		FromAddress:     owner.Address,
		EstimatedFee:    fee,
		SubmittedAt:     time.Now(),
		OwnerAccountID:  owner.ID,
		Kind:            domain.KindContractDeploy,
		ExpectedBalance: expected,
	}
	if err := s.ledger.Record(entry); err != nil {
		s.logger.Error("failed to record pending entry", "deployId", id, "err", err)
	}
	s.cache.Invalidate(owner.Address)

	return id, nil
}

// GetDisplayBalance returns the balance to show right now: the chain
// balance (cached, or forced fresh) reconciled against and overlaid with
// the account's pending entries. With zero connectivity it degrades to the
// last successfully cached chain balance plus the local overlay; it never
// bypasses the overlay.
func (s *Service) GetDisplayBalance(ctx context.Context, account domain.Account, force bool) (math.Int, error) {
	chain, err := s.cache.Get(ctx, account.Address, force)
	if err != nil {
		last, ok := s.cache.Last(account.Address)
		if !ok {
			return math.Int{}, err
		}
		s.logger.Debug("balance read failed, using last cached value", "account", account.ID, "err", err)
		// A stale balance must not drive reconciliation eviction.
		return s.ledger.OverlayBalance(last, account.ID), nil
	}

	if _, err := s.ledger.Reconcile(chain, account.ID); err != nil {
		s.logger.Error("ledger reconcile failed", "account", account.ID, "err", err)
	}
	return s.ledger.OverlayBalance(chain, account.ID), nil
}

// Pending lists the account's unconfirmed entries.
func (s *Service) Pending(account domain.Account) []domain.PendingTx {
	return s.ledger.ListByAccount(account.ID)
}

// StartPolling starts the background confirmation loop.
func (s *Service) StartPolling() { s.poller.Start() }

// StopPolling stops it. Safe to call repeatedly.
func (s *Service) StopPolling() { s.poller.Stop() }

// RevAddressFor derives the vault address for a public key.
func RevAddressFor(key *ecdsa.PrivateKey) string {
	return signer.RevAddress(&key.PublicKey)
}
