// Package confirm resolves deploy confirmation status. Primary path is the
// indexer; when the indexer cannot be used the resolver degrades to
// scanning recent blocks. The fallback never fabricates a completed result
// it cannot verify against actual block contents.
package confirm

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cosmossdk.io/log"
	"github.com/cenkalti/backoff/v4"

	"github.com/altuslabsxyz/revwallet/internal/application/ports"
	"github.com/altuslabsxyz/revwallet/internal/domain"
)

const (
	// DefaultScanDepth is how many recent blocks the fallback searches.
	DefaultScanDepth = 10

	// DefaultPollInterval spaces repeated indexer lookups within one
	// Resolve call.
	DefaultPollInterval = 3 * time.Second
)

// errNoRecord signals one indexer attempt that found nothing yet; retried
// by the backoff policy up to the attempt bound.
var errNoRecord = errors.New("no indexer record yet")

// Resolver determines deploy status from the indexer with a block-scan
// fallback.
type Resolver struct {
	indexer      ports.Indexer
	node         ports.NodeAPI
	logger       log.Logger
	scanDepth    int
	pollInterval time.Duration
}

// NewResolver creates a resolver over an indexer and a node client.
func NewResolver(idx ports.Indexer, node ports.NodeAPI, logger log.Logger) *Resolver {
	return &Resolver{
		indexer:      idx,
		node:         node,
		logger:       logger.With("component", "confirm-resolver"),
		scanDepth:    DefaultScanDepth,
		pollInterval: DefaultPollInterval,
	}
}

// WithScanDepth overrides the fallback scan depth.
func (r *Resolver) WithScanDepth(depth int) *Resolver {
	if depth > 0 {
		r.scanDepth = depth
	}
	return r
}

// WithPollInterval overrides the indexer re-poll interval.
func (r *Resolver) WithPollInterval(d time.Duration) *Resolver {
	if d > 0 {
		r.pollInterval = d
	}
	return r
}

// Resolve determines the status of a deploy. maxAttempts bounds indexer
// lookups within this call; the caller's own cadence provides any longer
// retry horizon. Resolve never returns an error: confirmation failures are
// folded into a pending result so they can never surface as an exception
// on a UI path.
func (r *Resolver) Resolve(ctx context.Context, id domain.DeployID, maxAttempts int) domain.ConfirmationResult {
	if maxAttempts < 1 {
		maxAttempts = 1
	}

	record, err := r.pollIndexer(ctx, id, maxAttempts)
	switch {
	case err == nil && record != nil:
		return fromRecord(record)
	case err == nil:
		// The indexer answered but has no record yet.
		return domain.ConfirmationResult{
			Status: domain.StatusPending,
			Reason: fmt.Sprintf("indexer has no record after %d attempt(s)", maxAttempts),
		}
	default:
		// Transport failure or mixed content: do not retry the indexer,
		// go straight to the fallback.
		r.logger.Debug("indexer unavailable, scanning recent blocks", "deployId", id, "err", err)
		return r.scanRecentBlocks(ctx, id)
	}
}

// pollIndexer queries the indexer up to maxAttempts times. A transport
// failure aborts immediately; only "no record yet" is retried.
func (r *Resolver) pollIndexer(ctx context.Context, id domain.DeployID, maxAttempts int) (*ports.DeployRecord, error) {
	var record *ports.DeployRecord

	op := func() error {
		got, err := r.indexer.DeployRecord(ctx, id)
		if err != nil {
			return backoff.Permanent(err)
		}
		if got == nil {
			return errNoRecord
		}
		record = got
		return nil
	}

	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewConstantBackOff(r.pollInterval), uint64(maxAttempts-1)),
		ctx,
	)
	err := backoff.Retry(op, policy)
	if errors.Is(err, errNoRecord) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return record, nil
}

// scanRecentBlocks searches the deploy lists of the most recent blocks for
// the deploy signature. Inclusion found in an actually-returned block is
// the only way this path reports completed.
func (r *Resolver) scanRecentBlocks(ctx context.Context, id domain.DeployID) domain.ConfirmationResult {
	summaries, err := r.node.LatestBlocks(ctx, r.scanDepth)
	if err != nil {
		return domain.ConfirmationResult{
			Status: domain.StatusPending,
			Reason: "status unknown: could not fetch recent blocks",
		}
	}

	for _, s := range summaries {
		block, err := r.node.BlockByHash(ctx, s.BlockHash)
		if err != nil {
			r.logger.Debug("skipping unreadable block during scan", "blockHash", s.BlockHash, "err", err)
			continue
		}
		for _, d := range block.Deploys {
			if d.Sig != string(id) {
				continue
			}
			if d.Errored {
				return domain.ConfirmationResult{
					Status:      domain.StatusErrored,
					BlockHash:   block.BlockHash,
					BlockNumber: block.BlockNumber,
					Timestamp:   block.Timestamp,
					Reason:      "deploy executed with error",
				}
			}
			return domain.ConfirmationResult{
				Status:      domain.StatusCompleted,
				BlockHash:   block.BlockHash,
				BlockNumber: block.BlockNumber,
				Timestamp:   block.Timestamp,
			}
		}
	}

	return domain.ConfirmationResult{
		Status: domain.StatusPending,
		Reason: fmt.Sprintf("not found in the last %d blocks; status unknown, not necessarily failed", r.scanDepth),
	}
}

// fromRecord converts an indexer record into a confirmation result.
func fromRecord(rec *ports.DeployRecord) domain.ConfirmationResult {
	if rec.Errored {
		return domain.ConfirmationResult{
			Status:      domain.StatusErrored,
			BlockHash:   rec.BlockHash,
			BlockNumber: rec.BlockNumber,
			Timestamp:   rec.Timestamp,
			Reason:      rec.ErrorMessage,
		}
	}
	return domain.ConfirmationResult{
		Status:      domain.StatusCompleted,
		BlockHash:   rec.BlockHash,
		BlockNumber: rec.BlockNumber,
		Timestamp:   rec.Timestamp,
	}
}
