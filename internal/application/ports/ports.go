// Package ports defines the interfaces between the wallet engine and its
// infrastructure implementations. Engine packages depend on these
// interfaces, never on concrete clients.
package ports

import (
	"context"
	"crypto/ecdsa"

	"cosmossdk.io/math"

	"github.com/altuslabsxyz/revwallet/internal/domain"
)

// ExprResult is the decoded result of an exploratory deploy: either an
// integer (success) or a string (vault-reported error). Exactly one of
// IsInt/IsString is true on a successful decode.
type ExprResult struct {
	IsInt    bool
	Int      int64
	IsString bool
	String   string
}

// BlockSummary is a lightweight block record from the recent-blocks listing.
type BlockSummary struct {
	BlockHash   string `json:"blockHash"`
	BlockNumber int64  `json:"blockNumber"`
	Timestamp   int64  `json:"timestamp"`
}

// DeployInfo is one deploy embedded in a full block.
type DeployInfo struct {
	Sig     string `json:"sig"`
	Errored bool   `json:"errored"`
	Cost    int64  `json:"cost"`
}

// Block is a full block including its embedded deploy list.
type Block struct {
	BlockSummary
	Deploys []DeployInfo `json:"deploys"`
}

// NodeAPI is the node client surface the engine depends on. Implementations
// route each operation to the correct endpoint class and normalize transport
// failures into the domain error taxonomy.
type NodeAPI interface {
	// SubmitDeploy sends a signed deploy to the validator endpoint and
	// returns the raw response message. DeployID extraction is the
	// submitter's job.
	SubmitDeploy(ctx context.Context, d domain.SignedDeploy) (string, error)

	// ExploreDeploy executes a read-only contract call against the
	// read-only endpoint. The term travels as raw text, not JSON.
	ExploreDeploy(ctx context.Context, term string) (ExprResult, error)

	// LatestBlocks returns summaries of the most recent depth blocks.
	LatestBlocks(ctx context.Context, depth int) ([]BlockSummary, error)

	// BlockByHash returns the full block including its deploy list.
	BlockByHash(ctx context.Context, hash string) (Block, error)

	// Status probes node liveness on the read-only endpoint.
	Status(ctx context.Context) error

	// Propose asks the validator's admin endpoint to propose a block.
	Propose(ctx context.Context) (string, error)

	// Identity names the read-only endpoint this client queries, used as
	// part of balance cache keys.
	Identity() string
}

// DeployRecord is the indexer's view of a deploy.
type DeployRecord struct {
	DeployID     string `json:"deployId"`
	BlockHash    string `json:"blockHash"`
	BlockNumber  int64  `json:"blockNumber"`
	Timestamp    int64  `json:"timestamp"`
	Errored      bool   `json:"errored"`
	ErrorMessage string `json:"errorMessage,omitempty"`
}

// Indexer is the secondary fast-lookup service. Not authoritative.
type Indexer interface {
	// DeployRecord returns the indexer's record for a deploy, or
	// (nil, nil) when the indexer has no record yet. A
	// domain.IndexerUnavailableError means the indexer cannot be used
	// and the caller must fall back to block scanning.
	DeployRecord(ctx context.Context, id domain.DeployID) (*DeployRecord, error)
}

// KeyProvider unlocks a private key for an account. The encryption-at-rest
// scheme behind it is out of this engine's scope.
type KeyProvider interface {
	Unlock(accountID, password string) (*ecdsa.PrivateKey, error)
}

// Store is the durable key-value store backing the pending ledger.
type Store interface {
	Get(key string) (value string, ok bool, err error)
	Set(key, value string) error
	Remove(key string) error
}

// EventSink receives resolution events. Consumed by the UI layer and by
// transaction-history bookkeeping.
type EventSink interface {
	BalanceChanged(accountID string, display math.Int)
	DeployConfirmed(tx domain.PendingTx, res domain.ConfirmationResult)
	DeployFailed(tx domain.PendingTx, reason string)
}
