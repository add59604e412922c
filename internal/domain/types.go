// Package domain defines the core types shared by the submission and
// confirmation pipeline.
package domain

import (
	"time"

	"cosmossdk.io/math"
)

// DeployID is the opaque handle returned by the network after a successful
// submission. Compared by exact string equality only; observed formats vary
// between a bare signature and a signature embedded in a success message.
type DeployID string

// Deploy is an unsigned intent to execute code on-chain.
// Immutable once constructed.
type Deploy struct {
	// Term is the contract code. Opaque to this layer.
	Term string `json:"term"`

	// PhloLimit and PhloPrice bound the resource budget.
	PhloLimit int64 `json:"phloLimit"`
	PhloPrice int64 `json:"phloPrice"`

	// ValidAfterBlockNumber anchors the deploy's validity window.
	ValidAfterBlockNumber int64 `json:"validAfterBlockNumber"`

	// Timestamp is the submission time in Unix milliseconds.
	Timestamp int64 `json:"timestamp"`

	// ShardID names the target shard.
	ShardID string `json:"shardId"`
}

// SignedDeploy is a Deploy plus the deployer identity and signature.
// Produced exactly once per Deploy by the signer.
type SignedDeploy struct {
	Deploy

	// Deployer is the hex-encoded uncompressed secp256k1 public key.
	Deployer string `json:"deployer"`

	// Signature is the hex-encoded 64-byte signature over the deploy digest.
	Signature string `json:"signature"`

	// SigAlgorithm names the signature scheme.
	SigAlgorithm string `json:"sigAlgorithm"`
}

// Account identifies a locally-managed key and its vault address. The key
// material itself stays behind the key provider.
type Account struct {
	ID      string `json:"id"`
	Name    string `json:"name,omitempty"`
	Address string `json:"address"`
}

// Confirmation status values.
type ConfirmationStatus string

const (
	StatusPending   ConfirmationStatus = "pending"
	StatusCompleted ConfirmationStatus = "completed"
	StatusErrored   ConfirmationStatus = "errored"
)

// ConfirmationResult is the tagged outcome of a single confirmation poll.
// Never mutated after creation; each poll produces a fresh result.
type ConfirmationResult struct {
	Status      ConfirmationStatus `json:"status"`
	BlockHash   string             `json:"blockHash,omitempty"`
	BlockNumber int64              `json:"blockNumber,omitempty"`
	Timestamp   int64              `json:"timestamp,omitempty"`

	// Reason carries the error text for an errored result, or a
	// human-readable note for a pending-with-unknown-status result.
	Reason string `json:"reason,omitempty"`
}

// Completed reports whether the deploy was verifiably included in a block.
func (r ConfirmationResult) Completed() bool { return r.Status == StatusCompleted }

// Errored reports whether the deploy executed with an error.
func (r ConfirmationResult) Errored() bool { return r.Status == StatusErrored }

// TxKind discriminates pending ledger entries.
type TxKind string

const (
	KindSend           TxKind = "send"
	KindContractDeploy TxKind = "contract-deploy"
)

// PendingTx is one submitted-but-unconfirmed operation tracked by the
// pending ledger. Entries are keyed by DeployID and de-duplicated on write.
type PendingTx struct {
	DeployID       DeployID  `json:"deployId"`
	FromAddress    string    `json:"fromAddress"`
	ToAddress      string    `json:"toAddress,omitempty"`
	Amount         math.Int  `json:"amount"`
	EstimatedFee   math.Int  `json:"estimatedFee"`
	SubmittedAt    time.Time `json:"submittedAt"`
	OwnerAccountID string    `json:"ownerAccountId"`
	Kind           TxKind    `json:"kind"`

	// ExpectedBalance is the balance the owning vault should show once the
	// debit lands: pre-submission chain balance minus amount minus estimated
	// fee. Nil when the pre-submission balance was unknown.
	ExpectedBalance *math.Int `json:"expectedBalance,omitempty"`
}

// Debit returns the amount this entry subtracts from the displayed balance
// while it remains unconfirmed: amount plus fee for sends, fee only for
// contract deploys.
func (t PendingTx) Debit() math.Int {
	fee := t.EstimatedFee
	if fee.IsNil() {
		fee = math.ZeroInt()
	}
	if t.Kind == KindSend && !t.Amount.IsNil() {
		return t.Amount.Add(fee)
	}
	return fee
}
