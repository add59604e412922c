// Package submit builds, signs and submits deploys, yielding the DeployID
// the rest of the pipeline tracks.
package submit

import (
	"context"
	"crypto/ecdsa"
	"regexp"
	"strings"
	"time"

	"cosmossdk.io/log"

	"github.com/altuslabsxyz/revwallet/internal/application/ports"
	"github.com/altuslabsxyz/revwallet/internal/domain"
	"github.com/altuslabsxyz/revwallet/internal/signer"
)

// Defaults for deploy construction.
const (
	DefaultPhloPrice     = 1
	DefaultSendPhloLimit = 100_000
)

// Submitter constructs and submits signed deploys.
type Submitter struct {
	node   ports.NodeAPI
	logger log.Logger

	// now is swappable for tests.
	now func() time.Time
}

// NewSubmitter creates a submitter in front of node.
func NewSubmitter(node ports.NodeAPI, logger log.Logger) *Submitter {
	return &Submitter{
		node:   node,
		logger: logger.With("component", "submitter"),
		now:    time.Now,
	}
}

// Submit builds a deploy for term, signs it with key and submits it. No
// partial state is persisted by this layer; a DeployID exists only after
// the node accepted the deploy. Every failure surfaces as a single
// *domain.DeployFailedError.
func (s *Submitter) Submit(ctx context.Context, term string, phloLimit, phloPrice int64, shardID string, key *ecdsa.PrivateKey) (domain.DeployID, error) {
	if phloLimit <= 0 {
		phloLimit = DefaultSendPhloLimit
	}
	if phloPrice <= 0 {
		phloPrice = DefaultPhloPrice
	}

	blocks, err := s.node.LatestBlocks(ctx, 1)
	if err != nil {
		return "", &domain.DeployFailedError{Reason: "could not fetch latest block number", Cause: err}
	}
	var validAfter int64
	if len(blocks) > 0 {
		validAfter = blocks[0].BlockNumber
	}

	deploy := domain.Deploy{
		Term:                  term,
		PhloLimit:             phloLimit,
		PhloPrice:             phloPrice,
		ValidAfterBlockNumber: validAfter,
		Timestamp:             s.now().UnixMilli(),
		ShardID:               shardID,
	}

	signed, err := signer.Sign(deploy, key)
	if err != nil {
		return "", &domain.DeployFailedError{Reason: "could not sign deploy", Cause: err}
	}

	resp, err := s.node.SubmitDeploy(ctx, signed)
	if err != nil {
		return "", &domain.DeployFailedError{Reason: "node rejected deploy", Cause: err}
	}

	id, ok := ExtractDeployID(resp)
	if !ok {
		return "", &domain.DeployFailedError{Reason: "could not extract deploy id from response: " + resp}
	}

	s.logger.Info("deploy submitted", "deployId", id, "validAfter", validAfter, "phloLimit", phloLimit)
	return id, nil
}

// successPattern matches the human-readable success message some node
// versions return instead of the bare identifier.
var successPattern = regexp.MustCompile(`DeployId is:\s*([0-9a-fA-F]+)`)

// ExtractDeployID pulls the deploy identifier out of a submission response.
// Handles both observed shapes: the bare identifier, and a
// "Success! DeployId is: <id>" message.
func ExtractDeployID(resp string) (domain.DeployID, bool) {
	resp = strings.TrimSpace(resp)
	if resp == "" {
		return "", false
	}
	if m := successPattern.FindStringSubmatch(resp); m != nil {
		return domain.DeployID(m[1]), true
	}
	if strings.ContainsAny(resp, " \t\n") {
		return "", false
	}
	return domain.DeployID(resp), true
}
