package confirm

import (
	"context"
	"testing"
	"time"

	"cosmossdk.io/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/altuslabsxyz/revwallet/internal/application/ports"
	"github.com/altuslabsxyz/revwallet/internal/domain"
)

// mockIndexer returns queued results, one per call.
type mockIndexer struct {
	records []*ports.DeployRecord
	errs    []error
	calls   int
}

func (m *mockIndexer) DeployRecord(ctx context.Context, id domain.DeployID) (*ports.DeployRecord, error) {
	i := m.calls
	m.calls++
	var rec *ports.DeployRecord
	if i < len(m.records) {
		rec = m.records[i]
	}
	var err error
	if i < len(m.errs) {
		err = m.errs[i]
	}
	return rec, err
}

// mockNode serves canned blocks for the fallback scan.
type mockNode struct {
	summaries    []ports.BlockSummary
	summariesErr error
	blocks       map[string]ports.Block
	blockCalls   int
}

func (m *mockNode) LatestBlocks(ctx context.Context, depth int) ([]ports.BlockSummary, error) {
	if m.summariesErr != nil {
		return nil, m.summariesErr
	}
	if depth < len(m.summaries) {
		return m.summaries[:depth], nil
	}
	return m.summaries, nil
}

func (m *mockNode) BlockByHash(ctx context.Context, hash string) (ports.Block, error) {
	m.blockCalls++
	b, ok := m.blocks[hash]
	if !ok {
		return ports.Block{}, &domain.APIError{Status: 404, Body: "block not found"}
	}
	return b, nil
}

func (m *mockNode) SubmitDeploy(ctx context.Context, d domain.SignedDeploy) (string, error) {
	return "", nil
}

func (m *mockNode) ExploreDeploy(ctx context.Context, term string) (ports.ExprResult, error) {
	return ports.ExprResult{}, nil
}

func (m *mockNode) Status(ctx context.Context) error { return nil }

func (m *mockNode) Propose(ctx context.Context) (string, error) { return "", nil }

func (m *mockNode) Identity() string { return "http://node" }

func newTestResolver(idx ports.Indexer, node ports.NodeAPI) *Resolver {
	return NewResolver(idx, node, log.NewNopLogger()).WithPollInterval(time.Millisecond)
}

func TestResolve_IndexerCompleted(t *testing.T) {
	idx := &mockIndexer{records: []*ports.DeployRecord{{
		DeployID:    "dd01",
		BlockHash:   "bb",
		BlockNumber: 77,
		Timestamp:   1_700_000_000_000,
	}}}
	r := newTestResolver(idx, &mockNode{})

	res := r.Resolve(context.Background(), "dd01", 1)
	assert.True(t, res.Completed())
	assert.Equal(t, "bb", res.BlockHash)
	assert.Equal(t, int64(77), res.BlockNumber)
}

func TestResolve_IndexerErrored(t *testing.T) {
	idx := &mockIndexer{records: []*ports.DeployRecord{{
		DeployID:     "dd01",
		BlockHash:    "bb",
		Errored:      true,
		ErrorMessage: "out of phlogiston",
	}}}
	r := newTestResolver(idx, &mockNode{})

	res := r.Resolve(context.Background(), "dd01", 1)
	assert.True(t, res.Errored())
	assert.Equal(t, "out of phlogiston", res.Reason)
}

func TestResolve_NoRecordRetriesThenPending(t *testing.T) {
	// Three attempts, all empty: result is pending, never an error.
	idx := &mockIndexer{records: []*ports.DeployRecord{nil, nil, nil}}
	r := newTestResolver(idx, &mockNode{})

	res := r.Resolve(context.Background(), "dd01", 3)
	assert.Equal(t, domain.StatusPending, res.Status)
	assert.Contains(t, res.Reason, "no record")
	assert.Equal(t, 3, idx.calls)
}

func TestResolve_RecordOnSecondAttempt(t *testing.T) {
	idx := &mockIndexer{records: []*ports.DeployRecord{nil, {DeployID: "dd01", BlockNumber: 9}}}
	r := newTestResolver(idx, &mockNode{})

	res := r.Resolve(context.Background(), "dd01", 3)
	assert.True(t, res.Completed())
	assert.Equal(t, 2, idx.calls)
}

func TestResolve_IndexerUnavailableFallsBackToScan(t *testing.T) {
	idx := &mockIndexer{errs: []error{&domain.IndexerUnavailableError{Reason: "down"}}}
	node := &mockNode{
		summaries: []ports.BlockSummary{
			{BlockHash: "h1", BlockNumber: 43},
			{BlockHash: "h2", BlockNumber: 42},
		},
		blocks: map[string]ports.Block{
			"h1": {BlockSummary: ports.BlockSummary{BlockHash: "h1", BlockNumber: 43}},
			"h2": {
				BlockSummary: ports.BlockSummary{BlockHash: "h2", BlockNumber: 42, Timestamp: 5},
				Deploys:      []ports.DeployInfo{{Sig: "dd01"}},
			},
		},
	}
	r := newTestResolver(idx, node)

	res := r.Resolve(context.Background(), "dd01", 5)
	assert.True(t, res.Completed())
	assert.Equal(t, "h2", res.BlockHash)
	assert.Equal(t, int64(42), res.BlockNumber)

	// A transport failure must not burn the remaining indexer attempts.
	assert.Equal(t, 1, idx.calls)
}

func TestResolve_ScanFindsErroredDeploy(t *testing.T) {
	idx := &mockIndexer{errs: []error{&domain.IndexerUnavailableError{Reason: "down"}}}
	node := &mockNode{
		summaries: []ports.BlockSummary{{BlockHash: "h1", BlockNumber: 10}},
		blocks: map[string]ports.Block{
			"h1": {
				BlockSummary: ports.BlockSummary{BlockHash: "h1", BlockNumber: 10},
				Deploys:      []ports.DeployInfo{{Sig: "dd01", Errored: true}},
			},
		},
	}
	r := newTestResolver(idx, node)

	res := r.Resolve(context.Background(), "dd01", 1)
	assert.True(t, res.Errored())
	assert.Equal(t, "h1", res.BlockHash)
}

func TestResolve_ScanMissReportsPendingNotFailed(t *testing.T) {
	idx := &mockIndexer{errs: []error{&domain.IndexerUnavailableError{Reason: "down"}}}
	node := &mockNode{
		summaries: []ports.BlockSummary{{BlockHash: "h1", BlockNumber: 10}},
		blocks: map[string]ports.Block{
			"h1": {BlockSummary: ports.BlockSummary{BlockHash: "h1", BlockNumber: 10}},
		},
	}
	r := newTestResolver(idx, node)

	res := r.Resolve(context.Background(), "unseen", 1)

	// Absence from recent blocks is never reported as completion or failure.
	assert.Equal(t, domain.StatusPending, res.Status)
	assert.Contains(t, res.Reason, "not necessarily failed")
}

func TestResolve_ScanSkipsUnreadableBlocks(t *testing.T) {
	idx := &mockIndexer{errs: []error{&domain.IndexerUnavailableError{Reason: "down"}}}
	node := &mockNode{
		summaries: []ports.BlockSummary{
			{BlockHash: "broken", BlockNumber: 11},
			{BlockHash: "h2", BlockNumber: 10},
		},
		blocks: map[string]ports.Block{
			"h2": {
				BlockSummary: ports.BlockSummary{BlockHash: "h2", BlockNumber: 10},
				Deploys:      []ports.DeployInfo{{Sig: "dd01"}},
			},
		},
	}
	r := newTestResolver(idx, node)

	res := r.Resolve(context.Background(), "dd01", 1)
	assert.True(t, res.Completed())
	assert.Equal(t, 2, node.blockCalls)
}

func TestResolve_ScanDepthHonored(t *testing.T) {
	idx := &mockIndexer{errs: []error{&domain.IndexerUnavailableError{Reason: "down"}}}
	node := &mockNode{
		summaries: []ports.BlockSummary{
			{BlockHash: "h1"}, {BlockHash: "h2"}, {BlockHash: "h3"},
		},
		blocks: map[string]ports.Block{},
	}
	r := newTestResolver(idx, node).WithScanDepth(2)

	res := r.Resolve(context.Background(), "dd01", 1)
	assert.Equal(t, domain.StatusPending, res.Status)
	assert.Equal(t, 2, node.blockCalls)
}

func TestResolve_BlocksFetchFailureIsPending(t *testing.T) {
	idx := &mockIndexer{errs: []error{&domain.IndexerUnavailableError{Reason: "down"}}}
	node := &mockNode{summariesErr: &domain.NetworkError{Endpoint: "http://node"}}
	r := newTestResolver(idx, node)

	res := r.Resolve(context.Background(), "dd01", 1)
	require.Equal(t, domain.StatusPending, res.Status)
	assert.Contains(t, res.Reason, "status unknown")
}
