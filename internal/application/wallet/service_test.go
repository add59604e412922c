package wallet

import (
	"context"
	"crypto/ecdsa"
	"testing"

	"cosmossdk.io/log"
	"cosmossdk.io/math"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/altuslabsxyz/revwallet/internal/application/ports"
	"github.com/altuslabsxyz/revwallet/internal/balance"
	"github.com/altuslabsxyz/revwallet/internal/domain"
	"github.com/altuslabsxyz/revwallet/internal/ledger"
	"github.com/altuslabsxyz/revwallet/internal/poller"
	"github.com/altuslabsxyz/revwallet/internal/signer"
	"github.com/altuslabsxyz/revwallet/internal/submit"
)

// fakeNode backs the cache and the submitter in service tests.
type fakeNode struct {
	balance    int64
	balanceErr error
	deployResp string
	deployErr  error
	lastTerm   string
	lastDeploy domain.SignedDeploy
}

func (f *fakeNode) SubmitDeploy(ctx context.Context, d domain.SignedDeploy) (string, error) {
	f.lastDeploy = d
	return f.deployResp, f.deployErr
}

func (f *fakeNode) ExploreDeploy(ctx context.Context, term string) (ports.ExprResult, error) {
	f.lastTerm = term
	if f.balanceErr != nil {
		return ports.ExprResult{}, f.balanceErr
	}
	return ports.ExprResult{IsInt: true, Int: f.balance}, nil
}

func (f *fakeNode) LatestBlocks(ctx context.Context, depth int) ([]ports.BlockSummary, error) {
	return []ports.BlockSummary{{BlockHash: "aa", BlockNumber: 7}}, nil
}

func (f *fakeNode) BlockByHash(ctx context.Context, hash string) (ports.Block, error) {
	return ports.Block{}, nil
}

func (f *fakeNode) Status(ctx context.Context) error { return nil }

func (f *fakeNode) Propose(ctx context.Context) (string, error) { return "", nil }

func (f *fakeNode) Identity() string { return "http://node" }

// fakeKeys hands out a fixed key for the right password.
type fakeKeys struct {
	key *ecdsa.PrivateKey
}

func (f *fakeKeys) Unlock(accountID, password string) (*ecdsa.PrivateKey, error) {
	if password != "hunter2" {
		return nil, &domain.SigningError{Message: "wrong password"}
	}
	return f.key, nil
}

type memStore struct {
	data map[string]string
}

func (s *memStore) Get(key string) (string, bool, error) {
	v, ok := s.data[key]
	return v, ok, nil
}

func (s *memStore) Set(key, value string) error {
	s.data[key] = value
	return nil
}

func (s *memStore) Remove(key string) error {
	delete(s.data, key)
	return nil
}

func newTestService(t *testing.T, node *fakeNode) (*Service, *ledger.Ledger, domain.Account) {
	t.Helper()

	key, err := crypto.GenerateKey()
	require.NoError(t, err)

	logger := log.NewNopLogger()
	cache := balance.NewCache(node, logger)
	led, err := ledger.NewLedger(&memStore{data: map[string]string{}}, logger)
	require.NoError(t, err)
	sub := submit.NewSubmitter(node, logger)
	res := &noopResolver{}
	orch := poller.NewOrchestrator(led, res, cache, node, nil, logger)

	svc := NewService(node, &fakeKeys{key: key}, cache, led, sub, orch, Options{ShardID: "root"}, logger)

	acct := domain.Account{ID: "acct-1", Name: "alice", Address: signer.RevAddress(&key.PublicKey)}
	return svc, led, acct
}

type noopResolver struct{}

func (noopResolver) Resolve(ctx context.Context, id domain.DeployID, maxAttempts int) domain.ConfirmationResult {
	return domain.ConfirmationResult{Status: domain.StatusPending}
}

func TestSubmitSend_RecordsPendingWithExpectedBalance(t *testing.T) {
	node := &fakeNode{balance: 100_0000_0000, deployResp: "Success! DeployId is: dd01"}
	svc, led, acct := newTestService(t, node)

	amount := math.NewInt(10_0000_0000)
	id, err := svc.SubmitSend(context.Background(), acct, "hunter2", "rev1dest", amount)
	require.NoError(t, err)
	assert.Equal(t, domain.DeployID("dd01"), id)

	entries := led.ListByAccount(acct.ID)
	require.Len(t, entries, 1)
	e := entries[0]
	assert.Equal(t, id, e.DeployID)
	assert.Equal(t, amount, e.Amount)
	assert.Equal(t, svc.EstimatedSendFee(), e.EstimatedFee)
	assert.Equal(t, domain.KindSend, e.Kind)

	require.NotNil(t, e.ExpectedBalance)
	want := math.NewInt(100_0000_0000).Sub(amount).Sub(svc.EstimatedSendFee())
	assert.Equal(t, want, *e.ExpectedBalance)

	// The transfer term carries both vault addresses and the atomic amount.
	assert.Contains(t, node.lastDeploy.Term, acct.Address)
	assert.Contains(t, node.lastDeploy.Term, "rev1dest")
	assert.Contains(t, node.lastDeploy.Term, amount.String())
}

func TestSubmitSend_BalanceReadFailureStillSends(t *testing.T) {
	node := &fakeNode{
		balanceErr: &domain.NetworkError{Endpoint: "http://node"},
		deployResp: "dd01",
	}
	svc, led, acct := newTestService(t, node)

	id, err := svc.SubmitSend(context.Background(), acct, "hunter2", "rev1dest", math.NewInt(5))
	require.NoError(t, err)
	assert.Equal(t, domain.DeployID("dd01"), id)

	entries := led.ListByAccount(acct.ID)
	require.Len(t, entries, 1)
	assert.Nil(t, entries[0].ExpectedBalance, "unknown pre-balance leaves no expected balance")
}

func TestSubmitSend_Validation(t *testing.T) {
	node := &fakeNode{deployResp: "dd01"}
	svc, _, acct := newTestService(t, node)

	_, err := svc.SubmitSend(context.Background(), acct, "hunter2", "rev1dest", math.NewInt(0))
	assert.Error(t, err)

	_, err = svc.SubmitSend(context.Background(), acct, "hunter2", "", math.NewInt(5))
	assert.Error(t, err)

	_, err = svc.SubmitSend(context.Background(), acct, "wrong-password", "rev1dest", math.NewInt(5))
	assert.Error(t, err)

	// Nothing was recorded for any failed attempt.
	assert.Empty(t, svc.Pending(acct))
}

func TestSubmitSend_SubmitFailureRecordsNothing(t *testing.T) {
	node := &fakeNode{
		balance:   100,
		deployErr: &domain.APIError{Status: 400, Body: "bad deploy"},
	}
	svc, led, acct := newTestService(t, node)

	_, err := svc.SubmitSend(context.Background(), acct, "hunter2", "rev1dest", math.NewInt(5))

	var dfErr *domain.DeployFailedError
	require.ErrorAs(t, err, &dfErr)
	assert.Empty(t, led.List())
}

func TestSubmitContract_FeeOnlyDebit(t *testing.T) {
	node := &fakeNode{balance: 1_000_000, deployResp: "dd02"}
	svc, led, acct := newTestService(t, node)

	key, err := crypto.GenerateKey()
	require.NoError(t, err)

	id, err := svc.SubmitContract(context.Background(), `new x in { Nil }`, 50_000, key, acct)
	require.NoError(t, err)
	assert.Equal(t, domain.DeployID("dd02"), id)

	entries := led.ListByAccount(acct.ID)
	require.Len(t, entries, 1)
	e := entries[0]
	assert.Equal(t, domain.KindContractDeploy, e.Kind)
	assert.Equal(t, math.NewInt(50_000), e.EstimatedFee)
	assert.Equal(t, math.NewInt(50_000), e.Debit(), "contract deploys debit the fee only")
}

func TestGetDisplayBalance_AppliesOverlay(t *testing.T) {
	node := &fakeNode{balance: 100_0000_0000, deployResp: "Success! DeployId is: dd01"}
	svc, _, acct := newTestService(t, node)

	_, err := svc.SubmitSend(context.Background(), acct, "hunter2", "rev1dest", math.NewInt(10_0000_0000))
	require.NoError(t, err)

	display, err := svc.GetDisplayBalance(context.Background(), acct, false)
	require.NoError(t, err)

	// 100.0 minus the 10.0 send minus the 0.001 max fee.
	want := math.NewInt(100_0000_0000).Sub(math.NewInt(10_0000_0000)).Sub(svc.EstimatedSendFee())
	assert.Equal(t, want, display)
}

func TestGetDisplayBalance_DegradesToLastCachedValue(t *testing.T) {
	node := &fakeNode{balance: 500}
	svc, _, acct := newTestService(t, node)

	// Populate the cache, then lose connectivity.
	_, err := svc.GetDisplayBalance(context.Background(), acct, false)
	require.NoError(t, err)
	node.balanceErr = &domain.NetworkError{Endpoint: "http://node"}

	display, err := svc.GetDisplayBalance(context.Background(), acct, true)
	require.NoError(t, err)
	assert.Equal(t, math.NewInt(500), display)
}

func TestGetDisplayBalance_NoCachedValueSurfacesError(t *testing.T) {
	node := &fakeNode{balanceErr: &domain.NetworkError{Endpoint: "http://node"}}
	svc, _, acct := newTestService(t, node)

	_, err := svc.GetDisplayBalance(context.Background(), acct, false)
	require.Error(t, err)
	assert.True(t, domain.IsTransport(err))
}
