package keystore

import (
	"encoding/hex"
	"strings"
	"testing"

	"cosmossdk.io/log"
	ethkeystore "github.com/ethereum/go-ethereum/accounts/keystore"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestKeystore(t *testing.T, dir string) *Keystore {
	t.Helper()
	k, err := newKeystore(dir, ethkeystore.LightScryptN, ethkeystore.LightScryptP, log.NewNopLogger())
	require.NoError(t, err)
	return k
}

func TestCreateAccount_AndUnlock(t *testing.T) {
	k := newTestKeystore(t, t.TempDir())

	acct, err := k.CreateAccount("alice", "hunter2")
	require.NoError(t, err)
	assert.NotEmpty(t, acct.ID)
	assert.Equal(t, "alice", acct.Name)
	assert.True(t, strings.HasPrefix(acct.Address, "rev1"))

	key, err := k.Unlock(acct.ID, "hunter2")
	require.NoError(t, err)
	require.NotNil(t, key)

	// Wrong password never yields a key.
	_, err = k.Unlock(acct.ID, "wrong")
	assert.Error(t, err)
}

func TestImportKey_DerivesStableAddress(t *testing.T) {
	k := newTestKeystore(t, t.TempDir())

	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	hexKey := "0x" + hex.EncodeToString(crypto.FromECDSA(key))

	acct, err := k.ImportKey(hexKey, "imported", "pw")
	require.NoError(t, err)

	unlocked, err := k.Unlock(acct.ID, "pw")
	require.NoError(t, err)
	assert.Equal(t, key.D, unlocked.D)

	// Re-importing the same key into a fresh keystore yields the same
	// vault address.
	k2 := newTestKeystore(t, t.TempDir())
	acct2, err := k2.ImportKey(hexKey, "imported-again", "pw")
	require.NoError(t, err)
	assert.Equal(t, acct.Address, acct2.Address)
}

func TestImportKey_RejectsMalformed(t *testing.T) {
	k := newTestKeystore(t, t.TempDir())
	_, err := k.ImportKey("not-a-key", "bad", "pw")
	assert.Error(t, err)
}

func TestFind_ByIDNameAndAddress(t *testing.T) {
	k := newTestKeystore(t, t.TempDir())

	acct, err := k.CreateAccount("alice", "pw")
	require.NoError(t, err)

	for _, ref := range []string{acct.ID, "alice", acct.Address} {
		got, ok := k.Find(ref)
		require.True(t, ok, "lookup by %q", ref)
		assert.Equal(t, acct.ID, got.ID)
	}

	_, ok := k.Find("nobody")
	assert.False(t, ok)
}

func TestIndex_SurvivesReopen(t *testing.T) {
	dir := t.TempDir()
	k := newTestKeystore(t, dir)

	acct, err := k.CreateAccount("alice", "pw")
	require.NoError(t, err)

	reopened := newTestKeystore(t, dir)
	accounts := reopened.List()
	require.Len(t, accounts, 1)
	assert.Equal(t, acct.ID, accounts[0].ID)
	assert.Equal(t, acct.Address, accounts[0].Address)

	_, err = reopened.Unlock(acct.ID, "pw")
	assert.NoError(t, err)
}
