// Package keystore adapts the go-ethereum encrypted keystore as the
// engine's key provider. Encryption-at-rest details stay inside
// go-ethereum; the engine only ever sees the unlock boundary.
package keystore

import (
	"crypto/ecdsa"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"cosmossdk.io/log"
	ethkeystore "github.com/ethereum/go-ethereum/accounts/keystore"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/google/uuid"

	"github.com/altuslabsxyz/revwallet/internal/application/ports"
	"github.com/altuslabsxyz/revwallet/internal/domain"
	"github.com/altuslabsxyz/revwallet/internal/signer"
)

const indexFilename = "accounts.json"

// Keystore manages locally-created accounts backed by go-ethereum key
// files plus an index mapping stable account IDs to those files.
type Keystore struct {
	dir    string
	ks     *ethkeystore.KeyStore
	logger log.Logger

	mu    sync.Mutex
	index []indexEntry
}

// indexEntry is the JSON storage format for one account.
type indexEntry struct {
	ID      string `json:"id"`
	Name    string `json:"name,omitempty"`
	Address string `json:"address"`
	KeyFile string `json:"key_file"`
}

// NewKeystore opens (or creates) a keystore directory.
func NewKeystore(dir string, logger log.Logger) (*Keystore, error) {
	return newKeystore(dir, ethkeystore.StandardScryptN, ethkeystore.StandardScryptP, logger)
}

// newKeystore exists so tests can use light scrypt parameters.
func newKeystore(dir string, scryptN, scryptP int, logger log.Logger) (*Keystore, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("failed to create keystore directory: %w", err)
	}
	k := &Keystore{
		dir:    dir,
		ks:     ethkeystore.NewKeyStore(dir, scryptN, scryptP),
		logger: logger.With("component", "keystore"),
	}
	if err := k.loadIndex(); err != nil {
		return nil, err
	}
	return k, nil
}

// CreateAccount generates a new key encrypted with password and registers
// it under a fresh account ID.
func (k *Keystore) CreateAccount(name, password string) (domain.Account, error) {
	acct, err := k.ks.NewAccount(password)
	if err != nil {
		return domain.Account{}, fmt.Errorf("failed to create key: %w", err)
	}
	return k.register(name, password, acct.URL.Path)
}

// ImportKey stores an existing hex-encoded secp256k1 private key encrypted
// with password.
func (k *Keystore) ImportKey(hexKey, name, password string) (domain.Account, error) {
	key, err := crypto.HexToECDSA(strings.TrimPrefix(hexKey, "0x"))
	if err != nil {
		return domain.Account{}, &domain.SigningError{Message: "malformed private key"}
	}
	acct, err := k.ks.ImportECDSA(key, password)
	if err != nil {
		return domain.Account{}, fmt.Errorf("failed to import key: %w", err)
	}
	return k.register(name, password, acct.URL.Path)
}

// Unlock decrypts the account's private key with password.
func (k *Keystore) Unlock(accountID, password string) (*ecdsa.PrivateKey, error) {
	entry, ok := k.find(accountID)
	if !ok {
		return nil, fmt.Errorf("unknown account %q", accountID)
	}

	data, err := os.ReadFile(entry.KeyFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read key file: %w", err)
	}
	key, err := ethkeystore.DecryptKey(data, password)
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt key: %w", err)
	}
	return key.PrivateKey, nil
}

// List returns every registered account.
func (k *Keystore) List() []domain.Account {
	k.mu.Lock()
	defer k.mu.Unlock()
	out := make([]domain.Account, 0, len(k.index))
	for _, e := range k.index {
		out = append(out, domain.Account{ID: e.ID, Name: e.Name, Address: e.Address})
	}
	return out
}

// Find resolves an account by ID, name or address.
func (k *Keystore) Find(ref string) (domain.Account, bool) {
	entry, ok := k.find(ref)
	if !ok {
		return domain.Account{}, false
	}
	return domain.Account{ID: entry.ID, Name: entry.Name, Address: entry.Address}, true
}

// register decrypts the fresh key file once to derive the vault address,
// then appends the index entry.
func (k *Keystore) register(name, password, keyFile string) (domain.Account, error) {
	data, err := os.ReadFile(keyFile)
	if err != nil {
		return domain.Account{}, fmt.Errorf("failed to read key file: %w", err)
	}
	key, err := ethkeystore.DecryptKey(data, password)
	if err != nil {
		return domain.Account{}, fmt.Errorf("failed to decrypt new key: %w", err)
	}

	entry := indexEntry{
		ID:      uuid.NewString(),
		Name:    name,
		Address: signer.RevAddress(&key.PrivateKey.PublicKey),
		KeyFile: keyFile,
	}

	k.mu.Lock()
	defer k.mu.Unlock()
	k.index = append(k.index, entry)
	if err := k.saveIndexLocked(); err != nil {
		return domain.Account{}, err
	}

	k.logger.Info("account created", "id", entry.ID, "address", entry.Address)
	return domain.Account{ID: entry.ID, Name: entry.Name, Address: entry.Address}, nil
}

func (k *Keystore) find(ref string) (indexEntry, bool) {
	k.mu.Lock()
	defer k.mu.Unlock()
	for _, e := range k.index {
		if e.ID == ref || (e.Name != "" && e.Name == ref) || e.Address == ref {
			return e, true
		}
	}
	return indexEntry{}, false
}

func (k *Keystore) loadIndex() error {
	data, err := os.ReadFile(filepath.Join(k.dir, indexFilename))
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read account index: %w", err)
	}
	if err := json.Unmarshal(data, &k.index); err != nil {
		return fmt.Errorf("failed to parse account index: %w", err)
	}
	return nil
}

func (k *Keystore) saveIndexLocked() error {
	data, err := json.MarshalIndent(k.index, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal account index: %w", err)
	}
	if err := os.WriteFile(filepath.Join(k.dir, indexFilename), data, 0o600); err != nil {
		return fmt.Errorf("failed to write account index: %w", err)
	}
	return nil
}

// Ensure Keystore implements ports.KeyProvider.
var _ ports.KeyProvider = (*Keystore)(nil)
