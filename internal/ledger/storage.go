package ledger

import (
	"encoding/json"
	"fmt"
	"time"

	"cosmossdk.io/math"

	"github.com/altuslabsxyz/revwallet/internal/domain"
)

// storedPendingTx is the JSON storage format. Amounts persist as decimal
// strings and times as RFC3339 so the on-disk shape stays stable across
// type changes.
type storedPendingTx struct {
	DeployID        string `json:"deploy_id"`
	FromAddress     string `json:"from_address"`
	ToAddress       string `json:"to_address,omitempty"`
	Amount          string `json:"amount,omitempty"`
	EstimatedFee    string `json:"estimated_fee,omitempty"`
	SubmittedAt     string `json:"submitted_at"`
	OwnerAccountID  string `json:"owner_account_id"`
	Kind            string `json:"kind"`
	ExpectedBalance string `json:"expected_balance,omitempty"`
}

// flushLocked persists the current entries. Caller holds l.mu.
func (l *Ledger) flushLocked() error {
	stored := make([]storedPendingTx, 0, len(l.entries))
	for _, e := range l.entries {
		stored = append(stored, toStoredFormat(e))
	}

	data, err := json.Marshal(stored)
	if err != nil {
		return fmt.Errorf("failed to marshal pending entries: %w", err)
	}
	if err := l.store.Set(storeKey, string(data)); err != nil {
		return fmt.Errorf("failed to persist pending entries: %w", err)
	}
	return nil
}

// hydrate loads persisted entries at construction.
func (l *Ledger) hydrate() error {
	raw, ok, err := l.store.Get(storeKey)
	if err != nil {
		return fmt.Errorf("failed to read pending entries: %w", err)
	}
	if !ok || raw == "" {
		return nil
	}

	var stored []storedPendingTx
	if err := json.Unmarshal([]byte(raw), &stored); err != nil {
		return fmt.Errorf("failed to parse pending entries: %w", err)
	}

	l.entries = make([]domain.PendingTx, 0, len(stored))
	for _, s := range stored {
		tx, err := fromStoredFormat(s)
		if err != nil {
			l.logger.Warn("dropping unreadable pending entry", "deployId", s.DeployID, "err", err)
			continue
		}
		l.entries = append(l.entries, tx)
	}
	return nil
}

func toStoredFormat(e domain.PendingTx) storedPendingTx {
	s := storedPendingTx{
		DeployID:       string(e.DeployID),
		FromAddress:    e.FromAddress,
		ToAddress:      e.ToAddress,
		SubmittedAt:    e.SubmittedAt.Format(time.RFC3339),
		OwnerAccountID: e.OwnerAccountID,
		Kind:           string(e.Kind),
	}
	if !e.Amount.IsNil() {
		s.Amount = e.Amount.String()
	}
	if !e.EstimatedFee.IsNil() {
		s.EstimatedFee = e.EstimatedFee.String()
	}
	if e.ExpectedBalance != nil {
		s.ExpectedBalance = e.ExpectedBalance.String()
	}
	return s
}

func fromStoredFormat(s storedPendingTx) (domain.PendingTx, error) {
	tx := domain.PendingTx{
		DeployID:       domain.DeployID(s.DeployID),
		FromAddress:    s.FromAddress,
		ToAddress:      s.ToAddress,
		OwnerAccountID: s.OwnerAccountID,
		Kind:           domain.TxKind(s.Kind),
	}

	t, err := time.Parse(time.RFC3339, s.SubmittedAt)
	if err != nil {
		return domain.PendingTx{}, fmt.Errorf("bad submitted_at: %w", err)
	}
	tx.SubmittedAt = t

	if s.Amount != "" {
		v, ok := math.NewIntFromString(s.Amount)
		if !ok {
			return domain.PendingTx{}, fmt.Errorf("bad amount %q", s.Amount)
		}
		tx.Amount = v
	}
	if s.EstimatedFee != "" {
		v, ok := math.NewIntFromString(s.EstimatedFee)
		if !ok {
			return domain.PendingTx{}, fmt.Errorf("bad estimated_fee %q", s.EstimatedFee)
		}
		tx.EstimatedFee = v
	}
	if s.ExpectedBalance != "" {
		v, ok := math.NewIntFromString(s.ExpectedBalance)
		if !ok {
			return domain.PendingTx{}, fmt.Errorf("bad expected_balance %q", s.ExpectedBalance)
		}
		tx.ExpectedBalance = &v
	}
	return tx, nil
}
