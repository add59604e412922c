package wallet

import (
	"cosmossdk.io/log"
	"cosmossdk.io/math"

	"github.com/altuslabsxyz/revwallet/internal/application/ports"
	"github.com/altuslabsxyz/revwallet/internal/domain"
)

// LogSink is the default event sink: it writes resolution events to the
// log. History bookkeeping and UI surfaces install their own sinks.
type LogSink struct {
	logger log.Logger
}

// NewLogSink creates a sink that logs every event.
func NewLogSink(logger log.Logger) *LogSink {
	return &LogSink{logger: logger.With("component", "events")}
}

func (s *LogSink) BalanceChanged(accountID string, display math.Int) {
	s.logger.Info("balance changed", "account", accountID, "display", display.String())
}

func (s *LogSink) DeployConfirmed(tx domain.PendingTx, res domain.ConfirmationResult) {
	s.logger.Info("deploy confirmed",
		"deployId", tx.DeployID, "account", tx.OwnerAccountID,
		"blockHash", res.BlockHash, "blockNumber", res.BlockNumber)
}

func (s *LogSink) DeployFailed(tx domain.PendingTx, reason string) {
	s.logger.Warn("deploy failed",
		"deployId", tx.DeployID, "account", tx.OwnerAccountID, "reason", reason)
}

// Ensure LogSink implements ports.EventSink.
var _ ports.EventSink = (*LogSink)(nil)
