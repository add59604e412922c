package domain

import (
	"fmt"
	"testing"

	"cosmossdk.io/math"
	"github.com/stretchr/testify/assert"
)

func TestPendingTx_Debit(t *testing.T) {
	tests := []struct {
		name string
		tx   PendingTx
		want math.Int
	}{
		{
			name: "send debits amount plus fee",
			tx:   PendingTx{Kind: KindSend, Amount: math.NewInt(100), EstimatedFee: math.NewInt(5)},
			want: math.NewInt(105),
		},
		{
			name: "contract deploy debits fee only",
			tx:   PendingTx{Kind: KindContractDeploy, Amount: math.NewInt(100), EstimatedFee: math.NewInt(5)},
			want: math.NewInt(5),
		},
		{
			name: "nil amounts treated as zero",
			tx:   PendingTx{Kind: KindSend},
			want: math.ZeroInt(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.tx.Debit())
		})
	}
}

func TestErrorClassification(t *testing.T) {
	wrapped := fmt.Errorf("submit: %w", &NetworkError{Endpoint: "http://node"})

	assert.True(t, IsNetworkError(wrapped))
	assert.True(t, IsTransport(wrapped))
	assert.False(t, IsAPIError(wrapped))

	rejected := &APIError{Status: 400, Body: "nope"}
	assert.True(t, IsAPIError(rejected))
	assert.False(t, IsTransport(rejected))

	idx := &IndexerUnavailableError{Endpoint: "http://idx", Reason: "down"}
	assert.True(t, IsIndexerUnavailable(idx))
	assert.True(t, IsTransport(idx))
	assert.False(t, IsNetworkError(idx))
}

func TestDeployFailedError_UnwrapsCause(t *testing.T) {
	cause := &APIError{Status: 400, Body: "bad term"}
	err := &DeployFailedError{Reason: "node rejected deploy", Cause: cause}

	assert.True(t, IsAPIError(err))
	assert.Contains(t, err.Error(), "node rejected deploy")
}

func TestConfirmationResult_Predicates(t *testing.T) {
	assert.True(t, ConfirmationResult{Status: StatusCompleted}.Completed())
	assert.False(t, ConfirmationResult{Status: StatusPending}.Completed())
	assert.True(t, ConfirmationResult{Status: StatusErrored}.Errored())
	assert.False(t, ConfirmationResult{Status: StatusCompleted}.Errored())
}
