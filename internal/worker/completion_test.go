package worker

import (
	"context"
	"testing"
	"time"

	"cryptopay/internal/models"
	"cryptopay/internal/repositories"
	"cryptopay/internal/services/gateway"
	"cryptopay/internal/services/oracle"
	"cryptopay/internal/services/transfer"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompletionWorker_AppliesGatewayEvents(t *testing.T) {
	ctx := context.Background()
	ledger := repositories.NewMemoryLedger()
	gw := gateway.NewSimulatedGateway(gateway.KindSimulated, "secret", 5*time.Millisecond)
	prices := oracle.NewService(nil, nil, oracle.Config{})
	engine := transfer.NewService(ledger, prices, gw, transfer.Config{}, nil)

	account := &models.Account{Email: "alice@example.com", FullName: "Alice", Status: models.AccountStatusActive}
	require.NoError(t, ledger.CreateAccount(ctx, account))
	_, err := ledger.ApplyBalanceDelta(ctx, account.ID, "INR", decimal.NewFromInt(1000))
	require.NoError(t, err)

	workerCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	go NewCompletionWorker(gw, engine).Run(workerCtx)

	result, err := engine.Withdraw(ctx, transfer.WithdrawRequest{
		AccountID:      account.ID,
		Amount:         decimal.NewFromInt(400),
		Currency:       "INR",
		Method:         "upi",
		AccountDetails: "alice@upi",
	})
	require.NoError(t, err)
	assert.Equal(t, models.TransactionStatusPending, result.Status)

	require.Eventually(t, func() bool {
		status, err := engine.WithdrawalStatus(ctx, account.ID, result.Reference)
		return err == nil && status == models.TransactionStatusCompleted
	}, 2*time.Second, 10*time.Millisecond, "worker should complete the withdrawal after the gateway settles")

	// Completion is status-only; the reserve from initiation stands.
	balance, err := ledger.GetBalance(ctx, account.ID, "INR")
	require.NoError(t, err)
	assert.True(t, balance.Equal(decimal.NewFromInt(600)))
}
