package repositories

import (
	"context"
	"sync"
	"testing"

	"cryptopay/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAccount(t *testing.T, ledger *MemoryLedger, email string) *models.Account {
	t.Helper()
	account := &models.Account{
		Email:        email,
		FullName:     "Test User",
		PasswordHash: "hashed",
		Status:       models.AccountStatusActive,
	}
	require.NoError(t, ledger.CreateAccount(context.Background(), account))
	require.NotEmpty(t, account.ID)
	return account
}

func TestMemoryLedger_CreateAccount(t *testing.T) {
	ledger := NewMemoryLedger()
	ctx := context.Background()

	account := newTestAccount(t, ledger, "alice@example.com")

	t.Run("duplicate email rejected", func(t *testing.T) {
		err := ledger.CreateAccount(ctx, &models.Account{Email: "alice@example.com"})
		assert.ErrorIs(t, err, ErrDuplicateAccount)
	})

	t.Run("lookup by id and email", func(t *testing.T) {
		got, err := ledger.GetAccount(ctx, account.ID)
		require.NoError(t, err)
		assert.Equal(t, "alice@example.com", got.Email)

		got, err = ledger.GetAccountByEmail(ctx, "alice@example.com")
		require.NoError(t, err)
		assert.Equal(t, account.ID, got.ID)
	})

	t.Run("unknown account", func(t *testing.T) {
		_, err := ledger.GetAccount(ctx, "missing")
		assert.ErrorIs(t, err, ErrAccountNotFound)
	})
}

func TestMemoryLedger_ApplyBalanceDelta(t *testing.T) {
	ledger := NewMemoryLedger()
	ctx := context.Background()
	account := newTestAccount(t, ledger, "bob@example.com")

	t.Run("credit then debit", func(t *testing.T) {
		newBalance, err := ledger.ApplyBalanceDelta(ctx, account.ID, "INR", decimal.NewFromInt(1000))
		require.NoError(t, err)
		assert.True(t, newBalance.Equal(decimal.NewFromInt(1000)))

		newBalance, err = ledger.ApplyBalanceDelta(ctx, account.ID, "INR", decimal.NewFromInt(-300))
		require.NoError(t, err)
		assert.True(t, newBalance.Equal(decimal.NewFromInt(700)))
	})

	t.Run("currencies are independent", func(t *testing.T) {
		_, err := ledger.ApplyBalanceDelta(ctx, account.ID, "USD", decimal.NewFromInt(50))
		require.NoError(t, err)

		balances, err := ledger.GetBalances(ctx, account.ID)
		require.NoError(t, err)
		assert.True(t, balances["INR"].Equal(decimal.NewFromInt(700)))
		assert.True(t, balances["USD"].Equal(decimal.NewFromInt(50)))
	})

	t.Run("unknown account", func(t *testing.T) {
		_, err := ledger.ApplyBalanceDelta(ctx, "missing", "INR", decimal.NewFromInt(1))
		assert.ErrorIs(t, err, ErrAccountNotFound)
	})

	t.Run("zero balance for unseen currency", func(t *testing.T) {
		balance, err := ledger.GetBalance(ctx, account.ID, "EUR")
		require.NoError(t, err)
		assert.True(t, balance.IsZero())
	})
}

// Concurrent deltas must never lose an update: the sum of applied
// deltas must equal the final balance exactly.
func TestMemoryLedger_ApplyBalanceDelta_Concurrent(t *testing.T) {
	ledger := NewMemoryLedger()
	ctx := context.Background()
	account := newTestAccount(t, ledger, "carol@example.com")

	const workers = 50
	const perWorker = 20
	delta := decimal.NewFromFloat(1.25)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < perWorker; j++ {
				_, err := ledger.ApplyBalanceDelta(ctx, account.ID, "INR", delta)
				assert.NoError(t, err)
			}
		}()
	}
	wg.Wait()

	want := delta.Mul(decimal.NewFromInt(workers * perWorker))
	got, err := ledger.GetBalance(ctx, account.ID, "INR")
	require.NoError(t, err)
	assert.True(t, got.Equal(want), "expected %s, got %s", want, got)
}

func TestMemoryLedger_InsertTransaction(t *testing.T) {
	ledger := NewMemoryLedger()
	ctx := context.Background()
	alice := newTestAccount(t, ledger, "alice@example.com")
	bob := newTestAccount(t, ledger, "bob@example.com")

	tx := &models.Transaction{
		AccountID: alice.ID,
		Type:      models.TransactionTypeDeposit,
		Amount:    decimal.NewFromInt(100),
		Currency:  "INR",
		Reference: "TXN_1",
	}
	require.NoError(t, ledger.InsertTransaction(ctx, tx))
	assert.NotZero(t, tx.ID)
	assert.Equal(t, models.TransactionStatusPending, tx.Status)

	t.Run("same reference same account collides", func(t *testing.T) {
		err := ledger.InsertTransaction(ctx, &models.Transaction{
			AccountID: alice.ID,
			Reference: "TXN_1",
		})
		assert.ErrorIs(t, err, ErrDuplicateReference)
	})

	t.Run("same reference different account allowed", func(t *testing.T) {
		err := ledger.InsertTransaction(ctx, &models.Transaction{
			AccountID: bob.ID,
			Reference: "TXN_1",
		})
		assert.NoError(t, err)
	})

	t.Run("find by reference", func(t *testing.T) {
		got, err := ledger.FindTransactionByReference(ctx, "TXN_1")
		require.NoError(t, err)
		assert.Equal(t, alice.ID, got.AccountID)

		_, err = ledger.FindTransactionByReference(ctx, "missing")
		assert.ErrorIs(t, err, ErrTransactionNotFound)
	})
}

func TestMemoryLedger_UpdateTransactionStatus(t *testing.T) {
	ledger := NewMemoryLedger()
	ctx := context.Background()
	account := newTestAccount(t, ledger, "dave@example.com")

	tx := &models.Transaction{AccountID: account.ID, Reference: "TXN_S"}
	require.NoError(t, ledger.InsertTransaction(ctx, tx))

	t.Run("pending completes", func(t *testing.T) {
		updated, err := ledger.UpdateTransactionStatus(ctx, tx.ID, models.TransactionStatusCompleted)
		require.NoError(t, err)
		assert.Equal(t, models.TransactionStatusCompleted, updated.Status)
	})

	t.Run("repeated update is a no-op", func(t *testing.T) {
		updated, err := ledger.UpdateTransactionStatus(ctx, tx.ID, models.TransactionStatusCompleted)
		require.NoError(t, err)
		assert.Equal(t, models.TransactionStatusCompleted, updated.Status)
	})

	t.Run("terminal status cannot regress", func(t *testing.T) {
		_, err := ledger.UpdateTransactionStatus(ctx, tx.ID, models.TransactionStatusFailed)
		assert.ErrorIs(t, err, ErrInvalidTransition)
	})

	t.Run("unknown id", func(t *testing.T) {
		_, err := ledger.UpdateTransactionStatus(ctx, 9999, models.TransactionStatusFailed)
		assert.ErrorIs(t, err, ErrTransactionNotFound)
	})
}

func TestMemoryLedger_DeleteTransactionsByReference(t *testing.T) {
	ledger := NewMemoryLedger()
	ctx := context.Background()
	alice := newTestAccount(t, ledger, "alice@example.com")
	bob := newTestAccount(t, ledger, "bob@example.com")

	for _, id := range []string{alice.ID, bob.ID} {
		require.NoError(t, ledger.InsertTransaction(ctx, &models.Transaction{
			AccountID: id,
			Reference: "CRYPTO_1",
		}))
	}
	require.NoError(t, ledger.InsertTransaction(ctx, &models.Transaction{
		AccountID: alice.ID,
		Reference: "TXN_keep",
	}))

	require.NoError(t, ledger.DeleteTransactionsByReference(ctx, "CRYPTO_1"))

	_, err := ledger.FindTransactionByReference(ctx, "CRYPTO_1")
	assert.ErrorIs(t, err, ErrTransactionNotFound)

	kept, err := ledger.FindTransactionByReference(ctx, "TXN_keep")
	require.NoError(t, err)
	assert.Equal(t, alice.ID, kept.AccountID)
}

func TestMemoryLedger_ListTransactions(t *testing.T) {
	ledger := NewMemoryLedger()
	ctx := context.Background()
	account := newTestAccount(t, ledger, "eve@example.com")

	for _, ref := range []string{"a", "b", "c"} {
		require.NoError(t, ledger.InsertTransaction(ctx, &models.Transaction{
			AccountID: account.ID,
			Reference: ref,
		}))
	}

	list, err := ledger.ListTransactions(ctx, account.ID, 2, 0)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "c", list[0].Reference, "newest first")

	list, err = ledger.ListTransactions(ctx, account.ID, 2, 2)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "a", list[0].Reference)
}
