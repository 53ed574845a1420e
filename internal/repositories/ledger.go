// Package repositories provides the data access layer. The ledger
// store is the only component that mutates account balances; every
// balance change goes through ApplyBalanceDelta as a single atomic
// read-modify-write at the storage layer.
package repositories

import (
	"context"
	"errors"

	"cryptopay/internal/models"

	"github.com/shopspring/decimal"
)

var (
	ErrAccountNotFound     = errors.New("account not found")
	ErrDuplicateAccount    = errors.New("account already exists")
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrDuplicateReference  = errors.New("duplicate transaction reference")
	ErrInvalidTransition   = errors.New("invalid status transition")
)

// LedgerStore is the contract the transfer engine depends on.
//
// ApplyBalanceDelta must be implemented as an atomic increment at the
// underlying store, never as read-then-write in application code; the
// store itself is agnostic about overdraft policy, so callers pre-check
// sufficiency before issuing a debit. Compensating deltas are ordinary
// calls with the inverted amount.
//
// InsertTransaction enforces uniqueness on (reference, account): a
// ErrDuplicateReference result is how the idempotency guard detects a
// retried delivery.
type LedgerStore interface {
	CreateAccount(ctx context.Context, account *models.Account) error
	GetAccount(ctx context.Context, id string) (*models.Account, error)
	GetAccountByEmail(ctx context.Context, email string) (*models.Account, error)
	ListAccounts(ctx context.Context, limit, offset int) ([]models.Account, error)

	GetBalance(ctx context.Context, accountID, currency string) (decimal.Decimal, error)
	GetBalances(ctx context.Context, accountID string) (map[string]decimal.Decimal, error)
	ApplyBalanceDelta(ctx context.Context, accountID, currency string, delta decimal.Decimal) (decimal.Decimal, error)

	InsertTransaction(ctx context.Context, tx *models.Transaction) error
	FindTransactionByReference(ctx context.Context, ref string) (*models.Transaction, error)
	UpdateTransactionStatus(ctx context.Context, id uint, status string) (*models.Transaction, error)
	ListTransactions(ctx context.Context, accountID string, limit, offset int) ([]models.Transaction, error)
	DeleteTransactionsByReference(ctx context.Context, ref string) error

	RecordInconsistency(ctx context.Context, entry *models.ReconciliationEntry) error
	ListInconsistencies(ctx context.Context, limit, offset int) ([]models.ReconciliationEntry, error)
}
