package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction kinds
const (
	TransactionTypeDeposit           = "deposit"
	TransactionTypeWithdrawal        = "withdrawal"
	TransactionTypeCryptoSend        = "crypto_send"
	TransactionTypeCryptoReceiveFiat = "crypto_receive_as_fiat"
)

// Transaction statuses
const (
	TransactionStatusPending   = "pending"
	TransactionStatusCompleted = "completed"
	TransactionStatusFailed    = "failed"
)

// Transaction is the ledger record for a single balance movement.
// Reference is the external idempotency key. The unique constraint
// spans (reference, account_id) so the two legs of a peer transfer can
// share one reference while duplicate webhook deliveries for the same
// account still collide.
type Transaction struct {
	ID               uint            `gorm:"primarykey"`
	AccountID        string          `gorm:"size:36;not null;index;uniqueIndex:idx_tx_reference_account"`
	Type             string          `gorm:"not null"`
	Amount           decimal.Decimal `gorm:"type:numeric(24,8);not null"`
	Currency         string          `gorm:"size:8;not null"`
	CryptoAmount     decimal.Decimal `gorm:"type:numeric(24,8)"`
	CryptoCurrency   string          `gorm:"size:8"`
	Status           string          `gorm:"not null;default:'pending'"`
	Fee              decimal.Decimal `gorm:"type:numeric(24,8)"`
	PaymentMethod    string
	Reference        string `gorm:"not null;uniqueIndex:idx_tx_reference_account"`
	CounterpartyRef  string
	GatewayPaymentID string
	Description      string
	Metadata         JSON `gorm:"type:jsonb"`
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// CanTransitionTo reports whether a status change is allowed.
// Transitions are monotonic: pending may complete or fail, and both
// completed and failed are terminal.
func (t *Transaction) CanTransitionTo(status string) bool {
	if t.Status == status {
		return true
	}
	if t.Status == TransactionStatusPending {
		return status == TransactionStatusCompleted || status == TransactionStatusFailed
	}
	return false
}

// ReconciliationEntry is the durable audit record written when a
// compensating action fails after a balance was already mutated.
// These rows are surfaced for manual reconciliation, never dropped.
type ReconciliationEntry struct {
	ID        uint            `gorm:"primarykey"`
	Reference string          `gorm:"not null;index"`
	AccountID string          `gorm:"size:36;not null"`
	Amount    decimal.Decimal `gorm:"type:numeric(24,8)"`
	Currency  string          `gorm:"size:8"`
	Detail    string          `gorm:"not null"`
	CreatedAt time.Time
}
