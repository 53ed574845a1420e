package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Account is the balance-holding entity, keyed by user id.
// Accounts are created at registration with zero balances and are
// never deleted, only deactivated.
type Account struct {
	ID           string `gorm:"primarykey;size:36"`
	Email        string `gorm:"uniqueIndex;not null"`
	FullName     string `gorm:"not null"`
	PasswordHash string `gorm:"not null" json:"-"`
	IsAdmin      bool   `gorm:"default:false"`
	Status       string `gorm:"default:'active'"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// BeforeCreate assigns a UUID when the caller did not set one.
func (a *Account) BeforeCreate(_ *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return nil
}

// Account statuses
const (
	AccountStatusActive   = "active"
	AccountStatusInactive = "inactive"
)

// Balance holds the stored amount for one (account, currency) pair.
// Crypto "balances" are not stored here; they are derived from the
// fiat balance and live prices (fiat-proxy model).
type Balance struct {
	ID        uint            `gorm:"primarykey"`
	AccountID string          `gorm:"size:36;not null;uniqueIndex:idx_balance_account_currency"`
	Currency  string          `gorm:"size:8;not null;uniqueIndex:idx_balance_account_currency"`
	Amount    decimal.Decimal `gorm:"type:numeric(24,8);not null;default:0"`
	UpdatedAt time.Time
}
