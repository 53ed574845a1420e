package repositories

import (
	"context"
	"errors"
	"fmt"

	"cryptopay/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type postgresLedger struct {
	db *gorm.DB
}

// NewPostgresLedger returns a LedgerStore backed by Postgres via gorm.
func NewPostgresLedger(db *gorm.DB) LedgerStore {
	return &postgresLedger{db: db}
}

func (r *postgresLedger) CreateAccount(ctx context.Context, account *models.Account) error {
	if err := r.db.WithContext(ctx).Create(account).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicateAccount
		}
		return fmt.Errorf("failed to create account: %w", err)
	}
	return nil
}

func (r *postgresLedger) GetAccount(ctx context.Context, id string) (*models.Account, error) {
	var account models.Account
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&account).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	return &account, nil
}

func (r *postgresLedger) GetAccountByEmail(ctx context.Context, email string) (*models.Account, error) {
	var account models.Account
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&account).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, fmt.Errorf("failed to get account by email: %w", err)
	}
	return &account, nil
}

func (r *postgresLedger) ListAccounts(ctx context.Context, limit, offset int) ([]models.Account, error) {
	var accounts []models.Account
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&accounts).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	return accounts, nil
}

func (r *postgresLedger) GetBalance(ctx context.Context, accountID, currency string) (decimal.Decimal, error) {
	if err := r.ensureAccount(ctx, accountID); err != nil {
		return decimal.Zero, err
	}
	var balance models.Balance
	err := r.db.WithContext(ctx).
		Where("account_id = ? AND currency = ?", accountID, currency).
		First(&balance).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Account exists but has never held this currency.
			return decimal.Zero, nil
		}
		return decimal.Zero, fmt.Errorf("failed to get balance: %w", err)
	}
	return balance.Amount, nil
}

func (r *postgresLedger) GetBalances(ctx context.Context, accountID string) (map[string]decimal.Decimal, error) {
	if err := r.ensureAccount(ctx, accountID); err != nil {
		return nil, err
	}
	var rows []models.Balance
	if err := r.db.WithContext(ctx).Where("account_id = ?", accountID).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to get balances: %w", err)
	}
	balances := make(map[string]decimal.Decimal, len(rows))
	for _, b := range rows {
		balances[b.Currency] = b.Amount
	}
	return balances, nil
}

// ApplyBalanceDelta adds delta to the stored balance in a single
// statement. The upsert-with-increment runs entirely inside Postgres,
// so concurrent deltas against the same row serialize there and no
// update is lost.
func (r *postgresLedger) ApplyBalanceDelta(ctx context.Context, accountID, currency string, delta decimal.Decimal) (decimal.Decimal, error) {
	if err := r.ensureAccount(ctx, accountID); err != nil {
		return decimal.Zero, err
	}

	var newAmount decimal.Decimal
	row := r.db.WithContext(ctx).Raw(`
		INSERT INTO balances (account_id, currency, amount, updated_at)
		VALUES (?, ?, ?, NOW())
		ON CONFLICT (account_id, currency)
		DO UPDATE SET amount = balances.amount + EXCLUDED.amount, updated_at = NOW()
		RETURNING amount`,
		accountID, currency, delta,
	).Row()
	if err := row.Scan(&newAmount); err != nil {
		return decimal.Zero, fmt.Errorf("failed to apply balance delta: %w", err)
	}
	return newAmount, nil
}

func (r *postgresLedger) InsertTransaction(ctx context.Context, tx *models.Transaction) error {
	if err := r.db.WithContext(ctx).Create(tx).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicateReference
		}
		return fmt.Errorf("failed to insert transaction: %w", err)
	}
	return nil
}

func (r *postgresLedger) FindTransactionByReference(ctx context.Context, ref string) (*models.Transaction, error) {
	var tx models.Transaction
	err := r.db.WithContext(ctx).
		Where("reference = ?", ref).
		Order("id ASC").
		First(&tx).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTransactionNotFound
		}
		return nil, fmt.Errorf("failed to find transaction: %w", err)
	}
	return &tx, nil
}

func (r *postgresLedger) UpdateTransactionStatus(ctx context.Context, id uint, status string) (*models.Transaction, error) {
	var tx models.Transaction
	if err := r.db.WithContext(ctx).First(&tx, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTransactionNotFound
		}
		return nil, fmt.Errorf("failed to load transaction: %w", err)
	}
	if tx.Status == status {
		return &tx, nil
	}
	if !tx.CanTransitionTo(status) {
		return nil, ErrInvalidTransition
	}

	// Guard on the previous status so a concurrent transition loses
	// cleanly instead of clobbering a terminal state.
	res := r.db.WithContext(ctx).Model(&models.Transaction{}).
		Where("id = ? AND status = ?", id, tx.Status).
		Update("status", status)
	if res.Error != nil {
		return nil, fmt.Errorf("failed to update transaction status: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, ErrInvalidTransition
	}
	tx.Status = status
	return &tx, nil
}

func (r *postgresLedger) ListTransactions(ctx context.Context, accountID string, limit, offset int) ([]models.Transaction, error) {
	var txs []models.Transaction
	err := r.db.WithContext(ctx).
		Where("account_id = ?", accountID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&txs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	return txs, nil
}

func (r *postgresLedger) DeleteTransactionsByReference(ctx context.Context, ref string) error {
	if err := r.db.WithContext(ctx).Where("reference = ?", ref).Delete(&models.Transaction{}).Error; err != nil {
		return fmt.Errorf("failed to delete transactions: %w", err)
	}
	return nil
}

func (r *postgresLedger) RecordInconsistency(ctx context.Context, entry *models.ReconciliationEntry) error {
	if err := r.db.WithContext(ctx).Create(entry).Error; err != nil {
		return fmt.Errorf("failed to record inconsistency: %w", err)
	}
	return nil
}

func (r *postgresLedger) ListInconsistencies(ctx context.Context, limit, offset int) ([]models.ReconciliationEntry, error) {
	var entries []models.ReconciliationEntry
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list reconciliation entries: %w", err)
	}
	return entries, nil
}

func (r *postgresLedger) ensureAccount(ctx context.Context, accountID string) error {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Account{}).Where("id = ?", accountID).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to check account: %w", err)
	}
	if count == 0 {
		return ErrAccountNotFound
	}
	return nil
}
