package repositories

import (
	"context"
	"sort"
	"sync"
	"time"

	"cryptopay/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MemoryLedger is an in-memory LedgerStore. It backs the simulation
// mode and the test suite; all state lives behind one mutex so the
// contract's atomicity guarantees hold under concurrent callers.
type MemoryLedger struct {
	mu              sync.Mutex
	accounts        map[string]*models.Account
	accountsByEmail map[string]string
	balances        map[string]map[string]decimal.Decimal
	transactions    []*models.Transaction
	byReference     map[string][]*models.Transaction
	inconsistencies []*models.ReconciliationEntry
	nextTxID        uint
}

// NewMemoryLedger returns an empty in-memory ledger store.
func NewMemoryLedger() *MemoryLedger {
	return &MemoryLedger{
		accounts:        make(map[string]*models.Account),
		accountsByEmail: make(map[string]string),
		balances:        make(map[string]map[string]decimal.Decimal),
		byReference:     make(map[string][]*models.Transaction),
		nextTxID:        1,
	}
}

func (m *MemoryLedger) CreateAccount(_ context.Context, account *models.Account) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if account.ID == "" {
		account.ID = uuid.NewString()
	}
	if _, exists := m.accounts[account.ID]; exists {
		return ErrDuplicateAccount
	}
	if _, exists := m.accountsByEmail[account.Email]; exists {
		return ErrDuplicateAccount
	}
	now := time.Now()
	account.CreatedAt = now
	account.UpdatedAt = now
	cp := *account
	m.accounts[account.ID] = &cp
	m.accountsByEmail[account.Email] = account.ID
	m.balances[account.ID] = make(map[string]decimal.Decimal)
	return nil
}

func (m *MemoryLedger) GetAccount(_ context.Context, id string) (*models.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	account, ok := m.accounts[id]
	if !ok {
		return nil, ErrAccountNotFound
	}
	cp := *account
	return &cp, nil
}

func (m *MemoryLedger) GetAccountByEmail(_ context.Context, email string) (*models.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	id, ok := m.accountsByEmail[email]
	if !ok {
		return nil, ErrAccountNotFound
	}
	cp := *m.accounts[id]
	return &cp, nil
}

func (m *MemoryLedger) ListAccounts(_ context.Context, limit, offset int) ([]models.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	ids := make([]string, 0, len(m.accounts))
	for id := range m.accounts {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var out []models.Account
	for i, id := range ids {
		if i < offset {
			continue
		}
		if limit > 0 && len(out) >= limit {
			break
		}
		out = append(out, *m.accounts[id])
	}
	return out, nil
}

func (m *MemoryLedger) GetBalance(_ context.Context, accountID, currency string) (decimal.Decimal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	balances, ok := m.balances[accountID]
	if !ok {
		return decimal.Zero, ErrAccountNotFound
	}
	return balances[currency], nil
}

func (m *MemoryLedger) GetBalances(_ context.Context, accountID string) (map[string]decimal.Decimal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	balances, ok := m.balances[accountID]
	if !ok {
		return nil, ErrAccountNotFound
	}
	out := make(map[string]decimal.Decimal, len(balances))
	for currency, amount := range balances {
		out[currency] = amount
	}
	return out, nil
}

// ApplyBalanceDelta adds delta under the store lock; the read and the
// write are one critical section, so concurrent deltas never lose an
// update.
func (m *MemoryLedger) ApplyBalanceDelta(_ context.Context, accountID, currency string, delta decimal.Decimal) (decimal.Decimal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	balances, ok := m.balances[accountID]
	if !ok {
		return decimal.Zero, ErrAccountNotFound
	}
	newAmount := balances[currency].Add(delta)
	balances[currency] = newAmount
	return newAmount, nil
}

func (m *MemoryLedger) InsertTransaction(_ context.Context, tx *models.Transaction) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, existing := range m.byReference[tx.Reference] {
		if existing.AccountID == tx.AccountID {
			return ErrDuplicateReference
		}
	}
	now := time.Now()
	tx.ID = m.nextTxID
	m.nextTxID++
	if tx.Status == "" {
		tx.Status = models.TransactionStatusPending
	}
	tx.CreatedAt = now
	tx.UpdatedAt = now

	cp := *tx
	m.transactions = append(m.transactions, &cp)
	m.byReference[tx.Reference] = append(m.byReference[tx.Reference], &cp)
	return nil
}

func (m *MemoryLedger) FindTransactionByReference(_ context.Context, ref string) (*models.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	records := m.byReference[ref]
	if len(records) == 0 {
		return nil, ErrTransactionNotFound
	}
	cp := *records[0]
	return &cp, nil
}

func (m *MemoryLedger) UpdateTransactionStatus(_ context.Context, id uint, status string) (*models.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, tx := range m.transactions {
		if tx.ID != id {
			continue
		}
		if tx.Status == status {
			cp := *tx
			return &cp, nil
		}
		if !tx.CanTransitionTo(status) {
			return nil, ErrInvalidTransition
		}
		tx.Status = status
		tx.UpdatedAt = time.Now()
		cp := *tx
		return &cp, nil
	}
	return nil, ErrTransactionNotFound
}

func (m *MemoryLedger) ListTransactions(_ context.Context, accountID string, limit, offset int) ([]models.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []models.Transaction
	skipped := 0
	for i := len(m.transactions) - 1; i >= 0; i-- {
		tx := m.transactions[i]
		if tx.AccountID != accountID {
			continue
		}
		if skipped < offset {
			skipped++
			continue
		}
		if limit > 0 && len(out) >= limit {
			break
		}
		out = append(out, *tx)
	}
	return out, nil
}

func (m *MemoryLedger) DeleteTransactionsByReference(_ context.Context, ref string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	kept := m.transactions[:0]
	for _, tx := range m.transactions {
		if tx.Reference != ref {
			kept = append(kept, tx)
		}
	}
	m.transactions = kept
	delete(m.byReference, ref)
	return nil
}

func (m *MemoryLedger) RecordInconsistency(_ context.Context, entry *models.ReconciliationEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry.ID = uint(len(m.inconsistencies) + 1)
	entry.CreatedAt = time.Now()
	cp := *entry
	m.inconsistencies = append(m.inconsistencies, &cp)
	return nil
}

func (m *MemoryLedger) ListInconsistencies(_ context.Context, limit, offset int) ([]models.ReconciliationEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []models.ReconciliationEntry
	for i := len(m.inconsistencies) - 1; i >= 0; i-- {
		if offset > 0 {
			offset--
			continue
		}
		if limit > 0 && len(out) >= limit {
			break
		}
		out = append(out, *m.inconsistencies[i])
	}
	return out, nil
}

// Inconsistencies returns a copy of the recorded reconciliation
// entries. Test helper; the admin surface goes through
// ListInconsistencies.
func (m *MemoryLedger) Inconsistencies() []models.ReconciliationEntry {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]models.ReconciliationEntry, 0, len(m.inconsistencies))
	for _, e := range m.inconsistencies {
		out = append(out, *e)
	}
	return out
}

var _ LedgerStore = (*MemoryLedger)(nil)
