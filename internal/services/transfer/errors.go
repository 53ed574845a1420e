package transfer

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Engine error taxonomy. Validation and sufficiency errors are
// returned with no state change; ErrConflict is resolved internally by
// the idempotency guard and is not surfaced to the original caller.
var (
	ErrInvalidInput      = errors.New("invalid input")
	ErrNotFound          = errors.New("not found")
	ErrConflict          = errors.New("duplicate reference")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrGateway           = errors.New("payment gateway error")
	ErrInvalidSignature  = errors.New("invalid webhook signature")
	ErrPriceUnavailable  = errors.New("price unavailable")
)

// InconsistencyError reports that a post-mutation step failed and the
// compensating action failed too. The ledger holds a durable
// reconciliation entry whenever one of these is returned; it must
// reach an operator, never be swallowed.
type InconsistencyError struct {
	Reference string
	AccountID string
	Amount    decimal.Decimal
	Currency  string
	Cause     error
}

func (e *InconsistencyError) Error() string {
	return fmt.Sprintf("inconsistent state for reference %s (account %s, %s %s): %v",
		e.Reference, e.AccountID, e.Amount, e.Currency, e.Cause)
}

func (e *InconsistencyError) Unwrap() error { return e.Cause }
