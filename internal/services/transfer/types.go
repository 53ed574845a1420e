package transfer

import (
	"time"

	"github.com/shopspring/decimal"
)

// Config holds engine policy knobs.
type Config struct {
	DepositFeeRate    decimal.Decimal // fraction of gross, default 2%
	WithdrawalFeeRate decimal.Decimal // fraction of gross, default 1%
	DefaultCurrency   string          // fiat currency backing crypto balances
	ExternalTimeout   time.Duration   // bound on gateway and oracle calls
}

// DepositRequest starts a fiat deposit, optionally earmarked for a
// target crypto asset.
type DepositRequest struct {
	AccountID     string
	Amount        decimal.Decimal
	Currency      string
	TargetCrypto  string
	PaymentMethod string
}

// DepositSession is returned to the caller to complete payment. The
// balance is not credited until confirmation.
type DepositSession struct {
	Reference      string          `json:"reference"`
	PaymentID      string          `json:"payment_id"`
	PaymentURL     string          `json:"payment_url"`
	Amount         decimal.Decimal `json:"amount"`
	Fee            decimal.Decimal `json:"fee"`
	NetAmount      decimal.Decimal `json:"net_amount"`
	Currency       string          `json:"currency"`
	TargetCrypto   string          `json:"target_crypto,omitempty"`
	ExpectedCrypto decimal.Decimal `json:"expected_crypto,omitempty"`
}

// ConfirmRequest confirms a previously created deposit.
type ConfirmRequest struct {
	AccountID string
	Reference string
	PaymentID string
}

// WebhookNotice carries the fields the API layer parsed out of a
// gateway webhook. The raw payload and signature travel alongside so
// authenticity is checked over exactly the bytes received.
type WebhookNotice struct {
	AccountID string
	Amount    decimal.Decimal
	Currency  string
	Reference string
	PaymentID string
}

// ConfirmResult reports a committed (or already-committed) deposit.
type ConfirmResult struct {
	Reference  string          `json:"reference"`
	Amount     decimal.Decimal `json:"amount"`
	Fee        decimal.Decimal `json:"fee"`
	Currency   string          `json:"currency"`
	NewBalance decimal.Decimal `json:"new_balance"`
	Status     string          `json:"status"`
	Duplicate  bool            `json:"duplicate"`
}

// WithdrawRequest initiates a payout.
type WithdrawRequest struct {
	AccountID      string
	Amount         decimal.Decimal
	Currency       string
	Method         string
	AccountDetails string
}

// WithdrawResult reports an initiated withdrawal. Status stays
// pending until the gateway's completion signal arrives.
type WithdrawResult struct {
	Reference        string          `json:"reference"`
	Amount           decimal.Decimal `json:"amount"`
	Fee              decimal.Decimal `json:"fee"`
	NetAmount        decimal.Decimal `json:"net_amount"`
	Currency         string          `json:"currency"`
	Status           string          `json:"status"`
	NewBalance       decimal.Decimal `json:"new_balance"`
	WithdrawalID     string          `json:"withdrawal_id"`
	EstimatedArrival time.Time       `json:"estimated_arrival,omitempty"`
}

// SendCryptoRequest is a peer transfer denominated in crypto and
// settled as fiat for the recipient.
type SendCryptoRequest struct {
	SenderID          string
	RecipientID       string
	CryptoAmount      decimal.Decimal
	CryptoSymbol      string
	RecipientCurrency string
	Note              string
}

// SendCryptoResult reports both committed balances and the rate used.
type SendCryptoResult struct {
	Reference        string          `json:"reference"`
	SenderBalance    decimal.Decimal `json:"sender_balance"`
	RecipientBalance decimal.Decimal `json:"recipient_balance"`
	DebitedFiat      decimal.Decimal `json:"debited_fiat"`
	CreditedFiat     decimal.Decimal `json:"credited_fiat"`
	CreditedCurrency string          `json:"credited_currency"`
	ExchangeSummary  string          `json:"exchange_summary"`
}
