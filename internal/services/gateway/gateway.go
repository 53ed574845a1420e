// Package gateway abstracts external payment providers behind one
// capability set per kind: create payment, verify payment, process
// withdrawal, verify webhook signature. The kind is selected by
// configuration, never by string switches at call sites.
package gateway

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Kind identifies a payment provider.
type Kind string

const (
	KindStripe    Kind = "stripe"
	KindPayPal    Kind = "paypal"
	KindRazorpay  Kind = "razorpay"
	KindSimulated Kind = "simulated"
)

var (
	ErrUnavailable        = errors.New("gateway unavailable")
	ErrUnsupportedMethod  = errors.New("unsupported payment method")
	ErrUnknownPayment     = errors.New("unknown payment id")
	ErrWithdrawalRejected = errors.New("withdrawal rejected by gateway")
)

// PaymentRequest describes a deposit to collect from the user.
type PaymentRequest struct {
	Amount      decimal.Decimal
	Currency    string
	Description string
	Reference   string
	Metadata    map[string]string
	ReturnURL   string
	CancelURL   string
}

// PaymentSession is the provider-side session the user completes.
type PaymentSession struct {
	PaymentID  string
	PaymentURL string
}

// WithdrawalRequest describes a payout to an external destination.
type WithdrawalRequest struct {
	Amount         decimal.Decimal
	Currency       string
	Method         string // bank, paypal, upi
	AccountDetails string
	Reference      string
}

// WithdrawalReceipt is the provider's acknowledgement. Status here is
// the provider's view; the ledger transaction stays pending until the
// completion event arrives.
type WithdrawalReceipt struct {
	WithdrawalID     string
	Status           string
	EstimatedArrival time.Time
}

// WithdrawalEvent is the asynchronous completion signal for a payout.
type WithdrawalEvent struct {
	Reference    string
	WithdrawalID string
	Completed    bool
}

// Adapter is the capability set every provider kind implements.
type Adapter interface {
	Kind() Kind
	CreatePayment(ctx context.Context, req PaymentRequest) (*PaymentSession, error)
	VerifyPayment(ctx context.Context, paymentID string) (bool, error)
	ProcessWithdrawal(ctx context.Context, req WithdrawalRequest) (*WithdrawalReceipt, error)
	VerifyWebhookSignature(payload []byte, signature string) bool
}

// CompletionNotifier is implemented by adapters that deliver payout
// completion asynchronously. The withdrawal worker consumes it.
type CompletionNotifier interface {
	WithdrawalEvents() <-chan WithdrawalEvent
}

// Config selects and configures the active provider.
type Config struct {
	Kind                Kind
	StripeAPIKey        string
	StripeWebhookSecret string
	WebhookSecret       string        // HMAC key for simulated kinds
	CompletionDelay     time.Duration // simulated payout settlement time
}

// toMinorUnits converts a decimal major-unit amount to the integer
// minor units (cents, paise) provider APIs expect.
func toMinorUnits(amount decimal.Decimal) int64 {
	return amount.Mul(decimal.NewFromInt(100)).Round(0).IntPart()
}

// New builds the adapter for the configured kind.
func New(cfg Config) (Adapter, error) {
	switch cfg.Kind {
	case KindStripe:
		if cfg.StripeAPIKey == "" {
			return nil, fmt.Errorf("stripe gateway: %w: missing API key", ErrUnavailable)
		}
		return NewStripeGateway(cfg.StripeAPIKey, cfg.StripeWebhookSecret), nil
	case KindPayPal, KindRazorpay, KindSimulated, "":
		kind := cfg.Kind
		if kind == "" {
			kind = KindSimulated
		}
		return NewSimulatedGateway(kind, cfg.WebhookSecret, cfg.CompletionDelay), nil
	default:
		return nil, fmt.Errorf("unknown gateway kind %q", cfg.Kind)
	}
}
