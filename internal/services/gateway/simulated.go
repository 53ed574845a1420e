package gateway

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"sync"
	"time"
)

// SimulatedGateway stands in for PayPal, Razorpay, or a generic test
// provider. Payments succeed immediately; payouts settle after a
// configurable delay and are announced through WithdrawalEvents rather
// than by the caller guessing a timer.
type SimulatedGateway struct {
	kind            Kind
	webhookSecret   string
	completionDelay time.Duration

	mu       sync.Mutex
	payments map[string]bool // issued payment ids
	events   chan WithdrawalEvent
}

// NewSimulatedGateway creates a simulated provider of the given kind.
func NewSimulatedGateway(kind Kind, webhookSecret string, completionDelay time.Duration) *SimulatedGateway {
	if completionDelay == 0 {
		completionDelay = 5 * time.Second
	}
	return &SimulatedGateway{
		kind:            kind,
		webhookSecret:   webhookSecret,
		completionDelay: completionDelay,
		payments:        make(map[string]bool),
		events:          make(chan WithdrawalEvent, 64),
	}
}

func (g *SimulatedGateway) Kind() Kind { return g.kind }

func (g *SimulatedGateway) CreatePayment(_ context.Context, req PaymentRequest) (*PaymentSession, error) {
	if req.Amount.Sign() <= 0 {
		return nil, fmt.Errorf("%w: non-positive amount", ErrUnsupportedMethod)
	}

	prefix := strings.ToUpper(string(g.kind))
	paymentID := fmt.Sprintf("%s_%d", prefix, time.Now().UnixNano())

	var url string
	switch g.kind {
	case KindPayPal:
		url = "https://www.sandbox.paypal.com/checkoutnow?token=" + paymentID
	case KindRazorpay:
		url = "https://checkout.razorpay.com/v1/checkout?order_id=" + paymentID
	default:
		url = "https://pay.simulator.local/session/" + paymentID
	}

	g.mu.Lock()
	g.payments[paymentID] = true
	g.mu.Unlock()

	return &PaymentSession{PaymentID: paymentID, PaymentURL: url}, nil
}

// VerifyPayment only confirms ids this instance issued; unknown ids
// fail closed.
func (g *SimulatedGateway) VerifyPayment(_ context.Context, paymentID string) (bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if !g.payments[paymentID] {
		return false, ErrUnknownPayment
	}
	return true, nil
}

func (g *SimulatedGateway) ProcessWithdrawal(_ context.Context, req WithdrawalRequest) (*WithdrawalReceipt, error) {
	var prefix string
	var arrival time.Duration
	switch strings.ToLower(req.Method) {
	case "bank", "bank_transfer":
		prefix, arrival = "BANK_WDR", 48*time.Hour
	case "paypal":
		prefix, arrival = "PAYPAL_WDR", 30*time.Minute
	case "upi":
		prefix, arrival = "UPI_WDR", 15*time.Minute
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedMethod, req.Method)
	}

	withdrawalID := fmt.Sprintf("%s_%d", prefix, time.Now().UnixNano())
	reference := req.Reference

	// Settlement is announced asynchronously; a full event buffer drops
	// the signal and the transaction simply stays pending.
	time.AfterFunc(g.completionDelay, func() {
		select {
		case g.events <- WithdrawalEvent{Reference: reference, WithdrawalID: withdrawalID, Completed: true}:
		default:
		}
	})

	return &WithdrawalReceipt{
		WithdrawalID:     withdrawalID,
		Status:           "processing",
		EstimatedArrival: time.Now().Add(arrival),
	}, nil
}

// WithdrawalEvents implements CompletionNotifier.
func (g *SimulatedGateway) WithdrawalEvents() <-chan WithdrawalEvent {
	return g.events
}

// Sign computes the webhook signature for a payload. The payment
// simulator uses it when posting webhooks at us.
func (g *SimulatedGateway) Sign(payload []byte) string {
	mac := hmac.New(sha256.New, []byte(g.webhookSecret))
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}

// VerifyWebhookSignature checks the HMAC-SHA256 hex signature. An
// empty configured secret rejects everything.
func (g *SimulatedGateway) VerifyWebhookSignature(payload []byte, signature string) bool {
	if g.webhookSecret == "" {
		return false
	}
	expected, err := hex.DecodeString(g.Sign(payload))
	if err != nil {
		return false
	}
	got, err := hex.DecodeString(signature)
	if err != nil {
		return false
	}
	return hmac.Equal(expected, got)
}

var (
	_ Adapter            = (*SimulatedGateway)(nil)
	_ CompletionNotifier = (*SimulatedGateway)(nil)
)
