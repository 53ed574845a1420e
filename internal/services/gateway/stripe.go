package gateway

import (
	"context"
	"fmt"

	stripe "github.com/stripe/stripe-go/v72"
	"github.com/stripe/stripe-go/v72/client"
	"github.com/stripe/stripe-go/v72/webhook"
)

// StripeGateway implements the adapter against the real Stripe API:
// checkout sessions for deposits, payouts for withdrawals, and signed
// event verification for webhooks. Payout completion arrives through
// Stripe's own webhook stream, so this kind does not implement
// CompletionNotifier.
type StripeGateway struct {
	api           *client.API
	webhookSecret string
}

// NewStripeGateway creates an adapter bound to the given API key.
func NewStripeGateway(apiKey, webhookSecret string) *StripeGateway {
	return &StripeGateway{
		api:           client.New(apiKey, nil),
		webhookSecret: webhookSecret,
	}
}

func (g *StripeGateway) Kind() Kind { return KindStripe }

func (g *StripeGateway) CreatePayment(_ context.Context, req PaymentRequest) (*PaymentSession, error) {
	description := req.Description
	if description == "" {
		description = "Wallet deposit"
	}

	params := &stripe.CheckoutSessionParams{
		Mode:       stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL: stripe.String(req.ReturnURL),
		CancelURL:  stripe.String(req.CancelURL),
		LineItems: []*stripe.CheckoutSessionLineItemParams{{
			Quantity: stripe.Int64(1),
			PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
				Currency:   stripe.String(req.Currency),
				UnitAmount: stripe.Int64(toMinorUnits(req.Amount)),
				ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
					Name: stripe.String(description),
				},
			},
		}},
	}
	params.AddMetadata("reference", req.Reference)
	for k, v := range req.Metadata {
		params.AddMetadata(k, v)
	}

	session, err := g.api.CheckoutSessions.New(params)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return &PaymentSession{PaymentID: session.ID, PaymentURL: session.URL}, nil
}

func (g *StripeGateway) VerifyPayment(_ context.Context, paymentID string) (bool, error) {
	session, err := g.api.CheckoutSessions.Get(paymentID, nil)
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return session.PaymentStatus == stripe.CheckoutSessionPaymentStatusPaid, nil
}

func (g *StripeGateway) ProcessWithdrawal(_ context.Context, req WithdrawalRequest) (*WithdrawalReceipt, error) {
	params := &stripe.PayoutParams{
		Amount:   stripe.Int64(toMinorUnits(req.Amount)),
		Currency: stripe.String(req.Currency),
	}
	params.AddMetadata("reference", req.Reference)

	payout, err := g.api.Payouts.New(params)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrWithdrawalRejected, err)
	}
	return &WithdrawalReceipt{
		WithdrawalID: payout.ID,
		Status:       string(payout.Status),
	}, nil
}

func (g *StripeGateway) VerifyWebhookSignature(payload []byte, signature string) bool {
	_, err := webhook.ConstructEvent(payload, signature, g.webhookSecret)
	return err == nil
}

var _ Adapter = (*StripeGateway)(nil)
