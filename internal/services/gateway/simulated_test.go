package gateway

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSimulatedGateway_CreateAndVerifyPayment(t *testing.T) {
	gw := NewSimulatedGateway(KindSimulated, "secret", time.Second)
	ctx := context.Background()

	session, err := gw.CreatePayment(ctx, PaymentRequest{
		Amount:    decimal.NewFromInt(1000),
		Currency:  "INR",
		Reference: "TXN_1",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, session.PaymentID)
	assert.NotEmpty(t, session.PaymentURL)

	ok, err := gw.VerifyPayment(ctx, session.PaymentID)
	require.NoError(t, err)
	assert.True(t, ok)

	t.Run("unknown payment id fails closed", func(t *testing.T) {
		ok, err := gw.VerifyPayment(ctx, "FORGED_123")
		assert.ErrorIs(t, err, ErrUnknownPayment)
		assert.False(t, ok)
	})

	t.Run("non-positive amount rejected", func(t *testing.T) {
		_, err := gw.CreatePayment(ctx, PaymentRequest{Amount: decimal.Zero, Currency: "INR"})
		assert.Error(t, err)
	})
}

func TestSimulatedGateway_KindSpecificURLs(t *testing.T) {
	ctx := context.Background()
	tests := []struct {
		kind     Kind
		contains string
	}{
		{KindPayPal, "paypal.com"},
		{KindRazorpay, "razorpay.com"},
		{KindSimulated, "simulator.local"},
	}
	for _, tt := range tests {
		gw := NewSimulatedGateway(tt.kind, "secret", time.Second)
		session, err := gw.CreatePayment(ctx, PaymentRequest{Amount: decimal.NewFromInt(10), Currency: "INR"})
		require.NoError(t, err)
		assert.Contains(t, session.PaymentURL, tt.contains)
		assert.True(t, strings.HasPrefix(session.PaymentID, strings.ToUpper(string(tt.kind))))
	}
}

func TestSimulatedGateway_ProcessWithdrawal(t *testing.T) {
	gw := NewSimulatedGateway(KindSimulated, "secret", 10*time.Millisecond)
	ctx := context.Background()

	tests := []struct {
		method string
		prefix string
	}{
		{"bank_transfer", "BANK_WDR"},
		{"paypal", "PAYPAL_WDR"},
		{"upi", "UPI_WDR"},
	}
	for _, tt := range tests {
		receipt, err := gw.ProcessWithdrawal(ctx, WithdrawalRequest{
			Amount:         decimal.NewFromInt(100),
			Currency:       "INR",
			Method:         tt.method,
			AccountDetails: "dest",
			Reference:      "ref_" + tt.method,
		})
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(receipt.WithdrawalID, tt.prefix))
		assert.Equal(t, "processing", receipt.Status)
		assert.True(t, receipt.EstimatedArrival.After(time.Now()))
	}

	t.Run("unsupported method", func(t *testing.T) {
		_, err := gw.ProcessWithdrawal(ctx, WithdrawalRequest{Method: "carrier_pigeon"})
		assert.ErrorIs(t, err, ErrUnsupportedMethod)
	})
}

func TestSimulatedGateway_CompletionEvents(t *testing.T) {
	gw := NewSimulatedGateway(KindSimulated, "secret", 5*time.Millisecond)
	ctx := context.Background()

	_, err := gw.ProcessWithdrawal(ctx, WithdrawalRequest{
		Amount:    decimal.NewFromInt(100),
		Currency:  "INR",
		Method:    "upi",
		Reference: "ref_async",
	})
	require.NoError(t, err)

	select {
	case event := <-gw.WithdrawalEvents():
		assert.Equal(t, "ref_async", event.Reference)
		assert.True(t, event.Completed)
		assert.True(t, strings.HasPrefix(event.WithdrawalID, "UPI_WDR"))
	case <-time.After(time.Second):
		t.Fatal("no completion event within deadline")
	}
}

func TestSimulatedGateway_WebhookSignature(t *testing.T) {
	gw := NewSimulatedGateway(KindSimulated, "secret", time.Second)
	payload := []byte(`{"reference":"TXN_1","amount":"1000"}`)

	t.Run("round trip verifies", func(t *testing.T) {
		signature := gw.Sign(payload)
		assert.True(t, gw.VerifyWebhookSignature(payload, signature))
	})

	t.Run("tampered payload rejected", func(t *testing.T) {
		signature := gw.Sign(payload)
		assert.False(t, gw.VerifyWebhookSignature([]byte(`{"amount":"999999"}`), signature))
	})

	t.Run("garbage signature rejected", func(t *testing.T) {
		assert.False(t, gw.VerifyWebhookSignature(payload, "not-hex!"))
		assert.False(t, gw.VerifyWebhookSignature(payload, ""))
	})

	t.Run("empty secret rejects everything", func(t *testing.T) {
		open := NewSimulatedGateway(KindSimulated, "", time.Second)
		assert.False(t, open.VerifyWebhookSignature(payload, open.Sign(payload)))
	})
}

func TestNew_SelectsAdapterByKind(t *testing.T) {
	t.Run("defaults to simulated", func(t *testing.T) {
		gw, err := New(Config{})
		require.NoError(t, err)
		assert.Equal(t, KindSimulated, gw.Kind())
	})

	t.Run("stripe requires api key", func(t *testing.T) {
		_, err := New(Config{Kind: KindStripe})
		assert.Error(t, err)
	})

	t.Run("unknown kind", func(t *testing.T) {
		_, err := New(Config{Kind: "carrier_pigeon"})
		assert.Error(t, err)
	})
}
