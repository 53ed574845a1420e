package handlers

import (
	"cryptopay/internal/middleware"
	"cryptopay/internal/services/transfer"
	"cryptopay/internal/utils/response"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

// PaymentHandler covers the deposit flow: session creation, manual
// confirmation, and the gateway webhook.
type PaymentHandler struct {
	engine transfer.Service
}

func NewPaymentHandler(engine transfer.Service) *PaymentHandler {
	return &PaymentHandler{engine: engine}
}

type depositInput struct {
	Amount        decimal.Decimal `json:"amount" validate:"required"`
	Currency      string          `json:"currency" validate:"required,uppercase"`
	TargetCrypto  string          `json:"target_crypto"`
	PaymentMethod string          `json:"payment_method" validate:"required"`
}

func (h *PaymentHandler) CreateDeposit(c *fiber.Ctx) error {
	accountID := middleware.AccountIDFromContext(c)
	if accountID == "" {
		return response.Unauthorized(c)
	}

	var input depositInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "invalid request format")
	}
	if err := validate.Struct(input); err != nil {
		return response.ValidationError(c, err.Error())
	}

	session, err := h.engine.Deposit(c.Context(), transfer.DepositRequest{
		AccountID:     accountID,
		Amount:        input.Amount,
		Currency:      input.Currency,
		TargetCrypto:  input.TargetCrypto,
		PaymentMethod: input.PaymentMethod,
	})
	if err != nil {
		return response.EngineError(c, err)
	}
	return response.Created(c, "deposit session created", session)
}

type confirmInput struct {
	Reference string `json:"reference" validate:"required"`
	PaymentID string `json:"payment_id"`
}

func (h *PaymentHandler) ConfirmDeposit(c *fiber.Ctx) error {
	accountID := middleware.AccountIDFromContext(c)
	if accountID == "" {
		return response.Unauthorized(c)
	}

	var input confirmInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "invalid request format")
	}
	if err := validate.Struct(input); err != nil {
		return response.ValidationError(c, err.Error())
	}

	result, err := h.engine.ConfirmDeposit(c.Context(), transfer.ConfirmRequest{
		AccountID: accountID,
		Reference: input.Reference,
		PaymentID: input.PaymentID,
	})
	if err != nil {
		return response.EngineError(c, err)
	}
	if result.Duplicate {
		return response.Success(c, "deposit already confirmed", result)
	}
	return response.Success(c, "deposit confirmed", result)
}

type webhookInput struct {
	AccountID string          `json:"account_id"`
	Amount    decimal.Decimal `json:"amount"`
	Currency  string          `json:"currency"`
	Reference string          `json:"reference"`
	PaymentID string          `json:"payment_id"`
}

// Webhook is unauthenticated; authenticity comes from the gateway
// signature over the raw body. The engine verifies before acting.
func (h *PaymentHandler) Webhook(c *fiber.Ctx) error {
	payload := c.Body()
	signature := c.Get("X-Gateway-Signature")

	var input webhookInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "invalid request format")
	}

	result, err := h.engine.HandleWebhook(c.Context(), payload, signature, transfer.WebhookNotice{
		AccountID: input.AccountID,
		Amount:    input.Amount,
		Currency:  input.Currency,
		Reference: input.Reference,
		PaymentID: input.PaymentID,
	})
	if err != nil {
		return response.EngineError(c, err)
	}
	return response.Success(c, "webhook processed", result)
}
