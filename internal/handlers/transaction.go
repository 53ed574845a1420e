package handlers

import (
	"strconv"

	"cryptopay/internal/middleware"
	"cryptopay/internal/repositories"
	"cryptopay/internal/services/transfer"
	"cryptopay/internal/utils/response"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

// TransactionHandler covers history, withdrawals and peer crypto
// transfers.
type TransactionHandler struct {
	engine transfer.Service
	ledger repositories.LedgerStore
}

func NewTransactionHandler(engine transfer.Service, ledger repositories.LedgerStore) *TransactionHandler {
	return &TransactionHandler{engine: engine, ledger: ledger}
}

func (h *TransactionHandler) List(c *fiber.Ctx) error {
	accountID := middleware.AccountIDFromContext(c)
	if accountID == "" {
		return response.Unauthorized(c)
	}

	limit, _ := strconv.Atoi(c.Query("limit", "20"))
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	offset, _ := strconv.Atoi(c.Query("offset", "0"))
	if offset < 0 {
		offset = 0
	}

	transactions, err := h.ledger.ListTransactions(c.Context(), accountID, limit, offset)
	if err != nil {
		return response.ServerError(c, "failed to load transactions")
	}
	return response.Success(c, "transactions", fiber.Map{
		"transactions": transactions,
		"limit":        limit,
		"offset":       offset,
	})
}

type withdrawInput struct {
	Amount         decimal.Decimal `json:"amount" validate:"required"`
	Currency       string          `json:"currency" validate:"required,uppercase"`
	Method         string          `json:"method" validate:"required,oneof=bank_transfer paypal upi"`
	AccountDetails string          `json:"account_details" validate:"required"`
}

func (h *TransactionHandler) Withdraw(c *fiber.Ctx) error {
	accountID := middleware.AccountIDFromContext(c)
	if accountID == "" {
		return response.Unauthorized(c)
	}

	var input withdrawInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "invalid request format")
	}
	if err := validate.Struct(input); err != nil {
		return response.ValidationError(c, err.Error())
	}

	result, err := h.engine.Withdraw(c.Context(), transfer.WithdrawRequest{
		AccountID:      accountID,
		Amount:         input.Amount,
		Currency:       input.Currency,
		Method:         input.Method,
		AccountDetails: input.AccountDetails,
	})
	if err != nil {
		return response.EngineError(c, err)
	}
	return response.Created(c, "withdrawal initiated", result)
}

func (h *TransactionHandler) WithdrawalStatus(c *fiber.Ctx) error {
	accountID := middleware.AccountIDFromContext(c)
	if accountID == "" {
		return response.Unauthorized(c)
	}

	reference := c.Params("reference")
	status, err := h.engine.WithdrawalStatus(c.Context(), accountID, reference)
	if err != nil {
		return response.EngineError(c, err)
	}
	return response.Success(c, "withdrawal status", fiber.Map{
		"reference": reference,
		"status":    status,
	})
}

type sendCryptoInput struct {
	RecipientEmail    string          `json:"recipient_email" validate:"required,email"`
	CryptoAmount      decimal.Decimal `json:"crypto_amount" validate:"required"`
	CryptoSymbol      string          `json:"crypto_symbol" validate:"required,uppercase"`
	RecipientCurrency string          `json:"recipient_currency" validate:"required,uppercase"`
	Note              string          `json:"note" validate:"max=200"`
}

func (h *TransactionHandler) SendCrypto(c *fiber.Ctx) error {
	accountID := middleware.AccountIDFromContext(c)
	if accountID == "" {
		return response.Unauthorized(c)
	}

	var input sendCryptoInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "invalid request format")
	}
	if err := validate.Struct(input); err != nil {
		return response.ValidationError(c, err.Error())
	}

	recipient, err := h.ledger.GetAccountByEmail(c.Context(), input.RecipientEmail)
	if err != nil {
		return response.NotFound(c, "recipient not found")
	}

	result, err := h.engine.SendCrypto(c.Context(), transfer.SendCryptoRequest{
		SenderID:          accountID,
		RecipientID:       recipient.ID,
		CryptoAmount:      input.CryptoAmount,
		CryptoSymbol:      input.CryptoSymbol,
		RecipientCurrency: input.RecipientCurrency,
		Note:              input.Note,
	})
	if err != nil {
		return response.EngineError(c, err)
	}
	return response.Success(c, "transfer completed", result)
}
