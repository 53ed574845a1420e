package handlers

import (
	"strconv"

	"cryptopay/internal/repositories"
	"cryptopay/internal/utils/response"

	"github.com/gofiber/fiber/v2"
)

// AdminHandler exposes the operator surface: account listing and the
// reconciliation queue of flagged inconsistencies.
type AdminHandler struct {
	ledger repositories.LedgerStore
}

func NewAdminHandler(ledger repositories.LedgerStore) *AdminHandler {
	return &AdminHandler{ledger: ledger}
}

func pageParams(c *fiber.Ctx) (limit, offset int) {
	limit, _ = strconv.Atoi(c.Query("limit", "50"))
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	offset, _ = strconv.Atoi(c.Query("offset", "0"))
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

func (h *AdminHandler) ListAccounts(c *fiber.Ctx) error {
	limit, offset := pageParams(c)
	accounts, err := h.ledger.ListAccounts(c.Context(), limit, offset)
	if err != nil {
		return response.ServerError(c, "failed to list accounts")
	}
	return response.Success(c, "accounts", fiber.Map{
		"accounts": accounts,
		"limit":    limit,
		"offset":   offset,
	})
}

func (h *AdminHandler) ListReconciliation(c *fiber.Ctx) error {
	limit, offset := pageParams(c)
	entries, err := h.ledger.ListInconsistencies(c.Context(), limit, offset)
	if err != nil {
		return response.ServerError(c, "failed to list reconciliation entries")
	}
	return response.Success(c, "reconciliation entries", fiber.Map{
		"entries": entries,
		"limit":   limit,
		"offset":  offset,
	})
}
