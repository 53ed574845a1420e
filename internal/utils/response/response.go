package response

import (
	"errors"

	"cryptopay/internal/services/transfer"

	"github.com/gofiber/fiber/v2"
)

func Success(c *fiber.Ctx, message string, data interface{}) error {
	return c.JSON(fiber.Map{
		"message": message,
		"data":    data,
	})
}

func Created(c *fiber.Ctx, message string, data interface{}) error {
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": message,
		"data":    data,
	})
}

func Error(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{
		"error": message,
	})
}

func BadRequest(c *fiber.Ctx, message string) error {
	return Error(c, fiber.StatusBadRequest, message)
}

func NotFound(c *fiber.Ctx, message string) error {
	return Error(c, fiber.StatusNotFound, message)
}

func Conflict(c *fiber.Ctx, message string) error {
	return Error(c, fiber.StatusConflict, message)
}

func ServerError(c *fiber.Ctx, message string) error {
	return Error(c, fiber.StatusInternalServerError, message)
}

func Unauthorized(c *fiber.Ctx) error {
	return Error(c, fiber.StatusUnauthorized, "Unauthorized")
}

func ValidationError(c *fiber.Ctx, message string) error {
	return Error(c, fiber.StatusBadRequest, message)
}

// EngineError maps transfer engine errors to HTTP responses. An
// inconsistency error is reported as 500 with a reference the caller
// can quote to support; it is already recorded for reconciliation.
func EngineError(c *fiber.Ctx, err error) error {
	var incErr *transfer.InconsistencyError
	switch {
	case errors.As(err, &incErr):
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":     "transaction left in an inconsistent state, flagged for reconciliation",
			"reference": incErr.Reference,
		})
	case errors.Is(err, transfer.ErrInvalidInput):
		return BadRequest(c, err.Error())
	case errors.Is(err, transfer.ErrNotFound):
		return NotFound(c, err.Error())
	case errors.Is(err, transfer.ErrConflict):
		return Conflict(c, err.Error())
	case errors.Is(err, transfer.ErrInsufficientFunds):
		return Error(c, fiber.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, transfer.ErrInvalidSignature):
		return Error(c, fiber.StatusUnauthorized, "invalid webhook signature")
	case errors.Is(err, transfer.ErrPriceUnavailable):
		return Error(c, fiber.StatusServiceUnavailable, err.Error())
	case errors.Is(err, transfer.ErrGateway):
		return Error(c, fiber.StatusBadGateway, err.Error())
	default:
		return ServerError(c, "internal server error")
	}
}
