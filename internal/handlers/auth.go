// Package handlers wires HTTP requests to the services. Handlers
// validate input, call one service method, and shape the response.
package handlers

import (
	"errors"

	"cryptopay/internal/services/auth"
	"cryptopay/internal/utils/response"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = validator.New()

type AuthHandler struct {
	authService auth.Service
}

func NewAuthHandler(authService auth.Service) *AuthHandler {
	return &AuthHandler{authService: authService}
}

type registerInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	FullName string `json:"full_name" validate:"required,min=2"`
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var input registerInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "invalid request format")
	}
	if err := validate.Struct(input); err != nil {
		return response.ValidationError(c, err.Error())
	}

	account, token, err := h.authService.Register(c.Context(), input.Email, input.Password, input.FullName)
	if err != nil {
		if errors.Is(err, auth.ErrEmailTaken) {
			return response.Conflict(c, "email already registered")
		}
		return response.BadRequest(c, err.Error())
	}

	return response.Created(c, "account created", fiber.Map{
		"account": account,
		"token":   token,
	})
}

type loginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var input loginInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "invalid request format")
	}
	if err := validate.Struct(input); err != nil {
		return response.ValidationError(c, err.Error())
	}

	account, token, err := h.authService.Login(c.Context(), input.Email, input.Password)
	if err != nil {
		return response.Error(c, fiber.StatusUnauthorized, "invalid credentials")
	}

	return response.Success(c, "login successful", fiber.Map{
		"account": account,
		"token":   token,
	})
}
