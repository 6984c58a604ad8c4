package handler

import (
	"go-inventory-audit/internal/service"

	"github.com/gofiber/fiber/v2"
)

type AuthHandler struct {
	authService service.AuthService
}

func NewAuthHandler(authService service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Register creates an account
// POST /api/v1/auth/register
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req service.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return ErrInvalidBody.Wrap(err)
	}

	user, err := h.authService.Register(&req)
	if err != nil {
		return err
	}

	return success(c, fiber.StatusCreated, "User registered successfully", user.ToResponse())
}

// Login handles user authentication
// POST /api/v1/auth/login
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req service.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return ErrInvalidBody.Wrap(err)
	}

	token, err := h.authService.Login(&req)
	if err != nil {
		return err
	}

	return success(c, fiber.StatusOK, "Login successful", token)
}
