package handler

import (
	"go-inventory-audit/internal/service"

	"github.com/gofiber/fiber/v2"
)

type UserHandler struct {
	userService service.UserService
}

func NewUserHandler(userService service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// Me returns the authenticated user
// GET /api/v1/users/me
func (h *UserHandler) Me(c *fiber.Ctx) error {
	user := currentUser(c)
	if user == nil {
		return service.ErrUnauthenticated
	}
	return success(c, fiber.StatusOK, "User retrieved successfully", user.ToResponse())
}

// GetUsers lists users
// GET /api/v1/users?skip&limit
func (h *UserHandler) GetUsers(c *fiber.Ctx) error {
	page, err := parsePage(c)
	if err != nil {
		return err
	}

	users, err := h.userService.GetAllUsers(page)
	if err != nil {
		return err
	}
	return success(c, fiber.StatusOK, "Users retrieved successfully", users)
}

// GetUser handles getting a single user
// GET /api/v1/users/:id
func (h *UserHandler) GetUser(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	user, err := h.userService.GetUserByID(id)
	if err != nil {
		return err
	}
	return success(c, fiber.StatusOK, "User retrieved successfully", user.ToResponse())
}

// UpdateUser handles user update
// PUT /api/v1/users/:id
func (h *UserHandler) UpdateUser(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	var req service.UpdateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return ErrInvalidBody.Wrap(err)
	}

	user, err := h.userService.UpdateUser(id, &req, currentUser(c).ID)
	if err != nil {
		return err
	}
	return success(c, fiber.StatusOK, "User updated successfully", user.ToResponse())
}

// DeleteUser handles user deletion
// DELETE /api/v1/users/:id
func (h *UserHandler) DeleteUser(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	deleted, err := h.userService.DeleteUser(id, currentUser(c).ID)
	if err != nil {
		return err
	}
	if !deleted {
		return service.ErrUserNotFound
	}
	return success(c, fiber.StatusOK, "User deleted successfully", nil)
}
