package handler

import (
	"go-inventory-audit/internal/service"

	"github.com/gofiber/fiber/v2"
)

// LogHandler exposes the audit trail. Entries are created only as a side effect of other
// operations, so there is no create route.
type LogHandler struct {
	audit service.AuditService
}

func NewLogHandler(audit service.AuditService) *LogHandler {
	return &LogHandler{audit: audit}
}

// GET /api/v1/logs?skip&limit
func (h *LogHandler) GetLogs(c *fiber.Ctx) error {
	page, err := parsePage(c)
	if err != nil {
		return err
	}

	entries, err := h.audit.ListAll(page)
	if err != nil {
		return err
	}
	return success(c, fiber.StatusOK, "Logs retrieved successfully", entries)
}

// GET /api/v1/logs/statistics
func (h *LogHandler) GetStatistics(c *fiber.Ctx) error {
	stats, err := h.audit.Statistics()
	if err != nil {
		return err
	}
	return success(c, fiber.StatusOK, "Statistics retrieved successfully", stats)
}

// GET /api/v1/logs/user/:id?skip&limit
func (h *LogHandler) GetUserLogs(c *fiber.Ctx) error {
	userID, err := parseID(c, "id")
	if err != nil {
		return err
	}
	page, err := parsePage(c)
	if err != nil {
		return err
	}

	entries, err := h.audit.ListByUser(userID, page)
	if err != nil {
		return err
	}
	return success(c, fiber.StatusOK, "User logs retrieved successfully", entries)
}

// GET /api/v1/logs/:id
func (h *LogHandler) GetLog(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	entry, err := h.audit.Get(id)
	if err != nil {
		return err
	}
	return success(c, fiber.StatusOK, "Log retrieved successfully", entry)
}

// DELETE /api/v1/logs/:id
func (h *LogHandler) DeleteLog(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	deleted, err := h.audit.Delete(id)
	if err != nil {
		return err
	}
	if !deleted {
		return service.ErrLogNotFound
	}
	return success(c, fiber.StatusOK, "Log deleted successfully", nil)
}
