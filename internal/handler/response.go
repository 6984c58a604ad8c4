package handler

import (
	"errors"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"

	"go-inventory-audit/internal/middleware"
	"go-inventory-audit/internal/model"
	"go-inventory-audit/internal/repository"
	"go-inventory-audit/pkg/apperror"
)

var (
	ErrInvalidBody  = apperror.Validation("INVALID_BODY", "request body is not valid JSON")
	ErrInvalidID    = apperror.Validation("INVALID_ID", "id must be a positive integer")
	ErrInvalidPage  = apperror.Validation("INVALID_PAGINATION", "skip must be >= 0 and limit between 1 and 1000")
	ErrRouteMissing = apperror.NotFound("ROUTE_NOT_FOUND", "route not found")
)

// Response is the envelope for every successful response.
type Response struct {
	Success   bool        `json:"success"`
	Message   string      `json:"message"`
	Data      interface{} `json:"data"`
	Timestamp string      `json:"timestamp"`
}

// ErrorBody is the envelope for every failed response.
type ErrorBody struct {
	Success   bool        `json:"success"`
	Code      string      `json:"code"`
	Message   string      `json:"message"`
	Details   interface{} `json:"details,omitempty"`
	Timestamp string      `json:"timestamp"`
}

func success(c *fiber.Ctx, status int, message string, data interface{}) error {
	return c.Status(status).JSON(Response{
		Success:   true,
		Message:   message,
		Data:      data,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

// StatusOf maps an error kind to its HTTP status.
func StatusOf(kind apperror.Kind) int {
	switch kind {
	case apperror.KindValidation:
		return fiber.StatusBadRequest
	case apperror.KindConflict:
		return fiber.StatusConflict
	case apperror.KindNotFound:
		return fiber.StatusNotFound
	case apperror.KindUnauthenticated:
		return fiber.StatusUnauthorized
	default:
		return fiber.StatusInternalServerError
	}
}

// ErrorHandler renders every error returned by a handler as an ErrorBody. Internal errors are
// logged with their cause and reach the client only as a generic message.
func ErrorHandler(logger *slog.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var appErr *apperror.Error
		if !errors.As(err, &appErr) {
			var fiberErr *fiber.Error
			if errors.As(err, &fiberErr) {
				return c.Status(fiberErr.Code).JSON(ErrorBody{
					Code:      statusCode(fiberErr.Code),
					Message:   fiberErr.Message,
					Timestamp: time.Now().UTC().Format(time.RFC3339),
				})
			}
			appErr = apperror.Internal(err)
		}

		status := StatusOf(appErr.Kind())
		if status == fiber.StatusInternalServerError {
			logger.Error("request failed",
				"method", c.Method(),
				"path", c.Path(),
				"error", err,
			)
		}

		return c.Status(status).JSON(ErrorBody{
			Code:      appErr.Code(),
			Message:   appErr.Msg(),
			Details:   appErr.Details(),
			Timestamp: time.Now().UTC().Format(time.RFC3339),
		})
	}
}

func statusCode(status int) string {
	return strings.ToUpper(strings.ReplaceAll(utils.StatusMessage(status), " ", "_"))
}

// NotFound answers requests that matched no route.
func NotFound(c *fiber.Ctx) error {
	return ErrRouteMissing
}

func parseID(c *fiber.Ctx, param string) (uint, error) {
	id, err := strconv.ParseUint(c.Params(param), 10, 64)
	if err != nil || id == 0 {
		return 0, ErrInvalidID
	}
	return uint(id), nil
}

func parsePage(c *fiber.Ctx) (repository.Page, error) {
	skip, err := strconv.Atoi(c.Query("skip", "0"))
	if err != nil || skip < 0 {
		return repository.Page{}, ErrInvalidPage
	}
	limit, err := strconv.Atoi(c.Query("limit", strconv.Itoa(repository.DefaultLimit)))
	if err != nil || limit < 1 || limit > repository.MaxLimit {
		return repository.Page{}, ErrInvalidPage
	}
	return repository.Page{Skip: skip, Limit: limit}, nil
}

// currentUser returns the user resolved by RequireAuth.
func currentUser(c *fiber.Ctx) *model.User {
	user, _ := c.Locals(middleware.UserKey).(*model.User)
	return user
}
