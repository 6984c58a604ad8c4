package middleware

import (
	"log/slog"
	"strings"

	"github.com/gofiber/fiber/v2"

	"go-inventory-audit/internal/service"
)

// UserKey is the fiber.Ctx locals key holding the authenticated *model.User.
const UserKey = "user"

// TokenQueryParam carries the token on WebSocket handshakes, where browsers cannot set headers.
const TokenQueryParam = "token"

// RequireAuth validates the bearer token and stores the resolved user in the context.
// Every failure, including a token whose user no longer exists, is the same 401.
func RequireAuth(authService service.AuthService, logger *slog.Logger) fiber.Handler {
	return authenticate(authService, logger, false)
}

// RequireSocketAuth is RequireAuth for the WebSocket route: the token may also come from the
// token query parameter. The Authorization header wins when both are present.
func RequireSocketAuth(authService service.AuthService, logger *slog.Logger) fiber.Handler {
	return authenticate(authService, logger, true)
}

func authenticate(authService service.AuthService, logger *slog.Logger, allowQuery bool) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token, ok := bearerToken(c)
		if !ok && allowQuery {
			token = c.Query(TokenQueryParam)
			ok = token != ""
		}
		if !ok {
			logger.Debug("auth rejected", "reason", "missing or malformed authorization header", "path", c.Path())
			return service.ErrUnauthenticated
		}

		user, err := authService.ValidateToken(token)
		if err != nil {
			logger.Debug("auth rejected", "reason", err, "path", c.Path())
			return err
		}

		c.Locals(UserKey, user)
		return c.Next()
	}
}

// bearerToken extracts the token from "Bearer <token>".
func bearerToken(c *fiber.Ctx) (string, bool) {
	parts := strings.Fields(c.Get(fiber.HeaderAuthorization))
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", false
	}
	return parts[1], true
}
