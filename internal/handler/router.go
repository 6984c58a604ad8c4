package handler

import (
	"io"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"

	"go-inventory-audit/internal/middleware"
	"go-inventory-audit/internal/service"
	"go-inventory-audit/internal/ws"
)

type RouterConfig struct {
	AppName string
	Version string
	Prefix  string

	Logger *slog.Logger
	// AccessLog receives one line per request; nil disables request logging.
	AccessLog io.Writer
	// Ping reports storage health for GET /health; nil means always healthy.
	Ping func() error
}

type Handlers struct {
	Auth      *AuthHandler
	Users     *UserHandler
	Inventory *InventoryHandler
	Logs      *LogHandler
}

// NewHandlers builds every handler from the services.
func NewHandlers(auth service.AuthService, users service.UserService, inventory service.InventoryService, audit service.AuditService) Handlers {
	return Handlers{
		Auth:      NewAuthHandler(auth),
		Users:     NewUserHandler(users),
		Inventory: NewInventoryHandler(inventory),
		Logs:      NewLogHandler(audit),
	}
}

// NewApp builds the Fiber app with all routes. hub may be nil, in which case /ws is not mounted.
func NewApp(cfg RouterConfig, h Handlers, authService service.AuthService, hub *ws.Hub) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName + " v" + cfg.Version,
		ErrorHandler: ErrorHandler(cfg.Logger),
	})

	// Middleware
	app.Use(requestid.New(requestid.Config{Generator: uuid.NewString}))
	if cfg.AccessLog != nil {
		app.Use(logger.New(logger.Config{
			Format: "${time} | ${locals:requestid} | ${status} | ${latency} | ${method} ${path}\n",
			Output: cfg.AccessLog,
		}))
	}
	app.Use(recover.New())
	app.Use(cors.New())

	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "Welcome to " + cfg.AppName,
			"version": cfg.Version,
		})
	})
	app.Get("/health", func(c *fiber.Ctx) error {
		if cfg.Ping != nil {
			if err := cfg.Ping(); err != nil {
				cfg.Logger.Error("health check failed", "error", err)
				return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "unhealthy"})
			}
		}
		return c.JSON(fiber.Map{"status": "healthy"})
	})

	api := app.Group(cfg.Prefix)

	// ============ PUBLIC ROUTES ============
	auth := api.Group("/auth")
	auth.Post("/register", h.Auth.Register)
	auth.Post("/login", h.Auth.Login)

	// ============ PROTECTED ROUTES ============
	protected := api.Group("", middleware.RequireAuth(authService, cfg.Logger))

	protected.Get("/users/me", h.Users.Me)
	protected.Get("/users", h.Users.GetUsers)
	protected.Get("/users/:id", h.Users.GetUser)
	protected.Put("/users/:id", h.Users.UpdateUser)
	protected.Delete("/users/:id", h.Users.DeleteUser)

	protected.Post("/products", h.Inventory.CreateProduct)
	protected.Get("/products", h.Inventory.GetProducts)
	protected.Get("/products/statistics", h.Inventory.GetStatistics)
	protected.Get("/products/:id", h.Inventory.GetProduct)
	protected.Put("/products/:id", h.Inventory.UpdateProduct)
	protected.Delete("/products/:id", h.Inventory.DeleteProduct)

	protected.Get("/logs", h.Logs.GetLogs)
	protected.Get("/logs/statistics", h.Logs.GetStatistics)
	protected.Get("/logs/user/:id", h.Logs.GetUserLogs)
	protected.Get("/logs/:id", h.Logs.GetLog)
	protected.Delete("/logs/:id", h.Logs.DeleteLog)

	// WebSocket Route, authenticated before the upgrade
	if hub != nil {
		app.Use("/ws", middleware.RequireSocketAuth(authService, cfg.Logger), ws.Upgrade)
		app.Get("/ws", hub.Handler())
	}

	app.Use(NotFound)
	return app
}
