package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"gorm.io/gorm"

	"go-inventory-audit/internal/config"
	"go-inventory-audit/internal/handler"
	applog "go-inventory-audit/internal/log"
	"go-inventory-audit/internal/model"
	"go-inventory-audit/internal/repository"
	"go-inventory-audit/internal/service"
	"go-inventory-audit/internal/ws"
	"go-inventory-audit/pkg/apperror"
	"go-inventory-audit/pkg/database"
	"go-inventory-audit/pkg/jwt"
	"go-inventory-audit/pkg/password"
)

func main() {
	if err := run(); err != nil {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// 1. Load config and logger
	cfg, envLoaded, err := config.New()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logger := applog.NewSlogLogger(cfg.Log)
	if !envLoaded {
		logger.Warn(".env file not found, using process environment")
	}

	// 2. Setup Database
	db, err := database.Connect(database.Config{
		Driver:          cfg.Database.Driver,
		DSN:             cfg.Database.DSN(),
		LogLevel:        cfg.Database.LogLevel,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
	})
	if err != nil {
		return err
	}
	defer func() {
		if err := database.Close(db); err != nil {
			logger.Error("close database", "error", err)
		}
	}()

	if cfg.Database.AutoMigrate {
		if err := db.AutoMigrate(model.All()...); err != nil {
			return fmt.Errorf("auto migrate: %w", err)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 3. Setup WebSocket Hub
	hub := ws.NewHub(logger)
	go hub.Run(ctx)

	// 4. Dependency Injection (Wiring Layers)
	tokens, err := jwt.NewTokenService(jwt.Config{
		Secret:    []byte(cfg.JWT.SecretKey),
		Algorithm: cfg.JWT.Algorithm,
		TTL:       cfg.JWT.TTL(),
		Issuer:    cfg.JWT.Issuer,
	})
	if err != nil {
		return fmt.Errorf("token service: %w", err)
	}
	hasher := password.NewHasher(cfg.Security.BcryptCost)

	userRepo := repository.NewUserRepo(db)
	productRepo := repository.NewProductRepo(db)
	logRepo := repository.NewLogRepo(db)

	auditService := service.NewAuditService(logRepo, hub, logger)
	authService := service.NewAuthService(db, userRepo, auditService, hasher, tokens, logger)
	userService := service.NewUserService(db, userRepo, auditService, hasher, logger)
	invService := service.NewInventoryService(db, productRepo, auditService, logger)

	if cfg.Seed.Enabled() {
		seedAdmin(authService, cfg.Seed, logger)
	}

	// 5. Setup Fiber
	app := handler.NewApp(handler.RouterConfig{
		AppName:   cfg.App.Name,
		Version:   cfg.App.Version,
		Prefix:    cfg.App.APIPrefix,
		Logger:    logger,
		AccessLog: os.Stdout,
		Ping:      func() error { return ping(db) },
	}, handler.NewHandlers(authService, userService, invService, auditService), authService, hub)

	// 6. Serve until a signal arrives, then shut down gracefully
	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", "port", cfg.HTTP.Port)
		errCh <- app.Listen(":" + cfg.HTTP.Port)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("listen: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down server")
	if err := app.Shutdown(); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	logger.Info("server exited")
	return nil
}

// seedAdmin registers the configured first user. It goes through the normal registration path,
// so the account gets an audit entry like any other.
func seedAdmin(authService service.AuthService, seed config.Seed, logger *slog.Logger) {
	_, err := authService.Register(&service.RegisterRequest{
		Name:     seed.AdminName,
		Email:    seed.AdminEmail,
		Password: seed.AdminPassword,
	})
	switch {
	case err == nil:
		logger.Info("admin user created", "email", seed.AdminEmail)
	case apperror.KindOf(err) == apperror.KindConflict:
		logger.Debug("admin user already exists", "email", seed.AdminEmail)
	default:
		logger.Warn("failed to seed admin user", "error", err)
	}
}

func ping(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}
