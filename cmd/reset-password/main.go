package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"go-inventory-audit/internal/config"
	applog "go-inventory-audit/internal/log"
	"go-inventory-audit/internal/repository"
	"go-inventory-audit/internal/service"
	"go-inventory-audit/pkg/database"
	"go-inventory-audit/pkg/password"
)

func main() {
	email := flag.String("email", "", "email of the account to reset")
	newPassword := flag.String("password", "", "new password")
	flag.Parse()

	if *email == "" || *newPassword == "" {
		flag.Usage()
		os.Exit(2)
	}

	if err := run(*email, *newPassword); err != nil {
		slog.Error("reset password failed", "error", err)
		os.Exit(1)
	}
}

func run(email, newPassword string) error {
	// 1. Load Env
	cfg, _, err := config.Load[struct {
		Log      config.Log
		Database config.Database
		Security config.Security
	}]()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logger := applog.NewSlogLogger(cfg.Log)

	// 2. Setup Database
	db, err := database.Connect(database.Config{
		Driver:   cfg.Database.Driver,
		DSN:      cfg.Database.DSN(),
		LogLevel: cfg.Database.LogLevel,
	})
	if err != nil {
		return err
	}
	defer database.Close(db)

	userRepo := repository.NewUserRepo(db)
	audit := service.NewAuditService(repository.NewLogRepo(db), nil, logger)
	users := service.NewUserService(db, userRepo, audit, password.NewHasher(cfg.Security.BcryptCost), logger)

	// 3. Find the account
	user, err := userRepo.FindByEmail(email)
	if err != nil {
		return fmt.Errorf("find user: %w", err)
	}
	if user == nil {
		return fmt.Errorf("user %s not found", email)
	}

	// 4. Update through the user service so the change is audited, credited to the account itself
	if _, err := users.UpdateUser(user.ID, &service.UpdateUserRequest{Password: &newPassword}, user.ID); err != nil {
		return fmt.Errorf("update password: %w", err)
	}

	logger.Info("password reset", "email", email, "user_id", user.ID)
	return nil
}
