package main

import (
	"flag"
	"fmt"
	"os"

	"go-inventory-audit/internal/config"
	applog "go-inventory-audit/internal/log"
	"go-inventory-audit/pkg/database"
)

func main() {
	if err := run(); err != nil {
		fmt.Printf("error running migrate application: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	command := flag.String("command", "up", "migration command: up, down or status")
	flag.Parse()

	cfg, _, err := config.Load[struct {
		Log      config.Log
		Database config.Database
	}]()
	if err != nil {
		return fmt.Errorf("error loading config: %w", err)
	}

	logger := applog.NewSlogLogger(cfg.Log)

	db, err := database.Connect(database.Config{
		Driver:   cfg.Database.Driver,
		DSN:      cfg.Database.DSN(),
		LogLevel: cfg.Database.LogLevel,
	})
	if err != nil {
		return err
	}
	defer database.Close(db)

	logger.Info("starting database migration", "command", *command)

	if err := database.Migrate(db, *command); err != nil {
		return fmt.Errorf("error migrating database: %w", err)
	}

	logger.Info("database migration completed successfully", "command", *command)
	return nil
}
