package database

import (
	"embed"
	"fmt"

	"github.com/pressly/goose/v3"
	"gorm.io/gorm"
)

//go:embed migrations/*.sql
var migrations embed.FS

// Migrate runs the embedded goose migrations in the given direction: up, down or status.
func Migrate(db *gorm.DB, command string) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("get sql.DB: %w", err)
	}

	// The SQL files are written for PostgreSQL; SQLite databases are built with AutoMigrate.
	if name := db.Dialector.Name(); name != DriverPostgres {
		return fmt.Errorf("migrations support postgres only, got %s", name)
	}

	goose.SetBaseFS(migrations)
	if err := goose.SetDialect(DriverPostgres); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}

	switch command {
	case "up":
		err = goose.Up(sqlDB, "migrations")
	case "down":
		err = goose.Down(sqlDB, "migrations")
	case "status":
		err = goose.Status(sqlDB, "migrations")
	default:
		return fmt.Errorf("unknown migrate command %q", command)
	}
	if err != nil {
		return fmt.Errorf("goose %s: %w", command, err)
	}
	return nil
}
