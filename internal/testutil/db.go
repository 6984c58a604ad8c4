// Package testutil provides an in-memory SQLite database migrated with the application models.
package testutil

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"go-inventory-audit/internal/model"
	"go-inventory-audit/pkg/database"
)

// NewDB returns a fresh database named after the running test.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := database.Connect(database.Config{
		Driver:   database.DriverSQLite,
		DSN:      fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=on", name),
		LogLevel: "silent",
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(model.All()...))

	t.Cleanup(func() { _ = database.Close(db) })
	return db
}
