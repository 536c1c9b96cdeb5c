// Package testutil общие помощники для тестов.
package testutil

import (
	"context"
	"testing"

	"game-catalog-backend/internal/database"
)

// NewDB in-memory SQLite с применёнными миграциями; закрывается в t.Cleanup
func NewDB(t *testing.T) *database.DB {
	t.Helper()

	db, err := database.Open(database.SQLite, ":memory:")
	if err != nil {
		t.Fatalf("opening test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if _, err := database.Migrate(context.Background(), db); err != nil {
		t.Fatalf("migrating test database: %v", err)
	}
	return db
}
