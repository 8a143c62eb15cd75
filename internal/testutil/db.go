// Package testutil opens throwaway databases for package tests.
package testutil

import (
	"testing"

	"github.com/monocle-dev/taskboard/db"
	"gorm.io/gorm"
)

// NewDB returns a migrated in-memory SQLite database that lives until the test ends.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	conn, err := db.Connect(db.DriverSQLite, "file::memory:", nil)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.Migrate(conn); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	t.Cleanup(func() {
		if sqlDB, err := conn.DB(); err == nil {
			sqlDB.Close()
		}
	})

	return conn
}
