// Package dbtest opens throwaway in-memory databases for tests.
package dbtest

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/aitutor/tutor-api/internal/db"
	"github.com/aitutor/tutor-api/internal/logger"
)

// Open returns a migrated in-memory SQLite adapter private to the test.
func Open(t testing.TB) *db.SQLAdapter {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_pragma=foreign_keys(1)", name)
	a, err := db.Open(context.Background(), db.DriverSQLite, dsn, logger.Nop())
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { _ = a.Close() })
	return a
}

// InsertUser adds a bare user row so foreign keys on content tables hold.
func InsertUser(t testing.TB, a db.Adapter, id, email, role string) {
	t.Helper()
	_, err := a.Exec(context.Background(),
		`INSERT INTO users (id, email, password_hash, full_name, role, created_at) VALUES (?, ?, 'x', ?, ?, ?)`,
		id, email, "User "+id, role, db.Now())
	if err != nil {
		t.Fatalf("insert user: %v", err)
	}
}
