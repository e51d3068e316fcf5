// Package storagetest opens isolated in-memory SQLite databases for tests.
package storagetest

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"testing"

	"github.com/goliatone/go-novels/pkg/storage"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

// NewDB returns a schema-initialised database private to t.
func NewDB(t testing.TB) *bun.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	sqldb, err := sql.Open(sqliteshim.DriverName(), fmt.Sprintf("file:%s?mode=memory&cache=shared", name))
	if err != nil {
		t.Fatalf("sql open: %v", err)
	}
	sqldb.SetMaxOpenConns(1)
	db := bun.NewDB(sqldb, sqlitedialect.New())
	t.Cleanup(func() { _ = db.Close() })
	if err := storage.EnsureSchema(context.Background(), db); err != nil {
		t.Fatalf("schema: %v", err)
	}
	return db
}

// NewProviders returns bun repositories over a fresh database.
func NewProviders(t testing.TB) storage.Providers {
	t.Helper()
	return storage.NewBunProviders(NewDB(t))
}
