package storage

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/goliatone/go-novels/pkg/config"
	"github.com/goliatone/go-novels/pkg/domain"
	"github.com/goliatone/go-novels/pkg/interfaces/logger"
)

func TestOpenCreatesSchemaAndProviders(t *testing.T) {
	ctx := context.Background()
	dsn := "file:" + filepath.Join(t.TempDir(), "data", "novels.db")
	db, err := Open(ctx, config.PersistenceConfig{DSN: dsn, PingAttempts: 2, PingBackoff: time.Millisecond}, nil)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer db.Close()

	providers := NewBunProviders(db)
	if err := providers.Health.Ping(ctx); err != nil {
		t.Fatalf("ping: %v", err)
	}

	user := &domain.User{Username: "reader", Email: "reader@example.com", PasswordHash: "x", Role: domain.RoleReader}
	if err := providers.Users.Create(ctx, user); err != nil {
		t.Fatalf("create user: %v", err)
	}
	got, err := providers.Users.GetByUsername(ctx, "reader")
	if err != nil {
		t.Fatalf("get user: %v", err)
	}
	if got.ID != user.ID {
		t.Fatalf("expected id %s, got %s", user.ID, got.ID)
	}
}

func TestEnsureSQLiteDirSkipsMemory(t *testing.T) {
	for _, dsn := range []string{"file::memory:?cache=shared", "file:x?mode=memory&cache=shared", "novels.db"} {
		if err := ensureSQLiteDir(dsn); err != nil {
			t.Fatalf("ensure dir %s: %v", dsn, err)
		}
	}
}

func TestOpenDebugLogsQueries(t *testing.T) {
	var buf bytes.Buffer
	lgr := logger.New(logger.WithWriter(&buf), logger.WithLevel(logger.LevelDebug))
	dsn := "file:" + filepath.Join(t.TempDir(), "debug.db")
	db, err := Open(context.Background(), config.PersistenceConfig{DSN: dsn, Debug: true, PingAttempts: 1}, lgr)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer db.Close()
	if !strings.Contains(buf.String(), "CREATE TABLE") {
		t.Fatalf("expected schema statements in debug log, got %q", buf.String())
	}
}
