package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/goliatone/go-novels/pkg/config"
	"github.com/goliatone/go-novels/pkg/domain"
	"github.com/goliatone/go-novels/pkg/interfaces/logger"
	"github.com/goliatone/go-novels/pkg/retry"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

// Open connects to SQLite, waits for the database to answer a ping and
// bootstraps the schema.
func Open(ctx context.Context, cfg config.PersistenceConfig, lgr logger.Logger) (*bun.DB, error) {
	if lgr == nil {
		lgr = &logger.Nop{}
	}
	dsn := strings.TrimSpace(cfg.DSN)
	if dsn == "" {
		dsn = config.Defaults().Persistence.DSN
	}
	if err := ensureSQLiteDir(dsn); err != nil {
		return nil, err
	}

	sqldb, err := sql.Open(sqliteshim.DriverName(), dsn)
	if err != nil {
		return nil, fmt.Errorf("persistence: open sqlite: %w", err)
	}
	// SQLite serializes writers; one connection avoids "database is locked".
	sqldb.SetMaxOpenConns(1)
	db := bun.NewDB(sqldb, sqlitedialect.New())
	if cfg.Debug {
		db.AddQueryHook(queryLogger{logger: lgr})
	}

	backoff := retry.ExponentialBackoff{Base: cfg.PingBackoff, Max: 5 * time.Second}
	if err := pingWithRetry(ctx, db, cfg.PingAttempts, backoff, lgr); err != nil {
		_ = db.Close()
		return nil, err
	}

	if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys = ON"); err != nil {
		lgr.Warn("persistence: enable sqlite foreign keys", "error", err)
	}

	if err := EnsureSchema(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// EnsureSchema creates every table that does not exist yet.
func EnsureSchema(ctx context.Context, db *bun.DB) error {
	for _, model := range domain.Models() {
		if _, err := db.NewCreateTable().Model(model).IfNotExists().Exec(ctx); err != nil {
			return fmt.Errorf("persistence: create table for %T: %w", model, err)
		}
	}
	return nil
}

func pingWithRetry(ctx context.Context, db *bun.DB, attempts int, backoff retry.Backoff, lgr logger.Logger) error {
	err := retry.Do(ctx, attempts, backoff, db.PingContext, func(attempt int, delay time.Duration, err error) {
		lgr.Warn("persistence: ping failed, retrying", "attempt", attempt, "delay", delay, "error", err)
	})
	if err != nil {
		return fmt.Errorf("persistence: ping: %w", err)
	}
	return nil
}

func ensureSQLiteDir(dsn string) error {
	if !strings.HasPrefix(dsn, "file:") {
		return nil
	}
	path := strings.TrimPrefix(dsn, "file:")
	if idx := strings.Index(path, "?"); idx >= 0 {
		path = path[:idx]
	}
	if path == "" || strings.HasPrefix(path, ":memory:") || strings.Contains(dsn, "mode=memory") {
		return nil
	}
	dir := filepath.Dir(path)
	if dir == "" || dir == "." {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}

// queryLogger writes every executed statement at debug level.
type queryLogger struct {
	logger logger.Logger
}

func (h queryLogger) BeforeQuery(ctx context.Context, _ *bun.QueryEvent) context.Context {
	return ctx
}

func (h queryLogger) AfterQuery(ctx context.Context, evt *bun.QueryEvent) {
	args := []any{"query", evt.Query, "duration", time.Since(evt.StartTime)}
	if evt.Err != nil {
		args = append(args, "error", evt.Err)
	}
	h.logger.WithContext(ctx).Debug("sql", args...)
}
