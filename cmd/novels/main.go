package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/goliatone/go-novels/internal/di"
	"github.com/goliatone/go-novels/internal/web"
	"github.com/goliatone/go-novels/pkg/config"
	"github.com/goliatone/go-novels/pkg/interfaces/logger"
	"github.com/goliatone/go-novels/pkg/storage"
)

func main() {
	ctx := context.Background()

	cfg, err := config.LoadFile(config.Path())
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	lgr := logger.New(logger.WithLevel(logger.ParseLevel(cfg.Logging.Level)))

	db, err := storage.Open(ctx, cfg.Persistence, lgr)
	if err != nil {
		lgr.Fatal("failed to open database", "error", err)
	}
	defer db.Close()

	container, err := di.New(di.Options{
		Config:  cfg,
		Storage: storage.NewBunProviders(db),
		Logger:  lgr,
	})
	if err != nil {
		lgr.Fatal("failed to build container", "error", err)
	}
	defer container.Close()

	srv, err := web.New(container)
	if err != nil {
		lgr.Fatal("failed to configure server", "error", err)
	}

	go func() {
		lgr.Info("starting server", "addr", cfg.Server.Addr, "sessions", cfg.Sessions.Backend, "cache_ttl", cfg.Cache.TTL)
		if err := srv.Listen(cfg.Server.Addr); err != nil {
			lgr.Fatal("server stopped", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	lgr.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		lgr.Error("server shutdown error", "error", err)
	}
}
