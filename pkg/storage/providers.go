package storage

import (
	"context"
	"sync"

	bunrepo "github.com/goliatone/go-novels/internal/storage/bun"
	"github.com/goliatone/go-novels/pkg/domain"
	"github.com/goliatone/go-novels/pkg/interfaces/store"
	persistence "github.com/goliatone/go-persistence-bun"
	"github.com/uptrace/bun"
)

// Providers exposes all repositories needed by services.
type Providers struct {
	Users     store.UserRepository
	Novels    store.NovelRepository
	Chapters  store.ChapterRepository
	Comments  store.CommentRepository
	Favorites store.FavoriteRepository
	Reading   store.ReadingRepository
	Health    store.Pinger
}

type Option func(*Providers)

var registerOnce sync.Once

// WithHealth overrides the database ping used by health probes.
func WithHealth(p store.Pinger) Option {
	return func(providers *Providers) {
		providers.Health = p
	}
}

// NewBunProviders wires Bun-backed repositories using go-repository-bun.
// The caller owns the *bun.DB lifecycle.
func NewBunProviders(db *bun.DB, opts ...Option) Providers {
	if db == nil {
		panic("storage: bun DB is required")
	}

	// Register models so go-persistence-bun migrations can pick them up.
	registerOnce.Do(func() {
		persistence.RegisterModel(domain.Models()...)
	})

	providers := Providers{
		Users:     bunrepo.NewUserRepository(db),
		Novels:    bunrepo.NewNovelRepository(db),
		Chapters:  bunrepo.NewChapterRepository(db),
		Comments:  bunrepo.NewCommentRepository(db),
		Favorites: bunrepo.NewFavoriteRepository(db),
		Reading:   bunrepo.NewReadingRepository(db),
		Health: store.PingFunc(func(ctx context.Context) error {
			return db.PingContext(ctx)
		}),
	}

	for _, opt := range opts {
		opt(&providers)
	}
	return providers
}
