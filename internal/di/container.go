package di

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/goliatone/go-novels/internal/accounts"
	"github.com/goliatone/go-novels/internal/chapters"
	"github.com/goliatone/go-novels/internal/comments"
	"github.com/goliatone/go-novels/internal/favorites"
	"github.com/goliatone/go-novels/internal/novels"
	"github.com/goliatone/go-novels/internal/reading"
	"github.com/goliatone/go-novels/internal/search"
	"github.com/goliatone/go-novels/internal/sessions"
	"github.com/goliatone/go-novels/pkg/activity"
	"github.com/goliatone/go-novels/pkg/activity/usersink"
	"github.com/goliatone/go-novels/pkg/auth"
	"github.com/goliatone/go-novels/pkg/cache"
	"github.com/goliatone/go-novels/pkg/commands"
	"github.com/goliatone/go-novels/pkg/config"
	ifacecache "github.com/goliatone/go-novels/pkg/interfaces/cache"
	"github.com/goliatone/go-novels/pkg/interfaces/logger"
	"github.com/goliatone/go-novels/pkg/messages"
	"github.com/goliatone/go-novels/pkg/storage"
	"github.com/goliatone/go-users/pkg/types"
	"github.com/redis/go-redis/v9"
)

// Options configure the DI container.
type Options struct {
	Config       config.Config
	Storage      storage.Providers
	Logger       logger.Logger
	Cache        ifacecache.Cache
	Sessions     sessions.Store
	Hasher       auth.Hasher
	ActivitySink types.ActivitySink
	Hooks        []activity.Hook
	Clock        func() time.Time
}

// Container wires repositories, services, commands and the response localizer.
type Container struct {
	Config    config.Config
	Storage   storage.Providers
	Logger    logger.Logger
	Cache     ifacecache.Cache
	Sessions  sessions.Store
	Localizer *messages.Localizer
	Activity  activity.Hooks
	Accounts  *accounts.Service
	Novels    *novels.Service
	Chapters  *chapters.Service
	Comments  *comments.Service
	Favorites *favorites.Service
	Reading   *reading.Service
	Search    *search.Service
	Commands  *commands.Registry

	closers []func() error
}

func isZeroConfig(cfg config.Config) bool {
	return reflect.ValueOf(cfg).IsZero()
}

// New constructs the container using the supplied options.
func New(opts Options) (*Container, error) {
	if opts.Storage.Users == nil {
		return nil, errors.New("di: storage providers are required")
	}

	cfg := opts.Config
	if isZeroConfig(cfg) {
		cfg = config.Defaults()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	lgr := opts.Logger
	if lgr == nil {
		lgr = &logger.Nop{}
	}
	c := &Container{Config: cfg, Storage: opts.Storage, Logger: lgr}

	c.Cache = opts.Cache
	if c.Cache == nil {
		c.Cache = newCache(cfg.Cache, opts.Clock)
	}

	c.Sessions = opts.Sessions
	if c.Sessions == nil {
		store, closer, err := NewSessionStore(cfg.Sessions)
		if err != nil {
			return nil, err
		}
		c.Sessions = store
		if closer != nil {
			c.closers = append(c.closers, closer)
		}
	}

	localizer, err := messages.NewLocalizer(cfg.Localization.DefaultLocale)
	if err != nil {
		return nil, err
	}
	c.Localizer = localizer

	c.Activity = activity.Hooks{activity.LogHook{Logger: logger.With(lgr, map[string]any{"component": "activity"})}}
	if opts.ActivitySink != nil {
		c.Activity = append(c.Activity, usersink.Hook{Sink: opts.ActivitySink, Logger: lgr})
	}
	c.Activity = append(c.Activity, opts.Hooks...)

	if err := c.buildServices(opts); err != nil {
		c.Close()
		return nil, err
	}
	return c, nil
}

func (c *Container) buildServices(opts Options) error {
	p := c.Storage
	var err error

	if c.Accounts, err = accounts.New(accounts.Dependencies{
		Users:    p.Users,
		Sessions: c.Sessions,
		Hasher:   opts.Hasher,
		Logger:   c.Logger,
		Activity: c.Activity,
	}); err != nil {
		return err
	}
	if c.Novels, err = novels.New(novels.Dependencies{
		Novels:    p.Novels,
		Chapters:  p.Chapters,
		Comments:  p.Comments,
		Favorites: p.Favorites,
		Reading:   p.Reading,
		Logger:    c.Logger,
		Activity:  c.Activity,
	}); err != nil {
		return err
	}
	if c.Chapters, err = chapters.New(chapters.Dependencies{
		Novels:   p.Novels,
		Chapters: p.Chapters,
		Logger:   c.Logger,
		Activity: c.Activity,
	}); err != nil {
		return err
	}
	if c.Comments, err = comments.New(comments.Dependencies{
		Novels:   p.Novels,
		Comments: p.Comments,
		Logger:   c.Logger,
		Activity: c.Activity,
	}); err != nil {
		return err
	}
	if c.Favorites, err = favorites.New(favorites.Dependencies{
		Novels:    p.Novels,
		Favorites: p.Favorites,
		Logger:    c.Logger,
		Activity:  c.Activity,
	}); err != nil {
		return err
	}
	if c.Reading, err = reading.New(reading.Dependencies{
		Chapters:      p.Chapters,
		Reading:       p.Reading,
		Logger:        c.Logger,
		Activity:      c.Activity,
		ContinueLimit: c.Config.Pagination.ContinueLimit,
		Clock:         opts.Clock,
	}); err != nil {
		return err
	}
	if c.Search, err = search.New(search.Dependencies{
		Novels:       p.Novels,
		Cache:        c.Cache,
		Health:       p.Health,
		Logger:       logger.With(c.Logger, map[string]any{"component": "search"}),
		PopularLimit: c.Config.Pagination.PopularLimit,
	}); err != nil {
		return err
	}
	c.Commands, err = commands.New(commands.Dependencies{
		Favorites: c.Favorites,
		Reading:   c.Reading,
		Accounts:  c.Accounts,
		Logger:    c.Logger,
	})
	return err
}

// Close releases connections opened by the container. The database handle
// belongs to the caller.
func (c *Container) Close() error {
	var errs []error
	for _, fn := range c.closers {
		if err := fn(); err != nil {
			errs = append(errs, err)
		}
	}
	c.closers = nil
	return errors.Join(errs...)
}

func newCache(cfg config.CacheConfig, clock func() time.Time) ifacecache.Cache {
	if cfg.Disabled {
		return &ifacecache.Nop{}
	}
	var opts []cache.Option
	if clock != nil {
		opts = append(opts, cache.WithClock(clock))
	}
	return cache.NewTTL(cfg.TTL, opts...)
}

// NewSessionStore builds the configured session backend. The returned closer
// is nil for the memory backend.
func NewSessionStore(cfg config.SessionsConfig) (sessions.Store, func() error, error) {
	switch strings.ToLower(cfg.Backend) {
	case "", config.SessionBackendMemory:
		return sessions.NewMemory(), nil, nil
	case config.SessionBackendRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		return sessions.NewRedis(client, cfg.Redis.KeyPrefix), client.Close, nil
	default:
		return nil, nil, fmt.Errorf("di: unknown session backend %q", cfg.Backend)
	}
}
