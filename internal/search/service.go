package search

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/goliatone/go-novels/internal/paging"
	"github.com/goliatone/go-novels/pkg/cache"
	"github.com/goliatone/go-novels/pkg/domain"
	ifacecache "github.com/goliatone/go-novels/pkg/interfaces/cache"
	"github.com/goliatone/go-novels/pkg/interfaces/logger"
	"github.com/goliatone/go-novels/pkg/interfaces/store"
	"golang.org/x/sync/singleflight"
)

const (
	DefaultPerPage = 10
	MaxPerPage     = 100
	PopularLimit   = 10

	noStatus = "None"
)

// Query is a raw search request. Status is nil when the parameter was
// absent; otherwise it is kept verbatim for the cache key and only used as
// a filter when it names a known novel status.
type Query struct {
	Keyword string
	Status  *string
	Page    int
	PerPage int
}

// StatusParam wraps a status value supplied by the caller, including "".
func StatusParam(v string) *string {
	return &v
}

// Info echoes the effective search terms. Status is nil when none was given.
type Info struct {
	Keyword string  `json:"keyword"`
	Status  *string `json:"status"`
}

// Result is the cached payload of a novel search.
type Result struct {
	Novels     []domain.NovelListing `json:"data"`
	Pagination paging.Pagination     `json:"pagination"`
	SearchInfo Info                  `json:"search_info"`
}

// Health reports database reachability and cache counters.
type Health struct {
	Database string       `json:"database"`
	Cache    *cache.Stats `json:"cache,omitempty"`
}

// Dependencies wires the repository and cache into the service.
type Dependencies struct {
	Novels       store.NovelRepository
	Cache        ifacecache.Cache
	Health       store.Pinger
	Logger       logger.Logger
	PopularLimit int
}

// Service answers novel searches and the popular listing from the cache
// when possible.
type Service struct {
	novels  store.NovelRepository
	cache   ifacecache.Cache
	health  store.Pinger
	logger  logger.Logger
	popular int
	group   singleflight.Group
}

var errRepositoryRequired = errors.New("search: novel repository is required")

// ErrUnhealthy is returned by Health when the database ping fails.
var ErrUnhealthy = errors.New("search: database unreachable")

// New constructs the search service.
func New(deps Dependencies) (*Service, error) {
	if deps.Novels == nil {
		return nil, errRepositoryRequired
	}
	if deps.Cache == nil {
		deps.Cache = &ifacecache.Nop{}
	}
	if deps.Logger == nil {
		deps.Logger = &logger.Nop{}
	}
	if deps.PopularLimit <= 0 {
		deps.PopularLimit = PopularLimit
	}
	return &Service{
		novels:  deps.Novels,
		cache:   deps.Cache,
		health:  deps.Health,
		logger:  deps.Logger,
		popular: deps.PopularLimit,
	}, nil
}

// Normalize applies the page rules: page < 1 becomes 1 and a per_page
// outside 1..100 becomes 10.
func (q Query) Normalize() Query {
	q.Keyword = strings.TrimSpace(q.Keyword)
	if q.Page < 1 {
		q.Page = 1
	}
	if q.PerPage < 1 || q.PerPage > MaxPerPage {
		q.PerPage = DefaultPerPage
	}
	return q
}

// Key renders the cache key of a normalized query.
func (q Query) Key() string {
	status := noStatus
	if q.Status != nil {
		status = *q.Status
	}
	return "novels:" + q.Keyword + ":" + status + ":" + strconv.Itoa(q.Page) + ":" + strconv.Itoa(q.PerPage)
}

// Novels searches titles and descriptions for the keyword, newest first.
func (s *Service) Novels(ctx context.Context, raw Query) (Result, error) {
	q := raw.Normalize()
	if q.Keyword == "" {
		return Result{}, domain.Invalid("keyword", "required")
	}

	key := q.Key()
	s.sweep()
	if cached, ok := s.cache.Lookup(key); ok {
		if res, ok := cached.(Result); ok {
			s.logger.Debug("search cache hit", "key", key)
			return res, nil
		}
	}

	v, err := s.load(ctx, key, func(ctx context.Context) (any, error) {
		page := paging.Request{Page: q.Page, PerPage: q.PerPage}
		filter := ""
		if q.Status != nil && domain.ValidNovelStatus(*q.Status) {
			filter = *q.Status
		}
		found, err := s.novels.Search(ctx, store.NovelSearch{
			Keyword: q.Keyword,
			Status:  filter,
			Limit:   q.PerPage,
			Offset:  (q.Page - 1) * q.PerPage,
		})
		if err != nil {
			return nil, err
		}
		res := Result{
			Novels:     found.Items,
			Pagination: page.Of(found.Total),
			SearchInfo: Info{Keyword: q.Keyword},
		}
		if q.Status != nil {
			status := *q.Status
			res.SearchInfo.Status = &status
		}
		s.cache.Store(key, res)
		s.logger.Debug("search cached", "key", key, "total", found.Total)
		return res, nil
	})
	if err != nil {
		return Result{}, fmt.Errorf("search: novels: %w", err)
	}
	return v.(Result), nil
}

// Popular lists published novels by favorite count, then recency.
func (s *Service) Popular(ctx context.Context) ([]domain.NovelListing, error) {
	s.sweep()
	if cached, ok := s.cache.Lookup(cache.PopularKey); ok {
		if rows, ok := cached.([]domain.NovelListing); ok {
			return rows, nil
		}
	}
	v, err := s.load(ctx, cache.PopularKey, func(ctx context.Context) (any, error) {
		rows, err := s.novels.Popular(ctx, s.popular)
		if err != nil {
			return nil, err
		}
		s.cache.Store(cache.PopularKey, rows)
		return rows, nil
	})
	if err != nil {
		return nil, fmt.Errorf("search: popular: %w", err)
	}
	return v.([]domain.NovelListing), nil
}

// load runs fn once per key across concurrent misses. fn gets a context
// detached from the leading request's cancellation, and each caller stops
// waiting when its own ctx ends.
func (s *Service) load(ctx context.Context, key string, fn func(context.Context) (any, error)) (any, error) {
	shared := context.WithoutCancel(ctx)
	ch := s.group.DoChan(key, func() (any, error) {
		return fn(shared)
	})
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case r := <-ch:
		return r.Val, r.Err
	}
}

// Health pings the database and attaches cache counters when available.
func (s *Service) Health(ctx context.Context) (Health, error) {
	h := Health{Database: "ok"}
	if stats, ok := s.cache.(interface{ Stats() cache.Stats }); ok {
		st := stats.Stats()
		h.Cache = &st
	}
	if s.health == nil {
		return h, nil
	}
	if err := s.health.Ping(ctx); err != nil {
		s.logger.Error("search health ping failed", "error", err)
		h.Database = "unreachable"
		return h, fmt.Errorf("%w: %v", ErrUnhealthy, err)
	}
	return h, nil
}

func (s *Service) sweep() {
	if n := s.cache.Sweep(); n > 0 {
		s.logger.Debug("search cache swept", "expired", n)
	}
}
