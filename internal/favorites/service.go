package favorites

import (
	"context"
	"errors"
	"fmt"

	"github.com/goliatone/go-novels/internal/paging"
	"github.com/goliatone/go-novels/pkg/activity"
	"github.com/goliatone/go-novels/pkg/domain"
	"github.com/goliatone/go-novels/pkg/interfaces/logger"
	"github.com/goliatone/go-novels/pkg/interfaces/store"
	"github.com/google/uuid"
)

// Dependencies wires repositories and hooks into the service.
type Dependencies struct {
	Novels    store.NovelRepository
	Favorites store.FavoriteRepository
	Logger    logger.Logger
	Activity  activity.Hooks
}

// Service manages a reader's bookmarked novels.
type Service struct {
	novels    store.NovelRepository
	favorites store.FavoriteRepository
	logger    logger.Logger
	activity  activity.Hooks
}

var errRepositoryRequired = errors.New("favorites: novel and favorite repositories are required")

// New constructs the favorites service.
func New(deps Dependencies) (*Service, error) {
	if deps.Novels == nil || deps.Favorites == nil {
		return nil, errRepositoryRequired
	}
	if deps.Logger == nil {
		deps.Logger = &logger.Nop{}
	}
	return &Service{
		novels:    deps.Novels,
		favorites: deps.Favorites,
		logger:    deps.Logger,
		activity:  deps.Activity,
	}, nil
}

// Add favorites an existing novel. Favoriting twice is a conflict.
func (s *Service) Add(ctx context.Context, userID, novelID uuid.UUID) (*domain.Favorite, error) {
	if novelID == uuid.Nil {
		return nil, domain.Invalid("novel_id", "required")
	}
	if _, err := s.novels.GetByID(ctx, novelID); err != nil {
		return nil, fmt.Errorf("favorites: load novel: %w", err)
	}
	_, err := s.favorites.GetByUserAndNovel(ctx, userID, novelID)
	switch {
	case err == nil:
		return nil, fmt.Errorf("favorites: novel %s already favorited: %w", novelID, domain.ErrConflict)
	case !errors.Is(err, store.ErrNotFound):
		return nil, fmt.Errorf("favorites: lookup: %w", err)
	}

	fav := &domain.Favorite{UserID: userID, NovelID: novelID}
	if err := s.favorites.Create(ctx, fav); err != nil {
		return nil, fmt.Errorf("favorites: create: %w", err)
	}
	s.notify(ctx, activity.VerbFavoriteAdded, userID, fav)
	return fav, nil
}

// Remove drops the favorite for novelID; store.ErrNotFound when absent.
func (s *Service) Remove(ctx context.Context, userID, novelID uuid.UUID) error {
	fav, err := s.favorites.GetByUserAndNovel(ctx, userID, novelID)
	if err != nil {
		return fmt.Errorf("favorites: lookup: %w", err)
	}
	if err := s.favorites.Delete(ctx, fav.ID); err != nil {
		return fmt.Errorf("favorites: delete: %w", err)
	}
	s.notify(ctx, activity.VerbFavoriteRemoved, userID, fav)
	return nil
}

// ListMine returns the user's favorites, most recent first.
func (s *Service) ListMine(ctx context.Context, userID uuid.UUID, page paging.Request) ([]domain.FavoriteEntry, paging.Pagination, error) {
	res, err := s.favorites.ListByUser(ctx, userID, page.ListOptions())
	if err != nil {
		return nil, paging.Pagination{}, fmt.Errorf("favorites: list: %w", err)
	}
	return res.Items, page.Of(res.Total), nil
}

func (s *Service) notify(ctx context.Context, verb string, userID uuid.UUID, fav *domain.Favorite) {
	s.activity.Notify(ctx, activity.Event{
		Verb:       verb,
		ActorID:    userID.String(),
		ObjectType: activity.ObjectFavorite,
		ObjectID:   fav.ID.String(),
		Metadata:   map[string]any{"novel_id": fav.NovelID.String()},
	})
}
