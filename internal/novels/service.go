package novels

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/goliatone/go-novels/internal/paging"
	"github.com/goliatone/go-novels/pkg/activity"
	"github.com/goliatone/go-novels/pkg/domain"
	"github.com/goliatone/go-novels/pkg/interfaces/logger"
	"github.com/goliatone/go-novels/pkg/interfaces/store"
	"github.com/google/uuid"
)

// CreateInput captures the fields of a new novel. All are required.
type CreateInput struct {
	Title       string
	Description string
	CoverURL    string
	Status      string
}

// Dependencies wires repositories and hooks into the service.
type Dependencies struct {
	Novels    store.NovelRepository
	Chapters  store.ChapterRepository
	Comments  store.CommentRepository
	Favorites store.FavoriteRepository
	Reading   store.ReadingRepository
	Logger    logger.Logger
	Activity  activity.Hooks
}

// Service handles the novel catalogue and the author dashboard.
type Service struct {
	novels    store.NovelRepository
	chapters  store.ChapterRepository
	comments  store.CommentRepository
	favorites store.FavoriteRepository
	reading   store.ReadingRepository
	logger    logger.Logger
	activity  activity.Hooks
}

var errRepositoryRequired = errors.New("novels: novel, chapter, comment, favorite and reading repositories are required")

// New constructs the novels service.
func New(deps Dependencies) (*Service, error) {
	if deps.Novels == nil || deps.Chapters == nil || deps.Comments == nil || deps.Favorites == nil || deps.Reading == nil {
		return nil, errRepositoryRequired
	}
	if deps.Logger == nil {
		deps.Logger = &logger.Nop{}
	}
	return &Service{
		novels:    deps.Novels,
		chapters:  deps.Chapters,
		comments:  deps.Comments,
		favorites: deps.Favorites,
		reading:   deps.Reading,
		logger:    deps.Logger,
		activity:  deps.Activity,
	}, nil
}

// Create stores a novel owned by authorID.
func (s *Service) Create(ctx context.Context, authorID uuid.UUID, in CreateInput) (*domain.Novel, error) {
	novel := &domain.Novel{
		AuthorID:    authorID,
		Title:       strings.TrimSpace(in.Title),
		Description: strings.TrimSpace(in.Description),
		CoverURL:    strings.TrimSpace(in.CoverURL),
		Status:      strings.ToLower(strings.TrimSpace(in.Status)),
	}
	required := []struct{ field, value string }{
		{"title", novel.Title},
		{"description", novel.Description},
		{"cover_url", novel.CoverURL},
		{"status", novel.Status},
	}
	for _, r := range required {
		if r.value == "" {
			return nil, domain.Invalid(r.field, "required")
		}
	}
	if !domain.ValidNovelStatus(novel.Status) {
		return nil, domain.Invalid("status", "must be draft, review or published")
	}
	if err := s.novels.Create(ctx, novel); err != nil {
		return nil, fmt.Errorf("novels: create: %w", err)
	}
	s.activity.Notify(ctx, activity.Event{
		Verb:       activity.VerbNovelCreated,
		ActorID:    authorID.String(),
		ObjectType: activity.ObjectNovel,
		ObjectID:   novel.ID.String(),
		Metadata:   map[string]any{"status": novel.Status},
	})
	return novel, nil
}

// List returns novels newest first.
func (s *Service) List(ctx context.Context, page paging.Request) ([]domain.Novel, paging.Pagination, error) {
	res, err := s.novels.ListNewest(ctx, page.ListOptions())
	if err != nil {
		return nil, paging.Pagination{}, fmt.Errorf("novels: list: %w", err)
	}
	return res.Items, page.Of(res.Total), nil
}

// Get returns a single novel.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*domain.Novel, error) {
	novel, err := s.novels.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("novels: get %s: %w", id, err)
	}
	return novel, nil
}

// ListByAuthor returns the author's novels with chapter, favorite and
// comment counts. An unknown status is ignored.
func (s *Service) ListByAuthor(ctx context.Context, authorID uuid.UUID, status string, page paging.Request) ([]domain.AuthorNovel, paging.Pagination, error) {
	status = strings.ToLower(strings.TrimSpace(status))
	if !domain.ValidNovelStatus(status) {
		status = ""
	}
	res, err := s.novels.ListByAuthor(ctx, authorID, status, page.ListOptions())
	if err != nil {
		return nil, paging.Pagination{}, fmt.Errorf("novels: list by author: %w", err)
	}
	out := make([]domain.AuthorNovel, 0, len(res.Items))
	for _, novel := range res.Items {
		item := domain.AuthorNovel{Novel: novel}
		if item.ChapterCount, _, err = s.chapters.CountByNovel(ctx, novel.ID); err != nil {
			return nil, paging.Pagination{}, err
		}
		if item.FavoriteCount, err = s.favorites.CountByNovel(ctx, novel.ID); err != nil {
			return nil, paging.Pagination{}, err
		}
		if item.CommentCount, err = s.comments.CountByNovel(ctx, novel.ID); err != nil {
			return nil, paging.Pagination{}, err
		}
		out = append(out, item)
	}
	return out, page.Of(res.Total), nil
}

// Stats aggregates engagement for a novel owned by authorID.
func (s *Service) Stats(ctx context.Context, authorID, novelID uuid.UUID) (domain.NovelStats, error) {
	novel, err := s.owned(ctx, authorID, novelID)
	if err != nil {
		return domain.NovelStats{}, err
	}
	stats := domain.NovelStats{
		NovelID:   novel.ID,
		Title:     novel.Title,
		Status:    novel.Status,
		WordCount: novel.WordCount,
		CreatedAt: novel.CreatedAt,
		UpdatedAt: novel.UpdatedAt,
	}
	if stats.Chapters, stats.TotalWords, err = s.chapters.CountByNovel(ctx, novel.ID); err != nil {
		return domain.NovelStats{}, err
	}
	if stats.Favorites, err = s.favorites.CountByNovel(ctx, novel.ID); err != nil {
		return domain.NovelStats{}, err
	}
	if stats.Comments, err = s.comments.CountByNovel(ctx, novel.ID); err != nil {
		return domain.NovelStats{}, err
	}
	if stats.Readers, err = s.reading.CountReaders(ctx, novel.ID); err != nil {
		return domain.NovelStats{}, err
	}
	return stats, nil
}

func (s *Service) owned(ctx context.Context, authorID, novelID uuid.UUID) (*domain.Novel, error) {
	novel, err := s.Get(ctx, novelID)
	if err != nil {
		return nil, err
	}
	if novel.AuthorID != authorID {
		return nil, domain.ErrForbidden
	}
	return novel, nil
}
