package store

import (
	"context"
	"errors"
	"time"

	"github.com/goliatone/go-novels/pkg/domain"
	"github.com/google/uuid"
)

// ErrNotFound is returned when a record cannot be located.
var ErrNotFound = errors.New("store: not found")

// ListOptions capture pagination and filtering knobs common to repositories.
type ListOptions struct {
	Limit              int
	Offset             int
	Since              time.Time
	Until              time.Time
	IncludeSoftDeleted bool
}

// ListResult bundles records and totals.
type ListResult[T any] struct {
	Items []T
	Total int
}

// Repository defines base CRUD helpers reused by entity-specific interfaces.
type Repository[T any] interface {
	Create(ctx context.Context, record *T) error
	Update(ctx context.Context, record *T) error
	GetByID(ctx context.Context, id uuid.UUID) (*T, error)
	List(ctx context.Context, opts ListOptions) (ListResult[T], error)
	SoftDelete(ctx context.Context, id uuid.UUID) error
}

type UserRepository interface {
	Repository[domain.User]
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
}

// NovelSearch narrows the novel search listing.
type NovelSearch struct {
	Keyword string
	Status  string
	Limit   int
	Offset  int
}

type NovelRepository interface {
	Repository[domain.Novel]
	ListNewest(ctx context.Context, opts ListOptions) (ListResult[domain.Novel], error)
	ListByAuthor(ctx context.Context, authorID uuid.UUID, status string, opts ListOptions) (ListResult[domain.Novel], error)
	Search(ctx context.Context, q NovelSearch) (ListResult[domain.NovelListing], error)
	Popular(ctx context.Context, limit int) ([]domain.NovelListing, error)
}

type ChapterRepository interface {
	Repository[domain.Chapter]
	// CreateForNovel inserts the chapter and adds its word count to the
	// parent novel in one transaction.
	CreateForNovel(ctx context.Context, chapter *domain.Chapter) error
	ListByNovel(ctx context.Context, novelID uuid.UUID) ([]domain.Chapter, error)
	CountByNovel(ctx context.Context, novelID uuid.UUID) (chapters int, words int, err error)
}

type CommentRepository interface {
	Repository[domain.Comment]
	ListTopLevel(ctx context.Context, novelID uuid.UUID, opts ListOptions) (ListResult[domain.CommentThread], error)
	ListReplies(ctx context.Context, parentIDs []uuid.UUID) ([]domain.CommentThread, error)
	CountByNovel(ctx context.Context, novelID uuid.UUID) (int, error)
}

type FavoriteRepository interface {
	Repository[domain.Favorite]
	GetByUserAndNovel(ctx context.Context, userID, novelID uuid.UUID) (*domain.Favorite, error)
	ListByUser(ctx context.Context, userID uuid.UUID, opts ListOptions) (ListResult[domain.FavoriteEntry], error)
	CountByNovel(ctx context.Context, novelID uuid.UUID) (int, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type ReadingRepository interface {
	Repository[domain.ReadingRecord]
	GetByUserAndChapter(ctx context.Context, userID, chapterID uuid.UUID) (*domain.ReadingRecord, error)
	ContinueForUser(ctx context.Context, userID uuid.UUID, limit int) ([]domain.ContinueEntry, error)
	CountReaders(ctx context.Context, novelID uuid.UUID) (int, error)
}
