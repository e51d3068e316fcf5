package chapters

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/goliatone/go-novels/pkg/activity"
	"github.com/goliatone/go-novels/pkg/domain"
	"github.com/goliatone/go-novels/pkg/interfaces/logger"
	"github.com/goliatone/go-novels/pkg/interfaces/store"
	"github.com/google/uuid"
)

// CreateInput captures a new chapter.
type CreateInput struct {
	NovelID    uuid.UUID
	ChapterNum int
	Title      string
	Content    string
}

// Dependencies wires repositories and hooks into the service.
type Dependencies struct {
	Novels   store.NovelRepository
	Chapters store.ChapterRepository
	Logger   logger.Logger
	Activity activity.Hooks
}

// Service publishes and reads chapters.
type Service struct {
	novels   store.NovelRepository
	chapters store.ChapterRepository
	logger   logger.Logger
	activity activity.Hooks
}

var errRepositoryRequired = errors.New("chapters: novel and chapter repositories are required")

// New constructs the chapters service.
func New(deps Dependencies) (*Service, error) {
	if deps.Novels == nil || deps.Chapters == nil {
		return nil, errRepositoryRequired
	}
	if deps.Logger == nil {
		deps.Logger = &logger.Nop{}
	}
	return &Service{
		novels:   deps.Novels,
		chapters: deps.Chapters,
		logger:   deps.Logger,
		activity: deps.Activity,
	}, nil
}

// Create adds a chapter to a novel owned by authorID and adds its word count
// to the novel's total.
func (s *Service) Create(ctx context.Context, authorID uuid.UUID, in CreateInput) (*domain.Chapter, error) {
	if in.NovelID == uuid.Nil {
		return nil, domain.Invalid("novel_id", "required")
	}
	if in.ChapterNum <= 0 {
		return nil, domain.Invalid("chapter_num", "must be positive")
	}
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, domain.Invalid("title", "required")
	}
	if strings.TrimSpace(in.Content) == "" {
		return nil, domain.Invalid("content", "required")
	}

	novel, err := s.novels.GetByID(ctx, in.NovelID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, domain.ErrForbidden
	}
	if err != nil {
		return nil, fmt.Errorf("chapters: load novel: %w", err)
	}
	if novel.AuthorID != authorID {
		return nil, domain.ErrForbidden
	}

	chapter := &domain.Chapter{
		NovelID:    novel.ID,
		ChapterNum: in.ChapterNum,
		Title:      title,
		Content:    in.Content,
		WordCount:  WordCount(in.Content),
	}
	if err := s.chapters.CreateForNovel(ctx, chapter); err != nil {
		return nil, fmt.Errorf("chapters: create: %w", err)
	}
	s.logger.Debug("chapter created", "novel_id", novel.ID, "chapter_id", chapter.ID, "word_count", chapter.WordCount)
	s.activity.Notify(ctx, activity.Event{
		Verb:       activity.VerbChapterCreated,
		ActorID:    authorID.String(),
		ObjectType: activity.ObjectChapter,
		ObjectID:   chapter.ID.String(),
		Metadata: map[string]any{
			"novel_id":   novel.ID.String(),
			"word_count": chapter.WordCount,
		},
	})
	return chapter, nil
}

// ListByNovel returns chapter summaries ordered by number.
func (s *Service) ListByNovel(ctx context.Context, novelID uuid.UUID) ([]domain.Chapter, error) {
	chapters, err := s.chapters.ListByNovel(ctx, novelID)
	if err != nil {
		return nil, fmt.Errorf("chapters: list: %w", err)
	}
	return chapters, nil
}

// Get returns a chapter with its content.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*domain.Chapter, error) {
	chapter, err := s.chapters.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("chapters: get %s: %w", id, err)
	}
	return chapter, nil
}
