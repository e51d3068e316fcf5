package bunrepo

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/goliatone/go-novels/pkg/domain"
	"github.com/goliatone/go-novels/pkg/interfaces/store"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

type ChapterRepository struct {
	base baseRepository[domain.Chapter]
	db   *bun.DB
}

var _ store.ChapterRepository = (*ChapterRepository)(nil)

func NewChapterRepository(db *bun.DB) *ChapterRepository {
	handlers := repository.ModelHandlers[*domain.Chapter]{
		NewRecord: func() *domain.Chapter { return &domain.Chapter{} },
		GetID:     func(c *domain.Chapter) uuid.UUID { return c.ID },
		SetID: func(c *domain.Chapter, id uuid.UUID) {
			c.ID = id
		},
		GetIdentifier:      func() string { return "id" },
		GetIdentifierValue: func(c *domain.Chapter) string { return c.ID.String() },
	}
	return &ChapterRepository{
		base: newBaseRepository[domain.Chapter](db, handlers, func(c *domain.Chapter) *domain.RecordMeta { return &c.RecordMeta }),
		db:   db,
	}
}

func (r *ChapterRepository) Create(ctx context.Context, chapter *domain.Chapter) error {
	return r.base.create(ctx, chapter)
}

func (r *ChapterRepository) Update(ctx context.Context, chapter *domain.Chapter) error {
	return r.base.update(ctx, chapter)
}

func (r *ChapterRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Chapter, error) {
	return r.base.getByID(ctx, id)
}

func (r *ChapterRepository) List(ctx context.Context, opts store.ListOptions) (store.ListResult[domain.Chapter], error) {
	return r.base.list(ctx, opts)
}

func (r *ChapterRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	return r.base.softDelete(ctx, id)
}

// CreateForNovel inserts the chapter and bumps the novel's word count in a
// single transaction. A missing novel rolls the insert back.
func (r *ChapterRepository) CreateForNovel(ctx context.Context, chapter *domain.Chapter) error {
	stamp(&chapter.RecordMeta)
	return r.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewInsert().Model(chapter).Exec(ctx); err != nil {
			return fmt.Errorf("insert chapter: %w", err)
		}
		res, err := tx.NewUpdate().
			Model((*domain.Novel)(nil)).
			Set("word_count = word_count + ?", chapter.WordCount).
			Set("updated_at = ?", time.Now().UTC()).
			Where("id = ?", chapter.NovelID).
			Where("deleted_at IS NULL").
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("update novel word count: %w", err)
		}
		if n, err := res.RowsAffected(); err == nil && n == 0 {
			return store.ErrNotFound
		}
		return nil
	})
}

// ListByNovel returns chapters by number without their content.
func (r *ChapterRepository) ListByNovel(ctx context.Context, novelID uuid.UUID) ([]domain.Chapter, error) {
	chapters := make([]domain.Chapter, 0)
	err := r.db.NewSelect().
		Model(&chapters).
		ExcludeColumn("content").
		Where("novel_id = ?", novelID).
		OrderExpr("chapter_num ASC").
		Scan(ctx)
	if err != nil {
		return nil, mapError(err)
	}
	return chapters, nil
}

func (r *ChapterRepository) CountByNovel(ctx context.Context, novelID uuid.UUID) (int, int, error) {
	var chapters, words int
	err := r.db.NewSelect().
		Model((*domain.Chapter)(nil)).
		ColumnExpr("COUNT(*)").
		ColumnExpr("COALESCE(SUM(word_count), 0)").
		Where("novel_id = ?", novelID).
		Scan(ctx, &chapters, &words)
	if err != nil {
		return 0, 0, fmt.Errorf("count chapters: %w", err)
	}
	return chapters, words, nil
}
