package bunrepo

import (
	"context"
	"fmt"

	"github.com/goliatone/go-novels/pkg/domain"
	"github.com/goliatone/go-novels/pkg/interfaces/store"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

type ReadingRepository struct {
	base baseRepository[domain.ReadingRecord]
	db   *bun.DB
}

var _ store.ReadingRepository = (*ReadingRepository)(nil)

func NewReadingRepository(db *bun.DB) *ReadingRepository {
	handlers := repository.ModelHandlers[*domain.ReadingRecord]{
		NewRecord: func() *domain.ReadingRecord { return &domain.ReadingRecord{} },
		GetID:     func(r *domain.ReadingRecord) uuid.UUID { return r.ID },
		SetID: func(r *domain.ReadingRecord, id uuid.UUID) {
			r.ID = id
		},
		GetIdentifier:      func() string { return "id" },
		GetIdentifierValue: func(r *domain.ReadingRecord) string { return r.ID.String() },
	}
	return &ReadingRepository{
		base: newBaseRepository[domain.ReadingRecord](db, handlers, func(r *domain.ReadingRecord) *domain.RecordMeta { return &r.RecordMeta }),
		db:   db,
	}
}

func (r *ReadingRepository) Create(ctx context.Context, rec *domain.ReadingRecord) error {
	return r.base.create(ctx, rec)
}

func (r *ReadingRepository) Update(ctx context.Context, rec *domain.ReadingRecord) error {
	return r.base.update(ctx, rec)
}

func (r *ReadingRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.ReadingRecord, error) {
	return r.base.getByID(ctx, id)
}

func (r *ReadingRepository) List(ctx context.Context, opts store.ListOptions) (store.ListResult[domain.ReadingRecord], error) {
	return r.base.list(ctx, opts)
}

func (r *ReadingRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	return r.base.softDelete(ctx, id)
}

func (r *ReadingRepository) GetByUserAndChapter(ctx context.Context, userID, chapterID uuid.UUID) (*domain.ReadingRecord, error) {
	return r.base.get(ctx, withField("user_id", userID), withField("chapter_id", chapterID))
}

// ContinueForUser returns the latest record per novel, most recent first.
func (r *ReadingRepository) ContinueForUser(ctx context.Context, userID uuid.UUID, limit int) ([]domain.ContinueEntry, error) {
	latest := r.db.NewSelect().
		TableExpr("reading_records AS r2").
		ColumnExpr("r2.id").
		Where("r2.user_id = r.user_id").
		Where("r2.novel_id = r.novel_id").
		Where("r2.deleted_at IS NULL").
		OrderExpr("r2.last_read DESC").
		OrderExpr("r2.id DESC").
		Limit(1)

	rows := make([]domain.ContinueEntry, 0)
	sel := r.db.NewSelect().
		TableExpr("reading_records AS r").
		ColumnExpr("n.id AS novel_id, n.title, n.cover_url").
		ColumnExpr("c.id AS chapter_id, c.chapter_num, c.title AS chapter_title").
		ColumnExpr("r.progress, r.last_read").
		Join("JOIN chapters AS c ON c.id = r.chapter_id").
		Join("JOIN novels AS n ON n.id = r.novel_id").
		Where("r.user_id = ?", userID).
		Where("r.deleted_at IS NULL").
		Where("r.id = (?)", latest).
		OrderExpr("r.last_read DESC")
	if limit > 0 {
		sel = sel.Limit(limit)
	}
	if err := sel.Scan(ctx, &rows); err != nil {
		return nil, fmt.Errorf("continue reading: %w", err)
	}
	return rows, nil
}

// CountReaders counts distinct users with a record on the novel.
func (r *ReadingRepository) CountReaders(ctx context.Context, novelID uuid.UUID) (int, error) {
	var n int
	err := r.db.NewSelect().
		Model((*domain.ReadingRecord)(nil)).
		ColumnExpr("COUNT(DISTINCT user_id)").
		Where("novel_id = ?", novelID).
		Scan(ctx, &n)
	if err != nil {
		return 0, fmt.Errorf("count readers: %w", err)
	}
	return n, nil
}
