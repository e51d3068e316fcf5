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

type CommentRepository struct {
	base baseRepository[domain.Comment]
	db   *bun.DB
}

var _ store.CommentRepository = (*CommentRepository)(nil)

func NewCommentRepository(db *bun.DB) *CommentRepository {
	handlers := repository.ModelHandlers[*domain.Comment]{
		NewRecord: func() *domain.Comment { return &domain.Comment{} },
		GetID:     func(c *domain.Comment) uuid.UUID { return c.ID },
		SetID: func(c *domain.Comment, id uuid.UUID) {
			c.ID = id
		},
		GetIdentifier:      func() string { return "id" },
		GetIdentifierValue: func(c *domain.Comment) string { return c.ID.String() },
	}
	return &CommentRepository{
		base: newBaseRepository[domain.Comment](db, handlers, func(c *domain.Comment) *domain.RecordMeta { return &c.RecordMeta }),
		db:   db,
	}
}

func (r *CommentRepository) Create(ctx context.Context, comment *domain.Comment) error {
	return r.base.create(ctx, comment)
}

func (r *CommentRepository) Update(ctx context.Context, comment *domain.Comment) error {
	return r.base.update(ctx, comment)
}

func (r *CommentRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Comment, error) {
	return r.base.getByID(ctx, id)
}

func (r *CommentRepository) List(ctx context.Context, opts store.ListOptions) (store.ListResult[domain.Comment], error) {
	return r.base.list(ctx, opts)
}

func (r *CommentRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	return r.base.softDelete(ctx, id)
}

// ListTopLevel returns comments without a parent, newest first.
func (r *CommentRepository) ListTopLevel(ctx context.Context, novelID uuid.UUID, opts store.ListOptions) (store.ListResult[domain.CommentThread], error) {
	query := func() *bun.SelectQuery {
		return r.threadQuery().
			Where("c.novel_id = ?", novelID).
			Where("c.parent_id IS NULL")
	}
	total, err := query().Count(ctx)
	if err != nil {
		return store.ListResult[domain.CommentThread]{}, fmt.Errorf("count comments: %w", err)
	}
	rows := make([]domain.CommentThread, 0)
	sel := query().OrderExpr("c.created_at DESC").OrderExpr("c.id DESC")
	if opts.Limit > 0 {
		sel = sel.Limit(opts.Limit)
	}
	if opts.Offset > 0 {
		sel = sel.Offset(opts.Offset)
	}
	if err := sel.Scan(ctx, &rows); err != nil {
		return store.ListResult[domain.CommentThread]{}, fmt.Errorf("list comments: %w", err)
	}
	return store.ListResult[domain.CommentThread]{Items: rows, Total: total}, nil
}

// ListReplies returns replies to any of parentIDs, oldest first.
func (r *CommentRepository) ListReplies(ctx context.Context, parentIDs []uuid.UUID) ([]domain.CommentThread, error) {
	rows := make([]domain.CommentThread, 0)
	if len(parentIDs) == 0 {
		return rows, nil
	}
	err := r.threadQuery().
		Where("c.parent_id IN (?)", bun.In(parentIDs)).
		OrderExpr("c.created_at ASC").
		OrderExpr("c.id ASC").
		Scan(ctx, &rows)
	if err != nil {
		return nil, fmt.Errorf("list replies: %w", err)
	}
	return rows, nil
}

func (r *CommentRepository) CountByNovel(ctx context.Context, novelID uuid.UUID) (int, error) {
	n, err := r.db.NewSelect().
		Model((*domain.Comment)(nil)).
		Where("novel_id = ?", novelID).
		Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("count comments: %w", err)
	}
	return n, nil
}

func (r *CommentRepository) threadQuery() *bun.SelectQuery {
	return r.db.NewSelect().
		TableExpr("comments AS c").
		ColumnExpr("c.id, c.novel_id, c.user_id, c.parent_id, c.content, c.created_at").
		ColumnExpr("u.username").
		Join("JOIN users AS u ON u.id = c.user_id").
		Where("c.deleted_at IS NULL")
}
