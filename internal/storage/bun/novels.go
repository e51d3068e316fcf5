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

type NovelRepository struct {
	base baseRepository[domain.Novel]
	db   *bun.DB
}

var _ store.NovelRepository = (*NovelRepository)(nil)

func NewNovelRepository(db *bun.DB) *NovelRepository {
	handlers := repository.ModelHandlers[*domain.Novel]{
		NewRecord: func() *domain.Novel { return &domain.Novel{} },
		GetID:     func(n *domain.Novel) uuid.UUID { return n.ID },
		SetID: func(n *domain.Novel, id uuid.UUID) {
			n.ID = id
		},
		GetIdentifier:      func() string { return "id" },
		GetIdentifierValue: func(n *domain.Novel) string { return n.ID.String() },
	}
	return &NovelRepository{
		base: newBaseRepository[domain.Novel](db, handlers, func(n *domain.Novel) *domain.RecordMeta { return &n.RecordMeta }),
		db:   db,
	}
}

func (r *NovelRepository) Create(ctx context.Context, novel *domain.Novel) error {
	return r.base.create(ctx, novel)
}

func (r *NovelRepository) Update(ctx context.Context, novel *domain.Novel) error {
	return r.base.update(ctx, novel)
}

func (r *NovelRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Novel, error) {
	return r.base.getByID(ctx, id)
}

func (r *NovelRepository) List(ctx context.Context, opts store.ListOptions) (store.ListResult[domain.Novel], error) {
	return r.base.list(ctx, opts)
}

func (r *NovelRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	return r.base.softDelete(ctx, id)
}

// ListNewest returns novels ordered by creation time, newest first.
func (r *NovelRepository) ListNewest(ctx context.Context, opts store.ListOptions) (store.ListResult[domain.Novel], error) {
	return r.base.list(ctx, opts, orderBy("created_at DESC"), orderBy("id DESC"))
}

// ListByAuthor returns an author's novels, most recently updated first,
// optionally narrowed to one status.
func (r *NovelRepository) ListByAuthor(ctx context.Context, authorID uuid.UUID, status string, opts store.ListOptions) (store.ListResult[domain.Novel], error) {
	criteria := []repository.SelectCriteria{withField("author_id", authorID)}
	if status != "" {
		criteria = append(criteria, withField("status", status))
	}
	criteria = append(criteria, orderBy("updated_at DESC"), orderBy("id DESC"))
	return r.base.list(ctx, opts, criteria...)
}

// Search matches keyword against title or description.
func (r *NovelRepository) Search(ctx context.Context, q store.NovelSearch) (store.ListResult[domain.NovelListing], error) {
	like := "%" + q.Keyword + "%"
	query := func() *bun.SelectQuery {
		sel := r.listingQuery().
			Where("(n.title LIKE ? OR n.description LIKE ?)", like, like)
		if q.Status != "" {
			sel = sel.Where("n.status = ?", q.Status)
		}
		return sel
	}

	total, err := query().Count(ctx)
	if err != nil {
		return store.ListResult[domain.NovelListing]{}, fmt.Errorf("count novels: %w", err)
	}

	rows := make([]domain.NovelListing, 0)
	sel := query().OrderExpr("n.created_at DESC").OrderExpr("n.id DESC")
	if q.Limit > 0 {
		sel = sel.Limit(q.Limit)
	}
	if q.Offset > 0 {
		sel = sel.Offset(q.Offset)
	}
	if err := sel.Scan(ctx, &rows); err != nil {
		return store.ListResult[domain.NovelListing]{}, fmt.Errorf("search novels: %w", err)
	}
	return store.ListResult[domain.NovelListing]{Items: rows, Total: total}, nil
}

// Popular returns published novels ordered by favorite count, then recency.
func (r *NovelRepository) Popular(ctx context.Context, limit int) ([]domain.NovelListing, error) {
	rows := make([]domain.NovelListing, 0)
	err := r.listingQuery().
		ColumnExpr("COUNT(f.id) AS favorite_count").
		Join("LEFT JOIN favorites AS f ON f.novel_id = n.id AND f.deleted_at IS NULL").
		Where("n.status = ?", domain.NovelStatusPublished).
		GroupExpr("n.id, n.title, n.description, n.status, n.created_at, n.author_id, u.username").
		OrderExpr("favorite_count DESC").
		OrderExpr("n.created_at DESC").
		Limit(limit).
		Scan(ctx, &rows)
	if err != nil {
		return nil, fmt.Errorf("popular novels: %w", err)
	}
	return rows, nil
}

func (r *NovelRepository) listingQuery() *bun.SelectQuery {
	return r.db.NewSelect().
		TableExpr("novels AS n").
		ColumnExpr("n.id AS novel_id").
		ColumnExpr("n.title, n.description, n.status, n.created_at, n.author_id").
		ColumnExpr("u.username AS author_name").
		Join("JOIN users AS u ON u.id = n.author_id").
		Where("n.deleted_at IS NULL")
}
