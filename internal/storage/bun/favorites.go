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

type FavoriteRepository struct {
	base baseRepository[domain.Favorite]
	db   *bun.DB
}

var _ store.FavoriteRepository = (*FavoriteRepository)(nil)

func NewFavoriteRepository(db *bun.DB) *FavoriteRepository {
	handlers := repository.ModelHandlers[*domain.Favorite]{
		NewRecord: func() *domain.Favorite { return &domain.Favorite{} },
		GetID:     func(f *domain.Favorite) uuid.UUID { return f.ID },
		SetID: func(f *domain.Favorite, id uuid.UUID) {
			f.ID = id
		},
		GetIdentifier:      func() string { return "id" },
		GetIdentifierValue: func(f *domain.Favorite) string { return f.ID.String() },
	}
	return &FavoriteRepository{
		base: newBaseRepository[domain.Favorite](db, handlers, func(f *domain.Favorite) *domain.RecordMeta { return &f.RecordMeta }),
		db:   db,
	}
}

func (r *FavoriteRepository) Create(ctx context.Context, fav *domain.Favorite) error {
	return r.base.create(ctx, fav)
}

func (r *FavoriteRepository) Update(ctx context.Context, fav *domain.Favorite) error {
	return r.base.update(ctx, fav)
}

func (r *FavoriteRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Favorite, error) {
	return r.base.getByID(ctx, id)
}

func (r *FavoriteRepository) List(ctx context.Context, opts store.ListOptions) (store.ListResult[domain.Favorite], error) {
	return r.base.list(ctx, opts)
}

func (r *FavoriteRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	return r.base.softDelete(ctx, id)
}

func (r *FavoriteRepository) GetByUserAndNovel(ctx context.Context, userID, novelID uuid.UUID) (*domain.Favorite, error) {
	return r.base.get(ctx, withField("user_id", userID), withField("novel_id", novelID))
}

// ListByUser returns the user's favorites joined with novel and author,
// most recent first.
func (r *FavoriteRepository) ListByUser(ctx context.Context, userID uuid.UUID, opts store.ListOptions) (store.ListResult[domain.FavoriteEntry], error) {
	query := func() *bun.SelectQuery {
		return r.db.NewSelect().
			TableExpr("favorites AS f").
			ColumnExpr("f.id AS favorite_id, f.novel_id, f.created_at").
			ColumnExpr("n.title, n.cover_url, n.status").
			ColumnExpr("u.username AS author_name").
			Join("JOIN novels AS n ON n.id = f.novel_id").
			Join("JOIN users AS u ON u.id = n.author_id").
			Where("f.user_id = ?", userID).
			Where("f.deleted_at IS NULL").
			Where("n.deleted_at IS NULL")
	}
	total, err := query().Count(ctx)
	if err != nil {
		return store.ListResult[domain.FavoriteEntry]{}, fmt.Errorf("count favorites: %w", err)
	}
	rows := make([]domain.FavoriteEntry, 0)
	sel := query().OrderExpr("f.created_at DESC").OrderExpr("f.id DESC")
	if opts.Limit > 0 {
		sel = sel.Limit(opts.Limit)
	}
	if opts.Offset > 0 {
		sel = sel.Offset(opts.Offset)
	}
	if err := sel.Scan(ctx, &rows); err != nil {
		return store.ListResult[domain.FavoriteEntry]{}, fmt.Errorf("list favorites: %w", err)
	}
	return store.ListResult[domain.FavoriteEntry]{Items: rows, Total: total}, nil
}

func (r *FavoriteRepository) CountByNovel(ctx context.Context, novelID uuid.UUID) (int, error) {
	n, err := r.db.NewSelect().
		Model((*domain.Favorite)(nil)).
		Where("novel_id = ?", novelID).
		Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("count favorites: %w", err)
	}
	return n, nil
}

// Delete removes the favorite row so the pair can be favorited again.
func (r *FavoriteRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.NewDelete().
		Model((*domain.Favorite)(nil)).
		Where("id = ?", id).
		ForceDelete().
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("delete favorite: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return store.ErrNotFound
	}
	return nil
}
