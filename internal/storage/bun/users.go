package bunrepo

import (
	"context"
	"strings"

	"github.com/goliatone/go-novels/pkg/domain"
	"github.com/goliatone/go-novels/pkg/interfaces/store"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

type UserRepository struct {
	base baseRepository[domain.User]
}

var _ store.UserRepository = (*UserRepository)(nil)

func NewUserRepository(db *bun.DB) *UserRepository {
	handlers := repository.ModelHandlers[*domain.User]{
		NewRecord: func() *domain.User { return &domain.User{} },
		GetID:     func(u *domain.User) uuid.UUID { return u.ID },
		SetID: func(u *domain.User, id uuid.UUID) {
			u.ID = id
		},
		GetIdentifier:      func() string { return "username" },
		GetIdentifierValue: func(u *domain.User) string { return u.Username },
	}
	return &UserRepository{
		base: newBaseRepository[domain.User](db, handlers, func(u *domain.User) *domain.RecordMeta { return &u.RecordMeta }),
	}
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	return r.base.create(ctx, user)
}

func (r *UserRepository) Update(ctx context.Context, user *domain.User) error {
	return r.base.update(ctx, user)
}

func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return r.base.getByID(ctx, id)
}

func (r *UserRepository) List(ctx context.Context, opts store.ListOptions) (store.ListResult[domain.User], error) {
	return r.base.list(ctx, opts)
}

func (r *UserRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	return r.base.softDelete(ctx, id)
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	return r.base.get(ctx, withField("username", strings.TrimSpace(username)))
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.base.get(ctx, func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.Where("LOWER(email) = ?", strings.ToLower(strings.TrimSpace(email)))
	})
}
