package commands

import (
	"context"
	"errors"
	"strings"

	command "github.com/goliatone/go-command"
	"github.com/goliatone/go-novels/internal/reading"
	"github.com/goliatone/go-novels/pkg/domain"
	"github.com/goliatone/go-novels/pkg/interfaces/logger"
	"github.com/google/uuid"
)

// Catalog exposes go-command handlers for session-scoped mutations that
// return no payload.
type Catalog struct {
	AddFavorite    command.Commander[AddFavorite]
	RemoveFavorite command.Commander[RemoveFavorite]
	RecordReading  command.Commander[RecordReading]
	Logout         command.Commander[Logout]
}

type favoriteService interface {
	Add(ctx context.Context, userID, novelID uuid.UUID) (*domain.Favorite, error)
	Remove(ctx context.Context, userID, novelID uuid.UUID) error
}

type readingService interface {
	Record(ctx context.Context, userID uuid.UUID, in reading.RecordInput) (*domain.ReadingRecord, error)
}

type accountService interface {
	Logout(ctx context.Context, token string) error
}

// Dependencies wires services into the command catalog.
type Dependencies struct {
	Favorites favoriteService
	Reading   readingService
	Accounts  accountService
	Logger    logger.Logger
}

// NewCatalog builds the command catalog using the supplied dependencies.
func NewCatalog(deps Dependencies) (*Catalog, error) {
	if deps.Favorites == nil {
		return nil, errors.New("commands: favorites service is required")
	}
	if deps.Reading == nil {
		return nil, errors.New("commands: reading service is required")
	}
	if deps.Accounts == nil {
		return nil, errors.New("commands: accounts service is required")
	}
	if deps.Logger == nil {
		deps.Logger = &logger.Nop{}
	}

	return &Catalog{
		AddFavorite:    favoriteAddCommand{svc: deps.Favorites},
		RemoveFavorite: favoriteRemoveCommand{svc: deps.Favorites},
		RecordReading:  readingRecordCommand{svc: deps.Reading},
		Logout:         logoutCommand{svc: deps.Accounts, logger: deps.Logger},
	}, nil
}

// AddFavorite bookmarks a novel for the session user.
type AddFavorite struct {
	UserID  uuid.UUID `json:"user_id"`
	NovelID uuid.UUID `json:"novel_id"`
}

type favoriteAddCommand struct {
	svc favoriteService
}

func (c favoriteAddCommand) Execute(ctx context.Context, msg AddFavorite) error {
	_, err := c.svc.Add(ctx, msg.UserID, msg.NovelID)
	return err
}

// RemoveFavorite drops a bookmark.
type RemoveFavorite struct {
	UserID  uuid.UUID `json:"user_id"`
	NovelID uuid.UUID `json:"novel_id"`
}

type favoriteRemoveCommand struct {
	svc favoriteService
}

func (c favoriteRemoveCommand) Execute(ctx context.Context, msg RemoveFavorite) error {
	return c.svc.Remove(ctx, msg.UserID, msg.NovelID)
}

// RecordReading wraps reading.RecordInput for command invocation.
type RecordReading struct {
	reading.RecordInput
	UserID uuid.UUID `json:"user_id"`
}

type readingRecordCommand struct {
	svc readingService
}

func (c readingRecordCommand) Execute(ctx context.Context, msg RecordReading) error {
	_, err := c.svc.Record(ctx, msg.UserID, msg.RecordInput)
	return err
}

// Logout ends a session.
type Logout struct {
	Token string `json:"session_id"`
}

type logoutCommand struct {
	svc    accountService
	logger logger.Logger
}

func (c logoutCommand) Execute(ctx context.Context, msg Logout) error {
	token := strings.TrimSpace(msg.Token)
	if token == "" {
		return domain.ErrUnauthorized
	}
	if err := c.svc.Logout(ctx, token); err != nil {
		c.logger.Debug("logout rejected", "session_id", logger.Mask(token))
		return err
	}
	return nil
}
