package sessions

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// ErrEmptyToken is returned when an operation receives a blank token.
var ErrEmptyToken = errors.New("sessions: empty token")

// Identity is the session payload stored per token.
type Identity struct {
	UserID   uuid.UUID `json:"user_id"`
	Username string    `json:"username"`
	Email    string    `json:"email"`
	Role     string    `json:"role"`
}

// Store maps opaque tokens to identities. Sessions never expire and are
// only removed by Delete.
type Store interface {
	Create(ctx context.Context, identity Identity) (string, error)
	Get(ctx context.Context, token string) (Identity, bool, error)
	Delete(ctx context.Context, token string) (bool, error)
}

// ErrNoSession is returned by Authorize when the token names no session.
var ErrNoSession = errors.New("sessions: no session for token")

// Authorize resolves token to its identity. A blank or unknown token yields
// ErrNoSession; backend failures are returned wrapped.
func Authorize(ctx context.Context, store Store, token string) (Identity, error) {
	if store == nil || strings.TrimSpace(token) == "" {
		return Identity{}, ErrNoSession
	}
	identity, ok, err := store.Get(ctx, token)
	if err != nil {
		return Identity{}, fmt.Errorf("sessions: authorize: %w", err)
	}
	if !ok {
		return Identity{}, ErrNoSession
	}
	return identity, nil
}

// IsAuthorized reports whether token names a live session.
func IsAuthorized(ctx context.Context, store Store, token string) bool {
	_, err := Authorize(ctx, store, token)
	return err == nil
}

func newToken() string {
	return uuid.New().String()
}
