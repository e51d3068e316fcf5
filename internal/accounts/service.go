package accounts

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"github.com/goliatone/go-novels/internal/sessions"
	"github.com/goliatone/go-novels/pkg/activity"
	"github.com/goliatone/go-novels/pkg/auth"
	"github.com/goliatone/go-novels/pkg/domain"
	"github.com/goliatone/go-novels/pkg/interfaces/logger"
	"github.com/goliatone/go-novels/pkg/interfaces/store"
)

// RegisterInput captures the fields accepted at sign-up.
type RegisterInput struct {
	Username string
	Password string
	Email    string
	Phone    string
	Role     string
}

// LoginResult is returned on successful authentication.
type LoginResult struct {
	Token string
	User  sessions.Identity
}

// Dependencies wires repositories, session storage and hooks into the service.
type Dependencies struct {
	Users    store.UserRepository
	Sessions sessions.Store
	Hasher   auth.Hasher
	Logger   logger.Logger
	Activity activity.Hooks
}

// Service manages accounts and their sessions.
type Service struct {
	users    store.UserRepository
	sessions sessions.Store
	hasher   auth.Hasher
	logger   logger.Logger
	activity activity.Hooks
}

var (
	errUsersRequired    = errors.New("accounts: user repository is required")
	errSessionsRequired = errors.New("accounts: session store is required")
)

// New constructs the accounts service.
func New(deps Dependencies) (*Service, error) {
	if deps.Users == nil {
		return nil, errUsersRequired
	}
	if deps.Sessions == nil {
		return nil, errSessionsRequired
	}
	if deps.Logger == nil {
		deps.Logger = &logger.Nop{}
	}
	if deps.Hasher.Cost == 0 {
		deps.Hasher = auth.NewHasher(0)
	}
	return &Service{
		users:    deps.Users,
		sessions: deps.Sessions,
		hasher:   deps.Hasher,
		logger:   deps.Logger,
		activity: deps.Activity,
	}, nil
}

// Register creates a new account. Usernames and e-mails must be unique.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*domain.User, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.Phone = strings.TrimSpace(in.Phone)
	in.Role = strings.ToLower(strings.TrimSpace(in.Role))

	if in.Username == "" {
		return nil, domain.Invalid("username", "required")
	}
	if in.Password == "" {
		return nil, domain.Invalid("password", "required")
	}
	if in.Email == "" {
		return nil, domain.Invalid("email", "required")
	}
	if _, err := mail.ParseAddress(in.Email); err != nil {
		return nil, domain.Invalid("email", "malformed")
	}
	if in.Role == "" {
		in.Role = domain.RoleReader
	}
	if !domain.ValidRole(in.Role) {
		return nil, domain.Invalid("role", "must be reader or author")
	}

	if err := s.ensureAvailable(ctx, in.Username, in.Email); err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, domain.Invalid("password", err.Error())
	}

	user := &domain.User{
		Username:     in.Username,
		Email:        in.Email,
		Phone:        in.Phone,
		PasswordHash: hash,
		Role:         in.Role,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("accounts: create user: %w", err)
	}
	s.logger.Info("account registered", "user_id", user.ID, "email", logger.Mask(user.Email))
	s.activity.Notify(ctx, activity.Event{
		Verb:       activity.VerbUserRegistered,
		ActorID:    user.ID.String(),
		ObjectType: activity.ObjectUser,
		ObjectID:   user.ID.String(),
		Metadata:   map[string]any{"role": user.Role},
	})
	return user, nil
}

// Login verifies credentials and opens a session.
func (s *Service) Login(ctx context.Context, username, password string) (LoginResult, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return LoginResult{}, domain.Invalid("", "username and password are required")
	}
	user, err := s.users.GetByUsername(ctx, username)
	if errors.Is(err, store.ErrNotFound) {
		return LoginResult{}, domain.ErrUnauthorized
	}
	if err != nil {
		return LoginResult{}, fmt.Errorf("accounts: load user: %w", err)
	}
	if err := s.hasher.Verify(user.PasswordHash, password); err != nil {
		if !errors.Is(err, auth.ErrMismatch) {
			s.logger.Warn("password verification failed", "user_id", user.ID, "error", err)
		}
		return LoginResult{}, domain.ErrUnauthorized
	}

	identity := sessions.Identity{
		UserID:   user.ID,
		Username: user.Username,
		Email:    user.Email,
		Role:     user.Role,
	}
	token, err := s.sessions.Create(ctx, identity)
	if err != nil {
		return LoginResult{}, fmt.Errorf("accounts: open session: %w", err)
	}
	s.logger.Info("login", "user_id", user.ID, "session_id", logger.Mask(token))
	s.activity.Notify(ctx, activity.Event{
		Verb:       activity.VerbUserLoggedIn,
		ActorID:    user.ID.String(),
		ObjectType: activity.ObjectUser,
		ObjectID:   user.ID.String(),
	})
	return LoginResult{Token: token, User: identity}, nil
}

// Logout closes the session named by token.
func (s *Service) Logout(ctx context.Context, token string) error {
	identity, ok, err := s.sessions.Get(ctx, token)
	if err != nil {
		return fmt.Errorf("accounts: load session: %w", err)
	}
	if !ok {
		return domain.ErrUnauthorized
	}
	removed, err := s.sessions.Delete(ctx, token)
	if err != nil {
		return fmt.Errorf("accounts: close session: %w", err)
	}
	if !removed {
		return domain.ErrUnauthorized
	}
	s.activity.Notify(ctx, activity.Event{
		Verb:       activity.VerbUserLoggedOut,
		ActorID:    identity.UserID.String(),
		ObjectType: activity.ObjectUser,
		ObjectID:   identity.UserID.String(),
	})
	return nil
}

// Current resolves the identity behind token. Unknown tokens are
// unauthorized; a failing session backend is returned as an error.
func (s *Service) Current(ctx context.Context, token string) (sessions.Identity, error) {
	identity, err := sessions.Authorize(ctx, s.sessions, token)
	if errors.Is(err, sessions.ErrNoSession) {
		return sessions.Identity{}, domain.ErrUnauthorized
	}
	if err != nil {
		return sessions.Identity{}, fmt.Errorf("accounts: current session: %w", err)
	}
	return identity, nil
}

func (s *Service) ensureAvailable(ctx context.Context, username, email string) error {
	if _, err := s.users.GetByUsername(ctx, username); err == nil {
		return fmt.Errorf("username %q: %w", username, domain.ErrConflict)
	} else if !errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("accounts: check username: %w", err)
	}
	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return fmt.Errorf("email: %w", domain.ErrConflict)
	} else if !errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("accounts: check email: %w", err)
	}
	return nil
}
