// Package services holds the application layer between the HTTP handlers and
// the storage repository. Services validate input, own the session lifecycle,
// and decide which failures reach the user verbatim.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Bhavyabhvy/SpendIQ/internal/auth"
	"github.com/Bhavyabhvy/SpendIQ/internal/core"
	"github.com/Bhavyabhvy/SpendIQ/internal/storage"
)

// ErrInvalidCredentials is returned for every login failure. Unknown email
// and wrong password are indistinguishable on purpose.
var ErrInvalidCredentials = errors.New("invalid email or password")

type UserService struct {
	storage    *storage.SQLiteRepository
	sessionTTL time.Duration
}

func NewUserService(storage *storage.SQLiteRepository, sessionTTL time.Duration) *UserService {
	return &UserService{storage: storage, sessionTTL: sessionTTL}
}

// Register creates an account with a bcrypt-hashed password. Duplicate emails
// surface as storage.ErrEmailTaken.
func (s *UserService) Register(ctx context.Context, name, email, password string) (*core.User, error) {
	u := core.User{Name: strings.TrimSpace(name), Email: strings.TrimSpace(email)}
	if err := u.ValidateRegistration(); err != nil {
		return nil, err
	}
	if password == "" {
		return nil, core.ErrEmptyPassword
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	return s.storage.CreateUser(ctx, u.Name, u.Email, hash)
}

// Login verifies credentials and opens a session. The returned token goes
// into the session cookie.
func (s *UserService) Login(ctx context.Context, email, password string) (string, *core.User, error) {
	user, err := s.storage.GetUserByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, fmt.Errorf("lookup user: %w", err)
	}

	if !auth.CheckPassword(password, user.PasswordHash) {
		return "", nil, ErrInvalidCredentials
	}

	token, err := auth.GenerateSessionToken()
	if err != nil {
		return "", nil, err
	}
	if err := s.storage.CreateSession(ctx, token, user.ID, time.Now().Add(s.sessionTTL)); err != nil {
		return "", nil, fmt.Errorf("create session: %w", err)
	}

	slog.InfoContext(ctx, "User logged in", "user_id", user.ID)
	return token, user, nil
}

// Authenticate resolves a session token to its user. Expired or unknown
// tokens return storage.ErrNotFound.
func (s *UserService) Authenticate(ctx context.Context, token string) (*core.User, error) {
	return s.storage.GetSessionUser(ctx, token)
}

// Logout deletes the session. Unknown tokens are a no-op.
func (s *UserService) Logout(ctx context.Context, token string) error {
	return s.storage.DeleteSession(ctx, token)
}
