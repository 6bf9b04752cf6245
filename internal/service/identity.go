// Package service contains the business logic of the marketplace core.
//
// Services sit between the HTTP handlers and the repositories:
//
//	handler (HTTP) → service (rules, outcomes) → repository (store)
//
// Every service method returns a single tagged outcome — a value or an
// apperror, never both — and knows nothing about HTTP. The handlers own the
// translation to transport status.
package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/OSMA-D/osma-server/internal/apperror"
	"github.com/OSMA-D/osma-server/internal/auth"
	"github.com/OSMA-D/osma-server/internal/model"
	"github.com/OSMA-D/osma-server/internal/repository"
)

// Identity handles account lifecycle: signup, signin, password change and
// profile updates. It owns the composition of hashing and token minting;
// repositories only ever see the finished digest.
type Identity struct {
	users     repository.UserRepository
	libraries repository.LibraryRepository
	hasher    *auth.Hasher
	tokens    *auth.TokenService
	logger    *slog.Logger
}

// NewIdentity creates the identity service with all dependencies injected.
func NewIdentity(
	users repository.UserRepository,
	libraries repository.LibraryRepository,
	hasher *auth.Hasher,
	tokens *auth.TokenService,
	logger *slog.Logger,
) *Identity {
	return &Identity{
		users:     users,
		libraries: libraries,
		hasher:    hasher,
		tokens:    tokens,
		logger:    logger,
	}
}

// Register creates a new account with role "user" and an empty personal
// library, and returns a freshly minted session token.
//
// The user insert and the library creation are two separate writes with no
// compensation: if the library write fails the user record stays. The next
// signup attempt with that name is then denied, so the failure is visible
// rather than silently retried.
func (s *Identity) Register(ctx context.Context, name, password, email string) (string, error) {
	if name == "" || password == "" {
		return "", apperror.Denied("name and password are required")
	}

	token, err := s.tokens.Mint(name, model.RoleUser)
	if err != nil {
		return "", fmt.Errorf("service/identity: minting token for %q: %w", name, apperror.Infra(err))
	}

	user := &model.User{
		Name:         name,
		PasswordHash: s.hasher.Hash(name, password),
		Email:        email,
		Role:         model.RoleUser,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return "", fmt.Errorf("service/identity: registering %q: %w", name, err)
	}

	if err := s.libraries.CreateFor(ctx, name); err != nil {
		return "", fmt.Errorf("service/identity: creating library for %q: %w", name, err)
	}

	s.logger.Info("user registered", slog.String("name", name))

	return token, nil
}

// Authenticate verifies a name/password pair and returns a session token
// carrying the user's stored role.
//
// The supplied password is re-hashed and compared to the stored digest by
// equality — the determinism of auth.Hasher is what makes this work.
func (s *Identity) Authenticate(ctx context.Context, name, password string) (string, error) {
	user, err := s.users.GetByName(ctx, name)
	if err != nil {
		return "", fmt.Errorf("service/identity: authenticating %q: %w", name, err)
	}

	if !s.hasher.Verify(user.PasswordHash, name, password) {
		return "", fmt.Errorf("service/identity: authenticating %q: %w", name,
			apperror.Denied("wrong password"))
	}

	token, err := s.tokens.Mint(user.Name, user.Role)
	if err != nil {
		return "", fmt.Errorf("service/identity: minting token for %q: %w", name, apperror.Infra(err))
	}

	s.logger.Info("user authenticated", slog.String("name", name))

	return token, nil
}

// ChangePassword replaces the stored digest after the caller proves
// knowledge of the old password.
//
// This is a read-then-write with no compare-and-swap: two concurrent calls
// for the same user race, and the last write wins. The store gives no
// ordering between them and the design does not add locks on top.
func (s *Identity) ChangePassword(ctx context.Context, name, oldPassword, newPassword string) error {
	user, err := s.users.GetByName(ctx, name)
	if err != nil {
		return fmt.Errorf("service/identity: changing password for %q: %w", name, err)
	}

	if !s.hasher.Verify(user.PasswordHash, name, oldPassword) {
		return fmt.Errorf("service/identity: changing password for %q: %w", name,
			apperror.Denied("wrong password"))
	}

	if err := s.users.UpdatePassword(ctx, name, s.hasher.Hash(name, newPassword)); err != nil {
		return fmt.Errorf("service/identity: changing password for %q: %w", name, err)
	}

	s.logger.Info("password changed", slog.String("name", name))

	return nil
}

// UpdateProfile overwrites the user's email and avatar URL. No prior value
// is read or merged; whatever the caller sends is what's stored.
func (s *Identity) UpdateProfile(ctx context.Context, name, email, img string) error {
	if err := s.users.UpdateProfile(ctx, name, email, img); err != nil {
		return fmt.Errorf("service/identity: updating profile for %q: %w", name, err)
	}

	s.logger.Info("profile updated", slog.String("name", name))

	return nil
}
