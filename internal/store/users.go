package store

import (
	"context"
	"strings"

	"github.com/folioapp/folio-server/internal/domain"
)

// normalizeEmail lowercases and trims an email for index storage and
// lookup, so logins are case-insensitive.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// CreateUser persists a new user.
// Returns ErrAlreadyExists if the ID or email is already taken.
func (s *Store) CreateUser(ctx context.Context, user *domain.User) error {
	return s.Users.Create(ctx, user.ID, user)
}

// GetUser returns a user by ID, or ErrNotFound.
func (s *Store) GetUser(ctx context.Context, id string) (*domain.User, error) {
	return s.Users.Get(ctx, id)
}

// GetUserByEmail returns a user by email (case-insensitive), or ErrNotFound.
func (s *Store) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	return s.Users.GetByIndex(ctx, "email", email)
}

// UpdateUser overwrites the stored user, keeping the email index in sync.
func (s *Store) UpdateUser(ctx context.Context, user *domain.User) error {
	return s.Users.Update(ctx, user.ID, user)
}
