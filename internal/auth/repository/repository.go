package repository

import (
	"context"
	"errors"

	authdomain "examprep-backend/internal/auth/domain"
)

// ErrUserNotFound is returned by Update and Delete for unknown ids
var ErrUserNotFound = errors.New("user not found")

// UserRepository defines the interface for user data access
type UserRepository interface {
	// List returns every stored user
	List(ctx context.Context) ([]authdomain.User, error)

	// FindByEmail returns nil, nil when no user has that email
	FindByEmail(ctx context.Context, email string) (*authdomain.User, error)

	// FindByID returns nil, nil when no user has that id
	FindByID(ctx context.Context, id string) (*authdomain.User, error)

	// Create appends a user
	Create(ctx context.Context, user *authdomain.User) error

	// Update replaces the user with the same id
	Update(ctx context.Context, user *authdomain.User) error

	// Delete removes a user by id
	Delete(ctx context.Context, id string) error
}

// IsNotFound reports whether err means the user does not exist
func IsNotFound(err error) bool {
	return errors.Is(err, ErrUserNotFound)
}
