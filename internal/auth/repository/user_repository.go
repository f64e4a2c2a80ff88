package repository

import (
	"context"
	"strings"

	authdomain "examprep-backend/internal/auth/domain"
	"examprep-backend/pkg/store"
)

// userRepository implements UserRepository over the users resource
type userRepository struct {
	store store.RecordStore
}

// NewUserRepository creates a new instance of userRepository
func NewUserRepository(s store.RecordStore) UserRepository {
	return &userRepository{store: s}
}

func (r *userRepository) List(ctx context.Context) ([]authdomain.User, error) {
	return store.Load[authdomain.User](ctx, r.store, store.Users)
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*authdomain.User, error) {
	users, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	email = strings.TrimSpace(email)
	for i := range users {
		if strings.EqualFold(users[i].Email, email) {
			return &users[i], nil
		}
	}
	return nil, nil
}

func (r *userRepository) FindByID(ctx context.Context, id string) (*authdomain.User, error) {
	users, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range users {
		if users[i].ID == id {
			return &users[i], nil
		}
	}
	return nil, nil
}

func (r *userRepository) Create(ctx context.Context, user *authdomain.User) error {
	users, err := r.List(ctx)
	if err != nil {
		return err
	}
	users = append(users, *user)
	return store.Save(ctx, r.store, store.Users, users)
}

func (r *userRepository) Update(ctx context.Context, user *authdomain.User) error {
	users, err := r.List(ctx)
	if err != nil {
		return err
	}
	for i := range users {
		if users[i].ID == user.ID {
			users[i] = *user
			return store.Save(ctx, r.store, store.Users, users)
		}
	}
	return ErrUserNotFound
}

func (r *userRepository) Delete(ctx context.Context, id string) error {
	users, err := r.List(ctx)
	if err != nil {
		return err
	}
	for i := range users {
		if users[i].ID == id {
			users = append(users[:i], users[i+1:]...)
			return store.Save(ctx, r.store, store.Users, users)
		}
	}
	return ErrUserNotFound
}
