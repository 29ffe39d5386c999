package repository

import (
	"context"
	"errors"

	"authgate/internal/domain"
)

var (
	// ErrDuplicateEmail is returned by Create when the email is already taken.
	ErrDuplicateEmail = errors.New("email already registered")
	// ErrNotFound is returned by lookups when no user matches.
	ErrNotFound = errors.New("user not found")
)

// UserRepository defines persistence operations for User entities.
type UserRepository interface {
	Init(ctx context.Context) error
	Create(ctx context.Context, user *domain.User) (int64, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
}
