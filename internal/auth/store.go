package auth

import (
	"context"
	"errors"

	"github.com/kenbachkhoa/chess-arena/internal/domain"
)

var (
	ErrEmailTaken   = errors.New("email already registered")
	ErrUserNotFound = errors.New("user not found")
	ErrBadPassword  = errors.New("invalid password")
	ErrInvalidToken = errors.New("invalid or expired token")
)

// UserStore is the swappable account backend. Lookups return (nil, nil)
// when no user exists; Insert fails with ErrEmailTaken on a duplicate email.
type UserStore interface {
	Insert(ctx context.Context, u *domain.User) error
	Update(ctx context.Context, u *domain.User) error
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	List(ctx context.Context) ([]*domain.User, error)
	Close() error
}
