package ports

import (
	"context"

	"github.com/photoevents/photo-api/internal/core/domain"
)

// RegisterInput carries a photographer self-registration.
type RegisterInput struct {
	Email    string
	Password string
	Name     string
}

type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*domain.User, error)
	Login(ctx context.Context, email, password string) (string, *domain.User, error)
	Me(ctx context.Context, userID string) (*domain.User, error)
	// EnsureAdmin creates an admin account for email unless one already exists.
	EnsureAdmin(ctx context.Context, email, password string) error
}
