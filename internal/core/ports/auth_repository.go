package ports

import (
	"context"

	"github.com/photoevents/photo-api/internal/core/domain"
)

// UserRepository defines persistence operations for user identities.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	// AddEvent appends eventID to the user's event references. Adding an
	// already-present reference is a no-op.
	AddEvent(ctx context.Context, userID, eventID string) error
}
