package ports

import (
	"context"
	"time"

	"github.com/photoevents/photo-api/internal/core/domain"
)

// EventUpdate holds the fields replaced by EventRepository.Update.
// Nil fields are left untouched.
type EventUpdate struct {
	Name *string
	Date *time.Time
}

// EventRepository defines persistence operations for events.
type EventRepository interface {
	Create(ctx context.Context, e *domain.Event) (*domain.Event, error)
	FindByID(ctx context.Context, id string) (*domain.Event, error)
	List(ctx context.Context) ([]*domain.Event, error)
	Update(ctx context.Context, id string, upd EventUpdate) (*domain.Event, error)
	Delete(ctx context.Context, id string) error

	// AddContributor adds userID to the event's contributor set.
	// Idempotent: an already-present id is left as is.
	AddContributor(ctx context.Context, eventID, userID string) error
}
