package ports

import (
	"context"
	"time"

	"github.com/photoevents/photo-api/internal/core/domain"
)

// CreateEventInput is the DTO passed from the transport layer to EventService.Create.
type CreateEventInput struct {
	Name string
	Date *time.Time // optional
}

// UpdateEventInput carries a partial event update; nil fields are unchanged.
type UpdateEventInput struct {
	ID   string
	Name *string
	Date *time.Time
}

// EventService defines use-case operations for events.
type EventService interface {
	Create(ctx context.Context, in CreateEventInput) (*domain.Event, error)
	Get(ctx context.Context, id string) (*domain.Event, error)
	List(ctx context.Context) ([]*domain.Event, error)
	Update(ctx context.Context, in UpdateEventInput) (*domain.Event, error)
	Delete(ctx context.Context, id string) error
}
