package ports

import (
	"context"

	"github.com/photoevents/photo-api/internal/core/domain"
)

// PhotoRepository defines persistence operations for photo records.
type PhotoRepository interface {
	FindByID(ctx context.Context, id string) (*domain.Photo, error)
	FindByEvent(ctx context.Context, eventID string) ([]*domain.Photo, error)
	FindByEventAndUser(ctx context.Context, eventID, userID string) ([]*domain.Photo, error)
	// FindByIDs returns the photos among ids. When eventID is non-empty the
	// result is additionally restricted to that event.
	FindByIDs(ctx context.Context, ids []string, eventID string) ([]*domain.Photo, error)
	CountByEvent(ctx context.Context, eventID string) (int64, error)

	// InsertMany stores all photos in one operation and returns them with ids set.
	InsertMany(ctx context.Context, photos []*domain.Photo) ([]*domain.Photo, error)
	// DeleteMany removes the given ids and returns how many records were removed.
	DeleteMany(ctx context.Context, ids []string) (int64, error)
}
