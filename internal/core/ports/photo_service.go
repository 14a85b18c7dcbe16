package ports

import (
	"context"
	"io"

	"github.com/photoevents/photo-api/internal/core/domain"
)

// UploadFile is one binary payload of an upload batch. Open may be called more
// than once; each call returns a fresh reader from the start of the content.
type UploadFile struct {
	Filename    string
	ContentType string
	Size        int64
	Open        func() (io.ReadCloser, error)
}

// UploadPhotosInput carries an upload batch for one event.
type UploadPhotosInput struct {
	EventID string
	UserID  string
	Files   []UploadFile
}

// UploadResult reports created records and the filenames skipped as duplicates.
type UploadResult struct {
	SavedPhotos  []*domain.Photo
	SkippedCount int
	Skipped      []string
}

// DeletePhotosInput carries a deletion request. EventID optionally scopes the
// request to a single event.
type DeletePhotosInput struct {
	PhotoIDs []string
	UserID   string
	Role     string
	EventID  string
}

// DeleteResult reports removed records and the files that could not be removed.
type DeleteResult struct {
	DeletedFromDB int64
	MissingFiles  []string
}

// PhotoService defines use-case operations for photos.
type PhotoService interface {
	Upload(ctx context.Context, in UploadPhotosInput) (*UploadResult, error)
	Delete(ctx context.Context, in DeletePhotosInput) (*DeleteResult, error)
	ListByEvent(ctx context.Context, eventID string) ([]*domain.Photo, error)
	ListByEventAndUser(ctx context.Context, eventID, userID string) ([]*domain.Photo, error)
	// Open returns the photo record and a reader over its stored file.
	Open(ctx context.Context, id string) (*domain.Photo, io.ReadCloser, error)
}
