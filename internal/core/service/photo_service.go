package service

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/rs/zerolog"

	"github.com/photoevents/photo-api/internal/core/domain"
	"github.com/photoevents/photo-api/internal/core/ports"
)

// UploadLocker serializes uploads of one uploader into one event (Redis).
// Acquire returns domain.ErrUploadInProgress when the lock is already held.
type UploadLocker interface {
	Acquire(ctx context.Context, eventID, userID string) (release func(), err error)
}

type photoService struct {
	photoRepo ports.PhotoRepository
	eventRepo ports.EventRepository
	userRepo  ports.UserRepository
	storage   ports.FileStorage
	locker    UploadLocker
	log       zerolog.Logger
	now       func() time.Time
}

// NewPhotoService returns a PhotoService implementation. locker may be nil,
// in which case concurrent uploads are not serialized.
func NewPhotoService(
	photoRepo ports.PhotoRepository,
	eventRepo ports.EventRepository,
	userRepo ports.UserRepository,
	storage ports.FileStorage,
	locker UploadLocker,
	log zerolog.Logger,
) ports.PhotoService {
	return &photoService{
		photoRepo: photoRepo,
		eventRepo: eventRepo,
		userRepo:  userRepo,
		storage:   storage,
		locker:    locker,
		log:       log,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

type acceptedFile struct {
	ports.UploadFile
	contentType string
}

// Upload validates the whole batch, skips files the uploader already has in
// the event (matched by original name) and stores the rest.
func (s *photoService) Upload(ctx context.Context, in ports.UploadPhotosInput) (*ports.UploadResult, error) {
	files, err := s.validateBatch(in)
	if err != nil {
		return nil, err
	}

	if _, err := s.eventRepo.FindByID(ctx, in.EventID); err != nil {
		return nil, fmt.Errorf("upload photos: %w", err)
	}

	if s.locker != nil {
		release, err := s.locker.Acquire(ctx, in.EventID, in.UserID)
		if err != nil {
			return nil, fmt.Errorf("upload photos: %w", err)
		}
		defer release()
	}

	existing, err := s.photoRepo.FindByEventAndUser(ctx, in.EventID, in.UserID)
	if err != nil {
		return nil, fmt.Errorf("upload photos: load existing: %w", err)
	}
	seen := make(map[string]struct{}, len(existing)+len(files))
	for _, p := range existing {
		seen[p.OriginalName] = struct{}{}
	}

	var (
		fresh   []acceptedFile
		skipped = []string{}
	)
	for _, f := range files {
		if _, dup := seen[f.Filename]; dup {
			skipped = append(skipped, f.Filename)
			continue
		}
		seen[f.Filename] = struct{}{}
		fresh = append(fresh, f)
	}

	photos := make([]*domain.Photo, 0, len(fresh))
	var written []string
	for _, f := range fresh {
		locator, err := s.store(ctx, f)
		if err != nil {
			s.removeWritten(written)
			return nil, fmt.Errorf("upload photos: store %q: %w", f.Filename, err)
		}
		written = append(written, locator)
		photos = append(photos, &domain.Photo{
			EventID:      in.EventID,
			UserID:       in.UserID,
			URL:          locator,
			OriginalName: f.Filename,
			ContentType:  f.contentType,
			Size:         f.Size,
			UploadedAt:   s.now(),
		})
	}

	saved := []*domain.Photo{}
	if len(photos) > 0 {
		saved, err = s.photoRepo.InsertMany(ctx, photos)
		if err != nil {
			s.removeWritten(written)
			return nil, fmt.Errorf("upload photos: insert records: %w", err)
		}
	}

	if err := s.eventRepo.AddContributor(ctx, in.EventID, in.UserID); err != nil {
		return nil, fmt.Errorf("upload photos: add contributor: %w", err)
	}
	if err := s.userRepo.AddEvent(ctx, in.UserID, in.EventID); err != nil {
		s.log.Warn().Err(err).Str("user_id", in.UserID).Str("event_id", in.EventID).Msg("failed to link event to user")
	}

	s.log.Info().
		Str("event_id", in.EventID).
		Str("user_id", in.UserID).
		Int("saved", len(saved)).
		Int("skipped", len(skipped)).
		Msg("photos uploaded")

	return &ports.UploadResult{
		SavedPhotos:  saved,
		SkippedCount: len(skipped),
		Skipped:      skipped,
	}, nil
}

// validateBatch applies every batch-level rule before anything is written.
// A single offending file rejects the whole batch.
func (s *photoService) validateBatch(in ports.UploadPhotosInput) ([]acceptedFile, error) {
	if !domain.ValidID(in.EventID) {
		return nil, domain.ErrEventIDRequired
	}
	if len(in.Files) == 0 {
		return nil, domain.ErrNoFiles
	}
	if len(in.Files) > domain.MaxFilesPerUpload {
		return nil, domain.ErrTooManyFiles
	}
	for _, f := range in.Files {
		if f.Size > domain.MaxFileSize {
			return nil, fmt.Errorf("%w: %s", domain.ErrFileTooLarge, f.Filename)
		}
	}

	accepted := make([]acceptedFile, 0, len(in.Files))
	for _, f := range in.Files {
		ct, err := resolveContentType(f)
		if err != nil {
			return nil, fmt.Errorf("upload photos: inspect %q: %w", f.Filename, err)
		}
		if !strings.HasPrefix(ct, "image/") {
			return nil, fmt.Errorf("%w: %s", domain.ErrNotAnImage, f.Filename)
		}
		accepted = append(accepted, acceptedFile{UploadFile: f, contentType: ct})
	}
	return accepted, nil
}

// resolveContentType trusts the declared type unless it is missing or generic,
// in which case the content is sniffed.
func resolveContentType(f ports.UploadFile) (string, error) {
	declared := strings.ToLower(strings.TrimSpace(f.ContentType))
	if i := strings.IndexByte(declared, ';'); i >= 0 {
		declared = strings.TrimSpace(declared[:i])
	}
	if declared != "" && declared != "application/octet-stream" {
		return declared, nil
	}
	if f.Open == nil {
		return declared, nil
	}

	rc, err := f.Open()
	if err != nil {
		return "", err
	}
	defer rc.Close()

	mt, err := mimetype.DetectReader(rc)
	if err != nil {
		return "", err
	}
	return mt.String(), nil
}

func (s *photoService) store(ctx context.Context, f acceptedFile) (string, error) {
	rc, err := f.Open()
	if err != nil {
		return "", err
	}
	defer rc.Close()

	name := domain.StoredFileName(f.Filename, s.now())
	return s.storage.Save(ctx, name, rc, f.Size, f.contentType)
}

// removeWritten deletes files stored by a request that is about to fail.
// A detached context is used so cleanup still runs after cancellation.
func (s *photoService) removeWritten(locators []string) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	for _, loc := range locators {
		if err := s.storage.Delete(ctx, loc); err != nil {
			s.log.Warn().Err(err).Str("file", loc).Msg("failed to remove file after aborted upload")
		}
	}
}

// Delete removes the requested photos the caller may delete. File removal is
// best-effort: failures are reported, records are deleted regardless.
func (s *photoService) Delete(ctx context.Context, in ports.DeletePhotosInput) (*ports.DeleteResult, error) {
	if len(in.PhotoIDs) == 0 {
		return nil, domain.ErrPhotoIDsRequired
	}

	valid := make([]string, 0, len(in.PhotoIDs))
	for _, id := range in.PhotoIDs {
		if domain.ValidID(id) {
			valid = append(valid, id)
		}
	}
	if len(valid) == 0 {
		return nil, domain.ErrNoValidPhotoIDs
	}

	if in.Role != domain.RoleAdmin && in.Role != domain.RolePhotographer {
		return nil, domain.ErrForbidden
	}
	if in.EventID != "" && !domain.ValidID(in.EventID) {
		return nil, domain.ErrInvalidID
	}

	found, err := s.photoRepo.FindByIDs(ctx, valid, in.EventID)
	if err != nil {
		return nil, fmt.Errorf("delete photos: load: %w", err)
	}

	selected := make([]*domain.Photo, 0, len(found))
	for _, p := range found {
		if in.Role == domain.RoleAdmin || p.OwnedBy(in.UserID) {
			selected = append(selected, p)
		}
	}
	if len(selected) == 0 {
		return nil, domain.ErrNoDeletablePhotos
	}

	missing := []string{}
	ids := make([]string, 0, len(selected))
	for _, p := range selected {
		ids = append(ids, p.ID)
		if err := s.storage.Delete(ctx, p.URL); err != nil {
			s.log.Warn().Err(err).Str("photo_id", p.ID).Str("file", p.URL).Msg("photo file not removed")
			missing = append(missing, p.URL)
		}
	}

	deleted, err := s.photoRepo.DeleteMany(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("delete photos: %w", err)
	}

	s.log.Info().
		Str("user_id", in.UserID).
		Str("role", in.Role).
		Int64("deleted", deleted).
		Int("missing_files", len(missing)).
		Msg("photos deleted")

	return &ports.DeleteResult{DeletedFromDB: deleted, MissingFiles: missing}, nil
}

func (s *photoService) ListByEvent(ctx context.Context, eventID string) ([]*domain.Photo, error) {
	if !domain.ValidID(eventID) {
		return nil, domain.ErrInvalidID
	}
	return s.photoRepo.FindByEvent(ctx, eventID)
}

func (s *photoService) ListByEventAndUser(ctx context.Context, eventID, userID string) ([]*domain.Photo, error) {
	if !domain.ValidID(eventID) || !domain.ValidID(userID) {
		return nil, domain.ErrInvalidID
	}
	return s.photoRepo.FindByEventAndUser(ctx, eventID, userID)
}

func (s *photoService) Open(ctx context.Context, id string) (*domain.Photo, io.ReadCloser, error) {
	if !domain.ValidID(id) {
		return nil, nil, domain.ErrInvalidID
	}
	photo, err := s.photoRepo.FindByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	rc, err := s.storage.Open(ctx, photo.URL)
	if err != nil {
		return nil, nil, fmt.Errorf("open photo %s: %w", id, err)
	}
	return photo, rc, nil
}
