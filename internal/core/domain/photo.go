package domain

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	// MaxFilesPerUpload bounds a single upload batch.
	MaxFilesPerUpload = 100
	// MaxFileSize bounds a single uploaded file (20 MiB).
	MaxFileSize int64 = 20 << 20
)

// Photo is a stored image tied to one event and one uploader.
// URL is the storage locator relative to the storage base.
type Photo struct {
	ID           string    `json:"id"`
	EventID      string    `json:"event_id"`
	UserID       string    `json:"user_id"`
	URL          string    `json:"url"`
	OriginalName string    `json:"originalName"`
	ContentType  string    `json:"content_type,omitempty"`
	Size         int64     `json:"size,omitempty"`
	UploadedAt   time.Time `json:"uploaded_at"`
}

// OwnedBy reports whether userID uploaded the photo.
func (p *Photo) OwnedBy(userID string) bool {
	return p.UserID == userID
}

var storedExt = regexp.MustCompile(`^\.[a-z0-9]{1,10}$`)

// StoredFileName returns the name a new upload is stored under:
// <unix-millis>-<uuid><ext>, ext being the lowercased extension of original.
// Extensions that are not short and alphanumeric are dropped.
func StoredFileName(original string, at time.Time) string {
	ext := strings.ToLower(filepath.Ext(filepath.Base(original)))
	if !storedExt.MatchString(ext) {
		ext = ""
	}
	return fmt.Sprintf("%d-%s%s", at.UnixMilli(), uuid.NewString(), ext)
}
