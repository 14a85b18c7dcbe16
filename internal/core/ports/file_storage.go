package ports

import (
	"context"
	"io"
)

// FileStorage persists uploaded binaries. A locator returned by Save is the
// only handle callers keep; it is stored verbatim as Photo.URL.
type FileStorage interface {
	Save(ctx context.Context, name string, r io.Reader, size int64, contentType string) (locator string, err error)
	Open(ctx context.Context, locator string) (io.ReadCloser, error)
	// Delete removes the file behind locator. A missing file yields an error
	// wrapping storage.ErrFileNotFound.
	Delete(ctx context.Context, locator string) error
	Ping(ctx context.Context) error
}
