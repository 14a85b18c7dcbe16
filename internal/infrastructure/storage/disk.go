package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
)

// DiskStorage keeps files under BasePath. A locator "uploads/<name>" maps to
// BasePath/<name>.
type DiskStorage struct {
	BasePath string

	dirMutex sync.Mutex
	dirReady bool
}

func NewDisk(basePath string) *DiskStorage {
	if basePath == "" {
		basePath = locatorPrefix
	}
	return &DiskStorage{BasePath: basePath}
}

// ensureDir creates the base directory on first use. A failure is retried on
// the next call.
func (s *DiskStorage) ensureDir() error {
	s.dirMutex.Lock()
	defer s.dirMutex.Unlock()

	if s.dirReady {
		return nil
	}
	if err := os.MkdirAll(s.BasePath, 0o755); err != nil {
		return err
	}
	s.dirReady = true
	return nil
}

func (s *DiskStorage) fullPath(locator string) (string, error) {
	key, err := keyOf(locator)
	if err != nil {
		return "", err
	}
	rel := key[len(locatorPrefix)+1:]
	return filepath.Join(s.BasePath, filepath.FromSlash(rel)), nil
}

// Save writes r to a new file. A partially written file is removed on error.
func (s *DiskStorage) Save(ctx context.Context, name string, r io.Reader, _ int64, _ string) (string, error) {
	locator, err := locatorFor(name)
	if err != nil {
		return "", err
	}
	if err := s.ensureDir(); err != nil {
		return "", fmt.Errorf("disk storage: create dir: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	full, _ := s.fullPath(locator)
	file, err := os.OpenFile(full, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("disk storage: create %s: %w", name, err)
	}

	_, copyErr := io.Copy(file, r)
	closeErr := file.Close()
	if copyErr != nil || closeErr != nil {
		_ = os.Remove(full)
		if copyErr != nil {
			return "", fmt.Errorf("disk storage: write %s: %w", name, copyErr)
		}
		return "", fmt.Errorf("disk storage: close %s: %w", name, closeErr)
	}
	return locator, nil
}

func (s *DiskStorage) Open(_ context.Context, locator string) (io.ReadCloser, error) {
	full, err := s.fullPath(locator)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(full)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrFileNotFound, locator)
		}
		return nil, fmt.Errorf("disk storage: open %s: %w", locator, err)
	}
	return f, nil
}

func (s *DiskStorage) Delete(_ context.Context, locator string) error {
	full, err := s.fullPath(locator)
	if err != nil {
		return err
	}
	if err := os.Remove(full); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: %s", ErrFileNotFound, locator)
		}
		return fmt.Errorf("disk storage: remove %s: %w", locator, err)
	}
	return nil
}

// Ping checks that the base directory exists (creating it if needed) and is
// a directory.
func (s *DiskStorage) Ping(_ context.Context) error {
	if err := s.ensureDir(); err != nil {
		return err
	}
	info, err := os.Stat(s.BasePath)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("disk storage: %s is not a directory", s.BasePath)
	}
	return nil
}
