// Package storage holds the FileStorage drivers: local disk and S3.
package storage

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/photoevents/photo-api/internal/core/ports"
)

// ErrFileNotFound is wrapped by Open and Delete when the object is absent.
var ErrFileNotFound = errors.New("file not found")

// ErrInvalidLocator is returned for locators that escape the storage base.
var ErrInvalidLocator = errors.New("invalid file locator")

const (
	DriverDisk = "disk"
	DriverS3   = "s3"
)

// locatorPrefix is prepended to every stored name; it mirrors the public
// /uploads path the files were historically served from.
const locatorPrefix = "uploads"

// Config selects and configures a driver.
type Config struct {
	Driver string
	Dir    string
	S3     S3Config
}

// New builds the driver named by cfg.Driver.
func New(ctx context.Context, cfg Config) (ports.FileStorage, error) {
	switch strings.ToLower(cfg.Driver) {
	case "", DriverDisk:
		return NewDisk(cfg.Dir), nil
	case DriverS3:
		return NewS3(ctx, cfg.S3)
	default:
		return nil, fmt.Errorf("storage: unknown driver %q", cfg.Driver)
	}
}

// locatorFor returns the locator of a freshly stored name.
func locatorFor(name string) (string, error) {
	if name == "" || strings.ContainsAny(name, `/\`) || name == "." || name == ".." {
		return "", fmt.Errorf("%w: %q", ErrInvalidLocator, name)
	}
	return path.Join(locatorPrefix, name), nil
}

// keyOf validates a locator and returns it in clean form. Locators are always
// relative, slash separated and inside the prefix.
func keyOf(locator string) (string, error) {
	clean := path.Clean(strings.ReplaceAll(locator, `\`, "/"))
	if path.IsAbs(clean) || clean == "." || strings.HasPrefix(clean, "../") || clean == ".." {
		return "", fmt.Errorf("%w: %q", ErrInvalidLocator, locator)
	}
	if !strings.HasPrefix(clean, locatorPrefix+"/") {
		return "", fmt.Errorf("%w: %q", ErrInvalidLocator, locator)
	}
	return clean, nil
}
