package domain

import "errors"

var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrInvalidID          = errors.New("invalid id")
	ErrForbidden          = errors.New("access denied")
	ErrInvalidCredentials = errors.New("invalid credentials")

	ErrUserNotFound = errors.New("user not found")
	ErrUserExists   = errors.New("user already exists")

	ErrEventNotFound = errors.New("event not found")
	ErrPhotoNotFound = errors.New("photo not found")

	ErrEventIDRequired  = errors.New("a valid event_id is required")
	ErrPhotoIDsRequired = errors.New("photo IDs must be provided as an array")
	ErrNoValidPhotoIDs  = errors.New("no valid photo IDs provided")

	ErrNoFiles           = errors.New("no files uploaded")
	ErrTooManyFiles      = errors.New("too many files: at most 100 per upload")
	ErrFileTooLarge      = errors.New("file too large: at most 20MB per file")
	ErrNotAnImage        = errors.New("only image files are allowed")
	ErrNoDeletablePhotos = errors.New("no photos found that you have permission to delete")
	ErrUploadInProgress  = errors.New("another upload to this event is in progress")
)
