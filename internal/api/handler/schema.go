package handler

import (
	"github.com/photoevents/photo-api/internal/core/domain"
)

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

type messageResponse struct {
	Msg string `json:"msg"`
}

// --- Auth ---

type registerRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Name     string `json:"name"     validate:"max=100"`
}

type loginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type loginResponse struct {
	Token string `json:"token"`
}

// --- Events ---

// Event dates accept YYYY-MM-DD or RFC3339.
type createEventRequest struct {
	Name string `json:"event_name" validate:"required,notblank"`
	Date string `json:"event_date"`
}

// updateEventRequest fields are optional; empty values leave the event as is.
type updateEventRequest struct {
	Name string `json:"event_name"`
	Date string `json:"event_date"`
}

// --- Photos ---

type uploadResponse struct {
	SavedPhotos        []*domain.Photo `json:"savedPhotos"`
	SkippedPhotosCount int             `json:"skippedPhotosCount"`
	SkippedPhotos      []string        `json:"skippedPhotos"`
}

// deletePhotosRequest keeps photoIds raw so a non-array value can be told
// apart from a malformed body.
type deletePhotosRequest struct {
	PhotoIDs any `json:"photoIds"`
}

type deletePhotosResponse struct {
	Msg               string   `json:"msg"`
	DeletedFromDB     int64    `json:"deletedFromDB"`
	MissingFilesCount int      `json:"missingFilesCount"`
	MissingFiles      []string `json:"missingFiles"`
}
