package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/photoevents/photo-api/internal/core/domain"
	"github.com/photoevents/photo-api/internal/infrastructure/storage"
)

// errorResponse is the canonical error envelope for all API errors.
type errorResponse struct {
	Error string `json:"error"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps known domain errors to their appropriate HTTP status codes.
//   - Logs unexpected errors internally without leaking details to the client.
//   - Renders a consistent JSON envelope: {"error": "<message>"}.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, msg := resolveError(err, log, c)
		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(code)
			return
		}
		_ = c.JSON(code, errorResponse{Error: msg})
	}
}

// badRequestErrors render their own message with a 400.
var badRequestErrors = []error{
	domain.ErrEventIDRequired,
	domain.ErrPhotoIDsRequired,
	domain.ErrNoValidPhotoIDs,
	domain.ErrNoFiles,
	domain.ErrTooManyFiles,
	domain.ErrFileTooLarge,
	domain.ErrNotAnImage,
	domain.ErrInvalidCredentials,
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, string) {
	// Echo's own errors (bind failures, 404 from router, body limit, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, fmt.Sprintf("%v", he.Message)
	}

	for _, target := range badRequestErrors {
		if errors.Is(err, target) {
			return http.StatusBadRequest, target.Error()
		}
	}

	// Known domain errors → deterministic HTTP codes.
	switch {
	case errors.Is(err, domain.ErrInvalidID):
		return http.StatusBadRequest, "invalid id"
	case errors.Is(err, domain.ErrInvalidInput):
		return http.StatusBadRequest, "invalid input"
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, "access denied"
	case errors.Is(err, domain.ErrUserNotFound):
		return http.StatusNotFound, "user not found"
	case errors.Is(err, domain.ErrUserExists):
		return http.StatusConflict, "user already exists"
	case errors.Is(err, domain.ErrEventNotFound):
		return http.StatusNotFound, "event not found"
	case errors.Is(err, domain.ErrPhotoNotFound):
		return http.StatusNotFound, "photo not found"
	case errors.Is(err, domain.ErrNoDeletablePhotos):
		return http.StatusNotFound, domain.ErrNoDeletablePhotos.Error()
	case errors.Is(err, domain.ErrUploadInProgress):
		return http.StatusConflict, domain.ErrUploadInProgress.Error()
	case errors.Is(err, storage.ErrFileNotFound):
		log.Warn().Err(err).Str("path", c.Path()).Msg("photo record without stored file")
		return http.StatusNotFound, "file not found"
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, "internal server error"
}
