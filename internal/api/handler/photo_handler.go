package handler

import (
	"errors"
	"io"
	"mime"
	"mime/multipart"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/photoevents/photo-api/internal/api/metrics"
	"github.com/photoevents/photo-api/internal/core/domain"
	"github.com/photoevents/photo-api/internal/core/ports"
)

const (
	formEventID = "event_id"
	formPhotos  = "photos"
)

// PhotoHandler handles photo upload, queries, download and deletion.
type PhotoHandler struct {
	service ports.PhotoService
}

func NewPhotoHandler(service ports.PhotoService) *PhotoHandler {
	return &PhotoHandler{service: service}
}

// Upload handles POST /api/photos (multipart: event_id, photos[]).
//
// @Summary      Upload photos to an event
// @Description  Files the uploader already has in the event (same original name) are skipped.
// @Tags         photos
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        event_id  formData  string  true  "Event id"
// @Param        photos    formData  file    true  "Up to 100 images, 20MB each"
// @Success      201       {object}  uploadResponse
// @Failure      400       {object}  errorResponse
// @Failure      401       {object}  errorResponse
// @Failure      403       {object}  errorResponse
// @Failure      404       {object}  errorResponse
// @Failure      409       {object}  errorResponse
// @Router       /api/photos [post]
func (h *PhotoHandler) Upload(c echo.Context) error {
	userID, _, err := identity(c)
	if err != nil {
		return err
	}

	form, err := c.MultipartForm()
	if err != nil {
		metrics.UploadsRejectedTotal.WithLabelValues("invalid_input").Inc()
		return echo.NewHTTPError(http.StatusBadRequest, "invalid multipart payload")
	}
	defer form.RemoveAll()

	var eventID string
	if v := form.Value[formEventID]; len(v) > 0 {
		eventID = v[0]
	}
	files := toUploadFiles(form.File[formPhotos])
	metrics.UploadBatchSize.Observe(float64(len(files)))

	res, err := h.service.Upload(c.Request().Context(), ports.UploadPhotosInput{
		EventID: eventID,
		UserID:  userID,
		Files:   files,
	})
	if err != nil {
		metrics.UploadsRejectedTotal.WithLabelValues(rejectReason(err)).Inc()
		return err
	}

	metrics.PhotosUploadedTotal.Add(float64(len(res.SavedPhotos)))
	metrics.PhotosSkippedTotal.Add(float64(res.SkippedCount))

	return c.JSON(http.StatusCreated, uploadResponse{
		SavedPhotos:        res.SavedPhotos,
		SkippedPhotosCount: res.SkippedCount,
		SkippedPhotos:      res.Skipped,
	})
}

func toUploadFiles(headers []*multipart.FileHeader) []ports.UploadFile {
	files := make([]ports.UploadFile, 0, len(headers))
	for _, fh := range headers {
		files = append(files, ports.UploadFile{
			Filename:    fh.Filename,
			ContentType: fh.Header.Get(echo.HeaderContentType),
			Size:        fh.Size,
			Open: func() (io.ReadCloser, error) {
				return fh.Open()
			},
		})
	}
	return files
}

func rejectReason(err error) string {
	switch {
	case errors.Is(err, domain.ErrNoFiles):
		return "no_files"
	case errors.Is(err, domain.ErrTooManyFiles):
		return "too_many_files"
	case errors.Is(err, domain.ErrFileTooLarge):
		return "file_too_large"
	case errors.Is(err, domain.ErrNotAnImage):
		return "not_an_image"
	case errors.Is(err, domain.ErrEventNotFound):
		return "event_not_found"
	case errors.Is(err, domain.ErrEventIDRequired):
		return "invalid_input"
	case errors.Is(err, domain.ErrUploadInProgress):
		return "in_progress"
	default:
		return "error"
	}
}

// ListByEvent handles GET /api/photos/event/:eventId.
//
// @Summary      List photos of an event
// @Tags         photos
// @Produce      json
// @Param        eventId  path      string  true  "Event id"
// @Success      200      {array}   domain.Photo
// @Failure      400      {object}  errorResponse
// @Router       /api/photos/event/{eventId} [get]
func (h *PhotoHandler) ListByEvent(c echo.Context) error {
	photos, err := h.service.ListByEvent(c.Request().Context(), c.Param("eventId"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, photos)
}

// ListByEventAndPhotographer handles GET /api/photos/event/:eventId/photographer/:userId.
//
// @Summary      List photos of one photographer in an event
// @Tags         photos
// @Produce      json
// @Param        eventId  path      string  true  "Event id"
// @Param        userId   path      string  true  "Photographer id"
// @Success      200      {array}   domain.Photo
// @Failure      400      {object}  errorResponse
// @Router       /api/photos/event/{eventId}/photographer/{userId} [get]
func (h *PhotoHandler) ListByEventAndPhotographer(c echo.Context) error {
	photos, err := h.service.ListByEventAndUser(c.Request().Context(), c.Param("eventId"), c.Param("userId"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, photos)
}

// Download handles GET /api/photos/:id/file.
//
// @Summary      Download a photo
// @Tags         photos
// @Produce      octet-stream
// @Param        id   path      string  true  "Photo id"
// @Success      200  {file}    binary
// @Failure      404  {object}  errorResponse
// @Router       /api/photos/{id}/file [get]
func (h *PhotoHandler) Download(c echo.Context) error {
	photo, rc, err := h.service.Open(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	defer rc.Close()

	contentType := photo.ContentType
	if contentType == "" {
		contentType = echo.MIMEOctetStream
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, mimeDisposition(photo.OriginalName))
	return c.Stream(http.StatusOK, contentType, rc)
}

// Delete handles DELETE /api/photos.
//
// @Summary      Delete photos
// @Description  Photographers may delete only their own photos; ids of others are ignored.
// @Tags         photos
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      deletePhotosRequest  true  "Photo ids"
// @Success      200   {object}  deletePhotosResponse
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /api/photos [delete]
func (h *PhotoHandler) Delete(c echo.Context) error {
	return h.delete(c, "")
}

// DeleteInEvent handles DELETE /api/photos/event/:eventId.
//
// @Summary      Delete photos within one event
// @Tags         photos
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        eventId  path      string               true  "Event id"
// @Param        body     body      deletePhotosRequest  true  "Photo ids"
// @Success      200      {object}  deletePhotosResponse
// @Failure      400      {object}  errorResponse
// @Failure      403      {object}  errorResponse
// @Failure      404      {object}  errorResponse
// @Router       /api/photos/event/{eventId} [delete]
func (h *PhotoHandler) DeleteInEvent(c echo.Context) error {
	return h.delete(c, c.Param("eventId"))
}

func (h *PhotoHandler) delete(c echo.Context, eventID string) error {
	userID, role, err := identity(c)
	if err != nil {
		return err
	}

	var req deletePhotosRequest
	if err := c.Bind(&req); err != nil {
		return domain.ErrPhotoIDsRequired
	}

	res, err := h.service.Delete(c.Request().Context(), ports.DeletePhotosInput{
		PhotoIDs: photoIDs(req.PhotoIDs),
		UserID:   userID,
		Role:     role,
		EventID:  eventID,
	})
	if err != nil {
		return err
	}

	metrics.PhotosDeletedTotal.Add(float64(res.DeletedFromDB))
	metrics.FileRemovalFailuresTotal.Add(float64(len(res.MissingFiles)))

	return c.JSON(http.StatusOK, deletePhotosResponse{
		Msg:               "photos removed",
		DeletedFromDB:     res.DeletedFromDB,
		MissingFilesCount: len(res.MissingFiles),
		MissingFiles:      res.MissingFiles,
	})
}

func mimeDisposition(filename string) string {
	if filename == "" {
		return "inline"
	}
	if v := mime.FormatMediaType("inline", map[string]string{"filename": filename}); v != "" {
		return v
	}
	return "inline"
}

// photoIDs flattens the decoded photoIds value. Anything but an array yields
// nil; non-string elements become empty ids, which the service drops as
// malformed.
func photoIDs(raw any) []string {
	items, ok := raw.([]any)
	if !ok {
		return nil
	}
	ids := make([]string, 0, len(items))
	for _, it := range items {
		s, _ := it.(string)
		ids = append(ids, s)
	}
	return ids
}
