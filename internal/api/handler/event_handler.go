package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/photoevents/photo-api/internal/core/ports"
)

// EventHandler handles event CRUD.
type EventHandler struct {
	service ports.EventService
}

func NewEventHandler(service ports.EventService) *EventHandler {
	return &EventHandler{service: service}
}

// parseEventDate accepts a calendar date (YYYY-MM-DD) or an RFC3339 timestamp.
// An empty value yields nil.
func parseEventDate(raw string) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	for _, layout := range []string{time.DateOnly, time.RFC3339} {
		if t, err := time.Parse(layout, raw); err == nil {
			t = t.UTC()
			return &t, nil
		}
	}
	return nil, echo.NewHTTPError(http.StatusBadRequest, "event_date must be YYYY-MM-DD or RFC3339")
}

// Create handles POST /api/events.
//
// @Summary      Create an event
// @Tags         events
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createEventRequest  true  "Event"
// @Success      201   {object}  domain.Event
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Router       /api/events [post]
func (h *EventHandler) Create(c echo.Context) error {
	var req createEventRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	date, err := parseEventDate(req.Date)
	if err != nil {
		return err
	}

	ev, err := h.service.Create(c.Request().Context(), ports.CreateEventInput{Name: req.Name, Date: date})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, ev)
}

// List handles GET /api/events.
//
// @Summary      List events
// @Tags         events
// @Produce      json
// @Success      200  {array}   domain.Event
// @Router       /api/events [get]
func (h *EventHandler) List(c echo.Context) error {
	events, err := h.service.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, events)
}

// Get handles GET /api/events/:id.
//
// @Summary      Get an event
// @Tags         events
// @Produce      json
// @Param        id   path      string  true  "Event id"
// @Success      200  {object}  domain.Event
// @Failure      400  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/events/{id} [get]
func (h *EventHandler) Get(c echo.Context) error {
	ev, err := h.service.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, ev)
}

// Update handles PUT /api/events/:id. Only non-empty fields are applied.
//
// @Summary      Update an event
// @Tags         events
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string              true  "Event id"
// @Param        body  body      updateEventRequest  true  "Fields to change"
// @Success      200   {object}  domain.Event
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /api/events/{id} [put]
func (h *EventHandler) Update(c echo.Context) error {
	var req updateEventRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	date, err := parseEventDate(req.Date)
	if err != nil {
		return err
	}

	in := ports.UpdateEventInput{ID: c.Param("id"), Date: date}
	if req.Name != "" {
		in.Name = &req.Name
	}

	ev, err := h.service.Update(c.Request().Context(), in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, ev)
}

// Delete handles DELETE /api/events/:id. Photos of the event are kept.
//
// @Summary      Delete an event
// @Tags         events
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Event id"
// @Success      200  {object}  messageResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/events/{id} [delete]
func (h *EventHandler) Delete(c echo.Context) error {
	if err := h.service.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Msg: "event removed"})
}
