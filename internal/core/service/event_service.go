package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/photoevents/photo-api/internal/core/domain"
	"github.com/photoevents/photo-api/internal/core/ports"
)

type eventService struct {
	eventRepo ports.EventRepository
	photoRepo ports.PhotoRepository
	log       zerolog.Logger
}

// NewEventService returns an EventService implementation.
func NewEventService(eventRepo ports.EventRepository, photoRepo ports.PhotoRepository, log zerolog.Logger) ports.EventService {
	return &eventService{
		eventRepo: eventRepo,
		photoRepo: photoRepo,
		log:       log,
	}
}

func (s *eventService) Create(ctx context.Context, in ports.CreateEventInput) (*domain.Event, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, fmt.Errorf("create event: %w", domain.ErrInvalidInput)
	}

	created, err := s.eventRepo.Create(ctx, &domain.Event{Name: name, Date: in.Date, UserIDs: []string{}})
	if err != nil {
		return nil, fmt.Errorf("create event: %w", err)
	}
	s.log.Info().Str("event_id", created.ID).Str("event_name", created.Name).Msg("event created")
	return created, nil
}

func (s *eventService) Get(ctx context.Context, id string) (*domain.Event, error) {
	if !domain.ValidID(id) {
		return nil, domain.ErrInvalidID
	}
	return s.eventRepo.FindByID(ctx, id)
}

func (s *eventService) List(ctx context.Context) ([]*domain.Event, error) {
	events, err := s.eventRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	return events, nil
}

// Update replaces only the provided fields. An empty name is ignored rather
// than clearing the event name.
func (s *eventService) Update(ctx context.Context, in ports.UpdateEventInput) (*domain.Event, error) {
	if !domain.ValidID(in.ID) {
		return nil, domain.ErrInvalidID
	}

	var upd ports.EventUpdate
	if in.Name != nil {
		if name := strings.TrimSpace(*in.Name); name != "" {
			upd.Name = &name
		}
	}
	upd.Date = in.Date

	if upd.Name == nil && upd.Date == nil {
		return s.eventRepo.FindByID(ctx, in.ID)
	}

	updated, err := s.eventRepo.Update(ctx, in.ID, upd)
	if err != nil {
		return nil, fmt.Errorf("update event: %w", err)
	}
	s.log.Info().Str("event_id", updated.ID).Msg("event updated")
	return updated, nil
}

// Delete removes the event record only. Photos of the event stay in place and
// are reported as orphaned.
func (s *eventService) Delete(ctx context.Context, id string) error {
	if !domain.ValidID(id) {
		return domain.ErrInvalidID
	}

	if err := s.eventRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete event: %w", err)
	}

	orphans, err := s.photoRepo.CountByEvent(ctx, id)
	switch {
	case err != nil:
		s.log.Warn().Err(err).Str("event_id", id).Msg("could not count photos of deleted event")
	case orphans > 0:
		s.log.Warn().Str("event_id", id).Int64("orphaned_photos", orphans).Msg("event deleted with photos still attached")
	default:
		s.log.Info().Str("event_id", id).Msg("event deleted")
	}
	return nil
}
