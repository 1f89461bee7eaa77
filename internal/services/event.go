package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"rsvpbot/internal/domain"
)

type eventService struct {
	eventRepo      domain.EventRepository
	now            func() time.Time
	contextTimeout time.Duration
}

// NewEventService creates an EventService.
func NewEventService(eventRepo domain.EventRepository, timeout time.Duration) domain.EventService {
	return &eventService{
		eventRepo:      eventRepo,
		now:            time.Now,
		contextTimeout: timeout,
	}
}

func (s *eventService) Create(ctx context.Context, description string, maxAttendees int, chatID int64, threadID int) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	description = strings.TrimSpace(description)
	if maxAttendees <= 0 {
		return nil, fmt.Errorf("max attendees must be positive: %w", domain.ErrInvalidInput)
	}

	event := domain.NewEvent(description, maxAttendees, chatID, threadID, s.now().UTC())
	if err := s.eventRepo.Create(ctx, event); err != nil {
		return nil, fmt.Errorf("create event: %w", err)
	}
	return event, nil
}

func (s *eventService) AttachAnnouncement(ctx context.Context, event *domain.Event, chatID int64, messageID int) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if err := s.eventRepo.SetMessage(ctx, event.ID, chatID, messageID); err != nil {
		return fmt.Errorf("set announcement: %w", err)
	}
	event.ChatID = chatID
	event.MessageID = messageID
	return nil
}

func (s *eventService) GetByID(ctx context.Context, id int64) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.eventRepo.GetByID(ctx, id)
	if err != nil {
		return nil, mapEventErr("get event", err)
	}
	return event, nil
}

func (s *eventService) GetByMessage(ctx context.Context, chatID int64, messageID int) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.eventRepo.GetByMessage(ctx, chatID, messageID)
	if err != nil {
		return nil, mapEventErr("get event by message", err)
	}
	return event, nil
}

func (s *eventService) UpdateDescription(ctx context.Context, id int64, description string) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	description = strings.TrimSpace(description)
	if description == "" {
		return nil, fmt.Errorf("empty description: %w", domain.ErrInvalidInput)
	}
	event, err := s.eventRepo.UpdateDescription(ctx, id, description)
	if err != nil {
		return nil, mapEventErr("update description", err)
	}
	return event, nil
}

// UpdateMaxAttendees changes capacity only. Existing attendees above the new limit stay.
func (s *eventService) UpdateMaxAttendees(ctx context.Context, id int64, maxAttendees int) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if maxAttendees <= 0 {
		return nil, fmt.Errorf("max attendees must be positive: %w", domain.ErrInvalidInput)
	}
	event, err := s.eventRepo.UpdateMaxAttendees(ctx, id, maxAttendees)
	if err != nil {
		return nil, mapEventErr("update max attendees", err)
	}
	return event, nil
}

func (s *eventService) Delete(ctx context.Context, id int64) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if err := s.eventRepo.Delete(ctx, id); err != nil {
		return mapEventErr("delete event", err)
	}
	return nil
}

// Cleanup removes events created more than maxAge ago together with their attendees.
func (s *eventService) Cleanup(ctx context.Context, maxAge time.Duration) (domain.CleanupResult, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	cutoff := s.now().Add(-maxAge)
	res, err := s.eventRepo.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		return domain.CleanupResult{}, fmt.Errorf("delete old events: %w", err)
	}
	return res, nil
}

func mapEventErr(op string, err error) error {
	if errors.Is(err, domain.ErrNotFound) {
		return domain.ErrEventNotFound
	}
	return fmt.Errorf("%s: %w", op, err)
}
