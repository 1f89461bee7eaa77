package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"rsvpbot/internal/domain"
	"rsvpbot/internal/roster"
)

type rosterService struct {
	attendeeRepo   domain.AttendeeRepository
	messenger      domain.Messenger
	logger         *slog.Logger
	contextTimeout time.Duration

	// refreshes holds one mutex per event id so edits of one announcement never interleave.
	refreshes sync.Map
}

// NewRosterService creates a RosterService that edits announcements through messenger.
func NewRosterService(attendeeRepo domain.AttendeeRepository, messenger domain.Messenger, logger *slog.Logger, timeout time.Duration) domain.RosterService {
	return &rosterService{
		attendeeRepo:   attendeeRepo,
		messenger:      messenger,
		logger:         logger,
		contextTimeout: timeout,
	}
}

func (s *rosterService) Render(ctx context.Context, event *domain.Event) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	attendees, err := s.attendeeRepo.ListByEvent(ctx, event.ID)
	if err != nil {
		return "", fmt.Errorf("list attendees: %w", err)
	}

	var ids []int64
	for _, a := range attendees {
		if a.Kind == domain.SelfRegistered {
			ids = append(ids, a.UserID)
		}
	}
	usernames := make(map[int64]string, len(ids))
	for i, u := range resolveMembers(ctx, s.messenger, s.logger, event.ChatID, ids) {
		if u != nil && u.Username != "" {
			usernames[ids[i]] = u.Username
		}
	}

	return roster.Compose(event.Description, roster.Format(attendees, usernames)), nil
}

func (s *rosterService) Refresh(ctx context.Context, event *domain.Event) {
	log := s.logger.With("event_id", event.ID)
	if !event.HasAnnouncement() {
		log.WarnContext(ctx, "event has no announcement message, skipping refresh")
		return
	}

	mu := s.refreshLock(event.ID)
	mu.Lock()
	defer mu.Unlock()

	text, err := s.Render(ctx, event)
	if err != nil {
		log.ErrorContext(ctx, "render roster", "error", err)
		return
	}

	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()
	if err := s.messenger.EditMessageText(ctx, event.ChatID, event.MessageID, text, roster.Keyboard(event.ID)); err != nil {
		log.ErrorContext(ctx, "edit announcement", "chat_id", event.ChatID, "message_id", event.MessageID, "error", err)
		return
	}
	log.DebugContext(ctx, "roster refreshed")
}

func (s *rosterService) refreshLock(eventID int64) *sync.Mutex {
	mu, _ := s.refreshes.LoadOrStore(eventID, &sync.Mutex{})
	return mu.(*sync.Mutex)
}
