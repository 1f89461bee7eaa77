package domain

import (
	"context"
	"time"
)

// Event is a gathering announced in a chat. The announcement message is identified by
// (ChatID, MessageID); both are zero until the announcement has been sent.
// swagger:model Event
type Event struct {
	ID           int64     `json:"id"`
	Description  string    `json:"description"`
	MaxAttendees int       `json:"max_attendees"`
	ChatID       int64     `json:"chat_id,omitempty"`
	MessageID    int       `json:"message_id,omitempty"`
	ThreadID     int       `json:"thread_id,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// NewEvent returns a new Event with the given fields. ID is typically set by the repository on create.
func NewEvent(description string, maxAttendees int, chatID int64, threadID int, createdAt time.Time) *Event {
	return &Event{
		Description:  description,
		MaxAttendees: maxAttendees,
		ChatID:       chatID,
		ThreadID:     threadID,
		CreatedAt:    createdAt,
	}
}

// HasAnnouncement reports whether the announcement message is known.
func (e *Event) HasAnnouncement() bool {
	return e.ChatID != 0 && e.MessageID != 0
}

// CleanupResult reports what a cleanup run removed.
type CleanupResult struct {
	DeletedEvents    int64
	DeletedAttendees int64
}

// EventRepository defines the interface for event storage
type EventRepository interface {
	Create(ctx context.Context, event *Event) error
	GetByID(ctx context.Context, id int64) (*Event, error)
	GetByMessage(ctx context.Context, chatID int64, messageID int) (*Event, error)
	SetMessage(ctx context.Context, id, chatID int64, messageID int) error
	UpdateDescription(ctx context.Context, id int64, description string) (*Event, error)
	UpdateMaxAttendees(ctx context.Context, id int64, maxAttendees int) (*Event, error)
	Delete(ctx context.Context, id int64) error
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (CleanupResult, error)
}

// EventService defines event lifecycle operations used by the dispatcher and the cleanup job.
type EventService interface {
	Create(ctx context.Context, description string, maxAttendees int, chatID int64, threadID int) (*Event, error)
	AttachAnnouncement(ctx context.Context, event *Event, chatID int64, messageID int) error
	GetByID(ctx context.Context, id int64) (*Event, error)
	GetByMessage(ctx context.Context, chatID int64, messageID int) (*Event, error)
	UpdateDescription(ctx context.Context, id int64, description string) (*Event, error)
	UpdateMaxAttendees(ctx context.Context, id int64, maxAttendees int) (*Event, error)
	Delete(ctx context.Context, id int64) error
	Cleanup(ctx context.Context, maxAge time.Duration) (CleanupResult, error)
}
