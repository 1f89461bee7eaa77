package domain

import (
	"context"
	"fmt"
)

// AttendeeKind tells the three kinds of seat apart.
type AttendeeKind int

const (
	// SelfRegistered is a platform user who pressed the register button.
	SelfRegistered AttendeeKind = iota
	// NameOnly is a player added by an admin without a platform account.
	NameOnly
	// Guest is a +1 brought by a registered user.
	Guest
)

func (k AttendeeKind) String() string {
	switch k {
	case SelfRegistered:
		return "self_registered"
	case NameOnly:
		return "name_only"
	case Guest:
		return "guest"
	default:
		return fmt.Sprintf("AttendeeKind(%d)", int(k))
	}
}

// Attendee is one seat consumed in an event.
// UserID is set only for SelfRegistered rows, SponsorID only for Guest rows.
// swagger:model Attendee
type Attendee struct {
	ID        int64        `json:"id"`
	EventID   int64        `json:"event_id"`
	Kind      AttendeeKind `json:"kind"`
	UserID    int64        `json:"user_id,omitempty"`
	SponsorID int64        `json:"guest_of_user_id,omitempty"`
	Name      string       `json:"name"`
}

// NewSelfRegistered returns an attendee for a platform user.
func NewSelfRegistered(eventID, userID int64, name string) *Attendee {
	return &Attendee{EventID: eventID, Kind: SelfRegistered, UserID: userID, Name: name}
}

// NewNameOnly returns an attendee added by name.
func NewNameOnly(eventID int64, name string) *Attendee {
	return &Attendee{EventID: eventID, Kind: NameOnly, Name: name}
}

// NewGuest returns a guest seat sponsored by sponsorID.
func NewGuest(eventID, sponsorID int64, sponsorName string) *Attendee {
	return &Attendee{EventID: eventID, Kind: Guest, SponsorID: sponsorID, Name: GuestName(sponsorName)}
}

// GuestName is the display name of a guest brought by sponsorName.
func GuestName(sponsorName string) string {
	return sponsorName + "'s +1"
}

// IsGuest reports whether the row is a +1.
func (a *Attendee) IsGuest() bool { return a.Kind == Guest }

// AttendeeRepository defines read access to attendees outside of registration transactions.
type AttendeeRepository interface {
	// ListByEvent returns all attendees, sponsors grouped with their guests.
	ListByEvent(ctx context.Context, eventID int64) ([]*Attendee, error)
	// ListUserIDs returns the platform user ids of self-registered attendees in row order.
	ListUserIDs(ctx context.Context, eventID int64) ([]int64, error)
	CountByEvent(ctx context.Context, eventID int64) (int, error)
}

// RegistrationTx is the view of one event's attendees inside a locked transaction.
type RegistrationTx interface {
	Event() *Event
	Count(ctx context.Context) (int, error)
	FindByUser(ctx context.Context, userID int64) (*Attendee, error)
	// FindByName looks up non-guest rows with exactly this name.
	FindByName(ctx context.Context, name string) ([]*Attendee, error)
	Insert(ctx context.Context, a *Attendee) error
	// DeleteUser removes the user's row and every guest they sponsor.
	DeleteUser(ctx context.Context, userID int64) (int64, error)
	// DeleteOneGuest removes a single guest of sponsorID, unspecified which.
	DeleteOneGuest(ctx context.Context, sponsorID int64) (bool, error)
	// DeleteByName removes non-guest rows with this name and the guests they sponsor.
	DeleteByName(ctx context.Context, name string) (int64, error)
}

// Registrar serializes attendee mutations per event.
type Registrar interface {
	// WithinEvent runs fn while holding an exclusive lock on the event. The changes made
	// through tx are committed when fn returns nil and rolled back otherwise.
	// Returns ErrEventNotFound if the event does not exist.
	WithinEvent(ctx context.Context, eventID int64, fn func(tx RegistrationTx) error) error
}

// RegistrationService enforces capacity, uniqueness and guest accounting.
type RegistrationService interface {
	Register(ctx context.Context, eventID, userID int64, displayName string) error
	Unregister(ctx context.Context, eventID, userID int64) (int64, error)
	AddGuest(ctx context.Context, eventID, userID int64, sponsorDisplayName string) error
	RemoveGuest(ctx context.Context, eventID, userID int64) error
	AddPlayerByName(ctx context.Context, eventID int64, name string) error
	RemovePlayerByName(ctx context.Context, eventID int64, name string) error
}
