package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/text/unicode/norm"

	"rsvpbot/internal/domain"
)

// NormalizeName trims surrounding space and converts to Unicode NFC so that visually
// identical names compare equal.
func NormalizeName(name string) string {
	return norm.NFC.String(strings.TrimSpace(name))
}

type registrationService struct {
	registrar      domain.Registrar
	contextTimeout time.Duration
}

// NewRegistrationService creates a RegistrationService on top of the given Registrar.
func NewRegistrationService(registrar domain.Registrar, timeout time.Duration) domain.RegistrationService {
	return &registrationService{
		registrar:      registrar,
		contextTimeout: timeout,
	}
}

func (s *registrationService) within(ctx context.Context, eventID int64, fn func(tx domain.RegistrationTx) error) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()
	return s.registrar.WithinEvent(ctx, eventID, fn)
}

// findRegistered returns the user's own row or ErrNotRegistered.
func findRegistered(ctx context.Context, tx domain.RegistrationTx, userID int64) (*domain.Attendee, error) {
	a, err := tx.FindByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotRegistered
		}
		return nil, fmt.Errorf("find attendee: %w", err)
	}
	return a, nil
}

func ensureCapacity(ctx context.Context, tx domain.RegistrationTx) error {
	n, err := tx.Count(ctx)
	if err != nil {
		return fmt.Errorf("count attendees: %w", err)
	}
	if n >= tx.Event().MaxAttendees {
		return domain.ErrEventFull
	}
	return nil
}

func (s *registrationService) Register(ctx context.Context, eventID, userID int64, displayName string) error {
	name := NormalizeName(displayName)
	return s.within(ctx, eventID, func(tx domain.RegistrationTx) error {
		if _, err := tx.FindByUser(ctx, userID); err == nil {
			return domain.ErrAlreadyRegistered
		} else if !errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("find attendee: %w", err)
		}
		if err := ensureCapacity(ctx, tx); err != nil {
			return err
		}
		if err := tx.Insert(ctx, domain.NewSelfRegistered(eventID, userID, name)); err != nil {
			if errors.Is(err, domain.ErrAlreadyRegistered) {
				return err
			}
			return fmt.Errorf("insert attendee: %w", err)
		}
		return nil
	})
}

func (s *registrationService) Unregister(ctx context.Context, eventID, userID int64) (int64, error) {
	var removed int64
	err := s.within(ctx, eventID, func(tx domain.RegistrationTx) error {
		if _, err := findRegistered(ctx, tx, userID); err != nil {
			return err
		}
		n, err := tx.DeleteUser(ctx, userID)
		if err != nil {
			return fmt.Errorf("delete attendee: %w", err)
		}
		removed = n
		return nil
	})
	return removed, err
}

func (s *registrationService) AddGuest(ctx context.Context, eventID, userID int64, sponsorDisplayName string) error {
	return s.within(ctx, eventID, func(tx domain.RegistrationTx) error {
		sponsor, err := findRegistered(ctx, tx, userID)
		if err != nil {
			return err
		}
		if err := ensureCapacity(ctx, tx); err != nil {
			return err
		}
		name := NormalizeName(sponsorDisplayName)
		if name == "" {
			name = sponsor.Name
		}
		if err := tx.Insert(ctx, domain.NewGuest(eventID, userID, name)); err != nil {
			return fmt.Errorf("insert guest: %w", err)
		}
		return nil
	})
}

func (s *registrationService) RemoveGuest(ctx context.Context, eventID, userID int64) error {
	return s.within(ctx, eventID, func(tx domain.RegistrationTx) error {
		ok, err := tx.DeleteOneGuest(ctx, userID)
		if err != nil {
			return fmt.Errorf("delete guest: %w", err)
		}
		if !ok {
			return domain.ErrNoGuest
		}
		return nil
	})
}

// AddPlayerByName adds a name-only row. There is no capacity check: admins may overbook.
func (s *registrationService) AddPlayerByName(ctx context.Context, eventID int64, name string) error {
	name = NormalizeName(name)
	if name == "" {
		return domain.ErrInvalidInput
	}
	return s.within(ctx, eventID, func(tx domain.RegistrationTx) error {
		existing, err := tx.FindByName(ctx, name)
		if err != nil {
			return fmt.Errorf("find by name: %w", err)
		}
		if len(existing) > 0 {
			return domain.ErrAlreadyInList
		}
		if err := tx.Insert(ctx, domain.NewNameOnly(eventID, name)); err != nil {
			return fmt.Errorf("insert player: %w", err)
		}
		return nil
	})
}

func (s *registrationService) RemovePlayerByName(ctx context.Context, eventID int64, name string) error {
	name = NormalizeName(name)
	if name == "" {
		return domain.ErrInvalidInput
	}
	return s.within(ctx, eventID, func(tx domain.RegistrationTx) error {
		n, err := tx.DeleteByName(ctx, name)
		if err != nil {
			return fmt.Errorf("delete by name: %w", err)
		}
		if n == 0 {
			return domain.ErrNotInList
		}
		return nil
	})
}
