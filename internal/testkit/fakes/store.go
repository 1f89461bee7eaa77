// Package fakes provides in-memory implementations of the domain ports for tests.
package fakes

import (
	"context"
	"slices"
	"sync"
	"time"

	"rsvpbot/internal/domain"
)

// Store keeps events, attendees and admins in memory. Registration work on one event is
// serialized by a per-event mutex, mirroring the row lock the postgres registrar takes.
type Store struct {
	mu             sync.Mutex
	events         map[int64]*domain.Event
	attendees      map[int64][]*domain.Attendee
	admins         map[int64]bool
	eventLocks     map[int64]*sync.Mutex
	nextEventID    int64
	nextAttendeeID int64
	err            error
}

// NewStore returns an empty Store.
func NewStore() *Store {
	return &Store{
		events:     make(map[int64]*domain.Event),
		attendees:  make(map[int64][]*domain.Attendee),
		admins:     make(map[int64]bool),
		eventLocks: make(map[int64]*sync.Mutex),
	}
}

// SetErr makes every store call fail with err until it is reset with nil.
func (s *Store) SetErr(err error) {
	s.mu.Lock()
	s.err = err
	s.mu.Unlock()
}

func (s *Store) failure() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// Events returns the EventRepository view.
func (s *Store) Events() domain.EventRepository { return &eventRepo{s} }

// Attendees returns the AttendeeRepository view.
func (s *Store) Attendees() domain.AttendeeRepository { return &attendeeRepo{s} }

// Registrar returns the Registrar view.
func (s *Store) Registrar() domain.Registrar { return &registrar{s} }

// Admins returns the AdminRepository view.
func (s *Store) Admins() domain.AdminRepository { return &adminRepo{s} }

// SeedEvent stores a copy of e with a fresh id and returns it.
func (s *Store) SeedEvent(e domain.Event) *domain.Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextEventID++
	e.ID = s.nextEventID
	s.events[e.ID] = &e
	out := e
	return &out
}

// Snapshot returns copies of the event's attendee rows in insertion order.
func (s *Store) Snapshot(eventID int64) []domain.Attendee {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Attendee, 0, len(s.attendees[eventID]))
	for _, a := range s.attendees[eventID] {
		out = append(out, *a)
	}
	return out
}

func cloneEvent(e *domain.Event) *domain.Event {
	out := *e
	return &out
}

func cloneAttendees(in []*domain.Attendee) []*domain.Attendee {
	out := make([]*domain.Attendee, 0, len(in))
	for _, a := range in {
		c := *a
		out = append(out, &c)
	}
	return out
}

type eventRepo struct{ s *Store }

func (r *eventRepo) Create(ctx context.Context, e *domain.Event) error {
	if err := r.s.failure(); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.nextEventID++
	e.ID = r.s.nextEventID
	r.s.events[e.ID] = cloneEvent(e)
	return nil
}

func (r *eventRepo) GetByID(ctx context.Context, id int64) (*domain.Event, error) {
	if err := r.s.failure(); err != nil {
		return nil, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	e, ok := r.s.events[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return cloneEvent(e), nil
}

func (r *eventRepo) GetByMessage(ctx context.Context, chatID int64, messageID int) (*domain.Event, error) {
	if err := r.s.failure(); err != nil {
		return nil, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, e := range r.s.events {
		if e.ChatID == chatID && e.MessageID == messageID {
			return cloneEvent(e), nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *eventRepo) SetMessage(ctx context.Context, id, chatID int64, messageID int) error {
	if err := r.s.failure(); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	e, ok := r.s.events[id]
	if !ok {
		return domain.ErrNotFound
	}
	e.ChatID = chatID
	e.MessageID = messageID
	return nil
}

func (r *eventRepo) UpdateDescription(ctx context.Context, id int64, description string) (*domain.Event, error) {
	return r.update(id, func(e *domain.Event) { e.Description = description })
}

func (r *eventRepo) UpdateMaxAttendees(ctx context.Context, id int64, maxAttendees int) (*domain.Event, error) {
	return r.update(id, func(e *domain.Event) { e.MaxAttendees = maxAttendees })
}

func (r *eventRepo) update(id int64, fn func(e *domain.Event)) (*domain.Event, error) {
	if err := r.s.failure(); err != nil {
		return nil, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	e, ok := r.s.events[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	fn(e)
	return cloneEvent(e), nil
}

func (r *eventRepo) Delete(ctx context.Context, id int64) error {
	if err := r.s.failure(); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.events[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.s.events, id)
	delete(r.s.attendees, id)
	return nil
}

func (r *eventRepo) DeleteOlderThan(ctx context.Context, cutoff time.Time) (domain.CleanupResult, error) {
	var res domain.CleanupResult
	if err := r.s.failure(); err != nil {
		return res, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for id, e := range r.s.events {
		if e.CreatedAt.Before(cutoff) {
			res.DeletedAttendees += int64(len(r.s.attendees[id]))
			res.DeletedEvents++
			delete(r.s.attendees, id)
			delete(r.s.events, id)
		}
	}
	return res, nil
}

type attendeeRepo struct{ s *Store }

func (r *attendeeRepo) ListByEvent(ctx context.Context, eventID int64) ([]*domain.Attendee, error) {
	if err := r.s.failure(); err != nil {
		return nil, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return cloneAttendees(r.s.attendees[eventID]), nil
}

func (r *attendeeRepo) ListUserIDs(ctx context.Context, eventID int64) ([]int64, error) {
	if err := r.s.failure(); err != nil {
		return nil, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	ids := make([]int64, 0)
	for _, a := range r.s.attendees[eventID] {
		if a.Kind == domain.SelfRegistered {
			ids = append(ids, a.UserID)
		}
	}
	return ids, nil
}

func (r *attendeeRepo) CountByEvent(ctx context.Context, eventID int64) (int, error) {
	if err := r.s.failure(); err != nil {
		return 0, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return len(r.s.attendees[eventID]), nil
}

type registrar struct{ s *Store }

func (r *registrar) lockFor(eventID int64) *sync.Mutex {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	l, ok := r.s.eventLocks[eventID]
	if !ok {
		l = &sync.Mutex{}
		r.s.eventLocks[eventID] = l
	}
	return l
}

func (r *registrar) WithinEvent(ctx context.Context, eventID int64, fn func(tx domain.RegistrationTx) error) error {
	if err := r.s.failure(); err != nil {
		return err
	}
	lock := r.lockFor(eventID)
	lock.Lock()
	defer lock.Unlock()

	r.s.mu.Lock()
	e, ok := r.s.events[eventID]
	if !ok {
		r.s.mu.Unlock()
		return domain.ErrEventNotFound
	}
	tx := &registrationTx{s: r.s, event: cloneEvent(e), rows: cloneAttendees(r.s.attendees[eventID])}
	r.s.mu.Unlock()

	if err := fn(tx); err != nil {
		return err
	}

	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.events[eventID]; !ok {
		return domain.ErrEventNotFound
	}
	r.s.attendees[eventID] = tx.rows
	return nil
}

// registrationTx works on a private copy of the rows that WithinEvent commits on success.
type registrationTx struct {
	s     *Store
	event *domain.Event
	rows  []*domain.Attendee
}

func (t *registrationTx) Event() *domain.Event { return t.event }

func (t *registrationTx) Count(ctx context.Context) (int, error) {
	return len(t.rows), nil
}

func (t *registrationTx) FindByUser(ctx context.Context, userID int64) (*domain.Attendee, error) {
	for _, a := range t.rows {
		if a.Kind == domain.SelfRegistered && a.UserID == userID {
			c := *a
			return &c, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (t *registrationTx) FindByName(ctx context.Context, name string) ([]*domain.Attendee, error) {
	out := make([]*domain.Attendee, 0)
	for _, a := range t.rows {
		if !a.IsGuest() && a.Name == name {
			c := *a
			out = append(out, &c)
		}
	}
	return out, nil
}

func (t *registrationTx) Insert(ctx context.Context, a *domain.Attendee) error {
	if a.Kind == domain.SelfRegistered {
		for _, row := range t.rows {
			if row.Kind == domain.SelfRegistered && row.UserID == a.UserID {
				return domain.ErrAlreadyRegistered
			}
		}
	}
	t.s.mu.Lock()
	t.s.nextAttendeeID++
	a.ID = t.s.nextAttendeeID
	t.s.mu.Unlock()

	a.EventID = t.event.ID
	c := *a
	t.rows = append(t.rows, &c)
	return nil
}

func (t *registrationTx) DeleteUser(ctx context.Context, userID int64) (int64, error) {
	before := len(t.rows)
	t.rows = slices.DeleteFunc(t.rows, func(a *domain.Attendee) bool {
		return (a.Kind == domain.SelfRegistered && a.UserID == userID) ||
			(a.Kind == domain.Guest && a.SponsorID == userID)
	})
	return int64(before - len(t.rows)), nil
}

func (t *registrationTx) DeleteOneGuest(ctx context.Context, sponsorID int64) (bool, error) {
	for i, a := range t.rows {
		if a.Kind == domain.Guest && a.SponsorID == sponsorID {
			t.rows = slices.Delete(t.rows, i, i+1)
			return true, nil
		}
	}
	return false, nil
}

func (t *registrationTx) DeleteByName(ctx context.Context, name string) (int64, error) {
	var sponsors []int64
	before := len(t.rows)
	t.rows = slices.DeleteFunc(t.rows, func(a *domain.Attendee) bool {
		if a.IsGuest() || a.Name != name {
			return false
		}
		if a.Kind == domain.SelfRegistered {
			sponsors = append(sponsors, a.UserID)
		}
		return true
	})
	t.rows = slices.DeleteFunc(t.rows, func(a *domain.Attendee) bool {
		return a.IsGuest() && slices.Contains(sponsors, a.SponsorID)
	})
	return int64(before - len(t.rows)), nil
}

type adminRepo struct{ s *Store }

func (r *adminRepo) Add(ctx context.Context, userID int64) (bool, error) {
	if err := r.s.failure(); err != nil {
		return false, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.admins[userID] {
		return false, nil
	}
	r.s.admins[userID] = true
	return true, nil
}

func (r *adminRepo) RemoveUnlessLast(ctx context.Context, userID int64) (bool, error) {
	if err := r.s.failure(); err != nil {
		return false, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if !r.s.admins[userID] || len(r.s.admins) <= 1 {
		return false, nil
	}
	delete(r.s.admins, userID)
	return true, nil
}

func (r *adminRepo) Exists(ctx context.Context, userID int64) (bool, error) {
	if err := r.s.failure(); err != nil {
		return false, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.admins[userID], nil
}

func (r *adminRepo) Count(ctx context.Context) (int, error) {
	if err := r.s.failure(); err != nil {
		return 0, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return len(r.s.admins), nil
}
