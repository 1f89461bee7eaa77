package domain

import "errors"

// ErrNotFound is returned by repositories when a row does not exist.
var ErrNotFound = errors.New("not found")

// Registration outcomes. The dispatcher maps each one to a user-facing reply.
var (
	ErrEventNotFound     = errors.New("event not found")
	ErrAlreadyRegistered = errors.New("already registered")
	ErrEventFull         = errors.New("event is full")
	ErrNotRegistered     = errors.New("not registered")
	ErrNoGuest           = errors.New("no guest to remove")
	ErrAlreadyInList     = errors.New("player already in list")
	ErrNotInList         = errors.New("player not in list")
)

// Admin outcomes.
var (
	ErrAlreadyAdmin = errors.New("already an admin")
	ErrNotAdmin     = errors.New("not an admin")
	ErrLastAdmin    = errors.New("cannot remove the last admin")
)

// ErrNoRecipients is returned by Notifier when nobody can be mentioned.
var ErrNoRecipients = errors.New("no attendees with platform accounts")

// ErrInvalidInput is returned when arguments fail validation before reaching the store.
var ErrInvalidInput = errors.New("invalid input")
