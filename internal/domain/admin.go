package domain

import "context"

// Admin is a platform user allowed to run admin commands.
type Admin struct {
	ID     int64 `json:"id"`
	UserID int64 `json:"user_id"`
}

// AdminRepository defines the interface for admin storage
type AdminRepository interface {
	// Add inserts the admin; returns false if the user already was one.
	Add(ctx context.Context, userID int64) (bool, error)
	// RemoveUnlessLast deletes the admin unless it is the only one left.
	// Returns false when nothing was removed.
	RemoveUnlessLast(ctx context.Context, userID int64) (bool, error)
	Exists(ctx context.Context, userID int64) (bool, error)
	Count(ctx context.Context) (int, error)
}

// AdminService manages the admin set.
type AdminService interface {
	Add(ctx context.Context, userID int64) error
	Remove(ctx context.Context, userID int64) error
	IsAdmin(ctx context.Context, userID int64) (bool, error)
}
