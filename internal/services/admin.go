package services

import (
	"context"
	"fmt"
	"time"

	"rsvpbot/internal/domain"
)

type adminService struct {
	adminRepo      domain.AdminRepository
	contextTimeout time.Duration
}

// NewAdminService creates an AdminService.
func NewAdminService(adminRepo domain.AdminRepository, timeout time.Duration) domain.AdminService {
	return &adminService{
		adminRepo:      adminRepo,
		contextTimeout: timeout,
	}
}

func (s *adminService) Add(ctx context.Context, userID int64) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	added, err := s.adminRepo.Add(ctx, userID)
	if err != nil {
		return fmt.Errorf("add admin: %w", err)
	}
	if !added {
		return domain.ErrAlreadyAdmin
	}
	return nil
}

// Remove refuses to remove the only remaining admin.
func (s *adminService) Remove(ctx context.Context, userID int64) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	exists, err := s.adminRepo.Exists(ctx, userID)
	if err != nil {
		return fmt.Errorf("check admin: %w", err)
	}
	if !exists {
		return domain.ErrNotAdmin
	}
	removed, err := s.adminRepo.RemoveUnlessLast(ctx, userID)
	if err != nil {
		return fmt.Errorf("remove admin: %w", err)
	}
	if !removed {
		// The row existed a moment ago, so the conditional delete was refused.
		return domain.ErrLastAdmin
	}
	return nil
}

func (s *adminService) IsAdmin(ctx context.Context, userID int64) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	ok, err := s.adminRepo.Exists(ctx, userID)
	if err != nil {
		return false, fmt.Errorf("check admin: %w", err)
	}
	return ok, nil
}
