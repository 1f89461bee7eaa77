package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"rsvpbot/internal/domain"
)

type adminRepository struct {
	DB *sql.DB
}

func NewAdminRepository(db *sql.DB) domain.AdminRepository {
	return &adminRepository{DB: db}
}

func (r *adminRepository) Add(ctx context.Context, userID int64) (bool, error) {
	query := `INSERT INTO admins (user_id) VALUES ($1) ON CONFLICT (user_id) DO NOTHING`
	result, err := r.DB.ExecContext(ctx, query, userID)
	if err != nil {
		return false, err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return rows > 0, nil
}

// RemoveUnlessLast takes a table lock so two concurrent removals cannot empty the set.
func (r *adminRepository) RemoveUnlessLast(ctx context.Context, userID int64) (bool, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("begin remove admin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `LOCK TABLE admins IN SHARE ROW EXCLUSIVE MODE`); err != nil {
		return false, fmt.Errorf("lock admins: %w", err)
	}
	query := `
		DELETE FROM admins
		WHERE user_id = $1 AND (SELECT COUNT(*) FROM admins) > 1
	`
	result, err := tx.ExecContext(ctx, query, userID)
	if err != nil {
		return false, err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("commit remove admin: %w", err)
	}
	return rows > 0, nil
}

func (r *adminRepository) Exists(ctx context.Context, userID int64) (bool, error) {
	var exists bool
	err := r.DB.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM admins WHERE user_id = $1)`, userID).Scan(&exists)
	return exists, err
}

func (r *adminRepository) Count(ctx context.Context) (int, error) {
	var n int
	err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM admins`).Scan(&n)
	return n, err
}
