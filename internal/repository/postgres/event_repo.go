package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"rsvpbot/internal/domain"
)

const eventColumns = `id, description, max_attendees, chat_id, message_id, thread_id, created_at`

type eventRepository struct {
	DB *sql.DB
}

func NewEventRepository(db *sql.DB) domain.EventRepository {
	return &eventRepository{
		DB: db,
	}
}

func scanEvent(row rowScanner) (*domain.Event, error) {
	e := &domain.Event{}
	var chatID, messageID, threadID sql.NullInt64
	if err := row.Scan(&e.ID, &e.Description, &e.MaxAttendees, &chatID, &messageID, &threadID, &e.CreatedAt); err != nil {
		return nil, err
	}
	e.ChatID = chatID.Int64
	e.MessageID = int(messageID.Int64)
	e.ThreadID = int(threadID.Int64)
	return e, nil
}

func (r *eventRepository) Create(ctx context.Context, e *domain.Event) error {
	query := `
		INSERT INTO events (description, max_attendees, chat_id, thread_id, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`
	return r.DB.QueryRowContext(ctx, query, e.Description, e.MaxAttendees, nullInt64(e.ChatID), nullInt64(int64(e.ThreadID)), e.CreatedAt).
		Scan(&e.ID)
}

func (r *eventRepository) GetByID(ctx context.Context, id int64) (*domain.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE id = $1`
	e, err := scanEvent(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return e, nil
}

func (r *eventRepository) GetByMessage(ctx context.Context, chatID int64, messageID int) (*domain.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE chat_id = $1 AND message_id = $2`
	e, err := scanEvent(r.DB.QueryRowContext(ctx, query, chatID, messageID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return e, nil
}

func (r *eventRepository) SetMessage(ctx context.Context, id, chatID int64, messageID int) error {
	query := `UPDATE events SET chat_id = $1, message_id = $2 WHERE id = $3`
	result, err := r.DB.ExecContext(ctx, query, chatID, messageID, id)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *eventRepository) UpdateDescription(ctx context.Context, id int64, description string) (*domain.Event, error) {
	query := `UPDATE events SET description = $1 WHERE id = $2 RETURNING ` + eventColumns
	e, err := scanEvent(r.DB.QueryRowContext(ctx, query, description, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return e, nil
}

func (r *eventRepository) UpdateMaxAttendees(ctx context.Context, id int64, maxAttendees int) (*domain.Event, error) {
	query := `UPDATE events SET max_attendees = $1 WHERE id = $2 RETURNING ` + eventColumns
	e, err := scanEvent(r.DB.QueryRowContext(ctx, query, maxAttendees, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return e, nil
}

func (r *eventRepository) Delete(ctx context.Context, id int64) error {
	query := `DELETE FROM events WHERE id = $1`
	result, err := r.DB.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// DeleteOlderThan removes events created before cutoff together with their attendees.
func (r *eventRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (domain.CleanupResult, error) {
	var res domain.CleanupResult

	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return res, fmt.Errorf("begin cleanup: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx,
		`DELETE FROM attendees WHERE event_id IN (SELECT id FROM events WHERE created_at < $1)`, cutoff)
	if err != nil {
		return res, fmt.Errorf("delete attendees: %w", err)
	}
	if res.DeletedAttendees, err = result.RowsAffected(); err != nil {
		return res, fmt.Errorf("count deleted attendees: %w", err)
	}

	result, err = tx.ExecContext(ctx, `DELETE FROM events WHERE created_at < $1`, cutoff)
	if err != nil {
		return res, fmt.Errorf("delete events: %w", err)
	}
	if res.DeletedEvents, err = result.RowsAffected(); err != nil {
		return res, fmt.Errorf("count deleted events: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return domain.CleanupResult{}, fmt.Errorf("commit cleanup: %w", err)
	}
	return res, nil
}
