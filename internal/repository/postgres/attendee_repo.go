package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"rsvpbot/internal/domain"
)

// uniqueViolation is the postgres SQLSTATE for unique_violation.
const uniqueViolation = "23505"

const attendeeColumns = `id, event_id, user_id, name, guest_of_user_id`

// Sponsors first, each followed by their guests; name-only rows (NULL key) sort last.
const attendeeOrder = `ORDER BY COALESCE(guest_of_user_id, user_id), CASE WHEN guest_of_user_id IS NULL THEN 0 ELSE 1 END, id`

func scanAttendee(row rowScanner) (*domain.Attendee, error) {
	a := &domain.Attendee{}
	var userID, sponsorID sql.NullInt64
	if err := row.Scan(&a.ID, &a.EventID, &userID, &a.Name, &sponsorID); err != nil {
		return nil, err
	}
	switch {
	case sponsorID.Valid:
		a.Kind = domain.Guest
		a.SponsorID = sponsorID.Int64
	case userID.Valid:
		a.Kind = domain.SelfRegistered
		a.UserID = userID.Int64
	default:
		a.Kind = domain.NameOnly
	}
	return a, nil
}

// attendeeArgs flattens the variant into the nullable user_id / guest_of_user_id columns.
func attendeeArgs(a *domain.Attendee) (userID, sponsorID sql.NullInt64) {
	switch a.Kind {
	case domain.SelfRegistered:
		userID = nullInt64(a.UserID)
	case domain.Guest:
		sponsorID = nullInt64(a.SponsorID)
	}
	return userID, sponsorID
}

type querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

func queryAttendees(ctx context.Context, q querier, query string, args ...any) ([]*domain.Attendee, error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	attendees := make([]*domain.Attendee, 0)
	for rows.Next() {
		a, err := scanAttendee(rows)
		if err != nil {
			return nil, err
		}
		attendees = append(attendees, a)
	}
	return attendees, rows.Err()
}

type attendeeRepository struct {
	DB *sql.DB
}

func NewAttendeeRepository(db *sql.DB) domain.AttendeeRepository {
	return &attendeeRepository{
		DB: db,
	}
}

func (r *attendeeRepository) ListByEvent(ctx context.Context, eventID int64) ([]*domain.Attendee, error) {
	query := `SELECT ` + attendeeColumns + ` FROM attendees WHERE event_id = $1 ` + attendeeOrder
	return queryAttendees(ctx, r.DB, query, eventID)
}

func (r *attendeeRepository) ListUserIDs(ctx context.Context, eventID int64) ([]int64, error) {
	query := `
		SELECT user_id
		FROM attendees
		WHERE event_id = $1 AND user_id IS NOT NULL AND guest_of_user_id IS NULL
		ORDER BY id
	`
	rows, err := r.DB.QueryContext(ctx, query, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := make([]int64, 0)
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (r *attendeeRepository) CountByEvent(ctx context.Context, eventID int64) (int, error) {
	var n int
	err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM attendees WHERE event_id = $1`, eventID).Scan(&n)
	return n, err
}

type registrar struct {
	DB *sql.DB
}

// NewRegistrar returns a Registrar that serializes work per event with SELECT ... FOR UPDATE.
func NewRegistrar(db *sql.DB) domain.Registrar {
	return &registrar{
		DB: db,
	}
}

func (r *registrar) WithinEvent(ctx context.Context, eventID int64, fn func(tx domain.RegistrationTx) error) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin registration: %w", err)
	}
	defer tx.Rollback()

	query := `SELECT ` + eventColumns + ` FROM events WHERE id = $1 FOR UPDATE`
	event, err := scanEvent(tx.QueryRowContext(ctx, query, eventID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ErrEventNotFound
		}
		return fmt.Errorf("lock event: %w", err)
	}

	if err := fn(&registrationTx{tx: tx, event: event}); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit registration: %w", err)
	}
	return nil
}

type registrationTx struct {
	tx    *sql.Tx
	event *domain.Event
}

func (t *registrationTx) Event() *domain.Event { return t.event }

func (t *registrationTx) Count(ctx context.Context) (int, error) {
	var n int
	err := t.tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM attendees WHERE event_id = $1`, t.event.ID).Scan(&n)
	return n, err
}

func (t *registrationTx) FindByUser(ctx context.Context, userID int64) (*domain.Attendee, error) {
	query := `
		SELECT ` + attendeeColumns + `
		FROM attendees
		WHERE event_id = $1 AND user_id = $2 AND guest_of_user_id IS NULL
	`
	a, err := scanAttendee(t.tx.QueryRowContext(ctx, query, t.event.ID, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return a, nil
}

func (t *registrationTx) FindByName(ctx context.Context, name string) ([]*domain.Attendee, error) {
	query := `
		SELECT ` + attendeeColumns + `
		FROM attendees
		WHERE event_id = $1 AND name = $2 AND guest_of_user_id IS NULL
		ORDER BY id
	`
	return queryAttendees(ctx, t.tx, query, t.event.ID, name)
}

func (t *registrationTx) Insert(ctx context.Context, a *domain.Attendee) error {
	query := `
		INSERT INTO attendees (event_id, user_id, name, guest_of_user_id)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`
	a.EventID = t.event.ID
	userID, sponsorID := attendeeArgs(a)
	err := t.tx.QueryRowContext(ctx, query, a.EventID, userID, a.Name, sponsorID).Scan(&a.ID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return domain.ErrAlreadyRegistered
		}
		return err
	}
	return nil
}

func (t *registrationTx) DeleteUser(ctx context.Context, userID int64) (int64, error) {
	query := `DELETE FROM attendees WHERE event_id = $1 AND (user_id = $2 OR guest_of_user_id = $2)`
	result, err := t.tx.ExecContext(ctx, query, t.event.ID, userID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

func (t *registrationTx) DeleteOneGuest(ctx context.Context, sponsorID int64) (bool, error) {
	query := `
		DELETE FROM attendees
		WHERE id = (
			SELECT id FROM attendees
			WHERE event_id = $1 AND guest_of_user_id = $2
			LIMIT 1
		)
	`
	result, err := t.tx.ExecContext(ctx, query, t.event.ID, sponsorID)
	if err != nil {
		return false, err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return rows > 0, nil
}

func (t *registrationTx) DeleteByName(ctx context.Context, name string) (int64, error) {
	query := `
		DELETE FROM attendees
		WHERE event_id = $1 AND name = $2 AND guest_of_user_id IS NULL
		RETURNING user_id
	`
	rows, err := t.tx.QueryContext(ctx, query, t.event.ID, name)
	if err != nil {
		return 0, err
	}
	var (
		removed  int64
		sponsors []int64
	)
	for rows.Next() {
		var userID sql.NullInt64
		if err := rows.Scan(&userID); err != nil {
			rows.Close()
			return 0, err
		}
		removed++
		if userID.Valid {
			sponsors = append(sponsors, userID.Int64)
		}
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return 0, err
	}
	if len(sponsors) == 0 {
		return removed, nil
	}

	result, err := t.tx.ExecContext(ctx,
		`DELETE FROM attendees WHERE event_id = $1 AND guest_of_user_id = ANY($2)`,
		t.event.ID, pq.Array(sponsors))
	if err != nil {
		return 0, fmt.Errorf("delete guests: %w", err)
	}
	guests, err := result.RowsAffected()
	if err != nil {
		return 0, err
	}
	return removed + guests, nil
}
