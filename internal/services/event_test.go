package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rsvpbot/internal/domain"
	"rsvpbot/internal/testkit/fakes"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestEventService_Create(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name        string
		description string
		max         int
		storeErr    error
		wantErr     error
	}{
		{name: "success", description: "  Football, Sunday ", max: 10},
		{name: "zero capacity", description: "Football", max: 0, wantErr: domain.ErrInvalidInput},
		{name: "store failure", description: "Football", max: 10, storeErr: errors.New("db down")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := fakes.NewStore()
			store.SetErr(tt.storeErr)
			svc := NewEventService(store.Events(), testTimeout)

			event, err := svc.Create(ctx, tt.description, tt.max, -100, 5)
			switch {
			case tt.wantErr != nil:
				require.ErrorIs(t, err, tt.wantErr)
				return
			case tt.storeErr != nil:
				require.ErrorIs(t, err, tt.storeErr)
				return
			}
			require.NoError(t, err)
			assert.NotZero(t, event.ID)
			assert.Equal(t, "Football, Sunday", event.Description)
			assert.Equal(t, int64(-100), event.ChatID)
			assert.Equal(t, 5, event.ThreadID)
			assert.False(t, event.HasAnnouncement())
		})
	}
}

func TestEventService_AttachAnnouncementAndLookup(t *testing.T) {
	ctx := context.Background()
	store := fakes.NewStore()
	svc := NewEventService(store.Events(), testTimeout)

	event, err := svc.Create(ctx, "Game night", 8, -100, 0)
	require.NoError(t, err)
	require.NoError(t, svc.AttachAnnouncement(ctx, event, -100, 77))
	assert.True(t, event.HasAnnouncement())

	got, err := svc.GetByMessage(ctx, -100, 77)
	require.NoError(t, err)
	assert.Equal(t, event.ID, got.ID)

	_, err = svc.GetByMessage(ctx, -200, 77)
	require.ErrorIs(t, err, domain.ErrEventNotFound)

	_, err = svc.GetByID(ctx, 999)
	require.ErrorIs(t, err, domain.ErrEventNotFound)
}

func TestEventService_Updates(t *testing.T) {
	ctx := context.Background()
	store := fakes.NewStore()
	svc := NewEventService(store.Events(), testTimeout)
	event, err := svc.Create(ctx, "Old", 8, -100, 0)
	require.NoError(t, err)

	updated, err := svc.UpdateDescription(ctx, event.ID, " New text ")
	require.NoError(t, err)
	assert.Equal(t, "New text", updated.Description)

	_, err = svc.UpdateDescription(ctx, event.ID, "  ")
	require.ErrorIs(t, err, domain.ErrInvalidInput)

	updated, err = svc.UpdateMaxAttendees(ctx, event.ID, 3)
	require.NoError(t, err)
	assert.Equal(t, 3, updated.MaxAttendees)

	_, err = svc.UpdateMaxAttendees(ctx, event.ID, -1)
	require.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = svc.UpdateMaxAttendees(ctx, 999, 3)
	require.ErrorIs(t, err, domain.ErrEventNotFound)

	require.NoError(t, svc.Delete(ctx, event.ID))
	require.ErrorIs(t, svc.Delete(ctx, event.ID), domain.ErrEventNotFound)
}

func TestEventService_Cleanup(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	store := fakes.NewStore()

	old := store.SeedEvent(domain.Event{Description: "old", MaxAttendees: 5, CreatedAt: now.Add(-40 * 24 * time.Hour)})
	fresh := store.SeedEvent(domain.Event{Description: "fresh", MaxAttendees: 5, CreatedAt: now.Add(-2 * 24 * time.Hour)})

	reg := NewRegistrationService(store.Registrar(), testTimeout)
	require.NoError(t, reg.Register(ctx, old.ID, 1, "Anna"))
	require.NoError(t, reg.AddGuest(ctx, old.ID, 1, "Anna"))
	require.NoError(t, reg.Register(ctx, fresh.ID, 1, "Anna"))

	svc := NewEventService(store.Events(), testTimeout).(*eventService)
	svc.now = func() time.Time { return now }

	job := NewCleanupJob(svc, 30*24*time.Hour, discardLogger())
	res, err := job.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.CleanupResult{DeletedEvents: 1, DeletedAttendees: 2}, res)

	_, err = svc.GetByID(ctx, old.ID)
	require.ErrorIs(t, err, domain.ErrEventNotFound)
	_, err = svc.GetByID(ctx, fresh.ID)
	require.NoError(t, err)
	assert.Len(t, store.Snapshot(fresh.ID), 1)

	res, err = job.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.CleanupResult{}, res)
}

func TestCleanupJob_ReportsFailure(t *testing.T) {
	store := fakes.NewStore()
	boom := errors.New("db down")
	store.SetErr(boom)

	job := NewCleanupJob(NewEventService(store.Events(), testTimeout), time.Hour, discardLogger())
	_, err := job.Run(context.Background())
	require.ErrorIs(t, err, boom)
}
