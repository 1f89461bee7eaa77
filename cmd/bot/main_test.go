package main

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rsvpbot/internal/domain"
	"rsvpbot/internal/services"
	"rsvpbot/internal/testkit/fakes"
)

func TestStartScheduler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	t.Run("invalid schedule", func(t *testing.T) {
		job := services.NewCleanupJob(services.NewEventService(fakes.NewStore().Events(), time.Second), time.Hour, logger)

		_, err := startScheduler(context.Background(), "every now and then", job, logger)
		require.Error(t, err)
	})

	t.Run("runs the cleanup job", func(t *testing.T) {
		ctx := context.Background()
		store := fakes.NewStore()
		old := store.SeedEvent(domain.Event{Description: "Old", MaxAttendees: 2, CreatedAt: time.Now().Add(-48 * time.Hour)})
		events := services.NewEventService(store.Events(), time.Second)
		job := services.NewCleanupJob(events, time.Hour, logger)

		c, err := startScheduler(ctx, "@every 1s", job, logger)
		require.NoError(t, err)
		defer c.Stop()

		assert.Eventually(t, func() bool {
			_, err := events.GetByID(ctx, old.ID)
			return err != nil
		}, 3*time.Second, 50*time.Millisecond)
	})
}
