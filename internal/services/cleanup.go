package services

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"rsvpbot/internal/domain"
)

// CleanupJob deletes events older than MaxAge. It is run by the scheduler and once at startup.
type CleanupJob struct {
	events domain.EventService
	maxAge time.Duration
	logger *slog.Logger
	runs   atomic.Int64
}

// NewCleanupJob creates a CleanupJob.
func NewCleanupJob(events domain.EventService, maxAge time.Duration, logger *slog.Logger) *CleanupJob {
	return &CleanupJob{
		events: events,
		maxAge: maxAge,
		logger: logger,
	}
}

// Run performs one cleanup pass. Errors are logged; the schedule keeps going.
func (j *CleanupJob) Run(ctx context.Context) (domain.CleanupResult, error) {
	run := j.runs.Add(1)
	log := j.logger.With("run", run, "max_age", j.maxAge.String())
	log.InfoContext(ctx, "cleanup started")

	res, err := j.events.Cleanup(ctx, j.maxAge)
	if err != nil {
		log.ErrorContext(ctx, "cleanup failed", "error", err)
		return res, err
	}
	log.InfoContext(ctx, "cleanup completed", "deleted_events", res.DeletedEvents, "deleted_attendees", res.DeletedAttendees)
	return res, nil
}
