package dispatch

import (
	"context"
	"fmt"
	"log/slog"

	"rsvpbot/internal/domain"
	"rsvpbot/internal/roster"
)

func (d *Dispatcher) answer(ctx context.Context, log *slog.Logger, cb *Callback, text string, alert bool) {
	if err := d.messenger.AnswerCallback(ctx, cb.ID, text, alert); err != nil {
		log.ErrorContext(ctx, "answer callback", "error", err)
	}
}

func (d *Dispatcher) handleCallback(ctx context.Context, log *slog.Logger, cb *Callback) {
	if decision := d.limiter.CheckAndRecord(cb.From.ID, domain.ActionCallback); !decision.Allowed {
		log.WarnContext(ctx, "rate limit exceeded")
		d.answer(ctx, log, cb, fmt.Sprintf(TextRateLimitedCallback, decision.RemainingSeconds()), true)
		return
	}

	action, eventID, ok := roster.ParseCallback(cb.Data)
	if !ok {
		log.WarnContext(ctx, "malformed callback data", "data", cb.Data)
		d.answer(ctx, log, cb, TextInvalidAction, false)
		return
	}
	log = log.With("action", action, "event_id", eventID)

	event, err := d.events.GetByID(ctx, eventID)
	if err != nil {
		if !isOutcome(err) {
			log.ErrorContext(ctx, "get event", "error", err)
		}
		d.answer(ctx, log, cb, outcomeText(err), false)
		return
	}

	var done string
	name := cb.From.DisplayName()
	switch action {
	case roster.ActionRegister:
		err = d.registration.Register(ctx, eventID, cb.From.ID, name)
		done = TextRSVPConfirmed
	case roster.ActionUnregister:
		_, err = d.registration.Unregister(ctx, eventID, cb.From.ID)
		done = TextRSVPCanceled
	case roster.ActionGuest:
		err = d.registration.AddGuest(ctx, eventID, cb.From.ID, name)
		done = TextGuestAdded
	case roster.ActionUnguest:
		err = d.registration.RemoveGuest(ctx, eventID, cb.From.ID)
		done = TextGuestRemoved
	default:
		log.WarnContext(ctx, "unknown callback action")
		d.answer(ctx, log, cb, TextInvalidAction, false)
		return
	}
	if err != nil {
		if isOutcome(err) {
			log.InfoContext(ctx, "callback rejected", "reason", err.Error())
		} else {
			log.ErrorContext(ctx, "callback failed", "error", err)
		}
		d.answer(ctx, log, cb, outcomeText(err), false)
		return
	}

	log.InfoContext(ctx, "callback applied")
	d.answer(ctx, log, cb, done, false)

	if !event.HasAnnouncement() && cb.ChatID != 0 && cb.MessageID != 0 {
		event.ChatID, event.MessageID = cb.ChatID, cb.MessageID
	}
	if event.Description == "" {
		event.Description = roster.SplitDescription(cb.MessageText)
	}
	d.roster.Refresh(ctx, event)
}
