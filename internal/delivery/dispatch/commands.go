package dispatch

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"rsvpbot/internal/domain"
	"rsvpbot/internal/roster"
)

func (d *Dispatcher) cmdStart(ctx context.Context, req *request) {
	d.reply(ctx, req, TextWelcome)
}

func (d *Dispatcher) cmdHelp(ctx context.Context, req *request) {
	d.reply(ctx, req, TextHelp)
}

// cmdEvent creates the event, posts the announcement and links the two.
func (d *Dispatcher) cmdEvent(ctx context.Context, req *request) {
	if req.args == "" {
		d.reply(ctx, req, TextProvideEventInfo)
		return
	}
	args, err := parseEventArgs(req.args)
	if err != nil {
		d.reply(ctx, req, TextInvalidNumber)
		return
	}
	if err := d.validate.Struct(args); err != nil {
		field, _ := failedRule(err)
		if field == "MaxAttendees" {
			d.reply(ctx, req, TextInvalidNumber)
		} else {
			d.reply(ctx, req, validationText(err, TextProvideEventInfo))
		}
		return
	}

	event, err := d.events.Create(ctx, args.Description, args.MaxAttendees, req.msg.ChatID, req.msg.ThreadID)
	if err != nil {
		req.log.ErrorContext(ctx, "create event", "error", err)
		d.reply(ctx, req, TextError)
		return
	}
	log := req.log.With("event_id", event.ID)

	text, err := d.roster.Render(ctx, event)
	if err != nil {
		log.WarnContext(ctx, "render empty roster", "error", err)
		text = roster.Compose(event.Description, roster.Format(nil, nil))
	}
	messageID, err := d.messenger.SendMessage(ctx, domain.OutgoingMessage{
		ChatID:   req.msg.ChatID,
		ThreadID: req.msg.ThreadID,
		Text:     text,
		HTML:     true,
		Keyboard: roster.Keyboard(event.ID),
	})
	if err != nil {
		log.ErrorContext(ctx, "send announcement", "error", err)
		if delErr := d.events.Delete(ctx, event.ID); delErr != nil {
			log.ErrorContext(ctx, "delete orphaned event", "error", delErr)
		}
		d.reply(ctx, req, TextError)
		return
	}
	if err := d.events.AttachAnnouncement(ctx, event, req.msg.ChatID, messageID); err != nil {
		log.ErrorContext(ctx, "attach announcement", "message_id", messageID, "error", err)
		d.reply(ctx, req, TextError)
		return
	}
	log.InfoContext(ctx, "event created", "message_id", messageID, "max_attendees", event.MaxAttendees)
	d.deleteCommand(ctx, req)
}

func (d *Dispatcher) parseUserID(ctx context.Context, req *request) (int64, bool) {
	args := userIDArgs{UserID: req.args}
	if err := d.validate.Struct(args); err != nil {
		d.reply(ctx, req, TextInvalidUserID)
		return 0, false
	}
	id, err := strconv.ParseInt(args.UserID, 10, 64)
	if err != nil {
		d.reply(ctx, req, TextInvalidUserID)
		return 0, false
	}
	return id, true
}

func (d *Dispatcher) cmdAddAdmin(ctx context.Context, req *request) {
	userID, ok := d.parseUserID(ctx, req)
	if !ok {
		return
	}
	if err := d.admins.Add(ctx, userID); err != nil {
		d.replyOutcome(ctx, req, "add admin", err)
		return
	}
	req.log.InfoContext(ctx, "admin added", "admin_id", userID)
	d.reply(ctx, req, fmt.Sprintf("%s ID: %d", TextAdminAdded, userID))
	d.deleteCommand(ctx, req)
}

func (d *Dispatcher) cmdRemoveAdmin(ctx context.Context, req *request) {
	userID, ok := d.parseUserID(ctx, req)
	if !ok {
		return
	}
	if err := d.admins.Remove(ctx, userID); err != nil {
		d.replyOutcome(ctx, req, "remove admin", err)
		return
	}
	req.log.InfoContext(ctx, "admin removed", "admin_id", userID)
	d.reply(ctx, req, fmt.Sprintf("%s ID: %d", TextAdminRemoved, userID))
	d.deleteCommand(ctx, req)
}

// targetEvent resolves the event whose announcement the command replied to.
func (d *Dispatcher) targetEvent(ctx context.Context, req *request) (*domain.Event, bool) {
	if req.msg.ReplyTo == nil {
		d.reply(ctx, req, TextReplyToEventMessage)
		return nil, false
	}
	event, err := d.events.GetByMessage(ctx, req.msg.ChatID, req.msg.ReplyTo.MessageID)
	if err != nil {
		d.replyOutcome(ctx, req, "find event", err)
		return nil, false
	}
	if event.Description == "" {
		event.Description = roster.SplitDescription(req.msg.ReplyTo.Text)
	}
	return event, true
}

func (d *Dispatcher) cmdAddPlayer(ctx context.Context, req *request) {
	args := playerArgs{Name: req.args}
	if err := d.validate.Struct(args); err != nil {
		d.reply(ctx, req, validationText(err, TextInvalidAddCommand))
		return
	}
	event, ok := d.targetEvent(ctx, req)
	if !ok {
		return
	}
	if err := d.registration.AddPlayerByName(ctx, event.ID, args.Name); err != nil {
		d.replyOutcome(ctx, req, "add player", err)
		return
	}
	req.log.InfoContext(ctx, "player added", "event_id", event.ID)
	d.roster.Refresh(ctx, event)
	d.deleteCommand(ctx, req)
}

func (d *Dispatcher) cmdRemovePlayer(ctx context.Context, req *request) {
	args := playerArgs{Name: req.args}
	if err := d.validate.Struct(args); err != nil {
		d.reply(ctx, req, validationText(err, TextInvalidRemoveCommand))
		return
	}
	event, ok := d.targetEvent(ctx, req)
	if !ok {
		return
	}
	if err := d.registration.RemovePlayerByName(ctx, event.ID, args.Name); err != nil {
		d.replyOutcome(ctx, req, "remove player", err)
		return
	}
	req.log.InfoContext(ctx, "player removed", "event_id", event.ID)
	d.roster.Refresh(ctx, event)
	d.deleteCommand(ctx, req)
}

func (d *Dispatcher) cmdUpdateDescription(ctx context.Context, req *request) {
	args := textArgs{Text: req.args}
	if err := d.validate.Struct(args); err != nil {
		d.reply(ctx, req, validationText(err, TextNewDescriptionNeeded))
		return
	}
	event, ok := d.targetEvent(ctx, req)
	if !ok {
		return
	}
	updated, err := d.events.UpdateDescription(ctx, event.ID, args.Text)
	if err != nil {
		d.replyOutcome(ctx, req, "update description", err)
		return
	}
	req.log.InfoContext(ctx, "description updated", "event_id", event.ID)
	d.roster.Refresh(ctx, updated)
	d.deleteCommand(ctx, req)
}

// cmdUpdateMax changes capacity without re-rendering; the list does not show it.
func (d *Dispatcher) cmdUpdateMax(ctx context.Context, req *request) {
	args, err := parseMaxArgs(req.args)
	if err == nil {
		err = d.validate.Struct(args)
	}
	if err != nil {
		d.reply(ctx, req, TextInvalidNumber)
		return
	}
	event, ok := d.targetEvent(ctx, req)
	if !ok {
		return
	}
	if _, err := d.events.UpdateMaxAttendees(ctx, event.ID, args.Max); err != nil {
		d.replyOutcome(ctx, req, "update max attendees", err)
		return
	}
	req.log.InfoContext(ctx, "max attendees updated", "event_id", event.ID, "max_attendees", args.Max)
	d.deleteCommand(ctx, req)
}

func (d *Dispatcher) cmdNotifyAll(ctx context.Context, req *request) {
	args := textArgs{Text: req.args}
	if err := d.validate.Struct(args); err != nil {
		d.reply(ctx, req, validationText(err, TextNotificationNeeded))
		return
	}
	event, ok := d.targetEvent(ctx, req)
	if !ok {
		return
	}
	res, err := d.notifier.NotifyAll(ctx, event, req.msg.ChatID, req.msg.ThreadID, args.Text)
	if err != nil {
		d.replyOutcome(ctx, req, "notify all", err)
		if errors.Is(err, domain.ErrNoRecipients) {
			d.deleteCommand(ctx, req)
		}
		return
	}
	req.log.InfoContext(ctx, "attendees notified", "event_id", event.ID, "mentioned", res.Mentioned, "skipped", res.Skipped)
	d.deleteCommand(ctx, req)
}

// replyOutcome replies with the text for err, logging it first when it is a failure
// rather than an expected outcome.
func (d *Dispatcher) replyOutcome(ctx context.Context, req *request, op string, err error) {
	if isOutcome(err) {
		req.log.InfoContext(ctx, op+" rejected", "reason", err.Error())
	} else {
		req.log.ErrorContext(ctx, op, "error", err)
	}
	d.reply(ctx, req, outcomeText(err))
}
