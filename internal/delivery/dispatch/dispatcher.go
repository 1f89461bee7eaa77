// Package dispatch routes inbound chat updates to the registration, event and admin
// services. Every update passes the rate-limit guard, then the admin guard for admin
// commands, then argument validation, before anything is executed.
package dispatch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"rsvpbot/internal/domain"
)

// Deps are the collaborators a Dispatcher needs.
type Deps struct {
	Events       domain.EventService
	Registration domain.RegistrationService
	Admins       domain.AdminService
	Roster       domain.RosterService
	Notifier     domain.Notifier
	Messenger    domain.Messenger
	Limiter      domain.RateLimiter
}

type commandHandler func(ctx context.Context, req *request)

type command struct {
	adminOnly bool
	handle    commandHandler
}

// Dispatcher handles updates. It is safe for concurrent use.
type Dispatcher struct {
	events       domain.EventService
	registration domain.RegistrationService
	admins       domain.AdminService
	roster       domain.RosterService
	notifier     domain.Notifier
	messenger    domain.Messenger
	limiter      domain.RateLimiter
	validate     *validator.Validate
	logger       *slog.Logger
	timeout      time.Duration
	botUsername  string
	commands     map[string]command
}

// New creates a Dispatcher. botUsername may be empty, in which case commands addressed
// to any bot are accepted. timeout bounds the handling of a single update.
func New(deps Deps, botUsername string, timeout time.Duration, logger *slog.Logger) *Dispatcher {
	d := &Dispatcher{
		events:       deps.Events,
		registration: deps.Registration,
		admins:       deps.Admins,
		roster:       deps.Roster,
		notifier:     deps.Notifier,
		messenger:    deps.Messenger,
		limiter:      deps.Limiter,
		validate:     validator.New(validator.WithRequiredStructEnabled()),
		logger:       logger,
		timeout:      timeout,
		botUsername:  botUsername,
	}
	d.commands = map[string]command{
		"start":             {handle: d.cmdStart},
		"help":              {handle: d.cmdHelp},
		"event":             {handle: d.cmdEvent},
		"addadmin":          {adminOnly: true, handle: d.cmdAddAdmin},
		"removeadmin":       {adminOnly: true, handle: d.cmdRemoveAdmin},
		"addplayer":         {adminOnly: true, handle: d.cmdAddPlayer},
		"removeplayer":      {adminOnly: true, handle: d.cmdRemovePlayer},
		"updatedescription": {adminOnly: true, handle: d.cmdUpdateDescription},
		"updatemax":         {adminOnly: true, handle: d.cmdUpdateMax},
		"notifyall":         {adminOnly: true, handle: d.cmdNotifyAll},
	}
	return d
}

// request carries one command through the handler chain.
type request struct {
	msg  *Message
	args string
	log  *slog.Logger
}

// Handle processes one update to completion.
func (d *Dispatcher) Handle(ctx context.Context, u Update) {
	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	log := d.logger.With("update_id", u.ID, "correlation_id", uuid.NewString())
	switch {
	case u.Callback != nil:
		d.handleCallback(ctx, log.With("user_id", u.Callback.From.ID, "chat_id", u.Callback.ChatID), u.Callback)
	case u.Message != nil:
		d.handleMessage(ctx, log.With("user_id", u.Message.From.ID, "chat_id", u.Message.ChatID), u.Message)
	}
}

func (d *Dispatcher) handleMessage(ctx context.Context, log *slog.Logger, msg *Message) {
	name, args, ok := ParseCommand(msg.Text, d.botUsername)
	if !ok {
		return
	}
	cmd, known := d.commands[name]
	if !known {
		log.DebugContext(ctx, "unknown command", "command", name)
		return
	}
	req := &request{msg: msg, args: args, log: log.With("command", name)}

	if decision := d.limiter.CheckAndRecord(msg.From.ID, domain.ActionCommand); !decision.Allowed {
		req.log.WarnContext(ctx, "rate limit exceeded")
		d.reply(ctx, req, fmt.Sprintf(TextRateLimitedCommand, decision.RemainingSeconds()))
		return
	}

	if cmd.adminOnly {
		isAdmin, err := d.admins.IsAdmin(ctx, msg.From.ID)
		if err != nil {
			req.log.ErrorContext(ctx, "admin check failed", "error", err)
			d.reply(ctx, req, TextError)
			return
		}
		if !isAdmin {
			req.log.WarnContext(ctx, "admin command without rights")
			d.reply(ctx, req, TextNoAccess)
			return
		}
	}

	req.log.InfoContext(ctx, "command received")
	cmd.handle(ctx, req)
}

func (d *Dispatcher) reply(ctx context.Context, req *request, text string) {
	_, err := d.messenger.SendMessage(ctx, domain.OutgoingMessage{
		ChatID:   req.msg.ChatID,
		ThreadID: req.msg.ThreadID,
		Text:     text,
	})
	if err != nil {
		req.log.ErrorContext(ctx, "send reply", "error", err)
	}
}

// deleteCommand removes the command message. Failure is logged only.
func (d *Dispatcher) deleteCommand(ctx context.Context, req *request) {
	if err := d.messenger.DeleteMessage(ctx, req.msg.ChatID, req.msg.ID); err != nil {
		req.log.WarnContext(ctx, "delete command message", "message_id", req.msg.ID, "error", err)
	}
}

// outcomeText maps service errors to replies. Unknown errors map to the generic text.
func outcomeText(err error) string {
	switch {
	case errors.Is(err, domain.ErrEventNotFound):
		return TextEventNotFound
	case errors.Is(err, domain.ErrAlreadyRegistered):
		return TextAlreadyRegistered
	case errors.Is(err, domain.ErrEventFull):
		return TextEventFull
	case errors.Is(err, domain.ErrNotRegistered):
		return TextNotRegistered
	case errors.Is(err, domain.ErrNoGuest):
		return TextNoGuest
	case errors.Is(err, domain.ErrAlreadyInList):
		return TextPlayerAlreadyInList
	case errors.Is(err, domain.ErrNotInList):
		return TextPlayerNotInList
	case errors.Is(err, domain.ErrAlreadyAdmin):
		return TextAdminAlreadyAdded
	case errors.Is(err, domain.ErrNotAdmin):
		return TextAdminNotExist
	case errors.Is(err, domain.ErrLastAdmin):
		return TextLastAdmin
	case errors.Is(err, domain.ErrNoRecipients):
		return TextNoRecipients
	default:
		return TextError
	}
}

// isOutcome reports whether err is an expected domain outcome rather than a failure.
func isOutcome(err error) bool {
	return outcomeText(err) != TextError
}
