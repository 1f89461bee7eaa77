package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf16"

	"rsvpbot/internal/domain"
)

type notifier struct {
	attendeeRepo   domain.AttendeeRepository
	messenger      domain.Messenger
	logger         *slog.Logger
	contextTimeout time.Duration
}

// NewNotifier creates a Notifier that mentions attendees through messenger.
func NewNotifier(attendeeRepo domain.AttendeeRepository, messenger domain.Messenger, logger *slog.Logger, timeout time.Duration) domain.Notifier {
	return &notifier{
		attendeeRepo:   attendeeRepo,
		messenger:      messenger,
		logger:         logger,
		contextTimeout: timeout,
	}
}

// utf16Len is the length of s in UTF-16 code units, the unit entity offsets are measured in.
func utf16Len(s string) int {
	n := 0
	for _, r := range s {
		n += utf16.RuneLen(r)
	}
	return n
}

// BuildMentions appends one display name per user to text and returns the message body
// with a mention entity for each name.
func BuildMentions(text string, users []*domain.ChatUser) (string, []domain.Mention) {
	var b strings.Builder
	b.WriteString(text)
	b.WriteString("\n\n")
	offset := utf16Len(b.String())

	mentions := make([]domain.Mention, 0, len(users))
	for _, u := range users {
		name := u.DisplayName()
		if name == "" {
			continue
		}
		if len(mentions) > 0 {
			b.WriteString(" ")
			offset++
		}
		length := utf16Len(name)
		mentions = append(mentions, domain.Mention{Offset: offset, Length: length, User: *u})
		b.WriteString(name)
		offset += length
	}
	return b.String(), mentions
}

func (n *notifier) NotifyAll(ctx context.Context, event *domain.Event, chatID int64, threadID int, text string) (domain.NotifyResult, error) {
	ctx, cancel := context.WithTimeout(ctx, n.contextTimeout)
	defer cancel()

	var res domain.NotifyResult
	ids, err := n.attendeeRepo.ListUserIDs(ctx, event.ID)
	if err != nil {
		return res, fmt.Errorf("list attendee ids: %w", err)
	}
	if len(ids) == 0 {
		return res, domain.ErrNoRecipients
	}

	resolved := make([]*domain.ChatUser, 0, len(ids))
	for _, u := range resolveMembers(ctx, n.messenger, n.logger, chatID, ids) {
		if u == nil {
			res.Skipped++
			continue
		}
		resolved = append(resolved, u)
	}

	body, mentions := BuildMentions(text, resolved)
	res.Skipped += len(resolved) - len(mentions)
	if len(mentions) == 0 {
		return res, domain.ErrNoRecipients
	}

	_, err = n.messenger.SendMessage(ctx, domain.OutgoingMessage{
		ChatID:   chatID,
		ThreadID: threadID,
		Text:     body,
		Mentions: mentions,
	})
	if err != nil {
		return res, fmt.Errorf("send notification: %w", err)
	}
	res.Mentioned = len(mentions)
	n.logger.InfoContext(ctx, "notification sent", "event_id", event.ID, "mentioned", res.Mentioned, "skipped", res.Skipped)
	return res, nil
}
