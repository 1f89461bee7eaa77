package telegram

import (
	"github.com/go-telegram/bot/models"

	"rsvpbot/internal/delivery/dispatch"
)

// ToUpdate converts a Bot API update. It reports false for updates the dispatcher does
// not handle: edits, channel posts, messages without a sender or text.
func ToUpdate(u *models.Update) (dispatch.Update, bool) {
	if u == nil {
		return dispatch.Update{}, false
	}
	out := dispatch.Update{ID: u.ID}
	switch {
	case u.CallbackQuery != nil:
		out.Callback = toCallback(u.CallbackQuery)
	case u.Message != nil && u.Message.From != nil && u.Message.Text != "":
		out.Message = toMessage(u.Message)
	default:
		return dispatch.Update{}, false
	}
	return out, true
}

func toMessage(m *models.Message) *dispatch.Message {
	msg := &dispatch.Message{
		ID:     m.ID,
		ChatID: m.Chat.ID,
		From:   chatUser(m.From),
		Text:   m.Text,
	}
	// Only forum topics accept a thread id when replying.
	if m.IsTopicMessage {
		msg.ThreadID = m.MessageThreadID
	}
	if r := m.ReplyToMessage; r != nil {
		msg.ReplyTo = &dispatch.ReplyTo{MessageID: r.ID, Text: r.Text}
	}
	return msg
}

func toCallback(q *models.CallbackQuery) *dispatch.Callback {
	cb := &dispatch.Callback{
		ID:   q.ID,
		From: chatUser(&q.From),
		Data: q.Data,
	}
	switch {
	case q.Message.Message != nil:
		cb.ChatID = q.Message.Message.Chat.ID
		cb.MessageID = q.Message.Message.ID
		cb.MessageText = q.Message.Message.Text
	case q.Message.InaccessibleMessage != nil:
		cb.ChatID = q.Message.InaccessibleMessage.Chat.ID
		cb.MessageID = q.Message.InaccessibleMessage.MessageID
	}
	return cb
}
