package dispatch

import (
	"strings"
	"unicode"

	"rsvpbot/internal/domain"
)

// Update is one inbound event from the chat platform. Exactly one of Message and
// Callback is set.
type Update struct {
	ID       int64
	Message  *Message
	Callback *Callback
}

// Message is a text message posted in a chat.
type Message struct {
	ID       int
	ChatID   int64
	ThreadID int
	From     domain.ChatUser
	Text     string
	ReplyTo  *ReplyTo
}

// ReplyTo is the message a command replied to.
type ReplyTo struct {
	MessageID int
	Text      string
}

// Callback is an inline button press.
type Callback struct {
	ID          string
	From        domain.ChatUser
	ChatID      int64
	MessageID   int
	MessageText string
	Data        string
}

// ParseCommand splits "/name@bot args" into a lower-cased name and the trimmed argument
// text. Commands addressed to a different bot are rejected.
func ParseCommand(text, botUsername string) (name, args string, ok bool) {
	if !strings.HasPrefix(text, "/") {
		return "", "", false
	}
	head, rest := text[1:], ""
	if i := strings.IndexFunc(head, unicode.IsSpace); i >= 0 {
		head, rest = head[:i], head[i:]
	}
	name, mention, addressed := strings.Cut(head, "@")
	if addressed && botUsername != "" && !strings.EqualFold(mention, botUsername) {
		return "", "", false
	}
	if name == "" {
		return "", "", false
	}
	return strings.ToLower(name), strings.TrimSpace(rest), true
}
