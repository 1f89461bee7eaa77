package domain

import "context"

// ChatUser is the platform's view of a user.
type ChatUser struct {
	ID           int64
	IsBot        bool
	FirstName    string
	LastName     string
	Username     string
	LanguageCode string
}

// DisplayName is "First Last" with the last name optional.
func (u ChatUser) DisplayName() string {
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}

// Button is an inline keyboard button carrying callback data.
type Button struct {
	Text string
	Data string
}

// Keyboard is an inline keyboard attached to a message.
type Keyboard struct {
	Rows [][]Button
}

// Mention links a span of a message to a user. Offset and Length are in UTF-16 code units.
type Mention struct {
	Offset int
	Length int
	User   ChatUser
}

// OutgoingMessage is a message to send to a chat.
type OutgoingMessage struct {
	ChatID   int64
	ThreadID int
	Text     string
	HTML     bool
	Keyboard *Keyboard
	Mentions []Mention
}

// Messenger is the messaging platform port (infrastructure).
type Messenger interface {
	SendMessage(ctx context.Context, msg OutgoingMessage) (messageID int, err error)
	EditMessageText(ctx context.Context, chatID int64, messageID int, text string, keyboard *Keyboard) error
	DeleteMessage(ctx context.Context, chatID int64, messageID int) error
	AnswerCallback(ctx context.Context, callbackID, text string, alert bool) error
	GetChatMember(ctx context.Context, chatID, userID int64) (*ChatUser, error)
}

// RosterService renders attendee lists and keeps announcement messages current.
type RosterService interface {
	// Render returns the full announcement text for the event.
	Render(ctx context.Context, event *Event) (string, error)
	// Refresh re-renders and edits the announcement in place. Failures are logged, not returned.
	Refresh(ctx context.Context, event *Event)
}

// NotifyResult reports the outcome of a broadcast.
type NotifyResult struct {
	Mentioned int
	Skipped   int
}

// Notifier broadcasts a message mentioning every attendee with a platform account.
type Notifier interface {
	NotifyAll(ctx context.Context, event *Event, chatID int64, threadID int, text string) (NotifyResult, error)
}
