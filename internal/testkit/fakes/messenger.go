package fakes

import (
	"context"
	"sync"

	"rsvpbot/internal/domain"
)

// Edit is a recorded EditMessageText call.
type Edit struct {
	ChatID    int64
	MessageID int
	Text      string
	Keyboard  *domain.Keyboard
}

// Deletion is a recorded DeleteMessage call.
type Deletion struct {
	ChatID    int64
	MessageID int
}

// Answer is a recorded AnswerCallback call.
type Answer struct {
	CallbackID string
	Text       string
	Alert      bool
}

// Messenger records every outbound call and resolves chat members from a fixed table.
type Messenger struct {
	mu            sync.Mutex
	nextMessageID int
	members       map[int64]domain.ChatUser

	Sent      []domain.OutgoingMessage
	Edits     []Edit
	Deletions []Deletion
	Answers   []Answer
	Lookups   int

	SendErr   error
	EditErr   error
	DeleteErr error
}

// NewMessenger returns a Messenger whose first sent message gets id 1001.
func NewMessenger() *Messenger {
	return &Messenger{
		nextMessageID: 1000,
		members:       make(map[int64]domain.ChatUser),
	}
}

// AddMember makes GetChatMember resolve u.ID.
func (m *Messenger) AddMember(u domain.ChatUser) {
	m.mu.Lock()
	m.members[u.ID] = u
	m.mu.Unlock()
}

func (m *Messenger) SendMessage(ctx context.Context, msg domain.OutgoingMessage) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SendErr != nil {
		return 0, m.SendErr
	}
	m.Sent = append(m.Sent, msg)
	m.nextMessageID++
	return m.nextMessageID, nil
}

func (m *Messenger) EditMessageText(ctx context.Context, chatID int64, messageID int, text string, keyboard *domain.Keyboard) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.EditErr != nil {
		return m.EditErr
	}
	m.Edits = append(m.Edits, Edit{ChatID: chatID, MessageID: messageID, Text: text, Keyboard: keyboard})
	return nil
}

func (m *Messenger) DeleteMessage(ctx context.Context, chatID int64, messageID int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.DeleteErr != nil {
		return m.DeleteErr
	}
	m.Deletions = append(m.Deletions, Deletion{ChatID: chatID, MessageID: messageID})
	return nil
}

func (m *Messenger) AnswerCallback(ctx context.Context, callbackID, text string, alert bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Answers = append(m.Answers, Answer{CallbackID: callbackID, Text: text, Alert: alert})
	return nil
}

func (m *Messenger) GetChatMember(ctx context.Context, chatID, userID int64) (*domain.ChatUser, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Lookups++
	u, ok := m.members[userID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &u, nil
}

// LastEdit returns the most recent edit, or false if there was none.
func (m *Messenger) LastEdit() (Edit, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.Edits) == 0 {
		return Edit{}, false
	}
	return m.Edits[len(m.Edits)-1], true
}

// Texts returns the text of every sent message.
func (m *Messenger) Texts() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.Sent))
	for i, msg := range m.Sent {
		out[i] = msg.Text
	}
	return out
}

var _ domain.Messenger = (*Messenger)(nil)
