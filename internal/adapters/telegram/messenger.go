// Package telegram connects the bot to the Telegram Bot API through go-telegram/bot.
package telegram

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"rsvpbot/internal/domain"
)

// api is the subset of *bot.Bot the messenger calls.
type api interface {
	SendMessage(ctx context.Context, params *bot.SendMessageParams) (*models.Message, error)
	EditMessageText(ctx context.Context, params *bot.EditMessageTextParams) (*models.Message, error)
	DeleteMessage(ctx context.Context, params *bot.DeleteMessageParams) (bool, error)
	AnswerCallbackQuery(ctx context.Context, params *bot.AnswerCallbackQueryParams) (bool, error)
	GetChatMember(ctx context.Context, params *bot.GetChatMemberParams) (*models.ChatMember, error)
}

// Messenger implements domain.Messenger on the Bot API.
type Messenger struct {
	api api
}

var _ domain.Messenger = (*Messenger)(nil)

func newMessenger(a api) *Messenger {
	return &Messenger{api: a}
}

func (m *Messenger) SendMessage(ctx context.Context, msg domain.OutgoingMessage) (int, error) {
	params := &bot.SendMessageParams{
		ChatID:          msg.ChatID,
		MessageThreadID: msg.ThreadID,
		Text:            msg.Text,
		Entities:        entities(msg.Mentions),
	}
	if msg.HTML {
		params.ParseMode = models.ParseModeHTML
	}
	if msg.Keyboard != nil {
		params.ReplyMarkup = inlineKeyboard(msg.Keyboard)
	}
	sent, err := m.api.SendMessage(ctx, params)
	if err != nil {
		return 0, fmt.Errorf("send message: %w", err)
	}
	return sent.ID, nil
}

// EditMessageText replaces an announcement body. An edit that changes nothing is not an error.
func (m *Messenger) EditMessageText(ctx context.Context, chatID int64, messageID int, text string, keyboard *domain.Keyboard) error {
	params := &bot.EditMessageTextParams{
		ChatID:    chatID,
		MessageID: messageID,
		Text:      text,
		ParseMode: models.ParseModeHTML,
	}
	if keyboard != nil {
		params.ReplyMarkup = inlineKeyboard(keyboard)
	}
	if _, err := m.api.EditMessageText(ctx, params); err != nil {
		if isNotModified(err) {
			return nil
		}
		return fmt.Errorf("edit message: %w", err)
	}
	return nil
}

func (m *Messenger) DeleteMessage(ctx context.Context, chatID int64, messageID int) error {
	if _, err := m.api.DeleteMessage(ctx, &bot.DeleteMessageParams{ChatID: chatID, MessageID: messageID}); err != nil {
		return fmt.Errorf("delete message: %w", err)
	}
	return nil
}

func (m *Messenger) AnswerCallback(ctx context.Context, callbackID, text string, alert bool) error {
	_, err := m.api.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{
		CallbackQueryID: callbackID,
		Text:            text,
		ShowAlert:       alert,
	})
	if err != nil {
		return fmt.Errorf("answer callback: %w", err)
	}
	return nil
}

func (m *Messenger) GetChatMember(ctx context.Context, chatID, userID int64) (*domain.ChatUser, error) {
	member, err := m.api.GetChatMember(ctx, &bot.GetChatMemberParams{ChatID: chatID, UserID: userID})
	if err != nil {
		return nil, fmt.Errorf("get chat member: %w", err)
	}
	u := memberUser(member)
	if u == nil {
		return nil, domain.ErrNotFound
	}
	cu := chatUser(u)
	return &cu, nil
}

func isNotModified(err error) bool {
	return errors.Is(err, bot.ErrorBadRequest) && strings.Contains(err.Error(), "message is not modified")
}

func memberUser(m *models.ChatMember) *models.User {
	if m == nil {
		return nil
	}
	switch {
	case m.Owner != nil:
		return m.Owner.User
	case m.Administrator != nil:
		return &m.Administrator.User
	case m.Member != nil:
		return m.Member.User
	case m.Restricted != nil:
		return m.Restricted.User
	case m.Left != nil:
		return m.Left.User
	case m.Banned != nil:
		return m.Banned.User
	}
	return nil
}

func chatUser(u *models.User) domain.ChatUser {
	return domain.ChatUser{
		ID:           u.ID,
		IsBot:        u.IsBot,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		Username:     u.Username,
		LanguageCode: u.LanguageCode,
	}
}

func inlineKeyboard(k *domain.Keyboard) *models.InlineKeyboardMarkup {
	rows := make([][]models.InlineKeyboardButton, 0, len(k.Rows))
	for _, row := range k.Rows {
		buttons := make([]models.InlineKeyboardButton, 0, len(row))
		for _, b := range row {
			buttons = append(buttons, models.InlineKeyboardButton{Text: b.Text, CallbackData: b.Data})
		}
		rows = append(rows, buttons)
	}
	return &models.InlineKeyboardMarkup{InlineKeyboard: rows}
}

func entities(mentions []domain.Mention) []models.MessageEntity {
	if len(mentions) == 0 {
		return nil
	}
	out := make([]models.MessageEntity, 0, len(mentions))
	for _, m := range mentions {
		out = append(out, models.MessageEntity{
			Type:   models.MessageEntityTypeTextMention,
			Offset: m.Offset,
			Length: m.Length,
			User: &models.User{
				ID:        m.User.ID,
				IsBot:     m.User.IsBot,
				FirstName: m.User.FirstName,
				LastName:  m.User.LastName,
				Username:  m.User.Username,
			},
		})
	}
	return out
}
