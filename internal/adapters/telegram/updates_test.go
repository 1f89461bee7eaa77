package telegram

import (
	"testing"

	"github.com/go-telegram/bot/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rsvpbot/internal/delivery/dispatch"
	"rsvpbot/internal/domain"
)

func TestToUpdate_Message(t *testing.T) {
	u := &models.Update{
		ID: 10,
		Message: &models.Message{
			ID:              55,
			MessageThreadID: 3,
			IsTopicMessage:  true,
			Chat:            models.Chat{ID: -100},
			From:            &models.User{ID: 7, FirstName: "Ann", LastName: "Lee"},
			Text:            "/addplayer Bob",
			ReplyToMessage:  &models.Message{ID: 40, Text: "Match"},
		},
	}

	got, ok := ToUpdate(u)
	require.True(t, ok)
	require.Nil(t, got.Callback)
	assert.Equal(t, int64(10), got.ID)
	assert.Equal(t, &dispatch.Message{
		ID:       55,
		ChatID:   -100,
		ThreadID: 3,
		From:     domain.ChatUser{ID: 7, FirstName: "Ann", LastName: "Lee"},
		Text:     "/addplayer Bob",
		ReplyTo:  &dispatch.ReplyTo{MessageID: 40, Text: "Match"},
	}, got.Message)
}

func TestToUpdate_ThreadOnlyForTopics(t *testing.T) {
	u := &models.Update{Message: &models.Message{
		ID:              1,
		MessageThreadID: 40,
		Chat:            models.Chat{ID: -100},
		From:            &models.User{ID: 7},
		Text:            "/start",
	}}

	got, ok := ToUpdate(u)
	require.True(t, ok)
	assert.Zero(t, got.Message.ThreadID)
}

func TestToUpdate_Callback(t *testing.T) {
	tests := []struct {
		name        string
		message     models.MaybeInaccessibleMessage
		wantChat    int64
		wantMessage int
		wantText    string
	}{
		{
			name: "accessible message",
			message: models.MaybeInaccessibleMessage{
				Message: &models.Message{ID: 90, Chat: models.Chat{ID: -100}, Text: "Match"},
			},
			wantChat:    -100,
			wantMessage: 90,
			wantText:    "Match",
		},
		{
			name: "inaccessible message",
			message: models.MaybeInaccessibleMessage{
				InaccessibleMessage: &models.InaccessibleMessage{Chat: models.Chat{ID: -100}, MessageID: 90},
			},
			wantChat:    -100,
			wantMessage: 90,
		},
		{name: "no message"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u := &models.Update{ID: 3, CallbackQuery: &models.CallbackQuery{
				ID:      "q1",
				From:    models.User{ID: 7, FirstName: "Ann"},
				Message: tt.message,
				Data:    "register:4",
			}}

			got, ok := ToUpdate(u)
			require.True(t, ok)
			require.NotNil(t, got.Callback)
			assert.Equal(t, "q1", got.Callback.ID)
			assert.Equal(t, int64(7), got.Callback.From.ID)
			assert.Equal(t, "register:4", got.Callback.Data)
			assert.Equal(t, tt.wantChat, got.Callback.ChatID)
			assert.Equal(t, tt.wantMessage, got.Callback.MessageID)
			assert.Equal(t, tt.wantText, got.Callback.MessageText)
		})
	}
}

func TestToUpdate_Skipped(t *testing.T) {
	tests := []struct {
		name   string
		update *models.Update
	}{
		{name: "nil", update: nil},
		{name: "edited message", update: &models.Update{EditedMessage: &models.Message{Text: "/start"}}},
		{name: "no sender", update: &models.Update{Message: &models.Message{Text: "/start"}}},
		{name: "no text", update: &models.Update{Message: &models.Message{From: &models.User{ID: 1}}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ok := ToUpdate(tt.update)
			assert.False(t, ok)
		})
	}
}
