package services

import (
	"context"
	"testing"
	"unicode/utf16"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rsvpbot/internal/domain"
	"rsvpbot/internal/testkit/fakes"
)

// spanOf cuts the UTF-16 span a mention points at back out of text.
func spanOf(text string, m domain.Mention) string {
	units := utf16.Encode([]rune(text))
	return string(utf16.Decode(units[m.Offset : m.Offset+m.Length]))
}

func TestBuildMentions(t *testing.T) {
	users := []*domain.ChatUser{
		{ID: 1, FirstName: "Анна", LastName: "Петрова"},
		{ID: 2, FirstName: "Max 🎉"},
		{ID: 3, FirstName: "John", LastName: "Doe"},
	}

	body, mentions := BuildMentions("Сбор в 10:00 ⚽", users)

	assert.Equal(t, "Сбор в 10:00 ⚽\n\nАнна Петрова Max 🎉 John Doe", body)
	require.Len(t, mentions, 3)
	for i, m := range mentions {
		assert.Equal(t, users[i].DisplayName(), spanOf(body, m), "mention %d", i)
		assert.Equal(t, users[i].ID, m.User.ID)
	}
	// "Max 🎉" is 6 UTF-16 units: the emoji is a surrogate pair.
	assert.Equal(t, 6, mentions[1].Length)
}

func TestBuildMentions_SkipsNamelessUsers(t *testing.T) {
	body, mentions := BuildMentions("Hi", []*domain.ChatUser{{ID: 1}, {ID: 2, FirstName: "Bo"}})
	assert.Equal(t, "Hi\n\nBo", body)
	require.Len(t, mentions, 1)
	assert.Equal(t, 4, mentions[0].Offset)
}

func TestNotifier_NotifyAll(t *testing.T) {
	ctx := context.Background()

	t.Run("mentions resolvable attendees", func(t *testing.T) {
		store := fakes.NewStore()
		event := store.SeedEvent(domain.Event{Description: "Match", MaxAttendees: 10, ChatID: -100, MessageID: 10})
		reg := NewRegistrationService(store.Registrar(), testTimeout)
		require.NoError(t, reg.Register(ctx, event.ID, 1, "Anna"))
		require.NoError(t, reg.AddGuest(ctx, event.ID, 1, "Anna"))
		require.NoError(t, reg.Register(ctx, event.ID, 2, "Petr"))
		require.NoError(t, reg.AddPlayerByName(ctx, event.ID, "Ivan"))

		messenger := fakes.NewMessenger()
		messenger.AddMember(domain.ChatUser{ID: 1, FirstName: "Anna"})

		n := NewNotifier(store.Attendees(), messenger, discardLogger(), testTimeout)
		res, err := n.NotifyAll(ctx, event, -100, 7, "Start at 10")
		require.NoError(t, err)
		assert.Equal(t, domain.NotifyResult{Mentioned: 1, Skipped: 1}, res)

		require.Len(t, messenger.Sent, 1)
		sent := messenger.Sent[0]
		assert.Equal(t, "Start at 10\n\nAnna", sent.Text)
		assert.Equal(t, 7, sent.ThreadID)
		assert.False(t, sent.HTML)
		require.Len(t, sent.Mentions, 1)
		assert.Equal(t, domain.Mention{Offset: 13, Length: 4, User: domain.ChatUser{ID: 1, FirstName: "Anna"}}, sent.Mentions[0])
	})

	t.Run("no attendees with accounts", func(t *testing.T) {
		store := fakes.NewStore()
		event := store.SeedEvent(domain.Event{Description: "Match", MaxAttendees: 10})
		reg := NewRegistrationService(store.Registrar(), testTimeout)
		require.NoError(t, reg.AddPlayerByName(ctx, event.ID, "Ivan"))

		messenger := fakes.NewMessenger()
		_, err := NewNotifier(store.Attendees(), messenger, discardLogger(), testTimeout).NotifyAll(ctx, event, -100, 0, "Hi")
		require.ErrorIs(t, err, domain.ErrNoRecipients)
		assert.Empty(t, messenger.Sent)
	})

	t.Run("nobody resolvable", func(t *testing.T) {
		store := fakes.NewStore()
		event := store.SeedEvent(domain.Event{Description: "Match", MaxAttendees: 10})
		reg := NewRegistrationService(store.Registrar(), testTimeout)
		require.NoError(t, reg.Register(ctx, event.ID, 1, "Anna"))

		messenger := fakes.NewMessenger()
		res, err := NewNotifier(store.Attendees(), messenger, discardLogger(), testTimeout).NotifyAll(ctx, event, -100, 0, "Hi")
		require.ErrorIs(t, err, domain.ErrNoRecipients)
		assert.Equal(t, 1, res.Skipped)
		assert.Empty(t, messenger.Sent)
	})
}
