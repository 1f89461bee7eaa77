package services

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"rsvpbot/internal/domain"
)

// maxConcurrentLookups bounds GetChatMember calls in flight for one render or broadcast.
const maxConcurrentLookups = 8

// resolveMembers looks up every user id in chatID concurrently. The result is aligned
// with ids; entries whose lookup failed are nil.
func resolveMembers(ctx context.Context, messenger domain.Messenger, logger *slog.Logger, chatID int64, ids []int64) []*domain.ChatUser {
	users := make([]*domain.ChatUser, len(ids))
	var g errgroup.Group
	g.SetLimit(maxConcurrentLookups)
	for i, id := range ids {
		g.Go(func() error {
			u, err := messenger.GetChatMember(ctx, chatID, id)
			if err != nil {
				logger.WarnContext(ctx, "chat member lookup failed", "chat_id", chatID, "user_id", id, "error", err)
				return nil
			}
			users[i] = u
			return nil
		})
	}
	_ = g.Wait()
	return users
}
