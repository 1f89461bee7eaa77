package telegram

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"rsvpbot/internal/delivery/dispatch"
)

// UpdateHandler consumes converted updates.
type UpdateHandler interface {
	Handle(ctx context.Context, u dispatch.Update)
}

// Client owns the long-polling connection and exposes the Messenger built on it.
type Client struct {
	*Messenger
	bot     *bot.Bot
	logger  *slog.Logger
	handler UpdateHandler
}

// NewClient creates a client for token. Polling starts with Start.
func NewClient(token string, logger *slog.Logger, opts ...bot.Option) (*Client, error) {
	c := &Client{logger: logger}
	opts = append([]bot.Option{
		bot.WithDefaultHandler(c.onUpdate),
		bot.WithErrorsHandler(func(err error) {
			logger.Error("telegram polling", "error", err)
		}),
	}, opts...)
	b, err := bot.New(token, opts...)
	if err != nil {
		return nil, fmt.Errorf("create telegram bot: %w", err)
	}
	c.bot = b
	c.Messenger = newMessenger(b)
	return c, nil
}

// Username returns the bot's own username, used to recognize "/cmd@bot" addressing.
func (c *Client) Username(ctx context.Context) (string, error) {
	me, err := c.bot.GetMe(ctx)
	if err != nil {
		return "", fmt.Errorf("get me: %w", err)
	}
	return me.Username, nil
}

// Start polls for updates and passes them to handler until ctx is cancelled.
// Updates are handled concurrently.
func (c *Client) Start(ctx context.Context, handler UpdateHandler) {
	c.handler = handler
	c.logger.Info("telegram polling started")
	c.bot.Start(ctx)
	c.logger.Info("telegram polling stopped")
}

func (c *Client) onUpdate(ctx context.Context, _ *bot.Bot, u *models.Update) {
	if c.handler == nil {
		return
	}
	upd, ok := ToUpdate(u)
	if !ok {
		c.logger.Debug("skipping unsupported update", "update_id", u.ID)
		return
	}
	c.handler.Handle(ctx, upd)
}
