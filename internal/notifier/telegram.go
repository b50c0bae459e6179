package notifier

import (
	"context"

	"github.com/go-telegram/bot"
	"go.uber.org/zap"
)

// Telegram pushes admin alerts to a staff chat. Delivery is best-effort:
// send failures are logged and never surface to the operation that
// triggered the alert.
type Telegram struct {
	bot    *bot.Bot
	chatID int64
	logger *zap.Logger
}

// NewTelegram builds the notifier, or returns nil when no token is
// configured so callers can wire it unconditionally.
func NewTelegram(token string, chatID int64, logger *zap.Logger) (*Telegram, error) {
	if token == "" || chatID == 0 {
		logger.Info("Telegram notifier disabled, no token or chat id configured")
		return nil, nil
	}

	b, err := bot.New(token)
	if err != nil {
		return nil, err
	}

	return &Telegram{bot: b, chatID: chatID, logger: logger}, nil
}

func (t *Telegram) NotifyAdmin(ctx context.Context, text string) {
	if t == nil {
		return
	}
	_, err := t.bot.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: t.chatID,
		Text:   text,
	})
	if err != nil {
		t.logger.Warn("Failed to send admin notification", zap.Error(err))
	}
}
