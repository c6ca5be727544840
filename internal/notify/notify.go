package notify

import (
	"context"
	"fmt"
	"log/slog"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Bot delivers notifications through the Bot API to a fixed chat. Retry, if
// ever wanted, belongs to the caller.
type Bot struct {
	log *slog.Logger
	api *tgbotapi.BotAPI
}

func NewBot(log *slog.Logger, token string) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("bot api: %w", err)
	}
	log.Info("bot transport ready", "bot", api.Self.UserName)

	return &Bot{log: log, api: api}, nil
}

func (b *Bot) Send(ctx context.Context, chatID int64, text string, html bool) error {
	msg := tgbotapi.NewMessage(chatID, text)
	if html {
		msg.ParseMode = tgbotapi.ModeHTML
	}

	if _, err := b.api.Send(msg); err != nil {
		return fmt.Errorf("send message: %w", err)
	}

	return nil
}
