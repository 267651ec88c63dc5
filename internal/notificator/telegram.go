package notificator

import (
	"context"

	"github.com/go-telegram/bot"

	"github.com/latinum-ai/mercator/pkg/logger"
)

// TelegramNotificator delivers admin alerts to a Telegram chat.
type TelegramNotificator struct {
	logger *logger.Logger
	bot    *bot.Bot
}

func NewTelegramNotificator(logger *logger.Logger, token string) (*TelegramNotificator, error) {
	b, err := bot.New(token)
	if err != nil {
		return nil, err
	}

	return &TelegramNotificator{
		logger: logger,
		bot:    b,
	}, nil
}

func (t *TelegramNotificator) SendNotification(chatID, message string) {
	params := &bot.SendMessageParams{
		ChatID: chatID,
		Text:   message,
	}
	_, err := t.bot.SendMessage(context.Background(), params)
	if err != nil {
		t.logger.Error("Failed to send notification: ", err)
	}
}
