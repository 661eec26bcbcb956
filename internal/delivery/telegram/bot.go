package telegram

import (
	"context"
	"fmt"

	"github.com/NasaVasa/farewatch/internal/domain"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

type Bot struct {
	api         *tgbotapi.BotAPI
	handlers    *Handlers
	pollTimeout int
}

func NewAPI(token string) (*tgbotapi.BotAPI, error) {
	return tgbotapi.NewBotAPI(token)
}

func NewBot(api *tgbotapi.BotAPI, handlers *Handlers, pollTimeout int) *Bot {
	return &Bot{api: api, handlers: handlers, pollTimeout: pollTimeout}
}

func (b *Bot) Start(ctx context.Context) error {
	config := tgbotapi.NewUpdate(0)
	config.Timeout = b.pollTimeout
	updates := b.api.GetUpdatesChan(config)

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			return nil
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			b.handlers.HandleUpdate(ctx, b.api, update)
		}
	}
}

// Notifier delivers price-drop notifications to the chat that created the
// alert. The contact id of alerts created through the bot is the chat id.
type Notifier struct {
	api    Sender
	logger *zap.Logger
}

func NewNotifier(api Sender, logger *zap.Logger) *Notifier {
	return &Notifier{api: api, logger: logger}
}

func (n *Notifier) Notify(_ context.Context, notification domain.Notification) error {
	chatID, err := ChatID(notification.UserContactID)
	if err != nil {
		return fmt.Errorf("contact %q is not a telegram chat: %w", notification.UserContactID, err)
	}

	n.logger.Info("telegram notify send", zap.Int64("chat_id", chatID), zap.Uint("alert_id", notification.AlertID))
	msg := tgbotapi.NewMessage(chatID, FormatNotification(notification))
	if _, err := n.api.Send(msg); err != nil {
		n.logger.Warn("failed to notify", zap.Int64("chat_id", chatID), zap.Error(err))
		return err
	}
	return nil
}

func FormatNotification(notification domain.Notification) string {
	return fmt.Sprintf(
		"Price drop! %s -> %s is now %s (your target: %s). Alert #%d is now inactive.",
		notification.Origin,
		notification.Destination,
		notification.FoundPrice,
		notification.TargetPrice,
		notification.AlertID,
	)
}
