package telegram

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/NasaVasa/farewatch/internal/domain"
	"github.com/NasaVasa/farewatch/internal/usecase"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// Sender is the part of the bot API the handlers need.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

type Handlers struct {
	searchUC  *usecase.SearchUsecase
	alertUC   *usecase.AlertUsecase
	messageUC *usecase.MessageUsecase
	logger    *zap.Logger
}

func NewHandlers(searchUC *usecase.SearchUsecase, alertUC *usecase.AlertUsecase, messageUC *usecase.MessageUsecase, logger *zap.Logger) *Handlers {
	return &Handlers{searchUC: searchUC, alertUC: alertUC, messageUC: messageUC, logger: logger}
}

func (h *Handlers) HandleUpdate(ctx context.Context, api Sender, update tgbotapi.Update) {
	if update.Message == nil || update.Message.Chat == nil {
		return
	}
	if update.Message.IsCommand() {
		h.handleCommand(ctx, api, update)
		return
	}
	if strings.TrimSpace(update.Message.Text) != "" {
		h.handleText(ctx, api, update)
	}
}

func (h *Handlers) handleCommand(ctx context.Context, api Sender, update tgbotapi.Update) {
	command := update.Message.Command()
	args := update.Message.CommandArguments()
	chatID := update.Message.Chat.ID
	contactID := ContactID(chatID)

	h.logger.Info(
		"telegram command received",
		zap.Int64("chat_id", chatID),
		zap.String("command", command),
		zap.String("args", args),
	)

	switch command {
	case "start":
		h.reply(api, chatID, "Welcome to Farewatch. I search flights and watch fares for you.\n\n"+HelpText)
	case "help":
		h.reply(api, chatID, HelpText)
	case "search":
		parsed, err := ParseSearchArgs(args)
		if err != nil {
			h.reply(api, chatID, "Usage: /search <origin> <destination> <YYYY-MM-DD>")
			return
		}
		offers, err := h.searchUC.Search(ctx, usecase.SearchRequest{Origin: parsed.Origin, Destination: parsed.Destination, Date: parsed.Date})
		if err != nil {
			h.logger.Warn("search failed", zap.Int64("chat_id", chatID), zap.Error(err))
			h.reply(api, chatID, h.errorMessage(err))
			return
		}
		h.logger.Info("search complete", zap.Int64("chat_id", chatID), zap.Int("offers", len(offers)))
		h.reply(api, chatID, usecase.FormatOffers(strings.ToUpper(parsed.Origin), strings.ToUpper(parsed.Destination), parsed.Date, offers))
	case "alert":
		parsed, err := ParseAlertArgs(args)
		if err != nil {
			h.reply(api, chatID, "Usage: /alert <origin> <destination> <target_price>")
			return
		}
		alert, err := h.alertUC.CreateAlert(ctx, contactID, parsed.Origin, parsed.Destination, parsed.TargetPrice)
		if err != nil {
			h.logger.Warn("alert create failed", zap.Int64("chat_id", chatID), zap.Error(err))
			h.reply(api, chatID, h.errorMessage(err))
			return
		}
		h.logger.Info("alert create complete", zap.Int64("chat_id", chatID), zap.Uint("alert_id", alert.ID))
		h.reply(api, chatID, fmt.Sprintf("Alert created: #%d %s -> %s at %s", alert.ID, alert.OriginCode, alert.DestinationCode, domain.FormatAmount(alert.TargetPrice)))
	case "alerts":
		alerts, err := h.alertUC.ListAlerts(ctx, contactID)
		if err != nil {
			h.logger.Warn("alerts list failed", zap.Int64("chat_id", chatID), zap.Error(err))
			h.reply(api, chatID, h.errorMessage(err))
			return
		}
		if len(alerts) == 0 {
			h.reply(api, chatID, "No alerts yet. Use /alert to create one.")
			return
		}
		var builder strings.Builder
		builder.WriteString("Your alerts:\n")
		for _, alert := range alerts {
			builder.WriteString(fmt.Sprintf("#%d %s\n", alert.ID, alert.String()))
		}
		h.reply(api, chatID, builder.String())
	case "delete":
		alertID, err := ParseAlertID(args)
		if err != nil {
			h.reply(api, chatID, "Usage: /delete <alert_id>")
			return
		}
		if err := h.alertUC.DeleteAlert(ctx, contactID, alertID); err != nil {
			h.logger.Warn("delete failed", zap.Int64("chat_id", chatID), zap.Uint("alert_id", alertID), zap.Error(err))
			h.reply(api, chatID, h.errorMessage(err))
			return
		}
		h.logger.Info("delete complete", zap.Int64("chat_id", chatID), zap.Uint("alert_id", alertID))
		h.reply(api, chatID, fmt.Sprintf("Alert #%d deleted.", alertID))
	default:
		h.logger.Warn("unknown command", zap.Int64("chat_id", chatID), zap.String("command", command))
		h.reply(api, chatID, "Unknown command.\n\n"+HelpText)
	}
}

func (h *Handlers) handleText(ctx context.Context, api Sender, update tgbotapi.Update) {
	chatID := update.Message.Chat.ID
	result, err := h.messageUC.Handle(ctx, ContactID(chatID), update.Message.Text)
	if err != nil {
		h.logger.Warn("message handling failed", zap.Int64("chat_id", chatID), zap.Error(err))
		h.reply(api, chatID, h.errorMessage(err))
		return
	}
	h.reply(api, chatID, result.Reply)
}

func (h *Handlers) errorMessage(err error) string {
	var validation *usecase.ValidationError
	switch {
	case errors.As(err, &validation):
		return fmt.Sprintf("Invalid %s: %s.", validation.Field, validation.Reason)
	case errors.Is(err, usecase.ErrAlertNotFound):
		return "Alert not found."
	case errors.Is(err, usecase.ErrAlertNotOwned):
		return "That alert belongs to another chat."
	case errors.Is(err, domain.ErrClassifierFailure):
		return "I cannot read free text right now. Commands like /search still work."
	case errors.Is(err, domain.ErrProviderFailure):
		return "The flight provider is not answering right now. Please try again later."
	}

	h.logger.Warn("unhandled error", zap.Error(err))
	return "Something went wrong. Please try again."
}

func (h *Handlers) reply(api Sender, chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := api.Send(msg); err != nil {
		h.logger.Warn("failed to send message", zap.Error(err))
	}
}
