package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/NasaVasa/farewatch/internal/domain"
	"go.uber.org/zap"
)

const (
	greetingReply = "Hi! I can search flights and watch prices for you. Try: \"flights from MAD to BCN on 2026-11-02\"."
	helpReply     = "Ask me to search a route on a date, or to alert you when a route drops below a price, e.g. \"alert me when MAD to BCN is under 500\"."
	unknownReply  = "Sorry, I did not understand that. Say \"help\" to see what I can do."
)

const maxListedOffers = 5

// MessageResult is what the conversational flow produced for one message.
// Offers and Alert are set only for the intents that create them.
type MessageResult struct {
	Intent   domain.Intent
	Entities domain.MessageEntities
	Reply    string
	Offers   []domain.FlightOffer
	Alert    *domain.PriceAlert
}

type MessageUsecase struct {
	classifier domain.MessageClassifier
	search     *SearchUsecase
	alerts     *AlertUsecase
	now        func() time.Time
	logger     *zap.Logger
}

func NewMessageUsecase(classifier domain.MessageClassifier, search *SearchUsecase, alerts *AlertUsecase, now func() time.Time, logger *zap.Logger) *MessageUsecase {
	if now == nil {
		now = time.Now
	}
	return &MessageUsecase{classifier: classifier, search: search, alerts: alerts, now: now, logger: logger}
}

func (u *MessageUsecase) Handle(ctx context.Context, contactID, text string) (*MessageResult, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, &ValidationError{Field: "text", Reason: "required"}
	}

	intent, err := u.classifier.Classify(ctx, text, u.now().Format(domain.DateLayout))
	if err != nil {
		return nil, fmt.Errorf("classify message: %w", err)
	}

	u.logger.Info("message classified", zap.String("user_contact_id", contactID), zap.String("intent", string(intent.Intent)))

	result := &MessageResult{Intent: intent.Intent, Entities: intent.Entities}
	switch intent.Intent {
	case domain.IntentGreeting:
		result.Reply = greetingReply
	case domain.IntentHelp:
		result.Reply = helpReply
	case domain.IntentSearchFlight:
		err = u.handleSearch(ctx, intent.Entities, result)
	case domain.IntentCreateAlert:
		err = u.handleCreateAlert(ctx, contactID, intent.Entities, result)
	default:
		result.Intent = domain.IntentUnknown
		result.Reply = unknownReply
	}
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (u *MessageUsecase) handleSearch(ctx context.Context, entities domain.MessageEntities, result *MessageResult) error {
	origin, destination, date := deref(entities.Origin), deref(entities.Destination), deref(entities.DepartureDate)
	if origin == "" || destination == "" || date == "" {
		result.Reply = "To search I need an origin, a destination and a date (YYYY-MM-DD)."
		return nil
	}

	offers, err := u.search.Search(ctx, SearchRequest{Origin: origin, Destination: destination, Date: date})
	if err != nil {
		var validation *ValidationError
		if errors.As(err, &validation) {
			result.Reply = fmt.Sprintf("I could not search that: %s.", validation.Error())
			return nil
		}
		return err
	}

	result.Offers = offers
	result.Reply = FormatOffers(strings.ToUpper(origin), strings.ToUpper(destination), date, offers)
	return nil
}

func (u *MessageUsecase) handleCreateAlert(ctx context.Context, contactID string, entities domain.MessageEntities, result *MessageResult) error {
	origin, destination := deref(entities.Origin), deref(entities.Destination)
	if origin == "" || destination == "" || entities.TargetPrice == nil {
		result.Reply = "To create an alert I need an origin, a destination and a target price."
		return nil
	}

	alert, err := u.alerts.CreateAlert(ctx, contactID, origin, destination, entities.TargetPrice.String())
	if err != nil {
		var validation *ValidationError
		if errors.As(err, &validation) {
			result.Reply = fmt.Sprintf("I could not create that alert: %s.", validation.Error())
			return nil
		}
		return err
	}

	result.Alert = alert
	result.Reply = fmt.Sprintf("Alert #%d created: I will tell you when %s -> %s costs %s or less.",
		alert.ID, alert.OriginCode, alert.DestinationCode, domain.FormatAmount(alert.TargetPrice))
	return nil
}

// FormatOffers renders a short text summary, cheapest fare first line.
func FormatOffers(origin, destination, date string, offers []domain.FlightOffer) string {
	if len(offers) == 0 {
		return fmt.Sprintf("No flights found for %s -> %s on %s.", origin, destination, date)
	}

	var builder strings.Builder
	builder.WriteString(fmt.Sprintf("Flights %s -> %s on %s:\n", origin, destination, date))
	if cheapest, ok := CheapestOffer(offers); ok {
		builder.WriteString(fmt.Sprintf("Cheapest: %s with %s\n", domain.FormatAmount(cheapest.Price), cheapest.CarrierName))
	}
	for i, offer := range offers {
		if i == maxListedOffers {
			builder.WriteString(fmt.Sprintf("...and %d more", len(offers)-maxListedOffers))
			break
		}
		builder.WriteString(fmt.Sprintf("%d) %s %s %s-%s, %s, %d stop(s)\n",
			i+1,
			offer.CarrierName,
			domain.FormatAmount(offer.Price),
			offer.DepartureTime.Format("15:04"),
			offer.ArrivalTime.Format("15:04"),
			offer.Duration,
			offer.Stops,
		))
	}
	return strings.TrimRight(builder.String(), "\n")
}

func deref(value *string) string {
	if value == nil {
		return ""
	}
	return strings.TrimSpace(*value)
}
