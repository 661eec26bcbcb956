package rest

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/NasaVasa/farewatch/internal/domain"
	"github.com/NasaVasa/farewatch/internal/usecase"
)

// searchResponse keeps the field names of the original public search API.
type searchResponse struct {
	Route   string      `json:"rota"`
	Date    string      `json:"data"`
	Options []flightDTO `json:"opcoes_voo"`
}

type searchError struct {
	Error string `json:"erro"`
}

type flightDTO struct {
	Carrier       string `json:"companhia"`
	CarrierCode   string `json:"codigo_companhia"`
	Origin        string `json:"origem"`
	Destination   string `json:"destino"`
	DepartureTime string `json:"horario"`
	ArrivalTime   string `json:"chegada"`
	Duration      string `json:"duracao"`
	Stops         int    `json:"paradas"`
	Price         string `json:"preco"`
}

type createAlertRequest struct {
	UserContactID   string     `json:"user_contact_id"`
	OriginCode      string     `json:"origin_code"`
	DestinationCode string     `json:"destination_code"`
	TargetPrice     priceInput `json:"target_price"`
}

// priceInput accepts the target price as a JSON string or number and keeps
// the literal text so no precision is lost before decimal parsing.
type priceInput string

func (p *priceInput) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "null" {
		*p = ""
		return nil
	}
	if strings.HasPrefix(trimmed, "\"") {
		var value string
		if err := json.Unmarshal(data, &value); err != nil {
			return err
		}
		*p = priceInput(value)
		return nil
	}
	*p = priceInput(trimmed)
	return nil
}

type alertDTO struct {
	ID              uint      `json:"id"`
	UserContactID   string    `json:"user_contact_id"`
	OriginCode      string    `json:"origin_code"`
	DestinationCode string    `json:"destination_code"`
	TargetPrice     string    `json:"target_price"`
	IsActive        bool      `json:"is_active"`
	CreatedAt       time.Time `json:"created_at"`
}

type messageRequest struct {
	UserContactID string `json:"user_contact_id"`
	Text          string `json:"text"`
}

type messageResponse struct {
	Intent   domain.Intent          `json:"intent"`
	Entities domain.MessageEntities `json:"entities"`
	Reply    string                 `json:"reply"`
	Offers   []flightDTO            `json:"offers,omitempty"`
	Alert    *alertDTO              `json:"alert,omitempty"`
}

type evaluationResponse struct {
	Evaluated     int                   `json:"evaluated"`
	Notifications []domain.Notification `json:"notifications"`
	Failures      []failureDTO          `json:"failures"`
}

type failureDTO struct {
	AlertID uint   `json:"alert_id"`
	Error   string `json:"error"`
}

func toFlightDTOs(offers []domain.FlightOffer) []flightDTO {
	dtos := make([]flightDTO, 0, len(offers))
	for _, offer := range offers {
		dtos = append(dtos, flightDTO{
			Carrier:       offer.CarrierName,
			CarrierCode:   offer.CarrierCode,
			Origin:        offer.Origin,
			Destination:   offer.Destination,
			DepartureTime: offer.DepartureTime.Format("15:04"),
			ArrivalTime:   offer.ArrivalTime.Format("15:04"),
			Duration:      offer.Duration,
			Stops:         offer.Stops,
			Price:         domain.FormatAmount(offer.Price),
		})
	}
	return dtos
}

func toAlertDTO(alert *domain.PriceAlert) alertDTO {
	return alertDTO{
		ID:              alert.ID,
		UserContactID:   alert.UserContactID,
		OriginCode:      alert.OriginCode,
		DestinationCode: alert.DestinationCode,
		TargetPrice:     domain.FormatAmount(alert.TargetPrice),
		IsActive:        alert.IsActive,
		CreatedAt:       alert.CreatedAt,
	}
}

func toAlertDTOs(alerts []*domain.PriceAlert) []alertDTO {
	dtos := make([]alertDTO, 0, len(alerts))
	for _, alert := range alerts {
		dtos = append(dtos, toAlertDTO(alert))
	}
	return dtos
}

func toEvaluationResponse(result usecase.EvaluationResult) evaluationResponse {
	failures := make([]failureDTO, 0, len(result.Failures))
	for _, failure := range result.Failures {
		failures = append(failures, failureDTO{AlertID: failure.AlertID, Error: failure.Err.Error()})
	}
	notifications := result.Notifications
	if notifications == nil {
		notifications = []domain.Notification{}
	}
	return evaluationResponse{Evaluated: result.Evaluated, Notifications: notifications, Failures: failures}
}
