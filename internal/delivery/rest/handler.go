package rest

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/NasaVasa/farewatch/internal/usecase"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

const maxBodyBytes = 1 << 20

// Evaluator runs one alert evaluation pass and dispatches its notifications.
type Evaluator interface {
	RunOnce(ctx context.Context) usecase.EvaluationResult
}

type Handler struct {
	search    *usecase.SearchUsecase
	alerts    *usecase.AlertUsecase
	messages  *usecase.MessageUsecase
	evaluator Evaluator
	logger    *zap.Logger
}

func NewHandler(search *usecase.SearchUsecase, alerts *usecase.AlertUsecase, messages *usecase.MessageUsecase, evaluator Evaluator, logger *zap.Logger) *Handler {
	return &Handler{search: search, alerts: alerts, messages: messages, evaluator: evaluator, logger: logger}
}

func (h *Handler) SearchFlights(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	origin, destination, date := query.Get("origem"), query.Get("destino"), query.Get("data")
	if origin == "" || destination == "" || date == "" {
		writeRaw(w, http.StatusBadRequest, searchError{Error: "Parâmetros 'origem', 'destino' e 'data' são obrigatórios."})
		return
	}

	offers, err := h.search.Search(r.Context(), usecase.SearchRequest{Origin: origin, Destination: destination, Date: date})
	if err != nil {
		status := statusFor(err)
		if status == http.StatusInternalServerError {
			h.logger.Error("flight search failed", zap.Error(err))
			writeRaw(w, status, searchError{Error: "internal error"})
			return
		}
		writeRaw(w, status, searchError{Error: err.Error()})
		return
	}

	writeRaw(w, http.StatusOK, searchResponse{
		Route:   strings.ToUpper(strings.TrimSpace(origin)) + " -> " + strings.ToUpper(strings.TrimSpace(destination)),
		Date:    strings.TrimSpace(date),
		Options: toFlightDTOs(offers),
	})
}

func (h *Handler) CreateAlert(w http.ResponseWriter, r *http.Request) {
	var req createAlertRequest
	if !h.decode(w, r, &req) {
		return
	}

	alert, err := h.alerts.CreateAlert(r.Context(), req.UserContactID, req.OriginCode, req.DestinationCode, string(req.TargetPrice))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toAlertDTO(alert))
}

func (h *Handler) ListAlerts(w http.ResponseWriter, r *http.Request) {
	alerts, err := h.alerts.ListAlerts(r.Context(), r.URL.Query().Get("user_contact_id"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toAlertDTOs(alerts))
}

func (h *Handler) DeleteAlert(w http.ResponseWriter, r *http.Request) {
	alertID, err := strconv.ParseUint(chi.URLParam(r, "id"), 10, 64)
	if err != nil || alertID == 0 {
		writeMessage(w, http.StatusBadRequest, "invalid alert id")
		return
	}

	if err := h.alerts.DeleteAlert(r.Context(), r.URL.Query().Get("user_contact_id"), uint(alertID)); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) EvaluateAlerts(w http.ResponseWriter, r *http.Request) {
	result := h.evaluator.RunOnce(r.Context())
	writeJSON(w, http.StatusOK, toEvaluationResponse(result))
}

func (h *Handler) HandleMessage(w http.ResponseWriter, r *http.Request) {
	var req messageRequest
	if !h.decode(w, r, &req) {
		return
	}
	if req.UserContactID == "" {
		writeMessage(w, http.StatusBadRequest, "invalid user_contact_id: required")
		return
	}

	result, err := h.messages.Handle(r.Context(), req.UserContactID, req.Text)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	response := messageResponse{Intent: result.Intent, Entities: result.Entities, Reply: result.Reply}
	if len(result.Offers) > 0 {
		response.Offers = toFlightDTOs(result.Offers)
	}
	if result.Alert != nil {
		alert := toAlertDTO(result.Alert)
		response.Alert = &alert
	}
	writeJSON(w, http.StatusOK, response)
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, target interface{}) bool {
	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(target); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}
