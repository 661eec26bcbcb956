package usecase

import (
	"context"
	"errors"
	"strings"

	"github.com/NasaVasa/farewatch/internal/domain"
)

var (
	ErrAlertNotFound = errors.New("alert not found")
	ErrAlertNotOwned = errors.New("alert belongs to another contact")
)

type AlertUsecase struct {
	alerts domain.AlertRepository
}

func NewAlertUsecase(alerts domain.AlertRepository) *AlertUsecase {
	return &AlertUsecase{alerts: alerts}
}

// CreateAlert validates the request and stores a new active alert. Field
// errors are reported as *ValidationError.
func (u *AlertUsecase) CreateAlert(ctx context.Context, contactID, origin, destination, targetPrice string) (*domain.PriceAlert, error) {
	alert, err := domain.NewPriceAlert(contactID, origin, destination, targetPrice)
	if err != nil {
		return nil, alertValidationError(err)
	}

	if err := u.alerts.Create(ctx, alert); err != nil {
		return nil, err
	}
	return alert, nil
}

func (u *AlertUsecase) ListAlerts(ctx context.Context, contactID string) ([]*domain.PriceAlert, error) {
	contactID = strings.TrimSpace(contactID)
	if contactID == "" {
		return nil, &ValidationError{Field: "user_contact_id", Reason: "required"}
	}
	return u.alerts.ListByContact(ctx, contactID)
}

func (u *AlertUsecase) DeleteAlert(ctx context.Context, contactID string, alertID uint) error {
	contactID = strings.TrimSpace(contactID)
	if contactID == "" {
		return &ValidationError{Field: "user_contact_id", Reason: "required"}
	}

	alert, err := u.alerts.GetByID(ctx, alertID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return ErrAlertNotFound
		}
		return err
	}
	if alert.UserContactID != contactID {
		return ErrAlertNotOwned
	}

	if err := u.alerts.Delete(ctx, contactID, alertID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return ErrAlertNotFound
		}
		return err
	}
	return nil
}

func alertValidationError(err error) error {
	switch {
	case errors.Is(err, domain.ErrInvalidContactID):
		return &ValidationError{Field: "user_contact_id", Reason: "must be 1 to 20 characters"}
	case errors.Is(err, domain.ErrInvalidOrigin):
		return &ValidationError{Field: "origin_code", Reason: "must be a 3-letter location code"}
	case errors.Is(err, domain.ErrInvalidDestination):
		return &ValidationError{Field: "destination_code", Reason: "must be a 3-letter location code"}
	case errors.Is(err, domain.ErrInvalidTargetPrice):
		return &ValidationError{Field: "target_price", Reason: "must be a non-negative amount with at most 2 decimals"}
	}
	return err
}
