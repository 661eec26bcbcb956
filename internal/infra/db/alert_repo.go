package db

import (
	"context"
	"errors"

	"github.com/NasaVasa/farewatch/internal/domain"
	"gorm.io/gorm"
)

type AlertRepository struct {
	db *gorm.DB
}

func NewAlertRepository(db *gorm.DB) *AlertRepository {
	return &AlertRepository{db: db}
}

func (r *AlertRepository) Create(ctx context.Context, alert *domain.PriceAlert) error {
	model := mapAlertToModel(*alert)
	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		return err
	}
	alert.ID = model.ID
	alert.CreatedAt = model.CreatedAt
	return nil
}

func (r *AlertRepository) GetByID(ctx context.Context, alertID uint) (*domain.PriceAlert, error) {
	var model alertModel
	if err := r.db.WithContext(ctx).First(&model, alertID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	alert := mapAlertToDomain(model)
	return &alert, nil
}

// ListActive returns active alerts in creation order.
func (r *AlertRepository) ListActive(ctx context.Context) ([]*domain.PriceAlert, error) {
	var models []alertModel
	if err := r.db.WithContext(ctx).Where("is_active = ?", true).Order("id").Find(&models).Error; err != nil {
		return nil, err
	}
	return mapAlertsToDomain(models), nil
}

func (r *AlertRepository) ListByContact(ctx context.Context, contactID string) ([]*domain.PriceAlert, error) {
	var models []alertModel
	if err := r.db.WithContext(ctx).Where("user_contact_id = ?", contactID).Order("id").Find(&models).Error; err != nil {
		return nil, err
	}
	return mapAlertsToDomain(models), nil
}

// Deactivate only updates rows that are still active, so two evaluation runs
// racing on the same alert cannot both observe the transition.
func (r *AlertRepository) Deactivate(ctx context.Context, alertID uint) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&alertModel{}).
		Where("id = ?", alertID).
		Where("is_active = ?", true).
		Update("is_active", false)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

func (r *AlertRepository) Delete(ctx context.Context, contactID string, alertID uint) error {
	result := r.db.WithContext(ctx).
		Where("id = ?", alertID).
		Where("user_contact_id = ?", contactID).
		Delete(&alertModel{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func mapAlertsToDomain(models []alertModel) []*domain.PriceAlert {
	alerts := make([]*domain.PriceAlert, 0, len(models))
	for _, model := range models {
		alert := mapAlertToDomain(model)
		alerts = append(alerts, &alert)
	}
	return alerts
}

func mapAlertToDomain(model alertModel) domain.PriceAlert {
	return domain.PriceAlert{
		ID:              model.ID,
		UserContactID:   model.UserContactID,
		OriginCode:      model.OriginCode,
		DestinationCode: model.DestinationCode,
		TargetPrice:     model.TargetPrice,
		CreatedAt:       model.CreatedAt,
		IsActive:        model.IsActive,
	}
}

func mapAlertToModel(alert domain.PriceAlert) alertModel {
	return alertModel{
		ID:              alert.ID,
		UserContactID:   alert.UserContactID,
		OriginCode:      alert.OriginCode,
		DestinationCode: alert.DestinationCode,
		TargetPrice:     alert.TargetPrice,
		IsActive:        alert.IsActive,
		CreatedAt:       alert.CreatedAt,
	}
}
