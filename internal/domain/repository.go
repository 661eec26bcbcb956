package domain

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("not found")

type AlertRepository interface {
	Create(ctx context.Context, alert *PriceAlert) error
	GetByID(ctx context.Context, alertID uint) (*PriceAlert, error)
	ListActive(ctx context.Context) ([]*PriceAlert, error)
	ListByContact(ctx context.Context, contactID string) ([]*PriceAlert, error)
	// Deactivate flips is_active from true to false. It reports false when
	// the alert was already inactive, so only one caller ever wins.
	Deactivate(ctx context.Context, alertID uint) (bool, error)
	Delete(ctx context.Context, contactID string, alertID uint) error
}
