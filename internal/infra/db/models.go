package db

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type alertModel struct {
	ID              uint            `gorm:"primaryKey"`
	UserContactID   string          `gorm:"size:20;not null;index"`
	OriginCode      string          `gorm:"size:3;not null"`
	DestinationCode string          `gorm:"size:3;not null"`
	TargetPrice     decimal.Decimal `gorm:"type:numeric(10,2);not null"`
	IsActive        bool            `gorm:"not null;default:true;index"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
	DeletedAt       gorm.DeletedAt `gorm:"index"`
}

func (alertModel) TableName() string {
	return "price_alerts"
}
