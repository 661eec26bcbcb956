package domain

import "context"

// Notification is produced once per triggered alert. Prices are decimal
// strings so they survive any transport unchanged.
type Notification struct {
	AlertID       uint   `json:"alert_id"`
	UserContactID string `json:"user_contact_id"`
	Origin        string `json:"origin"`
	Destination   string `json:"destination"`
	TargetPrice   string `json:"target_price"`
	FoundPrice    string `json:"found_price"`
}

type Notifier interface {
	Notify(ctx context.Context, notification Notification) error
}
