package model

import "time"

// PushSubscription holds a browser push subscription registered by a field owner.
type PushSubscription struct {
	Endpoint  string    `gorm:"primaryKey"`
	P256DH    string    `gorm:"column:p256dh;not null"`
	Auth      string    `gorm:"not null"`
	FieldID   int64     `gorm:"column:cancha_id;index;not null"`
	CreatedAt time.Time `gorm:"not null"`
}
