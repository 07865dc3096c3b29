package models

import "time"

// RevokedSession records a signed-out session token until it would have
// expired on its own.
type RevokedSession struct {
	JTI       string    `gorm:"primaryKey;type:varchar(36)"`
	ExpiresAt time.Time `gorm:"index;not null"`
}
