package models

import "time"

// User is an account that may sign in to the admin console.
type User struct {
	Base
	Username     string    `json:"username" gorm:"uniqueIndex;type:varchar(80);not null" validate:"required,max=80"`
	PasswordHash string    `json:"-" gorm:"type:varchar(255);not null"` // never serialized
	IsAdmin      bool      `json:"is_admin" gorm:"not null;default:false"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
