package models

import "time"

// Certification is a certificate or credential held by the site owner.
type Certification struct {
	Base
	Name        string    `json:"name" gorm:"type:varchar(100);not null" validate:"required,max=100"`
	Level       string    `json:"level" gorm:"type:varchar(50)" validate:"max=50"`
	ImageURL    string    `json:"image_url" gorm:"type:varchar(200)"`
	CreatedDate time.Time `json:"created_date" gorm:"autoCreateTime"`
}
