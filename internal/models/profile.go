package models

import "time"

// Profile is the site owner's summary. The public API reads the first row.
type Profile struct {
	Base
	Summary     string    `json:"summary" gorm:"type:text"`
	ImageURL    string    `json:"image_url" gorm:"type:varchar(200)"`
	UpdatedDate time.Time `json:"updated_date" gorm:"autoUpdateTime"`
}
