package models

import "time"

// Skill is a named skill with an optional category and proficiency level.
type Skill struct {
	Base
	Name             string    `json:"name" gorm:"type:varchar(100);not null" validate:"required,max=100"`
	Category         string    `json:"category" gorm:"type:varchar(50)" validate:"max=50"`
	ProficiencyLevel *int      `json:"proficiency_level"`
	CreatedDate      time.Time `json:"created_date" gorm:"autoCreateTime"`
}
