package models

import "time"

// Education is a degree or course of study.
type Education struct {
	Base
	Institution  string     `json:"institution" gorm:"type:varchar(200);not null" validate:"required,max=200"`
	Degree       string     `json:"degree" gorm:"type:varchar(100);not null" validate:"required,max=100"`
	FieldOfStudy string     `json:"field_of_study" gorm:"type:varchar(100)" validate:"max=100"`
	StartDate    *time.Time `json:"start_date"`
	EndDate      *time.Time `json:"end_date"`
	Grade        string     `json:"grade" gorm:"type:varchar(20)" validate:"max=20"`
	Description  string     `json:"description" gorm:"type:text"`
}

// TableName keeps the singular table name; "education" has no plural.
func (Education) TableName() string {
	return "education"
}
