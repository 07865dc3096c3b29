package models

import "time"

// Project is a portfolio entry. Technologies is a comma-delimited tag list.
type Project struct {
	Base
	Title        string    `json:"title" gorm:"type:varchar(100);not null" validate:"required,max=100"`
	Description  string    `json:"description" gorm:"type:text;not null" validate:"required"`
	Technologies string    `json:"technologies" gorm:"type:varchar(200)" validate:"max=200"`
	ImageURL     string    `json:"image_url" gorm:"type:varchar(200)"`
	ProjectURL   string    `json:"project_url" gorm:"type:varchar(200)"`
	CreatedDate  time.Time `json:"created_date" gorm:"autoCreateTime"`
}
