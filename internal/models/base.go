package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Base carries the UUID primary key shared by every table.
type Base struct {
	ID string `json:"id" gorm:"primaryKey;type:varchar(36)"`
}

// BeforeCreate assigns a new UUID when the record has none.
func (b *Base) BeforeCreate(tx *gorm.DB) error {
	if b.ID == "" {
		b.ID = uuid.New().String()
	}
	return nil
}

// All returns one zero value of every persisted model, in migration order.
func All() []any {
	return []any{
		&User{},
		&Project{},
		&Profile{},
		&Certification{},
		&Education{},
		&Skill{},
		&RevokedSession{},
	}
}
