package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Clinician is an account allowed to record submissions.
type Clinician struct {
	ID           string    `gorm:"type:uuid;primaryKey" json:"id"`
	Username     string    `gorm:"type:varchar(100);unique;not null" json:"username"`
	Email        string    `gorm:"type:varchar(255);unique;not null" json:"email"`
	Name         string    `gorm:"type:varchar(200);not null" json:"name"`
	PasswordHash string    `gorm:"column:password_hash;type:varchar(255);not null" json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

func (Clinician) TableName() string {
	return "clinicians"
}

func (c *Clinician) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	return nil
}
