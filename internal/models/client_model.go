package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Client struct {
	ID            uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	CompanyName   string         `gorm:"size:200;index" json:"company_name"`
	ContactPerson string         `gorm:"size:100;index" json:"contact_person"`
	Email         string         `gorm:"size:100;index" json:"email,omitempty"`
	Phone         string         `gorm:"size:50" json:"phone,omitempty"`
	Address       string         `gorm:"size:255" json:"address,omitempty"`
	City          string         `gorm:"size:100" json:"city,omitempty"`
	State         string         `gorm:"size:100" json:"state,omitempty"`
	Country       string         `gorm:"size:100;default:'USA'" json:"country"`
	Notes         string         `gorm:"type:text" json:"notes,omitempty"`
	CreatedBy     uuid.UUID      `gorm:"type:uuid;index" json:"created_by"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
}

func (c *Client) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}
