package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Supplier struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	Name          string          `gorm:"size:200;index" json:"name"`
	ContactPerson string          `gorm:"size:100" json:"contact_person,omitempty"`
	Email         string          `gorm:"size:100;index" json:"email,omitempty"`
	Phone         string          `gorm:"size:50" json:"phone,omitempty"`
	Specialty     string          `gorm:"size:100;index" json:"specialty,omitempty"`
	TotalPayments decimal.Decimal `gorm:"type:numeric(14,2)" json:"total_payments"`
	CreatedBy     uuid.UUID       `gorm:"type:uuid;index" json:"created_by"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
	DeletedAt     gorm.DeletedAt  `gorm:"index" json:"-"`
}

func (s *Supplier) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}
