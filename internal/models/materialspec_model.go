package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type MaterialSpec struct {
	ID           uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	ProjectID    uuid.UUID       `gorm:"type:uuid;index" json:"project_id"`
	Project      *Project        `gorm:"foreignKey:ProjectID" json:"project,omitempty"`
	Name         string          `gorm:"size:200;index" json:"name"`
	Category     string          `gorm:"size:100;index" json:"category,omitempty"`
	Manufacturer string          `gorm:"size:100" json:"manufacturer,omitempty"`
	Model        string          `gorm:"size:100" json:"model,omitempty"`
	Specs        datatypes.JSON  `json:"specs,omitempty"` // free-form attributes: finish, dimensions, fire rating, ...
	Quantity     decimal.Decimal `gorm:"type:numeric(12,2)" json:"quantity"`
	UnitCost     decimal.Decimal `gorm:"type:numeric(14,2)" json:"unit_cost"`
	SupplierID   *uuid.UUID      `gorm:"type:uuid;index" json:"supplier_id,omitempty"`
	Supplier     *Supplier       `gorm:"foreignKey:SupplierID" json:"supplier,omitempty"`
	Status       MaterialStatus  `gorm:"type:material_status;default:'pending_approval';index" json:"status"`
	ApprovedBy   *uuid.UUID      `gorm:"type:uuid" json:"approved_by,omitempty"`
	ApprovedAt   *time.Time      `json:"approved_at,omitempty"`
	CreatedBy    uuid.UUID       `gorm:"type:uuid;index" json:"created_by"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
	DeletedAt    gorm.DeletedAt  `gorm:"index" json:"-"`
}

func (m *MaterialSpec) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}
