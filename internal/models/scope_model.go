package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type ScopeItem struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	ProjectID   uuid.UUID       `gorm:"type:uuid;index" json:"project_id"`
	Project     *Project        `gorm:"foreignKey:ProjectID" json:"project,omitempty"`
	ItemNo      int             `gorm:"index" json:"item_no"`
	Category    string          `gorm:"size:50;index" json:"category"` // construction, millwork, electrical, mechanical
	Description string          `gorm:"type:text" json:"description"`
	Quantity    decimal.Decimal `gorm:"type:numeric(12,2)" json:"quantity"`
	UnitPrice   decimal.Decimal `gorm:"type:numeric(14,2)" json:"unit_price"`
	TotalPrice  decimal.Decimal `gorm:"type:numeric(14,2)" json:"total_price"`
	SupplierID  *uuid.UUID      `gorm:"type:uuid;index" json:"supplier_id,omitempty"`
	Supplier    *Supplier       `gorm:"foreignKey:SupplierID" json:"supplier,omitempty"`
	Status      TaskStatus      `gorm:"type:task_status;default:'not_started';index" json:"status"`
	AssignedTo  *uuid.UUID      `gorm:"type:uuid;index" json:"assigned_to,omitempty"`
	Assignee    *UserProfile    `gorm:"foreignKey:AssignedTo" json:"assignee,omitempty"`
	CreatedBy   uuid.UUID       `gorm:"type:uuid;index" json:"created_by"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
	DeletedAt   gorm.DeletedAt  `gorm:"index" json:"-"`
}

func (s *ScopeItem) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}
