package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Project struct {
	ID               uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	Name             string          `gorm:"size:200;index" json:"name"`
	Code             string          `gorm:"size:50;uniqueIndex" json:"code"`
	Description      string          `gorm:"type:text" json:"description,omitempty"`
	Status           ProjectStatus   `gorm:"type:project_status;default:'planning';index" json:"status"`
	ClientID         *uuid.UUID      `gorm:"type:uuid;index" json:"client_id,omitempty"`
	Client           *Client         `gorm:"foreignKey:ClientID" json:"client,omitempty"`
	ProjectManagerID *uuid.UUID      `gorm:"type:uuid;index" json:"project_manager_id,omitempty"`
	ProjectManager   *UserProfile    `gorm:"foreignKey:ProjectManagerID" json:"project_manager,omitempty"`
	Budget           decimal.Decimal `gorm:"type:numeric(14,2)" json:"budget"`
	StartDate        *time.Time      `json:"start_date,omitempty"`
	EndDate          *time.Time      `json:"end_date,omitempty"`
	CreatedBy        uuid.UUID       `gorm:"type:uuid;index" json:"created_by"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
	DeletedAt        gorm.DeletedAt  `gorm:"index" json:"-"`
}

func (p *Project) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// ProjectAssignment links a user to a project team. Scoped list queries treat
// assignment as the membership test for non-management actors.
type ProjectAssignment struct {
	ID            uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	ProjectID     uuid.UUID      `gorm:"type:uuid;index:idx_project_user" json:"project_id"`
	UserID        uuid.UUID      `gorm:"type:uuid;index:idx_project_user" json:"user_id"`
	RoleInProject string         `gorm:"size:50" json:"role_in_project,omitempty"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
}

func (a *ProjectAssignment) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}
