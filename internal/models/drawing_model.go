package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ShopDrawing struct {
	ID            uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	ProjectID     uuid.UUID      `gorm:"type:uuid;index" json:"project_id"`
	Project       *Project       `gorm:"foreignKey:ProjectID" json:"project,omitempty"`
	DrawingNumber string         `gorm:"size:50;index" json:"drawing_number"`
	Title         string         `gorm:"size:200" json:"title"`
	Discipline    string         `gorm:"size:50;index" json:"discipline"` // architectural, structural, mechanical, electrical, millwork
	Revision      string         `gorm:"size:10;default:'A'" json:"revision"`
	Status        DrawingStatus  `gorm:"type:drawing_status;default:'pending';index" json:"status"`
	FileURL       string         `gorm:"size:500" json:"file_url,omitempty"`
	FileSize      int64          `json:"file_size,omitempty"`
	AssignedTo    *uuid.UUID     `gorm:"type:uuid;index" json:"assigned_to,omitempty"`
	Reviewer      *UserProfile   `gorm:"foreignKey:AssignedTo" json:"reviewer,omitempty"`
	ReviewComment string         `gorm:"type:text" json:"review_comment,omitempty"`
	ReviewedBy    *uuid.UUID     `gorm:"type:uuid" json:"reviewed_by,omitempty"`
	ReviewedAt    *time.Time     `json:"reviewed_at,omitempty"`
	CreatedBy     uuid.UUID      `gorm:"type:uuid;index" json:"created_by"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
}

func (d *ShopDrawing) BeforeCreate(tx *gorm.DB) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	return nil
}
