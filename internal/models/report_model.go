package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Report struct {
	ID          uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	ProjectID   uuid.UUID      `gorm:"type:uuid;index" json:"project_id"`
	Project     *Project       `gorm:"foreignKey:ProjectID" json:"project,omitempty"`
	Title       string         `gorm:"size:200;index" json:"title"`
	Type        string         `gorm:"size:50;index" json:"type"` // daily, weekly, incident, financial
	Status      ReportStatus   `gorm:"type:report_status;default:'draft';index" json:"status"`
	Summary     string         `gorm:"size:500" json:"summary,omitempty"`
	Body        string         `gorm:"type:text" json:"body,omitempty"` // sanitized HTML
	ReportDate  *time.Time     `json:"report_date,omitempty"`
	PublishedAt *time.Time     `json:"published_at,omitempty"`
	Lines       []ReportLine   `gorm:"foreignKey:ReportID" json:"lines,omitempty"`
	CreatedBy   uuid.UUID      `gorm:"type:uuid;index" json:"created_by"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

func (r *Report) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

type ReportLine struct {
	ID          uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	ReportID    uuid.UUID      `gorm:"type:uuid;index" json:"report_id"`
	LineNo      int            `json:"line_no"`
	Description string         `gorm:"type:text" json:"description"`
	PhotoURL    string         `gorm:"size:500" json:"photo_url,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

func (l *ReportLine) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}
