package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Task struct {
	ID          uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	ProjectID   uuid.UUID      `gorm:"type:uuid;index" json:"project_id"`
	Project     *Project       `gorm:"foreignKey:ProjectID" json:"project,omitempty"`
	Title       string         `gorm:"size:200;index" json:"title"`
	Description string         `gorm:"type:text" json:"description,omitempty"`
	Status      TaskStatus     `gorm:"type:task_status;default:'not_started';index" json:"status"`
	Priority    string         `gorm:"size:20;default:'medium'" json:"priority"` // low, medium, high, urgent
	AssignedTo  *uuid.UUID     `gorm:"type:uuid;index" json:"assigned_to,omitempty"`
	Assignee    *UserProfile   `gorm:"foreignKey:AssignedTo" json:"assignee,omitempty"`
	DueDate     *time.Time     `json:"due_date,omitempty"`
	CreatedBy   uuid.UUID      `gorm:"type:uuid;index" json:"created_by"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

func (t *Task) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}
