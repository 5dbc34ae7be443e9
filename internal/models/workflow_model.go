package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Status enums are deliberately separate per resource type; the legal edges
// differ and must not be merged into one shared machine.

type ProjectStatus string

const (
	ProjectPlanning  ProjectStatus = "planning"
	ProjectActive    ProjectStatus = "active"
	ProjectOnHold    ProjectStatus = "on_hold"
	ProjectCompleted ProjectStatus = "completed"
	ProjectCancelled ProjectStatus = "cancelled"
)

type TaskStatus string

const (
	TaskNotStarted TaskStatus = "not_started"
	TaskInProgress TaskStatus = "in_progress"
	TaskCompleted  TaskStatus = "completed"
	TaskBlocked    TaskStatus = "blocked"
	TaskOnHold     TaskStatus = "on_hold"
	TaskCancelled  TaskStatus = "cancelled"
)

type DrawingStatus string

const (
	DrawingPending          DrawingStatus = "pending"
	DrawingUnderReview      DrawingStatus = "under_review"
	DrawingApproved         DrawingStatus = "approved"
	DrawingRevisionRequired DrawingStatus = "revision_required"
	DrawingRejected         DrawingStatus = "rejected"
)

type MaterialStatus string

const (
	MaterialPendingApproval  MaterialStatus = "pending_approval"
	MaterialApproved         MaterialStatus = "approved"
	MaterialRejected         MaterialStatus = "rejected"
	MaterialRevisionRequired MaterialStatus = "revision_required"
	MaterialDiscontinued     MaterialStatus = "discontinued"
)

type ReportStatus string

const (
	ReportDraft     ReportStatus = "draft"
	ReportPublished ReportStatus = "published"
	ReportArchived  ReportStatus = "archived"
)

func AllProjectStatuses() []string {
	return []string{
		string(ProjectPlanning), string(ProjectActive), string(ProjectOnHold),
		string(ProjectCompleted), string(ProjectCancelled),
	}
}

func AllTaskStatuses() []string {
	return []string{
		string(TaskNotStarted), string(TaskInProgress), string(TaskCompleted),
		string(TaskBlocked), string(TaskOnHold), string(TaskCancelled),
	}
}

func AllDrawingStatuses() []string {
	return []string{
		string(DrawingPending), string(DrawingUnderReview), string(DrawingApproved),
		string(DrawingRevisionRequired), string(DrawingRejected),
	}
}

func AllMaterialStatuses() []string {
	return []string{
		string(MaterialPendingApproval), string(MaterialApproved), string(MaterialRejected),
		string(MaterialRevisionRequired), string(MaterialDiscontinued),
	}
}

func AllReportStatuses() []string {
	return []string{
		string(ReportDraft), string(ReportPublished), string(ReportArchived),
	}
}

func EnsureStatusEnums(db *gorm.DB) error {
	return db.Exec(`
		DO $$
		BEGIN
			IF NOT EXISTS (SELECT 1 FROM pg_type WHERE typname = 'project_status') THEN
				CREATE TYPE project_status AS ENUM (
					'planning', 'active', 'on_hold', 'completed', 'cancelled'
				);
			END IF;
			IF NOT EXISTS (SELECT 1 FROM pg_type WHERE typname = 'task_status') THEN
				CREATE TYPE task_status AS ENUM (
					'not_started', 'in_progress', 'completed', 'blocked', 'on_hold', 'cancelled'
				);
			END IF;
			IF NOT EXISTS (SELECT 1 FROM pg_type WHERE typname = 'drawing_status') THEN
				CREATE TYPE drawing_status AS ENUM (
					'pending', 'under_review', 'approved', 'revision_required', 'rejected'
				);
			END IF;
			IF NOT EXISTS (SELECT 1 FROM pg_type WHERE typname = 'material_status') THEN
				CREATE TYPE material_status AS ENUM (
					'pending_approval', 'approved', 'rejected', 'revision_required', 'discontinued'
				);
			END IF;
			IF NOT EXISTS (SELECT 1 FROM pg_type WHERE typname = 'report_status') THEN
				CREATE TYPE report_status AS ENUM (
					'draft', 'published', 'archived'
				);
			END IF;
		END
		$$;
	`).Error
}

// StatusChange is the audit row written on every status transition, for any
// resource type.
type StatusChange struct {
	ID           uuid.UUID      `gorm:"primaryKey;type:uuid" json:"id"`
	ResourceType string         `gorm:"size:50;index:idx_status_change_resource" json:"resource_type"`
	ResourceID   uuid.UUID      `gorm:"type:uuid;index:idx_status_change_resource" json:"resource_id"`
	FromStatus   string         `gorm:"size:50" json:"from_status"`
	ToStatus     string         `gorm:"size:50" json:"to_status"`
	ChangedBy    uuid.UUID      `gorm:"type:uuid;index" json:"changed_by"`
	User         *UserProfile   `gorm:"foreignKey:ChangedBy" json:"user,omitempty"`
	Comment      string         `gorm:"type:text" json:"comment,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

func (s *StatusChange) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}
