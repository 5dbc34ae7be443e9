package workflow

import (
	"time"

	"github.com/google/uuid"
	"github.com/keramy/formulapmv2-sub001/internal/apperrors"
	"github.com/keramy/formulapmv2-sub001/internal/database"
	"github.com/keramy/formulapmv2-sub001/internal/models"
	"gorm.io/gorm"
)

// One adjacency table per resource type. The enums and legal edges differ per
// type and must not be collapsed into a shared machine.

var projectTransitions = map[models.ProjectStatus][]models.ProjectStatus{
	models.ProjectPlanning:  {models.ProjectActive, models.ProjectOnHold, models.ProjectCancelled},
	models.ProjectActive:    {models.ProjectCompleted, models.ProjectOnHold, models.ProjectCancelled},
	models.ProjectOnHold:    {models.ProjectActive, models.ProjectCancelled},
	models.ProjectCompleted: {},
	models.ProjectCancelled: {},
}

// Tasks and scope items share the same status enum and the same edges.
var taskTransitions = map[models.TaskStatus][]models.TaskStatus{
	models.TaskNotStarted: {models.TaskInProgress, models.TaskBlocked, models.TaskOnHold, models.TaskCancelled},
	models.TaskInProgress: {models.TaskCompleted, models.TaskBlocked, models.TaskOnHold, models.TaskCancelled},
	models.TaskBlocked:    {models.TaskInProgress, models.TaskOnHold, models.TaskCancelled},
	models.TaskOnHold:     {models.TaskInProgress, models.TaskBlocked, models.TaskCancelled},
	models.TaskCompleted:  {},
	models.TaskCancelled:  {},
}

var drawingTransitions = map[models.DrawingStatus][]models.DrawingStatus{
	models.DrawingPending:          {models.DrawingUnderReview},
	models.DrawingUnderReview:      {models.DrawingApproved, models.DrawingRevisionRequired, models.DrawingRejected},
	models.DrawingRevisionRequired: {models.DrawingUnderReview},
	models.DrawingApproved:         {},
	models.DrawingRejected:         {},
}

var materialTransitions = map[models.MaterialStatus][]models.MaterialStatus{
	models.MaterialPendingApproval:  {models.MaterialApproved, models.MaterialRejected, models.MaterialRevisionRequired},
	models.MaterialRevisionRequired: {models.MaterialPendingApproval},
	models.MaterialApproved:         {models.MaterialDiscontinued},
	models.MaterialRejected:         {},
	models.MaterialDiscontinued:     {},
}

var reportTransitions = map[models.ReportStatus][]models.ReportStatus{
	models.ReportDraft:     {models.ReportPublished},
	models.ReportPublished: {models.ReportArchived},
	models.ReportArchived:  {},
}

func CanTransitionProject(from, to models.ProjectStatus) bool {
	return containsProject(projectTransitions[from], to)
}

func CanTransitionTask(from, to models.TaskStatus) bool {
	return containsTask(taskTransitions[from], to)
}

func CanTransitionDrawing(from, to models.DrawingStatus) bool {
	return containsDrawing(drawingTransitions[from], to)
}

func CanTransitionMaterial(from, to models.MaterialStatus) bool {
	return containsMaterial(materialTransitions[from], to)
}

func CanTransitionReport(from, to models.ReportStatus) bool {
	return containsReport(reportTransitions[from], to)
}

func ValidateProjectTransition(from, to models.ProjectStatus) error {
	if _, known := projectTransitions[to]; !known {
		return apperrors.Validation("status", "Unknown project status: "+string(to))
	}
	if !CanTransitionProject(from, to) {
		return transitionError(string(from), string(to))
	}
	return nil
}

func ValidateTaskTransition(from, to models.TaskStatus) error {
	if _, known := taskTransitions[to]; !known {
		return apperrors.Validation("status", "Unknown task status: "+string(to))
	}
	if !CanTransitionTask(from, to) {
		return transitionError(string(from), string(to))
	}
	return nil
}

func ValidateDrawingTransition(from, to models.DrawingStatus) error {
	if _, known := drawingTransitions[to]; !known {
		return apperrors.Validation("status", "Unknown drawing status: "+string(to))
	}
	if !CanTransitionDrawing(from, to) {
		return transitionError(string(from), string(to))
	}
	return nil
}

func ValidateMaterialTransition(from, to models.MaterialStatus) error {
	if _, known := materialTransitions[to]; !known {
		return apperrors.Validation("status", "Unknown material status: "+string(to))
	}
	if !CanTransitionMaterial(from, to) {
		return transitionError(string(from), string(to))
	}
	return nil
}

func ValidateReportTransition(from, to models.ReportStatus) error {
	if _, known := reportTransitions[to]; !known {
		return apperrors.Validation("status", "Unknown report status: "+string(to))
	}
	if !CanTransitionReport(from, to) {
		return transitionError(string(from), string(to))
	}
	return nil
}

func transitionError(from, to string) error {
	return apperrors.Validation("status", "Cannot transition from "+from+" to "+to)
}

// RecordChange writes the audit row for a completed transition. Pass the
// transaction that carries the status write so both land together.
func RecordChange(tx *gorm.DB, resourceType string, resourceID uuid.UUID, from, to string, changedBy uuid.UUID, comment string) error {
	change := models.StatusChange{
		ResourceType: resourceType,
		ResourceID:   resourceID,
		FromStatus:   from,
		ToStatus:     to,
		ChangedBy:    changedBy,
		Comment:      comment,
	}
	return tx.Create(&change).Error
}

// History returns the recorded transitions for one resource, newest first.
func History(resourceType string, resourceID uuid.UUID) ([]models.StatusChange, error) {
	var changes []models.StatusChange
	err := database.DB.
		Where("resource_type = ? AND resource_id = ?", resourceType, resourceID).
		Order("created_at DESC").
		Preload("User").
		Find(&changes).Error
	if err != nil {
		return nil, apperrors.Access(apperrors.AccessInternal, err)
	}
	return changes, nil
}

// HistoryEntry is the API shape of one audit row.
type HistoryEntry struct {
	ID            uuid.UUID `json:"id"`
	FromStatus    string    `json:"from_status"`
	ToStatus      string    `json:"to_status"`
	ChangedBy     uuid.UUID `json:"changed_by"`
	ChangedByName string    `json:"changed_by_name,omitempty"`
	Comment       string    `json:"comment,omitempty"`
	CreatedAt     string    `json:"created_at"`
}

func ShapeHistory(changes []models.StatusChange) []HistoryEntry {
	entries := make([]HistoryEntry, 0, len(changes))
	for _, change := range changes {
		entry := HistoryEntry{
			ID:         change.ID,
			FromStatus: change.FromStatus,
			ToStatus:   change.ToStatus,
			ChangedBy:  change.ChangedBy,
			Comment:    change.Comment,
			CreatedAt:  change.CreatedAt.Format(time.RFC3339),
		}
		if change.User != nil {
			entry.ChangedByName = change.User.FullName()
		}
		entries = append(entries, entry)
	}
	return entries
}

func containsProject(list []models.ProjectStatus, s models.ProjectStatus) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func containsTask(list []models.TaskStatus, s models.TaskStatus) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func containsDrawing(list []models.DrawingStatus, s models.DrawingStatus) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func containsMaterial(list []models.MaterialStatus, s models.MaterialStatus) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func containsReport(list []models.ReportStatus, s models.ReportStatus) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
