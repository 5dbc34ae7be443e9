package report

import (
	"errors"
	"mime/multipart"
	"time"

	"github.com/google/uuid"
	"github.com/keramy/formulapmv2-sub001/internal/apperrors"
	"github.com/keramy/formulapmv2-sub001/internal/database"
	"github.com/keramy/formulapmv2-sub001/internal/models"
	"github.com/keramy/formulapmv2-sub001/internal/notify"
	"github.com/keramy/formulapmv2-sub001/internal/permissions"
	"github.com/keramy/formulapmv2-sub001/internal/query"
	"github.com/keramy/formulapmv2-sub001/internal/store"
	"github.com/keramy/formulapmv2-sub001/internal/utils"
	"github.com/keramy/formulapmv2-sub001/internal/workflow"
	"github.com/microcosm-cc/bluemonday"
	"gorm.io/gorm"
)

const resourceLabel = "reports"

var validTypes = []string{"daily", "weekly", "incident", "financial"}

// Report bodies arrive as HTML from the editor and are persisted sanitized.
var htmlPolicy = bluemonday.UGCPolicy()

func ListReports(actor permissions.Actor, params query.Params) ([]models.Report, int64, error) {
	q, err := query.Build(permissions.ResourceReports, actor, params)
	if err != nil {
		return nil, 0, err
	}

	var reports []models.Report
	if err := store.List(q, &reports, "Project"); err != nil {
		return nil, 0, err
	}

	total := int64(len(reports))
	if q.Limit > 0 {
		total, err = store.Count(q, &models.Report{})
		if err != nil {
			return nil, 0, err
		}
	}

	return reports, total, nil
}

func GetReport(actor permissions.Actor, id uuid.UUID) (*models.Report, error) {
	q, err := query.Build(permissions.ResourceReports, actor, query.Params{})
	if err != nil {
		return nil, err
	}

	var report models.Report
	if err := store.Get(q, id, &report, "Project", "Lines"); err != nil {
		return nil, err
	}
	return &report, nil
}

func projectInScope(actor permissions.Actor, projectID uuid.UUID) error {
	q, err := query.Build(permissions.ResourceProjects, actor, query.Params{})
	if err != nil {
		return err
	}
	var project models.Project
	if err := store.Get(q, projectID, &project); err != nil {
		var accErr *apperrors.AccessError
		if errors.As(err, &accErr) && accErr.Kind == apperrors.AccessNotFound {
			return apperrors.Validation("project_id", "Project does not exist")
		}
		return err
	}
	return nil
}

type ReportInput struct {
	ProjectID  uuid.UUID
	Title      string
	Type       string
	Summary    string
	Body       string
	ReportDate *time.Time
}

func CreateReport(actor permissions.Actor, input ReportInput) (*models.Report, error) {
	if input.Title == "" {
		return nil, apperrors.Validation("title", "Title is required")
	}
	if input.ProjectID == uuid.Nil {
		return nil, apperrors.Validation("project_id", "Project is required")
	}
	if err := projectInScope(actor, input.ProjectID); err != nil {
		return nil, err
	}
	if input.Type != "" && !validType(input.Type) {
		return nil, apperrors.Validation("type", "Type must be one of: daily, weekly, incident, financial")
	}

	report := &models.Report{
		ProjectID:  input.ProjectID,
		Title:      input.Title,
		Type:       input.Type,
		Summary:    input.Summary,
		Body:       htmlPolicy.Sanitize(input.Body),
		ReportDate: input.ReportDate,
		CreatedBy:  actor.ID,
	}

	if err := store.Create(report); err != nil {
		return nil, err
	}
	return GetReport(actor, report.ID)
}

type ReportUpdate struct {
	Title      *string
	Type       *string
	Summary    *string
	Body       *string
	ReportDate *time.Time
}

func UpdateReport(actor permissions.Actor, id uuid.UUID, update ReportUpdate) (*models.Report, error) {
	report, err := GetReport(actor, id)
	if err != nil {
		return nil, err
	}
	if report.Status != models.ReportDraft {
		return nil, apperrors.Conflict("Only draft reports can be edited")
	}

	if update.Title != nil {
		if *update.Title == "" {
			return nil, apperrors.Validation("title", "Title cannot be empty")
		}
		report.Title = *update.Title
	}
	if update.Type != nil {
		if !validType(*update.Type) {
			return nil, apperrors.Validation("type", "Type must be one of: daily, weekly, incident, financial")
		}
		report.Type = *update.Type
	}
	if update.Summary != nil {
		report.Summary = *update.Summary
	}
	if update.Body != nil {
		report.Body = htmlPolicy.Sanitize(*update.Body)
	}
	if update.ReportDate != nil {
		report.ReportDate = update.ReportDate
	}

	if err := store.Save(report); err != nil {
		return nil, err
	}
	return GetReport(actor, report.ID)
}

func DeleteReport(actor permissions.Actor, id uuid.UUID) error {
	report, err := GetReport(actor, id)
	if err != nil {
		return err
	}
	if report.Status == models.ReportPublished {
		return apperrors.Conflict("Published reports cannot be deleted")
	}
	return store.Delete(report)
}

func ChangeReportStatus(actor permissions.Actor, id uuid.UUID, to models.ReportStatus, comment string) (*models.Report, error) {
	report, err := GetReport(actor, id)
	if err != nil {
		return nil, err
	}

	from := report.Status
	if err := workflow.ValidateReportTransition(from, to); err != nil {
		return nil, err
	}

	err = store.WithTransaction(func(tx *gorm.DB) error {
		updates := map[string]interface{}{"status": to}
		if to == models.ReportPublished {
			now := time.Now()
			updates["published_at"] = now
		}
		if err := tx.Model(report).Updates(updates).Error; err != nil {
			return err
		}
		return workflow.RecordChange(tx, resourceLabel, report.ID, string(from), string(to), actor.ID, comment)
	})
	if err != nil {
		return nil, err
	}

	notify.BroadcastStatusChange(resourceLabel, report.ID, string(from), string(to), actor.ID)

	return GetReport(actor, report.ID)
}

func PublishReport(actor permissions.Actor, id uuid.UUID) (*models.Report, error) {
	return ChangeReportStatus(actor, id, models.ReportPublished, "")
}

func ArchiveReport(actor permissions.Actor, id uuid.UUID) (*models.Report, error) {
	return ChangeReportStatus(actor, id, models.ReportArchived, "")
}

func ReportHistory(actor permissions.Actor, id uuid.UUID) ([]models.StatusChange, error) {
	if _, err := GetReport(actor, id); err != nil {
		return nil, err
	}
	return workflow.History(resourceLabel, id)
}

// AddReportLine appends a numbered line to a draft report.
func AddReportLine(actor permissions.Actor, reportID uuid.UUID, description string) (*models.ReportLine, error) {
	if description == "" {
		return nil, apperrors.Validation("description", "Description is required")
	}

	report, err := GetReport(actor, reportID)
	if err != nil {
		return nil, err
	}
	if report.Status != models.ReportDraft {
		return nil, apperrors.Conflict("Only draft reports can be edited")
	}

	var maxNo int
	err = database.DB.Model(&models.ReportLine{}).
		Where("report_id = ?", report.ID).
		Select("COALESCE(MAX(line_no), 0)").
		Scan(&maxNo).Error
	if err != nil {
		return nil, apperrors.Access(apperrors.AccessInternal, err)
	}

	line := &models.ReportLine{
		ReportID:    report.ID,
		LineNo:      maxNo + 1,
		Description: htmlPolicy.Sanitize(description),
	}
	if err := store.Create(line); err != nil {
		return nil, err
	}
	return line, nil
}

// AttachLinePhoto stores an uploaded photo against one report line.
func AttachLinePhoto(actor permissions.Actor, reportID, lineID uuid.UUID, file *multipart.FileHeader) (*models.ReportLine, error) {
	report, err := GetReport(actor, reportID)
	if err != nil {
		return nil, err
	}
	if report.Status != models.ReportDraft {
		return nil, apperrors.Conflict("Only draft reports can be edited")
	}

	var line models.ReportLine
	if err := database.DB.Where("report_id = ?", report.ID).First(&line, "id = ?", lineID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperrors.Access(apperrors.AccessNotFound, err)
		}
		return nil, apperrors.Access(apperrors.AccessInternal, err)
	}

	url, err := utils.UploadFile(file)
	if err != nil {
		return nil, apperrors.Access(apperrors.AccessInternal, err)
	}

	if line.PhotoURL != "" {
		utils.DeleteFile(line.PhotoURL)
	}
	line.PhotoURL = url

	if err := store.Save(&line); err != nil {
		return nil, err
	}
	return &line, nil
}

func validType(t string) bool {
	for _, v := range validTypes {
		if v == t {
			return true
		}
	}
	return false
}
