package report

import (
	"time"

	"github.com/google/uuid"
	"github.com/keramy/formulapmv2-sub001/internal/models"
	"github.com/keramy/formulapmv2-sub001/internal/utils"
)

type ReportView struct {
	ID          uuid.UUID           `json:"id"`
	ProjectID   uuid.UUID           `json:"project_id"`
	ProjectName string              `json:"project_name,omitempty"`
	Title       string              `json:"title"`
	Type        string              `json:"type"`
	Status      models.ReportStatus `json:"status"`
	Summary     string              `json:"summary,omitempty"`
	Body        string              `json:"body,omitempty"`
	ReportDate  string              `json:"report_date,omitempty"`
	PublishedAt string              `json:"published_at,omitempty"`
	Lines       []ReportLineView    `json:"lines,omitempty"`
	CreatedAt   string              `json:"created_at"`
	UpdatedAt   string              `json:"updated_at,omitempty"`
}

type ReportLineView struct {
	ID          uuid.UUID `json:"id"`
	LineNo      int       `json:"line_no"`
	Description string    `json:"description"`
	PhotoURL    string    `json:"photo_url,omitempty"`
}

func shapeReport(m *models.Report, detail bool) ReportView {
	view := ReportView{
		ID:         m.ID,
		ProjectID:  m.ProjectID,
		Title:      m.Title,
		Type:       m.Type,
		Status:     m.Status,
		Summary:    m.Summary,
		ReportDate: utils.FormatDate(m.ReportDate),
	}

	if m.Project != nil {
		view.ProjectName = m.Project.Name
	}

	if detail {
		view.Body = m.Body
		if m.PublishedAt != nil {
			view.PublishedAt = m.PublishedAt.Format(time.RFC3339)
		}
		view.Lines = shapeLines(m.Lines)
		view.CreatedAt = m.CreatedAt.Format(time.RFC3339)
		view.UpdatedAt = m.UpdatedAt.Format(time.RFC3339)
	} else {
		created := m.CreatedAt
		view.CreatedAt = utils.FormatDate(&created)
	}

	return view
}

func shapeReportList(rows []models.Report) []ReportView {
	views := make([]ReportView, 0, len(rows))
	for i := range rows {
		views = append(views, shapeReport(&rows[i], false))
	}
	return views
}

func shapeLines(lines []models.ReportLine) []ReportLineView {
	views := make([]ReportLineView, 0, len(lines))
	for _, line := range lines {
		views = append(views, ReportLineView{
			ID:          line.ID,
			LineNo:      line.LineNo,
			Description: line.Description,
			PhotoURL:    line.PhotoURL,
		})
	}
	return views
}
