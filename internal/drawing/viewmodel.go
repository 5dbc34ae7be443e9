package drawing

import (
	"time"

	"github.com/google/uuid"
	"github.com/keramy/formulapmv2-sub001/internal/models"
	"github.com/keramy/formulapmv2-sub001/internal/utils"
)

type DrawingView struct {
	ID            uuid.UUID            `json:"id"`
	ProjectID     uuid.UUID            `json:"project_id"`
	ProjectName   string               `json:"project_name,omitempty"`
	DrawingNumber string               `json:"drawing_number"`
	Title         string               `json:"title"`
	Discipline    string               `json:"discipline,omitempty"`
	Revision      string               `json:"revision"`
	Status        models.DrawingStatus `json:"status"`
	FileURL       string               `json:"file_url,omitempty"`
	FileSize      int64                `json:"file_size,omitempty"`
	AssignedTo    *uuid.UUID           `json:"assigned_to,omitempty"`
	ReviewerName  string               `json:"reviewer_name,omitempty"`
	ReviewComment string               `json:"review_comment,omitempty"`
	ReviewedBy    *uuid.UUID           `json:"reviewed_by,omitempty"`
	ReviewedAt    string               `json:"reviewed_at,omitempty"`
	CreatedAt     string               `json:"created_at"`
	UpdatedAt     string               `json:"updated_at,omitempty"`
}

func shapeDrawing(m *models.ShopDrawing, detail bool) DrawingView {
	view := DrawingView{
		ID:            m.ID,
		ProjectID:     m.ProjectID,
		DrawingNumber: m.DrawingNumber,
		Title:         m.Title,
		Discipline:    m.Discipline,
		Revision:      m.Revision,
		Status:        m.Status,
		FileURL:       m.FileURL,
		FileSize:      m.FileSize,
		AssignedTo:    m.AssignedTo,
	}

	if m.Project != nil {
		view.ProjectName = m.Project.Name
	}
	if m.Reviewer != nil {
		view.ReviewerName = m.Reviewer.FullName()
	}

	if detail {
		view.ReviewComment = m.ReviewComment
		view.ReviewedBy = m.ReviewedBy
		if m.ReviewedAt != nil {
			view.ReviewedAt = m.ReviewedAt.Format(time.RFC3339)
		}
		view.CreatedAt = m.CreatedAt.Format(time.RFC3339)
		view.UpdatedAt = m.UpdatedAt.Format(time.RFC3339)
	} else {
		created := m.CreatedAt
		view.CreatedAt = utils.FormatDate(&created)
	}

	return view
}

func shapeDrawingList(rows []models.ShopDrawing) []DrawingView {
	views := make([]DrawingView, 0, len(rows))
	for i := range rows {
		views = append(views, shapeDrawing(&rows[i], false))
	}
	return views
}
