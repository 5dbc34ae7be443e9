package task

import (
	"time"

	"github.com/google/uuid"
	"github.com/keramy/formulapmv2-sub001/internal/models"
	"github.com/keramy/formulapmv2-sub001/internal/utils"
)

type TaskView struct {
	ID           uuid.UUID         `json:"id"`
	ProjectID    uuid.UUID         `json:"project_id"`
	ProjectName  string            `json:"project_name,omitempty"`
	Title        string            `json:"title"`
	Description  string            `json:"description,omitempty"`
	Status       models.TaskStatus `json:"status"`
	Priority     string            `json:"priority"`
	AssignedTo   *uuid.UUID        `json:"assigned_to,omitempty"`
	AssigneeName string            `json:"assignee_name,omitempty"`
	DueDate      string            `json:"due_date,omitempty"`
	CreatedAt    string            `json:"created_at"`
	UpdatedAt    string            `json:"updated_at,omitempty"`
}

func shapeTask(m *models.Task, detail bool) TaskView {
	view := TaskView{
		ID:         m.ID,
		ProjectID:  m.ProjectID,
		Title:      m.Title,
		Status:     m.Status,
		Priority:   m.Priority,
		AssignedTo: m.AssignedTo,
		DueDate:    utils.FormatDate(m.DueDate),
	}

	if m.Project != nil {
		view.ProjectName = m.Project.Name
	}
	if m.Assignee != nil {
		view.AssigneeName = m.Assignee.FullName()
	}

	if detail {
		view.Description = m.Description
		view.CreatedAt = m.CreatedAt.Format(time.RFC3339)
		view.UpdatedAt = m.UpdatedAt.Format(time.RFC3339)
	} else {
		created := m.CreatedAt
		view.CreatedAt = utils.FormatDate(&created)
	}

	return view
}

func shapeTaskList(rows []models.Task) []TaskView {
	views := make([]TaskView, 0, len(rows))
	for i := range rows {
		views = append(views, shapeTask(&rows[i], false))
	}
	return views
}
