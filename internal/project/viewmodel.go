package project

import (
	"time"

	"github.com/google/uuid"
	"github.com/keramy/formulapmv2-sub001/internal/models"
	"github.com/keramy/formulapmv2-sub001/internal/utils"
	"github.com/shopspring/decimal"
)

type ProjectView struct {
	ID          uuid.UUID            `json:"id"`
	Name        string               `json:"name"`
	Code        string               `json:"code"`
	Description string               `json:"description,omitempty"`
	Status      models.ProjectStatus `json:"status"`
	ClientName  string               `json:"client_name,omitempty"`
	ManagerName string               `json:"manager_name,omitempty"`
	Budget      decimal.Decimal      `json:"budget"`
	StartDate   string               `json:"start_date,omitempty"`
	EndDate     string               `json:"end_date,omitempty"`
	CreatedAt   string               `json:"created_at"`
	UpdatedAt   string               `json:"updated_at,omitempty"`
}

func shapeProject(m *models.Project, detail bool) ProjectView {
	view := ProjectView{
		ID:        m.ID,
		Name:      m.Name,
		Code:      m.Code,
		Status:    m.Status,
		Budget:    m.Budget,
		StartDate: utils.FormatDate(m.StartDate),
		EndDate:   utils.FormatDate(m.EndDate),
	}

	if m.Client != nil {
		view.ClientName = firstNonEmpty(m.Client.CompanyName, m.Client.ContactPerson)
	}
	if m.ProjectManager != nil {
		view.ManagerName = m.ProjectManager.FullName()
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

func shapeProjectList(rows []models.Project) []ProjectView {
	views := make([]ProjectView, 0, len(rows))
	for i := range rows {
		views = append(views, shapeProject(&rows[i], false))
	}
	return views
}

type TeamMemberView struct {
	UserID        uuid.UUID `json:"user_id"`
	Name          string    `json:"name"`
	Email         string    `json:"email,omitempty"`
	Role          string    `json:"role,omitempty"`
	RoleInProject string    `json:"role_in_project,omitempty"`
}

func shapeTeam(assignments []models.ProjectAssignment, profiles map[uuid.UUID]models.UserProfile) []TeamMemberView {
	views := make([]TeamMemberView, 0, len(assignments))
	for _, a := range assignments {
		member := TeamMemberView{
			UserID:        a.UserID,
			RoleInProject: a.RoleInProject,
		}
		if profile, ok := profiles[a.UserID]; ok {
			member.Name = profile.FullName()
			member.Email = profile.Email
			member.Role = profile.Role
		}
		views = append(views, member)
	}
	return views
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
