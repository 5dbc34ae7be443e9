package user

import (
	"time"

	"github.com/google/uuid"
	"github.com/keramy/formulapmv2-sub001/internal/models"
	"github.com/keramy/formulapmv2-sub001/internal/utils"
)

type UserView struct {
	ID        uuid.UUID `json:"id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	FullName  string    `json:"full_name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	IsActive  bool      `json:"is_active"`
	Company   string    `json:"company,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	CreatedAt string    `json:"created_at"`
}

func shapeUser(m *models.UserProfile, detail bool) UserView {
	view := UserView{
		ID:        m.ID,
		FirstName: m.FirstName,
		LastName:  m.LastName,
		FullName:  m.FullName(),
		Email:     m.Email,
		Role:      m.Role,
		IsActive:  m.IsActive,
		Company:   m.Company,
	}

	if detail {
		view.Phone = m.Phone
		view.CreatedAt = m.CreatedAt.Format(time.RFC3339)
	} else {
		created := m.CreatedAt
		view.CreatedAt = utils.FormatDate(&created)
	}

	return view
}

func shapeUserList(rows []models.UserProfile) []UserView {
	views := make([]UserView, 0, len(rows))
	for i := range rows {
		views = append(views, shapeUser(&rows[i], false))
	}
	return views
}
