package client

import (
	"time"

	"github.com/google/uuid"
	"github.com/keramy/formulapmv2-sub001/internal/models"
	"github.com/keramy/formulapmv2-sub001/internal/utils"
)

// ClientView is the shaped projection the dashboard renders. Name falls back
// to the company and vice versa so a record with either field still shows
// something usable.
type ClientView struct {
	ID       uuid.UUID `json:"id"`
	Name     string    `json:"name"`
	Company  string    `json:"company"`
	Email    string    `json:"email,omitempty"`
	Phone    string    `json:"phone,omitempty"`
	Location string    `json:"location,omitempty"`
	Country  string    `json:"country,omitempty"`
	Notes    string    `json:"notes,omitempty"`

	// YYYY-MM-DD in list views, full timestamp in detail views.
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at,omitempty"`
}

func shapeClient(m *models.Client, detail bool) ClientView {
	view := ClientView{
		ID:       m.ID,
		Name:     firstNonEmpty(m.ContactPerson, m.CompanyName),
		Company:  firstNonEmpty(m.CompanyName, m.ContactPerson),
		Email:    m.Email,
		Phone:    m.Phone,
		Location: utils.JoinLocation(m.City, m.State),
		Country:  m.Country,
	}

	if detail {
		view.Notes = m.Notes
		view.CreatedAt = m.CreatedAt.Format(time.RFC3339)
		view.UpdatedAt = m.UpdatedAt.Format(time.RFC3339)
	} else {
		created := m.CreatedAt
		view.CreatedAt = utils.FormatDate(&created)
	}

	return view
}

func shapeClientList(rows []models.Client) []ClientView {
	views := make([]ClientView, 0, len(rows))
	for i := range rows {
		views = append(views, shapeClient(&rows[i], false))
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
