package supplier

import (
	"time"

	"github.com/google/uuid"
	"github.com/keramy/formulapmv2-sub001/internal/models"
	"github.com/keramy/formulapmv2-sub001/internal/utils"
	"github.com/shopspring/decimal"
)

type SupplierView struct {
	ID            uuid.UUID       `json:"id"`
	Name          string          `json:"name"`
	Contact       string          `json:"contact,omitempty"`
	Email         string          `json:"email,omitempty"`
	Phone         string          `json:"phone,omitempty"`
	Specialty     string          `json:"specialty,omitempty"`
	TotalPayments decimal.Decimal `json:"total_payments"`
	CreatedAt     string          `json:"created_at"`
	UpdatedAt     string          `json:"updated_at,omitempty"`
}

func shapeSupplier(m *models.Supplier, detail bool) SupplierView {
	view := SupplierView{
		ID:            m.ID,
		Name:          m.Name,
		Contact:       m.ContactPerson,
		Email:         m.Email,
		Phone:         m.Phone,
		Specialty:     m.Specialty,
		TotalPayments: m.TotalPayments,
	}

	if detail {
		view.CreatedAt = m.CreatedAt.Format(time.RFC3339)
		view.UpdatedAt = m.UpdatedAt.Format(time.RFC3339)
	} else {
		created := m.CreatedAt
		view.CreatedAt = utils.FormatDate(&created)
	}

	return view
}

func shapeSupplierList(rows []models.Supplier) []SupplierView {
	views := make([]SupplierView, 0, len(rows))
	for i := range rows {
		views = append(views, shapeSupplier(&rows[i], false))
	}
	return views
}
