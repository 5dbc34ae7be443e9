package scope

import (
	"time"

	"github.com/google/uuid"
	"github.com/keramy/formulapmv2-sub001/internal/models"
	"github.com/keramy/formulapmv2-sub001/internal/utils"
	"github.com/shopspring/decimal"
)

type ScopeItemView struct {
	ID           uuid.UUID         `json:"id"`
	ProjectID    uuid.UUID         `json:"project_id"`
	ProjectName  string            `json:"project_name,omitempty"`
	ItemNo       int               `json:"item_no"`
	Category     string            `json:"category"`
	Description  string            `json:"description"`
	Quantity     decimal.Decimal   `json:"quantity"`
	UnitPrice    decimal.Decimal   `json:"unit_price"`
	TotalPrice   decimal.Decimal   `json:"total_price"`
	SupplierID   *uuid.UUID        `json:"supplier_id,omitempty"`
	SupplierName string            `json:"supplier_name,omitempty"`
	Status       models.TaskStatus `json:"status"`
	AssignedTo   *uuid.UUID        `json:"assigned_to,omitempty"`
	AssigneeName string            `json:"assignee_name,omitempty"`
	CreatedAt    string            `json:"created_at"`
	UpdatedAt    string            `json:"updated_at,omitempty"`
}

func shapeScopeItem(m *models.ScopeItem, detail bool) ScopeItemView {
	view := ScopeItemView{
		ID:          m.ID,
		ProjectID:   m.ProjectID,
		ItemNo:      m.ItemNo,
		Category:    m.Category,
		Description: m.Description,
		Quantity:    m.Quantity,
		UnitPrice:   m.UnitPrice,
		TotalPrice:  m.TotalPrice,
		SupplierID:  m.SupplierID,
		Status:      m.Status,
		AssignedTo:  m.AssignedTo,
	}

	if m.Project != nil {
		view.ProjectName = m.Project.Name
	}
	if m.Supplier != nil {
		view.SupplierName = m.Supplier.Name
	}
	if m.Assignee != nil {
		view.AssigneeName = m.Assignee.FullName()
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

func shapeScopeList(rows []models.ScopeItem) []ScopeItemView {
	views := make([]ScopeItemView, 0, len(rows))
	for i := range rows {
		views = append(views, shapeScopeItem(&rows[i], false))
	}
	return views
}
