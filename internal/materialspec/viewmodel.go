package materialspec

import (
	"time"

	"github.com/google/uuid"
	"github.com/keramy/formulapmv2-sub001/internal/models"
	"github.com/keramy/formulapmv2-sub001/internal/utils"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

type MaterialSpecView struct {
	ID           uuid.UUID             `json:"id"`
	ProjectID    uuid.UUID             `json:"project_id"`
	ProjectName  string                `json:"project_name,omitempty"`
	Name         string                `json:"name"`
	Category     string                `json:"category,omitempty"`
	Manufacturer string                `json:"manufacturer,omitempty"`
	Model        string                `json:"model,omitempty"`
	Specs        datatypes.JSON        `json:"specs,omitempty"`
	Quantity     decimal.Decimal       `json:"quantity"`
	UnitCost     decimal.Decimal       `json:"unit_cost"`
	SupplierID   *uuid.UUID            `json:"supplier_id,omitempty"`
	SupplierName string                `json:"supplier_name,omitempty"`
	Status       models.MaterialStatus `json:"status"`
	ApprovedBy   *uuid.UUID            `json:"approved_by,omitempty"`
	ApprovedAt   string                `json:"approved_at,omitempty"`
	CreatedAt    string                `json:"created_at"`
	UpdatedAt    string                `json:"updated_at,omitempty"`
}

func shapeMaterialSpec(m *models.MaterialSpec, detail bool) MaterialSpecView {
	view := MaterialSpecView{
		ID:           m.ID,
		ProjectID:    m.ProjectID,
		Name:         m.Name,
		Category:     m.Category,
		Manufacturer: m.Manufacturer,
		Model:        m.Model,
		Quantity:     m.Quantity,
		UnitCost:     m.UnitCost,
		SupplierID:   m.SupplierID,
		Status:       m.Status,
	}

	if m.Project != nil {
		view.ProjectName = m.Project.Name
	}
	if m.Supplier != nil {
		view.SupplierName = m.Supplier.Name
	}

	if detail {
		view.Specs = m.Specs
		view.ApprovedBy = m.ApprovedBy
		if m.ApprovedAt != nil {
			view.ApprovedAt = m.ApprovedAt.Format(time.RFC3339)
		}
		view.CreatedAt = m.CreatedAt.Format(time.RFC3339)
		view.UpdatedAt = m.UpdatedAt.Format(time.RFC3339)
	} else {
		created := m.CreatedAt
		view.CreatedAt = utils.FormatDate(&created)
	}

	return view
}

func shapeMaterialList(rows []models.MaterialSpec) []MaterialSpecView {
	views := make([]MaterialSpecView, 0, len(rows))
	for i := range rows {
		views = append(views, shapeMaterialSpec(&rows[i], false))
	}
	return views
}
