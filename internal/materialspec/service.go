package materialspec

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/keramy/formulapmv2-sub001/internal/apperrors"
	"github.com/keramy/formulapmv2-sub001/internal/database"
	"github.com/keramy/formulapmv2-sub001/internal/models"
	"github.com/keramy/formulapmv2-sub001/internal/notify"
	"github.com/keramy/formulapmv2-sub001/internal/permissions"
	"github.com/keramy/formulapmv2-sub001/internal/query"
	"github.com/keramy/formulapmv2-sub001/internal/store"
	"github.com/keramy/formulapmv2-sub001/internal/workflow"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const resourceLabel = "material_specs"

func ListMaterialSpecs(actor permissions.Actor, params query.Params) ([]models.MaterialSpec, int64, error) {
	q, err := query.Build(permissions.ResourceMaterialSpecs, actor, params)
	if err != nil {
		return nil, 0, err
	}

	var specs []models.MaterialSpec
	if err := store.List(q, &specs, "Project", "Supplier"); err != nil {
		return nil, 0, err
	}

	total := int64(len(specs))
	if q.Limit > 0 {
		total, err = store.Count(q, &models.MaterialSpec{})
		if err != nil {
			return nil, 0, err
		}
	}

	return specs, total, nil
}

func GetMaterialSpec(actor permissions.Actor, id uuid.UUID) (*models.MaterialSpec, error) {
	q, err := query.Build(permissions.ResourceMaterialSpecs, actor, query.Params{})
	if err != nil {
		return nil, err
	}

	var spec models.MaterialSpec
	if err := store.Get(q, id, &spec, "Project", "Supplier"); err != nil {
		return nil, err
	}
	return &spec, nil
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

type MaterialSpecInput struct {
	ProjectID    uuid.UUID
	Name         string
	Category     string
	Manufacturer string
	Model        string
	Specs        datatypes.JSON
	Quantity     decimal.Decimal
	UnitCost     decimal.Decimal
	SupplierID   *uuid.UUID
}

func CreateMaterialSpec(actor permissions.Actor, input MaterialSpecInput) (*models.MaterialSpec, error) {
	if input.Name == "" {
		return nil, apperrors.Validation("name", "Name is required")
	}
	if input.ProjectID == uuid.Nil {
		return nil, apperrors.Validation("project_id", "Project is required")
	}
	if err := projectInScope(actor, input.ProjectID); err != nil {
		return nil, err
	}
	if input.Quantity.IsNegative() {
		return nil, apperrors.Validation("quantity", "Quantity cannot be negative")
	}
	if input.UnitCost.IsNegative() {
		return nil, apperrors.Validation("unit_cost", "Unit cost cannot be negative")
	}
	if input.SupplierID != nil {
		var supplier models.Supplier
		if err := database.DB.First(&supplier, "id = ?", *input.SupplierID).Error; err != nil {
			return nil, apperrors.Validation("supplier_id", "Supplier does not exist")
		}
	}

	spec := &models.MaterialSpec{
		ProjectID:    input.ProjectID,
		Name:         input.Name,
		Category:     input.Category,
		Manufacturer: input.Manufacturer,
		Model:        input.Model,
		Specs:        input.Specs,
		Quantity:     input.Quantity,
		UnitCost:     input.UnitCost,
		SupplierID:   input.SupplierID,
		CreatedBy:    actor.ID,
	}

	if err := store.Create(spec); err != nil {
		return nil, err
	}
	return GetMaterialSpec(actor, spec.ID)
}

type MaterialSpecUpdate struct {
	Name         *string
	Category     *string
	Manufacturer *string
	Model        *string
	Specs        datatypes.JSON
	Quantity     *decimal.Decimal
	UnitCost     *decimal.Decimal
	SupplierID   *uuid.UUID
}

func UpdateMaterialSpec(actor permissions.Actor, id uuid.UUID, update MaterialSpecUpdate) (*models.MaterialSpec, error) {
	spec, err := GetMaterialSpec(actor, id)
	if err != nil {
		return nil, err
	}

	if update.Name != nil {
		if *update.Name == "" {
			return nil, apperrors.Validation("name", "Name cannot be empty")
		}
		spec.Name = *update.Name
	}
	if update.Category != nil {
		spec.Category = *update.Category
	}
	if update.Manufacturer != nil {
		spec.Manufacturer = *update.Manufacturer
	}
	if update.Model != nil {
		spec.Model = *update.Model
	}
	if update.Specs != nil {
		spec.Specs = update.Specs
	}
	if update.Quantity != nil {
		if update.Quantity.IsNegative() {
			return nil, apperrors.Validation("quantity", "Quantity cannot be negative")
		}
		spec.Quantity = *update.Quantity
	}
	if update.UnitCost != nil {
		if update.UnitCost.IsNegative() {
			return nil, apperrors.Validation("unit_cost", "Unit cost cannot be negative")
		}
		spec.UnitCost = *update.UnitCost
	}
	if update.SupplierID != nil {
		var supplier models.Supplier
		if err := database.DB.First(&supplier, "id = ?", *update.SupplierID).Error; err != nil {
			return nil, apperrors.Validation("supplier_id", "Supplier does not exist")
		}
		spec.SupplierID = update.SupplierID
	}

	if err := store.Save(spec); err != nil {
		return nil, err
	}
	return GetMaterialSpec(actor, spec.ID)
}

func DeleteMaterialSpec(actor permissions.Actor, id uuid.UUID) error {
	spec, err := GetMaterialSpec(actor, id)
	if err != nil {
		return err
	}
	return store.Delete(spec)
}

// ChangeMaterialStatus runs the approval machine. Approval and rejection are
// gated on the approve grant; the approval decision also stamps who and when.
func ChangeMaterialStatus(actor permissions.Actor, id uuid.UUID, to models.MaterialStatus, comment string) (*models.MaterialSpec, error) {
	spec, err := GetMaterialSpec(actor, id)
	if err != nil {
		return nil, err
	}

	if to == models.MaterialApproved || to == models.MaterialRejected {
		if !permissions.CanApproveMaterialSpecs(actor) {
			return nil, apperrors.Authorization("You don't have permission to approve material specs")
		}
	}

	from := spec.Status
	if err := workflow.ValidateMaterialTransition(from, to); err != nil {
		return nil, err
	}

	err = store.WithTransaction(func(tx *gorm.DB) error {
		updates := map[string]interface{}{"status": to}
		if to == models.MaterialApproved {
			now := time.Now()
			updates["approved_by"] = actor.ID
			updates["approved_at"] = now
		}
		if err := tx.Model(spec).Updates(updates).Error; err != nil {
			return err
		}
		return workflow.RecordChange(tx, resourceLabel, spec.ID, string(from), string(to), actor.ID, comment)
	})
	if err != nil {
		return nil, err
	}

	notify.BroadcastStatusChange(resourceLabel, spec.ID, string(from), string(to), actor.ID)

	return GetMaterialSpec(actor, spec.ID)
}

func ApproveMaterialSpec(actor permissions.Actor, id uuid.UUID, comment string) (*models.MaterialSpec, error) {
	return ChangeMaterialStatus(actor, id, models.MaterialApproved, comment)
}

func RejectMaterialSpec(actor permissions.Actor, id uuid.UUID, comment string) (*models.MaterialSpec, error) {
	return ChangeMaterialStatus(actor, id, models.MaterialRejected, comment)
}

func MaterialHistory(actor permissions.Actor, id uuid.UUID) ([]models.StatusChange, error) {
	if _, err := GetMaterialSpec(actor, id); err != nil {
		return nil, err
	}
	return workflow.History(resourceLabel, id)
}
