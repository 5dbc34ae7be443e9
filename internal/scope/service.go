package scope

import (
	"errors"

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
	"gorm.io/gorm"
)

const resourceLabel = "scope_items"

var validCategories = []string{"construction", "millwork", "electrical", "mechanical"}

func ListScopeItems(actor permissions.Actor, params query.Params) ([]models.ScopeItem, int64, error) {
	q, err := query.Build(permissions.ResourceScope, actor, params)
	if err != nil {
		return nil, 0, err
	}

	var items []models.ScopeItem
	if err := store.List(q, &items, "Project", "Supplier", "Assignee"); err != nil {
		return nil, 0, err
	}

	total := int64(len(items))
	if q.Limit > 0 {
		total, err = store.Count(q, &models.ScopeItem{})
		if err != nil {
			return nil, 0, err
		}
	}

	return items, total, nil
}

func GetScopeItem(actor permissions.Actor, id uuid.UUID) (*models.ScopeItem, error) {
	q, err := query.Build(permissions.ResourceScope, actor, query.Params{})
	if err != nil {
		return nil, err
	}

	var item models.ScopeItem
	if err := store.Get(q, id, &item, "Project", "Supplier", "Assignee"); err != nil {
		return nil, err
	}
	return &item, nil
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

type ScopeItemInput struct {
	ProjectID   uuid.UUID
	ItemNo      int
	Category    string
	Description string
	Quantity    decimal.Decimal
	UnitPrice   decimal.Decimal
	SupplierID  *uuid.UUID
	AssignedTo  *uuid.UUID
}

func CreateScopeItem(actor permissions.Actor, input ScopeItemInput) (*models.ScopeItem, error) {
	if input.ProjectID == uuid.Nil {
		return nil, apperrors.Validation("project_id", "Project is required")
	}
	if input.Description == "" {
		return nil, apperrors.Validation("description", "Description is required")
	}
	if err := projectInScope(actor, input.ProjectID); err != nil {
		return nil, err
	}
	if input.Category != "" && !validCategory(input.Category) {
		return nil, apperrors.Validation("category", "Category must be one of: construction, millwork, electrical, mechanical")
	}
	if input.Quantity.IsNegative() {
		return nil, apperrors.Validation("quantity", "Quantity cannot be negative")
	}
	if input.UnitPrice.IsNegative() {
		return nil, apperrors.Validation("unit_price", "Unit price cannot be negative")
	}
	if input.SupplierID != nil {
		var supplier models.Supplier
		if err := database.DB.First(&supplier, "id = ?", *input.SupplierID).Error; err != nil {
			return nil, apperrors.Validation("supplier_id", "Supplier does not exist")
		}
	}

	itemNo := input.ItemNo
	if itemNo == 0 {
		var maxNo int
		err := database.DB.Model(&models.ScopeItem{}).
			Where("project_id = ?", input.ProjectID).
			Select("COALESCE(MAX(item_no), 0)").
			Scan(&maxNo).Error
		if err != nil {
			return nil, apperrors.Access(apperrors.AccessInternal, err)
		}
		itemNo = maxNo + 1
	}

	item := &models.ScopeItem{
		ProjectID:   input.ProjectID,
		ItemNo:      itemNo,
		Category:    input.Category,
		Description: input.Description,
		Quantity:    input.Quantity,
		UnitPrice:   input.UnitPrice,
		TotalPrice:  input.Quantity.Mul(input.UnitPrice),
		SupplierID:  input.SupplierID,
		AssignedTo:  input.AssignedTo,
		CreatedBy:   actor.ID,
	}

	if err := store.Create(item); err != nil {
		return nil, err
	}
	return GetScopeItem(actor, item.ID)
}

type ScopeItemUpdate struct {
	Category    *string
	Description *string
	Quantity    *decimal.Decimal
	UnitPrice   *decimal.Decimal
	SupplierID  *uuid.UUID
	AssignedTo  *uuid.UUID
}

func UpdateScopeItem(actor permissions.Actor, id uuid.UUID, update ScopeItemUpdate) (*models.ScopeItem, error) {
	item, err := GetScopeItem(actor, id)
	if err != nil {
		return nil, err
	}

	if update.Category != nil {
		if !validCategory(*update.Category) {
			return nil, apperrors.Validation("category", "Category must be one of: construction, millwork, electrical, mechanical")
		}
		item.Category = *update.Category
	}
	if update.Description != nil {
		if *update.Description == "" {
			return nil, apperrors.Validation("description", "Description cannot be empty")
		}
		item.Description = *update.Description
	}
	if update.Quantity != nil {
		if update.Quantity.IsNegative() {
			return nil, apperrors.Validation("quantity", "Quantity cannot be negative")
		}
		item.Quantity = *update.Quantity
	}
	if update.UnitPrice != nil {
		if update.UnitPrice.IsNegative() {
			return nil, apperrors.Validation("unit_price", "Unit price cannot be negative")
		}
		item.UnitPrice = *update.UnitPrice
	}
	if update.SupplierID != nil {
		var supplier models.Supplier
		if err := database.DB.First(&supplier, "id = ?", *update.SupplierID).Error; err != nil {
			return nil, apperrors.Validation("supplier_id", "Supplier does not exist")
		}
		item.SupplierID = update.SupplierID
	}
	if update.AssignedTo != nil {
		item.AssignedTo = update.AssignedTo
	}

	// Line total always follows quantity and unit price.
	item.TotalPrice = item.Quantity.Mul(item.UnitPrice)

	if err := store.Save(item); err != nil {
		return nil, err
	}
	return GetScopeItem(actor, item.ID)
}

func DeleteScopeItem(actor permissions.Actor, id uuid.UUID) error {
	item, err := GetScopeItem(actor, id)
	if err != nil {
		return err
	}
	return store.Delete(item)
}

// ChangeScopeStatus moves a scope item through the task status machine.
// Completing an item with a supplier credits the line total to that
// supplier's payments in the same transaction as the status write.
func ChangeScopeStatus(actor permissions.Actor, id uuid.UUID, to models.TaskStatus, comment string) (*models.ScopeItem, error) {
	item, err := GetScopeItem(actor, id)
	if err != nil {
		return nil, err
	}

	from := item.Status
	if err := workflow.ValidateTaskTransition(from, to); err != nil {
		return nil, err
	}

	err = store.WithTransaction(func(tx *gorm.DB) error {
		if err := tx.Model(item).Update("status", to).Error; err != nil {
			return err
		}
		if to == models.TaskCompleted && item.SupplierID != nil {
			var supplier models.Supplier
			if err := tx.First(&supplier, "id = ?", *item.SupplierID).Error; err != nil {
				return err
			}
			supplier.TotalPayments = supplier.TotalPayments.Add(item.TotalPrice)
			if err := tx.Save(&supplier).Error; err != nil {
				return err
			}
		}
		return workflow.RecordChange(tx, resourceLabel, item.ID, string(from), string(to), actor.ID, comment)
	})
	if err != nil {
		return nil, err
	}

	notify.BroadcastStatusChange(resourceLabel, item.ID, string(from), string(to), actor.ID)

	item.Status = to
	return item, nil
}

func ScopeHistory(actor permissions.Actor, id uuid.UUID) ([]models.StatusChange, error) {
	if _, err := GetScopeItem(actor, id); err != nil {
		return nil, err
	}
	return workflow.History(resourceLabel, id)
}

func validCategory(c string) bool {
	for _, v := range validCategories {
		if v == c {
			return true
		}
	}
	return false
}
