package supplier

import (
	"github.com/google/uuid"
	"github.com/keramy/formulapmv2-sub001/internal/apperrors"
	"github.com/keramy/formulapmv2-sub001/internal/database"
	"github.com/keramy/formulapmv2-sub001/internal/models"
	"github.com/keramy/formulapmv2-sub001/internal/permissions"
	"github.com/keramy/formulapmv2-sub001/internal/query"
	"github.com/keramy/formulapmv2-sub001/internal/store"
)

func ListSuppliers(actor permissions.Actor, params query.Params) ([]models.Supplier, int64, error) {
	q, err := query.Build(permissions.ResourceSuppliers, actor, params)
	if err != nil {
		return nil, 0, err
	}

	var suppliers []models.Supplier
	if err := store.List(q, &suppliers); err != nil {
		return nil, 0, err
	}

	total := int64(len(suppliers))
	if q.Limit > 0 {
		total, err = store.Count(q, &models.Supplier{})
		if err != nil {
			return nil, 0, err
		}
	}

	return suppliers, total, nil
}

func GetSupplier(actor permissions.Actor, id uuid.UUID) (*models.Supplier, error) {
	q, err := query.Build(permissions.ResourceSuppliers, actor, query.Params{})
	if err != nil {
		return nil, err
	}

	var supplier models.Supplier
	if err := store.Get(q, id, &supplier); err != nil {
		return nil, err
	}
	return &supplier, nil
}

func CreateSupplier(actor permissions.Actor, name, contactPerson, email, phone, specialty string) (*models.Supplier, error) {
	supplier := &models.Supplier{
		Name:          name,
		ContactPerson: contactPerson,
		Email:         email,
		Phone:         phone,
		Specialty:     specialty,
		CreatedBy:     actor.ID,
	}

	if err := store.Create(supplier); err != nil {
		return nil, err
	}
	return supplier, nil
}

type SupplierUpdate struct {
	Name          *string
	ContactPerson *string
	Email         *string
	Phone         *string
	Specialty     *string
}

func UpdateSupplier(actor permissions.Actor, id uuid.UUID, update SupplierUpdate) (*models.Supplier, error) {
	supplier, err := GetSupplier(actor, id)
	if err != nil {
		return nil, err
	}

	if update.Name != nil {
		if *update.Name == "" {
			return nil, apperrors.Validation("name", "Name cannot be empty")
		}
		supplier.Name = *update.Name
	}
	if update.ContactPerson != nil {
		supplier.ContactPerson = *update.ContactPerson
	}
	if update.Email != nil {
		supplier.Email = *update.Email
	}
	if update.Phone != nil {
		supplier.Phone = *update.Phone
	}
	if update.Specialty != nil {
		supplier.Specialty = *update.Specialty
	}

	if err := store.Save(supplier); err != nil {
		return nil, err
	}
	return supplier, nil
}

func DeleteSupplier(actor permissions.Actor, id uuid.UUID) error {
	supplier, err := GetSupplier(actor, id)
	if err != nil {
		return err
	}

	var itemCount int64
	if err := database.DB.Model(&models.ScopeItem{}).Where("supplier_id = ?", supplier.ID).Count(&itemCount).Error; err != nil {
		return apperrors.Access(apperrors.AccessInternal, err)
	}
	if itemCount > 0 {
		return apperrors.Conflict("Supplier has scope items attached")
	}

	return store.Delete(supplier)
}
