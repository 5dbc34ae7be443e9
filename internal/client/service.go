package client

import (
	"github.com/google/uuid"
	"github.com/keramy/formulapmv2-sub001/internal/apperrors"
	"github.com/keramy/formulapmv2-sub001/internal/database"
	"github.com/keramy/formulapmv2-sub001/internal/models"
	"github.com/keramy/formulapmv2-sub001/internal/permissions"
	"github.com/keramy/formulapmv2-sub001/internal/query"
	"github.com/keramy/formulapmv2-sub001/internal/store"
)

func ListClients(actor permissions.Actor, params query.Params) ([]models.Client, int64, error) {
	q, err := query.Build(permissions.ResourceClients, actor, params)
	if err != nil {
		return nil, 0, err
	}

	var clients []models.Client
	if err := store.List(q, &clients); err != nil {
		return nil, 0, err
	}

	total := int64(len(clients))
	if q.Limit > 0 {
		total, err = store.Count(q, &models.Client{})
		if err != nil {
			return nil, 0, err
		}
	}

	return clients, total, nil
}

func GetClient(actor permissions.Actor, id uuid.UUID) (*models.Client, error) {
	q, err := query.Build(permissions.ResourceClients, actor, query.Params{})
	if err != nil {
		return nil, err
	}

	var client models.Client
	if err := store.Get(q, id, &client); err != nil {
		return nil, err
	}
	return &client, nil
}

func CreateClient(actor permissions.Actor, name, companyName, email, phone, address, city, state, country, notes string) (*models.Client, error) {
	client := &models.Client{
		ContactPerson: name,
		CompanyName:   companyName,
		Email:         email,
		Phone:         phone,
		Address:       address,
		City:          city,
		State:         state,
		Country:       country,
		Notes:         notes,
		CreatedBy:     actor.ID,
	}
	if client.Country == "" {
		client.Country = "USA"
	}

	if err := store.Create(client); err != nil {
		return nil, err
	}
	return client, nil
}

type ClientUpdate struct {
	Name        *string
	CompanyName *string
	Email       *string
	Phone       *string
	Address     *string
	City        *string
	State       *string
	Country     *string
	Notes       *string
}

// UpdateClient applies the provided fields to a client inside the actor's
// scope. Absent fields stay untouched.
func UpdateClient(actor permissions.Actor, id uuid.UUID, update ClientUpdate) (*models.Client, error) {
	client, err := GetClient(actor, id)
	if err != nil {
		return nil, err
	}

	if update.Name != nil {
		if *update.Name == "" {
			return nil, apperrors.Validation("name", "Name cannot be empty")
		}
		client.ContactPerson = *update.Name
	}
	if update.CompanyName != nil {
		client.CompanyName = *update.CompanyName
	}
	if update.Email != nil {
		client.Email = *update.Email
	}
	if update.Phone != nil {
		client.Phone = *update.Phone
	}
	if update.Address != nil {
		client.Address = *update.Address
	}
	if update.City != nil {
		client.City = *update.City
	}
	if update.State != nil {
		client.State = *update.State
	}
	if update.Country != nil && *update.Country != "" {
		client.Country = *update.Country
	}
	if update.Notes != nil {
		client.Notes = *update.Notes
	}

	if err := store.Save(client); err != nil {
		return nil, err
	}
	return client, nil
}

func DeleteClient(actor permissions.Actor, id uuid.UUID) error {
	client, err := GetClient(actor, id)
	if err != nil {
		return err
	}

	var projectCount int64
	if err := database.DB.Model(&models.Project{}).Where("client_id = ?", client.ID).Count(&projectCount).Error; err != nil {
		return apperrors.Access(apperrors.AccessInternal, err)
	}
	if projectCount > 0 {
		return apperrors.Conflict("Client has projects attached")
	}

	return store.Delete(client)
}
