package user

import (
	"github.com/google/uuid"
	"github.com/keramy/formulapmv2-sub001/internal/models"
	"github.com/keramy/formulapmv2-sub001/internal/permissions"
	"github.com/keramy/formulapmv2-sub001/internal/query"
	"github.com/keramy/formulapmv2-sub001/internal/store"
)

// Profiles are provisioned by the auth provider; this package only reads them.
// Non-management callers see themselves and anyone sharing a project.

func ListUsers(actor permissions.Actor, params query.Params) ([]models.UserProfile, int64, error) {
	q, err := query.Build(permissions.ResourceUsers, actor, params)
	if err != nil {
		return nil, 0, err
	}

	var users []models.UserProfile
	if err := store.List(q, &users); err != nil {
		return nil, 0, err
	}

	total := int64(len(users))
	if q.Limit > 0 {
		total, err = store.Count(q, &models.UserProfile{})
		if err != nil {
			return nil, 0, err
		}
	}

	return users, total, nil
}

func GetUser(actor permissions.Actor, id uuid.UUID) (*models.UserProfile, error) {
	q, err := query.Build(permissions.ResourceUsers, actor, query.Params{})
	if err != nil {
		return nil, err
	}

	var profile models.UserProfile
	if err := store.Get(q, id, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}
