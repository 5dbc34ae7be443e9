package project

import (
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
	"gorm.io/gorm"
)

const resourceLabel = "projects"

func ListProjects(actor permissions.Actor, params query.Params) ([]models.Project, int64, error) {
	q, err := query.Build(permissions.ResourceProjects, actor, params)
	if err != nil {
		return nil, 0, err
	}

	var projects []models.Project
	if err := store.List(q, &projects, "Client", "ProjectManager"); err != nil {
		return nil, 0, err
	}

	total := int64(len(projects))
	if q.Limit > 0 {
		total, err = store.Count(q, &models.Project{})
		if err != nil {
			return nil, 0, err
		}
	}

	return projects, total, nil
}

func GetProject(actor permissions.Actor, id uuid.UUID) (*models.Project, error) {
	q, err := query.Build(permissions.ResourceProjects, actor, query.Params{})
	if err != nil {
		return nil, err
	}

	var project models.Project
	if err := store.Get(q, id, &project, "Client", "ProjectManager"); err != nil {
		return nil, err
	}
	return &project, nil
}

type ProjectInput struct {
	Name             string
	Code             string
	Description      string
	ClientID         *uuid.UUID
	ProjectManagerID *uuid.UUID
	Budget           decimal.Decimal
	StartDate        *time.Time
	EndDate          *time.Time
}

func CreateProject(actor permissions.Actor, input ProjectInput) (*models.Project, error) {
	if input.Name == "" {
		return nil, apperrors.Validation("name", "Name is required")
	}
	if input.Code == "" {
		return nil, apperrors.Validation("code", "Code is required")
	}
	if input.StartDate != nil && input.EndDate != nil && input.EndDate.Before(*input.StartDate) {
		return nil, apperrors.Validation("end_date", "End date cannot precede the start date")
	}

	if input.ClientID != nil {
		var count int64
		if err := database.DB.Model(&models.Client{}).Where("id = ?", *input.ClientID).Count(&count).Error; err != nil {
			return nil, apperrors.Access(apperrors.AccessInternal, err)
		}
		if count == 0 {
			return nil, apperrors.Validation("client_id", "Client does not exist")
		}
	}

	managerID := input.ProjectManagerID
	if managerID == nil && actor.Role == permissions.RoleProjectManager {
		id := actor.ID
		managerID = &id
	}
	if managerID != nil {
		var manager models.UserProfile
		if err := database.DB.First(&manager, "id = ?", *managerID).Error; err != nil {
			return nil, apperrors.Validation("project_manager_id", "Project manager does not exist")
		}
	}

	project := &models.Project{
		Name:             input.Name,
		Code:             input.Code,
		Description:      input.Description,
		ClientID:         input.ClientID,
		ProjectManagerID: managerID,
		Budget:           input.Budget,
		StartDate:        input.StartDate,
		EndDate:          input.EndDate,
		CreatedBy:        actor.ID,
	}

	if err := store.Create(project); err != nil {
		return nil, err
	}

	// The manager joins the team immediately so assignment-based scoping
	// covers them from the first request.
	if managerID != nil {
		assignment := &models.ProjectAssignment{
			ProjectID:     project.ID,
			UserID:        *managerID,
			RoleInProject: "project_manager",
		}
		if err := store.Create(assignment); err != nil {
			return nil, err
		}
	}

	return GetProject(actor, project.ID)
}

type ProjectUpdate struct {
	Name             *string
	Description      *string
	ClientID         *uuid.UUID
	ProjectManagerID *uuid.UUID
	Budget           *decimal.Decimal
	StartDate        *time.Time
	EndDate          *time.Time
}

func UpdateProject(actor permissions.Actor, id uuid.UUID, update ProjectUpdate) (*models.Project, error) {
	project, err := GetProject(actor, id)
	if err != nil {
		return nil, err
	}

	if update.Name != nil {
		if *update.Name == "" {
			return nil, apperrors.Validation("name", "Name cannot be empty")
		}
		project.Name = *update.Name
	}
	if update.Description != nil {
		project.Description = *update.Description
	}
	if update.ClientID != nil {
		var count int64
		if err := database.DB.Model(&models.Client{}).Where("id = ?", *update.ClientID).Count(&count).Error; err != nil {
			return nil, apperrors.Access(apperrors.AccessInternal, err)
		}
		if count == 0 {
			return nil, apperrors.Validation("client_id", "Client does not exist")
		}
		project.ClientID = update.ClientID
	}
	if update.ProjectManagerID != nil {
		var manager models.UserProfile
		if err := database.DB.First(&manager, "id = ?", *update.ProjectManagerID).Error; err != nil {
			return nil, apperrors.Validation("project_manager_id", "Project manager does not exist")
		}
		project.ProjectManagerID = update.ProjectManagerID
	}
	if update.Budget != nil {
		project.Budget = *update.Budget
	}
	if update.StartDate != nil {
		project.StartDate = update.StartDate
	}
	if update.EndDate != nil {
		project.EndDate = update.EndDate
	}
	if project.StartDate != nil && project.EndDate != nil && project.EndDate.Before(*project.StartDate) {
		return nil, apperrors.Validation("end_date", "End date cannot precede the start date")
	}

	if err := store.Save(project); err != nil {
		return nil, err
	}
	return GetProject(actor, project.ID)
}

func DeleteProject(actor permissions.Actor, id uuid.UUID) error {
	project, err := GetProject(actor, id)
	if err != nil {
		return err
	}

	var taskCount, scopeCount int64
	if err := database.DB.Model(&models.Task{}).Where("project_id = ?", project.ID).Count(&taskCount).Error; err != nil {
		return apperrors.Access(apperrors.AccessInternal, err)
	}
	if err := database.DB.Model(&models.ScopeItem{}).Where("project_id = ?", project.ID).Count(&scopeCount).Error; err != nil {
		return apperrors.Access(apperrors.AccessInternal, err)
	}
	if taskCount > 0 || scopeCount > 0 {
		return apperrors.Conflict("Project has tasks or scope items attached")
	}

	return store.Delete(project)
}

func ChangeProjectStatus(actor permissions.Actor, id uuid.UUID, to models.ProjectStatus, comment string) (*models.Project, error) {
	project, err := GetProject(actor, id)
	if err != nil {
		return nil, err
	}

	from := project.Status
	if err := workflow.ValidateProjectTransition(from, to); err != nil {
		return nil, err
	}

	err = store.WithTransaction(func(tx *gorm.DB) error {
		if err := tx.Model(project).Update("status", to).Error; err != nil {
			return err
		}
		return workflow.RecordChange(tx, resourceLabel, project.ID, string(from), string(to), actor.ID, comment)
	})
	if err != nil {
		return nil, err
	}

	notify.BroadcastStatusChange(resourceLabel, project.ID, string(from), string(to), actor.ID)

	project.Status = to
	return project, nil
}

func ProjectHistory(actor permissions.Actor, id uuid.UUID) ([]models.StatusChange, error) {
	if _, err := GetProject(actor, id); err != nil {
		return nil, err
	}
	return workflow.History(resourceLabel, id)
}

func ListTeam(actor permissions.Actor, projectID uuid.UUID) ([]models.ProjectAssignment, map[uuid.UUID]models.UserProfile, error) {
	if _, err := GetProject(actor, projectID); err != nil {
		return nil, nil, err
	}

	var assignments []models.ProjectAssignment
	if err := database.DB.Where("project_id = ?", projectID).Find(&assignments).Error; err != nil {
		return nil, nil, apperrors.Access(apperrors.AccessInternal, err)
	}

	ids := make([]uuid.UUID, 0, len(assignments))
	for _, a := range assignments {
		ids = append(ids, a.UserID)
	}

	profiles := make(map[uuid.UUID]models.UserProfile, len(ids))
	if len(ids) > 0 {
		var users []models.UserProfile
		if err := database.DB.Where("id IN ?", ids).Find(&users).Error; err != nil {
			return nil, nil, apperrors.Access(apperrors.AccessInternal, err)
		}
		for _, u := range users {
			profiles[u.ID] = u
		}
	}

	return assignments, profiles, nil
}

func AddTeamMember(actor permissions.Actor, projectID, userID uuid.UUID, roleInProject string) error {
	if _, err := GetProject(actor, projectID); err != nil {
		return err
	}

	var user models.UserProfile
	if err := database.DB.First(&user, "id = ?", userID).Error; err != nil {
		return apperrors.Validation("user_id", "User does not exist")
	}

	var existing int64
	if err := database.DB.Model(&models.ProjectAssignment{}).
		Where("project_id = ? AND user_id = ?", projectID, userID).
		Count(&existing).Error; err != nil {
		return apperrors.Access(apperrors.AccessInternal, err)
	}
	if existing > 0 {
		return apperrors.Conflict("User is already on the project team")
	}

	assignment := &models.ProjectAssignment{
		ProjectID:     projectID,
		UserID:        userID,
		RoleInProject: roleInProject,
	}
	return store.Create(assignment)
}

func RemoveTeamMember(actor permissions.Actor, projectID, userID uuid.UUID) error {
	if _, err := GetProject(actor, projectID); err != nil {
		return err
	}

	var assignment models.ProjectAssignment
	if err := database.DB.Where("project_id = ? AND user_id = ?", projectID, userID).First(&assignment).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return apperrors.Access(apperrors.AccessNotFound, err)
		}
		return apperrors.Access(apperrors.AccessInternal, err)
	}

	return store.Delete(&assignment)
}
