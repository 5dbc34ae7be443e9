package project

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/keramy/formulapmv2-sub001/internal/apperrors"
	"github.com/keramy/formulapmv2-sub001/internal/middleware"
	"github.com/keramy/formulapmv2-sub001/internal/models"
	"github.com/keramy/formulapmv2-sub001/internal/query"
	"github.com/keramy/formulapmv2-sub001/internal/response"
	"github.com/keramy/formulapmv2-sub001/internal/workflow"
	"github.com/shopspring/decimal"
)

type CreateProjectRequest struct {
	Name             string          `json:"name"`
	Code             string          `json:"code"`
	Description      string          `json:"description"`
	ClientID         string          `json:"client_id"`
	ProjectManagerID string          `json:"project_manager_id"`
	Budget           decimal.Decimal `json:"budget"`
	StartDate        string          `json:"start_date"`
	EndDate          string          `json:"end_date"`
}

type UpdateProjectRequest struct {
	Name             *string          `json:"name"`
	Description      *string          `json:"description"`
	ClientID         *string          `json:"client_id"`
	ProjectManagerID *string          `json:"project_manager_id"`
	Budget           *decimal.Decimal `json:"budget"`
	StartDate        *string          `json:"start_date"`
	EndDate          *string          `json:"end_date"`
}

type ChangeStatusRequest struct {
	Status  string `json:"status"`
	Comment string `json:"comment"`
}

type AddTeamMemberRequest struct {
	UserID        string `json:"user_id"`
	RoleInProject string `json:"role_in_project"`
}

func parseDate(field, value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		return nil, apperrors.Validation(field, "Expected YYYY-MM-DD date")
	}
	return &t, nil
}

func parseOptionalID(field, value string) (*uuid.UUID, error) {
	if value == "" {
		return nil, nil
	}
	id, err := uuid.Parse(value)
	if err != nil {
		return nil, apperrors.Validation(field, "Expected a valid UUID")
	}
	return &id, nil
}

func ListProjectsHandler(c *fiber.Ctx) error {
	actor := middleware.ActorFromContext(c)
	params := query.ParamsFromCtx(c)

	projects, total, err := ListProjects(actor, params)
	if err != nil {
		return response.FromError(c, err)
	}

	views := shapeProjectList(projects)
	if params.Limit > 0 {
		meta := response.CalculateMeta(params.Page, params.Limit, total)
		return response.SuccessWithMeta(c, views, meta)
	}
	return response.Success(c, views)
}

func GetProjectHandler(c *fiber.Ctx) error {
	actor := middleware.ActorFromContext(c)
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return response.BadRequest(c, "Invalid project ID")
	}

	project, err := GetProject(actor, id)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, shapeProject(project, true))
}

func CreateProjectHandler(c *fiber.Ctx) error {
	actor := middleware.ActorFromContext(c)

	var body CreateProjectRequest
	if err := c.BodyParser(&body); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if body.Name == "" && body.Code == "" {
		return response.BadRequest(c, "Request body is required")
	}

	clientID, err := parseOptionalID("client_id", body.ClientID)
	if err != nil {
		return response.FromError(c, err)
	}
	managerID, err := parseOptionalID("project_manager_id", body.ProjectManagerID)
	if err != nil {
		return response.FromError(c, err)
	}
	startDate, err := parseDate("start_date", body.StartDate)
	if err != nil {
		return response.FromError(c, err)
	}
	endDate, err := parseDate("end_date", body.EndDate)
	if err != nil {
		return response.FromError(c, err)
	}

	project, err := CreateProject(actor, ProjectInput{
		Name:             body.Name,
		Code:             body.Code,
		Description:      body.Description,
		ClientID:         clientID,
		ProjectManagerID: managerID,
		Budget:           body.Budget,
		StartDate:        startDate,
		EndDate:          endDate,
	})
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Created(c, shapeProject(project, true), "Project created successfully")
}

func UpdateProjectHandler(c *fiber.Ctx) error {
	actor := middleware.ActorFromContext(c)
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return response.BadRequest(c, "Invalid project ID")
	}

	var body UpdateProjectRequest
	if err := c.BodyParser(&body); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	update := ProjectUpdate{
		Name:        body.Name,
		Description: body.Description,
		Budget:      body.Budget,
	}
	if body.ClientID != nil {
		clientID, err := parseOptionalID("client_id", *body.ClientID)
		if err != nil {
			return response.FromError(c, err)
		}
		update.ClientID = clientID
	}
	if body.ProjectManagerID != nil {
		managerID, err := parseOptionalID("project_manager_id", *body.ProjectManagerID)
		if err != nil {
			return response.FromError(c, err)
		}
		update.ProjectManagerID = managerID
	}
	if body.StartDate != nil {
		startDate, err := parseDate("start_date", *body.StartDate)
		if err != nil {
			return response.FromError(c, err)
		}
		update.StartDate = startDate
	}
	if body.EndDate != nil {
		endDate, err := parseDate("end_date", *body.EndDate)
		if err != nil {
			return response.FromError(c, err)
		}
		update.EndDate = endDate
	}

	project, err := UpdateProject(actor, id, update)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, shapeProject(project, true), "Project updated successfully")
}

func DeleteProjectHandler(c *fiber.Ctx) error {
	actor := middleware.ActorFromContext(c)
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return response.BadRequest(c, "Invalid project ID")
	}

	if err := DeleteProject(actor, id); err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, nil, "Project deleted successfully")
}

func ChangeProjectStatusHandler(c *fiber.Ctx) error {
	actor := middleware.ActorFromContext(c)
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return response.BadRequest(c, "Invalid project ID")
	}

	var body ChangeStatusRequest
	if err := c.BodyParser(&body); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if body.Status == "" {
		return response.FromError(c, apperrors.Validation("status", "Status is required"))
	}

	project, err := ChangeProjectStatus(actor, id, models.ProjectStatus(body.Status), body.Comment)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, shapeProject(project, true), "Project status updated")
}

func ProjectHistoryHandler(c *fiber.Ctx) error {
	actor := middleware.ActorFromContext(c)
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return response.BadRequest(c, "Invalid project ID")
	}

	changes, err := ProjectHistory(actor, id)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, workflow.ShapeHistory(changes))
}

func ListTeamHandler(c *fiber.Ctx) error {
	actor := middleware.ActorFromContext(c)
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return response.BadRequest(c, "Invalid project ID")
	}

	assignments, profiles, err := ListTeam(actor, id)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, shapeTeam(assignments, profiles))
}

func AddTeamMemberHandler(c *fiber.Ctx) error {
	actor := middleware.ActorFromContext(c)
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return response.BadRequest(c, "Invalid project ID")
	}

	var body AddTeamMemberRequest
	if err := c.BodyParser(&body); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	userID, err := uuid.Parse(body.UserID)
	if err != nil {
		return response.FromError(c, apperrors.Validation("user_id", "Expected a valid UUID"))
	}

	if err := AddTeamMember(actor, id, userID, body.RoleInProject); err != nil {
		return response.FromError(c, err)
	}
	return response.Created(c, nil, "Team member added")
}

func RemoveTeamMemberHandler(c *fiber.Ctx) error {
	actor := middleware.ActorFromContext(c)
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return response.BadRequest(c, "Invalid project ID")
	}
	userID, err := uuid.Parse(c.Params("user_id"))
	if err != nil {
		return response.BadRequest(c, "Invalid user ID")
	}

	if err := RemoveTeamMember(actor, id, userID); err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, nil, "Team member removed")
}
