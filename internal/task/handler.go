package task

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
)

type CreateTaskRequest struct {
	ProjectID   string `json:"project_id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Priority    string `json:"priority"`
	AssignedTo  string `json:"assigned_to"`
	DueDate     string `json:"due_date"`
}

type UpdateTaskRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Priority    *string `json:"priority"`
	AssignedTo  *string `json:"assigned_to"`
	DueDate     *string `json:"due_date"`
}

type ChangeStatusRequest struct {
	Status  string `json:"status"`
	Comment string `json:"comment"`
}

func ListTasksHandler(c *fiber.Ctx) error {
	actor := middleware.ActorFromContext(c)
	params := query.ParamsFromCtx(c)

	tasks, total, err := ListTasks(actor, params)
	if err != nil {
		return response.FromError(c, err)
	}

	views := shapeTaskList(tasks)
	if params.Limit > 0 {
		meta := response.CalculateMeta(params.Page, params.Limit, total)
		return response.SuccessWithMeta(c, views, meta)
	}
	return response.Success(c, views)
}

func GetTaskHandler(c *fiber.Ctx) error {
	actor := middleware.ActorFromContext(c)
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return response.BadRequest(c, "Invalid task ID")
	}

	task, err := GetTask(actor, id)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, shapeTask(task, true))
}

func CreateTaskHandler(c *fiber.Ctx) error {
	actor := middleware.ActorFromContext(c)

	var body CreateTaskRequest
	if err := c.BodyParser(&body); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if body == (CreateTaskRequest{}) {
		return response.BadRequest(c, "Request body is required")
	}

	input := TaskInput{
		Title:       body.Title,
		Description: body.Description,
		Priority:    body.Priority,
	}

	if body.ProjectID != "" {
		projectID, err := uuid.Parse(body.ProjectID)
		if err != nil {
			return response.FromError(c, apperrors.Validation("project_id", "Expected a valid UUID"))
		}
		input.ProjectID = projectID
	}
	if body.AssignedTo != "" {
		assignedTo, err := uuid.Parse(body.AssignedTo)
		if err != nil {
			return response.FromError(c, apperrors.Validation("assigned_to", "Expected a valid UUID"))
		}
		input.AssignedTo = &assignedTo
	}
	if body.DueDate != "" {
		due, err := time.Parse("2006-01-02", body.DueDate)
		if err != nil {
			return response.FromError(c, apperrors.Validation("due_date", "Expected YYYY-MM-DD date"))
		}
		input.DueDate = &due
	}

	task, err := CreateTask(actor, input)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Created(c, shapeTask(task, true), "Task created successfully")
}

func UpdateTaskHandler(c *fiber.Ctx) error {
	actor := middleware.ActorFromContext(c)
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return response.BadRequest(c, "Invalid task ID")
	}

	var body UpdateTaskRequest
	if err := c.BodyParser(&body); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	update := TaskUpdate{
		Title:       body.Title,
		Description: body.Description,
		Priority:    body.Priority,
	}
	if body.AssignedTo != nil {
		assignedTo, err := uuid.Parse(*body.AssignedTo)
		if err != nil {
			return response.FromError(c, apperrors.Validation("assigned_to", "Expected a valid UUID"))
		}
		update.AssignedTo = &assignedTo
	}
	if body.DueDate != nil {
		due, err := time.Parse("2006-01-02", *body.DueDate)
		if err != nil {
			return response.FromError(c, apperrors.Validation("due_date", "Expected YYYY-MM-DD date"))
		}
		update.DueDate = &due
	}

	task, err := UpdateTask(actor, id, update)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, shapeTask(task, true), "Task updated successfully")
}

func DeleteTaskHandler(c *fiber.Ctx) error {
	actor := middleware.ActorFromContext(c)
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return response.BadRequest(c, "Invalid task ID")
	}

	if err := DeleteTask(actor, id); err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, nil, "Task deleted successfully")
}

func ChangeTaskStatusHandler(c *fiber.Ctx) error {
	actor := middleware.ActorFromContext(c)
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return response.BadRequest(c, "Invalid task ID")
	}

	var body ChangeStatusRequest
	if err := c.BodyParser(&body); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if body.Status == "" {
		return response.FromError(c, apperrors.Validation("status", "Status is required"))
	}

	task, err := ChangeTaskStatus(actor, id, models.TaskStatus(body.Status), body.Comment)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, shapeTask(task, true), "Task status updated")
}

func TaskHistoryHandler(c *fiber.Ctx) error {
	actor := middleware.ActorFromContext(c)
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return response.BadRequest(c, "Invalid task ID")
	}

	changes, err := TaskHistory(actor, id)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, workflow.ShapeHistory(changes))
}
