package drawing

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/keramy/formulapmv2-sub001/internal/apperrors"
	"github.com/keramy/formulapmv2-sub001/internal/middleware"
	"github.com/keramy/formulapmv2-sub001/internal/models"
	"github.com/keramy/formulapmv2-sub001/internal/query"
	"github.com/keramy/formulapmv2-sub001/internal/response"
	"github.com/keramy/formulapmv2-sub001/internal/workflow"
)

type CreateDrawingRequest struct {
	ProjectID     string `json:"project_id"`
	DrawingNumber string `json:"drawing_number"`
	Title         string `json:"title"`
	Discipline    string `json:"discipline"`
	AssignedTo    string `json:"assigned_to"`
}

type UpdateDrawingRequest struct {
	Title      *string `json:"title"`
	Discipline *string `json:"discipline"`
	AssignedTo *string `json:"assigned_to"`
}

type ChangeStatusRequest struct {
	Status  string `json:"status"`
	Comment string `json:"comment"`
}

type ReviewRequest struct {
	Comment string `json:"comment"`
}

func ListDrawingsHandler(c *fiber.Ctx) error {
	actor := middleware.ActorFromContext(c)
	params := query.ParamsFromCtx(c)

	drawings, total, err := ListDrawings(actor, params)
	if err != nil {
		return response.FromError(c, err)
	}

	views := shapeDrawingList(drawings)
	if params.Limit > 0 {
		meta := response.CalculateMeta(params.Page, params.Limit, total)
		return response.SuccessWithMeta(c, views, meta)
	}
	return response.Success(c, views)
}

func GetDrawingHandler(c *fiber.Ctx) error {
	actor := middleware.ActorFromContext(c)
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return response.BadRequest(c, "Invalid drawing ID")
	}

	drawing, err := GetDrawing(actor, id)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, shapeDrawing(drawing, true))
}

func CreateDrawingHandler(c *fiber.Ctx) error {
	actor := middleware.ActorFromContext(c)

	var body CreateDrawingRequest
	if err := c.BodyParser(&body); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if body == (CreateDrawingRequest{}) {
		return response.BadRequest(c, "Request body is required")
	}

	input := DrawingInput{
		DrawingNumber: body.DrawingNumber,
		Title:         body.Title,
		Discipline:    body.Discipline,
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

	drawing, err := CreateDrawing(actor, input)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Created(c, shapeDrawing(drawing, true), "Drawing created successfully")
}

func UpdateDrawingHandler(c *fiber.Ctx) error {
	actor := middleware.ActorFromContext(c)
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return response.BadRequest(c, "Invalid drawing ID")
	}

	var body UpdateDrawingRequest
	if err := c.BodyParser(&body); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	update := DrawingUpdate{
		Title:      body.Title,
		Discipline: body.Discipline,
	}
	if body.AssignedTo != nil {
		assignedTo, err := uuid.Parse(*body.AssignedTo)
		if err != nil {
			return response.FromError(c, apperrors.Validation("assigned_to", "Expected a valid UUID"))
		}
		update.AssignedTo = &assignedTo
	}

	drawing, err := UpdateDrawing(actor, id, update)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, shapeDrawing(drawing, true), "Drawing updated successfully")
}

func DeleteDrawingHandler(c *fiber.Ctx) error {
	actor := middleware.ActorFromContext(c)
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return response.BadRequest(c, "Invalid drawing ID")
	}

	if err := DeleteDrawing(actor, id); err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, nil, "Drawing deleted successfully")
}

func UploadDrawingFileHandler(c *fiber.Ctx) error {
	actor := middleware.ActorFromContext(c)
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return response.BadRequest(c, "Invalid drawing ID")
	}

	file, err := c.FormFile("file")
	if err != nil {
		return response.BadRequest(c, "File is required")
	}

	drawing, err := AttachFile(actor, id, file)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, shapeDrawing(drawing, true), "File uploaded successfully")
}

func ChangeDrawingStatusHandler(c *fiber.Ctx) error {
	actor := middleware.ActorFromContext(c)
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return response.BadRequest(c, "Invalid drawing ID")
	}

	var body ChangeStatusRequest
	if err := c.BodyParser(&body); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if body.Status == "" {
		return response.FromError(c, apperrors.Validation("status", "Status is required"))
	}

	drawing, err := ChangeDrawingStatus(actor, id, models.DrawingStatus(body.Status), body.Comment)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, shapeDrawing(drawing, true), "Drawing status updated")
}

func SubmitDrawingHandler(c *fiber.Ctx) error {
	actor := middleware.ActorFromContext(c)
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return response.BadRequest(c, "Invalid drawing ID")
	}

	drawing, err := SubmitDrawing(actor, id)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, shapeDrawing(drawing, true), "Drawing submitted for review")
}

func ApproveDrawingHandler(c *fiber.Ctx) error {
	actor := middleware.ActorFromContext(c)
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return response.BadRequest(c, "Invalid drawing ID")
	}

	var body ReviewRequest
	c.BodyParser(&body)

	drawing, err := ApproveDrawing(actor, id, body.Comment)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, shapeDrawing(drawing, true), "Drawing approved")
}

func RejectDrawingHandler(c *fiber.Ctx) error {
	actor := middleware.ActorFromContext(c)
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return response.BadRequest(c, "Invalid drawing ID")
	}

	var body ReviewRequest
	c.BodyParser(&body)

	drawing, err := RejectDrawing(actor, id, body.Comment)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, shapeDrawing(drawing, true), "Drawing rejected")
}

func DrawingHistoryHandler(c *fiber.Ctx) error {
	actor := middleware.ActorFromContext(c)
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return response.BadRequest(c, "Invalid drawing ID")
	}

	changes, err := DrawingHistory(actor, id)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, workflow.ShapeHistory(changes))
}
