package report

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

type CreateReportRequest struct {
	ProjectID  string `json:"project_id"`
	Title      string `json:"title"`
	Type       string `json:"type"`
	Summary    string `json:"summary"`
	Body       string `json:"body"`
	ReportDate string `json:"report_date"`
}

type UpdateReportRequest struct {
	Title      *string `json:"title"`
	Type       *string `json:"type"`
	Summary    *string `json:"summary"`
	Body       *string `json:"body"`
	ReportDate *string `json:"report_date"`
}

type ChangeStatusRequest struct {
	Status  string `json:"status"`
	Comment string `json:"comment"`
}

type AddLineRequest struct {
	Description string `json:"description"`
}

func ListReportsHandler(c *fiber.Ctx) error {
	actor := middleware.ActorFromContext(c)
	params := query.ParamsFromCtx(c)

	reports, total, err := ListReports(actor, params)
	if err != nil {
		return response.FromError(c, err)
	}

	views := shapeReportList(reports)
	if params.Limit > 0 {
		meta := response.CalculateMeta(params.Page, params.Limit, total)
		return response.SuccessWithMeta(c, views, meta)
	}
	return response.Success(c, views)
}

func GetReportHandler(c *fiber.Ctx) error {
	actor := middleware.ActorFromContext(c)
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return response.BadRequest(c, "Invalid report ID")
	}

	report, err := GetReport(actor, id)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, shapeReport(report, true))
}

func CreateReportHandler(c *fiber.Ctx) error {
	actor := middleware.ActorFromContext(c)

	var body CreateReportRequest
	if err := c.BodyParser(&body); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if body == (CreateReportRequest{}) {
		return response.BadRequest(c, "Request body is required")
	}

	input := ReportInput{
		Title:   body.Title,
		Type:    body.Type,
		Summary: body.Summary,
		Body:    body.Body,
	}

	if body.ProjectID != "" {
		projectID, err := uuid.Parse(body.ProjectID)
		if err != nil {
			return response.FromError(c, apperrors.Validation("project_id", "Expected a valid UUID"))
		}
		input.ProjectID = projectID
	}
	if body.ReportDate != "" {
		date, err := time.Parse("2006-01-02", body.ReportDate)
		if err != nil {
			return response.FromError(c, apperrors.Validation("report_date", "Expected YYYY-MM-DD date"))
		}
		input.ReportDate = &date
	}

	report, err := CreateReport(actor, input)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Created(c, shapeReport(report, true), "Report created successfully")
}

func UpdateReportHandler(c *fiber.Ctx) error {
	actor := middleware.ActorFromContext(c)
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return response.BadRequest(c, "Invalid report ID")
	}

	var body UpdateReportRequest
	if err := c.BodyParser(&body); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	update := ReportUpdate{
		Title:   body.Title,
		Type:    body.Type,
		Summary: body.Summary,
		Body:    body.Body,
	}
	if body.ReportDate != nil {
		date, err := time.Parse("2006-01-02", *body.ReportDate)
		if err != nil {
			return response.FromError(c, apperrors.Validation("report_date", "Expected YYYY-MM-DD date"))
		}
		update.ReportDate = &date
	}

	report, err := UpdateReport(actor, id, update)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, shapeReport(report, true), "Report updated successfully")
}

func DeleteReportHandler(c *fiber.Ctx) error {
	actor := middleware.ActorFromContext(c)
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return response.BadRequest(c, "Invalid report ID")
	}

	if err := DeleteReport(actor, id); err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, nil, "Report deleted successfully")
}

func ChangeReportStatusHandler(c *fiber.Ctx) error {
	actor := middleware.ActorFromContext(c)
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return response.BadRequest(c, "Invalid report ID")
	}

	var body ChangeStatusRequest
	if err := c.BodyParser(&body); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if body.Status == "" {
		return response.FromError(c, apperrors.Validation("status", "Status is required"))
	}

	report, err := ChangeReportStatus(actor, id, models.ReportStatus(body.Status), body.Comment)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, shapeReport(report, true), "Report status updated")
}

func PublishReportHandler(c *fiber.Ctx) error {
	actor := middleware.ActorFromContext(c)
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return response.BadRequest(c, "Invalid report ID")
	}

	report, err := PublishReport(actor, id)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, shapeReport(report, true), "Report published")
}

func ArchiveReportHandler(c *fiber.Ctx) error {
	actor := middleware.ActorFromContext(c)
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return response.BadRequest(c, "Invalid report ID")
	}

	report, err := ArchiveReport(actor, id)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, shapeReport(report, true), "Report archived")
}

func ReportHistoryHandler(c *fiber.Ctx) error {
	actor := middleware.ActorFromContext(c)
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return response.BadRequest(c, "Invalid report ID")
	}

	changes, err := ReportHistory(actor, id)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, workflow.ShapeHistory(changes))
}

func AddReportLineHandler(c *fiber.Ctx) error {
	actor := middleware.ActorFromContext(c)
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return response.BadRequest(c, "Invalid report ID")
	}

	var body AddLineRequest
	if err := c.BodyParser(&body); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	line, err := AddReportLine(actor, id, body.Description)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Created(c, ReportLineView{
		ID:          line.ID,
		LineNo:      line.LineNo,
		Description: line.Description,
		PhotoURL:    line.PhotoURL,
	}, "Report line added")
}

func UploadLinePhotoHandler(c *fiber.Ctx) error {
	actor := middleware.ActorFromContext(c)
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return response.BadRequest(c, "Invalid report ID")
	}
	lineID, err := uuid.Parse(c.Params("line_id"))
	if err != nil {
		return response.BadRequest(c, "Invalid line ID")
	}

	file, err := c.FormFile("file")
	if err != nil {
		return response.BadRequest(c, "File is required")
	}

	line, err := AttachLinePhoto(actor, id, lineID, file)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, ReportLineView{
		ID:          line.ID,
		LineNo:      line.LineNo,
		Description: line.Description,
		PhotoURL:    line.PhotoURL,
	}, "Photo uploaded successfully")
}
