package scope

import (
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

type CreateScopeItemRequest struct {
	ProjectID   string          `json:"project_id"`
	ItemNo      int             `json:"item_no"`
	Category    string          `json:"category"`
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	SupplierID  string          `json:"supplier_id"`
	AssignedTo  string          `json:"assigned_to"`
}

type UpdateScopeItemRequest struct {
	Category    *string          `json:"category"`
	Description *string          `json:"description"`
	Quantity    *decimal.Decimal `json:"quantity"`
	UnitPrice   *decimal.Decimal `json:"unit_price"`
	SupplierID  *string          `json:"supplier_id"`
	AssignedTo  *string          `json:"assigned_to"`
}

type ChangeStatusRequest struct {
	Status  string `json:"status"`
	Comment string `json:"comment"`
}

func ListScopeItemsHandler(c *fiber.Ctx) error {
	actor := middleware.ActorFromContext(c)
	params := query.ParamsFromCtx(c)

	items, total, err := ListScopeItems(actor, params)
	if err != nil {
		return response.FromError(c, err)
	}

	views := shapeScopeList(items)
	if params.Limit > 0 {
		meta := response.CalculateMeta(params.Page, params.Limit, total)
		return response.SuccessWithMeta(c, views, meta)
	}
	return response.Success(c, views)
}

func GetScopeItemHandler(c *fiber.Ctx) error {
	actor := middleware.ActorFromContext(c)
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return response.BadRequest(c, "Invalid scope item ID")
	}

	item, err := GetScopeItem(actor, id)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, shapeScopeItem(item, true))
}

func CreateScopeItemHandler(c *fiber.Ctx) error {
	actor := middleware.ActorFromContext(c)

	var body CreateScopeItemRequest
	if err := c.BodyParser(&body); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if body.ProjectID == "" && body.Description == "" {
		return response.BadRequest(c, "Request body is required")
	}

	input := ScopeItemInput{
		ItemNo:      body.ItemNo,
		Category:    body.Category,
		Description: body.Description,
		Quantity:    body.Quantity,
		UnitPrice:   body.UnitPrice,
	}

	if body.ProjectID != "" {
		projectID, err := uuid.Parse(body.ProjectID)
		if err != nil {
			return response.FromError(c, apperrors.Validation("project_id", "Expected a valid UUID"))
		}
		input.ProjectID = projectID
	}
	if body.SupplierID != "" {
		supplierID, err := uuid.Parse(body.SupplierID)
		if err != nil {
			return response.FromError(c, apperrors.Validation("supplier_id", "Expected a valid UUID"))
		}
		input.SupplierID = &supplierID
	}
	if body.AssignedTo != "" {
		assignedTo, err := uuid.Parse(body.AssignedTo)
		if err != nil {
			return response.FromError(c, apperrors.Validation("assigned_to", "Expected a valid UUID"))
		}
		input.AssignedTo = &assignedTo
	}

	item, err := CreateScopeItem(actor, input)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Created(c, shapeScopeItem(item, true), "Scope item created successfully")
}

func UpdateScopeItemHandler(c *fiber.Ctx) error {
	actor := middleware.ActorFromContext(c)
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return response.BadRequest(c, "Invalid scope item ID")
	}

	var body UpdateScopeItemRequest
	if err := c.BodyParser(&body); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	update := ScopeItemUpdate{
		Category:    body.Category,
		Description: body.Description,
		Quantity:    body.Quantity,
		UnitPrice:   body.UnitPrice,
	}
	if body.SupplierID != nil {
		supplierID, err := uuid.Parse(*body.SupplierID)
		if err != nil {
			return response.FromError(c, apperrors.Validation("supplier_id", "Expected a valid UUID"))
		}
		update.SupplierID = &supplierID
	}
	if body.AssignedTo != nil {
		assignedTo, err := uuid.Parse(*body.AssignedTo)
		if err != nil {
			return response.FromError(c, apperrors.Validation("assigned_to", "Expected a valid UUID"))
		}
		update.AssignedTo = &assignedTo
	}

	item, err := UpdateScopeItem(actor, id, update)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, shapeScopeItem(item, true), "Scope item updated successfully")
}

func DeleteScopeItemHandler(c *fiber.Ctx) error {
	actor := middleware.ActorFromContext(c)
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return response.BadRequest(c, "Invalid scope item ID")
	}

	if err := DeleteScopeItem(actor, id); err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, nil, "Scope item deleted successfully")
}

func ChangeScopeStatusHandler(c *fiber.Ctx) error {
	actor := middleware.ActorFromContext(c)
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return response.BadRequest(c, "Invalid scope item ID")
	}

	var body ChangeStatusRequest
	if err := c.BodyParser(&body); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if body.Status == "" {
		return response.FromError(c, apperrors.Validation("status", "Status is required"))
	}

	item, err := ChangeScopeStatus(actor, id, models.TaskStatus(body.Status), body.Comment)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, shapeScopeItem(item, true), "Scope item status updated")
}

func ScopeHistoryHandler(c *fiber.Ctx) error {
	actor := middleware.ActorFromContext(c)
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return response.BadRequest(c, "Invalid scope item ID")
	}

	changes, err := ScopeHistory(actor, id)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, workflow.ShapeHistory(changes))
}

func ExportScopeHandler(c *fiber.Ctx) error {
	actor := middleware.ActorFromContext(c)
	params := query.ParamsFromCtx(c)

	data, err := ExportScope(actor, params)
	if err != nil {
		return response.FromError(c, err)
	}

	c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="scope-export.xlsx"`)
	return c.Send(data)
}
