package materialspec

import (
	"encoding/json"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/keramy/formulapmv2-sub001/internal/apperrors"
	"github.com/keramy/formulapmv2-sub001/internal/middleware"
	"github.com/keramy/formulapmv2-sub001/internal/models"
	"github.com/keramy/formulapmv2-sub001/internal/query"
	"github.com/keramy/formulapmv2-sub001/internal/response"
	"github.com/keramy/formulapmv2-sub001/internal/workflow"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

type CreateMaterialSpecRequest struct {
	ProjectID    string          `json:"project_id"`
	Name         string          `json:"name"`
	Category     string          `json:"category"`
	Manufacturer string          `json:"manufacturer"`
	Model        string          `json:"model"`
	Specs        json.RawMessage `json:"specs"`
	Quantity     decimal.Decimal `json:"quantity"`
	UnitCost     decimal.Decimal `json:"unit_cost"`
	SupplierID   string          `json:"supplier_id"`
}

type UpdateMaterialSpecRequest struct {
	Name         *string          `json:"name"`
	Category     *string          `json:"category"`
	Manufacturer *string          `json:"manufacturer"`
	Model        *string          `json:"model"`
	Specs        json.RawMessage  `json:"specs"`
	Quantity     *decimal.Decimal `json:"quantity"`
	UnitCost     *decimal.Decimal `json:"unit_cost"`
	SupplierID   *string          `json:"supplier_id"`
}

type ChangeStatusRequest struct {
	Status  string `json:"status"`
	Comment string `json:"comment"`
}

type ReviewRequest struct {
	Comment string `json:"comment"`
}

func ListMaterialSpecsHandler(c *fiber.Ctx) error {
	actor := middleware.ActorFromContext(c)
	params := query.ParamsFromCtx(c)

	specs, total, err := ListMaterialSpecs(actor, params)
	if err != nil {
		return response.FromError(c, err)
	}

	views := shapeMaterialList(specs)
	if params.Limit > 0 {
		meta := response.CalculateMeta(params.Page, params.Limit, total)
		return response.SuccessWithMeta(c, views, meta)
	}
	return response.Success(c, views)
}

func GetMaterialSpecHandler(c *fiber.Ctx) error {
	actor := middleware.ActorFromContext(c)
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return response.BadRequest(c, "Invalid material spec ID")
	}

	spec, err := GetMaterialSpec(actor, id)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, shapeMaterialSpec(spec, true))
}

func CreateMaterialSpecHandler(c *fiber.Ctx) error {
	actor := middleware.ActorFromContext(c)

	var body CreateMaterialSpecRequest
	if err := c.BodyParser(&body); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if body.Name == "" && body.ProjectID == "" {
		return response.BadRequest(c, "Request body is required")
	}

	input := MaterialSpecInput{
		Name:         body.Name,
		Category:     body.Category,
		Manufacturer: body.Manufacturer,
		Model:        body.Model,
		Quantity:     body.Quantity,
		UnitCost:     body.UnitCost,
	}
	if len(body.Specs) > 0 {
		input.Specs = datatypes.JSON(body.Specs)
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

	spec, err := CreateMaterialSpec(actor, input)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Created(c, shapeMaterialSpec(spec, true), "Material spec created successfully")
}

func UpdateMaterialSpecHandler(c *fiber.Ctx) error {
	actor := middleware.ActorFromContext(c)
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return response.BadRequest(c, "Invalid material spec ID")
	}

	var body UpdateMaterialSpecRequest
	if err := c.BodyParser(&body); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	update := MaterialSpecUpdate{
		Name:         body.Name,
		Category:     body.Category,
		Manufacturer: body.Manufacturer,
		Model:        body.Model,
		Quantity:     body.Quantity,
		UnitCost:     body.UnitCost,
	}
	if len(body.Specs) > 0 {
		update.Specs = datatypes.JSON(body.Specs)
	}
	if body.SupplierID != nil {
		supplierID, err := uuid.Parse(*body.SupplierID)
		if err != nil {
			return response.FromError(c, apperrors.Validation("supplier_id", "Expected a valid UUID"))
		}
		update.SupplierID = &supplierID
	}

	spec, err := UpdateMaterialSpec(actor, id, update)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, shapeMaterialSpec(spec, true), "Material spec updated successfully")
}

func DeleteMaterialSpecHandler(c *fiber.Ctx) error {
	actor := middleware.ActorFromContext(c)
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return response.BadRequest(c, "Invalid material spec ID")
	}

	if err := DeleteMaterialSpec(actor, id); err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, nil, "Material spec deleted successfully")
}

func ChangeMaterialStatusHandler(c *fiber.Ctx) error {
	actor := middleware.ActorFromContext(c)
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return response.BadRequest(c, "Invalid material spec ID")
	}

	var body ChangeStatusRequest
	if err := c.BodyParser(&body); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if body.Status == "" {
		return response.FromError(c, apperrors.Validation("status", "Status is required"))
	}

	spec, err := ChangeMaterialStatus(actor, id, models.MaterialStatus(body.Status), body.Comment)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, shapeMaterialSpec(spec, true), "Material spec status updated")
}

func ApproveMaterialSpecHandler(c *fiber.Ctx) error {
	actor := middleware.ActorFromContext(c)
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return response.BadRequest(c, "Invalid material spec ID")
	}

	var body ReviewRequest
	c.BodyParser(&body)

	spec, err := ApproveMaterialSpec(actor, id, body.Comment)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, shapeMaterialSpec(spec, true), "Material spec approved")
}

func RejectMaterialSpecHandler(c *fiber.Ctx) error {
	actor := middleware.ActorFromContext(c)
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return response.BadRequest(c, "Invalid material spec ID")
	}

	var body ReviewRequest
	c.BodyParser(&body)

	spec, err := RejectMaterialSpec(actor, id, body.Comment)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, shapeMaterialSpec(spec, true), "Material spec rejected")
}

func MaterialHistoryHandler(c *fiber.Ctx) error {
	actor := middleware.ActorFromContext(c)
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return response.BadRequest(c, "Invalid material spec ID")
	}

	changes, err := MaterialHistory(actor, id)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, workflow.ShapeHistory(changes))
}
