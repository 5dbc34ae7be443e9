package supplier

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/keramy/formulapmv2-sub001/internal/middleware"
	"github.com/keramy/formulapmv2-sub001/internal/query"
	"github.com/keramy/formulapmv2-sub001/internal/response"
)

type CreateSupplierRequest struct {
	Name          string `json:"name"`
	ContactPerson string `json:"contact_person"`
	Email         string `json:"email"`
	Phone         string `json:"phone"`
	Specialty     string `json:"specialty"`
}

type UpdateSupplierRequest struct {
	Name          *string `json:"name"`
	ContactPerson *string `json:"contact_person"`
	Email         *string `json:"email"`
	Phone         *string `json:"phone"`
	Specialty     *string `json:"specialty"`
}

func ListSuppliersHandler(c *fiber.Ctx) error {
	actor := middleware.ActorFromContext(c)
	params := query.ParamsFromCtx(c)

	suppliers, total, err := ListSuppliers(actor, params)
	if err != nil {
		return response.FromError(c, err)
	}

	views := shapeSupplierList(suppliers)
	if params.Limit > 0 {
		meta := response.CalculateMeta(params.Page, params.Limit, total)
		return response.SuccessWithMeta(c, views, meta)
	}
	return response.Success(c, views)
}

func GetSupplierHandler(c *fiber.Ctx) error {
	actor := middleware.ActorFromContext(c)

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return response.BadRequest(c, "Invalid supplier ID")
	}

	supplier, err := GetSupplier(actor, id)
	if err != nil {
		return response.FromError(c, err)
	}

	return response.Success(c, shapeSupplier(supplier, true))
}

func CreateSupplierHandler(c *fiber.Ctx) error {
	actor := middleware.ActorFromContext(c)

	var body CreateSupplierRequest
	if err := c.BodyParser(&body); err != nil {
		return response.BadRequest(c, "Invalid request body", err.Error())
	}

	if body == (CreateSupplierRequest{}) {
		return response.BadRequest(c, "Request body is required")
	}

	if body.Name == "" {
		return response.BadRequest(c, "Name is required", fiber.Map{"field": "name"})
	}

	supplier, err := CreateSupplier(actor, body.Name, body.ContactPerson, body.Email, body.Phone, body.Specialty)
	if err != nil {
		return response.FromError(c, err)
	}

	return response.Created(c, shapeSupplier(supplier, true), "Supplier created successfully")
}

func UpdateSupplierHandler(c *fiber.Ctx) error {
	actor := middleware.ActorFromContext(c)

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return response.BadRequest(c, "Invalid supplier ID")
	}

	var body UpdateSupplierRequest
	if err := c.BodyParser(&body); err != nil {
		return response.BadRequest(c, "Invalid request body", err.Error())
	}

	supplier, err := UpdateSupplier(actor, id, SupplierUpdate{
		Name:          body.Name,
		ContactPerson: body.ContactPerson,
		Email:         body.Email,
		Phone:         body.Phone,
		Specialty:     body.Specialty,
	})
	if err != nil {
		return response.FromError(c, err)
	}

	return response.Success(c, shapeSupplier(supplier, true), "Supplier updated successfully")
}

func DeleteSupplierHandler(c *fiber.Ctx) error {
	actor := middleware.ActorFromContext(c)

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return response.BadRequest(c, "Invalid supplier ID")
	}

	if err := DeleteSupplier(actor, id); err != nil {
		return response.FromError(c, err)
	}

	return response.Success(c, nil, "Supplier deleted successfully")
}
