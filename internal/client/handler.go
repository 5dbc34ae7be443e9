package client

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/keramy/formulapmv2-sub001/internal/middleware"
	"github.com/keramy/formulapmv2-sub001/internal/query"
	"github.com/keramy/formulapmv2-sub001/internal/response"
)

type CreateClientRequest struct {
	Name        string `json:"name"`
	CompanyName string `json:"company_name"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	Address     string `json:"address"`
	City        string `json:"city"`
	State       string `json:"state"`
	Country     string `json:"country"`
	Notes       string `json:"notes"`
}

type UpdateClientRequest struct {
	Name        *string `json:"name"`
	CompanyName *string `json:"company_name"`
	Email       *string `json:"email"`
	Phone       *string `json:"phone"`
	Address     *string `json:"address"`
	City        *string `json:"city"`
	State       *string `json:"state"`
	Country     *string `json:"country"`
	Notes       *string `json:"notes"`
}

func ListClientsHandler(c *fiber.Ctx) error {
	actor := middleware.ActorFromContext(c)
	params := query.ParamsFromCtx(c)

	clients, total, err := ListClients(actor, params)
	if err != nil {
		return response.FromError(c, err)
	}

	views := shapeClientList(clients)
	if params.Limit > 0 {
		meta := response.CalculateMeta(params.Page, params.Limit, total)
		return response.SuccessWithMeta(c, views, meta)
	}
	return response.Success(c, views)
}

func GetClientHandler(c *fiber.Ctx) error {
	actor := middleware.ActorFromContext(c)

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return response.BadRequest(c, "Invalid client ID")
	}

	client, err := GetClient(actor, id)
	if err != nil {
		return response.FromError(c, err)
	}

	return response.Success(c, shapeClient(client, true))
}

func CreateClientHandler(c *fiber.Ctx) error {
	actor := middleware.ActorFromContext(c)

	var body CreateClientRequest
	if err := c.BodyParser(&body); err != nil {
		return response.BadRequest(c, "Invalid request body", err.Error())
	}

	if body == (CreateClientRequest{}) {
		return response.BadRequest(c, "Request body is required")
	}

	if body.Name == "" {
		return response.BadRequest(c, "Name is required", fiber.Map{"field": "name"})
	}

	client, err := CreateClient(actor, body.Name, body.CompanyName, body.Email, body.Phone,
		body.Address, body.City, body.State, body.Country, body.Notes)
	if err != nil {
		return response.FromError(c, err)
	}

	return response.Created(c, shapeClient(client, true), "Client created successfully")
}

func UpdateClientHandler(c *fiber.Ctx) error {
	actor := middleware.ActorFromContext(c)

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return response.BadRequest(c, "Invalid client ID")
	}

	var body UpdateClientRequest
	if err := c.BodyParser(&body); err != nil {
		return response.BadRequest(c, "Invalid request body", err.Error())
	}

	client, err := UpdateClient(actor, id, ClientUpdate{
		Name:        body.Name,
		CompanyName: body.CompanyName,
		Email:       body.Email,
		Phone:       body.Phone,
		Address:     body.Address,
		City:        body.City,
		State:       body.State,
		Country:     body.Country,
		Notes:       body.Notes,
	})
	if err != nil {
		return response.FromError(c, err)
	}

	return response.Success(c, shapeClient(client, true), "Client updated successfully")
}

func DeleteClientHandler(c *fiber.Ctx) error {
	actor := middleware.ActorFromContext(c)

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return response.BadRequest(c, "Invalid client ID")
	}

	if err := DeleteClient(actor, id); err != nil {
		return response.FromError(c, err)
	}

	return response.Success(c, nil, "Client deleted successfully")
}
