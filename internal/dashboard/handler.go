package dashboard

import (
	"github.com/gofiber/fiber/v2"
	"github.com/keramy/formulapmv2-sub001/internal/middleware"
	"github.com/keramy/formulapmv2-sub001/internal/response"
)

func StatsHandler(c *fiber.Ctx) error {
	actor := middleware.ActorFromContext(c)

	stats, err := GetStats(actor)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, stats)
}

func MyTasksHandler(c *fiber.Ctx) error {
	actor := middleware.ActorFromContext(c)

	rows, err := MyTasks(actor, c.QueryInt("limit", 10))
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, rows)
}

func AlertsHandler(c *fiber.Ctx) error {
	actor := middleware.ActorFromContext(c)

	alerts, err := Alerts(actor)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, alerts)
}
