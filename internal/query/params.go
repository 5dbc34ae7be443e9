package query

import "github.com/gofiber/fiber/v2"

// ParamsFromCtx lifts the list parameters off the request. Parsing stops
// here; validation happens in Build.
func ParamsFromCtx(c *fiber.Ctx) Params {
	return Params{
		Search:        c.Query("search"),
		Status:        c.Query("status"),
		ProjectID:     c.Query("project_id"),
		FromDate:      c.Query("from_date"),
		ToDate:        c.Query("to_date"),
		SortField:     c.Query("sort_field"),
		SortDirection: c.Query("sort_direction"),
		Limit:         c.QueryInt("limit"),
		Page:          c.QueryInt("page"),
	}
}
