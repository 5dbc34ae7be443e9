package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/keramy/formulapmv2-sub001/internal/database"
	"github.com/keramy/formulapmv2-sub001/internal/models"
	"github.com/keramy/formulapmv2-sub001/internal/permissions"
	"github.com/keramy/formulapmv2-sub001/internal/response"
	"github.com/keramy/formulapmv2-sub001/internal/utils"
)

// AuthRequired verifies the bearer token, resolves the caller's profile and
// stores the Actor on the request context. Identity comes from the auth
// provider's token; it is never re-derived here.
func AuthRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return response.Unauthorized(c, "Missing authorization token")
		}

		tokenParts := strings.Split(authHeader, " ")
		if len(tokenParts) != 2 || tokenParts[0] != "Bearer" {
			return response.Unauthorized(c, "Invalid token format")
		}

		userID, err := utils.ParseJWT(tokenParts[1])
		if err != nil || userID == uuid.Nil {
			return response.Unauthorized(c, "Invalid or expired token")
		}

		var profile models.UserProfile
		if err := database.DB.First(&profile, "id = ?", userID).Error; err != nil {
			return response.Unauthorized(c, "User not found")
		}

		c.Locals("actor", permissions.Actor{
			ID:       profile.ID,
			Role:     permissions.Role(profile.Role),
			IsActive: profile.IsActive,
		})
		return c.Next()
	}
}

// ActorFromContext returns the actor stored by AuthRequired. The zero Actor
// is inactive, so a missing value fails every permission check downstream.
func ActorFromContext(c *fiber.Ctx) permissions.Actor {
	actor, _ := c.Locals("actor").(permissions.Actor)
	return actor
}
