package response

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/keramy/formulapmv2-sub001/internal/apperrors"
	"github.com/keramy/formulapmv2-sub001/internal/config"
)

// StandardResponse is the envelope every API route returns. Success bodies
// carry data and an optional message; failure bodies carry a flat error
// string, the HTTP status repeated in the body, and optional details.
type StandardResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message,omitempty"`
	Error   string      `json:"error,omitempty"`
	Status  int         `json:"status,omitempty"`
	Details interface{} `json:"details,omitempty"`
	Meta    *Meta       `json:"meta,omitempty"`
}

// Meta carries pagination information for list responses
type Meta struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
}

// CalculateMeta computes pagination metadata from query results
func CalculateMeta(page, limit int, total int64) *Meta {
	if page < 1 {
		page = 1
	}
	totalPages := 0
	if limit > 0 {
		totalPages = int((total + int64(limit) - 1) / int64(limit))
	}
	return &Meta{
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: totalPages,
	}
}

// Success sends a 200 response with data
func Success(c *fiber.Ctx, data interface{}, message ...string) error {
	resp := StandardResponse{
		Success: true,
		Data:    data,
	}
	if len(message) > 0 {
		resp.Message = message[0]
	}
	return c.Status(fiber.StatusOK).JSON(resp)
}

// SuccessWithMeta sends a 200 response with data and pagination metadata
func SuccessWithMeta(c *fiber.Ctx, data interface{}, meta *Meta, message ...string) error {
	resp := StandardResponse{
		Success: true,
		Data:    data,
		Meta:    meta,
	}
	if len(message) > 0 {
		resp.Message = message[0]
	}
	return c.Status(fiber.StatusOK).JSON(resp)
}

// Created sends a 201 response with data
func Created(c *fiber.Ctx, data interface{}, message ...string) error {
	resp := StandardResponse{
		Success: true,
		Data:    data,
	}
	if len(message) > 0 {
		resp.Message = message[0]
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

func fail(c *fiber.Ctx, status int, message string, details ...interface{}) error {
	resp := StandardResponse{
		Success: false,
		Error:   message,
		Status:  status,
	}
	if len(details) > 0 {
		resp.Details = details[0]
	}
	return c.Status(status).JSON(resp)
}

// BadRequest sends a 400 error response
func BadRequest(c *fiber.Ctx, message string, details ...interface{}) error {
	return fail(c, fiber.StatusBadRequest, message, details...)
}

// Unauthorized sends a 401 error response
func Unauthorized(c *fiber.Ctx, message string) error {
	return fail(c, fiber.StatusUnauthorized, message)
}

// Forbidden sends a 403 error response
func Forbidden(c *fiber.Ctx, message string) error {
	return fail(c, fiber.StatusForbidden, message)
}

// NotFound sends a 404 error response
func NotFound(c *fiber.Ctx, message string) error {
	return fail(c, fiber.StatusNotFound, message)
}

// Conflict sends a 409 error response
func Conflict(c *fiber.Ctx, message string) error {
	return fail(c, fiber.StatusConflict, message)
}

// InternalError sends a 500 error response
func InternalError(c *fiber.Ctx, message string) error {
	return fail(c, fiber.StatusInternalServerError, message)
}

// FromError maps a service error onto the envelope. Validation problems come
// back as 400, missing grants as 403, and store failures by kind. A
// ConfigurationError is a bug, so the real message only leaks in development.
func FromError(c *fiber.Ctx, err error) error {
	var vErr *apperrors.ValidationError
	if errors.As(err, &vErr) {
		if vErr.Field != "" {
			return BadRequest(c, vErr.Message, fiber.Map{"field": vErr.Field})
		}
		return BadRequest(c, vErr.Message)
	}

	var authErr *apperrors.AuthorizationError
	if errors.As(err, &authErr) {
		return Forbidden(c, authErr.Message)
	}

	var cfgErr *apperrors.ConfigurationError
	if errors.As(err, &cfgErr) {
		if config.IsDevelopment() {
			return InternalError(c, cfgErr.Message)
		}
		return InternalError(c, "Internal server error")
	}

	var accErr *apperrors.AccessError
	if errors.As(err, &accErr) {
		switch accErr.Kind {
		case apperrors.AccessNotFound:
			return NotFound(c, "Resource not found")
		case apperrors.AccessConflict:
			// Deliberate domain conflicts carry their own message; translated
			// store failures stay generic.
			if accErr.Err == nil && accErr.Message != "" {
				return Conflict(c, accErr.Message)
			}
			return Conflict(c, "Resource conflict")
		case apperrors.AccessTimeout, apperrors.AccessUnavailable:
			return InternalError(c, "Service temporarily unavailable")
		default:
			return InternalError(c, "Failed to access data")
		}
	}

	return InternalError(c, "Internal server error")
}
