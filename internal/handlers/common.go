package handlers

import (
	"errors"
	"log"
	"strings"

	"station-api/internal/database"
	"station-api/internal/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/kerimovok/go-pkg-utils/httpx"
)

// sendFindError maps a repository lookup failure to a response
func sendFindError(c *fiber.Ctx, err error, name string) error {
	if errors.Is(err, database.ErrNotFound) {
		return httpx.SendResponse(c, httpx.NotFound(name+" not found"))
	}
	log.Printf("Failed to fetch %s: %v", strings.ToLower(name), err)
	response := httpx.InternalServerError("Failed to fetch "+strings.ToLower(name), err)
	return httpx.SendResponse(c, response)
}

func sendAttachmentError(c *fiber.Ctx, err error) error {
	response := httpx.BadRequest("Invalid attachments", err)
	return httpx.SendResponse(c, response)
}

func sendForbidden(c *fiber.Ctx) error {
	return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
		"success": false,
		"message": "Access denied",
	})
}

// principal returns the caller, or false after writing a 401
func principal(c *fiber.Ctx) (middleware.Principal, bool) {
	p, ok := middleware.CurrentPrincipal(c)
	if !ok {
		_ = c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"success": false,
			"message": "No token, authorization denied",
		})
	}
	return p, ok
}

func isAdmin(p middleware.Principal) bool {
	return p.Role == middleware.RoleAdmin
}

// parseOptionalID parses s as a uuid, treating the empty string as absent
func parseOptionalID(s string) (*uuid.UUID, error) {
	if s == "" {
		return nil, nil
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return nil, err
	}
	return &id, nil
}
