package handlers

import (
	"log"
	"strings"

	"station-api/internal/attachments"
	"station-api/internal/database"
	"station-api/internal/models"
	"station-api/internal/requests"
	"station-api/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/kerimovok/go-pkg-utils/httpx"
	"github.com/kerimovok/go-pkg-utils/validator"
	"gorm.io/gorm"
)

// BlotterHandler handles incident report HTTP requests
type BlotterHandler struct {
	repo              *database.Repository[models.Blotter]
	attachmentService *services.AttachmentService
}

// NewBlotterHandler creates a new blotter handler
func NewBlotterHandler(db *gorm.DB, attachmentService *services.AttachmentService) *BlotterHandler {
	return &BlotterHandler{
		repo:              database.NewRepository[models.Blotter](db),
		attachmentService: attachmentService,
	}
}

// CreateBlotter files a new incident report. Only admins may file on behalf
// of another user.
func (h *BlotterHandler) CreateBlotter(c *fiber.Ctx) error {
	caller, ok := principal(c)
	if !ok {
		return nil
	}

	var input requests.CreateBlotterRequest
	if err := c.BodyParser(&input); err != nil {
		response := httpx.BadRequest("Invalid request body", err)
		return httpx.SendResponse(c, response)
	}

	if err := validator.ValidateStruct(&input); err != nil {
		response := httpx.BadRequest("Missing fields", err)
		return httpx.SendResponse(c, response)
	}

	userID := caller.ID
	if input.UserID != "" {
		requested, err := uuid.Parse(input.UserID)
		if err != nil {
			response := httpx.BadRequest("Invalid user ID", err)
			return httpx.SendResponse(c, response)
		}
		if requested != caller.ID && !isAdmin(caller) {
			return sendForbidden(c)
		}
		userID = requested
	}

	officerID, err := parseOptionalID(input.OfficerID)
	if err != nil {
		response := httpx.BadRequest("Invalid officer ID", err)
		return httpx.SendResponse(c, response)
	}

	incidentDate, err := requests.ParseDate(input.IncidentDate)
	if err != nil {
		response := httpx.BadRequest("Invalid incident date", err)
		return httpx.SendResponse(c, response)
	}

	records, err := h.attachmentService.Decode(services.Blotters, input.Attachments)
	if err != nil {
		return sendAttachmentError(c, err)
	}

	blotter := models.Blotter{
		UserID:          userID,
		AssignedOfficer: officerID,
		Reporter: models.Reporter{
			FullName:      strings.TrimSpace(input.ReporterName),
			ContactNumber: strings.TrimSpace(input.ReporterContact),
			Address:       strings.TrimSpace(input.ReporterAddress),
		},
		Incident: models.Incident{
			Type:        input.IncidentType,
			Date:        incidentDate,
			Time:        input.IncidentTime,
			Description: input.IncidentDescription,
			Location: models.Location{
				Latitude:  *input.Latitude,
				Longitude: *input.Longitude,
				Address:   input.Address,
			},
		},
		Status: models.BlotterStatusPending,
	}
	if err := attachments.Set(&blotter, records); err != nil {
		return sendAttachmentError(c, err)
	}

	if err := h.repo.Create(c.UserContext(), &blotter); err != nil {
		log.Printf("Failed to save blotter: %v", err)
		response := httpx.InternalServerError("Failed to create blotter", err)
		return httpx.SendResponse(c, response)
	}

	response := httpx.Created("Blotter created successfully", newBlotterView(h.attachmentService, &blotter))
	return httpx.SendResponse(c, response)
}

// GetBlotters lists every blotter, newest first
func (h *BlotterHandler) GetBlotters(c *fiber.Ctx) error {
	blotters, err := h.repo.Find(c.UserContext(), database.Query{Order: "created_at desc"})
	if err != nil {
		response := httpx.InternalServerError("Failed to fetch blotters", err)
		return httpx.SendResponse(c, response)
	}

	response := httpx.OK("Blotters retrieved successfully", viewAll(h.attachmentService, blotters, newBlotterView))
	return httpx.SendResponse(c, response)
}

// GetUserBlotters lists the blotters filed for one user. Users only see
// their own.
func (h *BlotterHandler) GetUserBlotters(c *fiber.Ctx) error {
	caller, ok := principal(c)
	if !ok {
		return nil
	}

	userID, err := uuid.Parse(c.Params("userId"))
	if err != nil {
		response := httpx.BadRequest("Invalid user ID", err)
		return httpx.SendResponse(c, response)
	}
	if userID != caller.ID && !isAdmin(caller) {
		return sendForbidden(c)
	}

	blotters, err := h.repo.Find(c.UserContext(), database.Query{
		Where: map[string]any{"user_id": userID},
		Order: "created_at desc",
	})
	if err != nil {
		response := httpx.InternalServerError("Failed to fetch blotters", err)
		return httpx.SendResponse(c, response)
	}

	response := httpx.OK("Blotters retrieved successfully", viewAll(h.attachmentService, blotters, newBlotterView))
	return httpx.SendResponse(c, response)
}

// UpdateBlotter applies an admin update
func (h *BlotterHandler) UpdateBlotter(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		response := httpx.BadRequest("Invalid blotter ID", err)
		return httpx.SendResponse(c, response)
	}

	var input requests.UpdateBlotterRequest
	if err := c.BodyParser(&input); err != nil {
		response := httpx.BadRequest("Invalid request body", err)
		return httpx.SendResponse(c, response)
	}

	if err := validator.ValidateStruct(&input); err != nil {
		response := httpx.BadRequest("Validation failed", err)
		return httpx.SendResponse(c, response)
	}

	blotter, err := h.repo.FindByID(c.UserContext(), id)
	if err != nil {
		return sendFindError(c, err, "Blotter")
	}

	if input.Status != nil {
		blotter.Status = *input.Status
	}
	if input.Notes != nil {
		blotter.Notes = *input.Notes
	}
	if input.OfficerID != nil {
		officerID, err := parseOptionalID(*input.OfficerID)
		if err != nil {
			response := httpx.BadRequest("Invalid officer ID", err)
			return httpx.SendResponse(c, response)
		}
		blotter.AssignedOfficer = officerID
	}
	if input.Attachments != nil {
		records, err := h.attachmentService.Merge(services.Blotters, blotter.Attachments, input.Attachments)
		if err != nil {
			return sendAttachmentError(c, err)
		}
		if err := attachments.Set(blotter, records); err != nil {
			return sendAttachmentError(c, err)
		}
	}

	if err := h.repo.Save(c.UserContext(), blotter); err != nil {
		log.Printf("Failed to update blotter %s: %v", id, err)
		response := httpx.InternalServerError("Failed to update blotter", err)
		return httpx.SendResponse(c, response)
	}

	response := httpx.OK("Blotter updated successfully", newBlotterView(h.attachmentService, blotter))
	return httpx.SendResponse(c, response)
}

// DeleteBlotter deletes a blotter and its attachments
func (h *BlotterHandler) DeleteBlotter(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		response := httpx.BadRequest("Invalid blotter ID", err)
		return httpx.SendResponse(c, response)
	}

	if err := h.repo.Delete(c.UserContext(), id); err != nil {
		return sendFindError(c, err, "Blotter")
	}

	response := httpx.OK("Blotter deleted successfully", nil)
	return httpx.SendResponse(c, response)
}

// GetAttachment serves one blotter attachment
func (h *BlotterHandler) GetAttachment(c *fiber.Ctx) error {
	return serveAttachment(c, h.repo, h.attachmentService.Resource(services.Blotters))
}
