package handlers

import (
	"errors"
	"log"

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

// OfficerHandler handles officer HTTP requests, including the profile picture
type OfficerHandler struct {
	repo              *database.Repository[models.Officer]
	attachmentService *services.AttachmentService
}

// NewOfficerHandler creates a new officer handler
func NewOfficerHandler(db *gorm.DB, attachmentService *services.AttachmentService) *OfficerHandler {
	return &OfficerHandler{
		repo:              database.NewRepository[models.Officer](db),
		attachmentService: attachmentService,
	}
}

// CreateOfficer creates an officer account
func (h *OfficerHandler) CreateOfficer(c *fiber.Ctx) error {
	var input requests.CreateOfficerRequest
	if err := c.BodyParser(&input); err != nil {
		response := httpx.BadRequest("Invalid request body", err)
		return httpx.SendResponse(c, response)
	}

	if err := validator.ValidateStruct(&input); err != nil {
		response := httpx.BadRequest("Validation failed", err)
		return httpx.SendResponse(c, response)
	}

	stationID, err := parseOptionalID(input.StationID)
	if err != nil {
		response := httpx.BadRequest("Invalid station ID", err)
		return httpx.SendResponse(c, response)
	}

	picture, err := h.attachmentService.DecodeSingle(services.Officers, input.ProfilePicture)
	if err != nil {
		return sendAttachmentError(c, err)
	}

	officer := models.Officer{
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		Email:        input.Email,
		Role:         input.Role,
		StationID:    stationID,
		MobileNumber: input.MobileNumber,
		Status:       input.Status,
	}
	if err := attachments.Set(&officer, picture); err != nil {
		return sendAttachmentError(c, err)
	}

	if err := h.repo.Create(c.UserContext(), &officer); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			response := httpx.BadRequest("Officer with this email already exists", err)
			return httpx.SendResponse(c, response)
		}
		log.Printf("Failed to save officer: %v", err)
		response := httpx.InternalServerError("Failed to create officer", err)
		return httpx.SendResponse(c, response)
	}

	response := httpx.Created("Officer created successfully", newOfficerView(h.attachmentService, &officer))
	return httpx.SendResponse(c, response)
}

// GetOfficers lists every officer
func (h *OfficerHandler) GetOfficers(c *fiber.Ctx) error {
	officers, err := h.repo.Find(c.UserContext(), database.Query{Order: "last_name asc, first_name asc"})
	if err != nil {
		response := httpx.InternalServerError("Failed to fetch officers", err)
		return httpx.SendResponse(c, response)
	}

	response := httpx.OK("Officers retrieved successfully", viewAll(h.attachmentService, officers, newOfficerView))
	return httpx.SendResponse(c, response)
}

// UpdateOfficer replaces an officer's account details
func (h *OfficerHandler) UpdateOfficer(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		response := httpx.BadRequest("Invalid officer ID", err)
		return httpx.SendResponse(c, response)
	}

	var input requests.UpdateOfficerRequest
	if err := c.BodyParser(&input); err != nil {
		response := httpx.BadRequest("Invalid request body", err)
		return httpx.SendResponse(c, response)
	}

	if err := validator.ValidateStruct(&input); err != nil {
		response := httpx.BadRequest("All fields are required", err)
		return httpx.SendResponse(c, response)
	}

	stationID, err := uuid.Parse(input.StationID)
	if err != nil {
		response := httpx.BadRequest("Invalid station ID", err)
		return httpx.SendResponse(c, response)
	}

	officer, err := h.repo.FindByID(c.UserContext(), id)
	if err != nil {
		return sendFindError(c, err, "Officer")
	}

	officer.FirstName = input.FirstName
	officer.LastName = input.LastName
	officer.Email = input.Email
	officer.Role = input.Role
	officer.StationID = &stationID
	officer.MobileNumber = input.MobileNumber
	officer.Status = input.Status

	if input.ProfilePicture != nil {
		picture, err := h.attachmentService.MergeSingle(services.Officers, officer.AttachmentList(), input.ProfilePicture)
		if err != nil {
			return sendAttachmentError(c, err)
		}
		if err := attachments.Set(officer, picture); err != nil {
			return sendAttachmentError(c, err)
		}
	}

	if err := h.repo.Save(c.UserContext(), officer); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			response := httpx.BadRequest("Officer with this email already exists", err)
			return httpx.SendResponse(c, response)
		}
		log.Printf("Failed to update officer %s: %v", officer.ID, err)
		response := httpx.InternalServerError("Failed to update officer", err)
		return httpx.SendResponse(c, response)
	}

	response := httpx.OK("Officer updated successfully", newOfficerView(h.attachmentService, officer))
	return httpx.SendResponse(c, response)
}

// DeleteOfficer removes an officer together with the profile picture
func (h *OfficerHandler) DeleteOfficer(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		response := httpx.BadRequest("Invalid officer ID", err)
		return httpx.SendResponse(c, response)
	}

	if err := h.repo.Delete(c.UserContext(), id); err != nil {
		return sendFindError(c, err, "Officer")
	}

	response := httpx.OK("Officer deleted successfully", nil)
	return httpx.SendResponse(c, response)
}

// GetProfile returns the calling officer's profile
func (h *OfficerHandler) GetProfile(c *fiber.Ctx) error {
	caller, ok := principal(c)
	if !ok {
		return nil
	}

	officer, err := h.repo.FindByID(c.UserContext(), caller.ID)
	if err != nil {
		return sendFindError(c, err, "Officer")
	}

	response := httpx.OK("Officer profile retrieved successfully", newOfficerView(h.attachmentService, officer))
	return httpx.SendResponse(c, response)
}

// UpdateProfile edits the calling officer's profile. A present
// profile_picture replaces the stored picture; an empty one removes it.
func (h *OfficerHandler) UpdateProfile(c *fiber.Ctx) error {
	caller, ok := principal(c)
	if !ok {
		return nil
	}

	var input requests.UpdateOfficerProfileRequest
	if err := c.BodyParser(&input); err != nil {
		response := httpx.BadRequest("Invalid request body", err)
		return httpx.SendResponse(c, response)
	}

	if err := validator.ValidateStruct(&input); err != nil {
		response := httpx.BadRequest("Validation failed", err)
		return httpx.SendResponse(c, response)
	}

	officer, err := h.repo.FindByID(c.UserContext(), caller.ID)
	if err != nil {
		return sendFindError(c, err, "Officer")
	}

	if input.FirstName != nil {
		officer.FirstName = *input.FirstName
	}
	if input.LastName != nil {
		officer.LastName = *input.LastName
	}
	if input.MobileNumber != nil {
		officer.MobileNumber = *input.MobileNumber
	}
	if input.ProfilePicture != nil {
		picture, err := h.attachmentService.DecodeSingle(services.Officers, input.ProfilePicture)
		if err != nil {
			return sendAttachmentError(c, err)
		}
		if err := attachments.Set(officer, picture); err != nil {
			return sendAttachmentError(c, err)
		}
	}

	if err := h.repo.Save(c.UserContext(), officer); err != nil {
		log.Printf("Failed to update officer %s: %v", officer.ID, err)
		response := httpx.InternalServerError("Failed to update officer profile", err)
		return httpx.SendResponse(c, response)
	}

	response := httpx.OK("Officer profile updated successfully", newOfficerView(h.attachmentService, officer))
	return httpx.SendResponse(c, response)
}

// GetProfilePicture serves the calling officer's picture
func (h *OfficerHandler) GetProfilePicture(c *fiber.Ctx) error {
	caller, ok := principal(c)
	if !ok {
		return nil
	}
	return h.servePicture(c, caller.ID)
}

// GetPicture serves any officer's picture
func (h *OfficerHandler) GetPicture(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return httpx.SendResponse(c, httpx.NotFound("Officer not found"))
	}
	return h.servePicture(c, id)
}

func (h *OfficerHandler) servePicture(c *fiber.Ctx, id uuid.UUID) error {
	officer, err := h.repo.FindByID(c.UserContext(), id)
	if err != nil {
		return sendFindError(c, err, "Officer")
	}
	if officer.ProfilePicture == nil {
		return httpx.SendResponse(c, httpx.NotFound("No profile picture found"))
	}
	return sendAttachment(c, h.attachmentService.Resource(services.Officers), *officer.ProfilePicture, id.String()+"/picture")
}
