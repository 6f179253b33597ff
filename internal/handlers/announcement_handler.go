package handlers

import (
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

// AnnouncementHandler handles announcement-related HTTP requests
type AnnouncementHandler struct {
	repo              *database.Repository[models.Announcement]
	attachmentService *services.AttachmentService
}

// NewAnnouncementHandler creates a new announcement handler
func NewAnnouncementHandler(db *gorm.DB, attachmentService *services.AttachmentService) *AnnouncementHandler {
	return &AnnouncementHandler{
		repo:              database.NewRepository[models.Announcement](db),
		attachmentService: attachmentService,
	}
}

// CreateAnnouncement handles announcement creation
func (h *AnnouncementHandler) CreateAnnouncement(c *fiber.Ctx) error {
	var input requests.AnnouncementRequest
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

	records, err := h.attachmentService.Decode(services.Announcements, input.Attachments)
	if err != nil {
		return sendAttachmentError(c, err)
	}

	announcement := models.Announcement{
		StationID: stationID,
		Title:     input.Title,
		Details:   input.Details,
		Status:    input.Status,
	}
	if err := attachments.Set(&announcement, records); err != nil {
		return sendAttachmentError(c, err)
	}

	if err := h.repo.Create(c.UserContext(), &announcement); err != nil {
		log.Printf("Failed to save announcement: %v", err)
		response := httpx.InternalServerError("Failed to create announcement", err)
		return httpx.SendResponse(c, response)
	}

	response := httpx.Created("Announcement created successfully", newAnnouncementView(h.attachmentService, &announcement))
	return httpx.SendResponse(c, response)
}

// GetAnnouncements lists every announcement, newest first
func (h *AnnouncementHandler) GetAnnouncements(c *fiber.Ctx) error {
	announcements, err := h.repo.Find(c.UserContext(), database.Query{Order: "created_at desc"})
	if err != nil {
		response := httpx.InternalServerError("Failed to fetch announcements", err)
		return httpx.SendResponse(c, response)
	}

	response := httpx.OK("Announcements retrieved successfully", viewAll(h.attachmentService, announcements, newAnnouncementView))
	return httpx.SendResponse(c, response)
}

// GetAnnouncement retrieves one announcement
func (h *AnnouncementHandler) GetAnnouncement(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		response := httpx.BadRequest("Invalid announcement ID", err)
		return httpx.SendResponse(c, response)
	}

	announcement, err := h.repo.FindByID(c.UserContext(), id)
	if err != nil {
		return sendFindError(c, err, "Announcement")
	}

	response := httpx.OK("Announcement retrieved successfully", newAnnouncementView(h.attachmentService, announcement))
	return httpx.SendResponse(c, response)
}

// UpdateAnnouncement replaces an announcement's fields. A present attachments
// list replaces the stored one.
func (h *AnnouncementHandler) UpdateAnnouncement(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		response := httpx.BadRequest("Invalid announcement ID", err)
		return httpx.SendResponse(c, response)
	}

	var input requests.AnnouncementRequest
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

	announcement, err := h.repo.FindByID(c.UserContext(), id)
	if err != nil {
		return sendFindError(c, err, "Announcement")
	}

	if input.Attachments != nil {
		records, err := h.attachmentService.Merge(services.Announcements, announcement.Attachments, input.Attachments)
		if err != nil {
			return sendAttachmentError(c, err)
		}
		if err := attachments.Set(announcement, records); err != nil {
			return sendAttachmentError(c, err)
		}
	}

	announcement.StationID = stationID
	announcement.Title = input.Title
	announcement.Details = input.Details
	announcement.Status = input.Status

	if err := h.repo.Save(c.UserContext(), announcement); err != nil {
		log.Printf("Failed to update announcement %s: %v", id, err)
		response := httpx.InternalServerError("Failed to update announcement", err)
		return httpx.SendResponse(c, response)
	}

	response := httpx.OK("Announcement updated successfully", newAnnouncementView(h.attachmentService, announcement))
	return httpx.SendResponse(c, response)
}

// DeleteAnnouncement deletes an announcement and its attachments
func (h *AnnouncementHandler) DeleteAnnouncement(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		response := httpx.BadRequest("Invalid announcement ID", err)
		return httpx.SendResponse(c, response)
	}

	if err := h.repo.Delete(c.UserContext(), id); err != nil {
		return sendFindError(c, err, "Announcement")
	}

	response := httpx.OK("Announcement deleted successfully", nil)
	return httpx.SendResponse(c, response)
}

// GetAttachment serves one announcement attachment
func (h *AnnouncementHandler) GetAttachment(c *fiber.Ctx) error {
	return serveAttachment(c, h.repo, h.attachmentService.Resource(services.Announcements))
}
