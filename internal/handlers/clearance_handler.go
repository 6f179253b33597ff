package handlers

import (
	"log"
	"time"

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

// ClearanceHandler handles clearance application HTTP requests
type ClearanceHandler struct {
	repo              *database.Repository[models.Clearance]
	attachmentService *services.AttachmentService
}

// NewClearanceHandler creates a new clearance handler
func NewClearanceHandler(db *gorm.DB, attachmentService *services.AttachmentService) *ClearanceHandler {
	return &ClearanceHandler{
		repo:              database.NewRepository[models.Clearance](db),
		attachmentService: attachmentService,
	}
}

// CreateClearance files a clearance application for the caller
func (h *ClearanceHandler) CreateClearance(c *fiber.Ctx) error {
	caller, ok := principal(c)
	if !ok {
		return nil
	}

	var input requests.CreateClearanceRequest
	if err := c.BodyParser(&input); err != nil {
		response := httpx.BadRequest("Invalid request body", err)
		return httpx.SendResponse(c, response)
	}

	if err := validator.ValidateStruct(&input); err != nil {
		response := httpx.BadRequest("Purpose is required", err)
		return httpx.SendResponse(c, response)
	}

	stationID, err := parseOptionalID(input.StationID)
	if err != nil {
		response := httpx.BadRequest("Invalid station ID", err)
		return httpx.SendResponse(c, response)
	}

	var appointmentDate *time.Time
	if input.AppointmentDate != "" {
		date, err := requests.ParseDate(input.AppointmentDate)
		if err != nil {
			response := httpx.BadRequest("Invalid appointment date", err)
			return httpx.SendResponse(c, response)
		}
		appointmentDate = &date
	}

	records, err := h.attachmentService.Decode(services.Clearances, input.Attachments)
	if err != nil {
		return sendAttachmentError(c, err)
	}

	clearance := models.Clearance{
		UserID:          caller.ID,
		StationID:       stationID,
		Purpose:         input.Purpose,
		AppointmentDate: appointmentDate,
		TimeSlot:        input.TimeSlot,
		Price:           input.Price,
		Status:          models.ClearanceStatusPending,
	}
	if err := attachments.Set(&clearance, records); err != nil {
		return sendAttachmentError(c, err)
	}

	if err := h.repo.Create(c.UserContext(), &clearance); err != nil {
		log.Printf("Failed to save clearance: %v", err)
		response := httpx.InternalServerError("Failed to create clearance application", err)
		return httpx.SendResponse(c, response)
	}

	response := httpx.Created("Clearance application created successfully", newClearanceView(h.attachmentService, &clearance))
	return httpx.SendResponse(c, response)
}

// GetMyClearances lists the caller's applications, newest first
func (h *ClearanceHandler) GetMyClearances(c *fiber.Ctx) error {
	caller, ok := principal(c)
	if !ok {
		return nil
	}

	clearances, err := h.repo.Find(c.UserContext(), database.Query{
		Where: map[string]any{"user_id": caller.ID},
		Order: "created_at desc",
	})
	if err != nil {
		response := httpx.InternalServerError("Failed to fetch clearance applications", err)
		return httpx.SendResponse(c, response)
	}

	response := httpx.OK("Clearance applications retrieved successfully", viewAll(h.attachmentService, clearances, newClearanceView))
	return httpx.SendResponse(c, response)
}

// GetClearances lists every application, newest first
func (h *ClearanceHandler) GetClearances(c *fiber.Ctx) error {
	clearances, err := h.repo.Find(c.UserContext(), database.Query{Order: "created_at desc"})
	if err != nil {
		response := httpx.InternalServerError("Failed to fetch clearance applications", err)
		return httpx.SendResponse(c, response)
	}

	response := httpx.OK("Clearance applications retrieved successfully", viewAll(h.attachmentService, clearances, newClearanceView))
	return httpx.SendResponse(c, response)
}

// UpdateClearance updates status and payment. New attachments are appended
// after the stored ones, so earlier proof URLs keep working.
func (h *ClearanceHandler) UpdateClearance(c *fiber.Ctx) error {
	caller, ok := principal(c)
	if !ok {
		return nil
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		response := httpx.BadRequest("Invalid clearance ID", err)
		return httpx.SendResponse(c, response)
	}

	var input requests.UpdateClearanceRequest
	if err := c.BodyParser(&input); err != nil {
		response := httpx.BadRequest("Invalid request body", err)
		return httpx.SendResponse(c, response)
	}

	clearance, err := h.repo.FindByID(c.UserContext(), id)
	if err != nil {
		return sendFindError(c, err, "Clearance application")
	}
	if !clearance.OwnedBy(caller.ID) && !isAdmin(caller) {
		return sendForbidden(c)
	}

	if input.Status != nil {
		clearance.Status = *input.Status
	}
	if input.PaymentStatus != nil {
		clearance.PaymentStatus = *input.PaymentStatus
	}
	if input.Payment != nil {
		payment := models.Payment{}
		if clearance.Payment != nil {
			payment = *clearance.Payment
		}
		if input.Payment.Processor != "" {
			payment.Processor = input.Payment.Processor
		}
		if input.Payment.TransactionID != "" {
			payment.TransactionID = input.Payment.TransactionID
		}
		if input.Payment.Status != "" {
			payment.Status = input.Payment.Status
		}
		if payment.Status == "" {
			payment.Status = models.ClearanceStatusPending
		}
		clearance.Payment = &payment
	}

	if len(input.Attachments) > 0 {
		records, err := h.attachmentService.Decode(services.Clearances, input.Attachments)
		if err != nil {
			return sendAttachmentError(c, err)
		}
		if err := attachments.Append(clearance, records); err != nil {
			return sendAttachmentError(c, err)
		}
	}

	if err := h.repo.Save(c.UserContext(), clearance); err != nil {
		log.Printf("Failed to update clearance %s: %v", id, err)
		response := httpx.InternalServerError("Failed to update clearance application", err)
		return httpx.SendResponse(c, response)
	}

	response := httpx.OK("Clearance application updated successfully", newClearanceView(h.attachmentService, clearance))
	return httpx.SendResponse(c, response)
}

// DeleteClearance deletes an application; owners and admins only
func (h *ClearanceHandler) DeleteClearance(c *fiber.Ctx) error {
	caller, ok := principal(c)
	if !ok {
		return nil
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		response := httpx.BadRequest("Invalid clearance ID", err)
		return httpx.SendResponse(c, response)
	}

	clearance, err := h.repo.FindByID(c.UserContext(), id)
	if err != nil {
		return sendFindError(c, err, "Clearance application")
	}
	if !clearance.OwnedBy(caller.ID) && !isAdmin(caller) {
		return sendForbidden(c)
	}

	if err := h.repo.Delete(c.UserContext(), id); err != nil {
		return sendFindError(c, err, "Clearance application")
	}

	response := httpx.OK("Clearance application deleted successfully", nil)
	return httpx.SendResponse(c, response)
}

// GetAttachment serves one proof-of-payment attachment
func (h *ClearanceHandler) GetAttachment(c *fiber.Ctx) error {
	return serveAttachment(c, h.repo, h.attachmentService.Resource(services.Clearances))
}
