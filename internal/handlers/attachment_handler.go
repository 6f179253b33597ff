package handlers

import (
	"errors"
	"fmt"
	"log"
	"strconv"

	"station-api/internal/attachments"
	"station-api/internal/database"
	"station-api/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/kerimovok/go-pkg-utils/httpx"
)

// AttachmentHandler exposes attachment settings shared by every resource
type AttachmentHandler struct {
	attachmentService *services.AttachmentService
}

// NewAttachmentHandler creates a new attachment handler
func NewAttachmentHandler(attachmentService *services.AttachmentService) *AttachmentHandler {
	return &AttachmentHandler{attachmentService: attachmentService}
}

// GetLimits returns the configured attachment size limits and rules
func (h *AttachmentHandler) GetLimits(c *fiber.Ctx) error {
	response := httpx.OK("Attachment limits retrieved successfully", h.attachmentService.Limits())
	return httpx.SendResponse(c, response)
}

// serveAttachment resolves :id and :index to a stored record of res and
// writes its bytes. :index may also be an attachment id.
func serveAttachment[T any, PT interface {
	*T
	attachments.Owner
}](c *fiber.Ctx, repo *database.Repository[T], res attachments.Resource) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return httpx.SendResponse(c, httpx.NotFound(res.Name+" not found"))
	}

	parent, err := repo.FindByID(c.UserContext(), id)
	if err != nil {
		return sendFindError(c, err, res.Name)
	}

	ref, err := attachments.ParseRef(c.Params("index"))
	if err != nil {
		response := httpx.BadRequest("Invalid attachment index", err)
		return httpx.SendResponse(c, response)
	}

	_, rec, err := attachments.Resolve(PT(parent).AttachmentList(), ref)
	switch {
	case errors.Is(err, attachments.ErrNoAttachments):
		return httpx.SendResponse(c, httpx.NotFound("No attachments found"))
	case errors.Is(err, attachments.ErrIndexOutOfRange), errors.Is(err, attachments.ErrAttachmentNotFound):
		return httpx.SendResponse(c, httpx.NotFound(fmt.Sprintf("Attachment not found at index %s", ref)))
	case err != nil:
		response := httpx.InternalServerError("Failed to resolve attachment", err)
		return httpx.SendResponse(c, response)
	}

	return sendAttachment(c, res, rec, fmt.Sprintf("%s/%s", id, ref))
}

// sendAttachment writes rec inline. Records are immutable, so the attachment
// id doubles as a strong validator.
func sendAttachment(c *fiber.Ctx, res attachments.Resource, rec attachments.Record, where string) error {
	data, err := rec.Bytes()
	if err != nil {
		log.Printf("Unreadable %s attachment %s: %v", res.Key, where, err)
		response := httpx.InternalServerError("Invalid attachment data format", err)
		return httpx.SendResponse(c, response)
	}

	filename := rec.Filename
	if filename == "" {
		filename = rec.Name
	}

	c.Set(fiber.HeaderAccessControlAllowOrigin, "*")
	c.Set(fiber.HeaderAccessControlAllowMethods, fiber.MethodGet)
	c.Set("Cross-Origin-Resource-Policy", "cross-origin")
	c.Set(fiber.HeaderCacheControl, "no-cache")

	if rec.ID != "" {
		etag := strconv.Quote(rec.ID)
		c.Set(fiber.HeaderETag, etag)
		if c.Get(fiber.HeaderIfNoneMatch) == etag {
			return c.SendStatus(fiber.StatusNotModified)
		}
	}

	c.Set(fiber.HeaderContentType, res.ServeMimetype(rec))
	c.Set(fiber.HeaderContentDisposition, attachments.ContentDisposition(filename))
	c.Set(fiber.HeaderContentLength, strconv.Itoa(len(data)))
	return c.Status(fiber.StatusOK).Send(data)
}
