package routes

import (
	"time"

	"station-api/internal/config"
	"station-api/internal/handlers"
	"station-api/internal/middleware"
	"station-api/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/monitor"
	"gorm.io/gorm"
)

// Dependencies are the collaborators every route handler is built from
type Dependencies struct {
	DB        *gorm.DB
	Config    config.MainConfig
	JWTSecret []byte
}

func SetupRoutes(app *fiber.App, deps Dependencies) {
	// API routes group
	api := app.Group(deps.Config.Server.BasePath)

	// Monitor route
	app.Get("/metrics", monitor.New())

	// Health check route
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":    "healthy",
			"service":   "station-api",
			"timestamp": time.Now().UTC(),
		})
	})

	auth := middleware.Auth(deps.JWTSecret)
	adminOnly := middleware.RequireRoles(middleware.RoleAdmin)
	usersAndAdmins := middleware.RequireRoles(middleware.RoleUser, middleware.RoleAdmin)

	attachmentService := services.NewAttachmentService(deps.Config)

	// Attachment settings
	attachmentHandler := handlers.NewAttachmentHandler(attachmentService)
	api.Get("/attachments/limits", attachmentHandler.GetLimits)

	// Announcement routes
	announcementHandler := handlers.NewAnnouncementHandler(deps.DB, attachmentService)

	announcements := api.Group("/announcements")
	announcements.Get("/:id/attachments/:index", announcementHandler.GetAttachment)
	announcements.Post("/", auth, adminOnly, announcementHandler.CreateAnnouncement)
	announcements.Get("/", auth, adminOnly, announcementHandler.GetAnnouncements)
	announcements.Get("/:id", auth, adminOnly, announcementHandler.GetAnnouncement)
	announcements.Put("/:id", auth, adminOnly, announcementHandler.UpdateAnnouncement)
	announcements.Delete("/:id", auth, adminOnly, announcementHandler.DeleteAnnouncement)

	// Blotter routes
	blotterHandler := handlers.NewBlotterHandler(deps.DB, attachmentService)

	blotters := api.Group("/blotters")
	blotters.Get("/:id/attachments/:index", blotterHandler.GetAttachment)
	blotters.Post("/", auth, blotterHandler.CreateBlotter)
	blotters.Get("/", auth, adminOnly, blotterHandler.GetBlotters)
	blotters.Get("/user/:userId", auth, blotterHandler.GetUserBlotters)
	blotters.Put("/:id", auth, adminOnly, blotterHandler.UpdateBlotter)
	blotters.Delete("/:id", auth, adminOnly, blotterHandler.DeleteBlotter)

	// Clearance routes
	clearanceHandler := handlers.NewClearanceHandler(deps.DB, attachmentService)

	clearances := api.Group("/clearances")
	clearances.Get("/:id/attachments/:index", clearanceHandler.GetAttachment)
	clearances.Post("/", auth, usersAndAdmins, clearanceHandler.CreateClearance)
	clearances.Get("/mine", auth, usersAndAdmins, clearanceHandler.GetMyClearances)
	clearances.Get("/", auth, adminOnly, clearanceHandler.GetClearances)
	clearances.Put("/:id", auth, clearanceHandler.UpdateClearance)
	clearances.Delete("/:id", auth, clearanceHandler.DeleteClearance)

	// Officer routes; /profile/picture must precede /:id/picture
	officerHandler := handlers.NewOfficerHandler(deps.DB, attachmentService)

	officers := api.Group("/officers")
	officers.Get("/profile/picture", auth, officerHandler.GetProfilePicture)
	officers.Get("/profile", auth, officerHandler.GetProfile)
	officers.Put("/profile", auth, officerHandler.UpdateProfile)
	officers.Get("/:id/picture", officerHandler.GetPicture)
	officers.Post("/", auth, adminOnly, officerHandler.CreateOfficer)
	officers.Get("/", auth, officerHandler.GetOfficers)
	officers.Put("/:id", auth, adminOnly, officerHandler.UpdateOfficer)
	officers.Delete("/:id", auth, adminOnly, officerHandler.DeleteOfficer)
}
