package http

import (
	"time"

	"github.com/Boris-LAIGLE/customs-document-creator/internal/config"
	"github.com/Boris-LAIGLE/customs-document-creator/internal/http/handlers"
	"github.com/Boris-LAIGLE/customs-document-creator/internal/middleware"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func SetupRouter(
	app *fiber.App,
	cfg *config.Config,
	log *zap.Logger,
	rdb *redis.Client,
	authHandler *handlers.AuthHandler,
	documentHandler *handlers.DocumentHandler,
	controlHandler *handlers.ControlHandler,
	templateHandler *handlers.TemplateHandler,
	docTypeHandler *handlers.DocTypeHandler,
	artifactHandler *handlers.ArtifactHandler,
	adminHandler *handlers.AdminHandler,
) {
	// Global middleware
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization, X-Request-ID",
	}))
	app.Use(middleware.RequestIDMiddleware())
	app.Use(middleware.LoggerMiddleware(log))

	// Health check
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	api := app.Group("/api/v1")

	// Auth (public)
	api.Post("/auth/register", authHandler.Register)
	api.Post("/auth/login", authHandler.Login)

	api.Use(middleware.RateLimitMiddleware(rdb, cfg.RateLimitPerMinute, time.Minute))

	// Protected endpoints
	protected := api.Group("", middleware.AuthMiddleware(cfg, log))

	protected.Get("/me", authHandler.Me)

	// Documents
	protected.Post("/documents", documentHandler.Create)
	protected.Get("/documents", documentHandler.List)
	protected.Get("/documents/:id", documentHandler.Get)
	protected.Patch("/documents/:id", documentHandler.Update)
	protected.Post("/documents/:id/submit", documentHandler.Submit)
	protected.Post("/documents/:id/transition", documentHandler.Transition)
	protected.Post("/documents/:id/render", documentHandler.Render)

	// Controls
	protected.Post("/controls", controlHandler.Create)
	protected.Get("/controls", controlHandler.List)
	protected.Get("/controls/:id", controlHandler.Get)
	protected.Put("/controls/:id/compliance", controlHandler.UpdateCompliance)
	protected.Post("/controls/:id/non-compliance", controlHandler.RecordNonCompliance)
	protected.Post("/controls/:id/declarant-validation", controlHandler.DeclarantValidation)
	protected.Get("/controls/:id/fine", controlHandler.GetFine)
	protected.Get("/controls/:id/certificate", artifactHandler.Certificate)

	// Fines
	protected.Get("/fines", controlHandler.ListFines)
	protected.Get("/fines/:id/payment-notice", artifactHandler.PaymentNotice)

	// Sydonia declaration preview
	protected.Get("/declarations/:declaration_id", controlHandler.LookupDeclaration)

	// Templates
	protected.Get("/templates", templateHandler.List)
	protected.Get("/templates/:id", templateHandler.Get)
	protected.Post("/templates", templateHandler.Create)
	protected.Put("/templates/:id", templateHandler.Update)
	protected.Delete("/templates/:id", templateHandler.Delete)

	// Document types
	protected.Get("/document-types", docTypeHandler.List)
	protected.Get("/document-types/:id", docTypeHandler.Get)
	protected.Post("/document-types", docTypeHandler.Create)
	protected.Put("/document-types/:id", docTypeHandler.Update)
	protected.Delete("/document-types/:id", docTypeHandler.Delete)

	// Rendered artifacts
	protected.Get("/artifacts/:ref", artifactHandler.Download)

	// Reference data
	protected.Get("/regulations", adminHandler.ListRegulations)
	protected.Post("/admin/init/templates", adminHandler.InitTemplates)
	protected.Post("/admin/init/regulations", adminHandler.InitRegulations)
}
