package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Boris-LAIGLE/customs-document-creator/internal/config"
	"github.com/Boris-LAIGLE/customs-document-creator/internal/db"
	"github.com/Boris-LAIGLE/customs-document-creator/internal/events"
	apphttp "github.com/Boris-LAIGLE/customs-document-creator/internal/http"
	"github.com/Boris-LAIGLE/customs-document-creator/internal/http/handlers"
	"github.com/Boris-LAIGLE/customs-document-creator/internal/render"
	"github.com/Boris-LAIGLE/customs-document-creator/internal/repositories"
	"github.com/Boris-LAIGLE/customs-document-creator/internal/services"
	"github.com/Boris-LAIGLE/customs-document-creator/internal/sydonia"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

func main() {
	log, _ := zap.NewProduction()
	defer log.Sync()

	cfg := config.Load()
	cfg.Validate(log)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Database
	pool, err := db.NewPostgresPool(ctx, cfg.PostgresDSN, log)
	if err != nil {
		log.Fatal("failed to connect to postgres", zap.Error(err))
	}
	defer pool.Close()

	// Run migrations
	if err := db.RunMigrations(ctx, pool, cfg.MigrationsDir, log); err != nil {
		log.Fatal("failed to run migrations", zap.Error(err))
	}

	// Redis
	rdb, err := db.NewRedisClient(ctx, cfg.RedisURL, log)
	if err != nil {
		log.Fatal("failed to connect to redis", zap.Error(err))
	}
	defer rdb.Close()

	// Repositories
	userRepo := repositories.NewUserRepo(pool)
	documentRepo := repositories.NewDocumentRepo(pool)
	controlRepo := repositories.NewControlRepo(pool)
	declarationRepo := repositories.NewDeclarationRepo(pool)
	fineRepo := repositories.NewFineRepo(pool)
	templateRepo := repositories.NewTemplateRepo(pool)
	docTypeRepo := repositories.NewDocTypeRepo(pool)
	regulationRepo := repositories.NewRegulationRepo(pool)

	// Events
	publisher := events.NewRedisPublisher(rdb, log)

	// Artifact renderer
	renderer, err := render.NewHTMLRenderer(cfg.ArtifactsDir, log)
	if err != nil {
		log.Fatal("failed to create artifacts dir", zap.Error(err))
	}

	// Sydonia client
	var sydoniaClient sydonia.Client
	if cfg.SydoniaBaseURL != "" {
		sydoniaClient = sydonia.NewHTTPClient(cfg.SydoniaBaseURL, time.Duration(cfg.SydoniaTimeoutMS)*time.Millisecond, log)
	} else {
		sydoniaClient = sydonia.NewStaticClient()
	}

	// Services
	authService := services.NewAuthService(userRepo, cfg.JWTSecret, cfg.JWTExpiration, log)
	documentService := services.NewDocumentService(documentRepo, templateRepo, renderer, publisher, log)
	controlService := services.NewControlService(controlRepo, declarationRepo, fineRepo, sydoniaClient, renderer, publisher, log)
	templateService := services.NewTemplateService(templateRepo, docTypeRepo, log)
	docTypeService := services.NewDocTypeService(docTypeRepo, templateRepo, documentRepo, log)
	seedService := services.NewSeedService(templateRepo, docTypeRepo, regulationRepo, log)

	// Seed reference data on startup so a fresh deployment is usable.
	if err := seedService.Run(ctx); err != nil {
		log.Fatal("failed to seed reference data", zap.Error(err))
	}

	// Handlers
	authHandler := handlers.NewAuthHandler(authService, log)
	documentHandler := handlers.NewDocumentHandler(documentService, authService, log)
	controlHandler := handlers.NewControlHandler(controlService, authService, log)
	templateHandler := handlers.NewTemplateHandler(templateService, authService, log)
	docTypeHandler := handlers.NewDocTypeHandler(docTypeService, authService, log)
	artifactHandler := handlers.NewArtifactHandler(renderer, controlService, authService, log)
	adminHandler := handlers.NewAdminHandler(seedService, regulationRepo, log)

	// Fiber app
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{"error": err.Error()})
		},
	})

	apphttp.SetupRouter(app, cfg, log, rdb, authHandler, documentHandler, controlHandler, templateHandler, docTypeHandler, artifactHandler, adminHandler)

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info("shutting down...")
		cancel()
		_ = app.Shutdown()
	}()

	addr := fmt.Sprintf(":%s", cfg.APIPort)
	log.Info("starting API server", zap.String("addr", addr))
	if err := app.Listen(addr); err != nil {
		log.Fatal("server error", zap.Error(err))
	}
}
