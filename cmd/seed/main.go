// Command seed provisions a database for demos and local development:
// migrations, reference data and one account per role.
package main

import (
	"context"
	"errors"
	"os"

	"github.com/Boris-LAIGLE/customs-document-creator/internal/apperr"
	"github.com/Boris-LAIGLE/customs-document-creator/internal/auth"
	"github.com/Boris-LAIGLE/customs-document-creator/internal/config"
	"github.com/Boris-LAIGLE/customs-document-creator/internal/db"
	"github.com/Boris-LAIGLE/customs-document-creator/internal/models"
	"github.com/Boris-LAIGLE/customs-document-creator/internal/rbac"
	"github.com/Boris-LAIGLE/customs-document-creator/internal/repositories"
	"github.com/Boris-LAIGLE/customs-document-creator/internal/services"
	"go.uber.org/zap"
)

func main() {
	log, _ := zap.NewProduction()
	defer log.Sync()

	cfg := config.Load()
	ctx := context.Background()

	pool, err := db.NewPostgresPool(ctx, cfg.PostgresDSN, log)
	if err != nil {
		log.Fatal("failed to connect to postgres", zap.Error(err))
	}
	defer pool.Close()

	if err := db.RunMigrations(ctx, pool, cfg.MigrationsDir, log); err != nil {
		log.Fatal("failed to run migrations", zap.Error(err))
	}

	templateRepo := repositories.NewTemplateRepo(pool)
	docTypeRepo := repositories.NewDocTypeRepo(pool)
	regulationRepo := repositories.NewRegulationRepo(pool)
	seedService := services.NewSeedService(templateRepo, docTypeRepo, regulationRepo, log)
	if err := seedService.Run(ctx); err != nil {
		log.Fatal("failed to seed reference data", zap.Error(err))
	}

	password := os.Getenv("SEED_PASSWORD")
	if password == "" {
		password = "ChangeMe123!"
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		log.Fatal("failed to hash seed password", zap.Error(err))
	}

	userRepo := repositories.NewUserRepo(pool)
	accounts := []models.User{
		{Username: "jdupont", Email: "jdupont@douanes.nc", FullName: "Jean Dupont", Role: rbac.RoleDraftingAgent},
		{Username: "mleroy", Email: "mleroy@douanes.nc", FullName: "Marie Leroy", Role: rbac.RoleControlOfficer},
		{Username: "pmartin", Email: "pmartin@douanes.nc", FullName: "Paul Martin", Role: rbac.RoleValidationOfficer},
		{Username: "admin", Email: "admin@douanes.nc", FullName: "Administrateur MOA", Role: rbac.RoleMOA},
	}
	for _, u := range accounts {
		u := u
		err := userRepo.Create(ctx, &u, hash)
		if errors.Is(err, apperr.ErrInvalidInput) {
			log.Info("account already exists", zap.String("username", u.Username))
			continue
		}
		if err != nil {
			log.Fatal("failed to create account", zap.String("username", u.Username), zap.Error(err))
		}
		log.Info("account created", zap.String("username", u.Username), zap.String("role", u.Role))
	}

	log.Info("seed complete")
}
