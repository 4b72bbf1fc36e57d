package handlers

import (
	"github.com/Boris-LAIGLE/customs-document-creator/internal/apperr"
	"github.com/Boris-LAIGLE/customs-document-creator/internal/http/dto"
	"github.com/Boris-LAIGLE/customs-document-creator/internal/middleware"
	"github.com/Boris-LAIGLE/customs-document-creator/internal/models"
	"github.com/Boris-LAIGLE/customs-document-creator/internal/services"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// fail converts a service error into its HTTP shape. Internal errors are
// logged but not leaked to the client.
func fail(c *fiber.Ctx, log *zap.Logger, err error) error {
	status := apperr.HTTPStatus(err)
	if status >= fiber.StatusInternalServerError {
		log.Error("request failed",
			zap.String("path", c.Path()),
			zap.Error(err))
		return c.Status(status).JSON(dto.ErrorResponse{Error: "internal error"})
	}
	return c.Status(status).JSON(dto.ErrorResponse{Error: err.Error()})
}

// currentUser resolves the authenticated actor from the JWT claims set by the
// auth middleware. Every workflow operation needs the full user record for
// audit attribution.
func currentUser(c *fiber.Ctx, auth *services.AuthService) (*models.User, error) {
	return auth.GetUser(c.Context(), middleware.GetUserID(c))
}
