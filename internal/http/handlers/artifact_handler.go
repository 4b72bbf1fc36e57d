package handlers

import (
	"github.com/Boris-LAIGLE/customs-document-creator/internal/apperr"
	"github.com/Boris-LAIGLE/customs-document-creator/internal/http/dto"
	"github.com/Boris-LAIGLE/customs-document-creator/internal/render"
	"github.com/Boris-LAIGLE/customs-document-creator/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ArtifactHandler serves rendered artifacts (documents, certificates of
// visit, payment notices) by reference.
type ArtifactHandler struct {
	renderer       *render.HTMLRenderer
	controlService *services.ControlService
	authService    *services.AuthService
	log            *zap.Logger
}

func NewArtifactHandler(renderer *render.HTMLRenderer, controlService *services.ControlService, authService *services.AuthService, log *zap.Logger) *ArtifactHandler {
	return &ArtifactHandler{renderer: renderer, controlService: controlService, authService: authService, log: log}
}

func (h *ArtifactHandler) Download(c *fiber.Ctx) error {
	path, err := h.renderer.Resolve(c.Params("ref"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid artifact reference"})
	}
	return c.SendFile(path)
}

// Certificate serves the certificate of visit of a control.
func (h *ArtifactHandler) Certificate(c *fiber.Ctx) error {
	actor, err := currentUser(c, h.authService)
	if err != nil {
		return fail(c, h.log, err)
	}
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid control id"})
	}

	ref, err := h.controlService.CertificateRef(c.Context(), actor, id)
	if err != nil {
		return fail(c, h.log, err)
	}
	path, err := h.renderer.Resolve(ref)
	if err != nil {
		return fail(c, h.log, err)
	}
	return c.SendFile(path)
}

// PaymentNotice serves the payment notice of a fine.
func (h *ArtifactHandler) PaymentNotice(c *fiber.Ctx) error {
	actor, err := currentUser(c, h.authService)
	if err != nil {
		return fail(c, h.log, err)
	}
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid fine id"})
	}

	fine, err := h.controlService.FineByID(c.Context(), actor, id)
	if err != nil {
		return fail(c, h.log, err)
	}
	if fine.PaymentNoticeRef == nil {
		return c.Status(apperr.HTTPStatus(apperr.ErrNotFound)).JSON(dto.ErrorResponse{Error: "payment notice not generated yet"})
	}
	path, err := h.renderer.Resolve(*fine.PaymentNoticeRef)
	if err != nil {
		return fail(c, h.log, err)
	}
	return c.SendFile(path)
}
