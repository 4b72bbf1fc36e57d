package handlers

import (
	"github.com/Boris-LAIGLE/customs-document-creator/internal/http/dto"
	"github.com/Boris-LAIGLE/customs-document-creator/internal/middleware"
	"github.com/Boris-LAIGLE/customs-document-creator/internal/rbac"
	"github.com/Boris-LAIGLE/customs-document-creator/internal/services"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// AdminHandler exposes reference-data maintenance: the regulation catalogue
// and the seed endpoints used to (re)install default data.
type AdminHandler struct {
	seedService *services.SeedService
	regulations services.RegulationStore
	log         *zap.Logger
}

func NewAdminHandler(seedService *services.SeedService, regulations services.RegulationStore, log *zap.Logger) *AdminHandler {
	return &AdminHandler{seedService: seedService, regulations: regulations, log: log}
}

func (h *AdminHandler) ListRegulations(c *fiber.Ctx) error {
	regs, err := h.regulations.List(c.Context())
	if err != nil {
		return fail(c, h.log, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: regs})
}

// InitTemplates installs the default document templates. Idempotent.
func (h *AdminHandler) InitTemplates(c *fiber.Ctx) error {
	if middleware.GetRole(c) != rbac.RoleMOA {
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Error: "reserved for moa"})
	}
	if err := h.seedService.SeedTemplates(c.Context()); err != nil {
		return fail(c, h.log, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true})
}

// InitRegulations installs the regulation catalogue. Idempotent.
func (h *AdminHandler) InitRegulations(c *fiber.Ctx) error {
	if middleware.GetRole(c) != rbac.RoleMOA {
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Error: "reserved for moa"})
	}
	if err := h.seedService.SeedRegulations(c.Context()); err != nil {
		return fail(c, h.log, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true})
}
