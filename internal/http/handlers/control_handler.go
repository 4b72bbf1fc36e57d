package handlers

import (
	"strconv"

	"github.com/Boris-LAIGLE/customs-document-creator/internal/http/dto"
	"github.com/Boris-LAIGLE/customs-document-creator/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type ControlHandler struct {
	controlService *services.ControlService
	authService    *services.AuthService
	log            *zap.Logger
}

func NewControlHandler(controlService *services.ControlService, authService *services.AuthService, log *zap.Logger) *ControlHandler {
	return &ControlHandler{controlService: controlService, authService: authService, log: log}
}

func (h *ControlHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateControlRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid request"})
	}

	actor, err := currentUser(c, h.authService)
	if err != nil {
		return fail(c, h.log, err)
	}

	control, err := h.controlService.Create(c.Context(), actor, req.DeclarationID)
	if err != nil {
		return fail(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.SuccessResponse{OK: true, Data: control})
}

func (h *ControlHandler) Get(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid control id"})
	}

	actor, err := currentUser(c, h.authService)
	if err != nil {
		return fail(c, h.log, err)
	}

	control, err := h.controlService.Get(c.Context(), actor, id)
	if err != nil {
		return fail(c, h.log, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: control})
}

func (h *ControlHandler) List(c *fiber.Ctx) error {
	actor, err := currentUser(c, h.authService)
	if err != nil {
		return fail(c, h.log, err)
	}

	limit, offset := 20, 0
	if v := c.Query("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			limit = n
		}
	}
	if v := c.Query("offset"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			offset = n
		}
	}
	var status *string
	if v := c.Query("status"); v != "" {
		status = &v
	}

	controls, err := h.controlService.List(c.Context(), actor, status, limit, offset)
	if err != nil {
		return fail(c, h.log, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: controls})
}

func (h *ControlHandler) UpdateCompliance(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid control id"})
	}
	var req dto.UpdateComplianceRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid request"})
	}
	if len(req.Checks) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "checks are required"})
	}

	actor, err := currentUser(c, h.authService)
	if err != nil {
		return fail(c, h.log, err)
	}

	control, err := h.controlService.UpdateComplianceChecks(c.Context(), actor, id, req.Checks, req.Version)
	if err != nil {
		return fail(c, h.log, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: control})
}

func (h *ControlHandler) RecordNonCompliance(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid control id"})
	}
	var req dto.NonComplianceRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid request"})
	}

	actor, err := currentUser(c, h.authService)
	if err != nil {
		return fail(c, h.log, err)
	}

	control, err := h.controlService.RecordNonCompliance(c.Context(), actor, id, services.NonComplianceInput{
		Type:         req.Type,
		Details:      req.Details,
		FiscalImpact: req.FiscalImpact,
		Regulation:   req.Regulation,
		Version:      req.Version,
	})
	if err != nil {
		return fail(c, h.log, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: control})
}

func (h *ControlHandler) DeclarantValidation(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid control id"})
	}
	var req dto.DeclarantValidationRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid request"})
	}

	actor, err := currentUser(c, h.authService)
	if err != nil {
		return fail(c, h.log, err)
	}

	control, err := h.controlService.DeclarantValidation(c.Context(), actor, id, req.Acknowledged, req.Decision, req.Version)
	if err != nil {
		return fail(c, h.log, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: control})
}

func (h *ControlHandler) GetFine(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid control id"})
	}

	actor, err := currentUser(c, h.authService)
	if err != nil {
		return fail(c, h.log, err)
	}

	fine, err := h.controlService.FineForControl(c.Context(), actor, id)
	if err != nil {
		return fail(c, h.log, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: fine})
}

func (h *ControlHandler) ListFines(c *fiber.Ctx) error {
	actor, err := currentUser(c, h.authService)
	if err != nil {
		return fail(c, h.log, err)
	}

	limit, offset := 20, 0
	if v := c.Query("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			limit = n
		}
	}
	if v := c.Query("offset"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			offset = n
		}
	}

	fines, err := h.controlService.ListFines(c.Context(), actor, limit, offset)
	if err != nil {
		return fail(c, h.log, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: fines})
}

// LookupDeclaration previews Sydonia data for a declaration before a control
// is opened.
func (h *ControlHandler) LookupDeclaration(c *fiber.Ctx) error {
	declarationID := c.Params("declaration_id")
	if declarationID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "declaration_id is required"})
	}

	actor, err := currentUser(c, h.authService)
	if err != nil {
		return fail(c, h.log, err)
	}

	decl, err := h.controlService.LookupDeclaration(c.Context(), actor, declarationID)
	if err != nil {
		return fail(c, h.log, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: decl})
}
