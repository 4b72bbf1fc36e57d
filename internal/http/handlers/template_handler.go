package handlers

import (
	"github.com/Boris-LAIGLE/customs-document-creator/internal/http/dto"
	"github.com/Boris-LAIGLE/customs-document-creator/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type TemplateHandler struct {
	templateService *services.TemplateService
	authService     *services.AuthService
	log             *zap.Logger
}

func NewTemplateHandler(templateService *services.TemplateService, authService *services.AuthService, log *zap.Logger) *TemplateHandler {
	return &TemplateHandler{templateService: templateService, authService: authService, log: log}
}

func (h *TemplateHandler) Create(c *fiber.Ctx) error {
	var req dto.TemplateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid request"})
	}

	actor, err := currentUser(c, h.authService)
	if err != nil {
		return fail(c, h.log, err)
	}

	tpl, err := h.templateService.Create(c.Context(), actor, services.TemplateInput{
		Name:         req.Name,
		DocumentType: req.DocumentType,
		Fields:       req.Fields,
		Checklist:    req.Checklist,
	})
	if err != nil {
		return fail(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.SuccessResponse{OK: true, Data: tpl})
}

func (h *TemplateHandler) Get(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid template id"})
	}

	tpl, err := h.templateService.Get(c.Context(), id)
	if err != nil {
		return fail(c, h.log, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: tpl})
}

func (h *TemplateHandler) List(c *fiber.Ctx) error {
	templates, err := h.templateService.List(c.Context())
	if err != nil {
		return fail(c, h.log, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: templates})
}

func (h *TemplateHandler) Update(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid template id"})
	}
	var req dto.TemplateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid request"})
	}

	actor, err := currentUser(c, h.authService)
	if err != nil {
		return fail(c, h.log, err)
	}

	tpl, err := h.templateService.Update(c.Context(), actor, id, services.TemplateInput{
		Name:         req.Name,
		DocumentType: req.DocumentType,
		Fields:       req.Fields,
		Checklist:    req.Checklist,
	})
	if err != nil {
		return fail(c, h.log, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: tpl})
}

func (h *TemplateHandler) Delete(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid template id"})
	}

	actor, err := currentUser(c, h.authService)
	if err != nil {
		return fail(c, h.log, err)
	}

	if err := h.templateService.Delete(c.Context(), actor, id); err != nil {
		return fail(c, h.log, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true})
}
