package handlers

import (
	"github.com/Boris-LAIGLE/customs-document-creator/internal/http/dto"
	"github.com/Boris-LAIGLE/customs-document-creator/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type DocTypeHandler struct {
	docTypeService *services.DocTypeService
	authService    *services.AuthService
	log            *zap.Logger
}

func NewDocTypeHandler(docTypeService *services.DocTypeService, authService *services.AuthService, log *zap.Logger) *DocTypeHandler {
	return &DocTypeHandler{docTypeService: docTypeService, authService: authService, log: log}
}

func (h *DocTypeHandler) Create(c *fiber.Ctx) error {
	var req dto.DocTypeRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid request"})
	}

	actor, err := currentUser(c, h.authService)
	if err != nil {
		return fail(c, h.log, err)
	}

	dt, err := h.docTypeService.Create(c.Context(), actor, services.DocTypeInput{
		Name:        req.Name,
		Description: req.Description,
		Code:        req.Code,
	})
	if err != nil {
		return fail(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.SuccessResponse{OK: true, Data: dt})
}

func (h *DocTypeHandler) Get(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid document type id"})
	}

	dt, err := h.docTypeService.Get(c.Context(), id)
	if err != nil {
		return fail(c, h.log, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: dt})
}

func (h *DocTypeHandler) List(c *fiber.Ctx) error {
	types, err := h.docTypeService.List(c.Context())
	if err != nil {
		return fail(c, h.log, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: types})
}

func (h *DocTypeHandler) Update(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid document type id"})
	}
	var req dto.DocTypeRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid request"})
	}

	actor, err := currentUser(c, h.authService)
	if err != nil {
		return fail(c, h.log, err)
	}

	dt, err := h.docTypeService.Update(c.Context(), actor, id, services.DocTypeInput{
		Name:        req.Name,
		Description: req.Description,
		Code:        req.Code,
	})
	if err != nil {
		return fail(c, h.log, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: dt})
}

func (h *DocTypeHandler) Delete(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid document type id"})
	}

	actor, err := currentUser(c, h.authService)
	if err != nil {
		return fail(c, h.log, err)
	}

	if err := h.docTypeService.Delete(c.Context(), actor, id); err != nil {
		return fail(c, h.log, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true})
}
