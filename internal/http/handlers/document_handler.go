package handlers

import (
	"strconv"

	"github.com/Boris-LAIGLE/customs-document-creator/internal/http/dto"
	"github.com/Boris-LAIGLE/customs-document-creator/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type DocumentHandler struct {
	documentService *services.DocumentService
	authService     *services.AuthService
	log             *zap.Logger
}

func NewDocumentHandler(documentService *services.DocumentService, authService *services.AuthService, log *zap.Logger) *DocumentHandler {
	return &DocumentHandler{documentService: documentService, authService: authService, log: log}
}

func (h *DocumentHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateDocumentRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid request"})
	}
	templateID, err := uuid.Parse(req.TemplateID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid template_id"})
	}

	actor, err := currentUser(c, h.authService)
	if err != nil {
		return fail(c, h.log, err)
	}

	doc, err := h.documentService.Create(c.Context(), actor, services.CreateDocumentInput{
		Title:      req.Title,
		TemplateID: templateID,
		Content:    req.Content,
	})
	if err != nil {
		return fail(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.SuccessResponse{OK: true, Data: doc})
}

func (h *DocumentHandler) Get(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid document id"})
	}

	actor, err := currentUser(c, h.authService)
	if err != nil {
		return fail(c, h.log, err)
	}

	doc, err := h.documentService.Get(c.Context(), actor, id)
	if err != nil {
		return fail(c, h.log, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: doc})
}

func (h *DocumentHandler) List(c *fiber.Ctx) error {
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

	docs, err := h.documentService.List(c.Context(), actor, status, limit, offset)
	if err != nil {
		return fail(c, h.log, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: docs})
}

func (h *DocumentHandler) Update(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid document id"})
	}
	var req dto.UpdateDocumentRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid request"})
	}

	actor, err := currentUser(c, h.authService)
	if err != nil {
		return fail(c, h.log, err)
	}

	doc, err := h.documentService.Update(c.Context(), actor, id, services.UpdateDocumentInput{
		Title:   req.Title,
		Content: req.Content,
		Version: req.Version,
	})
	if err != nil {
		return fail(c, h.log, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: doc})
}

func (h *DocumentHandler) Submit(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid document id"})
	}
	var req dto.SubmitDocumentRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid request"})
	}

	actor, err := currentUser(c, h.authService)
	if err != nil {
		return fail(c, h.log, err)
	}

	doc, err := h.documentService.Submit(c.Context(), actor, id, req.Version)
	if err != nil {
		return fail(c, h.log, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: doc})
}

func (h *DocumentHandler) Transition(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid document id"})
	}
	var req dto.TransitionDocumentRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid request"})
	}
	if req.Status == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "status is required"})
	}

	actor, err := currentUser(c, h.authService)
	if err != nil {
		return fail(c, h.log, err)
	}

	doc, err := h.documentService.Transition(c.Context(), actor, id, req.Status, req.Version)
	if err != nil {
		return fail(c, h.log, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: doc})
}

func (h *DocumentHandler) Render(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid document id"})
	}

	actor, err := currentUser(c, h.authService)
	if err != nil {
		return fail(c, h.log, err)
	}

	ref, err := h.documentService.Render(c.Context(), actor, id)
	if err != nil {
		return fail(c, h.log, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: dto.ArtifactResponse{Ref: ref}})
}
