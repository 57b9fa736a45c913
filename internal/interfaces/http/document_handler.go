package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/facturia/facturia-api/internal/application/billing"
	"github.com/facturia/facturia-api/internal/application/dto"
	"github.com/facturia/facturia-api/internal/domain"
)

// DocumentHandler maneja las peticiones HTTP del ciclo de vida del documento.
type DocumentHandler struct {
	uc *billing.DocumentUseCase
}

// NewDocumentHandler construye el handler.
func NewDocumentHandler(uc *billing.DocumentUseCase) *DocumentHandler {
	return &DocumentHandler{uc: uc}
}

// Create crea un borrador.
// POST /api/documents
func (h *DocumentHandler) Create(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.CreateDocumentRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	doc, err := h.uc.CreateDraft(c.Context(), userID, in)
	if err != nil {
		return mapError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(doc)
}

// List lista los documentos del usuario.
// GET /api/documents
func (h *DocumentHandler) List(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	docs, err := h.uc.List(c.Context(), userID)
	if err != nil {
		return mapError(c, err)
	}
	return c.JSON(docs)
}

// GetByID obtiene el detalle completo de un documento.
// GET /api/documents/:id
func (h *DocumentHandler) GetByID(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "id requerido"})
	}
	doc, err := h.uc.Get(c.Context(), userID, id)
	if err != nil {
		return mapError(c, err)
	}
	return c.JSON(doc)
}

// Update edita un borrador (líneas completas, CAS sobre version).
// PUT /api/documents/:id
func (h *DocumentHandler) Update(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	id := c.Params("id")
	var in dto.UpdateDocumentRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	doc, err := h.uc.UpdateDraft(c.Context(), userID, id, in)
	if err != nil {
		return mapError(c, err)
	}
	return c.JSON(doc)
}

// Delete borra un borrador.
// DELETE /api/documents/:id
func (h *DocumentHandler) Delete(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	if err := h.uc.DeleteDraft(c.Context(), userID, c.Params("id")); err != nil {
		return mapError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Totals calcula los totales en vivo sin persistir nada.
// POST /api/documents/totals
func (h *DocumentHandler) Totals(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in struct {
		Items []dto.LineItemRequest `json:"items"`
	}
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	totals, err := h.uc.PreviewTotals(in.Items)
	if err != nil {
		return mapError(c, err)
	}
	return c.JSON(totals)
}

// Send envía el documento (draft → pending).
// POST /api/documents/:id/send
func (h *DocumentHandler) Send(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	resp, err := h.uc.Send(c.Context(), userID, c.Params("id"))
	if err != nil {
		return mapError(c, err)
	}
	return c.JSON(resp)
}

// MarkPaid marca un documento pending u overdue como pagado.
// POST /api/documents/:id/pay
func (h *DocumentHandler) MarkPaid(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	if err := h.uc.MarkPaid(c.Context(), userID, c.Params("id")); err != nil {
		return mapError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Status respuesta ligera para polling de estado.
// GET /api/documents/:id/status
func (h *DocumentHandler) Status(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	resp, err := h.uc.GetStatus(c.Context(), userID, c.Params("id"))
	if err != nil {
		return mapError(c, err)
	}
	return c.JSON(resp)
}

// SweepOverdue dispara el barrido de vencidos manualmente.
// POST /api/documents/sweep-overdue
func (h *DocumentHandler) SweepOverdue(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	marked, err := h.uc.SweepOverdue(c.Context())
	if err != nil {
		return mapError(c, err)
	}
	return c.JSON(dto.SweepResponse{MarkedOverdue: marked})
}

// mapError traduce errores de dominio a respuestas HTTP.
func mapError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "datos inválidos"})
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "recurso no encontrado"})
	case errors.Is(err, domain.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "acceso denegado al recurso"})
	case errors.Is(err, domain.ErrNotDraft):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "NOT_DRAFT", Message: "el documento ya no es un borrador"})
	case errors.Is(err, domain.ErrDuplicate):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "DUPLICATE", Message: "número de documento duplicado"})
	case errors.Is(err, domain.ErrConflict):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "CONFLICT", Message: "el documento cambió; recargar y reintentar"})
	}
	switch domain.KindOf(err) {
	case domain.KindValidation:
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	case domain.KindRender:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "RENDER_FAILED", Message: err.Error()})
	case domain.KindStorage:
		return c.Status(fiber.StatusBadGateway).JSON(dto.ErrorResponse{Code: "STORAGE_FAILED", Message: err.Error()})
	case domain.KindEmail:
		return c.Status(fiber.StatusBadGateway).JSON(dto.ErrorResponse{Code: "DELIVERY_FAILED", Message: err.Error()})
	case domain.KindNetwork:
		return c.Status(fiber.StatusBadGateway).JSON(dto.ErrorResponse{Code: "NETWORK_FAILED", Message: err.Error()})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
}
