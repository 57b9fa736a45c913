package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/facturia/facturia-api/internal/application/billing"
	"github.com/facturia/facturia-api/internal/application/dto"
)

// IssuerHandler maneja las peticiones HTTP del perfil del emisor (protegido).
type IssuerHandler struct {
	uc *billing.IssuerUseCase
}

// NewIssuerHandler construye el handler.
func NewIssuerHandler(uc *billing.IssuerUseCase) *IssuerHandler {
	return &IssuerHandler{uc: uc}
}

// Get devuelve el perfil del emisor del usuario.
// GET /api/issuer
func (h *IssuerHandler) Get(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	issuer, err := h.uc.Get(c.Context(), userID)
	if err != nil {
		return mapError(c, err)
	}
	return c.JSON(issuer)
}

// Upsert crea o reemplaza el perfil del emisor.
// PUT /api/issuer
func (h *IssuerHandler) Upsert(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.IssuerProfileRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	issuer, err := h.uc.Upsert(c.Context(), userID, in)
	if err != nil {
		return mapError(c, err)
	}
	return c.JSON(issuer)
}
