package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/facturia/facturia-api/internal/application/billing"
	"github.com/facturia/facturia-api/internal/application/dto"
)

// PartyHandler maneja las peticiones HTTP de contrapartes (protegido).
type PartyHandler struct {
	uc *billing.PartyUseCase
}

// NewPartyHandler construye el handler.
func NewPartyHandler(uc *billing.PartyUseCase) *PartyHandler {
	return &PartyHandler{uc: uc}
}

// Create crea una contraparte.
// POST /api/parties
func (h *PartyHandler) Create(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.PartyRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	party, err := h.uc.Create(c.Context(), userID, in)
	if err != nil {
		return mapError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(party)
}

// Update actualiza una contraparte.
// PUT /api/parties/:id
func (h *PartyHandler) Update(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.PartyRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	party, err := h.uc.Update(c.Context(), userID, c.Params("id"), in)
	if err != nil {
		return mapError(c, err)
	}
	return c.JSON(party)
}

// GetByID obtiene una contraparte.
// GET /api/parties/:id
func (h *PartyHandler) GetByID(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	party, err := h.uc.Get(c.Context(), userID, c.Params("id"))
	if err != nil {
		return mapError(c, err)
	}
	return c.JSON(party)
}

// List lista las contrapartes del usuario.
// GET /api/parties
func (h *PartyHandler) List(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	parties, err := h.uc.List(c.Context(), userID)
	if err != nil {
		return mapError(c, err)
	}
	return c.JSON(parties)
}
