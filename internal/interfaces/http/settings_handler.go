package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Ezequielnz/backend-sub001/internal/application/dto"
	"github.com/Ezequielnz/backend-sub001/internal/application/settings"
)

// SettingsHandler maneja la configuración de sucursales del negocio.
type SettingsHandler struct {
	uc *settings.UseCase
}

// NewSettingsHandler construye el handler.
func NewSettingsHandler(uc *settings.UseCase) *SettingsHandler {
	return &SettingsHandler{uc: uc}
}

// Get godoc
// @Summary      Obtener configuración de sucursales del negocio
// @Description  Si el negocio aún no tiene configuración, se crea una por defecto.
// @Tags         branch-settings
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.BranchSettingsResponse
// @Router       /api/branch-settings [get]
func (h *SettingsHandler) Get(c *fiber.Ctx) error {
	businessID := GetBusinessID(c)
	if businessID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	cfg, err := h.uc.Fetch(c.Context(), businessID, true)
	if err != nil {
		return mapDomainError(c, err)
	}
	return c.JSON(dto.NewBranchSettingsResponse(cfg))
}

// Update godoc
// @Summary      Actualizar configuración de sucursales (parcial)
// @Tags         branch-settings
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.UpdateBranchSettingsRequest  true  "Campos a actualizar"
// @Success      200   {object}  dto.BranchSettingsResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/branch-settings [patch]
func (h *SettingsHandler) Update(c *fiber.Ctx) error {
	businessID := GetBusinessID(c)
	if businessID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.UpdateBranchSettingsRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	cfg, err := h.uc.Update(c.Context(), businessID, in)
	if err != nil {
		return mapDomainError(c, err)
	}
	return c.JSON(dto.NewBranchSettingsResponse(cfg))
}
