package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Ezequielnz/backend-sub001/internal/application/dto"
)

// RequireFeature devuelve un middleware que oculta las rutas de un feature
// deshabilitado: con el flag apagado toda la ruta se comporta como inexistente
// (404), no como prohibida.
func RequireFeature(enabled bool) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !enabled {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Code:    "NOT_FOUND",
				Message: "recurso no encontrado",
			})
		}
		return c.Next()
	}
}
