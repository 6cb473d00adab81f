package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Ezequielnz/backend-sub001/internal/application/usecase"
)

// ProductHandler maneja las lecturas del catálogo de productos.
type ProductHandler struct {
	uc *usecase.ProductUseCase
}

// NewProductHandler construye el handler.
func NewProductHandler(uc *usecase.ProductUseCase) *ProductHandler {
	return &ProductHandler{uc: uc}
}

// Get godoc
// @Summary      Obtener producto por ID
// @Tags         products
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del producto"
// @Success      200  {object}  dto.ProductResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/products/{id} [get]
func (h *ProductHandler) Get(c *fiber.Ctx) error {
	res, err := h.uc.GetByID(c.Context(), GetBusinessID(c), c.Params("id"))
	if err != nil {
		return mapDomainError(c, err)
	}
	return c.JSON(res)
}

// List godoc
// @Summary      Listar productos del negocio
// @Tags         products
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "Límite"  default(50)
// @Param        offset  query  int  false  "Offset"  default(0)
// @Success      200  {object}  dto.ProductListResponse
// @Router       /api/products [get]
func (h *ProductHandler) List(c *fiber.Ctx) error {
	res, err := h.uc.List(c.Context(), GetBusinessID(c), c.QueryInt("limit", 50), c.QueryInt("offset", 0))
	if err != nil {
		return mapDomainError(c, err)
	}
	return c.JSON(res)
}
