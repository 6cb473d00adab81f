package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Ezequielnz/backend-sub001/internal/application/usecase"
)

// StockHandler expone lecturas de los ledgers de inventario.
type StockHandler struct {
	uc *usecase.StockUseCase
}

// NewStockHandler construye el handler.
func NewStockHandler(uc *usecase.StockUseCase) *StockHandler {
	return &StockHandler{uc: uc}
}

// ListByBranch godoc
// @Summary      Listar stock por sucursal
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        branch_id  path   string  true   "ID de la sucursal"
// @Param        limit      query  int     false  "Límite"  default(50)
// @Param        offset     query  int     false  "Offset"  default(0)
// @Success      200  {object}  dto.StockListResponse
// @Router       /api/stock/branch/{branch_id} [get]
func (h *StockHandler) ListByBranch(c *fiber.Ctx) error {
	res, err := h.uc.ListByBranch(c.Context(), GetBusinessID(c), c.Params("branch_id"), c.QueryInt("limit", 50), c.QueryInt("offset", 0))
	if err != nil {
		return mapDomainError(c, err)
	}
	return c.JSON(res)
}

// ListAggregate godoc
// @Summary      Listar stock agregado del negocio (modo centralizado)
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "Límite"  default(50)
// @Param        offset  query  int  false  "Offset"  default(0)
// @Success      200  {object}  dto.StockListResponse
// @Router       /api/stock [get]
func (h *StockHandler) ListAggregate(c *fiber.Ctx) error {
	res, err := h.uc.ListAggregate(c.Context(), GetBusinessID(c), c.QueryInt("limit", 50), c.QueryInt("offset", 0))
	if err != nil {
		return mapDomainError(c, err)
	}
	return c.JSON(res)
}
