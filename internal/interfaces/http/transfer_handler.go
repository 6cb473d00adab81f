package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Ezequielnz/backend-sub001/internal/application/dto"
	"github.com/Ezequielnz/backend-sub001/internal/application/settings"
	"github.com/Ezequielnz/backend-sub001/internal/application/transfer"
)

// TransferHandler maneja las peticiones HTTP de traslados de stock (protegido).
// Por cada petición carga la configuración del negocio (creándola si falta) y
// construye un servicio de traslados con esa configuración como valor.
type TransferHandler struct {
	deps       transfer.Deps
	settingsUC *settings.UseCase
}

// NewTransferHandler construye el handler.
func NewTransferHandler(deps transfer.Deps, settingsUC *settings.UseCase) *TransferHandler {
	return &TransferHandler{deps: deps, settingsUC: settingsUC}
}

// service resuelve el contexto negocio/usuario y arma el servicio por petición.
func (h *TransferHandler) service(c *fiber.Ctx) (*transfer.Service, error) {
	businessID := GetBusinessID(c)
	userID := GetUserID(c)
	if businessID == "" || userID == "" {
		return nil, c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	cfg, err := h.settingsUC.Fetch(c.Context(), businessID, true)
	if err != nil {
		return nil, mapDomainError(c, err)
	}
	return transfer.NewService(h.deps, businessID, userID, cfg), nil
}

// List godoc
// @Summary      Listar traslados de stock
// @Tags         stock-transfers
// @Security     Bearer
// @Produce      json
// @Param        estado              query  string  false  "draft|confirmed|received|cancelled"
// @Param        origen_sucursal_id  query  string  false  "Filtrar por sucursal origen"
// @Param        destino_sucursal_id query  string  false  "Filtrar por sucursal destino"
// @Param        limit               query  int     false  "Límite"  default(50)
// @Success      200  {object}  dto.TransferListResponse
// @Failure      422  {object}  dto.ErrorResponse
// @Router       /api/stock-transfers [get]
func (h *TransferHandler) List(c *fiber.Ctx) error {
	svc, err := h.service(c)
	if svc == nil {
		return err
	}
	in := transfer.ListInput{Limit: c.QueryInt("limit", 50)}
	if v := c.Query("estado"); v != "" {
		in.State = &v
	}
	if v := c.Query("origen_sucursal_id"); v != "" {
		in.OriginBranchID = &v
	}
	if v := c.Query("destino_sucursal_id"); v != "" {
		in.DestinationBranchID = &v
	}
	list, err := svc.List(c.Context(), in)
	if err != nil {
		return mapDomainError(c, err)
	}
	items := make([]dto.TransferResponse, 0, len(list))
	for _, t := range list {
		items = append(items, *dto.NewTransferResponse(t))
	}
	return c.JSON(dto.TransferListResponse{Items: items, Total: len(items)})
}

// Create godoc
// @Summary      Crear traslado de stock entre sucursales
// @Tags         stock-transfers
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateTransferRequest  true  "origen_sucursal_id, destino_sucursal_id, items"
// @Success      201   {object}  dto.TransferResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/stock-transfers [post]
func (h *TransferHandler) Create(c *fiber.Ctx) error {
	svc, err := h.service(c)
	if svc == nil {
		return err
	}
	var in dto.CreateTransferRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	items := make([]transfer.CreateItemInput, 0, len(in.Items))
	for _, it := range in.Items {
		items = append(items, transfer.CreateItemInput{
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			Unit:      it.Unit,
			Lot:       it.Lot,
			Metadata:  it.Metadata,
		})
	}
	t, err := svc.Create(c.Context(), transfer.CreateInput{
		OriginBranchID:      in.OriginBranchID,
		DestinationBranchID: in.DestinationBranchID,
		Comments:            in.Comments,
		Metadata:            in.Metadata,
		Items:               items,
	})
	if err != nil {
		return mapDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.NewTransferResponse(t))
}

// Get godoc
// @Summary      Obtener traslado por ID
// @Tags         stock-transfers
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del traslado"
// @Success      200  {object}  dto.TransferResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/stock-transfers/{id} [get]
func (h *TransferHandler) Get(c *fiber.Ctx) error {
	svc, err := h.service(c)
	if svc == nil {
		return err
	}
	t, err := svc.Get(c.Context(), c.Params("id"))
	if err != nil {
		return mapDomainError(c, err)
	}
	return c.JSON(dto.NewTransferResponse(t))
}

// Confirm godoc
// @Summary      Confirmar traslado (debita el ledger de origen)
// @Tags         stock-transfers
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del traslado"
// @Success      200  {object}  dto.TransferResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Failure      422  {object}  dto.ErrorResponse
// @Router       /api/stock-transfers/{id}/confirm [post]
func (h *TransferHandler) Confirm(c *fiber.Ctx) error {
	svc, err := h.service(c)
	if svc == nil {
		return err
	}
	t, err := svc.Confirm(c.Context(), c.Params("id"))
	if err != nil {
		return mapDomainError(c, err)
	}
	return c.JSON(dto.NewTransferResponse(t))
}

// Receive godoc
// @Summary      Recibir traslado (acredita el ledger de destino)
// @Tags         stock-transfers
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del traslado"
// @Success      200  {object}  dto.TransferResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/stock-transfers/{id}/receive [post]
func (h *TransferHandler) Receive(c *fiber.Ctx) error {
	svc, err := h.service(c)
	if svc == nil {
		return err
	}
	t, err := svc.Receive(c.Context(), c.Params("id"))
	if err != nil {
		return mapDomainError(c, err)
	}
	return c.JSON(dto.NewTransferResponse(t))
}

// Delete godoc
// @Summary      Eliminar traslado en borrador
// @Tags         stock-transfers
// @Security     Bearer
// @Param        id  path  string  true  "ID del traslado"
// @Success      204
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/stock-transfers/{id} [delete]
func (h *TransferHandler) Delete(c *fiber.Ctx) error {
	svc, err := h.service(c)
	if svc == nil {
		return err
	}
	if err := svc.Delete(c.Context(), c.Params("id")); err != nil {
		return mapDomainError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
