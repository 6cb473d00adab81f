package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/Ezequielnz/backend-sub001/internal/domain/entity"
)

// CreateTransferItemRequest línea de detalle del body de creación.
type CreateTransferItemRequest struct {
	ProductID string          `json:"producto_id"`
	Quantity  decimal.Decimal `json:"cantidad"`
	Unit      *string         `json:"unidad,omitempty"`
	Lot       *string         `json:"lote,omitempty"`
	Metadata  map[string]any  `json:"metadata,omitempty"`
}

// CreateTransferRequest body para POST /api/stock-transfers.
type CreateTransferRequest struct {
	OriginBranchID      string                      `json:"origen_sucursal_id"`
	DestinationBranchID string                      `json:"destino_sucursal_id"`
	Comments            *string                     `json:"comentarios,omitempty"`
	Metadata            map[string]any              `json:"metadata,omitempty"`
	Items               []CreateTransferItemRequest `json:"items"`
}

// TransferItemResponse línea de detalle en respuestas.
// Las cantidades se serializan como string decimal normalizado (shopspring),
// nunca como float binario.
type TransferItemResponse struct {
	ID         string          `json:"id"`
	TransferID string          `json:"traslado_id"`
	ProductID  string          `json:"producto_id"`
	Quantity   decimal.Decimal `json:"cantidad"`
	Unit       *string         `json:"unidad,omitempty"`
	Lot        *string         `json:"lote,omitempty"`
	Metadata   map[string]any  `json:"metadata"`
	CreatedAt  time.Time       `json:"created_at"`
}

// TransferResponse encabezado hidratado (incluye detalle) en respuestas.
type TransferResponse struct {
	ID                     string                 `json:"id"`
	BusinessID             string                 `json:"negocio_id"`
	OriginBranchID         string                 `json:"origen_sucursal_id"`
	DestinationBranchID    string                 `json:"destino_sucursal_id"`
	State                  string                 `json:"estado"`
	InventoryModeSource    string                 `json:"inventory_mode_source"`
	InventoryModeTarget    string                 `json:"inventory_mode_target"`
	AllowTransfersSnapshot bool                   `json:"allow_transfers_snapshot"`
	CreatedBy              string                 `json:"created_by"`
	ApprovedBy             *string                `json:"approved_by,omitempty"`
	Comments               *string                `json:"comentarios,omitempty"`
	Metadata               map[string]any         `json:"metadata"`
	CreatedAt              time.Time              `json:"created_at"`
	UpdatedAt              time.Time              `json:"updated_at"`
	Items                  []TransferItemResponse `json:"items"`
}

// TransferListResponse respuesta de GET /api/stock-transfers.
type TransferListResponse struct {
	Items []TransferResponse `json:"items"`
	Total int                `json:"total"`
}

// TransferEventPayload payload de los eventos de ciclo de vida de traslados.
// Auto marca las confirmaciones disparadas por auto_confirm_transfers.
type TransferEventPayload struct {
	Transfer *TransferResponse `json:"traslado"`
	Auto     bool              `json:"auto,omitempty"`
}

// NewTransferResponse convierte la entidad a DTO. El metadata nulo se
// normaliza a objeto vacío para que los consumidores nunca vean null.
func NewTransferResponse(t *entity.StockTransfer) *TransferResponse {
	if t == nil {
		return nil
	}
	items := make([]TransferItemResponse, 0, len(t.Items))
	for _, it := range t.Items {
		meta := it.Metadata
		if meta == nil {
			meta = map[string]any{}
		}
		items = append(items, TransferItemResponse{
			ID:         it.ID,
			TransferID: it.TransferID,
			ProductID:  it.ProductID,
			Quantity:   it.Quantity,
			Unit:       it.Unit,
			Lot:        it.Lot,
			Metadata:   meta,
			CreatedAt:  it.CreatedAt,
		})
	}
	meta := t.Metadata
	if meta == nil {
		meta = map[string]any{}
	}
	return &TransferResponse{
		ID:                     t.ID,
		BusinessID:             t.BusinessID,
		OriginBranchID:         t.OriginBranchID,
		DestinationBranchID:    t.DestinationBranchID,
		State:                  t.State,
		InventoryModeSource:    t.InventoryModeSource,
		InventoryModeTarget:    t.InventoryModeTarget,
		AllowTransfersSnapshot: t.AllowTransfersSnapshot,
		CreatedBy:              t.CreatedBy,
		ApprovedBy:             t.ApprovedBy,
		Comments:               t.Comments,
		Metadata:               meta,
		CreatedAt:              t.CreatedAt,
		UpdatedAt:              t.UpdatedAt,
		Items:                  items,
	}
}
