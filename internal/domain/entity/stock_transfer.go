package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados del traslado. El encabezado solo avanza draft → confirmed → received;
// desde draft también puede eliminarse. "cancelled" está declarado en el modelo
// pero ninguna operación lo produce todavía (decisión de producto pendiente).
const (
	TransferStateDraft     = "draft"
	TransferStateConfirmed = "confirmed"
	TransferStateReceived  = "received"
	TransferStateCancelled = "cancelled"
)

// ValidTransferState informa si s es un estado de traslado reconocido.
func ValidTransferState(s string) bool {
	switch s {
	case TransferStateDraft, TransferStateConfirmed, TransferStateReceived, TransferStateCancelled:
		return true
	}
	return false
}

// StockTransfer es el encabezado de un traslado de stock entre dos sucursales
// del mismo negocio. Los modos de inventario se congelan al crear, para
// auditoría, aunque la configuración del negocio cambie después.
type StockTransfer struct {
	ID                     string
	BusinessID             string
	OriginBranchID         string
	DestinationBranchID    string
	State                  string
	InventoryModeSource    string
	InventoryModeTarget    string
	AllowTransfersSnapshot bool
	CreatedBy              string
	ApprovedBy             *string
	Comments               *string
	Metadata               map[string]any
	CreatedAt              time.Time
	UpdatedAt              time.Time
	Items                  []StockTransferItem
}

// StockTransferItem es una línea de detalle del traslado (propiedad exclusiva
// de su encabezado). La cantidad es un decimal de precisión arbitraria,
// estrictamente positivo; nunca pasa por punto flotante binario.
type StockTransferItem struct {
	ID         string
	TransferID string
	BusinessID string
	ProductID  string
	Quantity   decimal.Decimal
	Unit       *string
	Lot        *string
	Metadata   map[string]any
	CreatedAt  time.Time
}
