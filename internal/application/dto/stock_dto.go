package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// StockLevelResponse nivel de stock de un producto en un ámbito (sucursal o negocio).
// BranchID vacío indica la fila agregada del negocio (modo centralized).
type StockLevelResponse struct {
	BusinessID string          `json:"business_id"`
	BranchID   string          `json:"branch_id,omitempty"`
	ProductID  string          `json:"product_id"`
	Quantity   decimal.Decimal `json:"quantity"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

// StockListResponse respuesta de GET /api/stock.
type StockListResponse struct {
	Items []StockLevelResponse `json:"items"`
	Page  PageResponse         `json:"page"`
}
