package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// BranchStock es la fila de ledger por (negocio, sucursal, producto).
// Se usa cuando el negocio opera en modo per_branch. Las filas se crean en la
// primera escritura (upsert) y este subsistema nunca las elimina.
type BranchStock struct {
	BusinessID string
	BranchID   string
	ProductID  string
	Quantity   decimal.Decimal
	UpdatedAt  time.Time
}

// BusinessStock es la fila de ledger agregado por (negocio, producto).
// Se usa cuando el negocio opera en modo centralized.
type BusinessStock struct {
	BusinessID string
	ProductID  string
	Quantity   decimal.Decimal
	UpdatedAt  time.Time
}
