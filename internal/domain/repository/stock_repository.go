package repository

import (
	"context"

	"github.com/Ezequielnz/backend-sub001/internal/domain/entity"
)

// BranchStockRepository define el puerto para el ledger por sucursal (DIP).
// Get devuelve una fila en cero cuando no existe todavía. Usado dentro de
// transacciones para consistencia.
type BranchStockRepository interface {
	Get(ctx context.Context, businessID, branchID, productID string) (*entity.BranchStock, error)
	// GetForUpdate bloquea la fila del ledger (SELECT FOR UPDATE),
	// materializándola en cero si aún no existe para que el bloqueo sea real.
	GetForUpdate(ctx context.Context, businessID, branchID, productID string) (*entity.BranchStock, error)
	Upsert(ctx context.Context, stock *entity.BranchStock) error
	ListByBranch(ctx context.Context, businessID, branchID string, limit, offset int) ([]*entity.BranchStock, error)
}

// BusinessStockRepository define el puerto para el ledger agregado por negocio.
type BusinessStockRepository interface {
	Get(ctx context.Context, businessID, productID string) (*entity.BusinessStock, error)
	GetForUpdate(ctx context.Context, businessID, productID string) (*entity.BusinessStock, error)
	Upsert(ctx context.Context, stock *entity.BusinessStock) error
	ListByBusiness(ctx context.Context, businessID string, limit, offset int) ([]*entity.BusinessStock, error)
}
