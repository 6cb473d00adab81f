package usecase

import (
	"context"

	"github.com/Ezequielnz/backend-sub001/internal/application/dto"
	"github.com/Ezequielnz/backend-sub001/internal/domain/repository"
)

// StockUseCase lecturas de los ledgers de inventario que los traslados mutan:
// por sucursal (modo per_branch) o agregado del negocio (modo centralized).
type StockUseCase struct {
	branchStock   repository.BranchStockRepository
	businessStock repository.BusinessStockRepository
}

// NewStockUseCase construye el caso de uso.
func NewStockUseCase(branchStock repository.BranchStockRepository, businessStock repository.BusinessStockRepository) *StockUseCase {
	return &StockUseCase{branchStock: branchStock, businessStock: businessStock}
}

// ListByBranch lista las filas del ledger de una sucursal.
func (uc *StockUseCase) ListByBranch(ctx context.Context, businessID, branchID string, limit, offset int) (*dto.StockListResponse, error) {
	rows, err := uc.branchStock.ListByBranch(ctx, businessID, branchID, limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.StockLevelResponse, 0, len(rows))
	for _, r := range rows {
		items = append(items, dto.StockLevelResponse{
			BusinessID: r.BusinessID,
			BranchID:   r.BranchID,
			ProductID:  r.ProductID,
			Quantity:   r.Quantity,
			UpdatedAt:  r.UpdatedAt,
		})
	}
	return &dto.StockListResponse{Items: items, Page: dto.PageResponse{Limit: limit, Offset: offset}}, nil
}

// ListAggregate lista las filas del ledger agregado del negocio.
func (uc *StockUseCase) ListAggregate(ctx context.Context, businessID string, limit, offset int) (*dto.StockListResponse, error) {
	rows, err := uc.businessStock.ListByBusiness(ctx, businessID, limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.StockLevelResponse, 0, len(rows))
	for _, r := range rows {
		items = append(items, dto.StockLevelResponse{
			BusinessID: r.BusinessID,
			ProductID:  r.ProductID,
			Quantity:   r.Quantity,
			UpdatedAt:  r.UpdatedAt,
		})
	}
	return &dto.StockListResponse{Items: items, Page: dto.PageResponse{Limit: limit, Offset: offset}}, nil
}
