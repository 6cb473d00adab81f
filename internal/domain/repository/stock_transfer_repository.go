package repository

import (
	"context"

	"github.com/Ezequielnz/backend-sub001/internal/domain/entity"
)

// TransferFilter filtros opcionales para listar traslados.
type TransferFilter struct {
	State               *string
	OriginBranchID      *string
	DestinationBranchID *string
	Limit               int
}

// StockTransferRepository define el puerto de persistencia para traslados
// (encabezado + detalle). Las filas de detalle pertenecen exclusivamente a su
// encabezado; el borrado del encabezado elimina el detalle en cascada.
type StockTransferRepository interface {
	CreateHeader(ctx context.Context, transfer *entity.StockTransfer) error
	CreateItems(ctx context.Context, items []entity.StockTransferItem) error
	// GetByID devuelve (nil, nil) si el traslado no existe o no pertenece al negocio.
	GetByID(ctx context.Context, businessID, id string) (*entity.StockTransfer, error)
	// GetByIDForUpdate bloquea la fila del encabezado (SELECT FOR UPDATE) para
	// serializar confirm/receive/delete concurrentes sobre el mismo traslado.
	GetByIDForUpdate(ctx context.Context, businessID, id string) (*entity.StockTransfer, error)
	ListItems(ctx context.Context, transferID string) ([]entity.StockTransferItem, error)
	ListItemsByTransferIDs(ctx context.Context, transferIDs []string) (map[string][]entity.StockTransferItem, error)
	List(ctx context.Context, businessID string, filter TransferFilter) ([]*entity.StockTransfer, error)
	UpdateHeader(ctx context.Context, transfer *entity.StockTransfer) error
	Delete(ctx context.Context, businessID, id string) error
}
