package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Ezequielnz/backend-sub001/internal/application/transfer"
	"github.com/Ezequielnz/backend-sub001/internal/domain/repository"
)

var _ transfer.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
// Las transiciones de estado de los traslados dependen de que el chequeo de
// disponibilidad, la mutación de ledgers y el cambio de estado del encabezado
// compartan la misma tx.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// Run inicia una transacción, ejecuta fn con repos atados a la tx y hace
// Commit o Rollback.
func (r *TxRunner) Run(ctx context.Context, fn func(
	transferRepo repository.StockTransferRepository,
	branchStockRepo repository.BranchStockRepository,
	businessStockRepo repository.BusinessStockRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	transferRepo := NewStockTransferRepository(tx)
	branchStockRepo := NewBranchStockRepository(tx)
	businessStockRepo := NewBusinessStockRepository(tx)

	if err := fn(transferRepo, branchStockRepo, businessStockRepo); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
