package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/Ezequielnz/backend-sub001/internal/domain/entity"
	"github.com/Ezequielnz/backend-sub001/internal/domain/repository"
)

var _ repository.StockTransferRepository = (*StockTransferRepo)(nil)

// StockTransferRepo implementación de StockTransferRepository sobre PostgreSQL.
// El detalle (stock_transfer_items) tiene FK con ON DELETE CASCADE al
// encabezado: borrar el encabezado elimina sus líneas.
type StockTransferRepo struct {
	q Querier
}

// NewStockTransferRepository construye el adaptador. Acepta pool o tx (Querier).
func NewStockTransferRepository(q Querier) *StockTransferRepo {
	return &StockTransferRepo{q: q}
}

const transferColumns = `
	id, business_id, origin_branch_id, destination_branch_id, state,
	inventory_mode_source, inventory_mode_target, allow_transfers_snapshot,
	created_by, approved_by, comments, COALESCE(metadata, '{}'::jsonb),
	created_at, updated_at`

func scanTransfer(row pgx.Row) (*entity.StockTransfer, error) {
	var t entity.StockTransfer
	err := row.Scan(
		&t.ID, &t.BusinessID, &t.OriginBranchID, &t.DestinationBranchID, &t.State,
		&t.InventoryModeSource, &t.InventoryModeTarget, &t.AllowTransfersSnapshot,
		&t.CreatedBy, &t.ApprovedBy, &t.Comments, &t.Metadata,
		&t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *StockTransferRepo) CreateHeader(ctx context.Context, t *entity.StockTransfer) error {
	query := `
		INSERT INTO stock_transfers
			(id, business_id, origin_branch_id, destination_branch_id, state,
			 inventory_mode_source, inventory_mode_target, allow_transfers_snapshot,
			 created_by, approved_by, comments, metadata, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`
	_, err := r.q.Exec(ctx, query,
		t.ID, t.BusinessID, t.OriginBranchID, t.DestinationBranchID, t.State,
		t.InventoryModeSource, t.InventoryModeTarget, t.AllowTransfersSnapshot,
		t.CreatedBy, t.ApprovedBy, t.Comments, t.Metadata, t.CreatedAt, t.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("create transfer header: %w", err)
	}
	return nil
}

// CreateItems inserta todas las líneas de detalle en un solo batch.
func (r *StockTransferRepo) CreateItems(ctx context.Context, items []entity.StockTransferItem) error {
	if len(items) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	query := `
		INSERT INTO stock_transfer_items
			(id, transfer_id, business_id, product_id, quantity, unit, lot, metadata, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	for _, it := range items {
		batch.Queue(query, it.ID, it.TransferID, it.BusinessID, it.ProductID,
			it.Quantity, it.Unit, it.Lot, it.Metadata, it.CreatedAt)
	}
	br := r.q.SendBatch(ctx, batch)
	defer br.Close()
	for range items {
		if _, err := br.Exec(); err != nil {
			return fmt.Errorf("create transfer items: %w", err)
		}
	}
	return nil
}

func (r *StockTransferRepo) GetByID(ctx context.Context, businessID, id string) (*entity.StockTransfer, error) {
	query := `SELECT` + transferColumns + `
		FROM stock_transfers WHERE id = $1 AND business_id = $2`
	t, err := scanTransfer(r.q.QueryRow(ctx, query, id, businessID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get transfer: %w", err)
	}
	return t, nil
}

func (r *StockTransferRepo) GetByIDForUpdate(ctx context.Context, businessID, id string) (*entity.StockTransfer, error) {
	query := `SELECT` + transferColumns + `
		FROM stock_transfers WHERE id = $1 AND business_id = $2
		FOR UPDATE`
	t, err := scanTransfer(r.q.QueryRow(ctx, query, id, businessID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get transfer for update: %w", err)
	}
	return t, nil
}

func (r *StockTransferRepo) ListItems(ctx context.Context, transferID string) ([]entity.StockTransferItem, error) {
	query := `
		SELECT id, transfer_id, business_id, product_id, quantity, unit, lot,
		       COALESCE(metadata, '{}'::jsonb), created_at
		FROM stock_transfer_items WHERE transfer_id = $1
		ORDER BY created_at ASC, id ASC`
	rows, err := r.q.Query(ctx, query, transferID)
	if err != nil {
		return nil, fmt.Errorf("list transfer items: %w", err)
	}
	defer rows.Close()
	var items []entity.StockTransferItem
	for rows.Next() {
		var it entity.StockTransferItem
		if err := rows.Scan(&it.ID, &it.TransferID, &it.BusinessID, &it.ProductID,
			&it.Quantity, &it.Unit, &it.Lot, &it.Metadata, &it.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan transfer item: %w", err)
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

func (r *StockTransferRepo) ListItemsByTransferIDs(ctx context.Context, transferIDs []string) (map[string][]entity.StockTransferItem, error) {
	out := make(map[string][]entity.StockTransferItem, len(transferIDs))
	if len(transferIDs) == 0 {
		return out, nil
	}
	query := `
		SELECT id, transfer_id, business_id, product_id, quantity, unit, lot,
		       COALESCE(metadata, '{}'::jsonb), created_at
		FROM stock_transfer_items WHERE transfer_id = ANY($1)
		ORDER BY created_at ASC, id ASC`
	rows, err := r.q.Query(ctx, query, transferIDs)
	if err != nil {
		return nil, fmt.Errorf("list transfer items by ids: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var it entity.StockTransferItem
		if err := rows.Scan(&it.ID, &it.TransferID, &it.BusinessID, &it.ProductID,
			&it.Quantity, &it.Unit, &it.Lot, &it.Metadata, &it.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan transfer item: %w", err)
		}
		out[it.TransferID] = append(out[it.TransferID], it)
	}
	return out, rows.Err()
}

func (r *StockTransferRepo) List(ctx context.Context, businessID string, filter repository.TransferFilter) ([]*entity.StockTransfer, error) {
	query := `SELECT` + transferColumns + `
		FROM stock_transfers WHERE business_id = $1`
	args := []any{businessID}
	if filter.State != nil {
		args = append(args, *filter.State)
		query += fmt.Sprintf(" AND state = $%d", len(args))
	}
	if filter.OriginBranchID != nil {
		args = append(args, *filter.OriginBranchID)
		query += fmt.Sprintf(" AND origin_branch_id = $%d", len(args))
	}
	if filter.DestinationBranchID != nil {
		args = append(args, *filter.DestinationBranchID)
		query += fmt.Sprintf(" AND destination_branch_id = $%d", len(args))
	}
	args = append(args, filter.Limit)
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d", len(args))

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list transfers: %w", err)
	}
	defer rows.Close()
	var list []*entity.StockTransfer
	for rows.Next() {
		t, err := scanTransfer(rows)
		if err != nil {
			return nil, fmt.Errorf("scan transfer: %w", err)
		}
		list = append(list, t)
	}
	return list, rows.Err()
}

func (r *StockTransferRepo) UpdateHeader(ctx context.Context, t *entity.StockTransfer) error {
	query := `
		UPDATE stock_transfers SET
			state = $3, approved_by = $4, comments = $5, metadata = $6, updated_at = $7
		WHERE id = $1 AND business_id = $2`
	_, err := r.q.Exec(ctx, query,
		t.ID, t.BusinessID, t.State, t.ApprovedBy, t.Comments, t.Metadata, t.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update transfer header: %w", err)
	}
	return nil
}

func (r *StockTransferRepo) Delete(ctx context.Context, businessID, id string) error {
	_, err := r.q.Exec(ctx,
		`DELETE FROM stock_transfers WHERE id = $1 AND business_id = $2`, id, businessID)
	if err != nil {
		return fmt.Errorf("delete transfer: %w", err)
	}
	return nil
}
