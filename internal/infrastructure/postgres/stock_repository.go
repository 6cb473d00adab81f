package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/Ezequielnz/backend-sub001/internal/domain/entity"
	"github.com/Ezequielnz/backend-sub001/internal/domain/repository"
)

var _ repository.BranchStockRepository = (*BranchStockRepo)(nil)

// BranchStockRepo implementación del ledger por sucursal sobre PostgreSQL.
// Una fila ausente equivale a cantidad cero; Upsert la materializa.
type BranchStockRepo struct {
	q Querier
}

// NewBranchStockRepository construye el adaptador. Acepta pool o tx (Querier).
func NewBranchStockRepository(q Querier) *BranchStockRepo {
	return &BranchStockRepo{q: q}
}

func (r *BranchStockRepo) Get(ctx context.Context, businessID, branchID, productID string) (*entity.BranchStock, error) {
	query := `
		SELECT business_id, branch_id, product_id, quantity, updated_at
		FROM branch_stock
		WHERE business_id = $1 AND branch_id = $2 AND product_id = $3`
	return r.scanOne(r.q.QueryRow(ctx, query, businessID, branchID, productID), businessID, branchID, productID)
}

// GetForUpdate obtiene la fila y la bloquea (SELECT FOR UPDATE). Una fila
// inexistente no puede bloquearse, así que primero se materializa en cero con
// un insert inocuo: dos transacciones que acreditan el mismo destino todavía
// sin fila se serializan sobre ella en vez de pisarse el upsert.
func (r *BranchStockRepo) GetForUpdate(ctx context.Context, businessID, branchID, productID string) (*entity.BranchStock, error) {
	insert := `
		INSERT INTO branch_stock (business_id, branch_id, product_id, quantity, updated_at)
		VALUES ($1, $2, $3, 0, now())
		ON CONFLICT (business_id, branch_id, product_id) DO NOTHING`
	if _, err := r.q.Exec(ctx, insert, businessID, branchID, productID); err != nil {
		return nil, fmt.Errorf("materialize branch stock: %w", err)
	}
	query := `
		SELECT business_id, branch_id, product_id, quantity, updated_at
		FROM branch_stock
		WHERE business_id = $1 AND branch_id = $2 AND product_id = $3
		FOR UPDATE`
	return r.scanOne(r.q.QueryRow(ctx, query, businessID, branchID, productID), businessID, branchID, productID)
}

func (r *BranchStockRepo) scanOne(row pgx.Row, businessID, branchID, productID string) (*entity.BranchStock, error) {
	var s entity.BranchStock
	err := row.Scan(&s.BusinessID, &s.BranchID, &s.ProductID, &s.Quantity, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &entity.BranchStock{
				BusinessID: businessID, BranchID: branchID, ProductID: productID,
				Quantity: decimal.Zero,
			}, nil
		}
		return nil, fmt.Errorf("get branch stock: %w", err)
	}
	return &s, nil
}

func (r *BranchStockRepo) Upsert(ctx context.Context, stock *entity.BranchStock) error {
	query := `
		INSERT INTO branch_stock (business_id, branch_id, product_id, quantity, updated_at)
		VALUES ($1, $2, $3, $4, now())
		ON CONFLICT (business_id, branch_id, product_id)
		DO UPDATE SET quantity = EXCLUDED.quantity, updated_at = now()`
	_, err := r.q.Exec(ctx, query, stock.BusinessID, stock.BranchID, stock.ProductID, stock.Quantity)
	if err != nil {
		return fmt.Errorf("upsert branch stock: %w", err)
	}
	return nil
}

func (r *BranchStockRepo) ListByBranch(ctx context.Context, businessID, branchID string, limit, offset int) ([]*entity.BranchStock, error) {
	query := `
		SELECT business_id, branch_id, product_id, quantity, updated_at
		FROM branch_stock
		WHERE business_id = $1 AND branch_id = $2
		ORDER BY updated_at DESC LIMIT $3 OFFSET $4`
	rows, err := r.q.Query(ctx, query, businessID, branchID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list branch stock: %w", err)
	}
	defer rows.Close()
	var list []*entity.BranchStock
	for rows.Next() {
		var s entity.BranchStock
		if err := rows.Scan(&s.BusinessID, &s.BranchID, &s.ProductID, &s.Quantity, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan branch stock: %w", err)
		}
		list = append(list, &s)
	}
	return list, rows.Err()
}

var _ repository.BusinessStockRepository = (*BusinessStockRepo)(nil)

// BusinessStockRepo implementación del ledger agregado por negocio.
type BusinessStockRepo struct {
	q Querier
}

// NewBusinessStockRepository construye el adaptador. Acepta pool o tx (Querier).
func NewBusinessStockRepository(q Querier) *BusinessStockRepo {
	return &BusinessStockRepo{q: q}
}

func (r *BusinessStockRepo) Get(ctx context.Context, businessID, productID string) (*entity.BusinessStock, error) {
	query := `
		SELECT business_id, product_id, quantity, updated_at
		FROM business_stock WHERE business_id = $1 AND product_id = $2`
	return r.scanOne(r.q.QueryRow(ctx, query, businessID, productID), businessID, productID)
}

// GetForUpdate materializa la fila en cero si no existe y la bloquea, igual
// que su par por sucursal.
func (r *BusinessStockRepo) GetForUpdate(ctx context.Context, businessID, productID string) (*entity.BusinessStock, error) {
	insert := `
		INSERT INTO business_stock (business_id, product_id, quantity, updated_at)
		VALUES ($1, $2, 0, now())
		ON CONFLICT (business_id, product_id) DO NOTHING`
	if _, err := r.q.Exec(ctx, insert, businessID, productID); err != nil {
		return nil, fmt.Errorf("materialize business stock: %w", err)
	}
	query := `
		SELECT business_id, product_id, quantity, updated_at
		FROM business_stock WHERE business_id = $1 AND product_id = $2
		FOR UPDATE`
	return r.scanOne(r.q.QueryRow(ctx, query, businessID, productID), businessID, productID)
}

func (r *BusinessStockRepo) scanOne(row pgx.Row, businessID, productID string) (*entity.BusinessStock, error) {
	var s entity.BusinessStock
	err := row.Scan(&s.BusinessID, &s.ProductID, &s.Quantity, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &entity.BusinessStock{
				BusinessID: businessID, ProductID: productID, Quantity: decimal.Zero,
			}, nil
		}
		return nil, fmt.Errorf("get business stock: %w", err)
	}
	return &s, nil
}

func (r *BusinessStockRepo) Upsert(ctx context.Context, stock *entity.BusinessStock) error {
	query := `
		INSERT INTO business_stock (business_id, product_id, quantity, updated_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (business_id, product_id)
		DO UPDATE SET quantity = EXCLUDED.quantity, updated_at = now()`
	_, err := r.q.Exec(ctx, query, stock.BusinessID, stock.ProductID, stock.Quantity)
	if err != nil {
		return fmt.Errorf("upsert business stock: %w", err)
	}
	return nil
}

func (r *BusinessStockRepo) ListByBusiness(ctx context.Context, businessID string, limit, offset int) ([]*entity.BusinessStock, error) {
	query := `
		SELECT business_id, product_id, quantity, updated_at
		FROM business_stock WHERE business_id = $1
		ORDER BY updated_at DESC LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(ctx, query, businessID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list business stock: %w", err)
	}
	defer rows.Close()
	var list []*entity.BusinessStock
	for rows.Next() {
		var s entity.BusinessStock
		if err := rows.Scan(&s.BusinessID, &s.ProductID, &s.Quantity, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan business stock: %w", err)
		}
		list = append(list, &s)
	}
	return list, rows.Err()
}
