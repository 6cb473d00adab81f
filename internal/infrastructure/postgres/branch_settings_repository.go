package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/Ezequielnz/backend-sub001/internal/domain"
	"github.com/Ezequielnz/backend-sub001/internal/domain/entity"
	"github.com/Ezequielnz/backend-sub001/internal/domain/repository"
)

var _ repository.BranchSettingsRepository = (*BranchSettingsRepo)(nil)

// BranchSettingsRepo implementación de BranchSettingsRepository sobre PostgreSQL.
// La tabla tiene clave única por business_id: una fila de configuración por negocio.
type BranchSettingsRepo struct {
	q Querier
}

// NewBranchSettingsRepository construye el adaptador. Acepta pool o tx (Querier).
func NewBranchSettingsRepository(q Querier) *BranchSettingsRepo {
	return &BranchSettingsRepo{q: q}
}

func (r *BranchSettingsRepo) Get(ctx context.Context, businessID string) (*entity.BranchSettings, error) {
	query := `
		SELECT id, business_id, inventory_mode, services_mode, catalog_mode,
		       allow_transfers, auto_confirm_transfers, default_branch_id,
		       COALESCE(metadata, '{}'::jsonb), created_at, updated_at
		FROM branch_settings WHERE business_id = $1`
	var s entity.BranchSettings
	err := r.q.QueryRow(ctx, query, businessID).Scan(
		&s.ID, &s.BusinessID, &s.InventoryMode, &s.ServicesMode, &s.CatalogMode,
		&s.AllowTransfers, &s.AutoConfirmTransfers, &s.DefaultBranchID,
		&s.Metadata, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get branch settings: %w", err)
	}
	return &s, nil
}

func (r *BranchSettingsRepo) Create(ctx context.Context, s *entity.BranchSettings) error {
	query := `
		INSERT INTO branch_settings
			(id, business_id, inventory_mode, services_mode, catalog_mode,
			 allow_transfers, auto_confirm_transfers, default_branch_id,
			 metadata, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(ctx, query,
		s.ID, s.BusinessID, s.InventoryMode, s.ServicesMode, s.CatalogMode,
		s.AllowTransfers, s.AutoConfirmTransfers, s.DefaultBranchID,
		s.Metadata, s.CreatedAt, s.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: branch settings business %s", domain.ErrDuplicate, s.BusinessID)
		}
		return fmt.Errorf("create branch settings: %w", err)
	}
	return nil
}

func (r *BranchSettingsRepo) Update(ctx context.Context, s *entity.BranchSettings) error {
	query := `
		UPDATE branch_settings SET
			inventory_mode = $2, services_mode = $3, catalog_mode = $4,
			allow_transfers = $5, auto_confirm_transfers = $6,
			default_branch_id = $7, metadata = $8, updated_at = $9
		WHERE business_id = $1`
	tag, err := r.q.Exec(ctx, query,
		s.BusinessID, s.InventoryMode, s.ServicesMode, s.CatalogMode,
		s.AllowTransfers, s.AutoConfirmTransfers, s.DefaultBranchID,
		s.Metadata, s.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update branch settings: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: branch settings business %s", domain.ErrNotFound, s.BusinessID)
	}
	return nil
}
