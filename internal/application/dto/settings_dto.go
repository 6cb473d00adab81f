package dto

import (
	"time"

	"github.com/Ezequielnz/backend-sub001/internal/domain/entity"
)

// BranchSettingsResponse configuración de sucursales de un negocio.
type BranchSettingsResponse struct {
	ID                   string         `json:"id"`
	BusinessID           string         `json:"business_id"`
	InventoryMode        string         `json:"inventory_mode"`
	ServicesMode         string         `json:"services_mode"`
	CatalogMode          string         `json:"catalog_mode"`
	AllowTransfers       bool           `json:"allow_transfers"`
	AutoConfirmTransfers bool           `json:"auto_confirm_transfers"`
	DefaultBranchID      *string        `json:"default_branch_id,omitempty"`
	Metadata             map[string]any `json:"metadata"`
	CreatedAt            time.Time      `json:"created_at"`
	UpdatedAt            time.Time      `json:"updated_at"`
}

// UpdateBranchSettingsRequest body para PATCH /api/branch-settings.
// Campos nil no se tocan. DefaultBranchID en cadena vacía desasigna la
// sucursal por defecto. Metadata se fusiona clave a clave (append-only).
type UpdateBranchSettingsRequest struct {
	InventoryMode        *string        `json:"inventory_mode,omitempty"`
	ServicesMode         *string        `json:"services_mode,omitempty"`
	CatalogMode          *string        `json:"catalog_mode,omitempty"`
	AllowTransfers       *bool          `json:"allow_transfers,omitempty"`
	AutoConfirmTransfers *bool          `json:"auto_confirm_transfers,omitempty"`
	DefaultBranchID      *string        `json:"default_branch_id,omitempty"`
	Metadata             map[string]any `json:"metadata,omitempty"`
}

// Empty informa si el patch no trae ningún campo.
func (r UpdateBranchSettingsRequest) Empty() bool {
	return r.InventoryMode == nil && r.ServicesMode == nil && r.CatalogMode == nil &&
		r.AllowTransfers == nil && r.AutoConfirmTransfers == nil &&
		r.DefaultBranchID == nil && len(r.Metadata) == 0
}

// NewBranchSettingsResponse convierte la entidad a DTO (metadata nunca null).
func NewBranchSettingsResponse(s *entity.BranchSettings) *BranchSettingsResponse {
	if s == nil {
		return nil
	}
	meta := s.Metadata
	if meta == nil {
		meta = map[string]any{}
	}
	return &BranchSettingsResponse{
		ID:                   s.ID,
		BusinessID:           s.BusinessID,
		InventoryMode:        s.InventoryMode,
		ServicesMode:         s.ServicesMode,
		CatalogMode:          s.CatalogMode,
		AllowTransfers:       s.AllowTransfers,
		AutoConfirmTransfers: s.AutoConfirmTransfers,
		DefaultBranchID:      s.DefaultBranchID,
		Metadata:             meta,
		CreatedAt:            s.CreatedAt,
		UpdatedAt:            s.UpdatedAt,
	}
}
