package entity

import "time"

// Modos de inventario del negocio.
const (
	InventoryModeCentralized = "centralized" // un ledger agregado por negocio
	InventoryModePerBranch   = "per_branch"  // un ledger por sucursal
)

// Modos de alcance para servicios y catálogo.
const (
	ScopeModeShared    = "shared"
	ScopeModePerBranch = "per_branch"
)

// Claves de metadata usadas como pista de auditoría al cambiar de modo.
const (
	MetaPreviousMode = "previous_mode"
	MetaChangedAt    = "changed_at"
	MetaSyncRequired = "sync_required"
)

// BranchSettings es la configuración de sucursales de un negocio (una fila por negocio).
// Determina bajo qué modelo contable de inventario opera y si los traslados
// entre sucursales están permitidos o se confirman automáticamente.
type BranchSettings struct {
	ID                   string
	BusinessID           string
	InventoryMode        string // centralized | per_branch
	ServicesMode         string // shared | per_branch (no usado por el núcleo, se conserva)
	CatalogMode          string // shared | per_branch (no usado por el núcleo, se conserva)
	AllowTransfers       bool
	AutoConfirmTransfers bool
	DefaultBranchID      *string
	Metadata             map[string]any
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// DefaultBranchSettings devuelve la configuración por defecto que se crea
// perezosamente la primera vez que se consulta un negocio sin fila.
func DefaultBranchSettings(businessID string) *BranchSettings {
	return &BranchSettings{
		BusinessID:           businessID,
		InventoryMode:        InventoryModePerBranch,
		ServicesMode:         ScopeModeShared,
		CatalogMode:          ScopeModeShared,
		AllowTransfers:       true,
		AutoConfirmTransfers: false,
		Metadata:             map[string]any{},
	}
}

// ValidInventoryMode informa si s es un modo de inventario reconocido.
func ValidInventoryMode(s string) bool {
	return s == InventoryModeCentralized || s == InventoryModePerBranch
}

// ValidScopeMode informa si s es un modo de alcance reconocido.
func ValidScopeMode(s string) bool {
	return s == ScopeModeShared || s == ScopeModePerBranch
}
