package settings

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"time"

	"github.com/google/uuid"

	"github.com/Ezequielnz/backend-sub001/internal/application/dto"
	"github.com/Ezequielnz/backend-sub001/internal/domain"
	"github.com/Ezequielnz/backend-sub001/internal/domain/entity"
	"github.com/Ezequielnz/backend-sub001/internal/domain/repository"
	"github.com/Ezequielnz/backend-sub001/pkg/logger"
)

// UseCase lee, crea perezosamente y actualiza la configuración de sucursales
// de un negocio (una fila por negocio).
type UseCase struct {
	repo repository.BranchSettingsRepository
	log  *logger.Logger
}

// NewUseCase construye el caso de uso.
func NewUseCase(repo repository.BranchSettingsRepository, log *logger.Logger) *UseCase {
	return &UseCase{repo: repo, log: log}
}

// Fetch obtiene la configuración del negocio. Si no existe y ensureExists es
// true, inserta la fila por defecto y vuelve a leer. La clave única por
// negocio desempata inserciones concurrentes: el intento duplicado se descarta
// y se relee la fila ganadora.
func (uc *UseCase) Fetch(ctx context.Context, businessID string, ensureExists bool) (*entity.BranchSettings, error) {
	if businessID == "" {
		return nil, fmt.Errorf("%w: business_id requerido", domain.ErrInvalidInput)
	}
	current, err := uc.repo.Get(ctx, businessID)
	if err != nil {
		return nil, err
	}
	if current != nil || !ensureExists {
		return hydrate(current), nil
	}

	now := time.Now()
	defaults := entity.DefaultBranchSettings(businessID)
	defaults.ID = uuid.New().String()
	defaults.CreatedAt = now
	defaults.UpdatedAt = now
	if err := uc.repo.Create(ctx, defaults); err != nil {
		if !errors.Is(err, domain.ErrDuplicate) {
			return nil, err
		}
		uc.log.Debug().Str("business_id", businessID).
			Msg("configuración ya creada por otra petición, releyendo")
	}
	current, err = uc.repo.Get(ctx, businessID)
	if err != nil {
		return nil, err
	}
	return hydrate(current), nil
}

// Update aplica un patch parcial. Sin campos cambiados devuelve la fila actual
// sin escribir. Un cambio de inventory_mode extiende metadata con el modo
// anterior, la fecha del cambio y sync_required=true: los ledgers existentes
// deben reconciliarse manualmente al nuevo modo, no hay migración automática.
func (uc *UseCase) Update(ctx context.Context, businessID string, patch dto.UpdateBranchSettingsRequest) (*entity.BranchSettings, error) {
	current, err := uc.Fetch(ctx, businessID, false)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, fmt.Errorf("%w: el negocio no tiene configuración de sucursales", domain.ErrNotFound)
	}
	if patch.Empty() {
		return current, nil
	}

	changed := false

	if patch.InventoryMode != nil && *patch.InventoryMode != current.InventoryMode {
		if !entity.ValidInventoryMode(*patch.InventoryMode) {
			return nil, fmt.Errorf("%w: inventory_mode %q", domain.ErrInvalidInput, *patch.InventoryMode)
		}
		if current.Metadata == nil {
			current.Metadata = map[string]any{}
		}
		current.Metadata[entity.MetaPreviousMode] = current.InventoryMode
		current.Metadata[entity.MetaChangedAt] = time.Now().UTC().Format(time.RFC3339)
		current.Metadata[entity.MetaSyncRequired] = true
		uc.log.Warn().Str("business_id", businessID).
			Str("previous_mode", current.InventoryMode).
			Str("new_mode", *patch.InventoryMode).
			Msg("cambio de modo de inventario: se requiere reconciliación manual de ledgers")
		current.InventoryMode = *patch.InventoryMode
		changed = true
	}
	if patch.ServicesMode != nil && *patch.ServicesMode != current.ServicesMode {
		if !entity.ValidScopeMode(*patch.ServicesMode) {
			return nil, fmt.Errorf("%w: services_mode %q", domain.ErrInvalidInput, *patch.ServicesMode)
		}
		current.ServicesMode = *patch.ServicesMode
		changed = true
	}
	if patch.CatalogMode != nil && *patch.CatalogMode != current.CatalogMode {
		if !entity.ValidScopeMode(*patch.CatalogMode) {
			return nil, fmt.Errorf("%w: catalog_mode %q", domain.ErrInvalidInput, *patch.CatalogMode)
		}
		current.CatalogMode = *patch.CatalogMode
		changed = true
	}
	if patch.AllowTransfers != nil && *patch.AllowTransfers != current.AllowTransfers {
		current.AllowTransfers = *patch.AllowTransfers
		changed = true
	}
	if patch.AutoConfirmTransfers != nil && *patch.AutoConfirmTransfers != current.AutoConfirmTransfers {
		current.AutoConfirmTransfers = *patch.AutoConfirmTransfers
		changed = true
	}
	if patch.DefaultBranchID != nil {
		// Cadena vacía = desasignar la sucursal por defecto.
		if *patch.DefaultBranchID == "" {
			if current.DefaultBranchID != nil {
				current.DefaultBranchID = nil
				changed = true
			}
		} else if current.DefaultBranchID == nil || *current.DefaultBranchID != *patch.DefaultBranchID {
			v := *patch.DefaultBranchID
			current.DefaultBranchID = &v
			changed = true
		}
	}
	for k, v := range patch.Metadata {
		// Los valores vienen de JSON libre (mapas, slices); comparar con
		// DeepEqual, el operador != entra en pánico con tipos no comparables.
		if cur, ok := current.Metadata[k]; !ok || !reflect.DeepEqual(cur, v) {
			if current.Metadata == nil {
				current.Metadata = map[string]any{}
			}
			current.Metadata[k] = v
			changed = true
		}
	}

	if !changed {
		return current, nil
	}
	current.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, current); err != nil {
		return nil, err
	}
	return current, nil
}

// hydrate normaliza campos que los consumidores esperan nunca vacíos.
func hydrate(s *entity.BranchSettings) *entity.BranchSettings {
	if s == nil {
		return nil
	}
	if s.Metadata == nil {
		s.Metadata = map[string]any{}
	}
	return s
}
