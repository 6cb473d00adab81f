package repository

import (
	"context"

	"github.com/Ezequielnz/backend-sub001/internal/domain/entity"
)

// BranchSettingsRepository define el puerto de persistencia para la
// configuración de sucursales (una fila por negocio).
// Get devuelve (nil, nil) cuando el negocio aún no tiene fila.
type BranchSettingsRepository interface {
	Get(ctx context.Context, businessID string) (*entity.BranchSettings, error)
	Create(ctx context.Context, settings *entity.BranchSettings) error
	Update(ctx context.Context, settings *entity.BranchSettings) error
}
