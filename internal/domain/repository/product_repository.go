package repository

import (
	"context"

	"github.com/Ezequielnz/backend-sub001/internal/domain/entity"
)

// ProductRepository define el puerto de lectura de productos (DIP).
// El CRUD completo de productos pertenece a otro módulo; los traslados solo
// necesitan verificar existencia y pertenencia al negocio.
type ProductRepository interface {
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	GetByIDs(ctx context.Context, ids []string) ([]*entity.Product, error)
	ListByBusiness(ctx context.Context, businessID string, limit, offset int) ([]*entity.Product, error)
}
