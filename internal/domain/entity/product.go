package entity

import "time"

// Product representa un producto del catálogo de un negocio.
// El CRUD completo de productos vive fuera de este núcleo; aquí solo se
// necesita para validar pertenencia en los traslados y exponer lecturas.
type Product struct {
	ID         string
	BusinessID string
	SKU        string
	Name       string
	Unit       string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
