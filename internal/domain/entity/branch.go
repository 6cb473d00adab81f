package entity

import "time"

// Branch representa una sucursal (ubicación física u operativa) de un negocio.
// Es el origen/destino de los traslados de stock.
type Branch struct {
	ID         string
	BusinessID string
	Name       string
	Address    string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
