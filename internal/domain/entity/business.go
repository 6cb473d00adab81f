package entity

import "time"

// Business representa un negocio/tenant del sistema (multi-tenant).
// Todo recurso de este backend pertenece exactamente a un negocio.
type Business struct {
	ID        string
	Name      string
	Status    string // active, suspended, inactive
	CreatedAt time.Time
	UpdatedAt time.Time
}
