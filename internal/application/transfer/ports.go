package transfer

import (
	"context"

	"github.com/Ezequielnz/backend-sub001/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. Confirmación, recepción y borrado del traslado
// corren completos dentro de una transacción: chequeo de disponibilidad,
// mutación de ledgers y cambio de estado del encabezado, con bloqueo de fila
// (SELECT FOR UPDATE) para cerrar la carrera check-then-act.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		transferRepo repository.StockTransferRepository,
		branchStockRepo repository.BranchStockRepository,
		businessStockRepo repository.BusinessStockRepository,
	) error) error
}

// EventPublisher publica eventos de ciclo de vida best-effort: Enqueue nunca
// bloquea al caller y sus fallas solo se registran, jamás se propagan.
type EventPublisher interface {
	Enqueue(eventType string, payload any)
}
