package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Contadores operativos del subsistema de traslados. Se exponen en /metrics.
var (
	// TransferCompensations cuenta los borrados compensatorios de encabezado
	// tras una falla parcial en la creación (visibilidad del paso saga).
	TransferCompensations = promauto.NewCounter(prometheus.CounterOpts{
		Name: "stock_transfer_compensations_total",
		Help: "Borrados compensatorios de encabezado tras falla parcial al crear un traslado.",
	})

	// EventsPublished cuenta los eventos de ciclo de vida entregados, por tipo.
	EventsPublished = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "stock_transfer_events_published_total",
		Help: "Eventos de ciclo de vida publicados, por tipo.",
	}, []string{"type"})

	// EventsDropped cuenta los eventos descartados por cola llena o fallo de entrega.
	EventsDropped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "stock_transfer_events_dropped_total",
		Help: "Eventos descartados (cola llena o fallo de entrega best-effort).",
	})
)
