package event

import (
	"sync"

	"github.com/Ezequielnz/backend-sub001/pkg/logger"
	"github.com/Ezequielnz/backend-sub001/pkg/metrics"
)

// Event envuelve un evento de ciclo de vida encolado.
type Event struct {
	Type    string
	Payload any
}

// Sink entrega un evento a su destino final (webhook, broker, log...).
type Sink interface {
	Deliver(ev Event) error
}

// LogSink entrega eventos al log estructurado. Es el sink por defecto; un
// despliegue real lo sustituye por el integrador que corresponda.
type LogSink struct {
	Log *logger.Logger
}

// Deliver registra el evento con su payload.
func (s LogSink) Deliver(ev Event) error {
	s.Log.Info().Str("event_type", ev.Type).Interface("payload", ev.Payload).Msg("evento publicado")
	return nil
}

// Publisher publica eventos best-effort: Enqueue nunca bloquea al caller y
// toda falla se registra sin propagarse. Un worker drena la cola interna; los
// eventos que no caben se descartan con una advertencia.
type Publisher struct {
	ch   chan Event
	sink Sink
	log  *logger.Logger
	wg   sync.WaitGroup
	once sync.Once
}

// NewPublisher construye el publisher y arranca su worker.
func NewPublisher(sink Sink, log *logger.Logger, buffer int) *Publisher {
	if buffer <= 0 {
		buffer = 256
	}
	p := &Publisher{
		ch:   make(chan Event, buffer),
		sink: sink,
		log:  log,
	}
	p.wg.Add(1)
	go p.run()
	return p
}

// Enqueue encola el evento sin bloquear. Con la cola llena el evento se
// descarta y se registra: los eventos jamás fallan una operación de usuario.
func (p *Publisher) Enqueue(eventType string, payload any) {
	select {
	case p.ch <- Event{Type: eventType, Payload: payload}:
	default:
		metrics.EventsDropped.Inc()
		p.log.Warn().Str("event_type", eventType).Msg("cola de eventos llena, evento descartado")
	}
}

// Close drena los eventos pendientes y detiene el worker.
func (p *Publisher) Close() {
	p.once.Do(func() { close(p.ch) })
	p.wg.Wait()
}

func (p *Publisher) run() {
	defer p.wg.Done()
	for ev := range p.ch {
		if err := p.sink.Deliver(ev); err != nil {
			metrics.EventsDropped.Inc()
			p.log.Error().Err(err).Str("event_type", ev.Type).Msg("fallo al entregar evento")
			continue
		}
		metrics.EventsPublished.WithLabelValues(ev.Type).Inc()
	}
}
