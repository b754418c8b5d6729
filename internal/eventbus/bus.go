package eventbus

import (
	"sync"
)

// EventBus es el bus central de eventos del proceso (patrón Pub/Sub).
// Todos los componentes (controlador de vuelo, sink de capturas, pipeline de
// análisis, publishers, UI) se comunican a través de él.
type EventBus struct {
	subscribers map[EventType][]chan Event
	mu          sync.RWMutex
}

// NewEventBus crea una nueva instancia del Event Bus
func NewEventBus() *EventBus {
	return &EventBus{
		subscribers: make(map[EventType][]chan Event),
	}
}

// Subscribe crea una suscripción a un tipo de evento específico.
// Retorna un canal read-only para recibir eventos.
func (eb *EventBus) Subscribe(eventType EventType) <-chan Event {
	eb.mu.Lock()
	defer eb.mu.Unlock()

	// Canal con buffer para no bloquear al publicador
	ch := make(chan Event, 16)

	eb.subscribers[eventType] = append(eb.subscribers[eventType], ch)

	return ch
}

// Publish publica un evento a todos los suscriptores de ese tipo.
// El envío es non-blocking: si el canal de un suscriptor está lleno, el
// evento se descarta para ese suscriptor (evita deadlocks; la telemetría
// es frecuente y tolerante a pérdidas).
func (eb *EventBus) Publish(event Event) {
	eb.mu.RLock()
	defer eb.mu.RUnlock()

	if subs, ok := eb.subscribers[event.Type]; ok {
		for _, ch := range subs {
			select {
			case ch <- event:
			default:
				// Canal lleno, descartamos
			}
		}
	}
}

// Close cierra todos los canales de suscriptores
func (eb *EventBus) Close() {
	eb.mu.Lock()
	defer eb.mu.Unlock()

	for _, subs := range eb.subscribers {
		for _, ch := range subs {
			close(ch)
		}
	}

	eb.subscribers = make(map[EventType][]chan Event)
}
