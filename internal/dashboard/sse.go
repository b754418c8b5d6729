package dashboard

import (
	"sync"

	"github.com/MarcosBrindi/drone-inspector/internal/logging"
	"github.com/MarcosBrindi/drone-inspector/internal/metrics"
)

// clientQueueSize acota la cola de eventos por cliente; un cliente lento
// pierde eventos en vez de frenar al resto
const clientQueueSize = 32

// Broker reparte eventos SSE a todos los clientes conectados
type Broker struct {
	mu      sync.RWMutex
	clients map[chan []byte]struct{}
	metrics *metrics.MetricsRegistry
}

// NewBroker crea el broker de clientes SSE
func NewBroker(reg *metrics.MetricsRegistry) *Broker {
	return &Broker{
		clients: make(map[chan []byte]struct{}),
		metrics: reg,
	}
}

// Subscribe registra un cliente nuevo y retorna su cola de eventos
func (b *Broker) Subscribe() chan []byte {
	ch := make(chan []byte, clientQueueSize)

	b.mu.Lock()
	b.clients[ch] = struct{}{}
	total := len(b.clients)
	b.mu.Unlock()

	if b.metrics != nil {
		b.metrics.SSEClientsActive.Set(float64(total))
	}
	logging.Info("🔌 [Dashboard] Cliente SSE conectado", "clientes", total)
	return ch
}

// Unsubscribe retira un cliente desconectado
func (b *Broker) Unsubscribe(ch chan []byte) {
	b.mu.Lock()
	delete(b.clients, ch)
	total := len(b.clients)
	b.mu.Unlock()

	if b.metrics != nil {
		b.metrics.SSEClientsActive.Set(float64(total))
	}
	logging.Info("🔌 [Dashboard] Cliente SSE desconectado", "clientes", total)
}

// Broadcast envía un evento ya serializado a todos los clientes.
// El envío es no bloqueante: clientes con la cola llena pierden el evento.
func (b *Broker) Broadcast(event []byte) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for ch := range b.clients {
		select {
		case ch <- event:
			if b.metrics != nil {
				b.metrics.SSEEventsSentTotal.Inc()
			}
		default:
			// Cola llena: el cliente va atrasado, se salta este evento
		}
	}
}

// ClientCount retorna cuántos clientes hay conectados
func (b *Broker) ClientCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.clients)
}
