package sim

import (
	"context"
	"sync"
	"time"

	"github.com/MarcosBrindi/drone-inspector/internal/flight"
	"github.com/MarcosBrindi/drone-inspector/internal/logging"
)

// Runner invoca el loop de control una vez por timestep fijo, como lo haría
// la función de step del simulador anfitrión. La cancelación es externa
// (contexto): el core no tiene timeouts propios.
type Runner struct {
	platform   *Platform
	controller *flight.Controller
	timestep   float64 // Segundos de simulación por tick
	speed      float64 // Multiplicador de tiempo real (0 = sin pacing)

	mu      sync.RWMutex
	running bool

	done chan struct{}
}

// NewRunner crea el runner de simulación
func NewRunner(platform *Platform, controller *flight.Controller, timestep, speed float64) *Runner {
	return &Runner{
		platform:   platform,
		controller: controller,
		timestep:   timestep,
		speed:      speed,
		done:       make(chan struct{}),
	}
}

// Start inicia la simulación en su propia goroutine
func (r *Runner) Start(ctx context.Context) {
	r.mu.Lock()
	r.running = true
	r.mu.Unlock()

	go r.loop(ctx)

	logging.Info("✅ [Sim] Simulación iniciada",
		"timestep_ms", r.timestep*1000.0,
		"velocidad", r.speed)
}

// Stop detiene la simulación
func (r *Runner) Stop() {
	r.mu.Lock()
	wasRunning := r.running
	r.running = false
	r.mu.Unlock()

	if wasRunning {
		logging.Info("🛑 [Sim] Simulación detenida")
	}
}

// Done retorna un canal que se cierra cuando el vuelo termina (fase DONE)
// o el runner se detiene
func (r *Runner) Done() <-chan struct{} {
	return r.done
}

// isRunning verifica si está corriendo (thread-safe)
func (r *Runner) isRunning() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.running
}

// loop es el bucle principal: física → control, un tick por timestep
func (r *Runner) loop(ctx context.Context) {
	defer close(r.done)

	// Pacing opcional a tiempo real escalado
	var ticker *time.Ticker
	if r.speed > 0 {
		ticker = time.NewTicker(time.Duration(r.timestep / r.speed * float64(time.Second)))
		defer ticker.Stop()
	}

	for r.isRunning() {
		select {
		case <-ctx.Done():
			return
		default:
		}

		if ticker != nil {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}
		}

		r.platform.Step(r.timestep)

		finished, err := r.controller.Tick()
		if err != nil {
			// Plataforma no disponible: precondición fatal del loop
			logging.Error("❌ [Sim] Loop de control abortado", "error", err)
			return
		}
		if finished {
			logging.Info("🏁 [Sim] Vuelo completado",
				"tiempo_sim", r.platform.Time(),
				"capturas", r.controller.Captures())
			return
		}
	}
}
