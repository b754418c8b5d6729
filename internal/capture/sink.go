package capture

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/MarcosBrindi/drone-inspector/internal/eventbus"
	"github.com/MarcosBrindi/drone-inspector/internal/logging"
)

// Sink persiste las capturas del controlador en el directorio observado por
// el pipeline de análisis. Consumidor fire-and-forget: el core no depende de
// que la escritura tenga éxito.
type Sink struct {
	bus       *eventbus.EventBus
	outputDir string

	mu      sync.RWMutex
	running bool
	saved   int
}

// NewSink crea el sink de capturas
func NewSink(bus *eventbus.EventBus, outputDir string) *Sink {
	return &Sink{
		bus:       bus,
		outputDir: outputDir,
	}
}

// Start crea el directorio de salida y arranca el consumidor
func (s *Sink) Start() error {
	if err := os.MkdirAll(s.outputDir, 0o755); err != nil {
		return fmt.Errorf("error creando directorio de capturas: %w", err)
	}

	s.mu.Lock()
	s.running = true
	s.mu.Unlock()

	captureEvents := s.bus.Subscribe(eventbus.EventCapture)
	go func() {
		for event := range captureEvents {
			if !s.isRunning() {
				continue
			}
			s.handleCapture(event)
		}
	}()

	logging.Info("✅ [Capture] Sink de capturas iniciado", "dir", s.outputDir)
	return nil
}

// Stop detiene el consumidor
func (s *Sink) Stop() {
	s.mu.Lock()
	s.running = false
	s.mu.Unlock()

	logging.Info("🛑 [Capture] Sink de capturas detenido", "guardadas", s.Saved())
}

// Saved retorna cuántas imágenes se escribieron
func (s *Sink) Saved() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.saved
}

// isRunning verifica si está corriendo (thread-safe)
func (s *Sink) isRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.running
}

// handleCapture escribe el frame a disco y publica el evento de guardado
func (s *Sink) handleCapture(event eventbus.Event) {
	data, ok := event.Data.(eventbus.CaptureData)
	if !ok {
		return
	}
	if len(data.Frame) == 0 {
		logging.Warn("⚠️  [Capture] Captura sin frame, se omite", "seq", data.Seq)
		return
	}

	filename := filepath.Join(s.outputDir, fmt.Sprintf("capture_%04d.jpg", data.Seq))
	if err := os.WriteFile(filename, data.Frame, 0o644); err != nil {
		logging.Error("❌ [Capture] Error escribiendo imagen",
			"archivo", filename, "error", err)
		return
	}

	s.mu.Lock()
	s.saved++
	s.mu.Unlock()

	logging.Info("💾 [Capture] Imagen guardada",
		"archivo", filename,
		"lado", data.Side+1,
		"distancia", fmt.Sprintf("%.1fm", data.Distance))

	s.bus.Publish(eventbus.Event{
		Type:      eventbus.EventCaptureSaved,
		Timestamp: time.Now(),
		Data: eventbus.CaptureSavedData{
			Seq:      data.Seq,
			Filename: filename,
		},
	})
}
