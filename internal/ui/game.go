package ui

import (
	"fmt"
	"image/color"
	"sync"

	"github.com/MarcosBrindi/drone-inspector/internal/config"
	"github.com/MarcosBrindi/drone-inspector/internal/eventbus"
	"github.com/MarcosBrindi/drone-inspector/internal/flight"
	"github.com/hajimehoshi/ebiten/v2"
)

// Game es la estructura principal de Ebiten
type Game struct {
	bus    *eventbus.EventBus
	config *config.Config
	plan   flight.InspectionPlan

	// Componentes UI
	flightView    *FlightView
	altitudeGraph *AltitudeGraph
	eventLog      *EventLog
	controls      *Controls

	// Estado actual (thread-safe)
	mu        sync.RWMutex
	telemetry eventbus.TelemetryData
	hasData   bool
	running   bool

	// Channels de suscripción
	telemetryEvents chan eventbus.Event
	phaseEvents     chan eventbus.Event
	captureEvents   chan eventbus.Event
	analysisEvents  chan eventbus.Event
}

// NewGame crea una nueva instancia del juego
func NewGame(bus *eventbus.EventBus, cfg *config.Config, plan flight.InspectionPlan) *Game {
	game := &Game{
		bus:             bus,
		config:          cfg,
		plan:            plan,
		telemetryEvents: make(chan eventbus.Event, 10),
		phaseEvents:     make(chan eventbus.Event, 10),
		captureEvents:   make(chan eventbus.Event, 10),
		analysisEvents:  make(chan eventbus.Event, 10),
		running:         true,
		hasData:         false,
	}

	// Crear componentes UI
	width := float32(cfg.UI.Window.Width)
	height := float32(cfg.UI.Window.Height)
	game.flightView = NewFlightView(cfg, plan)
	game.altitudeGraph = NewAltitudeGraph(width-320, height-260, 300, 180, 240, float32(plan.Height))
	game.eventLog = NewEventLog(30)
	game.controls = NewControls(cfg.DeviceID)

	// Suscribirse a eventos
	game.subscribeToEvents()

	return game
}

// isRunning verifica si el juego está corriendo (thread-safe)
func (g *Game) isRunning() bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.running
}

// subscribeToEvents suscribe a eventos del bus
func (g *Game) subscribeToEvents() {
	// Telemetría
	telemetryChannel := g.bus.Subscribe(eventbus.EventTelemetry)
	go func() {
		for event := range telemetryChannel {
			if g.isRunning() {
				select {
				case g.telemetryEvents <- event:
				default:
				}
			}
		}
	}()

	// Fases de vuelo
	phaseChannel := g.bus.Subscribe(eventbus.EventPhase)
	go func() {
		for event := range phaseChannel {
			if g.isRunning() {
				select {
				case g.phaseEvents <- event:
				default:
				}
			}
		}
	}()

	// Capturas guardadas
	captureChannel := g.bus.Subscribe(eventbus.EventCaptureSaved)
	go func() {
		for event := range captureChannel {
			if g.isRunning() {
				select {
				case g.captureEvents <- event:
				default:
				}
			}
		}
	}()

	// Reportes de análisis
	analysisChannel := g.bus.Subscribe(eventbus.EventAnalysis)
	go func() {
		for event := range analysisChannel {
			if g.isRunning() {
				select {
				case g.analysisEvents <- event:
				default:
				}
			}
		}
	}()
}

// Update actualiza la lógica del juego (llamado por Ebiten a 60 FPS)
func (g *Game) Update() error {
	// Procesar eventos del Event Bus (non-blocking). La telemetría llega
	// muchas veces por frame: se drena el canal y gana el último estado.
	for {
		select {
		case event := <-g.telemetryEvents:
			g.handleTelemetryEvent(event)
			continue
		default:
		}
		break
	}

	select {
	case event := <-g.phaseEvents:
		g.handlePhaseEvent(event)
	default:
	}

	select {
	case event := <-g.captureEvents:
		g.handleCaptureEvent(event)
	default:
	}

	select {
	case event := <-g.analysisEvents:
		g.handleAnalysisEvent(event)
	default:
	}

	// Actualizar componentes UI
	g.controls.Update()

	return nil
}

// Draw dibuja el juego (llamado por Ebiten a 60 FPS)
func (g *Game) Draw(screen *ebiten.Image) {
	// Fondo
	screen.Fill(color.RGBA{20, 20, 30, 255}) // Fondo oscuro

	g.mu.RLock()
	hasData := g.hasData
	telemetry := g.telemetry
	g.mu.RUnlock()

	if !hasData {
		g.flightView.DrawWaiting(screen)
		g.controls.Draw(screen)
		return
	}

	// Vista cenital del vuelo con paneles de estado
	g.flightView.Draw(screen, telemetry)

	// Gráfica de altitud y log de eventos
	g.altitudeGraph.Draw(screen)
	height := float32(g.config.UI.Window.Height)
	g.eventLog.Draw(screen, 20, height-260, 360, 180)

	// Barra de controles (parte inferior)
	g.controls.Draw(screen)
}

// Layout define el tamaño de la ventana
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.config.UI.Window.Width, g.config.UI.Window.Height
}

// handleTelemetryEvent procesa telemetría de vuelo
func (g *Game) handleTelemetryEvent(event eventbus.Event) {
	data := event.Data.(eventbus.TelemetryData)

	g.mu.Lock()
	g.telemetry = data
	g.hasData = true
	g.mu.Unlock()

	g.flightView.AddTrailPoint(data.X, data.Y)
	g.altitudeGraph.AddAltitude(float32(data.Altitude))
}

// handlePhaseEvent procesa cambios de fase
func (g *Game) handlePhaseEvent(event eventbus.Event) {
	data := event.Data.(eventbus.PhaseData)
	g.eventLog.Add(fmt.Sprintf("Fase: %s (%.1fs)", data.Phase, data.SimTime), "info")
}

// handleCaptureEvent procesa capturas guardadas
func (g *Game) handleCaptureEvent(event eventbus.Event) {
	data := event.Data.(eventbus.CaptureSavedData)
	g.eventLog.Add(fmt.Sprintf("Captura #%d guardada", data.Seq), "success")
}

// handleAnalysisEvent procesa reportes de análisis
func (g *Game) handleAnalysisEvent(event eventbus.Event) {
	data := event.Data.(eventbus.AnalysisData)

	eventType := "info"
	switch data.RiskLevel {
	case "High", "Critical":
		eventType = "error"
	case "Medium":
		eventType = "warning"
	}

	g.eventLog.Add(fmt.Sprintf("Análisis %s: riesgo %s (%d defectos)",
		data.ImageName, data.RiskLevel, data.DefectCount), eventType)
}

// Stop detiene el juego
func (g *Game) Stop() {
	g.mu.Lock()
	g.running = false
	g.mu.Unlock()

	fmt.Println("🛑 [UI] Vista detenida")
}
