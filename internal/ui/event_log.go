package ui

import (
	"image/color"
	"sync"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// LogEvent representa un evento en el log
type LogEvent struct {
	Timestamp time.Time
	Message   string
	Type      string // "info", "success", "warning", "error"
}

// EventLog gestiona el log de eventos de la misión en pantalla:
// cambios de fase, capturas y reportes de análisis
type EventLog struct {
	mu        sync.RWMutex
	events    []LogEvent
	maxEvents int

	// Colores
	colorBg      color.RGBA
	colorBorder  color.RGBA
	colorSuccess color.RGBA
	colorWarning color.RGBA
	colorError   color.RGBA
}

// NewEventLog crea un nuevo log de eventos
func NewEventLog(maxEvents int) *EventLog {
	return &EventLog{
		events:       make([]LogEvent, 0, maxEvents),
		maxEvents:    maxEvents,
		colorBg:      color.RGBA{30, 30, 40, 255},
		colorBorder:  color.RGBA{80, 80, 100, 255},
		colorSuccess: color.RGBA{100, 255, 100, 255},
		colorWarning: color.RGBA{255, 200, 100, 255},
		colorError:   color.RGBA{255, 100, 100, 255},
	}
}

// Add agrega un evento al log
func (el *EventLog) Add(message string, eventType string) {
	el.mu.Lock()
	defer el.mu.Unlock()

	event := LogEvent{
		Timestamp: time.Now(),
		Message:   message,
		Type:      eventType,
	}

	// Agregar al inicio
	el.events = append([]LogEvent{event}, el.events...)

	// Mantener solo los últimos maxEvents
	if len(el.events) > el.maxEvents {
		el.events = el.events[:el.maxEvents]
	}
}

// Draw dibuja el log en pantalla
func (el *EventLog) Draw(screen *ebiten.Image, x, y, width, height float32) {
	// Fondo del panel
	vector.DrawFilledRect(screen, x, y, width, height, el.colorBg, false)
	vector.StrokeRect(screen, x, y, width, height, 2, el.colorBorder, false)

	// Título
	ebitenutil.DebugPrintAt(screen, "📋 EVENTOS DE MISIÓN", int(x+10), int(y+10))

	el.mu.RLock()
	defer el.mu.RUnlock()

	yOffset := int(y + 35)
	lineHeight := 18
	maxVisible := int((height - 45) / float32(lineHeight))

	for i, event := range el.events {
		if i >= maxVisible {
			break
		}

		marker := markerFor(event.Type)
		line := event.Timestamp.Format("15:04:05") + " " + marker + " " + event.Message
		if len(line) > 48 {
			line = line[:45] + "..."
		}

		ebitenutil.DebugPrintAt(screen, line, int(x+10), yOffset)
		yOffset += lineHeight
	}

	// Si no hay eventos
	if len(el.events) == 0 {
		ebitenutil.DebugPrintAt(screen, "Sin eventos recientes", int(x+10), int(y+35))
	}
}

// markerFor mapea el tipo de evento a su marcador visual
func markerFor(eventType string) string {
	switch eventType {
	case "success":
		return "✅"
	case "warning":
		return "⚠️"
	case "error":
		return "❌"
	default:
		return "•"
	}
}

// Clear limpia todos los eventos
func (el *EventLog) Clear() {
	el.mu.Lock()
	defer el.mu.Unlock()
	el.events = make([]LogEvent, 0, el.maxEvents)
}
