package ui

import (
	"fmt"
	"image/color"
	"sync"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// AltitudeGraph muestra una gráfica de altitud en tiempo real
type AltitudeGraph struct {
	mu sync.RWMutex

	x      float32
	y      float32
	width  float32
	height float32

	maxPoints       int
	altitudeHistory []float32
	maxAltitude     float32

	// Colores
	colorBg     color.RGBA
	colorBorder color.RGBA
	colorLine   color.RGBA
	colorTarget color.RGBA
	colorGrid   color.RGBA
}

// NewAltitudeGraph crea una nueva gráfica de altitud. maxAltitude debería
// ser la altura del edificio para que la línea de crucero quede centrada.
func NewAltitudeGraph(x, y, width, height float32, maxPoints int, maxAltitude float32) *AltitudeGraph {
	if maxAltitude <= 0 {
		maxAltitude = 10.0
	}
	return &AltitudeGraph{
		x:               x,
		y:               y,
		width:           width,
		height:          height,
		maxPoints:       maxPoints,
		altitudeHistory: make([]float32, 0, maxPoints),
		maxAltitude:     maxAltitude,
		colorBg:         color.RGBA{30, 30, 40, 255},
		colorBorder:     color.RGBA{80, 80, 100, 255},
		colorLine:       color.RGBA{100, 200, 255, 255},
		colorTarget:     color.RGBA{255, 200, 0, 255},
		colorGrid:       color.RGBA{50, 50, 60, 255},
	}
}

// AddAltitude agrega un punto de altitud
func (ag *AltitudeGraph) AddAltitude(altitude float32) {
	ag.mu.Lock()
	defer ag.mu.Unlock()

	ag.altitudeHistory = append(ag.altitudeHistory, altitude)

	// Mantener solo los últimos maxPoints
	if len(ag.altitudeHistory) > ag.maxPoints {
		ag.altitudeHistory = ag.altitudeHistory[1:]
	}
}

// Clear limpia la gráfica
func (ag *AltitudeGraph) Clear() {
	ag.mu.Lock()
	defer ag.mu.Unlock()

	ag.altitudeHistory = make([]float32, 0, ag.maxPoints)
}

// Draw dibuja la gráfica
func (ag *AltitudeGraph) Draw(screen *ebiten.Image) {
	ag.mu.RLock()
	defer ag.mu.RUnlock()

	// Fondo
	vector.DrawFilledRect(screen, ag.x, ag.y, ag.width, ag.height, ag.colorBg, false)
	vector.StrokeRect(screen, ag.x, ag.y, ag.width, ag.height, 2, ag.colorBorder, false)

	// Título
	ebitenutil.DebugPrintAt(screen, "📈 ALTITUD (m)", int(ag.x+10), int(ag.y+5))

	graphY := ag.y + 25
	graphHeight := ag.height - 30

	// Grid horizontal (cuartos de la altura máxima)
	step := float64(ag.maxAltitude) / 4.0
	for alt := 0.0; alt <= float64(ag.maxAltitude)+1e-9; alt += step {
		ratio := float32(alt) / ag.maxAltitude
		lineY := graphY + graphHeight*(1-ratio)

		vector.StrokeLine(screen, ag.x, lineY, ag.x+ag.width, lineY, 1, ag.colorGrid, false)
		ebitenutil.DebugPrintAt(screen, fmt.Sprintf("%.0f", alt), int(ag.x+5), int(lineY-5))
	}

	// Línea de altitud de crucero (mitad de la altura del edificio)
	cruiseY := graphY + graphHeight*0.5
	vector.StrokeLine(screen, ag.x, cruiseY, ag.x+ag.width, cruiseY, 1, ag.colorTarget, false)

	// Curva de altitud
	if len(ag.altitudeHistory) < 2 {
		return
	}

	graphWidth := ag.width - 40
	pointSpacing := graphWidth / float32(ag.maxPoints-1)

	for i := 0; i < len(ag.altitudeHistory)-1; i++ {
		x1 := ag.x + 35 + float32(i)*pointSpacing
		ratio1 := ag.altitudeHistory[i] / ag.maxAltitude
		if ratio1 > 1.0 {
			ratio1 = 1.0
		}
		y1 := graphY + graphHeight*(1-ratio1)

		x2 := ag.x + 35 + float32(i+1)*pointSpacing
		ratio2 := ag.altitudeHistory[i+1] / ag.maxAltitude
		if ratio2 > 1.0 {
			ratio2 = 1.0
		}
		y2 := graphY + graphHeight*(1-ratio2)

		vector.StrokeLine(screen, x1, y1, x2, y2, 2, ag.colorLine, false)
	}

	// Altitud actual
	current := ag.altitudeHistory[len(ag.altitudeHistory)-1]
	ebitenutil.DebugPrintAt(screen, fmt.Sprintf("Actual: %.2f m", current),
		int(ag.x+ag.width-120), int(ag.y+5))
}
