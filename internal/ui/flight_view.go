package ui

import (
	"fmt"
	"image/color"
	"math"
	"sync"

	"github.com/MarcosBrindi/drone-inspector/internal/config"
	"github.com/MarcosBrindi/drone-inspector/internal/eventbus"
	"github.com/MarcosBrindi/drone-inspector/internal/flight"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// maxTrailPoints acota el rastro del dron en pantalla
const maxTrailPoints = 4000

// FlightView muestra la vista cenital del vuelo de inspección
type FlightView struct {
	config *config.Config
	plan   flight.InspectionPlan

	// Rastro recorrido (coordenadas de mundo)
	mu    sync.RWMutex
	trail [][2]float64

	// Colores
	colorMap     color.Color
	colorTrail   color.Color
	colorDrone   color.Color
	colorHeading color.Color
	colorText    color.Color
	colorPanelBg color.Color
	colorBorder  color.Color
}

// NewFlightView crea la vista cenital
func NewFlightView(cfg *config.Config, plan flight.InspectionPlan) *FlightView {
	return &FlightView{
		config:       cfg,
		plan:         plan,
		trail:        make([][2]float64, 0, maxTrailPoints),
		colorMap:     color.RGBA{26, 26, 38, 255},
		colorTrail:   color.RGBA{100, 200, 255, 255},
		colorDrone:   color.RGBA{0, 200, 100, 255},
		colorHeading: color.RGBA{255, 200, 0, 255},
		colorText:    color.RGBA{255, 255, 255, 255},
		colorPanelBg: color.RGBA{30, 30, 40, 200},
		colorBorder:  color.RGBA{100, 100, 120, 255},
	}
}

// AddTrailPoint registra la posición actual del dron en el rastro
func (fv *FlightView) AddTrailPoint(x, y float64) {
	fv.mu.Lock()
	defer fv.mu.Unlock()

	if n := len(fv.trail); n > 0 {
		last := fv.trail[n-1]
		dx := x - last[0]
		dy := y - last[1]
		// Submuestreo: solo puntos separados al menos 10 cm
		if dx*dx+dy*dy < 0.01 {
			return
		}
	}

	fv.trail = append(fv.trail, [2]float64{x, y})
	if len(fv.trail) > maxTrailPoints {
		fv.trail = fv.trail[1:]
	}
}

// Draw dibuja el mapa de vuelo y los paneles de estado
func (fv *FlightView) Draw(screen *ebiten.Image, telemetry eventbus.TelemetryData) {
	width := float32(fv.config.UI.Window.Width)

	fv.drawMap(screen, telemetry)
	fv.drawAttitudePanel(screen, width-320, 20, telemetry)
	fv.drawNavigationPanel(screen, width-320, 180, telemetry)
}

// DrawWaiting dibuja el mensaje de espera previo al primer frame de datos
func (fv *FlightView) DrawWaiting(screen *ebiten.Image) {
	width := fv.config.UI.Window.Width
	height := fv.config.UI.Window.Height
	ebitenutil.DebugPrintAt(screen, "⏳ Esperando telemetría del dron...", width/2-120, height/2)
}

// drawMap dibuja la vista cenital: rastro, dron y rumbo
func (fv *FlightView) drawMap(screen *ebiten.Image, telemetry eventbus.TelemetryData) {
	// Área del mapa (lado izquierdo)
	mapX := float32(20)
	mapY := float32(20)
	mapW := float32(fv.config.UI.Window.Width) - 360
	mapH := float32(fv.config.UI.Window.Height) - 300

	vector.DrawFilledRect(screen, mapX, mapY, mapW, mapH, fv.colorMap, false)
	vector.StrokeRect(screen, mapX, mapY, mapW, mapH, 2, fv.colorBorder, false)

	title := fmt.Sprintf("🧭 VUELO DE INSPECCIÓN  (%.0fm × %.0fm × %.0fm)",
		fv.plan.Length, fv.plan.Breadth, fv.plan.Height)
	ebitenutil.DebugPrintAt(screen, title, int(mapX+10), int(mapY+10))

	fv.mu.RLock()
	trail := fv.trail
	fv.mu.RUnlock()

	// Encajar el recorrido en el área del mapa con margen
	minX, minY := telemetry.X, telemetry.Y
	maxX, maxY := telemetry.X, telemetry.Y
	for _, p := range trail {
		minX = math.Min(minX, p[0])
		minY = math.Min(minY, p[1])
		maxX = math.Max(maxX, p[0])
		maxY = math.Max(maxY, p[1])
	}
	spanX := math.Max(maxX-minX, fv.plan.Length)
	spanY := math.Max(maxY-minY, fv.plan.Breadth)
	margin := 4.0
	scale := math.Min(
		float64(mapW-60)/(spanX+2*margin),
		float64(mapH-80)/(spanY+2*margin),
	)

	// Mundo → pantalla (eje Y invertido)
	toScreen := func(wx, wy float64) (float32, float32) {
		sx := float64(mapX+30) + (wx-minX+margin)*scale
		sy := float64(mapY+mapH-40) - (wy-minY+margin)*scale
		return float32(sx), float32(sy)
	}

	// Rastro recorrido
	for i := 0; i+1 < len(trail); i++ {
		x1, y1 := toScreen(trail[i][0], trail[i][1])
		x2, y2 := toScreen(trail[i+1][0], trail[i+1][1])
		vector.StrokeLine(screen, x1, y1, x2, y2, 2, fv.colorTrail, false)
	}

	// Dron con indicador de rumbo
	droneX, droneY := toScreen(telemetry.X, telemetry.Y)
	vector.DrawFilledCircle(screen, droneX, droneY, 7, fv.colorDrone, false)

	headingLen := 18.0
	tipX := droneX + float32(headingLen*math.Cos(telemetry.Yaw))
	tipY := droneY - float32(headingLen*math.Sin(telemetry.Yaw))
	vector.StrokeLine(screen, droneX, droneY, tipX, tipY, 2, fv.colorHeading, false)

	ebitenutil.DebugPrintAt(screen, "🚁", int(droneX-8), int(droneY-25))

	// Posición y altitud actuales
	posText := fmt.Sprintf("Pos: (%.1f, %.1f) m | Altitud: %.2f m | t=%.1fs",
		telemetry.X, telemetry.Y, telemetry.Altitude, telemetry.SimTime)
	ebitenutil.DebugPrintAt(screen, posText, int(mapX+10), int(mapY+mapH-20))
}

// drawAttitudePanel dibuja panel de actitud y motores
func (fv *FlightView) drawAttitudePanel(screen *ebiten.Image, x, y float32, telemetry eventbus.TelemetryData) {
	vector.DrawFilledRect(screen, x, y, 300, 150, fv.colorPanelBg, false)
	vector.StrokeRect(screen, x, y, 300, 150, 2, fv.colorBorder, false)

	ebitenutil.DebugPrintAt(screen, "⚡ ACTITUD", int(x+10), int(y+10))

	yOffset := int(y + 35)
	ebitenutil.DebugPrintAt(screen, fmt.Sprintf("Roll:  %7.3f rad", telemetry.Roll), int(x+10), yOffset)
	yOffset += 20
	ebitenutil.DebugPrintAt(screen, fmt.Sprintf("Pitch: %7.3f rad", telemetry.Pitch), int(x+10), yOffset)
	yOffset += 20
	ebitenutil.DebugPrintAt(screen, fmt.Sprintf("Yaw:   %7.3f rad (%.1f°)",
		telemetry.Yaw, telemetry.Yaw*180/math.Pi), int(x+10), yOffset)
	yOffset += 20
	ebitenutil.DebugPrintAt(screen, fmt.Sprintf("Motores: %.1f %.1f %.1f %.1f",
		telemetry.Motors[0], telemetry.Motors[1], telemetry.Motors[2], telemetry.Motors[3]),
		int(x+10), yOffset)
}

// drawNavigationPanel dibuja panel de navegación y capturas
func (fv *FlightView) drawNavigationPanel(screen *ebiten.Image, x, y float32, telemetry eventbus.TelemetryData) {
	vector.DrawFilledRect(screen, x, y, 300, 150, fv.colorPanelBg, false)
	vector.StrokeRect(screen, x, y, 300, 150, 2, fv.colorBorder, false)

	ebitenutil.DebugPrintAt(screen, "🧭 NAVEGACIÓN", int(x+10), int(y+10))

	yOffset := int(y + 35)
	phaseEmoji := getPhaseEmoji(telemetry.Phase)
	ebitenutil.DebugPrintAt(screen, fmt.Sprintf("%s Fase: %s", phaseEmoji, telemetry.Phase), int(x+10), yOffset)
	yOffset += 20
	ebitenutil.DebugPrintAt(screen, fmt.Sprintf("Lado: %d/4", telemetry.SideIndex+1), int(x+10), yOffset)
	yOffset += 20
	ebitenutil.DebugPrintAt(screen, fmt.Sprintf("Rumbo objetivo: %.1f°",
		telemetry.TargetHeading*180/math.Pi), int(x+10), yOffset)
	yOffset += 20
	ebitenutil.DebugPrintAt(screen, fmt.Sprintf("Altitud objetivo: %.2f m", telemetry.TargetAltitude), int(x+10), yOffset)
	yOffset += 20
	ebitenutil.DebugPrintAt(screen, fmt.Sprintf("📸 Capturas: %d", telemetry.CapturesTotal), int(x+10), yOffset)
}

// getPhaseEmoji retorna emoji según la fase de vuelo
func getPhaseEmoji(phase string) string {
	switch phase {
	case "TAKEOFF":
		return "🚀"
	case "STABILIZE":
		return "⚖️"
	case "LAND":
		return "🛬"
	case "DONE":
		return "🏁"
	default:
		if len(phase) >= 5 && phase[:5] == "TURN_" {
			return "🔄"
		}
		return "🚁"
	}
}
