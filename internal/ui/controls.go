package ui

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// Controls es la barra de estado inferior de la ventana
type Controls struct {
	deviceID string

	// Colores
	colorBg     color.Color
	colorBorder color.Color
}

// NewControls crea la barra de estado
func NewControls(deviceID string) *Controls {
	return &Controls{
		deviceID:    deviceID,
		colorBg:     color.RGBA{30, 30, 40, 200},
		colorBorder: color.RGBA{100, 100, 120, 255},
	}
}

// Update actualiza los controles
func (c *Controls) Update() {
	// Sin controles interactivos: el vuelo es autónomo de inicio a fin
}

// Draw dibuja la barra de estado
func (c *Controls) Draw(screen *ebiten.Image) {
	width := float32(screen.Bounds().Dx())
	height := float32(screen.Bounds().Dy())

	// Panel inferior
	panelY := height - 60
	vector.DrawFilledRect(screen, 0, panelY, width, 60, c.colorBg, false)
	vector.StrokeLine(screen, 0, panelY, width, panelY, 2, c.colorBorder, false)

	status := fmt.Sprintf("🚁 %s | FPS: %.0f | Cerrar la ventana termina la misión",
		c.deviceID, ebiten.ActualFPS())
	ebitenutil.DebugPrintAt(screen, status, 20, int(panelY+20))
}
