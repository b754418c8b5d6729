package sim

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
)

// Dimensiones del frame sintético
const (
	frameWidth  = 64
	frameHeight = 48
)

// Camera genera frames JPEG sintéticos de la fachada.
// No hay render real: el contenido es un gradiente que varía con la posición
// del dron, suficiente para ejercitar el pipeline de capturas y análisis.
type Camera struct {
	quality int
}

// NewCamera crea la cámara sintética con la calidad JPEG dada
func NewCamera(quality int) *Camera {
	if quality <= 0 || quality > 100 {
		quality = 80
	}
	return &Camera{quality: quality}
}

// Render genera el frame JPEG para la posición actual del dron
func (c *Camera) Render(x, y, z float64) ([]byte, error) {
	img := image.NewRGBA(image.Rect(0, 0, frameWidth, frameHeight))

	// Tono base dependiente de la posición, para que cada captura difiera
	baseR := uint8(100 + int(x*7)%80)
	baseG := uint8(100 + int(y*7)%80)
	baseB := uint8(90 + int(z*11)%60)

	for py := 0; py < frameHeight; py++ {
		for px := 0; px < frameWidth; px++ {
			// Gradiente vertical simple: más oscuro hacia abajo
			shade := uint8(py * 2)
			img.SetRGBA(px, py, color.RGBA{
				R: baseR - shade/2,
				G: baseG - shade/2,
				B: baseB - shade/3,
				A: 255,
			})
		}
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: c.quality}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
