package flight

import "math"

// Clamp limita un valor al rango [low, high]
func Clamp(value, low, high float64) float64 {
	if value < low {
		return low
	}
	if value > high {
		return high
	}
	return value
}

// NormalizeAngle normaliza un ángulo al rango (-π, π]
// Evita discontinuidades cuando el rumbo da la vuelta completa
func NormalizeAngle(angle float64) float64 {
	for angle > math.Pi {
		angle -= 2 * math.Pi
	}
	for angle <= -math.Pi {
		angle += 2 * math.Pi
	}
	return angle
}

// DecomposeDisplacement descompone un desplazamiento 2D absoluto (dx, dy)
// en componentes adelante/derecha relativas al rumbo del dron.
//
// heading: ángulo de yaw en radianes (0 = +X, positivo antihorario)
// Retorna (forward, right):
//   - forward > 0: el dron derivó hacia donde apunta la cámara
//   - right > 0: el dron se movió a su derecha (dirección de strafe)
//
// Vector unitario adelante: (cos h, sin h)
// Vector unitario derecha:  (sin h, -cos h)
func DecomposeDisplacement(dx, dy, heading float64) (forward, right float64) {
	cosH := math.Cos(heading)
	sinH := math.Sin(heading)

	forward = dx*cosH + dy*sinH
	right = dx*sinH - dy*cosH

	return forward, right
}
