package flight

// Gains agrupa las constantes de calibración del estabilizador.
// Son constantes de calibración fijas (del controlador oficial del Mavic 2 Pro),
// no parámetros ajustables en runtime.
type Gains struct {
	VerticalThrust float64 // Empuje base para sostener el dron
	VerticalOffset float64 // Offset vertical del punto de equilibrio
	VerticalP      float64 // Ganancia proporcional vertical
	RollP          float64 // Ganancia proporcional de roll
	PitchP         float64 // Ganancia proporcional de pitch
}

// DefaultGains retorna las ganancias de calibración por defecto
func DefaultGains() Gains {
	return Gains{
		VerticalThrust: 68.5,
		VerticalOffset: 0.6,
		VerticalP:      3.0,
		RollP:          50.0,
		PitchP:         30.0,
	}
}

// Constantes de navegación (ver Navigator)
const (
	// StrafeSpeed es la magnitud del disturbance de roll para el strafe lateral
	StrafeSpeed = 1.0

	// AngleTolerance es el error angular (rad) para dar un giro por terminado (~3°)
	AngleTolerance = 0.05

	// StabilizeTime son los segundos de hover tras el despegue antes de iniciar el recorrido
	StabilizeTime = 3.0

	// ForwardCorrection empuja el dron hacia atrás cuando deriva hacia el edificio
	// durante el strafe (pitch positivo = moverse hacia atrás)
	ForwardCorrection = 3.0

	// YawCorrection es la ganancia del heading-hold sobre el error de yaw normalizado
	YawCorrection = 2.0

	// CameraTilt inclina la cámara hacia abajo para capturar la pared completa
	// (0.3 rad ≈ 17°)
	CameraTilt = 0.3

	// TakeoffMargin: el despegue termina al superar (altitud objetivo - margen)
	TakeoffMargin = 0.3

	// DescentStep es cuánto baja el objetivo de altitud por tick durante el aterrizaje
	DescentStep = 0.005

	// LandedAltitude: por debajo de esta altitud el aterrizaje se considera completo
	LandedAltitude = 0.3

	// GimbalRollRate y GimbalPitchRate estabilizan el gimbal contra las
	// velocidades angulares medidas
	GimbalRollRate  = -0.115
	GimbalPitchRate = -0.1
)
