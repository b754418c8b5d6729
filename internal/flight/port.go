package flight

// SensorFrame es la lectura completa de sensores en un tick
type SensorFrame struct {
	Time float64 // Tiempo de simulación en segundos

	// Actitud (radianes)
	Roll  float64
	Pitch float64
	Yaw   float64

	// Velocidades angulares (rad/s)
	RollRate  float64
	PitchRate float64

	// Posición absoluta (metros)
	X float64
	Y float64
	Z float64
}

// Platform es el puerto hacia la plataforma del vehículo (sensores + actuadores).
// La fuente de sensores es confiable: no se valida ninguna lectura.
// Las escrituras son fire-and-forget, sin acknowledgement.
type Platform interface {
	// Read lee actitud, velocidades angulares y posición
	Read() (SensorFrame, error)

	// WriteMotors escribe las 4 velocidades de rotor (rad/s, con signo).
	// Orden: frontal izquierdo, frontal derecho, trasero izquierdo, trasero derecho.
	WriteMotors(motors [4]float64)

	// WriteGimbal escribe las posiciones objetivo de las 2 articulaciones del gimbal
	WriteGimbal(roll, pitch float64)

	// Frame retorna el frame actual de la cámara codificado como JPEG
	Frame() ([]byte, error)
}
