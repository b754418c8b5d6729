package flight

// Disturbance son los términos de intención que la capa de navegación
// inyecta al estabilizador, distintos de sus propios términos correctivos.
// Los términos aditivos pasan sin clamp: es una decisión heredada del
// controlador de referencia y debe preservarse.
type Disturbance struct {
	Roll  float64
	Pitch float64
	Yaw   float64
}

// Stabilizer convierte disturbances + lecturas crudas en 4 velocidades de rotor.
// Es una función pura de sus entradas: no guarda estado interno.
type Stabilizer struct {
	gains Gains
}

// NewStabilizer crea un estabilizador con las ganancias dadas
func NewStabilizer(gains Gains) *Stabilizer {
	return &Stabilizer{gains: gains}
}

// Mix calcula las 4 velocidades de rotor para un tick.
// Configuración X estándar: dos rotores giran en sentido mecánico opuesto
// (comando negado) para producir torque neto de yaw por arrastre diferencial.
// Orden de salida: frontal izq, frontal der, trasero izq, trasero der.
func (s *Stabilizer) Mix(frame SensorFrame, targetAltitude float64, d Disturbance) [4]float64 {
	rollInput := s.gains.RollP*Clamp(frame.Roll, -1.0, 1.0) + frame.RollRate + d.Roll
	pitchInput := s.gains.PitchP*Clamp(frame.Pitch, -1.0, 1.0) + frame.PitchRate + d.Pitch

	// La autoridad de yaw viene enteramente de la capa de navegación:
	// no hay término independiente de yaw-rate
	yawInput := d.Yaw

	vertical := s.VerticalInput(targetAltitude, frame.Z)

	frontLeft := s.gains.VerticalThrust + vertical - rollInput + pitchInput - yawInput
	frontRight := s.gains.VerticalThrust + vertical + rollInput + pitchInput + yawInput
	rearLeft := s.gains.VerticalThrust + vertical - rollInput - pitchInput + yawInput
	rearRight := s.gains.VerticalThrust + vertical + rollInput - pitchInput - yawInput

	return [4]float64{frontLeft, -frontRight, -rearLeft, rearRight}
}

// VerticalInput calcula la respuesta vertical: curva cúbica, no lineal,
// para dar una respuesta suave cerca del equilibrio y fuerte lejos de él
func (s *Stabilizer) VerticalInput(targetAltitude, altitude float64) float64 {
	diff := Clamp(targetAltitude-altitude+s.gains.VerticalOffset, -1.0, 1.0)
	return s.gains.VerticalP * diff * diff * diff
}
