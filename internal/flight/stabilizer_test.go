package flight

import (
	"math"
	"testing"
)

func TestVerticalInput_Cubic(t *testing.T) {
	s := NewStabilizer(DefaultGains())

	// En la altitud objetivo la diferencia es solo el offset: 3.0 * 0.6³
	got := s.VerticalInput(4.0, 4.0)
	want := 3.0 * 0.6 * 0.6 * 0.6
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("VerticalInput en objetivo = %v, want %v", got, want)
	}
}

func TestVerticalInput_Saturation(t *testing.T) {
	s := NewStabilizer(DefaultGains())

	// Muy por debajo del objetivo: la diferencia se recorta a 1.0
	got := s.VerticalInput(4.0, 0.0)
	if math.Abs(got-3.0) > 1e-9 {
		t.Errorf("VerticalInput saturado = %v, want 3.0", got)
	}

	// Muy por encima: recorta a -1.0
	got = s.VerticalInput(4.0, 20.0)
	if math.Abs(got-(-3.0)) > 1e-9 {
		t.Errorf("VerticalInput saturado negativo = %v, want -3.0", got)
	}
}

func TestVerticalInput_Monotonic(t *testing.T) {
	s := NewStabilizer(DefaultGains())

	// Más lejos por debajo del objetivo ⇒ más empuje, sin cruces
	prev := math.Inf(-1)
	for alt := 5.0; alt >= 0.0; alt -= 0.25 {
		v := s.VerticalInput(4.0, alt)
		if v < prev {
			t.Fatalf("VerticalInput no monotónico en alt=%v: %v < %v", alt, v, prev)
		}
		prev = v
	}
}

func TestMix_EquilibriumSigns(t *testing.T) {
	s := NewStabilizer(DefaultGains())

	// Actitud nivelada sin disturbances: los cuatro rotores reciben la misma
	// magnitud, con el signo mecánico alternado del esquema en X
	frame := SensorFrame{Z: 4.0}
	motors := s.Mix(frame, 4.0, Disturbance{})

	base := 68.5 + s.VerticalInput(4.0, 4.0)
	want := [4]float64{base, -base, -base, base}
	for i := range motors {
		if math.Abs(motors[i]-want[i]) > 1e-9 {
			t.Errorf("motors[%d] = %v, want %v", i, motors[i], want[i])
		}
	}
}

func TestMix_YawDisturbance(t *testing.T) {
	s := NewStabilizer(DefaultGains())
	frame := SensorFrame{Z: 4.0}

	neutral := s.Mix(frame, 4.0, Disturbance{})
	yawed := s.Mix(frame, 4.0, Disturbance{Yaw: 1.0})

	// Yaw positivo: -1 a frontal izq, +1 a frontal der, +1 a trasero izq,
	// -1 a trasero der (antes de aplicar el signo mecánico)
	deltas := [4]float64{
		yawed[0] - neutral[0],
		-(yawed[1] - neutral[1]),
		-(yawed[2] - neutral[2]),
		yawed[3] - neutral[3],
	}
	want := [4]float64{-1, 1, 1, -1}
	for i := range deltas {
		if math.Abs(deltas[i]-want[i]) > 1e-9 {
			t.Errorf("delta de yaw en rotor %d = %v, want %v", i, deltas[i], want[i])
		}
	}
}

func TestMix_RollDisturbancePassthrough(t *testing.T) {
	s := NewStabilizer(DefaultGains())
	frame := SensorFrame{Z: 4.0}

	// El disturbance de roll es aditivo y sin clamp: 5.0 pasa entero
	neutral := s.Mix(frame, 4.0, Disturbance{})
	rolled := s.Mix(frame, 4.0, Disturbance{Roll: 5.0})

	if math.Abs((rolled[0]-neutral[0])-(-5.0)) > 1e-9 {
		t.Errorf("delta frontal izq = %v, want -5.0", rolled[0]-neutral[0])
	}
	if math.Abs(-(rolled[1]-neutral[1])-5.0) > 1e-9 {
		t.Errorf("delta frontal der = %v, want 5.0", -(rolled[1] - neutral[1]))
	}
}

func TestMix_AttitudeFeedbackClamped(t *testing.T) {
	s := NewStabilizer(DefaultGains())

	// El término proporcional de roll se satura a ±1 rad aunque el sensor
	// reporte más; la velocidad angular se suma sin recortar
	extreme := s.Mix(SensorFrame{Roll: 2.0, Z: 4.0}, 4.0, Disturbance{})
	capped := s.Mix(SensorFrame{Roll: 1.0, Z: 4.0}, 4.0, Disturbance{})

	for i := range extreme {
		if math.Abs(extreme[i]-capped[i]) > 1e-9 {
			t.Errorf("rotor %d: roll=2.0 produce %v, roll=1.0 produce %v (debían ser iguales)",
				i, extreme[i], capped[i])
		}
	}
}
