package sim

import (
	"bytes"
	"image/jpeg"
	"math"
	"testing"

	"github.com/MarcosBrindi/drone-inspector/internal/flight"
)

func TestPlatform_HoverCommandIsStationary(t *testing.T) {
	gains := flight.DefaultGains()
	p := NewPlatform(gains, 80)

	// Elevar el dron manualmente al punto de operación
	p.z = 4.0

	// Comando de hover exacto: empuje de equilibrio, sin roll/pitch/yaw
	stabilizer := flight.NewStabilizer(gains)
	frame, _ := p.Read()
	motors := stabilizer.Mix(frame, 4.0, flight.Disturbance{})
	p.WriteMotors(motors)

	before, _ := p.Read()
	for i := 0; i < 100; i++ {
		p.Step(0.008)
	}
	after, _ := p.Read()

	if math.Abs(after.Z-before.Z) > 1e-6 {
		t.Errorf("hover derivó en altitud: %v → %v", before.Z, after.Z)
	}
	if math.Abs(after.X-before.X) > 1e-6 || math.Abs(after.Y-before.Y) > 1e-6 {
		t.Errorf("hover derivó en posición: (%v,%v) → (%v,%v)",
			before.X, before.Y, after.X, after.Y)
	}
	if math.Abs(after.Yaw-before.Yaw) > 1e-9 {
		t.Errorf("hover derivó en yaw: %v → %v", before.Yaw, after.Yaw)
	}
}

func TestPlatform_RecoversNavigationInputs(t *testing.T) {
	gains := flight.DefaultGains()
	p := NewPlatform(gains, 80)
	p.z = 4.0
	p.yaw = 0

	// Strafe puro: el disturbance de roll -1 debe mover el dron a su derecha
	// (-Y con rumbo 0) a 1 m/s, sin tocar altitud ni yaw
	stabilizer := flight.NewStabilizer(gains)
	frame, _ := p.Read()
	motors := stabilizer.Mix(frame, 4.0, flight.Disturbance{Roll: -1.0})
	p.WriteMotors(motors)

	for i := 0; i < 1000; i++ {
		p.Step(0.001)
	}

	after, _ := p.Read()
	if math.Abs(after.Y-(-1.0)) > 1e-6 {
		t.Errorf("Y tras 1s de strafe = %v, want -1.0", after.Y)
	}
	if math.Abs(after.X) > 1e-6 {
		t.Errorf("X tras strafe puro = %v, want 0", after.X)
	}
	if math.Abs(after.Z-4.0) > 1e-6 {
		t.Errorf("Z tras strafe puro = %v, want 4.0 (canales desacoplados)", after.Z)
	}
	if math.Abs(after.Yaw) > 1e-9 {
		t.Errorf("yaw tras strafe puro = %v, want 0", after.Yaw)
	}
}

func TestPlatform_YawInputRotates(t *testing.T) {
	gains := flight.DefaultGains()
	p := NewPlatform(gains, 80)
	p.z = 4.0

	stabilizer := flight.NewStabilizer(gains)
	frame, _ := p.Read()
	motors := stabilizer.Mix(frame, 4.0, flight.Disturbance{Yaw: 0.5})
	p.WriteMotors(motors)

	// 2 segundos a 0.5 rad/s → 1 rad
	for i := 0; i < 2000; i++ {
		p.Step(0.001)
	}

	after, _ := p.Read()
	if math.Abs(after.Yaw-1.0) > 1e-6 {
		t.Errorf("yaw = %v, want 1.0", after.Yaw)
	}
}

func TestPlatform_FloorClamp(t *testing.T) {
	p := NewPlatform(flight.DefaultGains(), 80)

	// Motores apagados: el empuje recuperado es cero y el dron "cae",
	// pero el suelo lo detiene en z=0
	p.WriteMotors([4]float64{})
	for i := 0; i < 100; i++ {
		p.Step(0.008)
	}

	frame, _ := p.Read()
	if frame.Z != 0 {
		t.Errorf("Z con motores apagados = %v, want 0", frame.Z)
	}
}

func TestPlatform_FrameIsValidJPEG(t *testing.T) {
	p := NewPlatform(flight.DefaultGains(), 80)
	p.x, p.y, p.z = 3.0, -5.0, 4.0

	data, err := p.Frame()
	if err != nil {
		t.Fatalf("Frame: %v", err)
	}

	img, err := jpeg.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("el frame no es JPEG válido: %v", err)
	}
	bounds := img.Bounds()
	if bounds.Dx() != frameWidth || bounds.Dy() != frameHeight {
		t.Errorf("dimensiones = %dx%d, want %dx%d",
			bounds.Dx(), bounds.Dy(), frameWidth, frameHeight)
	}
}

func TestPlatform_FramesVaryWithPosition(t *testing.T) {
	p := NewPlatform(flight.DefaultGains(), 80)

	p.x, p.y, p.z = 0, 0, 4.0
	first, err := p.Frame()
	if err != nil {
		t.Fatalf("Frame: %v", err)
	}

	p.x, p.y = 10.0, -10.0
	second, err := p.Frame()
	if err != nil {
		t.Fatalf("Frame: %v", err)
	}

	if bytes.Equal(first, second) {
		t.Error("frames idénticos en posiciones distintas")
	}
}
