package flight

import (
	"errors"
	"math"
	"testing"
)

// mockPlatform guarda lo último escrito y entrega frames programados
type mockPlatform struct {
	frames     []SensorFrame
	frameIndex int
	readErr    error

	motors      [][4]float64
	gimbalRoll  float64
	gimbalPitch float64
	frameCalls  int
}

func (m *mockPlatform) Read() (SensorFrame, error) {
	if m.readErr != nil {
		return SensorFrame{}, m.readErr
	}
	frame := m.frames[m.frameIndex]
	if m.frameIndex < len(m.frames)-1 {
		m.frameIndex++
	}
	return frame, nil
}

func (m *mockPlatform) WriteMotors(motors [4]float64) {
	m.motors = append(m.motors, motors)
}

func (m *mockPlatform) WriteGimbal(roll, pitch float64) {
	m.gimbalRoll = roll
	m.gimbalPitch = pitch
}

func (m *mockPlatform) Frame() ([]byte, error) {
	m.frameCalls++
	return []byte{0xFF, 0xD8}, nil
}

func TestController_ReadErrorIsFatal(t *testing.T) {
	platform := &mockPlatform{readErr: errors.New("sensores desconectados")}
	c := NewController(platform, NewInspectionPlan(20, 10, 8), nil)

	done, err := c.Tick()
	if err == nil {
		t.Fatal("Tick sin error, want error fatal de plataforma")
	}
	if done {
		t.Fatal("done = true con error de lectura")
	}
}

func TestController_WarmupWritesZeroMotors(t *testing.T) {
	platform := &mockPlatform{frames: []SensorFrame{{Time: 0.5, Z: 0}}}
	c := NewController(platform, NewInspectionPlan(20, 10, 8), nil)

	done, err := c.Tick()
	if err != nil {
		t.Fatalf("Tick: %v", err)
	}
	if done {
		t.Fatal("done durante warmup")
	}

	if len(platform.motors) != 1 {
		t.Fatalf("escrituras de motor = %d, want 1", len(platform.motors))
	}
	if platform.motors[0] != [4]float64{} {
		t.Fatalf("motores en warmup = %v, want ceros", platform.motors[0])
	}
}

func TestController_GimbalStabilization(t *testing.T) {
	platform := &mockPlatform{frames: []SensorFrame{
		{Time: 1.5, Z: 1.0, RollRate: 2.0, PitchRate: 1.0},
	}}
	c := NewController(platform, NewInspectionPlan(20, 10, 8), nil)

	if _, err := c.Tick(); err != nil {
		t.Fatalf("Tick: %v", err)
	}

	wantRoll := GimbalRollRate * 2.0
	wantPitch := GimbalPitchRate*1.0 + CameraTilt
	if math.Abs(platform.gimbalRoll-wantRoll) > 1e-9 {
		t.Errorf("gimbal roll = %v, want %v", platform.gimbalRoll, wantRoll)
	}
	if math.Abs(platform.gimbalPitch-wantPitch) > 1e-9 {
		t.Errorf("gimbal pitch = %v, want %v", platform.gimbalPitch, wantPitch)
	}
}

func TestController_DoneCutsMotors(t *testing.T) {
	platform := &mockPlatform{frames: []SensorFrame{
		{Time: 2.0, Z: 0.1},
	}}
	c := NewController(platform, NewInspectionPlan(20, 10, 8), nil)

	// Forzar la fase terminal del navegador
	c.navigator.state.Phase = PhaseLand
	c.navigator.state.LandTarget = 0
	c.navigator.calibrated = true

	done, err := c.Tick()
	if err != nil {
		t.Fatalf("Tick: %v", err)
	}
	if !done {
		t.Fatal("done = false, want true tras aterrizar")
	}

	last := platform.motors[len(platform.motors)-1]
	if last != [4]float64{} {
		t.Fatalf("motores finales = %v, want ceros", last)
	}

	// Los ticks posteriores son no-ops que siguen reportando done
	done, err = c.Tick()
	if err != nil || !done {
		t.Fatalf("Tick tras DONE: done=%v err=%v, want true/nil", done, err)
	}
}

func TestController_CaptureReadsCameraFrame(t *testing.T) {
	platform := &mockPlatform{frames: []SensorFrame{{Time: 2.0, Z: 4.0}}}
	c := NewController(platform, NewInspectionPlan(20, 10, 8), nil)

	c.handleCapture(CaptureRequest{Seq: 1, Side: 0, Distance: 5.0})

	if platform.frameCalls != 1 {
		t.Fatalf("lecturas de cámara = %d, want 1", platform.frameCalls)
	}
}
