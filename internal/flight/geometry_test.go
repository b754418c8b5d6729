package flight

import (
	"math"
	"testing"
)

func TestClamp(t *testing.T) {
	cases := []struct {
		value, low, high, want float64
	}{
		{0.5, -1, 1, 0.5},
		{-2.0, -1, 1, -1.0},
		{3.7, -1, 1, 1.0},
		{-1.0, -1, 1, -1.0},
		{1.0, -1, 1, 1.0},
	}

	for _, c := range cases {
		got := Clamp(c.value, c.low, c.high)
		if got != c.want {
			t.Errorf("Clamp(%v, %v, %v) = %v, want %v", c.value, c.low, c.high, got, c.want)
		}
	}
}

func TestNormalizeAngle_Range(t *testing.T) {
	angles := []float64{0, 1.5, -1.5, math.Pi, -math.Pi, 2 * math.Pi, -2 * math.Pi, 7.5, -7.5, 100}

	for _, a := range angles {
		got := NormalizeAngle(a)
		if got <= -math.Pi || got > math.Pi {
			t.Errorf("NormalizeAngle(%v) = %v, fuera de (-π, π]", a, got)
		}
	}
}

func TestNormalizeAngle_Equivalence(t *testing.T) {
	// Sumar vueltas completas no cambia el ángulo normalizado
	for _, a := range []float64{0.3, -0.7, 2.9} {
		want := NormalizeAngle(a)
		got := NormalizeAngle(a + 4*math.Pi)
		if math.Abs(got-want) > 1e-9 {
			t.Errorf("NormalizeAngle(%v + 4π) = %v, want %v", a, got, want)
		}
	}
}

func TestNormalizeAngle_Idempotent(t *testing.T) {
	for _, a := range []float64{0.1, -3.0, 3.1, 9.42} {
		once := NormalizeAngle(a)
		twice := NormalizeAngle(once)
		if once != twice {
			t.Errorf("NormalizeAngle no es idempotente para %v: %v != %v", a, once, twice)
		}
	}
}

func TestDecomposeDisplacement_HeadingZero(t *testing.T) {
	// Con rumbo 0: adelante = +X, derecha = -Y
	forward, right := DecomposeDisplacement(3.0, -4.0, 0)

	if math.Abs(forward-3.0) > 1e-9 {
		t.Errorf("forward = %v, want 3.0", forward)
	}
	if math.Abs(right-4.0) > 1e-9 {
		t.Errorf("right = %v, want 4.0", right)
	}
}

func TestDecomposeDisplacement_HeadingQuarterTurn(t *testing.T) {
	// Con rumbo π/2: adelante = +Y, derecha = +X
	forward, right := DecomposeDisplacement(2.0, 5.0, math.Pi/2)

	if math.Abs(forward-5.0) > 1e-9 {
		t.Errorf("forward = %v, want 5.0", forward)
	}
	if math.Abs(right-2.0) > 1e-9 {
		t.Errorf("right = %v, want 2.0", right)
	}
}

func TestDecomposeDisplacement_PreservesDistance(t *testing.T) {
	// La descomposición es una rotación: conserva la norma del desplazamiento
	cases := []struct{ dx, dy, heading float64 }{
		{1, 0, 0.7},
		{-3, 4, 2.1},
		{10, -10, -0.3},
		{0, 0, 1.0},
	}

	for _, c := range cases {
		forward, right := DecomposeDisplacement(c.dx, c.dy, c.heading)
		want := math.Hypot(c.dx, c.dy)
		got := math.Hypot(forward, right)
		if math.Abs(got-want) > 1e-9 {
			t.Errorf("norma tras descomponer (%v,%v,h=%v) = %v, want %v",
				c.dx, c.dy, c.heading, got, want)
		}
	}
}
