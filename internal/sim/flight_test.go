package sim

import (
	"testing"

	"github.com/MarcosBrindi/drone-inspector/internal/flight"
)

// TestFullInspectionFlight vuela la misión completa contra la plataforma
// simulada: despegue, cuatro lados con sus giros, aterrizaje.
func TestFullInspectionFlight(t *testing.T) {
	plan := flight.NewInspectionPlan(20.0, 10.0, 8.0)
	platform := NewPlatform(flight.DefaultGains(), 80)
	controller := flight.NewController(platform, plan, nil)

	const dt = 0.008
	const maxTicks = 200000 // ~26 minutos de tiempo simulado, tope de seguridad

	finished := false
	for i := 0; i < maxTicks; i++ {
		platform.Step(dt)
		done, err := controller.Tick()
		if err != nil {
			t.Fatalf("Tick %d: %v", i, err)
		}
		if done {
			finished = true
			break
		}
	}

	if !finished {
		t.Fatalf("el vuelo no terminó en %d ticks (fase final: %v)",
			maxTicks, controller.Phase())
	}

	if controller.Phase() != flight.PhaseDone {
		t.Errorf("fase final = %v, want DONE", controller.Phase())
	}

	// 4 lados × 4 capturas por lado
	if controller.Captures() != 16 {
		t.Errorf("capturas totales = %d, want 16", controller.Captures())
	}

	// Aterrizado: por debajo del umbral de aterrizaje
	frame, _ := platform.Read()
	if frame.Z >= 0.3 {
		t.Errorf("altitud final = %v, want < 0.3", frame.Z)
	}
}

// TestFlightPhaseProgression verifica que las fases aparecen en orden y sin
// retrocesos durante un vuelo completo
func TestFlightPhaseProgression(t *testing.T) {
	plan := flight.NewInspectionPlan(12.0, 6.0, 5.0)
	platform := NewPlatform(flight.DefaultGains(), 80)
	controller := flight.NewController(platform, plan, nil)

	var seen []flight.FlightPhase
	last := flight.FlightPhase(-1)

	const dt = 0.008
	for i := 0; i < 200000; i++ {
		platform.Step(dt)
		done, err := controller.Tick()
		if err != nil {
			t.Fatalf("Tick %d: %v", i, err)
		}

		phase := controller.Phase()
		if phase != last {
			if phase < last {
				t.Fatalf("la fase retrocedió: %v → %v", last, phase)
			}
			seen = append(seen, phase)
			last = phase
		}

		if done {
			break
		}
	}

	want := []flight.FlightPhase{
		flight.PhaseTakeoff,
		flight.PhaseStabilize,
		flight.PhaseSide1,
		flight.PhaseTurn1,
		flight.PhaseSide2,
		flight.PhaseTurn2,
		flight.PhaseSide3,
		flight.PhaseTurn3,
		flight.PhaseSide4,
		flight.PhaseLand,
		flight.PhaseDone,
	}

	if len(seen) != len(want) {
		t.Fatalf("fases vistas = %v, want %v", seen, want)
	}
	for i := range want {
		if seen[i] != want[i] {
			t.Fatalf("fase %d = %v, want %v", i, seen[i], want[i])
		}
	}
}
