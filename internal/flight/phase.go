package flight

// FlightPhase es la fase discreta del vuelo de inspección.
// Las transiciones son unidireccionales y totales:
// Takeoff → Stabilize → Side1 → Turn1 → Side2 → Turn2 → Side3 → Turn3 → Side4 → Land → Done
type FlightPhase int

const (
	PhaseTakeoff FlightPhase = iota
	PhaseStabilize
	PhaseSide1
	PhaseTurn1
	PhaseSide2
	PhaseTurn2
	PhaseSide3
	PhaseTurn3
	PhaseSide4
	PhaseLand
	PhaseDone
)

func (p FlightPhase) String() string {
	return [...]string{
		"TAKEOFF",
		"STABILIZE",
		"SIDE_1",
		"TURN_1",
		"SIDE_2",
		"TURN_2",
		"SIDE_3",
		"TURN_3",
		"SIDE_4",
		"LAND",
		"DONE",
	}[p]
}

// IsSide retorna si la fase es un lado del rectángulo
func (p FlightPhase) IsSide() bool {
	return p == PhaseSide1 || p == PhaseSide2 || p == PhaseSide3 || p == PhaseSide4
}

// IsTurn retorna si la fase es un giro de esquina
func (p FlightPhase) IsTurn() bool {
	return p == PhaseTurn1 || p == PhaseTurn2 || p == PhaseTurn3
}

// SideIndex retorna el índice de lado (0..3) para fases Side; -1 en otro caso
func (p FlightPhase) SideIndex() int {
	switch p {
	case PhaseSide1:
		return 0
	case PhaseSide2:
		return 1
	case PhaseSide3:
		return 2
	case PhaseSide4:
		return 3
	}
	return -1
}
